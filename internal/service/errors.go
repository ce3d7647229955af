// Package service holds the studio's business rules on top of the
// repositories: the weekday check, search, enrollment, notifications and
// sync. Handlers only talk to this package.
package service

import (
	"errors"

	"github.com/iliyamo/yoga-studio-booking/internal/repository"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrCourseNotFound        = errors.New("course not found")
	ErrClassInstanceNotFound = errors.New("class instance not found")
	ErrEnrollmentNotFound    = errors.New("enrollment not found")
	ErrInstructorNotFound    = errors.New("instructor not found")

	// ErrWeekdayMismatch rejects a class instance whose date does not fall
	// on its course's day of the week.
	ErrWeekdayMismatch = errors.New("class instance date does not match course day of week")

	ErrClassCancelled  = errors.New("class instance is cancelled")
	ErrClassFull       = errors.New("class instance is full")
	ErrAlreadyEnrolled = errors.New("already enrolled in this class")

	ErrNoClassInstances = errors.New("no class instances provided")
)

var repoErrors = map[error]error{
	repository.ErrCourseNotFound:        ErrCourseNotFound,
	repository.ErrClassInstanceNotFound: ErrClassInstanceNotFound,
	repository.ErrEnrollmentNotFound:    ErrEnrollmentNotFound,
	repository.ErrInstructorNotFound:    ErrInstructorNotFound,
	repository.ErrClassCancelled:        ErrClassCancelled,
	repository.ErrClassFull:             ErrClassFull,
	repository.ErrAlreadyEnrolled:       ErrAlreadyEnrolled,
}

// translate maps repository sentinels onto this package's; anything else is
// returned untouched.
func translate(err error) error {
	if err == nil {
		return nil
	}
	for from, to := range repoErrors {
		if errors.Is(err, from) {
			return to
		}
	}
	return err
}
