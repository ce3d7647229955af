// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios without inspecting driver errors.
package repository

import "errors"

var (
	ErrCourseNotFound        = errors.New("course not found")
	ErrClassInstanceNotFound = errors.New("class instance not found")
	ErrEnrollmentNotFound    = errors.New("enrollment not found")
	ErrInstructorNotFound    = errors.New("instructor not found")

	// ErrClassCancelled is returned when enrolling into a cancelled class instance.
	ErrClassCancelled = errors.New("class instance is cancelled")
	// ErrClassFull is returned when a class instance has reached its course capacity.
	ErrClassFull = errors.New("class instance is full")
	// ErrAlreadyEnrolled is returned when the user already holds an enrollment.
	ErrAlreadyEnrolled = errors.New("already enrolled")
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// isDuplicate reports whether err is a MySQL duplicate key violation (1062).
func isDuplicate(err error) bool {
	return err != nil && containsCode(err.Error(), "1062")
}
