package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iliyamo/yoga-studio-booking/internal/logger"
	"github.com/iliyamo/yoga-studio-booking/internal/model"
)

// Enrollments books users into class instances.
type Enrollments struct {
	store EnrollmentStore
	log   zerolog.Logger
}

func NewEnrollments(store EnrollmentStore) *Enrollments {
	return &Enrollments{store: store, log: logger.With("enrollments")}
}

// Enroll refuses cancelled instances, full classes and double enrollment.
func (s *Enrollments) Enroll(ctx context.Context, userID uint64, instanceID string) (*model.Enrollment, error) {
	e, err := s.store.Enroll(ctx, userID, instanceID)
	if err != nil {
		return nil, translate(err)
	}
	s.log.Info().Uint64("user_id", userID).Str("instance_id", instanceID).Msg("enrolled")
	return e, nil
}

func (s *Enrollments) Cancel(ctx context.Context, userID uint64, instanceID string) error {
	return translate(s.store.Cancel(ctx, userID, instanceID))
}

func (s *Enrollments) ListForUser(ctx context.Context, userID uint64) ([]model.Enrollment, error) {
	return s.store.ListByUser(ctx, userID)
}

// Taken returns how many places of a class instance are booked.
func (s *Enrollments) Taken(ctx context.Context, instanceID string) (int, error) {
	return s.store.CountByInstance(ctx, instanceID)
}

func (s *Enrollments) MarkAttended(ctx context.Context, enrollmentID string, attended bool) error {
	return translate(s.store.SetAttended(ctx, enrollmentID, attended))
}
