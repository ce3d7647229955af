package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/yoga-studio-booking/internal/model"
)

// Bookings is the legacy booking flow reached through the REST facade. It
// is kept apart from Enrollments and the two are never reconciled.
type Bookings struct {
	store     BookingStore
	instances ClassInstanceStore
	catalog   *Catalog
}

func NewBookings(store BookingStore, instances ClassInstanceStore, catalog *Catalog) *Bookings {
	return &Bookings{store: store, instances: instances, catalog: catalog}
}

// Create books the listed class instances for email. The total is the sum
// of the parent courses' prices.
func (s *Bookings) Create(ctx context.Context, email string, classIDs []string) (*model.Booking, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email cannot be empty", ErrValidation)
	}
	if len(classIDs) == 0 {
		return nil, ErrNoClassInstances
	}

	b := &model.Booking{UserEmail: email, ClassIDs: make([]string, 0, len(classIDs))}
	seen := make(map[string]bool, len(classIDs))
	for _, id := range classIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		ci, err := s.instances.GetByID(ctx, id)
		if err != nil {
			return nil, translate(err)
		}
		if ci.IsCancelled {
			return nil, fmt.Errorf("%w: %s", ErrClassCancelled, id)
		}
		course, err := s.catalog.GetCourse(ctx, ci.CourseID)
		if err != nil {
			return nil, err
		}
		b.ClassIDs = append(b.ClassIDs, id)
		b.TotalAmount += course.Price
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return b, nil
}

func (s *Bookings) ListByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email cannot be empty", ErrValidation)
	}
	return s.store.ListByEmail(ctx, email)
}
