// Package api is a REST-shaped facade over the catalog and the booking
// flow. It carries no transport of its own: every failure comes back as an
// *Error holding the HTTP status the caller should answer with.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iliyamo/yoga-studio-booking/internal/logger"
	"github.com/iliyamo/yoga-studio-booking/internal/model"
	"github.com/iliyamo/yoga-studio-booking/internal/service"
)

// Error is a facade failure with its HTTP status code.
type Error struct {
	Message    string `json:"error"`
	StatusCode int    `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// StatusOf returns the status carried by err, or 500 when err is not an *Error.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return http.StatusInternalServerError
}

// Catalog is the part of service.Catalog the facade reads.
type Catalog interface {
	ListCourses(ctx context.Context) ([]model.Course, error)
	GetCourse(ctx context.Context, id string) (*model.Course, error)
	ListClassInstances(ctx context.Context, courseID string) ([]model.ClassInstance, error)
	GetClassInstance(ctx context.Context, id string) (*model.ClassInstance, error)
}

// Bookings is the part of service.Bookings the facade drives.
type Bookings interface {
	Create(ctx context.Context, email string, classIDs []string) (*model.Booking, error)
	ListByEmail(ctx context.Context, email string) ([]model.Booking, error)
}

type Facade struct {
	catalog  Catalog
	bookings Bookings
	log      zerolog.Logger
}

func NewFacade(catalog Catalog, bookings Bookings) *Facade {
	return &Facade{catalog: catalog, bookings: bookings, log: logger.With("api")}
}

// fail converts a service error into an *Error. notFound is the message
// used for 404s; unavailable is used for everything the caller cannot fix.
func (f *Facade) fail(err error, notFound, unavailable string) *Error {
	switch {
	case service.IsNotFound(err):
		return &Error{Message: notFound, StatusCode: http.StatusNotFound}
	case errors.Is(err, service.ErrNoClassInstances):
		return &Error{Message: "No class instances provided", StatusCode: http.StatusBadRequest}
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrClassCancelled):
		return &Error{Message: err.Error(), StatusCode: http.StatusBadRequest}
	}
	f.log.Error().Err(err).Msg(unavailable)
	return &Error{Message: unavailable, StatusCode: http.StatusServiceUnavailable}
}

func (f *Facade) GetCourses(ctx context.Context) ([]model.Course, error) {
	courses, err := f.catalog.ListCourses(ctx)
	if err != nil {
		return nil, f.fail(err, "Course not found", "Failed to fetch courses")
	}
	return courses, nil
}

func (f *Facade) GetCourseByID(ctx context.Context, id string) (*model.Course, error) {
	c, err := f.catalog.GetCourse(ctx, id)
	if err != nil {
		return nil, f.fail(err, "Course not found", "Failed to fetch course")
	}
	return c, nil
}

func (f *Facade) GetClassInstancesByCourse(ctx context.Context, courseID string) ([]model.ClassInstance, error) {
	items, err := f.catalog.ListClassInstances(ctx, courseID)
	if err != nil {
		return nil, f.fail(err, "Course not found", "Failed to fetch class instances")
	}
	return items, nil
}

func (f *Facade) GetClassInstanceByID(ctx context.Context, id string) (*model.ClassInstance, error) {
	ci, err := f.catalog.GetClassInstance(ctx, id)
	if err != nil {
		return nil, f.fail(err, "Class instance not found", "Failed to fetch class instance")
	}
	return ci, nil
}

// CreateBooking books classIDs for email. An empty list is a 400.
func (f *Facade) CreateBooking(ctx context.Context, email string, classIDs []string) (*model.Booking, error) {
	if len(classIDs) == 0 {
		return nil, &Error{Message: "No class instances provided", StatusCode: http.StatusBadRequest}
	}
	b, err := f.bookings.Create(ctx, email, classIDs)
	if err != nil {
		return nil, f.fail(err, "Class instance not found", "Failed to create booking")
	}
	return b, nil
}

func (f *Facade) GetBookingsByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	list, err := f.bookings.ListByEmail(ctx, email)
	if err != nil {
		return nil, f.fail(err, "Booking not found", "Failed to fetch bookings")
	}
	return list, nil
}
