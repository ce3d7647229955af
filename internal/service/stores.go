package service

import (
	"context"
	"time"

	"github.com/iliyamo/yoga-studio-booking/internal/model"
)

// The store interfaces are satisfied by the MySQL repositories and by the
// in-memory fakes used in tests.

type CourseStore interface {
	Create(ctx context.Context, c *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	ListAll(ctx context.Context) ([]model.Course, error)
	ListByDay(ctx context.Context, day string) ([]model.Course, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, c *model.Course) error
	Delete(ctx context.Context, id string) (int, error)
	DeleteAll(ctx context.Context) error
}

type ClassInstanceStore interface {
	Create(ctx context.Context, ci *model.ClassInstance) error
	Update(ctx context.Context, ci *model.ClassInstance) error
	GetByID(ctx context.Context, id string) (*model.ClassInstance, error)
	ListByCourse(ctx context.Context, courseID string) ([]model.ClassInstance, error)
	ListUpcomingByCourse(ctx context.Context, courseID string, from time.Time) ([]model.ClassInstance, error)
	SearchByTeacherPrefix(ctx context.Context, prefix string) ([]model.ClassInstance, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]model.ClassInstance, error)
	Delete(ctx context.Context, id string) (string, error)
}

type EnrollmentStore interface {
	Enroll(ctx context.Context, userID uint64, instanceID string) (*model.Enrollment, error)
	Cancel(ctx context.Context, userID uint64, instanceID string) error
	ListByUser(ctx context.Context, userID uint64) ([]model.Enrollment, error)
	CountByInstance(ctx context.Context, instanceID string) (int, error)
	SetAttended(ctx context.Context, id string, attended bool) error
}

type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	ListByEmail(ctx context.Context, email string) ([]model.Booking, error)
}

type InstructorStore interface {
	Create(ctx context.Context, in *model.Instructor) error
	GetByID(ctx context.Context, id string) (*model.Instructor, error)
	ListAll(ctx context.Context) ([]model.Instructor, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, in *model.Instructor) error
	Delete(ctx context.Context, id string) error
}

type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByCourse(ctx context.Context, courseID string) ([]model.Notification, error)
}

type SubscriptionStore interface {
	Subscribe(ctx context.Context, userID uint64, topic string) error
	Unsubscribe(ctx context.Context, userID uint64, topic string) error
	ListByUser(ctx context.Context, userID uint64) ([]model.TopicSubscription, error)
}
