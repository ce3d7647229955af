package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/yoga-studio-booking/internal/cache"
	"github.com/iliyamo/yoga-studio-booking/internal/logger"
	"github.com/iliyamo/yoga-studio-booking/internal/model"
)

// cancellationNotifier is told when an instance flips to cancelled.
type cancellationNotifier interface {
	ClassCancelled(ctx context.Context, ci model.ClassInstance)
}

// Catalog manages courses and their class instances. Course reads go to the
// cache first and fall back to MySQL; every write invalidates the cache.
type Catalog struct {
	courses   CourseStore
	instances ClassInstanceStore
	cache     cache.CourseCache
	notifier  cancellationNotifier
	loc       *time.Location
	now       func() time.Time
	log       zerolog.Logger
}

// NewCatalog wires a Catalog. loc is the studio time zone used by the
// weekday rule; nil means UTC.
func NewCatalog(courses CourseStore, instances ClassInstanceStore, cc cache.CourseCache, loc *time.Location) *Catalog {
	if loc == nil {
		loc = time.UTC
	}
	return &Catalog{
		courses:   courses,
		instances: instances,
		cache:     cc,
		loc:       loc,
		now:       time.Now,
		log:       logger.With("catalog"),
	}
}

// SetNotifier enables the automatic "Class Cancelled" notification.
func (s *Catalog) SetNotifier(n cancellationNotifier) { s.notifier = n }

// Location returns the studio time zone.
func (s *Catalog) Location() *time.Location { return s.loc }

// ListCourses returns every course, from the cache when it holds the list.
func (s *Catalog) ListCourses(ctx context.Context) ([]model.Course, error) {
	if cs, ok := s.cache.ListCourses(ctx); ok {
		return cs, nil
	}
	cs, err := s.courses.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	s.cache.PutCourses(ctx, cs)
	return cs, nil
}

// GetCourse returns one course, from the cache when possible.
func (s *Catalog) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	if c, ok := s.cache.GetCourse(ctx, id); ok {
		return c, nil
	}
	c, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	s.cache.PutCourse(ctx, *c)
	return c, nil
}

func normalizeCourse(c *model.Course) error {
	if c == nil {
		return fmt.Errorf("%w: course is nil", ErrValidation)
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}
	day, ok := model.CanonicalWeekday(c.DayOfWeek)
	if !ok {
		return fmt.Errorf("%w: %q is not a day of the week", ErrValidation, c.DayOfWeek)
	}
	c.DayOfWeek = day
	if c.Capacity <= 0 || c.Duration <= 0 || c.Price < 0 {
		return fmt.Errorf("%w: capacity and duration must be positive, price not negative", ErrValidation)
	}
	return nil
}

func (s *Catalog) CreateCourse(ctx context.Context, c *model.Course) error {
	if err := normalizeCourse(c); err != nil {
		return err
	}
	if err := s.courses.Create(ctx, c); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	s.cache.Invalidate(ctx, c.ID)
	s.log.Info().Str("course_id", c.ID).Str("name", c.Name).Msg("course created")
	return nil
}

// UpdateCourse rewrites a course. Existing class instances are not
// re-validated against a changed day of the week.
func (s *Catalog) UpdateCourse(ctx context.Context, c *model.Course) error {
	if err := normalizeCourse(c); err != nil {
		return err
	}
	err := s.courses.Update(ctx, c)
	s.cache.Invalidate(ctx, c.ID)
	if err != nil {
		return translate(err)
	}
	return nil
}

// DeleteCourse removes a course with all of its class instances and
// reports how many instances were removed.
func (s *Catalog) DeleteCourse(ctx context.Context, id string) (int, error) {
	n, err := s.courses.Delete(ctx, id)
	s.cache.Invalidate(ctx, id)
	if err != nil {
		return 0, translate(err)
	}
	s.log.Info().Str("course_id", id).Int("instances", n).Msg("course deleted")
	return n, nil
}

// checkWeekday loads the parent course and enforces the weekday rule.
func (s *Catalog) checkWeekday(ctx context.Context, ci *model.ClassInstance) (*model.Course, error) {
	course, err := s.GetCourse(ctx, ci.CourseID)
	if err != nil {
		return nil, err
	}
	if !model.SameWeekday(course.DayOfWeek, ci.Date, s.loc) {
		s.log.Warn().
			Str("course_id", course.ID).
			Str("course_day", course.DayOfWeek).
			Str("date_day", model.WeekdayName(ci.Date, s.loc)).
			Msg("class instance date does not match course day of week")
		return nil, fmt.Errorf("%w: %s is a %s, course runs on %s", ErrWeekdayMismatch,
			ci.Date.In(s.loc).Format("2006-01-02"), model.WeekdayName(ci.Date, s.loc), course.DayOfWeek)
	}
	return course, nil
}

// AddClassInstance schedules a new occurrence of a course. The instance is
// written together with the course's classInstanceIds.
func (s *Catalog) AddClassInstance(ctx context.Context, ci *model.ClassInstance) error {
	ci.TeacherName = strings.TrimSpace(ci.TeacherName)
	if ci.TeacherName == "" {
		return fmt.Errorf("%w: teacher name cannot be empty", ErrValidation)
	}
	if _, err := s.checkWeekday(ctx, ci); err != nil {
		return err
	}
	err := s.instances.Create(ctx, ci)
	s.cache.Invalidate(ctx, ci.CourseID)
	if err != nil {
		return translate(err)
	}
	s.log.Info().Str("course_id", ci.CourseID).Str("instance_id", ci.ID).Msg("class instance added")
	return nil
}

// UpdateClassInstance rewrites an instance. The parent course never changes;
// flipping isCancelled on notifies the course's followers.
func (s *Catalog) UpdateClassInstance(ctx context.Context, ci *model.ClassInstance) error {
	existing, err := s.instances.GetByID(ctx, ci.ID)
	if err != nil {
		return translate(err)
	}
	ci.CourseID = existing.CourseID
	ci.TeacherName = strings.TrimSpace(ci.TeacherName)
	if ci.TeacherName == "" {
		return fmt.Errorf("%w: teacher name cannot be empty", ErrValidation)
	}
	if _, err := s.checkWeekday(ctx, ci); err != nil {
		return err
	}
	if err := s.instances.Update(ctx, ci); err != nil {
		return translate(err)
	}
	s.cache.Invalidate(ctx, ci.CourseID)
	if ci.IsCancelled && !existing.IsCancelled && s.notifier != nil {
		s.notifier.ClassCancelled(ctx, *ci)
	}
	return nil
}

func (s *Catalog) DeleteClassInstance(ctx context.Context, id string) error {
	courseID, err := s.instances.Delete(ctx, id)
	if err != nil {
		return translate(err)
	}
	s.cache.Invalidate(ctx, courseID)
	return nil
}

func (s *Catalog) GetClassInstance(ctx context.Context, id string) (*model.ClassInstance, error) {
	ci, err := s.instances.GetByID(ctx, id)
	return ci, translate(err)
}

// ListClassInstances returns every instance of a course. An unknown course
// yields an empty list.
func (s *Catalog) ListClassInstances(ctx context.Context, courseID string) ([]model.ClassInstance, error) {
	return s.instances.ListByCourse(ctx, courseID)
}

// UpcomingClassInstances returns the instances of a course from now on.
func (s *Catalog) UpcomingClassInstances(ctx context.Context, courseID string) ([]model.ClassInstance, error) {
	return s.instances.ListUpcomingByCourse(ctx, courseID, s.now())
}

// ResetAll deletes every course and class instance and empties the cache.
func (s *Catalog) ResetAll(ctx context.Context) error {
	err := s.courses.DeleteAll(ctx)
	s.cache.Reset(ctx)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	s.log.Warn().Msg("all courses and class instances deleted")
	return nil
}

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCourseNotFound) || errors.Is(err, ErrClassInstanceNotFound) ||
		errors.Is(err, ErrEnrollmentNotFound) || errors.Is(err, ErrInstructorNotFound)
}
