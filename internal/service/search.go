package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/yoga-studio-booking/internal/logger"
	"github.com/iliyamo/yoga-studio-booking/internal/model"
)

// Search answers the class-finder queries.
type Search struct {
	courses   CourseStore
	instances ClassInstanceStore
	loc       *time.Location
	log       zerolog.Logger
}

func NewSearch(courses CourseStore, instances ClassInstanceStore, loc *time.Location) *Search {
	if loc == nil {
		loc = time.UTC
	}
	return &Search{courses: courses, instances: instances, loc: loc, log: logger.With("search")}
}

// CoursesByDay returns the courses configured for a weekday.
func (s *Search) CoursesByDay(ctx context.Context, day string) ([]model.Course, error) {
	canonical, ok := model.CanonicalWeekday(day)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a day of the week", ErrValidation, day)
	}
	return s.courses.ListByDay(ctx, canonical)
}

// ByDay returns the class instances of every course held on day. One query
// runs per course and the results are joined once all of them have finished.
// A failed sub-query contributes nothing and is only logged; the join
// itself never fails.
func (s *Search) ByDay(ctx context.Context, day string) ([]model.ClassInstance, error) {
	courses, err := s.CoursesByDay(ctx, day)
	if err != nil {
		return nil, err
	}
	out := []model.ClassInstance{}
	if len(courses) == 0 {
		return out, nil
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, c := range courses {
		wg.Add(1)
		go func(courseID string) {
			defer wg.Done()
			items, err := s.instances.ListByCourse(ctx, courseID)
			if err != nil {
				s.log.Warn().Err(err).Str("course_id", courseID).Msg("search by day: dropping course")
				return
			}
			mu.Lock()
			out = append(out, items...)
			mu.Unlock()
		}(c.ID)
	}
	wg.Wait()

	sortInstances(out)
	return out, nil
}

// ByTeacher returns instances whose teacher name starts with prefix.
func (s *Search) ByTeacher(ctx context.Context, prefix string) ([]model.ClassInstance, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, fmt.Errorf("%w: teacher name cannot be empty", ErrValidation)
	}
	return s.instances.SearchByTeacherPrefix(ctx, prefix)
}

// ByDate returns instances held on the calendar day of date in the studio zone.
func (s *Search) ByDate(ctx context.Context, date time.Time) ([]model.ClassInstance, error) {
	from, to := model.DayBounds(date, s.loc)
	return s.instances.ListBetween(ctx, from, to)
}

func sortInstances(items []model.ClassInstance) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.Before(items[j].Date)
		}
		return items[i].ID < items[j].ID
	})
}
