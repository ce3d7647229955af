package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/yoga-studio-booking/internal/logger"
	"github.com/iliyamo/yoga-studio-booking/internal/model"
)

var sampleInstructors = []model.Instructor{
	{
		Name:           "Sarah Johnson",
		Email:          "sarah.johnson@yogastudio.com",
		Bio:            "Sarah has been practicing yoga for over 10 years and teaching for 5. She specializes in Vinyasa and Hatha yoga.",
		Certifications: "RYT-200, Yoga Alliance",
	},
	{
		Name:           "Michael Chen",
		Email:          "michael.chen@yogastudio.com",
		Bio:            "Michael discovered yoga during his recovery from a sports injury and has been teaching gentle and restorative yoga for 3 years.",
		Certifications: "RYT-500, Yin Yoga Certification",
	},
	{
		Name:           "Jessica Miller",
		Email:          "jessica.miller@yogastudio.com",
		Bio:            "Jessica is a former athlete who brings energy and strength to her power yoga classes. She has been teaching for 7 years.",
		Certifications: "RYT-200, Power Yoga Certification",
	},
}

type sampleCourse struct {
	course  model.Course
	teacher string
}

var sampleCourses = []sampleCourse{
	{model.Course{
		Name: "Morning Vinyasa Flow", Type: "Flow Yoga", DayOfWeek: "Monday", Time: "07:00",
		Capacity: 15, Duration: 60, Price: 20,
		Description: "Start your day with an energizing Vinyasa flow that will awaken your body and mind. This class focuses on linking breath with movement to create a dynamic and fluid practice.",
	}, "Sarah Johnson"},
	{model.Course{
		Name: "Gentle Hatha Yoga", Type: "Hatha", DayOfWeek: "Wednesday", Time: "17:00",
		Capacity: 20, Duration: 75, Price: 18,
		Description: "A slow-paced class focusing on basic yoga postures and alignment. Perfect for beginners or those looking for a more relaxed practice.",
	}, "Michael Chen"},
	{model.Course{
		Name: "Power Yoga", Type: "Power Yoga", DayOfWeek: "Saturday", Time: "09:00",
		Capacity: 15, Duration: 60, Price: 22,
		Description: "A vigorous, fitness-based approach to vinyasa-style yoga. This class will challenge your strength and endurance while helping you build flexibility.",
	}, "Jessica Miller"},
}

// Seeder fills an empty studio with sample instructors, courses and one
// upcoming class per course.
type Seeder struct {
	catalog     *Catalog
	instructors InstructorStore
	log         zerolog.Logger
}

func NewSeeder(catalog *Catalog, instructors InstructorStore) *Seeder {
	return &Seeder{catalog: catalog, instructors: instructors, log: logger.With("seed")}
}

// Seed does nothing when any course exists. It reports whether data was added.
func (s *Seeder) Seed(ctx context.Context) (bool, error) {
	n, err := s.catalog.courses.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count courses: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	if existing, err := s.instructors.Count(ctx); err != nil {
		return false, fmt.Errorf("count instructors: %w", err)
	} else if existing == 0 {
		for _, in := range sampleInstructors {
			if err := s.instructors.Create(ctx, &in); err != nil {
				return false, fmt.Errorf("seed instructor %s: %w", in.Name, err)
			}
		}
	}

	now := s.catalog.now()
	for _, sc := range sampleCourses {
		c := sc.course
		if err := s.catalog.CreateCourse(ctx, &c); err != nil {
			return false, fmt.Errorf("seed course %s: %w", c.Name, err)
		}
		ci := &model.ClassInstance{
			CourseID:    c.ID,
			Date:        nextOccurrence(now, c.DayOfWeek, c.Time, s.catalog.loc),
			TeacherName: sc.teacher,
		}
		if err := s.catalog.AddClassInstance(ctx, ci); err != nil {
			return false, fmt.Errorf("seed class for %s: %w", c.Name, err)
		}
	}
	s.log.Info().Int("courses", len(sampleCourses)).Msg("sample data seeded")
	return true, nil
}

// nextOccurrence returns the first day strictly after from that falls on day,
// at hh:mm in loc.
func nextOccurrence(from time.Time, day, hhmm string, loc *time.Location) time.Time {
	clock, err := time.Parse("15:04", hhmm)
	if err != nil {
		clock = time.Date(0, 1, 1, 9, 0, 0, 0, time.UTC)
	}
	local := from.In(loc)
	for i := 1; i <= 7; i++ {
		d := local.AddDate(0, 0, i)
		if model.SameWeekday(day, d, loc) {
			return time.Date(d.Year(), d.Month(), d.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
		}
	}
	return local
}
