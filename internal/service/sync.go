package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/iliyamo/yoga-studio-booking/internal/logger"
)

const (
	MsgSyncOffline   = "No network connection available"
	MsgSyncFailed    = "Failed to retrieve courses"
	MsgSyncNoCourses = "No courses to sync"
	MsgSyncDone      = "Data synchronized successfully"
)

// SyncResult reports the outcome of a full sync.
type SyncResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	Courses        int    `json:"courses"`
	ClassInstances int    `json:"classInstances"`
	FailedCourses  int    `json:"failedCourses"`
}

// Sync re-reads the whole catalog from MySQL and refreshes the course cache.
type Sync struct {
	catalog *Catalog
	online  func(ctx context.Context) bool
	log     zerolog.Logger
}

// NewSync builds a Sync. online may be nil, meaning always online.
func NewSync(catalog *Catalog, online func(ctx context.Context) bool) *Sync {
	return &Sync{catalog: catalog, online: online, log: logger.With("sync")}
}

// SyncAll loads every course, then every course's class instances
// concurrently, and reports success once all of them have completed.
func (s *Sync) SyncAll(ctx context.Context) SyncResult {
	if s.online != nil && !s.online(ctx) {
		return SyncResult{Message: MsgSyncOffline}
	}

	courses, err := s.catalog.courses.ListAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("sync: list courses failed")
		return SyncResult{Message: MsgSyncFailed}
	}
	s.catalog.cache.Reset(ctx)
	s.catalog.cache.PutCourses(ctx, courses)
	if len(courses) == 0 {
		return SyncResult{Success: true, Message: MsgSyncNoCourses}
	}

	var (
		wg        sync.WaitGroup
		instances atomic.Int64
		failed    atomic.Int64
	)
	for _, c := range courses {
		wg.Add(1)
		go func(courseID string) {
			defer wg.Done()
			items, err := s.catalog.instances.ListByCourse(ctx, courseID)
			if err != nil {
				failed.Add(1)
				s.log.Warn().Err(err).Str("course_id", courseID).Msg("sync: class instances not loaded")
				return
			}
			instances.Add(int64(len(items)))
		}(c.ID)
	}
	wg.Wait()

	res := SyncResult{
		Success:        true,
		Message:        MsgSyncDone,
		Courses:        len(courses),
		ClassInstances: int(instances.Load()),
		FailedCourses:  int(failed.Load()),
	}
	s.log.Info().Int("courses", res.Courses).Int("instances", res.ClassInstances).
		Int("failed", res.FailedCourses).Msg("sync finished")
	return res
}
