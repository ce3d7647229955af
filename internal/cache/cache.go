// Package cache holds recently read courses so catalog screens can be served
// without a database round trip. Entries expire after a fixed TTL and every
// catalog write invalidates what it touched.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/yoga-studio-booking/internal/config"
	"github.com/iliyamo/yoga-studio-booking/internal/model"
)

// CourseCache is a read-through store in front of the courses table. A miss
// is reported as ok=false, never as an error; callers fall back to MySQL.
type CourseCache interface {
	GetCourse(ctx context.Context, id string) (*model.Course, bool)
	// ListCourses returns the full course list last stored with PutCourses.
	ListCourses(ctx context.Context) ([]model.Course, bool)
	PutCourse(ctx context.Context, c model.Course)
	PutCourses(ctx context.Context, cs []model.Course)
	// Invalidate drops one course and the cached full list.
	Invalidate(ctx context.Context, id string)
	// Reset drops everything.
	Reset(ctx context.Context)
}

// New picks Redis when a client is available and process memory otherwise.
func New(rdb *redis.Client, cfg config.CacheConfig) CourseCache {
	ttl := cfg.CourseTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if rdb != nil {
		return NewRedisCourseCache(rdb, cfg.CoursePrefix, ttl)
	}
	return NewMemoryCourseCache(cfg.CourseCacheSize, ttl)
}
