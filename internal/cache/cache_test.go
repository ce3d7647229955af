package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/yoga-studio-booking/internal/config"
	"github.com/iliyamo/yoga-studio-booking/internal/model"
)

func newRedisCache(t *testing.T) (*RedisCourseCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisCourseCache(rdb, "courses", time.Minute), mr
}

func sampleCourses() []model.Course {
	return []model.Course{
		{ID: "c1", Name: "Morning Vinyasa Flow", DayOfWeek: "Monday", ClassInstanceIDs: []string{"i1"}},
		{ID: "c2", Name: "Power Yoga", DayOfWeek: "Friday", ClassInstanceIDs: []string{}},
	}
}

// Both implementations must behave the same way.
func implementations(t *testing.T) map[string]CourseCache {
	rc, _ := newRedisCache(t)
	return map[string]CourseCache{
		"redis":  rc,
		"memory": NewMemoryCourseCache(16, time.Minute),
	}
}

func TestCourseCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, cc := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			_, ok := cc.GetCourse(ctx, "c1")
			assert.False(t, ok)
			_, ok = cc.ListCourses(ctx)
			assert.False(t, ok)

			cc.PutCourses(ctx, sampleCourses())

			list, ok := cc.ListCourses(ctx)
			require.True(t, ok)
			assert.Len(t, list, 2)

			c, ok := cc.GetCourse(ctx, "c2")
			require.True(t, ok)
			assert.Equal(t, "Power Yoga", c.Name)
		})
	}
}

func TestCourseCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	for name, cc := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			cc.PutCourses(ctx, sampleCourses())
			cc.Invalidate(ctx, "c1")

			_, ok := cc.GetCourse(ctx, "c1")
			assert.False(t, ok)
			_, ok = cc.ListCourses(ctx)
			assert.False(t, ok, "list must be dropped with any course")
			_, ok = cc.GetCourse(ctx, "c2")
			assert.True(t, ok)
		})
	}
}

func TestCourseCacheReset(t *testing.T) {
	ctx := context.Background()
	for name, cc := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			cc.PutCourses(ctx, sampleCourses())
			cc.PutCourse(ctx, model.Course{ID: "c3"})
			cc.Reset(ctx)

			for _, id := range []string{"c1", "c2", "c3"} {
				_, ok := cc.GetCourse(ctx, id)
				assert.False(t, ok, id)
			}
			_, ok := cc.ListCourses(ctx)
			assert.False(t, ok)
		})
	}
}

func TestRedisCourseCacheTTL(t *testing.T) {
	ctx := context.Background()
	rc, mr := newRedisCache(t)
	rc.PutCourse(ctx, model.Course{ID: "c1"})

	mr.FastForward(2 * time.Minute)

	_, ok := rc.GetCourse(ctx, "c1")
	assert.False(t, ok)
}

func TestRedisResetKeepsOtherPrefixes(t *testing.T) {
	ctx := context.Background()
	rc, mr := newRedisCache(t)
	require.NoError(t, mr.Set("rl:ip:1", "x"))
	rc.PutCourses(ctx, sampleCourses())

	rc.Reset(ctx)

	assert.True(t, mr.Exists("rl:ip:1"))
	assert.False(t, mr.Exists("courses:all"))
}

func TestMemoryCacheCopiesValues(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCourseCache(4, time.Minute)
	c := model.Course{ID: "c1", ClassInstanceIDs: []string{"i1"}}
	mc.PutCourse(ctx, c)
	c.ClassInstanceIDs[0] = "mutated"

	got, ok := mc.GetCourse(ctx, "c1")
	require.True(t, ok)
	assert.Equal(t, []string{"i1"}, got.ClassInstanceIDs)
}

func TestNewPicksImplementation(t *testing.T) {
	cfg := config.CacheConfig{CourseTTL: time.Minute, CoursePrefix: "courses", CourseCacheSize: 8}
	assert.IsType(t, &MemoryCourseCache{}, New(nil, cfg))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	assert.IsType(t, &RedisCourseCache{}, New(rdb, cfg))
}
