package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/iliyamo/yoga-studio-booking/internal/model"
)

const allKey = "\x00all"

// MemoryCourseCache is the in-process fallback used when Redis is not
// configured. Values are copied on the way in and out so callers cannot
// mutate cached state.
type MemoryCourseCache struct {
	items *expirable.LRU[string, model.Course]
	list  *expirable.LRU[string, []model.Course]
}

func NewMemoryCourseCache(size int, ttl time.Duration) *MemoryCourseCache {
	if size <= 0 {
		size = 512
	}
	return &MemoryCourseCache{
		items: expirable.NewLRU[string, model.Course](size, nil, ttl),
		list:  expirable.NewLRU[string, []model.Course](1, nil, ttl),
	}
}

func (m *MemoryCourseCache) GetCourse(_ context.Context, id string) (*model.Course, bool) {
	c, ok := m.items.Get(id)
	if !ok {
		return nil, false
	}
	c = cloneCourse(c)
	return &c, true
}

func (m *MemoryCourseCache) ListCourses(_ context.Context) ([]model.Course, bool) {
	cs, ok := m.list.Get(allKey)
	if !ok || len(cs) == 0 {
		return nil, false
	}
	return cloneCourses(cs), true
}

func (m *MemoryCourseCache) PutCourse(_ context.Context, c model.Course) {
	m.items.Add(c.ID, cloneCourse(c))
}

func (m *MemoryCourseCache) PutCourses(_ context.Context, cs []model.Course) {
	m.list.Add(allKey, cloneCourses(cs))
	for _, c := range cs {
		m.items.Add(c.ID, cloneCourse(c))
	}
}

func (m *MemoryCourseCache) Invalidate(_ context.Context, id string) {
	m.items.Remove(id)
	m.list.Remove(allKey)
}

func (m *MemoryCourseCache) Reset(_ context.Context) {
	m.items.Purge()
	m.list.Purge()
}

func cloneCourse(c model.Course) model.Course {
	c.ClassInstanceIDs = append([]string(nil), c.ClassInstanceIDs...)
	if c.AdditionalFields != nil {
		fields := make(map[string]any, len(c.AdditionalFields))
		for k, v := range c.AdditionalFields {
			fields[k] = v
		}
		c.AdditionalFields = fields
	}
	return c
}

func cloneCourses(cs []model.Course) []model.Course {
	out := make([]model.Course, len(cs))
	for i, c := range cs {
		out[i] = cloneCourse(c)
	}
	return out
}
