package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/yoga-studio-booking/internal/logger"
	"github.com/iliyamo/yoga-studio-booking/internal/model"
)

// RedisCourseCache stores JSON-encoded courses under <prefix>:item:<id> and
// the full list under <prefix>:all.
type RedisCourseCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCourseCache(rdb *redis.Client, prefix string, ttl time.Duration) *RedisCourseCache {
	if prefix == "" {
		prefix = "courses"
	}
	return &RedisCourseCache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (r *RedisCourseCache) itemKey(id string) string { return r.prefix + ":item:" + id }
func (r *RedisCourseCache) allKey() string           { return r.prefix + ":all" }

func (r *RedisCourseCache) GetCourse(ctx context.Context, id string) (*model.Course, bool) {
	bs, err := r.rdb.Get(ctx, r.itemKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn().Err(err).Str("course_id", id).Msg("course cache read failed")
		}
		return nil, false
	}
	var c model.Course
	if err := json.Unmarshal(bs, &c); err != nil {
		return nil, false
	}
	return &c, true
}

func (r *RedisCourseCache) ListCourses(ctx context.Context) ([]model.Course, bool) {
	bs, err := r.rdb.Get(ctx, r.allKey()).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn().Err(err).Msg("course cache read failed")
		}
		return nil, false
	}
	var cs []model.Course
	if err := json.Unmarshal(bs, &cs); err != nil || len(cs) == 0 {
		return nil, false
	}
	return cs, true
}

func (r *RedisCourseCache) PutCourse(ctx context.Context, c model.Course) {
	bs, err := json.Marshal(c)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, r.itemKey(c.ID), bs, r.ttl).Err(); err != nil {
		logger.Warn().Err(err).Str("course_id", c.ID).Msg("course cache write failed")
	}
}

// PutCourses stores the list and every course in it in one pipeline.
func (r *RedisCourseCache) PutCourses(ctx context.Context, cs []model.Course) {
	all, err := json.Marshal(cs)
	if err != nil {
		return
	}
	_, err = r.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, r.allKey(), all, r.ttl)
		for _, c := range cs {
			if bs, err := json.Marshal(c); err == nil {
				p.Set(ctx, r.itemKey(c.ID), bs, r.ttl)
			}
		}
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Int("courses", len(cs)).Msg("course cache write failed")
	}
}

func (r *RedisCourseCache) Invalidate(ctx context.Context, id string) {
	if err := r.rdb.Del(ctx, r.itemKey(id), r.allKey()).Err(); err != nil {
		logger.Warn().Err(err).Str("course_id", id).Msg("course cache invalidate failed")
	}
}

// Reset removes every key under the prefix using SCAN so Redis is never blocked.
func (r *RedisCourseCache) Reset(ctx context.Context) {
	iter := r.rdb.Scan(ctx, 0, r.prefix+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Warn().Err(err).Msg("course cache scan failed")
	}
	if len(keys) == 0 {
		return
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.Warn().Err(err).Msg("course cache reset failed")
	}
}
