package config

import "time"

// CacheConfig covers two caches. The response cache stores successful public
// GET bodies in Redis under Prefix. The course cache keeps single courses
// under CoursePrefix, or in an in-process LRU of CourseCacheSize entries when
// Redis is unavailable.
type CacheConfig struct {
    Enabled         bool
    Methods         map[string]bool
    TTL             time.Duration
    KeyStrategy     string
    Prefix          string
    MaxBodyBytes    int
    CourseTTL       time.Duration
    CoursePrefix    string
    CourseCacheSize int
}

func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:         envBool("CACHE_ENABLED", true),
        Methods:         envList("CACHE_METHODS", "GET"),
        TTL:             envDur("CACHE_TTL", 30*time.Second),
        KeyStrategy:     getenv("CACHE_KEY_STRATEGY", "route_query"),
        Prefix:          getenv("CACHE_PREFIX", "cache"),
        MaxBodyBytes:    envInt("CACHE_MAX_BODY_BYTES", 1<<20),
        CourseTTL:       envDur("COURSE_CACHE_TTL", 10*time.Minute),
        CoursePrefix:    getenv("COURSE_CACHE_PREFIX", "courses"),
        CourseCacheSize: envInt("COURSE_CACHE_SIZE", 512),
    }
}
