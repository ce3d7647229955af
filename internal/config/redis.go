package config

import (
    "context"
    "crypto/tls"
    "fmt"
    "net"
    "time"

    "github.com/redis/go-redis/v9"
)

// RedisConfig locates the Redis server shared by the course cache, the
// response cache and the rate limiter.
type RedisConfig struct {
    Addr        string
    Password    string
    DB          int
    TLS         bool
    TLSInsecure bool
    DialTimeout time.Duration
}

// LoadRedisConfig reads REDIS_*. REDIS_HOST plus REDIS_PORT win over
// REDIS_ADDR.
func LoadRedisConfig() RedisConfig {
    addr := getenv("REDIS_ADDR", "localhost:6379")
    if host, port := getenv("REDIS_HOST", ""), getenv("REDIS_PORT", ""); host != "" && port != "" {
        addr = net.JoinHostPort(host, port)
    }
    return RedisConfig{
        Addr:        addr,
        Password:    getenv("REDIS_PASSWORD", ""),
        DB:          envInt("REDIS_DB", 0),
        TLS:         envBool("REDIS_TLS", false),
        TLSInsecure: envBool("REDIS_TLS_INSECURE", false),
        DialTimeout: envDur("REDIS_DIAL_TIMEOUT", 2*time.Second),
    }
}

func (c RedisConfig) options() *redis.Options {
    opts := &redis.Options{
        Addr:        c.Addr,
        Password:    c.Password,
        DB:          c.DB,
        DialTimeout: c.DialTimeout,
    }
    if c.TLS {
        host, _, _ := net.SplitHostPort(c.Addr)
        opts.TLSConfig = &tls.Config{ServerName: host, InsecureSkipVerify: c.TLSInsecure}
    }
    return opts
}

// NewRedisClient connects and pings once. On error the client is closed and
// callers run without Redis: no rate limiting, no response cache, and an
// in-memory course cache.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
    client := redis.NewClient(cfg.options())
    ctx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        _ = client.Close()
        return nil, fmt.Errorf("redis %s: %w", cfg.Addr, err)
    }
    return client, nil
}
