package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisOptions configures the warm-cache Redis connection, mirroring the
// URL-or-host/port fallback the teacher's caching client used.
type RedisOptions struct {
	URL      string
	Host     string
	Port     string
	Password string
}

// RedisStore is a thin Get/Set wrapper over go-redis, scoped to this
// process's own client rather than a package-level global.
type RedisStore struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewRedisStore connects and pings once; a failed connection is not fatal
// to the caller — the reference cache simply falls back to a live populate.
func NewRedisStore(opts RedisOptions, log zerolog.Logger) (*RedisStore, error) {
	var ropts *redis.Options
	if opts.URL != "" {
		parsed, err := redis.ParseURL(opts.URL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		ropts = parsed
	} else {
		host := opts.Host
		if host == "" {
			host = "localhost"
		}
		port := opts.Port
		if port == "" {
			port = "6379"
		}
		ropts = &redis.Options{Addr: fmt.Sprintf("%s:%s", host, port), Password: opts.Password}
	}

	ropts.PoolSize = 10
	ropts.MinIdleConns = 5
	ropts.DialTimeout = 5 * time.Second
	ropts.ReadTimeout = 3 * time.Second
	ropts.WriteTimeout = 3 * time.Second
	ropts.PoolTimeout = 4 * time.Second

	client := redis.NewClient(ropts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	log.Info().Str("addr", ropts.Addr).Msg("warm cache connected")
	return &RedisStore{client: client, log: log}, nil
}

// GetJSON reads and unmarshals key into dest, returning found=false on a
// cache miss without treating it as an error.
func (r *RedisStore) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("warm cache get: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("warm cache unmarshal: %w", err)
	}
	return true, nil
}

// SetJSON marshals value and stores it with the given TTL (0 = no expiry).
func (r *RedisStore) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("warm cache marshal: %w", err)
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("warm cache set: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
