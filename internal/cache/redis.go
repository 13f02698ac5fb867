// Package cache keeps API responses in Redis so repeated lookups across
// sessions skip the network. A nil *Redis is a valid, disabled cache.
package cache

import (
	"context"
	"crypto/sha1"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect dials Redis and pings it with a short timeout.
func Connect(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

// Redis is a response cache with a fixed TTL.
type Redis struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis wraps rdb. Keys are namespaced under prefix.
func NewRedis(rdb *redis.Client, prefix string, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Redis{rdb: rdb, prefix: prefix, ttl: ttl}
}

// Key hashes the request parameters into a stable namespaced key.
func (r *Redis) Key(params string) string {
	sum := sha1.Sum([]byte(params))
	return fmt.Sprintf("%s:%x", r.prefix, sum[:])
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	if r == nil {
		return nil, false
	}
	bs, err := r.rdb.Get(ctx, r.Key(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Debug("cache get failed", "err", err)
		}
		return nil, false
	}
	return bs, true
}

// Set stores value. The write uses a background context so that a request
// cancelled right after its response arrived still populates the cache.
func (r *Redis) Set(_ context.Context, key string, value []byte) {
	if r == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := r.rdb.SetEx(ctx, r.Key(key), value, r.ttl).Err(); err != nil {
		slog.Debug("cache set failed", "err", err)
	}
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	if r == nil {
		return nil
	}
	return r.rdb.Close()
}
