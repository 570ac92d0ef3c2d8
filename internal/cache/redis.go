package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// RedisOptions tunes the Redis backend.
type RedisOptions struct {
	// Timeout bounds every single-key operation.
	Timeout time.Duration
	// ScanTimeout bounds a whole SCAN+DEL sweep.
	ScanTimeout time.Duration
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

func (o RedisOptions) withDefaults() RedisOptions {
	if o.Timeout <= 0 {
		o.Timeout = 200 * time.Millisecond
	}
	if o.ScanTimeout <= 0 {
		o.ScanTimeout = 5 * time.Second
	}
	if o.FailureThreshold == 0 {
		o.FailureThreshold = 5
	}
	if o.OpenTimeout <= 0 {
		o.OpenTimeout = 30 * time.Second
	}
	return o
}

const scanBatch = 500

// RedisBackend stores entries in Redis. Every call goes through a circuit
// breaker so an unreachable Redis costs one fast error instead of a timeout.
type RedisBackend struct {
	client  redis.UniversalClient
	opts    RedisOptions
	breaker *gobreaker.CircuitBreaker[any]
}

// NewRedisBackend wraps a go-redis client.
func NewRedisBackend(client redis.UniversalClient, opts RedisOptions) *RedisBackend {
	opts = opts.withDefaults()
	r := &RedisBackend{client: client, opts: opts}

	r.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    "redis-cache",
		Timeout: opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrMiss)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("cache circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			breakerState.Set(float64(to))
		},
	})
	return r
}

// State exposes the breaker state.
func (r *RedisBackend) State() gobreaker.State {
	return r.breaker.State()
}

func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.do(ctx, r.opts.Timeout, func(ctx context.Context) (any, error) {
		b, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return b, err
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (r *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := r.do(ctx, r.opts.Timeout, func(ctx context.Context) (any, error) {
		return nil, r.client.Set(ctx, key, value, ttl).Err()
	})
	return err
}

func (r *RedisBackend) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := r.do(ctx, r.opts.Timeout, func(ctx context.Context) (any, error) {
		return nil, r.client.Del(ctx, keys...).Err()
	})
	return err
}

// DeletePattern collects matches with SCAN, then deletes them in batches.
func (r *RedisBackend) DeletePattern(ctx context.Context, pattern string) (int, error) {
	if !hasWildcard(pattern) {
		v, err := r.do(ctx, r.opts.Timeout, func(ctx context.Context) (any, error) {
			return r.client.Del(ctx, pattern).Result()
		})
		if err != nil {
			return 0, err
		}
		return int(v.(int64)), nil
	}

	v, err := r.do(ctx, r.opts.ScanTimeout, func(ctx context.Context) (any, error) {
		var keys []string
		iter := r.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return int64(0), err
		}

		var deleted int64
		for start := 0; start < len(keys); start += scanBatch {
			end := min(start+scanBatch, len(keys))
			n, err := r.client.Del(ctx, keys[start:end]...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += n
		}
		return deleted, nil
	})
	n := 0
	if v != nil {
		n = int(v.(int64))
	}
	if err != nil {
		return n, fmt.Errorf("scan %q: %w", pattern, err)
	}
	return n, nil
}

func (r *RedisBackend) do(ctx context.Context, timeout time.Duration, fn func(context.Context) (any, error)) (any, error) {
	return r.breaker.Execute(func() (any, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return fn(ctx)
	})
}
