package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Cache adds the key prefix, JSON codec and invalidation rules on top of a Backend.
// A nil *Cache is valid and caches nothing.
type Cache struct {
	backend Backend
}

// New creates a cache over the given backend.
func New(backend Backend) *Cache {
	return &Cache{backend: backend}
}

// Get decodes the value stored at key into dest. It returns ErrMiss when absent.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	if c == nil {
		return ErrMiss
	}

	data, err := c.backend.Get(ctx, Prefix+key)
	if err != nil {
		cacheMisses.Inc()
		if errors.Is(err, ErrMiss) {
			return ErrMiss
		}
		cacheErrors.WithLabelValues("get").Inc()
		return fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		cacheMisses.Inc()
		cacheErrors.WithLabelValues("decode").Inc()
		return fmt.Errorf("cache decode %s: %w", key, err)
	}

	cacheHits.Inc()
	return nil
}

// Set encodes value and stores it at key for ttl.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		cacheErrors.WithLabelValues("encode").Inc()
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.backend.Set(ctx, Prefix+key, data, ttl); err != nil {
		cacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete removes exact keys.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = Prefix + k
	}
	if err := c.backend.Delete(ctx, prefixed...); err != nil {
		cacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// InvalidatePattern removes every key matching the glob and returns the count.
func (c *Cache) InvalidatePattern(ctx context.Context, pattern string) (int, error) {
	if c == nil {
		return 0, nil
	}

	n, err := c.backend.DeletePattern(ctx, Prefix+pattern)
	invalidatedKeys.Add(float64(n))
	if err != nil {
		cacheErrors.WithLabelValues("invalidate").Inc()
		return n, fmt.Errorf("cache invalidate %s: %w", pattern, err)
	}
	return n, nil
}

// GetOrCompute returns the cached value at key, or runs produce and caches its result.
// Cache failures are logged and never returned; producer errors are returned and not cached.
func GetOrCompute[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, produce func(context.Context) (T, error)) (T, error) {
	var cached T
	err := c.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrMiss) {
		slog.Warn("cache read failed, recomputing", "key", key, "error", err)
	}

	start := time.Now()
	value, err := produce(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	computeDuration.WithLabelValues(family(key)).Observe(time.Since(start).Seconds())

	if err := c.Set(ctx, key, value, ttl); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
	return value, nil
}

// family is the first key segment, used as a low-cardinality metric label.
func family(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}

// InvalidateMovie clears everything derived from the movie plus the catalog-wide lists.
func (c *Cache) InvalidateMovie(ctx context.Context, movieID int64) {
	c.invalidateAll(ctx, append(movieBundle(movieID), movieListing()...))
}

// InvalidateMovieBundle clears only the entries keyed by the movie id.
func (c *Cache) InvalidateMovieBundle(ctx context.Context, movieID int64) {
	c.invalidateAll(ctx, movieBundle(movieID))
}

// InvalidateCatalog clears the catalog-wide lists and every recommendation.
func (c *Cache) InvalidateCatalog(ctx context.Context) {
	c.invalidateAll(ctx, movieListing())
}

// InvalidateUser clears everything derived from the user.
func (c *Cache) InvalidateUser(ctx context.Context, userID int64) {
	c.invalidateAll(ctx, userBundle(userID))
}

// InvalidateRating clears the rater's entries and the rated movie's entries.
// Recommendations of other users are left to expire.
func (c *Cache) InvalidateRating(ctx context.Context, userID, movieID int64) {
	c.invalidateAll(ctx, append(userBundle(userID), movieBundle(movieID)...))
}

// InvalidatePlaylists clears the owner's playlist listing.
func (c *Cache) InvalidatePlaylists(ctx context.Context, ownerID int64) {
	c.invalidateAll(ctx, []string{PlaylistKey(ownerID)})
}

func (c *Cache) invalidateAll(ctx context.Context, patterns []string) {
	if c == nil {
		return
	}

	total := 0
	for _, p := range patterns {
		n, err := c.InvalidatePattern(ctx, p)
		if err != nil {
			slog.Warn("cache invalidation failed", "pattern", p, "error", err)
		}
		total += n
	}
	slog.Debug("cache invalidated", "patterns", len(patterns), "keys", total)
}
