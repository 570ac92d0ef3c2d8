// Package cache is the read-through cache in front of every expensive read path.
//
// Values are JSON encoded and stored under Prefix. A Backend stores raw bytes;
// Cache adds the prefix, the codec, metrics and the invalidation fan-out.
// Cache errors never fail a request: reads fall through to the producer and
// failed writes or deletes are logged and counted.
package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrMiss is returned by a Backend when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Backend is a byte-oriented key/value store with glob deletion.
// Keys passed in are already prefixed.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePattern removes every key matching a glob with * and ? wildcards
	// and returns how many were removed.
	DeletePattern(ctx context.Context, pattern string) (int, error)
}

// hasWildcard reports whether pattern needs a scan rather than a direct delete.
func hasWildcard(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// matchGlob matches s against a pattern where * matches any run of characters
// (including ':' and '/') and ? matches exactly one.
func matchGlob(pattern, s string) bool {
	px, sx := 0, 0
	starP, starS := -1, 0
	for sx < len(s) {
		switch {
		case px < len(pattern) && (pattern[px] == '?' || pattern[px] == s[sx]):
			px++
			sx++
		case px < len(pattern) && pattern[px] == '*':
			starP, starS = px, sx
			px++
		case starP >= 0:
			starS++
			px, sx = starP+1, starS
		default:
			return false
		}
	}
	for px < len(pattern) && pattern[px] == '*' {
		px++
	}
	return px == len(pattern)
}
