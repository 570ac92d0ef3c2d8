package cache

import (
	"context"
	"errors"
	"time"
)

// Tiered serves reads from a short-lived local tier before the shared remote tier.
// Invalidations clear both tiers of this process; other processes converge within localTTL.
type Tiered struct {
	local    Backend
	remote   Backend
	localTTL time.Duration
}

// NewTiered combines a local and a remote backend.
func NewTiered(local, remote Backend, localTTL time.Duration) *Tiered {
	return &Tiered{local: local, remote: remote, localTTL: localTTL}
}

func (t *Tiered) Get(ctx context.Context, key string) ([]byte, error) {
	if v, err := t.local.Get(ctx, key); err == nil {
		localHits.Inc()
		return v, nil
	}

	v, err := t.remote.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	_ = t.local.Set(ctx, key, v, t.localTTL)
	return v, nil
}

// Set writes the local tier even when the remote write fails, so a Redis
// outage degrades to per-process caching.
func (t *Tiered) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := t.remote.Set(ctx, key, value, ttl)
	_ = t.local.Set(ctx, key, value, min(ttl, t.localTTL))
	return err
}

func (t *Tiered) Delete(ctx context.Context, keys ...string) error {
	return errors.Join(t.local.Delete(ctx, keys...), t.remote.Delete(ctx, keys...))
}

// DeletePattern reports the remote count, which is the shared view.
func (t *Tiered) DeletePattern(ctx context.Context, pattern string) (int, error) {
	_, localErr := t.local.DeletePattern(ctx, pattern)
	n, remoteErr := t.remote.DeletePattern(ctx, pattern)
	return n, errors.Join(localErr, remoteErr)
}

// NewLayered builds the process cache backend. Without a remote tier the
// memory backend is the only store and keeps every entry's own TTL; with one,
// the memory tier in front of it is capped at localTTL.
func NewLayered(size int, localTTL time.Duration, remote Backend) Backend {
	if remote == nil {
		return NewMemoryBackend(size, 0)
	}
	return NewTiered(NewMemoryBackend(size, localTTL), remote, localTTL)
}
