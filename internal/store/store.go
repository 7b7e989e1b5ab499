// Package store provides the two small persistence surfaces the
// newsletters service needs: a key-value store for the usage-report
// baseline and one-time flags, and a per-newsletter metadata store for
// click counters. Redis backs the former, PostgreSQL the latter, with
// in-memory implementations for tests and single-node development.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("key not found")

// KV is a persisted string key-value store.
type KV interface {
	// Get returns the stored value, or ErrNotFound if the key is absent.
	Get(ctx context.Context, key string) (string, error)
	// Set stores the value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error
}

// NewsletterMeta stores metadata attached to a newsletter entity.
// Click counters are never deleted by this subsystem.
type NewsletterMeta interface {
	// IncrementClicks atomically adds one to the newsletter's click counter,
	// creating it at 1 if absent, and returns the new value.
	IncrementClicks(ctx context.Context, newsletterID int64) (int64, error)
	// GetClicks returns the newsletter's click counter, zero if absent.
	GetClicks(ctx context.Context, newsletterID int64) (int64, error)
}
