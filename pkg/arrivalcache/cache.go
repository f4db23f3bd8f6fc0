package arrivalcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/travigo/nextbus/pkg/tfl"
	"golang.org/x/sync/semaphore"
)

// ErrLockUnavailable is returned when the cache guard could not be acquired
var ErrLockUnavailable = errors.New("failed to acquire cache lock")

// Readers take one unit of the guard, writers take all of them.
const maxReaders = 1 << 20

// Entry is a single successful fetch. It is never modified after creation.
type Entry struct {
	CapturedAt time.Time
	Arrivals   []tfl.Arrival
}

// Cache holds at most one Entry
type Cache struct {
	guard *semaphore.Weighted
	entry *Entry

	ttl time.Duration
	now func() time.Time
}

type Option func(*Cache)

// WithClock replaces time.Now as the source of capture and query instants
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

func New(ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		guard: semaphore.NewWeighted(maxReaders),
		ttl:   ttl,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// ReadIfFresh returns the cached arrivals if an entry exists and is younger than the TTL
func (c *Cache) ReadIfFresh(ctx context.Context) ([]tfl.Arrival, bool, error) {
	entry, err := c.Snapshot(ctx)
	if err != nil {
		return nil, false, err
	}

	if !c.Fresh(entry) {
		return nil, false, nil
	}

	return entry.Arrivals, true, nil
}

// Replace swaps the slot for a new entry captured now
func (c *Cache) Replace(ctx context.Context, arrivals []tfl.Arrival) error {
	if err := c.guard.Acquire(ctx, maxReaders); err != nil {
		return fmt.Errorf("%w: %w", ErrLockUnavailable, err)
	}
	c.entry = &Entry{
		CapturedAt: c.now(),
		Arrivals:   arrivals,
	}
	c.guard.Release(maxReaders)

	return nil
}

// Snapshot returns the current entry regardless of age, or nil when empty
func (c *Cache) Snapshot(ctx context.Context) (*Entry, error) {
	if err := c.guard.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLockUnavailable, err)
	}
	entry := c.entry
	c.guard.Release(1)

	return entry, nil
}

// Age is how long ago entry was captured, measured with the cache's clock
func (c *Cache) Age(entry *Entry) time.Duration {
	return c.now().Sub(entry.CapturedAt)
}

// Fresh reports whether entry is still inside the freshness window
func (c *Cache) Fresh(entry *Entry) bool {
	return entry != nil && c.now().Sub(entry.CapturedAt) < c.ttl
}
