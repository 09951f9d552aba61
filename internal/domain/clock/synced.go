package clock

import (
	"context"
	"sync"
	"time"

	"mess-app-go/pkg/logger"
)

const (
	DefaultSyncInterval = 5 * time.Minute
	DefaultMaxStaleness = 24 * time.Hour
)

// SyncedClock tracks the offset between the local monotonic clock and the
// backend's transactional clock. The offset is measured with round-trip
// correction and cached, so Now never blocks on the network; a failed resync
// keeps serving the last-known offset up to the staleness bound.
type SyncedClock struct {
	source       TimeSource
	log          logger.Logger
	syncInterval time.Duration
	maxStaleness time.Duration

	mu       sync.RWMutex
	offset   time.Duration
	syncedAt time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

func NewSynced(source TimeSource, log logger.Logger, syncInterval, maxStaleness time.Duration) *SyncedClock {
	if syncInterval <= 0 {
		syncInterval = DefaultSyncInterval
	}
	if maxStaleness <= 0 {
		maxStaleness = DefaultMaxStaleness
	}
	return &SyncedClock{
		source:       source,
		log:          log,
		syncInterval: syncInterval,
		maxStaleness: maxStaleness,
		stop:         make(chan struct{}),
	}
}

// Sync measures a fresh offset against the time source. The server instant
// is assumed to correspond to the midpoint of the request round trip.
func (c *SyncedClock) Sync(ctx context.Context) error {
	before := time.Now()
	serverTime, err := c.source.ServerTime(ctx)
	if err != nil {
		return err
	}
	after := time.Now()

	midpoint := before.Add(after.Sub(before) / 2)
	offset := serverTime.Sub(midpoint)

	c.mu.Lock()
	c.offset = offset
	c.syncedAt = after
	c.mu.Unlock()

	return nil
}

// Now returns the local time corrected by the cached offset. Before the
// first successful sync it returns the raw local time; the authoritative
// cutoff check lives in the write path, so this is acceptable degradation.
func (c *SyncedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Now().Add(c.offset)
}

// Stale reports whether the cached offset is unusable: never measured, or
// older than the staleness bound. Callers treat cutoff checks as advisory
// while the clock is stale.
func (c *SyncedClock) Stale() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.syncedAt.IsZero() {
		return ErrNeverSynced
	}
	if time.Since(c.syncedAt) > c.maxStaleness {
		return ErrStaleOffset
	}
	return nil
}

// Offset returns the cached offset and when it was measured.
func (c *SyncedClock) Offset() (time.Duration, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.offset, c.syncedAt
}

// Run resynchronizes on the configured interval until Stop is called.
// Failures are logged and swallowed; the cached offset keeps serving.
func (c *SyncedClock) Run(ctx context.Context) {
	ticker := time.NewTicker(c.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Sync(ctx); err != nil {
				c.log.BusinessError("clock: resync failed", err)
			}
		case <-c.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (c *SyncedClock) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}
