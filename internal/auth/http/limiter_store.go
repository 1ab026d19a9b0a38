package http

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterIdleTTL         = time.Hour
)

// limiterStore holds one token bucket per key with periodic eviction of idle buckets.
type limiterStore[K comparable] struct {
	limiters sync.Map // map[K]*limiterEntry
	rps      float64
	burst    int
	now      func() time.Time
}

// limiterEntry holds a rate limiter and last access time for cleanup.
type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

func newLimiterStore[K comparable](rps float64, burst int) *limiterStore[K] {
	return &limiterStore[K]{
		rps:   rps,
		burst: burst,
		now:   time.Now,
	}
}

// getLimiter retrieves or creates the limiter for key.
func (s *limiterStore[K]) getLimiter(key K) *rate.Limiter {
	if val, ok := s.limiters.Load(key); ok {
		entry := val.(*limiterEntry)
		entry.mu.Lock()
		entry.lastAccess = s.now()
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &limiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(s.rps), s.burst),
		lastAccess: s.now(),
	}

	// Two concurrent first requests must share one bucket.
	actual, _ := s.limiters.LoadOrStore(key, entry)
	return actual.(*limiterEntry).limiter
}

// allow reports whether a request for key may proceed and, when it may not, how many whole
// seconds the caller should wait.
func (s *limiterStore[K]) allow(key K) (bool, int) {
	limiter := s.getLimiter(key)
	if limiter.Allow() {
		return true, 0
	}

	reservation := limiter.Reserve()
	retryAfter := int(reservation.Delay().Seconds())
	reservation.Cancel()
	if retryAfter < 1 {
		retryAfter = 1
	}
	return false, retryAfter
}

// evictIdle removes limiters not accessed within ttl.
func (s *limiterStore[K]) evictIdle(ttl time.Duration) {
	threshold := s.now().Add(-ttl)
	s.limiters.Range(func(key, value any) bool {
		entry := value.(*limiterEntry)
		entry.mu.Lock()
		idle := entry.lastAccess.Before(threshold)
		entry.mu.Unlock()

		if idle {
			s.limiters.Delete(key)
		}
		return true
	})
}

// cleanupStale runs evictIdle every interval until ctx is cancelled.
func (s *limiterStore[K]) cleanupStale(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evictIdle(limiterIdleTTL)
		}
	}
}
