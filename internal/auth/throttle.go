package auth

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	throttleIdleTTL      = 10 * time.Minute
	throttlePruneTrigger = 10000
)

type attemptBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Throttle is a keyed token bucket limiter. It bounds login attempts per
// account and, at the transport edge, requests per client address.
type Throttle struct {
	mu      sync.Mutex
	buckets map[string]*attemptBucket
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

// NewLoginThrottle allows perMinute attempts per key, all available as a burst.
// A non-positive perMinute disables throttling.
func NewLoginThrottle(perMinute int) *Throttle {
	return NewThrottle(perMinute, time.Minute)
}

// NewThrottle allows max events per window for each key. A nil Throttle
// admits everything; it is returned for non-positive max or window.
func NewThrottle(max int, window time.Duration) *Throttle {
	if max <= 0 || window <= 0 {
		return nil
	}
	return &Throttle{
		buckets: make(map[string]*attemptBucket),
		limit:   rate.Every(window / time.Duration(max)),
		burst:   max,
		now:     time.Now,
	}
}

// Allow consumes one attempt for key and reports whether it was permitted.
func (t *Throttle) Allow(key string) bool {
	if t == nil {
		return true
	}
	key = strings.ToLower(strings.TrimSpace(key))
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.buckets) >= throttlePruneTrigger {
		t.prune(now)
	}

	b, ok := t.buckets[key]
	if !ok {
		b = &attemptBucket{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// Reset forgets the attempts recorded for key.
func (t *Throttle) Reset(key string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.buckets, strings.ToLower(strings.TrimSpace(key)))
}

func (t *Throttle) prune(now time.Time) {
	for key, b := range t.buckets {
		if now.Sub(b.lastSeen) > throttleIdleTTL {
			delete(t.buckets, key)
		}
	}
}
