package ai

import (
	"sync"
	"time"
)

// DefaultBreakerTimeout is how long an exhausted provider is skipped before
// the next invocation probes it again.
const DefaultBreakerTimeout = time.Hour

// Breaker guards a provider that has been observed fully exhausted. While
// open, invocations bypass the provider and go straight to the fallback;
// the breaker resets lazily once the timeout has elapsed, so the system
// self-heals without manual intervention.
type Breaker struct {
	mu       sync.Mutex
	timeout  time.Duration
	open     bool
	openedAt time.Time
}

// NewBreaker returns a closed breaker with the given cool-down timeout.
// A non-positive timeout falls back to DefaultBreakerTimeout.
func NewBreaker(timeout time.Duration) *Breaker {
	if timeout <= 0 {
		timeout = DefaultBreakerTimeout
	}
	return &Breaker{timeout: timeout}
}

// Allow reports whether an invocation may attempt the provider. When the
// breaker is open and the timeout has elapsed it flips back to closed and
// additionally reports the reset so the caller can log the transition.
func (b *Breaker) Allow(now time.Time) (ok, reset bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return true, false
	}
	if now.Sub(b.openedAt) >= b.timeout {
		b.open = false
		return true, true
	}
	return false, false
}

// Trip opens the breaker, stamping the time every credential was observed
// failing.
func (b *Breaker) Trip(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = true
	b.openedAt = now
}

// IsOpen reports the current state without side effects.
func (b *Breaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}
