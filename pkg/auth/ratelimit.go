package auth

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter checks whether a request from identity may proceed.
type RateLimiter interface {
	Allow(ctx context.Context, identity *Identity) error
}

// LimitError reports a rejected request and when the window reopens.
type LimitError struct {
	RetryAfter time.Duration
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s, retry after %s", ErrTooManyRequests, e.RetryAfter)
}

// Is makes errors.Is(err, ErrTooManyRequests) hold.
func (e *LimitError) Is(target error) bool {
	return target == ErrTooManyRequests
}

// InProcessLimiter counts requests per subject in one-minute windows held
// in memory.
type InProcessLimiter struct {
	rpm int
	now func() time.Time

	mu       sync.Mutex
	counters map[string]*counter
}

type counter struct {
	count    int
	windowAt time.Time
}

// NewInProcessLimiter creates a limiter allowing requestsPerMinute per
// subject. A value <= 0 disables limiting.
func NewInProcessLimiter(requestsPerMinute int) *InProcessLimiter {
	return &InProcessLimiter{
		rpm:      requestsPerMinute,
		now:      time.Now,
		counters: make(map[string]*counter),
	}
}

// Allow returns a *LimitError once the subject exceeds its budget for the
// current window.
func (l *InProcessLimiter) Allow(_ context.Context, identity *Identity) error {
	if l.rpm <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.counters[identity.Subject]
	if !ok || now.Sub(c.windowAt) >= time.Minute {
		l.counters[identity.Subject] = &counter{count: 1, windowAt: now}
		return nil
	}

	c.count++
	if c.count > l.rpm {
		return &LimitError{RetryAfter: c.windowAt.Add(time.Minute).Sub(now)}
	}
	return nil
}
