// Package ratelimit bounds how many renders the service starts per second.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a token bucket with an optional pause window. HTTP handlers
// call Allow and reject when it fails; the queue worker calls Wait.
type Limiter struct {
	limiter *rate.Limiter

	// no tokens are handed out before pausedUntil
	pausedUntil time.Time
	mu          sync.Mutex
	now         func() time.Time
}

// New creates a limiter allowing rps renders per second with the given burst.
func New(rps float64, burst int) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		now:     time.Now,
	}
}

// Default returns a limiter with conservative settings.
func Default() *Limiter {
	return New(5, 10)
}

// Wait blocks until the next render is allowed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if d := l.pauseLeft(); d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return l.limiter.Wait(ctx)
}

// Allow reports whether a render may start now. When it may not, the
// returned duration is how long the caller should wait before retrying.
func (l *Limiter) Allow() (bool, time.Duration) {
	if d := l.pauseLeft(); d > 0 {
		return false, d
	}

	r := l.limiter.Reserve()
	if !r.OK() {
		return false, time.Second
	}
	if d := r.Delay(); d > 0 {
		r.Cancel()
		return false, d
	}
	return true, 0
}

// Pause stops handing out tokens for d, for example while the worker backs
// off after the broker rejected a publish.
func (l *Limiter) Pause(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	until := l.now().Add(d)
	if until.After(l.pausedUntil) {
		l.pausedUntil = until
	}
}

func (l *Limiter) pauseLeft() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.pausedUntil.Sub(l.now())
}
