// Package ratelimit provides the shared call budget applied to every
// external model request. One limiter instance is created per process and
// injected into both the perception and generation clients, so concurrent
// jobs share a single budget and slow down instead of dropping calls.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter wraps a token bucket with call-site friendly defaults.
type Limiter struct {
	bucket *rate.Limiter
}

// New creates a limiter allowing callsPerSecond sustained requests with
// the given burst. A non-positive rate disables limiting.
func New(callsPerSecond float64, burst int) *Limiter {
	if callsPerSecond <= 0 {
		return &Limiter{bucket: rate.NewLimiter(rate.Inf, 1)}
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{bucket: rate.NewLimiter(rate.Limit(callsPerSecond), burst)}
}

// Wait blocks until a call slot is available or the context is done.
// Backpressure by delay: requests are never silently dropped.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.bucket.Wait(ctx)
}
