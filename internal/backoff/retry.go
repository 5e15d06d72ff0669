// Package backoff retries a fallible operation with randomized exponential
// backoff, giving up after either a context cancellation or a bounded
// number of attempts.
package backoff

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Policy configures a retry loop. The zero value retries forever (subject
// to ctx) with no cap on the backoff duration.
type Policy struct {
	// MaxAttempts bounds how many times try is called before giving up.
	// Zero means unbounded.
	MaxAttempts int
	// MaxWait caps the backoff duration between attempts. Zero means
	// uncapped.
	MaxWait time.Duration
	// Logger receives a debug line per failed attempt. A nil Logger is
	// treated as a no-op logger.
	Logger *zap.Logger
}

// ErrAttemptsExhausted is returned when MaxAttempts tries have all failed.
type ErrAttemptsExhausted struct {
	Attempts int
	LastErr  error
}

func (e *ErrAttemptsExhausted) Error() string {
	return "backoff: giving up after " + itoa(e.Attempts) + " attempts: " + e.LastErr.Error()
}

func (e *ErrAttemptsExhausted) Unwrap() error {
	return e.LastErr
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// Retry calls try until it succeeds, ctx is cancelled, or p.MaxAttempts is
// reached.
func (p Policy) Retry(ctx context.Context, try func() error) error {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	wait := time.Millisecond
	attempt := 0
	for {
		attempt++
		before := time.Now()
		err := try()
		if err == nil {
			return nil
		}
		elapsed := time.Since(before)
		logger.Debug("backoff: attempt failed", zap.Int("attempt", attempt), zap.Error(err))

		if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
			return &ErrAttemptsExhausted{Attempts: attempt, LastErr: err}
		}

		if wait <= elapsed {
			wait = elapsed + time.Millisecond
		}
		wait += time.Duration(rand.Int63n(int64(wait)))
		if p.MaxWait > 0 && wait > p.MaxWait {
			wait = p.MaxWait
		}

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}
