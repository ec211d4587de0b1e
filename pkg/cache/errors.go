package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnknownBackend is returned by Open for an unrecognised backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")

	// ErrUnreachable is returned when a remote backend does not answer its
	// connection check.
	ErrUnreachable = errors.New("cache backend unreachable")
)

// Connection checks for remote backends. The wait doubles after each failed
// attempt.
var (
	dialAttempts = 3
	dialBackoff  = 500 * time.Millisecond
)

// ping runs probe until it succeeds, ctx ends or dialAttempts are spent.
func ping(ctx context.Context, name string, probe func(context.Context) error) error {
	wait := dialBackoff
	var err error
	for attempt := 1; ; attempt++ {
		if err = probe(ctx); err == nil {
			return nil
		}
		if attempt >= dialAttempts {
			break
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: %s: %v", ErrUnreachable, name, ctx.Err())
		case <-timer.C:
		}
		wait *= 2
	}
	return fmt.Errorf("%w: %s after %d attempts: %v", ErrUnreachable, name, dialAttempts, err)
}
