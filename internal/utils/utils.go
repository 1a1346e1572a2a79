// Package utils holds small shared helpers.
package utils

import (
	"context"
	"time"
)

// sleep is swapped in tests.
var sleep = time.Sleep

// WaitFor blocks for the given duration or until the context is done,
// whichever comes first. A non-positive duration returns immediately.
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	done := make(chan struct{})
	go func() {
		sleep(d)
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
