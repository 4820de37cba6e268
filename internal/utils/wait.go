package utils

import (
	"context"
	"time"
)

var after = time.After

// WaitFor holds the ranking loop between two analysis requests so the provider
// rate limit is respected. A cancelled ctx ends the pause early with ctx.Err().
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-after(d):
		return nil
	}
}
