package service

import (
	"context"
	"time"
)

const (
	// maxReadRetries bounds automatic retries on read fetches. Mutations are
	// never retried: a duplicate write is worse than a surfaced error.
	maxReadRetries = 3

	baseRetryDelay = time.Second
	maxRetryDelay  = 30 * time.Second
)

// backoffDelay returns the wait before retry n (zero-based): 1s, 2s, 4s, ...
// capped at 30s.
func backoffDelay(retry int) time.Duration {
	if retry < 0 {
		retry = 0
	}
	d := baseRetryDelay << uint(retry)
	if d <= 0 || d > maxRetryDelay {
		return maxRetryDelay
	}
	return d
}

// sleepCtx waits for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
