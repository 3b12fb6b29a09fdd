// Package retry implements the fixed-budget, no-backoff retry contract
// spec.md §4.1 requires for partition manager initialization: up to 5
// attempts, no delay between attempts, each attempt a full round-trip to
// the external store. There is deliberately no backoff — a misconfigured
// store should fail fast during init, not be waited out.
package retry

import "context"

// MaxAttempts is the fixed retry budget for §4.1 initialization steps.
const MaxAttempts = 5

// Do calls fn up to MaxAttempts times with no delay between attempts,
// returning nil on the first success. If every attempt fails it returns the
// last error observed. Do also returns immediately with ctx.Err() if ctx is
// cancelled between attempts.
func Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
