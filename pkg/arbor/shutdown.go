package arbor

import (
	"context"
)

// Shutdown stops every context the process selector knows, flushing and
// stopping all owned appenders. It honors the deadline on ctx: when
// the deadline expires first, the remaining stops continue in the
// background and the context's error is returned. Typical use:
//
//	defer arbor.Shutdown(context.Background())
func Shutdown(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- stopAllContexts() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// stopAllContexts stops every registered context, returning the first
// failure after giving each one the chance to stop.
func stopAllContexts() error {
	var firstErr error
	for _, lctx := range currentSelector().Contexts() {
		if err := lctx.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
