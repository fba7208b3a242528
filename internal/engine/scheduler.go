package engine

import (
	"context"
	"time"
)

// Run drives the periodic cycle scheduler: poll, write, sleep, repeat,
// until ctx is cancelled. A cycle that overruns scanRate is never made up
// for; the next cycle starts immediately with no sleep.
func (e *Engine) Run(ctx context.Context, scanRate time.Duration, writer Writer) error {
	for {
		start := time.Now()

		rows := e.Poll(ctx)
		if err := writer.Write(ctx, rows); err != nil {
			e.log.Warn("writer failed, dropping cycle", "error", err)
		}

		elapsed := time.Since(start)
		if elapsed > scanRate {
			elapsed = scanRate
		}
		sleep := scanRate - elapsed

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
}
