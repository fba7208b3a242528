package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fieldgrid/mbpoll/internal/config"
	"github.com/fieldgrid/mbpoll/internal/pool"
)

type countingWriter struct {
	calls int32
}

func (w *countingWriter) Write(ctx context.Context, rows []Row) error {
	atomic.AddInt32(&w.calls, 1)
	return nil
}

func TestRunStopsOnCancellation(t *testing.T) {
	e := New(&config.Root{}, pool.New(), testLogger())
	w := &countingWriter{}

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	err := e.Run(ctx, 5*time.Millisecond, w)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, atomic.LoadInt32(&w.calls), int32(0))
}
