package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fieldgrid/mbpoll/internal/config"
	"github.com/fieldgrid/mbpoll/internal/planner"
	"github.com/fieldgrid/mbpoll/internal/pool"
)

// Engine holds one cycle's worth of work: the active devices and their
// precomputed request plans, plus the shared connection pool and logger
// used to run them.
type Engine struct {
	devices []devicePlan
	pool    *pool.Pool
	log     *slog.Logger
}

// New builds an Engine from a loaded configuration. Inactive devices are
// skipped entirely; each active device's four register groups are planned
// once up front since register addresses don't change across cycles.
func New(root *config.Root, p *pool.Pool, log *slog.Logger) *Engine {
	e := &Engine{pool: p, log: log}
	for _, dev := range root.Devices {
		if !dev.Active {
			continue
		}
		e.devices = append(e.devices, devicePlan{dev: dev, plan: planner.PlanDevice(dev)})
	}
	return e
}

// Poll runs one cycle: every active device is polled concurrently, and the
// resulting rows are flattened back into device config order, which keeps
// the column ordering guarantee independent of goroutine scheduling.
func (e *Engine) Poll(ctx context.Context) []Row {
	results := make([][]Row, len(e.devices))
	var wg sync.WaitGroup
	for i, dp := range e.devices {
		wg.Add(1)
		go func(i int, dp devicePlan) {
			defer wg.Done()
			results[i] = pollDevice(ctx, e.pool, e.log, dp)
		}(i, dp)
	}
	wg.Wait()

	var rows []Row
	for _, r := range results {
		rows = append(rows, r...)
	}
	return rows
}
