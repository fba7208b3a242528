// Package engine drives one device's poll and the periodic cycle
// scheduler that fans polls out across all active devices.
package engine

import (
	"context"

	"github.com/fieldgrid/mbpoll/internal/codec"
)

// Row is one decoded column/value pair produced by a cycle. Column order
// across a cycle's Row slice is the deterministic order required by the
// scheduler: device config order, then function code order, then
// address ascending.
type Row struct {
	Column string
	Value  codec.Value
}

// Writer persists one cycle's rows. store.Store satisfies this
// structurally; engine does not import store to avoid a cycle.
type Writer interface {
	Write(ctx context.Context, rows []Row) error
}
