package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldgrid/mbpoll/internal/codec"
	"github.com/fieldgrid/mbpoll/internal/config"
	"github.com/fieldgrid/mbpoll/internal/engine"
)

func TestExpectedColumnsOrderAndSkipsInactive(t *testing.T) {
	root := &config.Root{
		Devices: []*config.Device{
			{
				Name:   "plc1",
				Active: true,
				Coils: []*config.Register{
					{Name: "pump", Active: true, SQLType: "BOOLEAN"},
				},
				HoldingRegisters: []*config.Register{
					{Name: "level", Active: true, SQLType: "INTEGER"},
					{Name: "spare", Active: false, SQLType: "INTEGER"},
				},
			},
			{
				Name:             "plc2",
				Active:           false,
				HoldingRegisters: []*config.Register{{Name: "ignored", Active: true, SQLType: "INTEGER"}},
			},
		},
	}

	cols := expectedColumns(root)
	assert.Len(t, cols, 2)
	assert.Equal(t, "plc1_pump_BOOLEAN", cols[0].name)
	assert.Equal(t, "plc1_level_INTEGER", cols[1].name)
}

func TestRowValue(t *testing.T) {
	assert.Equal(t, int64(5), rowValue(engine.Row{Value: codec.Value{Kind: codec.KindInt, Int: 5}}))
	assert.Equal(t, 3.5, rowValue(engine.Row{Value: codec.Value{Kind: codec.KindFloat, Float: 3.5}}))
	assert.Equal(t, "FAULT", rowValue(engine.Row{Value: codec.Value{Kind: codec.KindString, Str: "FAULT"}}))
	assert.Nil(t, rowValue(engine.Row{Value: codec.Null}))
}
