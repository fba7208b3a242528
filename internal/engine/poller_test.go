package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldgrid/mbpoll/internal/codec"
	"github.com/fieldgrid/mbpoll/internal/config"
	"github.com/fieldgrid/mbpoll/internal/planner"
)

func TestSpliceBitsOKAndNull(t *testing.T) {
	dev := &config.Device{Name: "plc1"}
	onReg := &config.Register{Name: "on", SQLType: "BOOLEAN"}
	offReg := &config.Register{Name: "off", SQLType: "BOOLEAN"}

	req := planner.Request{
		Address: 0,
		Count:   2,
		Slices: []planner.Slice{
			{Register: onReg, Offset: 0, Length: 1},
			{Register: offReg, Offset: 1, Length: 1},
		},
	}

	rows := spliceBits(dev, req, []bool{true, false}, true)
	require.Len(t, rows, 2)
	assert.Equal(t, "plc1_on_BOOLEAN", rows[0].Column)
	assert.Equal(t, codec.KindInt, rows[0].Value.Kind)
	assert.Equal(t, int64(1), rows[0].Value.Int)
	assert.Equal(t, int64(0), rows[1].Value.Int)

	nullRows := spliceBits(dev, req, nil, false)
	for _, r := range nullRows {
		assert.Equal(t, codec.KindNull, r.Value.Kind)
	}
}

func TestSpliceWordsDecodesAndAppliesAdjustments(t *testing.T) {
	dev := &config.Device{Name: "plc1"}
	reg := &config.Register{
		Name:    "level",
		SQLType: "INTEGER",
		Format:  codec.Unsigned,
		Adjustments: []codec.Adjustment{
			{Op: codec.OpAdd, Operand: 1},
		},
	}
	req := planner.Request{
		Address: 100,
		Count:   1,
		Slices:  []planner.Slice{{Register: reg, Offset: 0, Length: 1}},
	}

	rows := spliceWords(testLogger(), dev, req, []byte{0x00, 0x09}, true)
	require.Len(t, rows, 1)
	assert.Equal(t, codec.KindFloat, rows[0].Value.Kind)
	assert.Equal(t, float64(10), rows[0].Value.Float)
}

func TestSpliceWordsShapeMismatchYieldsNull(t *testing.T) {
	dev := &config.Device{Name: "plc1"}
	reg := &config.Register{Name: "flow", SQLType: "REAL", Format: codec.FloatABCD}
	req := planner.Request{
		Address: 100,
		Count:   2,
		Slices:  []planner.Slice{{Register: reg, Offset: 0, Length: 2}},
	}

	rows := spliceWords(testLogger(), dev, req, []byte{0x00, 0x01}, true)
	require.Len(t, rows, 1)
	assert.Equal(t, codec.KindNull, rows[0].Value.Kind)
}

func TestBytesToWords(t *testing.T) {
	words := bytesToWords([]byte{0x00, 0x01, 0xFF, 0xFF})
	assert.Equal(t, []uint16{1, 0xFFFF}, words)
}
