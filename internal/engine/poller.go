package engine

import (
	"context"
	"encoding/binary"
	"log/slog"

	"github.com/fieldgrid/mbpoll/internal/codec"
	"github.com/fieldgrid/mbpoll/internal/config"
	"github.com/fieldgrid/mbpoll/internal/planner"
	"github.com/fieldgrid/mbpoll/internal/pool"
)

type devicePlan struct {
	dev  *config.Device
	plan planner.DevicePlan
}

func pollDevice(ctx context.Context, p *pool.Pool, log *slog.Logger, dp devicePlan) []Row {
	client := p.Client(dp.dev.Connection)
	uid := dp.dev.Connection.Params.Address
	timeout := dp.dev.Connection.Params.Timeout

	withTimeout := func() (context.Context, context.CancelFunc) {
		if timeout <= 0 {
			return ctx, func() {}
		}
		return context.WithTimeout(ctx, timeout)
	}

	var rows []Row

	for _, req := range dp.plan.Coils {
		rctx, cancel := withTimeout()
		status, err := client.ReadCoils(rctx, uid, req.Address, req.Count)
		cancel()
		if err != nil {
			log.Warn("read coils failed", "device", dp.dev.Name, "address", req.Address, "error", err)
		}
		rows = append(rows, spliceBits(dp.dev, req, status, err == nil)...)
	}
	for _, req := range dp.plan.DiscreteInputs {
		rctx, cancel := withTimeout()
		status, err := client.ReadDiscreteInputs(rctx, uid, req.Address, req.Count)
		cancel()
		if err != nil {
			log.Warn("read discrete inputs failed", "device", dp.dev.Name, "address", req.Address, "error", err)
		}
		rows = append(rows, spliceBits(dp.dev, req, status, err == nil)...)
	}
	for _, req := range dp.plan.HoldingRegisters {
		rctx, cancel := withTimeout()
		raw, err := client.ReadHoldingRegisters(rctx, uid, req.Address, req.Count)
		cancel()
		if err != nil {
			log.Warn("read holding registers failed", "device", dp.dev.Name, "address", req.Address, "error", err)
		}
		rows = append(rows, spliceWords(log, dp.dev, req, raw, err == nil)...)
	}
	for _, req := range dp.plan.InputRegisters {
		rctx, cancel := withTimeout()
		raw, err := client.ReadInputRegisters(rctx, uid, req.Address, req.Count)
		cancel()
		if err != nil {
			log.Warn("read input registers failed", "device", dp.dev.Name, "address", req.Address, "error", err)
		}
		rows = append(rows, spliceWords(log, dp.dev, req, raw, err == nil)...)
	}
	return rows
}

func spliceBits(dev *config.Device, req planner.Request, status []bool, ok bool) []Row {
	rows := make([]Row, 0, len(req.Slices))
	for _, s := range req.Slices {
		col := config.ColumnName(dev, s.Register)
		v := codec.Null
		if ok && s.Offset < len(status) {
			n := int64(0)
			if status[s.Offset] {
				n = 1
			}
			v = codec.Value{Kind: codec.KindInt, Int: n}
		}
		v = codec.Apply(v, s.Register.Adjustments)
		rows = append(rows, Row{Column: col, Value: v})
	}
	return rows
}

func spliceWords(log *slog.Logger, dev *config.Device, req planner.Request, raw []byte, ok bool) []Row {
	words := bytesToWords(raw)
	rows := make([]Row, 0, len(req.Slices))
	for _, s := range req.Slices {
		col := config.ColumnName(dev, s.Register)
		valid := ok && s.Offset+s.Length <= len(words)
		var window []uint16
		if valid {
			window = words[s.Offset : s.Offset+s.Length]
		}
		v, err := codec.Decode(window, valid, s.Register.Format)
		if err != nil {
			log.Error("decode shape mismatch", "device", dev.Name, "register", s.Register.Name, "error", err)
			v = codec.Null
		}
		v = codec.Apply(v, s.Register.Adjustments)
		rows = append(rows, Row{Column: col, Value: v})
	}
	return rows
}

func bytesToWords(raw []byte) []uint16 {
	words := make([]uint16, len(raw)/2)
	for i := range words {
		words[i] = binary.BigEndian.Uint16(raw[i*2:])
	}
	return words
}
