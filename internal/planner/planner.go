// Package planner groups a device's active registers into the minimal
// set of contiguous Modbus read requests per function code.
package planner

import "github.com/fieldgrid/mbpoll/internal/config"

// FuncCode identifies one of the four supported read function codes.
type FuncCode byte

const (
	FuncReadCoils            FuncCode = 1
	FuncReadDiscreteInputs   FuncCode = 2
	FuncReadHoldingRegisters FuncCode = 3
	FuncReadInputRegisters   FuncCode = 4
)

// Slice describes where one register's raw words land within a
// request's response, so the poller can splice it back out.
type Slice struct {
	Register *config.Register
	Offset   int // word offset into the response
	Length   int // word count, per the register's format
}

// Request is one planned Modbus read: a contiguous address range and the
// splicing plan to recover each register's raw window from the response.
type Request struct {
	Function FuncCode
	Address  uint16
	Count    uint16
	Slices   []Slice
}

// Plan computes, for one device's register group of a single function
// code, the minimal ordered list of contiguous requests. Registers must
// already be sorted by ascending address (config guarantees this).
// Inactive registers are skipped and never contribute words to a request.
// Contiguity is decided by address arithmetic alone: an active register
// extends the current request exactly when its address equals the
// request's address plus its count, even if an inactive register entry
// lies between them; any other address starts a new request.
func Plan(fn FuncCode, registers []*config.Register) []Request {
	var requests []Request
	var cur *Request

	for _, reg := range registers {
		if !reg.Active {
			continue
		}
		length := reg.Format.Words()
		if fn == FuncReadCoils || fn == FuncReadDiscreteInputs {
			length = 1
		}

		if cur != nil && cur.Address+cur.Count == reg.Address {
			cur.Slices = append(cur.Slices, Slice{Register: reg, Offset: int(cur.Count), Length: length})
			cur.Count += uint16(length)
			continue
		}

		if cur != nil {
			requests = append(requests, *cur)
		}
		cur = &Request{
			Function: fn,
			Address:  reg.Address,
			Count:    uint16(length),
			Slices:   []Slice{{Register: reg, Offset: 0, Length: length}},
		}
	}
	if cur != nil {
		requests = append(requests, *cur)
	}
	return requests
}

// DevicePlan holds the four per-function-code request lists for one
// device, computed once at engine construction and immutable thereafter.
type DevicePlan struct {
	Coils            []Request
	DiscreteInputs   []Request
	HoldingRegisters []Request
	InputRegisters   []Request
}

// PlanDevice computes the full plan for a device from its four register
// groups, each already in ascending-address order.
func PlanDevice(dev *config.Device) DevicePlan {
	return DevicePlan{
		Coils:            Plan(FuncReadCoils, dev.Coils),
		DiscreteInputs:   Plan(FuncReadDiscreteInputs, dev.DiscreteInputs),
		HoldingRegisters: Plan(FuncReadHoldingRegisters, dev.HoldingRegisters),
		InputRegisters:   Plan(FuncReadInputRegisters, dev.InputRegisters),
	}
}
