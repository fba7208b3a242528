// Package config loads and validates the YAML configuration file: the
// device/register catalog, connection descriptors, and the scheduler's
// table name and scan rate.
package config

import (
	"time"

	"github.com/fieldgrid/mbpoll/internal/codec"
)

// Register is one point descriptor: a stable id, a format, an opaque SQL
// type, and an optional adjustment chain, anchored at an address within
// its function-code group.
type Register struct {
	ID          string
	Name        string
	Active      bool
	Format      codec.Format
	SQLType     string
	Adjustments []codec.Adjustment
	Address     uint16
}

// Transport selects the physical layer a Connection uses.
type Transport string

const (
	TransportTCP    Transport = "TCP"
	TransportSerial Transport = "serial"
)

// ConnParams are the Modbus slave address, timeout, and (serial only)
// line parameters for a Connection.
type ConnParams struct {
	Address  byte
	Timeout  time.Duration
	BaudRate int
	ByteSize int
	Parity   byte
	StopBits int
}

// Connection is a device's physical endpoint: transport, src (hostname
// or device path), and parameters.
type Connection struct {
	Transport Transport
	Src       string
	Params    ConnParams
}

// Device is one polled unit: its connection and its four register
// groups, each kept in ascending-address order.
type Device struct {
	Name       string
	Active     bool
	Connection Connection

	Coils            []*Register
	DiscreteInputs   []*Register
	HoldingRegisters []*Register
	InputRegisters   []*Register
}

// Root is the decoded and validated configuration root.
type Root struct {
	LogLevel int
	Table    string
	ScanRate time.Duration
	Devices  []*Device
}
