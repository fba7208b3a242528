package modbus

import (
	"context"
	"net"
	"time"

	"github.com/fieldgrid/mbpoll/internal/serialport"
)

// Config configures a modbus Client's transport and framing.
type Config struct {
	// Mode selects the application framing.
	//	- tcp: Modbus/TCP ADU (transaction id, protocol id, unit id)
	//	- rtu: Modbus RTU ADU (unit address, PDU, CRC16)
	Mode string
	// Kind selects the underlying byte transport.
	//	- tcp: a TCP socket, Endpoint is "host:port"
	//	- serial: a local serial device, Endpoint is the device path
	Kind string
	// Endpoint is the dial target (tcp) or device path (serial).
	Endpoint string
	// Timeout bounds a single request/response round trip.
	Timeout time.Duration

	// Serial line parameters, only meaningful when Kind == "serial".
	BaudRate int
	DataBits int  // 7 or 8
	Parity   byte // 'N', 'O' or 'E'
	StopBits int  // 1 or 2
}

// Verify validates the Config's transport/framing combination. It does
// not validate serial line parameters; those are checked against the
// spec's allowed value sets by internal/config before a Config is built.
func (cfg *Config) Verify() error {
	switch cfg.Mode {
	case "tcp", "rtu":
	default:
		return ErrInvalidParameter
	}
	switch cfg.Kind {
	case "tcp", "serial":
	default:
		return ErrInvalidParameter
	}
	return nil
}

// framer creates a new modbus framer from the given configuration.
func (cfg Config) framer(_ context.Context) (framer, error) {
	switch cfg.Mode {
	case "tcp":
		return &tcp{}, nil
	case "rtu":
		return &rtu{}, nil
	}
	return nil, ErrInvalidParameter
}

// connection dials (tcp) or opens (serial) the configured endpoint and
// wraps it as a connection.
func (cfg Config) connection(ctx context.Context) (connection, error) {
	switch cfg.Kind {
	case "tcp":
		con, err := new(net.Dialer).DialContext(ctx, "tcp", cfg.Endpoint)
		if err != nil {
			return nil, err
		}
		return newStreamConn(con), nil
	case "serial":
		port, err := serialport.Open(cfg.Endpoint, serialport.Options{
			BaudRate:    cfg.BaudRate,
			DataBits:    cfg.DataBits,
			Parity:      cfg.Parity,
			StopBits:    cfg.StopBits,
			ReadTimeout: cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return newStreamConn(port), nil
	}
	return nil, ErrInvalidParameter
}
