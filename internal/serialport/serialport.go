// Package serialport opens a Linux serial device configured for Modbus
// RTU: raw mode, a fixed frame read timeout, and the line parameters
// (baud rate, data bits, parity, stop bits) the spec requires -
// including the non-POSIX-standard 14400 and 56000 baud rates, which are
// only reachable through the BOTHER/custom-speed mechanism.
package serialport

import (
	"fmt"
	"time"

	serial "github.com/daedaluz/goserial"
)

// Options describes the line parameters for a single open.
type Options struct {
	BaudRate int
	DataBits int  // 7 or 8
	Parity   byte // 'N', 'O' or 'E'
	StopBits int  // 1 or 2
	// ReadTimeout bounds a single Read call. A Modbus RTU master has no
	// length-prefixed frame, so a response is delimited purely by this
	// inter-frame silence timeout.
	ReadTimeout time.Duration
}

// Port is an opened, termios-configured serial line. It implements
// io.ReadWriteCloser.
type Port struct {
	*serial.Port
}

// Open opens name and applies opts via the Linux termios2 ioctls,
// always setting the baud rate through SetCustomSpeed (the BOTHER
// technique) so that both standard and non-standard rates are handled
// uniformly.
func Open(name string, opts Options) (*Port, error) {
	sopts := serial.NewOptions().SetReadTimeout(opts.ReadTimeout)
	p, err := serial.Open(name, sopts)
	if err != nil {
		return nil, fmt.Errorf("serialport: open %s: %w", name, err)
	}

	attrs, err := p.GetAttr2()
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("serialport: get attrs: %w", err)
	}
	attrs.MakeRaw()
	attrs.SetCustomSpeed(uint32(opts.BaudRate))

	attrs.Cflag &^= serial.CSIZE
	switch opts.DataBits {
	case 7:
		attrs.Cflag |= serial.CS7
	case 8:
		attrs.Cflag |= serial.CS8
	default:
		p.Close()
		return nil, fmt.Errorf("serialport: unsupported data bits %d", opts.DataBits)
	}

	attrs.Cflag &^= serial.PARENB | serial.PARODD
	switch opts.Parity {
	case 'N':
	case 'E':
		attrs.Cflag |= serial.PARENB
	case 'O':
		attrs.Cflag |= serial.PARENB | serial.PARODD
	default:
		p.Close()
		return nil, fmt.Errorf("serialport: unsupported parity %q", opts.Parity)
	}

	attrs.Cflag &^= serial.CSTOPB
	switch opts.StopBits {
	case 1:
	case 2:
		attrs.Cflag |= serial.CSTOPB
	default:
		p.Close()
		return nil, fmt.Errorf("serialport: unsupported stop bits %d", opts.StopBits)
	}

	attrs.Cflag |= serial.CREAD | serial.CLOCAL

	if err := p.SetAttr2(serial.TCSANOW, attrs); err != nil {
		p.Close()
		return nil, fmt.Errorf("serialport: set attrs: %w", err)
	}

	return &Port{Port: p}, nil
}
