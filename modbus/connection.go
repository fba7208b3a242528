package modbus

import (
	"context"
	"io"
	"sync"
	"time"
)

// deadliner is implemented by transports that support per-call deadlines,
// such as net.Conn. A serial port configured with a fixed read timeout at
// open time does not implement it; ctx cancellation then only takes
// effect between calls, never during one already in flight.
type deadliner interface {
	SetReadDeadline(time.Time) error
	SetWriteDeadline(time.Time) error
}

// connection is a single byte-stream endpoint. Modbus masters never
// pipeline requests to the same endpoint, so connection does not serialize
// requests itself; Client serializes all access to it. streamConn's own
// mutex only guards its down flag.
type connection interface {
	ready() bool
	close() error
	write(ctx context.Context, adu []byte) error
	read(ctx context.Context, buf []byte) (n int, err error)
}

// streamConn adapts any io.ReadWriteCloser (a TCP socket or a serial port)
// into a connection. It does one Read per Request and does not reassemble
// a Modbus frame split across multiple underlying reads.
type streamConn struct {
	mu   sync.Mutex
	conn io.ReadWriteCloser
	dl   deadliner
	down bool
}

func newStreamConn(conn io.ReadWriteCloser) *streamConn {
	dl, _ := conn.(deadliner)
	return &streamConn{conn: conn, dl: dl}
}

func (c *streamConn) ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.down
}

func (c *streamConn) fail() {
	c.mu.Lock()
	c.down = true
	c.mu.Unlock()
}

func (c *streamConn) close() error {
	c.fail()
	return c.conn.Close()
}

func (c *streamConn) write(ctx context.Context, adu []byte) error {
	if c.dl != nil {
		if dl, ok := ctx.Deadline(); ok {
			c.dl.SetWriteDeadline(dl)
		} else {
			c.dl.SetWriteDeadline(time.Time{})
		}
	}
	if _, err := c.conn.Write(adu); err != nil {
		c.fail()
		return err
	}
	return nil
}

func (c *streamConn) read(ctx context.Context, buf []byte) (int, error) {
	if c.dl != nil {
		if dl, ok := ctx.Deadline(); ok {
			c.dl.SetReadDeadline(dl)
		} else {
			c.dl.SetReadDeadline(time.Time{})
		}
	}
	n, err := c.conn.Read(buf)
	if err != nil {
		c.fail()
	}
	return n, err
}
