package pool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fieldgrid/mbpoll/internal/config"
)

func TestClientCachedBySrc(t *testing.T) {
	p := New()
	connA := config.Connection{Transport: config.TransportTCP, Src: "10.0.0.1:502", Params: config.ConnParams{Timeout: time.Second}}
	connB := config.Connection{Transport: config.TransportTCP, Src: "10.0.0.1:502", Params: config.ConnParams{Timeout: time.Second}}
	connC := config.Connection{Transport: config.TransportTCP, Src: "10.0.0.2:502", Params: config.ConnParams{Timeout: time.Second}}

	a := p.Client(connA)
	b := p.Client(connB)
	c := p.Client(connC)

	assert.Same(t, a, b, "two devices sharing a src must share a client")
	assert.NotSame(t, a, c)
}

func TestToModbusConfigSerial(t *testing.T) {
	conn := config.Connection{
		Transport: config.TransportSerial,
		Src:       "/dev/ttyUSB0",
		Params:    config.ConnParams{BaudRate: 9600, ByteSize: 8, Parity: 'N', StopBits: 1},
	}
	cfg := toModbusConfig(conn)
	assert.Equal(t, "rtu", cfg.Mode)
	assert.Equal(t, "serial", cfg.Kind)
	assert.Equal(t, 9600, cfg.BaudRate)
}
