// Package pool caches one Modbus client per connection src so that two
// devices sharing a src (two slave units on the same TCP gateway or the
// same serial line) share a single connection and its mutex.
package pool

import (
	"sync"

	"github.com/fieldgrid/mbpoll/internal/config"
	"github.com/fieldgrid/mbpoll/modbus"
)

// Pool lazily builds and caches *modbus.Client values keyed by
// connection src. Clients connect lazily on first Request; Pool itself
// never dials.
type Pool struct {
	mu      sync.Mutex
	clients map[string]*modbus.Client
}

// New returns an empty Pool.
func New() *Pool {
	return &Pool{clients: make(map[string]*modbus.Client)}
}

// Client returns the cached client for conn.Src, creating one on first
// use. Devices that share a src get the same *modbus.Client and so the
// same connection and mutex, regardless of which device asks first.
func (p *Pool) Client(conn config.Connection) *modbus.Client {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.clients[conn.Src]; ok {
		return c
	}
	c := &modbus.Client{Config: toModbusConfig(conn)}
	p.clients[conn.Src] = c
	return c
}

func toModbusConfig(conn config.Connection) modbus.Config {
	switch conn.Transport {
	case config.TransportSerial:
		return modbus.Config{
			Mode:     "rtu",
			Kind:     "serial",
			Endpoint: conn.Src,
			Timeout:  conn.Params.Timeout,
			BaudRate: conn.Params.BaudRate,
			DataBits: conn.Params.ByteSize,
			Parity:   conn.Params.Parity,
			StopBits: conn.Params.StopBits,
		}
	default:
		return modbus.Config{
			Mode:     "tcp",
			Kind:     "tcp",
			Endpoint: conn.Src,
			Timeout:  conn.Params.Timeout,
		}
	}
}

// Close disconnects every cached client. Called once at shutdown.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.clients {
		c.Disconnect()
	}
}
