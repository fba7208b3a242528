package modbus

import (
	"sync"

	"context"
)

// Client is a Modbus master for the four read function codes. Generally
// the intended use is as follows:
//
//	c := modbus.Client{Config: modbus.Config{
//		Mode:     "tcp",
//		Kind:     "tcp",
//		Endpoint: "localhost:502",
//	}}
//	defer c.Disconnect()
//
//	values, err := c.ReadHoldingRegisters(ctx, 1, 0, 10)
type Client struct {
	Config
	mtx sync.Mutex
	c   connection
	f   framer
}

// Ready reports whether the underlying connection is currently usable.
func (c *Client) Ready() bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.c != nil && c.c.ready()
}

// Disconnect shuts down the connection. The next Request transparently
// reconnects.
func (c *Client) Disconnect() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.c != nil {
		c.c.close()
		c.c = nil
	}
}

// init lazily (re)connects and builds the framer. Callers must already
// hold c.mtx.
func (c *Client) init(ctx context.Context) (connection, framer, error) {
	if err := c.Config.Verify(); err != nil {
		return nil, nil, err
	}
	if c.c == nil || !c.c.ready() {
		con, err := c.Config.connection(ctx)
		if err != nil {
			return nil, nil, err
		}
		c.c = con
	}
	if c.f == nil {
		f, err := c.Config.framer(ctx)
		if err != nil {
			return nil, nil, err
		}
		c.f = f
	}
	return c.c, c.f, nil
}

// Request encodes a request into an application data unit, sends it to
// the client's endpoint and returns the decoded response data. Only
// function codes below 0x80 are accepted. Request holds the client's
// mutex for its full duration: a Modbus master never pipelines requests
// to the same endpoint, and two devices sharing an endpoint must
// serialize through the same Client.
func (c *Client) Request(ctx context.Context, uid, code byte, req []byte) (res []byte, err error) {
	if code == 0 || code >= 0x80 {
		return nil, IllegalFunction
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	con, f, err := c.init(ctx)
	if err != nil {
		return nil, err
	}

	adu, err := f.encode(uid, code, req)
	if err != nil {
		return nil, err
	}

	if err = con.write(ctx, adu); err != nil {
		return nil, err
	}

	buf := make([]byte, 260)
	n, err := con.read(ctx, buf)
	if err != nil {
		return nil, err
	}
	rx := buf[:n]

	if err = f.verify(adu, rx); err != nil {
		return nil, err
	}
	_, _, res, err = f.decode(rx)
	return res, err
}

// ReadCoils requests 1 to 2000 (quantity) contiguous coil states, starting from address.
// On success returns a bool slice with size of quantity where false=OFF and true=ON.
func (c *Client) ReadCoils(ctx context.Context, uid byte, address, quantity uint16) (status []bool, err error) {
	if ex := boundCheck(address, quantity, 2000); ex != 0 {
		return nil, ex
	}
	res, err := c.Request(ctx, uid, FuncReadCoils, put(4, address, quantity))
	switch {
	case err != nil:
		return nil, err
	case len(res) != 1+byteCount(quantity) || int(res[0]) != len(res)-1:
		return nil, SlaveDeviceFailure
	}
	return bytesToBools(quantity, res[1:]), nil
}

// ReadDiscreteInputs requests 1 to 2000 (quantity) contiguous discrete inputs, starting from address.
// On success returns a bool slice with size of quantity where false=OFF and true=ON.
func (c *Client) ReadDiscreteInputs(ctx context.Context, uid byte, address, quantity uint16) (status []bool, err error) {
	if ex := boundCheck(address, quantity, 2000); ex != 0 {
		return nil, ex
	}
	res, err := c.Request(ctx, uid, FuncReadDiscreteInputs, put(4, address, quantity))
	switch {
	case err != nil:
		return nil, err
	case len(res) != 1+byteCount(quantity) || int(res[0]) != len(res)-1:
		return nil, SlaveDeviceFailure
	}
	return bytesToBools(quantity, res[1:]), nil
}

// ReadHoldingRegisters reads from 1 to 125 (quantity) contiguous holding registers starting at address.
// On success returns a byte slice with the response data which is 2*quantity in length.
func (c *Client) ReadHoldingRegisters(ctx context.Context, uid byte, address, quantity uint16) (values []byte, err error) {
	if ex := boundCheck(address, quantity, 125); ex != 0 {
		return nil, ex
	}
	res, err := c.Request(ctx, uid, FuncReadHoldingRegisters, put(4, address, quantity))
	switch {
	case err != nil:
		return nil, err
	case len(res) != 1+int(quantity)*2 || int(res[0]) != len(res)-1:
		return nil, SlaveDeviceFailure
	}
	return res[1:], nil
}

// ReadInputRegisters reads from 1 to 125 (quantity) contiguous input registers starting at address.
// On success returns a byte slice with the response data which is 2*quantity in length.
func (c *Client) ReadInputRegisters(ctx context.Context, uid byte, address, quantity uint16) (values []byte, err error) {
	if ex := boundCheck(address, quantity, 125); ex != 0 {
		return nil, ex
	}
	res, err := c.Request(ctx, uid, FuncReadInputRegisters, put(4, address, quantity))
	switch {
	case err != nil:
		return nil, err
	case len(res) != 1+int(quantity)*2 || int(res[0]) != len(res)-1:
		return nil, SlaveDeviceFailure
	}
	return res[1:], nil
}
