package modbus

import (
	"context"
	"encoding/binary"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundCheck(t *testing.T) {
	assert.Equal(t, Exception(0), boundCheck(0, 1, 125))
	assert.Equal(t, IllegalDataValue, boundCheck(0, 0, 125))
	assert.Equal(t, IllegalDataValue, boundCheck(0, 126, 125))
	assert.Equal(t, IllegalDataAddress, boundCheck(0xFFF0, 100, 2000))
}

func TestCRC16KnownVector(t *testing.T) {
	// 01 03 00 00 00 0A -> CRC 0xCDC5 (little endian on the wire: C5 CD)
	got := crc16([]byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x0A})
	assert.Equal(t, uint16(0xCDC5), got)
}

func TestRTUFramerRoundTrip(t *testing.T) {
	f := &rtu{}
	adu, err := f.encode(0x11, FuncReadHoldingRegisters, []byte{0x00, 0x6B, 0x00, 0x03})
	require.NoError(t, err)

	uid, code, data, err := f.decode(adu)
	require.NoError(t, err)
	assert.Equal(t, byte(0x11), uid)
	assert.Equal(t, byte(FuncReadHoldingRegisters), code)
	assert.Equal(t, []byte{0x00, 0x6B, 0x00, 0x03}, data)
	assert.NoError(t, f.verify(adu, adu))
}

func TestRTUFramerCRCMismatch(t *testing.T) {
	f := &rtu{}
	adu, err := f.encode(0x11, FuncReadHoldingRegisters, []byte{0x00, 0x6B})
	require.NoError(t, err)
	adu[len(adu)-1] ^= 0xFF
	_, _, _, err = f.decode(adu)
	assert.Error(t, err)
}

func TestTCPFramerVerify(t *testing.T) {
	f := &tcp{}
	req, err := f.encode(1, FuncReadHoldingRegisters, []byte{0, 0, 0, 10})
	require.NoError(t, err)

	res := make([]byte, len(req))
	copy(res, req)
	assert.NoError(t, f.verify(req, res))

	res[1] ^= 0xFF
	assert.ErrorIs(t, f.verify(req, res), ErrMismatchedTransactionId)
}

// TestClientReadHoldingRegisters drives a Client over a net.Pipe standing
// in for a TCP socket, with a goroutine playing the role of the slave.
func TestClientReadHoldingRegisters(t *testing.T) {
	clientSide, serverSide := net.Pipe()
	defer clientSide.Close()

	go func() {
		buf := make([]byte, 260)
		n, err := serverSide.Read(buf)
		if err != nil {
			return
		}
		req := buf[:n]
		res := make([]byte, 11)
		copy(res[0:4], req[0:4])
		binary.BigEndian.PutUint16(res[4:], 5)
		res[6], res[7] = req[6], req[7]
		res[8] = 2
		binary.BigEndian.PutUint16(res[9:], 0x1234)
		serverSide.Write(res)
	}()

	c := &Client{Config: Config{Mode: "tcp", Kind: "tcp"}}
	c.c = newStreamConn(clientSide)
	c.f = &tcp{}

	values, err := c.ReadHoldingRegisters(context.Background(), 1, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x12, 0x34}, values)
}

func TestClientReadHoldingRegistersException(t *testing.T) {
	clientSide, serverSide := net.Pipe()
	defer clientSide.Close()

	go func() {
		buf := make([]byte, 260)
		n, err := serverSide.Read(buf)
		if err != nil {
			return
		}
		req := buf[:n]
		res := make([]byte, 9)
		copy(res[0:4], req[0:4])
		binary.BigEndian.PutUint16(res[4:], 3)
		res[6] = req[6]
		res[7] = req[7] | 0x80
		res[8] = byte(IllegalDataAddress)
		serverSide.Write(res)
	}()

	c := &Client{Config: Config{Mode: "tcp", Kind: "tcp"}}
	c.c = newStreamConn(clientSide)
	c.f = &tcp{}

	_, err := c.ReadHoldingRegisters(context.Background(), 1, 0, 1)
	assert.ErrorIs(t, err, IllegalDataAddress)
}
