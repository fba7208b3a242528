package modbus

import (
	"encoding/binary"
)

func byteCount(bitCount uint16) int {
	return int((bitCount + 7) / 8)
}

func bytesToBools(quantity uint16, bytes []byte) []bool {
	buf := make([]bool, quantity)
	for i, x := range bytes {
		for j := 0; j < 8; j++ {
			k := 8*i + j
			if len(buf) == k {
				return buf
			}
			buf[k] = (x>>uint(j))&0x01 == 0x01
		}
	}
	return buf
}

// boundCheck validates a request address/quantity pair against the
// protocol limit for the function code in use. It returns 0 (not a valid
// Exception value) when the parameters are within bounds.
func boundCheck(address, quantity, max uint16) Exception {
	if quantity == 0 || quantity > max {
		return IllegalDataValue
	}
	if int(address)+int(quantity) > 0x10000 {
		return IllegalDataAddress
	}
	return 0
}

func put(length int, args ...interface{}) []byte {
	new := make([]byte, length)
	buf := new
	for _, arg := range args {
		switch v := arg.(type) {
		case byte:
			buf = putByte(buf, v)
		case []byte:
			buf = putByteS(buf, v)
		case uint16:
			buf = putUint16(buf, v)
		case []uint16:
			buf = putUint16S(buf, v)
		}
	}

	return new
}

func putByte(buf []byte, arg byte) []byte {
	buf[0] = arg
	return buf[1:]
}

func putByteS(buf []byte, args []byte) []byte {
	return buf[copy(buf, args):]
}

func putUint16(buf []byte, arg uint16) []byte {
	binary.BigEndian.PutUint16(buf, arg)
	return buf[2:]
}

func putUint16S(buf []byte, args []uint16) []byte {
	for _, arg := range args {
		buf = putUint16(buf, arg)
	}
	return buf
}
