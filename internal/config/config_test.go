package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
log level: 1
scan rate: 500
table: telemetry
devices:
  - name: plc1
    active: true
    connection:
      transport: TCP
      src: 10.0.0.5:502
      config:
        address: 1
        timeout: 1000
    registers:
      "03 Read Holding Registers":
        "100":
          name: level
          active: true
          format: Unsigned
          type: INTEGER
        "101":
          name: flow
          active: true
          format: Float AB CD
          type: REAL
          adjustments:
            - "+": 1
            - "*": 2
`

func writeTemp(t *testing.T, content string) string {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSampleConfig(t *testing.T) {
	path := writeTemp(t, sampleYAML)
	root, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "telemetry", root.Table)
	require.Len(t, root.Devices, 1)

	dev := root.Devices[0]
	require.Len(t, dev.HoldingRegisters, 2)
	assert.Equal(t, uint16(100), dev.HoldingRegisters[0].Address)
	assert.Equal(t, uint16(101), dev.HoldingRegisters[1].Address)
	assert.Len(t, dev.HoldingRegisters[1].Adjustments, 2)
}

func TestColumnNameDerivation(t *testing.T) {
	dev := &Device{Name: "plc1"}
	reg := &Register{Name: "Flow (A)", SQLType: "REAL-X"}
	assert.Equal(t, "plc1_Flow__A_REALX", ColumnName(dev, reg))
}

func TestColumnNameCollisionRejected(t *testing.T) {
	yamlContent := `
table: t
devices:
  - name: plc1
    active: true
    connection:
      transport: TCP
      src: x:1
      config:
        address: 1
    registers:
      "03 Read Holding Registers":
        "1":
          name: a
          active: true
          format: Unsigned
          type: INTEGER
        "2":
          name: a
          active: true
          format: Unsigned
          type: INTEGER
`
	path := writeTemp(t, yamlContent)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestInvalidSerialBaudRateRejected(t *testing.T) {
	yamlContent := `
table: t
devices:
  - name: rtu1
    active: true
    connection:
      transport: serial
      src: /dev/ttyUSB0
      config:
        address: 1
        baudrate: 4800
        bytesize: 8
        parity: N
        stopbits: 1
    registers: {}
`
	path := writeTemp(t, yamlContent)
	_, err := Load(path)
	assert.Error(t, err)
}
