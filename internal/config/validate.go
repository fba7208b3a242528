package config

import (
	"fmt"
	"strings"
)

var allowedBaudRates = map[int]bool{
	9600: true, 14400: true, 19200: true, 38400: true,
	56000: true, 57600: true, 115200: true,
}

// Validate checks structural and domain constraints that are not
// expressible in the YAML shape itself: serial line parameter sets,
// transport-specific required fields, and column-name uniqueness across
// the active registers of all devices. A failure here is ConfigInvalid, fatal at
// startup.
func Validate(root *Root) error {
	seen := make(map[string]string)

	for _, dev := range root.Devices {
		if err := validateConnection(dev); err != nil {
			return fmt.Errorf("device %q: %w", dev.Name, err)
		}

		for _, group := range [][]*Register{dev.Coils, dev.DiscreteInputs, dev.HoldingRegisters, dev.InputRegisters} {
			for _, reg := range group {
				if !reg.Active {
					continue
				}
				key := strings.ToLower(ColumnName(dev, reg))
				if prior, ok := seen[key]; ok {
					return fmt.Errorf("config: column name collision %q between %s and %s", key, prior, dev.Name+"."+reg.Name)
				}
				seen[key] = dev.Name + "." + reg.Name
			}
		}
	}
	return nil
}

func validateConnection(dev *Device) error {
	switch dev.Connection.Transport {
	case TransportTCP:
		if dev.Connection.Src == "" {
			return fmt.Errorf("tcp connection requires src")
		}
	case TransportSerial:
		if dev.Connection.Src == "" {
			return fmt.Errorf("serial connection requires src")
		}
		p := dev.Connection.Params
		if !allowedBaudRates[p.BaudRate] {
			return fmt.Errorf("unsupported baudrate %d", p.BaudRate)
		}
		if p.ByteSize != 7 && p.ByteSize != 8 {
			return fmt.Errorf("unsupported bytesize %d", p.ByteSize)
		}
		switch p.Parity {
		case 'N', 'O', 'E':
		default:
			return fmt.Errorf("unsupported parity %q", p.Parity)
		}
		if p.StopBits != 1 && p.StopBits != 2 {
			return fmt.Errorf("unsupported stopbits %d", p.StopBits)
		}
	default:
		return fmt.Errorf("unknown transport %q", dev.Connection.Transport)
	}
	return nil
}

// ColumnName derives the row-writer's column name for one register of
// one device: "{device}_{register}_{type}" with ")" and "-" removed and
// spaces/"(" replaced by "_".
func ColumnName(dev *Device, reg *Register) string {
	raw := fmt.Sprintf("%s_%s_%s", dev.Name, reg.Name, reg.SQLType)
	raw = strings.NewReplacer(")", "", "-", "").Replace(raw)
	raw = strings.NewReplacer(" ", "_", "(", "_").Replace(raw)
	return raw
}
