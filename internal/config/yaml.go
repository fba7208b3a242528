package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fieldgrid/mbpoll/internal/codec"
)

type rawAdjustment map[string]interface{}

type rawRegister struct {
	Name        string          `yaml:"name"`
	Active      bool            `yaml:"active"`
	Format      string          `yaml:"format"`
	Type        string          `yaml:"type"`
	Adjustments []rawAdjustment `yaml:"adjustments"`
}

type rawConnParams struct {
	Address  byte   `yaml:"address"`
	Timeout  int    `yaml:"timeout"`
	BaudRate int    `yaml:"baudrate"`
	ByteSize int    `yaml:"bytesize"`
	Parity   string `yaml:"parity"`
	StopBits int    `yaml:"stopbits"`
}

type rawConnection struct {
	Transport string        `yaml:"transport"`
	Src       string        `yaml:"src"`
	Config    rawConnParams `yaml:"config"`
}

type rawRegisters struct {
	Coils            map[string]rawRegister `yaml:"01 Read Coils"`
	DiscreteInputs   map[string]rawRegister `yaml:"02 Read Discrete Inputs"`
	HoldingRegisters map[string]rawRegister `yaml:"03 Read Holding Registers"`
	InputRegisters   map[string]rawRegister `yaml:"04 Read Input Registers"`
}

type rawDevice struct {
	Name       string        `yaml:"name"`
	Active     bool          `yaml:"active"`
	Connection rawConnection `yaml:"connection"`
	Registers  rawRegisters  `yaml:"registers"`
}

type rawRoot struct {
	LogLevel int         `yaml:"log level"`
	ScanRate int         `yaml:"scan rate"`
	Table    string       `yaml:"table"`
	Devices  []rawDevice `yaml:"devices"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Root, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var raw rawRoot
	raw.ScanRate = 1000
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	root := &Root{
		LogLevel: raw.LogLevel,
		Table:    raw.Table,
		ScanRate: time.Duration(raw.ScanRate) * time.Millisecond,
	}

	for _, rd := range raw.Devices {
		dev, err := convertDevice(rd)
		if err != nil {
			return nil, fmt.Errorf("config: device %q: %w", rd.Name, err)
		}
		root.Devices = append(root.Devices, dev)
	}

	if err := Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}

func convertDevice(rd rawDevice) (*Device, error) {
	dev := &Device{
		Name:   rd.Name,
		Active: rd.Active,
		Connection: Connection{
			Transport: Transport(rd.Connection.Transport),
			Src:       rd.Connection.Src,
			Params: ConnParams{
				Address:  rd.Connection.Config.Address,
				Timeout:  time.Duration(rd.Connection.Config.Timeout) * time.Millisecond,
				BaudRate: rd.Connection.Config.BaudRate,
				ByteSize: rd.Connection.Config.ByteSize,
				StopBits: rd.Connection.Config.StopBits,
			},
		},
	}
	if p := rd.Connection.Config.Parity; p != "" {
		dev.Connection.Params.Parity = p[0]
	}

	groups := []struct {
		src  map[string]rawRegister
		dest *[]*Register
	}{
		{rd.Registers.Coils, &dev.Coils},
		{rd.Registers.DiscreteInputs, &dev.DiscreteInputs},
		{rd.Registers.HoldingRegisters, &dev.HoldingRegisters},
		{rd.Registers.InputRegisters, &dev.InputRegisters},
	}
	for _, g := range groups {
		regs, err := convertRegisters(g.src)
		if err != nil {
			return nil, err
		}
		*g.dest = regs
	}
	return dev, nil
}

func convertRegisters(src map[string]rawRegister) ([]*Register, error) {
	addrs := make([]uint16, 0, len(src))
	for k := range src {
		addr, err := strconv.ParseUint(k, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid register address %q: %w", k, err)
		}
		addrs = append(addrs, uint16(addr))
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	regs := make([]*Register, 0, len(addrs))
	for _, addr := range addrs {
		rr := src[strconv.Itoa(int(addr))]

		var format codec.Format
		var err error
		if rr.Active {
			format, err = codec.ParseFormat(rr.Format)
			if err != nil {
				return nil, err
			}
		}

		adjustments := make([]codec.Adjustment, 0, len(rr.Adjustments))
		for _, ra := range rr.Adjustments {
			if len(ra) != 1 {
				return nil, fmt.Errorf("adjustment entry must have exactly one key, got %d", len(ra))
			}
			for k, v := range ra {
				adj, err := codec.ParseAdjustment(k, fmt.Sprint(v))
				if err != nil {
					return nil, err
				}
				adjustments = append(adjustments, adj)
			}
		}

		regs = append(regs, &Register{
			ID:          fmt.Sprintf("%d", addr),
			Name:        rr.Name,
			Active:      rr.Active,
			Format:      format,
			SQLType:     rr.Type,
			Adjustments: adjustments,
			Address:     addr,
		})
	}
	return regs, nil
}
