// config.go - TOML configuration surface for the emulator
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// ConfigError is fatal at startup and maps to exit status 1.
type ConfigError struct {
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Option, e.Reason)
}

// EmulatorConfig holds the machine-level options.
type EmulatorConfig struct {
	RAMSize           uint32 `toml:"ram_size"`
	BootDelayMS       int    `toml:"boot_delay"`
	EnableBreakpoints bool   `toml:"enable_breakpoints"`
	CPU186            bool   `toml:"cpu_186"`
}

// DiskConfig describes the fixed-disk image backing drive 80h.
type DiskConfig struct {
	ImagePath    string `toml:"image_path"`
	WriteProtect bool   `toml:"write_protect"`
	Geometry     string `toml:"geometry"` // auto | custom
	Cylinders    int    `toml:"cylinders"`
	Heads        int    `toml:"heads"`
	Sectors      int    `toml:"sectors"`
	SectorSize   int    `toml:"sector_size"`
}

// SerialPortConfig describes one emulated COM port.
type SerialPortConfig struct {
	Enabled          bool   `toml:"enabled"`
	BaudRate         int    `toml:"baud_rate"`
	DataBits         int    `toml:"data_bits"`
	StopBits         int    `toml:"stop_bits"`
	Parity           string `toml:"parity"`       // none | odd | even | mark | space
	FlowControl      string `toml:"flow_control"` // none | hardware | software | both
	FIFOEnabled      bool   `toml:"fifo_enabled"`
	FIFOTriggerLevel int    `toml:"fifo_trigger_level"` // 1 | 4 | 8 | 14
	DTROnBoot        bool   `toml:"dtr_on_boot"`
	RTSOnBoot        bool   `toml:"rts_on_boot"`
	LogTraffic       bool   `toml:"log_traffic"`
	Device           string `toml:"device"` // optional host serial passthrough
}

// DebugConfig holds the trace toggles and breakpoint seeds.
type DebugConfig struct {
	TraceInstructions  bool     `toml:"trace_instructions"`
	TraceInterrupts    bool     `toml:"trace_interrupts"`
	TraceIO            bool     `toml:"trace_io"`
	BreakOnInt         []int    `toml:"break_on_int"`
	BreakOnIO          []int    `toml:"break_on_io"`
	InitialBreakpoints []uint32 `toml:"initial_breakpoints"`
}

// Config is the root of the configuration file.
type Config struct {
	Emulator EmulatorConfig              `toml:"emulator"`
	Disk     DiskConfig                  `toml:"disk"`
	Serial   map[string]SerialPortConfig `toml:"serial"`
	Debug    DebugConfig                 `toml:"debug"`
}

// DefaultConfig returns the power-on defaults: a full megabyte of RAM, COM1
// enabled at 9600 8N1, everything else off.
func DefaultConfig() *Config {
	return &Config{
		Emulator: EmulatorConfig{
			RAMSize: memorySize,
		},
		Disk: DiskConfig{
			Geometry:   "auto",
			SectorSize: 512,
		},
		Serial: map[string]SerialPortConfig{
			"com1": defaultSerialPort(),
		},
	}
}

func defaultSerialPort() SerialPortConfig {
	return SerialPortConfig{
		Enabled:          true,
		BaudRate:         9600,
		DataBits:         8,
		StopBits:         1,
		Parity:           "none",
		FlowControl:      "none",
		FIFOEnabled:      true,
		FIFOTriggerLevel: 1,
		DTROnBoot:        true,
		RTSOnBoot:        true,
	}
}

// LoadConfig reads and validates a TOML configuration file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, &ConfigError{Option: path, Reason: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ComPort returns the configuration of COM port n (1-4) and whether it is
// present and enabled.
func (c *Config) ComPort(n int) (SerialPortConfig, bool) {
	pc, ok := c.Serial[fmt.Sprintf("com%d", n)]
	return pc, ok && pc.Enabled
}

// Validate checks every recognized option range.
func (c *Config) Validate() error {
	if c.Emulator.RAMSize == 0 || c.Emulator.RAMSize > memorySize {
		return &ConfigError{Option: "emulator.ram_size", Reason: "must be between 1 and 1 MiB"}
	}
	if c.Emulator.BootDelayMS < 0 {
		return &ConfigError{Option: "emulator.boot_delay", Reason: "must not be negative"}
	}

	switch c.Disk.Geometry {
	case "", "auto":
	case "custom":
		if c.Disk.Cylinders <= 0 || c.Disk.Cylinders > 1024 {
			return &ConfigError{Option: "disk.cylinders", Reason: "must be 1-1024"}
		}
		if c.Disk.Heads <= 0 || c.Disk.Heads > 255 {
			return &ConfigError{Option: "disk.heads", Reason: "must be 1-255"}
		}
		if c.Disk.Sectors <= 0 || c.Disk.Sectors > 63 {
			return &ConfigError{Option: "disk.sectors", Reason: "must be 1-63"}
		}
	default:
		return &ConfigError{Option: "disk.geometry", Reason: "must be auto or custom"}
	}
	if c.Disk.SectorSize != 0 && c.Disk.SectorSize != 128 && c.Disk.SectorSize != 256 &&
		c.Disk.SectorSize != 512 && c.Disk.SectorSize != 1024 {
		return &ConfigError{Option: "disk.sector_size", Reason: "must be 128, 256, 512 or 1024"}
	}

	for name, pc := range c.Serial {
		var n int
		if _, err := fmt.Sscanf(name, "com%d", &n); err != nil || n < 1 || n > 4 {
			return &ConfigError{Option: "serial." + name, Reason: "port must be com1-com4"}
		}
		if !pc.Enabled {
			continue
		}
		if err := validateSerialPort(name, pc); err != nil {
			return err
		}
	}

	for _, v := range c.Debug.BreakOnInt {
		if v < 0 || v > 255 {
			return &ConfigError{Option: "debug.break_on_int", Reason: "vector must be 0-255"}
		}
	}
	for _, v := range c.Debug.BreakOnIO {
		if v < 0 || v > 0xFFFF {
			return &ConfigError{Option: "debug.break_on_io", Reason: "port must be 0-65535"}
		}
	}
	for _, a := range c.Debug.InitialBreakpoints {
		if a > addressMask {
			return &ConfigError{Option: "debug.initial_breakpoints", Reason: "address exceeds 20 bits"}
		}
	}
	return nil
}

func validateSerialPort(name string, pc SerialPortConfig) error {
	if pc.BaudRate <= 0 {
		return &ConfigError{Option: "serial." + name + ".baud_rate", Reason: "must be positive"}
	}
	if pc.DataBits < 5 || pc.DataBits > 8 {
		return &ConfigError{Option: "serial." + name + ".data_bits", Reason: "must be 5-8"}
	}
	if pc.StopBits != 1 && pc.StopBits != 2 {
		return &ConfigError{Option: "serial." + name + ".stop_bits", Reason: "must be 1 or 2"}
	}
	switch pc.Parity {
	case "", "none", "odd", "even", "mark", "space":
	default:
		return &ConfigError{Option: "serial." + name + ".parity", Reason: "must be none, odd, even, mark or space"}
	}
	switch pc.FlowControl {
	case "", "none", "hardware", "software", "both":
	default:
		return &ConfigError{Option: "serial." + name + ".flow_control", Reason: "must be none, hardware, software or both"}
	}
	switch pc.FIFOTriggerLevel {
	case 0, 1, 4, 8, 14:
	default:
		return &ConfigError{Option: "serial." + name + ".fifo_trigger_level", Reason: "must be 1, 4, 8 or 14"}
	}
	return nil
}
