package serialport

import (
	"fmt"
	"strconv"
)

// BaudRate is the line speed in bits per second
type BaudRate int

const (
	Baud1200   BaudRate = 1200
	Baud2400   BaudRate = 2400
	Baud4800   BaudRate = 4800
	Baud9600   BaudRate = 9600
	Baud19200  BaudRate = 19200
	Baud38400  BaudRate = 38400
	Baud57600  BaudRate = 57600
	Baud115200 BaudRate = 115200
)

// DataBits is the character size
type DataBits int

const (
	DataBits5 DataBits = 5
	DataBits6 DataBits = 6
	DataBits7 DataBits = 7
	DataBits8 DataBits = 8
)

// Parity represents the parity mode
type Parity int

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
	ParityMark
	ParitySpace
)

// StopBits represents the number of stop bits
type StopBits int

const (
	StopBitsOne StopBits = iota
	StopBitsOneAndHalf
	StopBitsTwo
)

// FlowControl represents the flow control mode
type FlowControl int

const (
	FlowControlNone FlowControl = iota
	FlowControlHardware // RTS/CTS
	FlowControlSoftware // XON/XOFF
)

// Canonical display tables. The order is the order UIs should present.
var (
	BaudRates = NewSymbolTable("baud rate",
		Symbol[BaudRate]{Baud1200, "1200"},
		Symbol[BaudRate]{Baud2400, "2400"},
		Symbol[BaudRate]{Baud4800, "4800"},
		Symbol[BaudRate]{Baud9600, "9600"},
		Symbol[BaudRate]{Baud19200, "19200"},
		Symbol[BaudRate]{Baud38400, "38400"},
		Symbol[BaudRate]{Baud57600, "57600"},
		Symbol[BaudRate]{Baud115200, "115200"},
	)

	DataBitsSymbols = NewSymbolTable("data bits",
		Symbol[DataBits]{DataBits5, "5"},
		Symbol[DataBits]{DataBits6, "6"},
		Symbol[DataBits]{DataBits7, "7"},
		Symbol[DataBits]{DataBits8, "8"},
	)

	Parities = NewSymbolTable("parity",
		Symbol[Parity]{ParityNone, "None"},
		Symbol[Parity]{ParityEven, "Even"},
		Symbol[Parity]{ParityOdd, "Odd"},
		Symbol[Parity]{ParityMark, "Mark"},
		Symbol[Parity]{ParitySpace, "Space"},
	)

	StopBitsSymbols = NewSymbolTable("stop bits",
		Symbol[StopBits]{StopBitsOne, "1"},
		Symbol[StopBits]{StopBitsOneAndHalf, "1.5"},
		Symbol[StopBits]{StopBitsTwo, "2"},
	)

	FlowControls = NewSymbolTable("flow control",
		Symbol[FlowControl]{FlowControlNone, "None"},
		Symbol[FlowControl]{FlowControlHardware, "Hardware"},
		Symbol[FlowControl]{FlowControlSoftware, "Software"},
	)
)

func (b BaudRate) String() string {
	if s, ok := BaudRates.Name(b); ok {
		return s
	}
	return "BaudRate(" + strconv.Itoa(int(b)) + ")"
}

func (d DataBits) String() string {
	if s, ok := DataBitsSymbols.Name(d); ok {
		return s
	}
	return "DataBits(" + strconv.Itoa(int(d)) + ")"
}

func (p Parity) String() string {
	if s, ok := Parities.Name(p); ok {
		return s
	}
	return "Parity(" + strconv.Itoa(int(p)) + ")"
}

func (s StopBits) String() string {
	if name, ok := StopBitsSymbols.Name(s); ok {
		return name
	}
	return "StopBits(" + strconv.Itoa(int(s)) + ")"
}

func (f FlowControl) String() string {
	if s, ok := FlowControls.Name(f); ok {
		return s
	}
	return "FlowControl(" + strconv.Itoa(int(f)) + ")"
}

func ParseBaudRate(s string) (BaudRate, error)       { return BaudRates.Parse(s) }
func ParseDataBits(s string) (DataBits, error)       { return DataBitsSymbols.Parse(s) }
func ParseParity(s string) (Parity, error)           { return Parities.Parse(s) }
func ParseStopBits(s string) (StopBits, error)       { return StopBitsSymbols.Parse(s) }
func ParseFlowControl(s string) (FlowControl, error) { return FlowControls.Parse(s) }

// ListBaudRates returns the supported baud rates as display strings
func ListBaudRates() []string { return BaudRates.Names() }

// ListDataBits returns the supported character sizes as display strings
func ListDataBits() []string { return DataBitsSymbols.Names() }

// ListStopBits returns the supported stop bit settings as display strings
func ListStopBits() []string { return StopBitsSymbols.Names() }

// ListParities returns the supported parity modes as display strings
func ListParities() []string { return Parities.Names() }

// ListFlowControls returns the supported flow control modes as display strings
func ListFlowControls() []string { return FlowControls.Names() }

// Config holds the line configuration for a serial port
type Config struct {
	BaudRate    BaudRate
	DataBits    DataBits
	Parity      Parity
	StopBits    StopBits
	FlowControl FlowControl
}

// Option is a functional option for configuring a serial port
type Option func(*Config) error

// DefaultConfig returns 9600 8N1 without flow control
func DefaultConfig() Config {
	return Config{
		BaudRate:    Baud9600,
		DataBits:    DataBits8,
		Parity:      ParityNone,
		StopBits:    StopBitsOne,
		FlowControl: FlowControlNone,
	}
}

// NewConfig applies opts on top of DefaultConfig
func NewConfig(opts ...Option) (Config, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return Config{}, err
		}
	}
	return config, nil
}

// ParseConfig builds a configuration from display strings, as picked in a
// UI. Every field must match its table exactly.
func ParseConfig(baudRate, dataBits, parity, stopBits, flowControl string) (Config, error) {
	var (
		c   Config
		err error
	)
	if c.BaudRate, err = ParseBaudRate(baudRate); err != nil {
		return Config{}, err
	}
	if c.DataBits, err = ParseDataBits(dataBits); err != nil {
		return Config{}, err
	}
	if c.Parity, err = ParseParity(parity); err != nil {
		return Config{}, err
	}
	if c.StopBits, err = ParseStopBits(stopBits); err != nil {
		return Config{}, err
	}
	if c.FlowControl, err = ParseFlowControl(flowControl); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks every field against its symbol table
func (c Config) Validate() error {
	switch {
	case !BaudRates.Contains(c.BaudRate):
		return fmt.Errorf("%w: baud rate %d", ErrInvalidConfig, int(c.BaudRate))
	case !DataBitsSymbols.Contains(c.DataBits):
		return fmt.Errorf("%w: data bits %d", ErrInvalidConfig, int(c.DataBits))
	case !Parities.Contains(c.Parity):
		return fmt.Errorf("%w: parity %d", ErrInvalidConfig, int(c.Parity))
	case !StopBitsSymbols.Contains(c.StopBits):
		return fmt.Errorf("%w: stop bits %d", ErrInvalidConfig, int(c.StopBits))
	case !FlowControls.Contains(c.FlowControl):
		return fmt.Errorf("%w: flow control %d", ErrInvalidConfig, int(c.FlowControl))
	}
	return nil
}

// String renders the configuration in the usual "9600 8N1" notation
func (c Config) String() string {
	s := fmt.Sprintf("%s %s%c%s", c.BaudRate, c.DataBits, parityLetter(c.Parity), c.StopBits)
	if c.FlowControl != FlowControlNone {
		s += " " + c.FlowControl.String()
	}
	return s
}

func parityLetter(p Parity) byte {
	switch p {
	case ParityEven:
		return 'E'
	case ParityOdd:
		return 'O'
	case ParityMark:
		return 'M'
	case ParitySpace:
		return 'S'
	default:
		return 'N'
	}
}

// WithBaudRate sets the baud rate
func WithBaudRate(rate BaudRate) Option {
	return func(c *Config) error {
		if !BaudRates.Contains(rate) {
			return fmt.Errorf("%w: baud rate %d", ErrInvalidConfig, int(rate))
		}
		c.BaudRate = rate
		return nil
	}
}

// WithDataBits sets the number of data bits (5, 6, 7, or 8)
func WithDataBits(bits DataBits) Option {
	return func(c *Config) error {
		if !DataBitsSymbols.Contains(bits) {
			return fmt.Errorf("%w: data bits %d", ErrInvalidConfig, int(bits))
		}
		c.DataBits = bits
		return nil
	}
}

// WithParity sets the parity mode
func WithParity(parity Parity) Option {
	return func(c *Config) error {
		if !Parities.Contains(parity) {
			return fmt.Errorf("%w: parity %d", ErrInvalidConfig, int(parity))
		}
		c.Parity = parity
		return nil
	}
}

// WithStopBits sets the number of stop bits
func WithStopBits(bits StopBits) Option {
	return func(c *Config) error {
		if !StopBitsSymbols.Contains(bits) {
			return fmt.Errorf("%w: stop bits %d", ErrInvalidConfig, int(bits))
		}
		c.StopBits = bits
		return nil
	}
}

// WithFlowControl sets the flow control mode
func WithFlowControl(fc FlowControl) Option {
	return func(c *Config) error {
		if !FlowControls.Contains(fc) {
			return fmt.Errorf("%w: flow control %d", ErrInvalidConfig, int(fc))
		}
		c.FlowControl = fc
		return nil
	}
}
