package serialport

import (
	"errors"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.BaudRate != Baud9600 {
		t.Errorf("Expected BaudRate 9600, got %d", config.BaudRate)
	}
	if config.DataBits != DataBits8 {
		t.Errorf("Expected DataBits 8, got %d", config.DataBits)
	}
	if config.Parity != ParityNone {
		t.Errorf("Expected Parity None, got %v", config.Parity)
	}
	if config.StopBits != StopBitsOne {
		t.Errorf("Expected StopBits 1, got %v", config.StopBits)
	}
	if config.FlowControl != FlowControlNone {
		t.Errorf("Expected FlowControl None, got %v", config.FlowControl)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("DefaultConfig does not validate: %v", err)
	}
}

func TestFunctionalOptions(t *testing.T) {
	config, err := NewConfig(
		WithBaudRate(Baud115200),
		WithDataBits(DataBits7),
		WithParity(ParityEven),
		WithStopBits(StopBitsTwo),
		WithFlowControl(FlowControlHardware),
	)
	if err != nil {
		t.Fatalf("NewConfig failed: %v", err)
	}

	want := Config{
		BaudRate:    Baud115200,
		DataBits:    DataBits7,
		Parity:      ParityEven,
		StopBits:    StopBitsTwo,
		FlowControl: FlowControlHardware,
	}
	if config != want {
		t.Errorf("NewConfig = %+v, want %+v", config, want)
	}
}

func TestInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"baud 300", WithBaudRate(300)},
		{"baud 0", WithBaudRate(0)},
		{"data bits 9", WithDataBits(9)},
		{"data bits 4", WithDataBits(4)},
		{"parity out of range", WithParity(Parity(99))},
		{"stop bits out of range", WithStopBits(StopBits(-1))},
		{"flow control out of range", WithFlowControl(FlowControl(7))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(tt.opt)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("NewConfig error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"1.5 stop bits", func(c *Config) { c.StopBits = StopBitsOneAndHalf }, false},
		{"mark parity", func(c *Config) { c.Parity = ParityMark }, false},
		{"zero value", func(c *Config) { *c = Config{} }, true},
		{"baud 250000", func(c *Config) { c.BaudRate = 250000 }, true},
		{"data bits 9", func(c *Config) { c.DataBits = 9 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name                                   string
		baud, dataBits, parity, stopBits, flow string
		want                                   Config
		wantErr                                bool
	}{
		{
			name: "defaults",
			baud: "9600", dataBits: "8", parity: "None", stopBits: "1", flow: "None",
			want: DefaultConfig(),
		},
		{
			name: "115200 7E2 hardware",
			baud: "115200", dataBits: "7", parity: "Even", stopBits: "2", flow: "Hardware",
			want: Config{Baud115200, DataBits7, ParityEven, StopBitsTwo, FlowControlHardware},
		},
		{
			name: "1.5 stop bits",
			baud: "1200", dataBits: "5", parity: "Space", stopBits: "1.5", flow: "Software",
			want: Config{Baud1200, DataBits5, ParitySpace, StopBitsOneAndHalf, FlowControlSoftware},
		},
		{
			name: "unknown baud",
			baud: "999999", dataBits: "8", parity: "None", stopBits: "1", flow: "None",
			wantErr: true,
		},
		{
			name: "lower case parity",
			baud: "9600", dataBits: "8", parity: "none", stopBits: "1", flow: "None",
			wantErr: true,
		},
		{
			name: "empty flow control",
			baud: "9600", dataBits: "8", parity: "None", stopBits: "1", flow: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConfig(tt.baud, tt.dataBits, tt.parity, tt.stopBits, tt.flow)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownSymbol) {
					t.Errorf("ParseConfig error = %v, want ErrUnknownSymbol", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseConfig failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseConfig = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	tests := []struct {
		config Config
		want   string
	}{
		{DefaultConfig(), "9600 8N1"},
		{Config{Baud115200, DataBits7, ParityEven, StopBitsTwo, FlowControlNone}, "115200 7E2"},
		{Config{Baud19200, DataBits8, ParityOdd, StopBitsOneAndHalf, FlowControlHardware}, "19200 8O1.5 Hardware"},
		{Config{Baud4800, DataBits5, ParityMark, StopBitsOne, FlowControlSoftware}, "4800 5M1 Software"},
	}

	for _, tt := range tests {
		if got := tt.config.String(); got != tt.want {
			t.Errorf("Config.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestEnumStringFallback(t *testing.T) {
	if got := BaudRate(300).String(); got != "BaudRate(300)" {
		t.Errorf("BaudRate(300).String() = %q", got)
	}
	if got := Parity(42).String(); got != "Parity(42)" {
		t.Errorf("Parity(42).String() = %q", got)
	}
	if got := StopBitsOneAndHalf.String(); got != "1.5" {
		t.Errorf("StopBitsOneAndHalf.String() = %q", got)
	}
}
