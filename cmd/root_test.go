package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	serialport "github.com/allbin/go-serialport"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHint(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: ttyUSB9", serialport.ErrPortNotFound), "serialport list"},
		{serialport.ErrPermissionDenied, "dialout"},
		{serialport.ErrDeviceInUse, "Another program"},
		{&serialport.SymbolError{Table: "parity", Input: "Purple"}, "serialport options"},
		{errors.New("boom"), ""},
	}
	for _, tt := range tests {
		hint := errorHint(tt.err)
		if tt.want == "" {
			assert.Empty(t, hint)
			continue
		}
		assert.Contains(t, hint, tt.want)
	}
}

func TestLineConfigFromEnvironment(t *testing.T) {
	t.Setenv("SERIALPORT_BAUD", "115200")
	t.Setenv("SERIALPORT_FLOW_CONTROL", "Hardware")
	t.Cleanup(viper.Reset)
	viper.SetEnvPrefix("SERIALPORT")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	cmd := &cobra.Command{Use: "line"}
	addLineFlags(cmd)
	require.NoError(t, cmd.Flags().Set("parity", "Even"))
	require.NoError(t, viper.BindPFlags(cmd.Flags()))

	cfg, err := lineConfig()
	require.NoError(t, err)
	assert.Equal(t, serialport.Baud115200, cfg.BaudRate)
	assert.Equal(t, serialport.ParityEven, cfg.Parity)
	assert.Equal(t, serialport.DataBits8, cfg.DataBits)
	assert.Equal(t, serialport.FlowControlHardware, cfg.FlowControl)
}

func TestParseLineEnding(t *testing.T) {
	for name, want := range map[string]string{"none": "", "lf": "\n", "CR": "\r", "crlf": "\r\n"} {
		got, err := parseLineEnding(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := parseLineEnding("nul")
	assert.Error(t, err)
}

func TestBuildPayload(t *testing.T) {
	got, err := buildPayload("AA BB CC", true, true)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC}, got, "hex payloads never get a newline")

	got, err = buildPayload("AT", false, true)
	require.NoError(t, err)
	assert.Equal(t, []byte("AT\n"), got)

	_, err = buildPayload("", false, false)
	assert.Error(t, err)
	_, err = buildPayload("GG", true, false)
	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "AT.", preview([]byte("AT\n"), 50))
	assert.Equal(t, "abc...", preview([]byte("abcdef"), 3))
}

func TestSendPayload(t *testing.T) {
	drv := serialport.NewMockDriver(serialport.MockPortDescriptor("ttyUSB0"))
	session := serialport.NewSession(serialport.WithDriver(drv))

	var out bytes.Buffer
	require.NoError(t, sendPayload(&out, session, "ttyUSB0", serialport.DefaultConfig(), []byte("ping")))
	assert.Equal(t, []byte("ping"), drv.LastPort().Written())
	assert.True(t, drv.LastPort().Closed())
	assert.Contains(t, out.String(), "Successfully sent 4 bytes")
}

func TestCaptureWrite(t *testing.T) {
	var file, console bytes.Buffer
	c := &capture{out: &file, console: &console, hex: true}
	c.write([]byte{0x01, 0x02})
	c.write([]byte("A"))

	written, err := c.result()
	require.NoError(t, err)
	assert.EqualValues(t, 3, written)
	assert.Equal(t, []byte{0x01, 0x02, 'A'}, file.Bytes())
	assert.Equal(t, "01 02\n41\n", console.String())
}

func TestPrintOptions(t *testing.T) {
	var buf bytes.Buffer
	printOptions(&buf)
	out := buf.String()
	for _, want := range []string{"Baud rates", "115200", "Parity", "Even", "Flow control", "Hardware", "* default"} {
		assert.Contains(t, out, want)
	}
}
