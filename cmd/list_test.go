package cmd

import (
	"bytes"
	"strings"
	"testing"

	serialport "github.com/allbin/go-serialport"
	"github.com/stretchr/testify/assert"
)

func testPorts() []serialport.PortDescriptor {
	return []serialport.PortDescriptor{
		{Name: "ttyACM0", Path: "/dev/ttyACM0", IsUSB: true, VendorID: "2341", ProductID: "0043"},
		{Name: "ttyAMA0", Path: "/dev/ttyAMA0"},
		{Name: "ttyS0", Path: "/dev/ttyS0"},
		{Name: "ttySAC0", Path: "/dev/ttySAC0"},
		{Name: "ttyUSB0", Path: "/dev/ttyUSB0", IsUSB: true, VendorID: "0403", ProductID: "6001", SerialNumber: "A50285BI"},
	}
}

func names(ports []serialport.PortDescriptor) []string {
	out := make([]string, len(ports))
	for i, p := range ports {
		out[i] = p.Name
	}
	return out
}

func TestFilterPorts(t *testing.T) {
	tests := []struct {
		filter string
		want   []string
	}{
		{"all", []string{"ttyACM0", "ttyAMA0", "ttyS0", "ttySAC0", "ttyUSB0"}},
		{"", []string{"ttyACM0", "ttyAMA0", "ttyS0", "ttySAC0", "ttyUSB0"}},
		{"usb", []string{"ttyACM0", "ttyUSB0"}},
		{"USB", []string{"ttyACM0", "ttyUSB0"}},
		{"standard", []string{"ttyS0"}},
		{"arm", []string{"ttyAMA0"}},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			assert.Equal(t, tt.want, names(filterPorts(testPorts(), tt.filter)))
		})
	}
}

func TestValidFilter(t *testing.T) {
	assert.True(t, validFilter("Arm"))
	assert.False(t, validFilter("bluetooth"))
}

func TestPortType(t *testing.T) {
	assert.Equal(t, "USB Serial", portType("ttyUSB3"))
	assert.Equal(t, "USB CDC/ACM", portType("ttyACM0"))
	assert.Equal(t, "Samsung Serial", portType("ttySAC1"))
	assert.Equal(t, "Standard Serial", portType("ttyS4"))
	assert.Equal(t, "COM Port", portType("COM3"))
	assert.Equal(t, "Serial Port", portType("cu.usbserial"))
}

func TestRenderSimple(t *testing.T) {
	var buf bytes.Buffer
	renderSimple(&buf, testPorts()[:2])
	assert.Equal(t, "/dev/ttyACM0\n/dev/ttyAMA0\n", buf.String())
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	renderTable(&buf, testPorts())
	out := buf.String()
	assert.Contains(t, out, "Found 5 serial port(s)")
	assert.Contains(t, out, "ttyUSB0")
	assert.Contains(t, out, "0403:6001")
}

func TestLookupPort(t *testing.T) {
	byName, ok := lookupPort(testPorts(), "ttyUSB0")
	assert.True(t, ok)
	byPath, ok := lookupPort(testPorts(), "/dev/ttyUSB0")
	assert.True(t, ok)
	assert.Equal(t, byName, byPath)

	_, ok = lookupPort(testPorts(), "COM_GHOST")
	assert.False(t, ok)
}

func TestPrintPortInfo(t *testing.T) {
	var buf bytes.Buffer
	printPortInfo(&buf, testPorts()[4])
	out := buf.String()
	assert.Contains(t, out, "USB Device Information")
	assert.Contains(t, out, "A50285BI")

	buf.Reset()
	printPortInfo(&buf, testPorts()[2])
	assert.False(t, strings.Contains(buf.String(), "USB Device Information"))
}

func TestDiffPorts(t *testing.T) {
	before := testPorts()[:3]
	after := append([]serialport.PortDescriptor{}, testPorts()[1:]...)

	added, removed := diffPorts(before, after)
	assert.Equal(t, []string{"ttySAC0", "ttyUSB0"}, names(added))
	assert.Equal(t, []string{"ttyACM0"}, names(removed))

	added, removed = diffPorts(before, before)
	assert.Empty(t, added)
	assert.Empty(t, removed)
}
