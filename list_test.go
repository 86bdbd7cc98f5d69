package serialport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIsCharacterDevice(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/dev/null", true},     // Should exist and be a character device
		{"/dev/zero", true},     // Should exist and be a character device
		{"/tmp", false},         // Directory, not character device
		{"/nonexistent", false}, // Doesn't exist
	}

	for _, test := range tests {
		result := isCharacterDevice(test.path)
		if result != test.expected {
			t.Errorf("isCharacterDevice(%s) = %v, expected %v", test.path, result, test.expected)
		}
	}
}

func TestPortDescription(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"ttyUSB0", "USB Serial Port"},
		{"ttyACM0", "USB CDC/ACM Device"},
		{"ttyS0", "Standard Serial Port"},
		{"ttyAMA0", "ARM Serial Port"},
		{"ttymxc0", "i.MX Serial Port"},
		{"ttyO0", "OMAP Serial Port"},
		{"ttySAC0", "Samsung Serial Port"},
		{"ttyTHS0", "Tegra Serial Port"},
		{"unknown", "Serial Port"},
	}

	for _, test := range tests {
		result := portDescription(test.name)
		if result != test.expected {
			t.Errorf("portDescription(%s) = %s, expected %s", test.name, result, test.expected)
		}
	}
}

func TestIsSerialDeviceName(t *testing.T) {
	testDevices := []struct {
		name        string
		shouldMatch bool
	}{
		{"ttyUSB0", true},
		{"ttyUSB1", true},
		{"ttyACM0", true},
		{"ttyS0", true},
		{"ttyAMA0", true},
		{"ttyTHS2", true},
		{"tty1", false},    // Virtual terminal
		{"tty2", false},    // Virtual terminal
		{"console", false}, // Console
		{"ptmx", false},    // Pseudo-terminal master
		{"ptyp0", false},   // Pseudo-terminal
		{"random", false},
		{"urandom", false},
		{"ttyUSB", false}, // No index
	}

	for _, device := range testDevices {
		if got := isSerialDeviceName(device.name); got != device.shouldMatch {
			t.Errorf("isSerialDeviceName(%s) = %v, expected %v", device.name, got, device.shouldMatch)
		}
	}
}

// fakeDevDir builds a /dev lookalike. Serial names are symlinks to /dev/null
// so they stat as character devices.
func fakeDevDir(t *testing.T, charDevs []string, regular []string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range charDevs {
		if err := os.Symlink("/dev/null", filepath.Join(dir, name)); err != nil {
			t.Fatalf("symlink %s: %v", name, err)
		}
	}
	for _, name := range regular {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestScanDevPorts(t *testing.T) {
	dir := fakeDevDir(t,
		[]string{"ttyUSB1", "ttyUSB0", "ttyS0", "tty1", "console", "null"},
		[]string{"ttyACM0"}, // Right name, not a character device
	)

	ports, err := scanDevPorts(dir)
	if err != nil {
		t.Fatalf("scanDevPorts failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, "ttyS0"),
		filepath.Join(dir, "ttyUSB0"),
		filepath.Join(dir, "ttyUSB1"),
	}
	if diff := cmp.Diff(want, ports); diff != "" {
		t.Errorf("scanDevPorts mismatch (-want +got):\n%s", diff)
	}
}

func TestScanDevPortsMissingDir(t *testing.T) {
	if _, err := scanDevPorts(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}

// fakeSysfs lays out /sys/class/tty/<name>/device pointing into a USB
// interface directory below a device directory holding the identifiers
func fakeSysfs(t *testing.T, name string, attrs map[string]string) string {
	t.Helper()
	root := t.TempDir()

	usbDev := filepath.Join(root, "devices", "usb1", "1-1")
	iface := filepath.Join(usbDev, "1-1:1.0", name)
	if err := os.MkdirAll(iface, 0o755); err != nil {
		t.Fatal(err)
	}
	for file, value := range attrs {
		if err := os.WriteFile(filepath.Join(usbDev, file), []byte(value+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	classTTY := filepath.Join(root, "class", "tty")
	if err := os.MkdirAll(filepath.Join(classTTY, name), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(iface, filepath.Join(classTTY, name, "device")); err != nil {
		t.Fatal(err)
	}
	return classTTY
}

func TestDescribePortUSB(t *testing.T) {
	classTTY := fakeSysfs(t, "ttyUSB0", map[string]string{
		"idVendor":     "0403",
		"idProduct":    "6001",
		"serial":       "FT123456",
		"manufacturer": "FTDI",
		"product":      "FT232R USB UART",
	})

	orig := sysClassTTY
	sysClassTTY = classTTY
	t.Cleanup(func() { sysClassTTY = orig })

	got := describePort("/dev/ttyUSB0")
	want := PortDescriptor{
		Name:         "ttyUSB0",
		Path:         "/dev/ttyUSB0",
		Description:  "USB Serial Port",
		IsUSB:        true,
		VendorID:     "0403",
		ProductID:    "6001",
		SerialNumber: "FT123456",
		Manufacturer: "FTDI",
		Product:      "FT232R USB UART",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("describePort mismatch (-want +got):\n%s", diff)
	}
}

func TestDescribePortWithoutSysfs(t *testing.T) {
	orig := sysClassTTY
	sysClassTTY = t.TempDir()
	t.Cleanup(func() { sysClassTTY = orig })

	got := describePort("/dev/ttyACM3")
	want := PortDescriptor{
		Name:        "ttyACM3",
		Path:        "/dev/ttyACM3",
		Description: "USB CDC/ACM Device",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("describePort mismatch (-want +got):\n%s", diff)
	}
}

// TestListPortsIntegration is an integration test that requires actual system
func TestListPortsIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ports := NewSession().ListPorts()
	t.Logf("Found %d serial ports:", len(ports))
	for i, port := range ports {
		t.Logf("  %d. %s (%s)", i+1, port.Path, port.Description)
		if port.Name == "" || port.Path == "" {
			t.Errorf("incomplete descriptor: %+v", port)
		}
		if strings.HasPrefix(port.Path, "/dev/") && !isCharacterDevice(port.Path) {
			t.Errorf("Port %s is not a character device", port.Path)
		}
	}
}

func BenchmarkScanDevPorts(b *testing.B) {
	for b.Loop() {
		if _, err := scanDevPorts(devDir); err != nil {
			b.Fatalf("scanDevPorts failed: %v", err)
		}
	}
}
