package serialport

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Overridable in tests
var (
	devDir      = "/dev"
	sysClassTTY = "/sys/class/tty"
)

var (
	// Regular expressions for different types of serial devices
	portPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^ttyUSB\d+$`), // USB serial adapters
		regexp.MustCompile(`^ttyACM\d+$`), // USB CDC/ACM devices
		regexp.MustCompile(`^ttyS\d+$`),   // Standard serial ports
		regexp.MustCompile(`^ttyAMA\d+$`), // ARM/Raspberry Pi serial
		regexp.MustCompile(`^ttymxc\d+$`), // i.MX serial ports
		regexp.MustCompile(`^ttyO\d+$`),   // OMAP serial ports
		regexp.MustCompile(`^ttySAC\d+$`), // Samsung serial ports
		regexp.MustCompile(`^ttyTHS\d+$`), // Tegra serial ports
	}

	// Virtual terminals and other non-serial devices
	excludePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^tty\d+$`),
		regexp.MustCompile(`^console$`),
		regexp.MustCompile(`^ptmx$`),
		regexp.MustCompile(`^pty.*$`),
		regexp.MustCompile(`^pts/.*$`),
	}
)

// scanDevPorts returns the paths of communication-capable serial devices
// in dir, sorted. Virtual terminals are excluded.
func scanDevPorts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var ports []string
	for _, entry := range entries {
		name := entry.Name()
		if !isSerialDeviceName(name) {
			continue
		}

		fullPath := filepath.Join(dir, name)
		// Verify it's a character device (not a directory or regular file)
		if isCharacterDevice(fullPath) {
			ports = append(ports, fullPath)
		}
	}

	sort.Strings(ports)
	return ports, nil
}

func isSerialDeviceName(name string) bool {
	for _, p := range excludePatterns {
		if p.MatchString(name) {
			return false
		}
	}
	for _, p := range portPatterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

// isCharacterDevice checks if the given path is a character device
func isCharacterDevice(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// describePort builds a descriptor for a /dev path, with USB metadata when
// sysfs exposes it
func describePort(portPath string) PortDescriptor {
	name := filepath.Base(portPath)
	desc := PortDescriptor{
		Name:        name,
		Path:        portPath,
		Description: portDescription(name),
	}
	if strings.HasPrefix(name, "ttyUSB") || strings.HasPrefix(name, "ttyACM") {
		enrichUSBInfo(&desc)
	}
	return desc
}

// portDescription provides human-readable descriptions for different port types
func portDescription(name string) string {
	switch {
	case strings.HasPrefix(name, "ttyUSB"):
		return "USB Serial Port"
	case strings.HasPrefix(name, "ttyACM"):
		return "USB CDC/ACM Device"
	case strings.HasPrefix(name, "ttyAMA"):
		return "ARM Serial Port"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial Port"
	case strings.HasPrefix(name, "ttySAC"):
		return "Samsung Serial Port"
	case strings.HasPrefix(name, "ttyTHS"):
		return "Tegra Serial Port"
	case strings.HasPrefix(name, "ttyO"):
		return "OMAP Serial Port"
	case strings.HasPrefix(name, "ttyS"):
		return "Standard Serial Port"
	default:
		return "Serial Port"
	}
}

// enrichUSBInfo walks up from /sys/class/tty/<name>/device to the USB device
// directory (the one holding idVendor) and copies its identifiers.
func enrichUSBInfo(desc *PortDescriptor) {
	resolved, err := filepath.EvalSymlinks(filepath.Join(sysClassTTY, desc.Name, "device"))
	if err != nil {
		return
	}

	for dir := resolved; dir != "/" && dir != "."; dir = filepath.Dir(dir) {
		if _, err := os.Stat(filepath.Join(dir, "idVendor")); err != nil {
			continue
		}
		desc.IsUSB = true
		desc.VendorID = readSysfsFile(filepath.Join(dir, "idVendor"))
		desc.ProductID = readSysfsFile(filepath.Join(dir, "idProduct"))
		desc.SerialNumber = readSysfsFile(filepath.Join(dir, "serial"))
		desc.Manufacturer = readSysfsFile(filepath.Join(dir, "manufacturer"))
		desc.Product = readSysfsFile(filepath.Join(dir, "product"))
		return
	}
}

func readSysfsFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
