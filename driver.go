package serialport

import (
	"fmt"
	"sort"
	"time"
)

// PortDescriptor identifies a serial device found by enumeration
type PortDescriptor struct {
	Name         string // short device name, e.g. ttyUSB0 or COM3
	Path         string // what the driver opens, e.g. /dev/ttyUSB0
	Description  string
	IsUSB        bool
	VendorID     string
	ProductID    string
	SerialNumber string
	Manufacturer string
	Product      string
}

// Driver is the OS serial subsystem as seen by a Session
type Driver interface {
	// Enumerate lists the serial devices currently attached
	Enumerate() ([]PortDescriptor, error)
	// Open opens path for reading and writing and applies config.
	// A failed Open must not leave a handle behind.
	Open(path string, config Config) (Handle, error)
}

// Handle is an open, configured port
type Handle interface {
	// Write hands data to the OS once; it never retries a short write
	Write(data []byte) (int, error)
	// ReadAvailable returns whatever is buffered without waiting. It may be
	// called while WaitReadable is blocked on another goroutine.
	ReadAvailable() ([]byte, error)
	// WaitReadable blocks up to timeout for inbound data. An error means
	// the link is no longer usable; a hangup must be reported this way
	// rather than as readable.
	WaitReadable(timeout time.Duration) (bool, error)
	Close() error
}

// DriverNames lists the drivers available on this platform
func DriverNames() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DriverByName returns a registered driver, e.g. "termios" or "portable"
func DriverByName(name string) (Driver, error) {
	if name == "" {
		return DefaultDriver(), nil
	}
	d, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf("unknown driver %q (available: %v)", name, DriverNames())
	}
	return d, nil
}

// DefaultDriver returns the preferred driver for this platform
func DefaultDriver() Driver {
	return defaultDriver()
}

func sortDescriptors(ports []PortDescriptor) {
	sort.Slice(ports, func(i, j int) bool {
		return ports[i].Path < ports[j].Path
	})
}
