package serialport

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// PortableDriver is backed by go.bug.st/serial and works on every OS that
// library supports. It has no flow control support.
type PortableDriver struct{}

var _ Driver = PortableDriver{}

func (PortableDriver) Enumerate() ([]PortDescriptor, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}

	ports := make([]PortDescriptor, 0, len(details))
	for _, d := range details {
		desc := PortDescriptor{
			Name:         filepath.Base(d.Name),
			Path:         d.Name,
			Description:  d.Product,
			IsUSB:        d.IsUSB,
			VendorID:     d.VID,
			ProductID:    d.PID,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		}
		if desc.Description == "" {
			desc.Description = portDescription(desc.Name)
		}
		ports = append(ports, desc)
	}
	sortDescriptors(ports)
	return ports, nil
}

func (PortableDriver) Open(path string, config Config) (Handle, error) {
	mode, err := serialMode(config)
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, classifyPortError(err)
	}
	if err := port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to flush input: %w", err)
	}
	return &portableHandle{port: port}, nil
}

// serialMode converts config into the mode structure go.bug.st/serial opens
// a port with
func serialMode(config Config) (*serial.Mode, error) {
	if config.FlowControl != FlowControlNone {
		return nil, fmt.Errorf("%w: flow control %s not supported by portable driver", ErrInvalidConfig, config.FlowControl)
	}

	mode := &serial.Mode{
		BaudRate: int(config.BaudRate),
		DataBits: int(config.DataBits),
	}

	switch config.Parity {
	case ParityNone:
		mode.Parity = serial.NoParity
	case ParityEven:
		mode.Parity = serial.EvenParity
	case ParityOdd:
		mode.Parity = serial.OddParity
	case ParityMark:
		mode.Parity = serial.MarkParity
	case ParitySpace:
		mode.Parity = serial.SpaceParity
	default:
		return nil, fmt.Errorf("%w: parity %d", ErrInvalidConfig, int(config.Parity))
	}

	switch config.StopBits {
	case StopBitsOne:
		mode.StopBits = serial.OneStopBit
	case StopBitsTwo:
		mode.StopBits = serial.TwoStopBits
	default:
		// Accepted by the library but rejected by the linux backend at open
		return nil, fmt.Errorf("%w: stop bits %s not supported by portable driver", ErrInvalidConfig, config.StopBits)
	}

	return mode, nil
}

// classifyPortError maps library failures onto the package sentinels. The
// library hands some open(2) errnos back unwrapped.
func classifyPortError(err error) error {
	var pe *serial.PortError
	if !errors.As(err, &pe) {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("%w: %w", ErrPortNotFound, err)
		case errors.Is(err, fs.ErrPermission):
			return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
		}
		return err
	}
	switch pe.Code() {
	case serial.PortNotFound:
		return fmt.Errorf("%w: %w", ErrPortNotFound, err)
	case serial.PermissionDenied:
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	case serial.PortBusy:
		return fmt.Errorf("%w: %w", ErrDeviceInUse, err)
	case serial.InvalidSpeed, serial.InvalidDataBits, serial.InvalidParity, serial.InvalidStopBits:
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	case serial.PortClosed:
		return fmt.Errorf("%w: %w", ErrLinkLost, err)
	}
	return err
}

// portableHandle adapts a serial.Port to Handle. The library has no
// readiness notification, so WaitReadable performs a timed read and keeps
// the bytes for the next ReadAvailable. While that read is in flight
// ReadAvailable only hands out what is already pending.
type portableHandle struct {
	port serial.Port

	mu       sync.Mutex
	pending  []byte
	waiting  bool
	waitBuf  [1024]byte
	drainBuf [1024]byte
}

func (h *portableHandle) Write(data []byte) (int, error) {
	return h.port.Write(data)
}

func (h *portableHandle) WaitReadable(timeout time.Duration) (bool, error) {
	h.mu.Lock()
	if len(h.pending) > 0 {
		h.mu.Unlock()
		return true, nil
	}
	if err := h.port.SetReadTimeout(timeout); err != nil {
		h.mu.Unlock()
		return false, classifyPortError(err)
	}
	h.waiting = true
	h.mu.Unlock()

	n, err := h.port.Read(h.waitBuf[:])

	h.mu.Lock()
	defer h.mu.Unlock()
	h.waiting = false
	if err != nil {
		return false, classifyPortError(err)
	}
	h.pending = append(h.pending, h.waitBuf[:n]...)
	return len(h.pending) > 0, nil
}

func (h *portableHandle) ReadAvailable() ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := h.pending
	h.pending = nil
	if h.waiting {
		return out, nil
	}

	if err := h.port.SetReadTimeout(0); err != nil {
		return out, classifyPortError(err)
	}
	for {
		n, err := h.port.Read(h.drainBuf[:])
		if n > 0 {
			out = append(out, h.drainBuf[:n]...)
		}
		if err != nil {
			return out, classifyPortError(err)
		}
		if n == 0 {
			return out, nil
		}
	}
}

func (h *portableHandle) Close() error {
	return h.port.Close()
}
