package serialport

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"
)

var errMockClosed = errors.New("mock port closed")

// MockDriver is an in-memory Driver for tests and for running without
// hardware. Ports are matched by Name or Path.
type MockDriver struct {
	mu sync.Mutex

	ports      []PortDescriptor
	openErrors map[string]error
	opened     []*MockPort

	// EnumerateError is returned by Enumerate if set
	EnumerateError error
}

var _ Driver = (*MockDriver)(nil)

// NewMockDriver creates a driver exposing ports
func NewMockDriver(ports ...PortDescriptor) *MockDriver {
	return &MockDriver{
		ports:      append([]PortDescriptor(nil), ports...),
		openErrors: make(map[string]error),
	}
}

// MockPortDescriptor builds a descriptor the way TermiosDriver would for
// /dev/<name>
func MockPortDescriptor(name string) PortDescriptor {
	return PortDescriptor{
		Name:        name,
		Path:        "/dev/" + name,
		Description: portDescription(name),
	}
}

// SetPorts replaces the enumerated port list
func (d *MockDriver) SetPorts(ports ...PortDescriptor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ports = append([]PortDescriptor(nil), ports...)
}

// FailOpen makes Open of the named port return err. A nil err clears it.
func (d *MockDriver) FailOpen(name string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		delete(d.openErrors, name)
		return
	}
	d.openErrors[name] = err
}

func (d *MockDriver) Enumerate() ([]PortDescriptor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.EnumerateError != nil {
		return nil, d.EnumerateError
	}
	return append([]PortDescriptor(nil), d.ports...), nil
}

func (d *MockDriver) Open(path string, config Config) (Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	desc, ok := d.lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPortNotFound, path)
	}
	if err, ok := d.openErrors[desc.Name]; ok {
		return nil, err
	}
	if err, ok := d.openErrors[desc.Path]; ok {
		return nil, err
	}

	port := &MockPort{
		Path:   desc.Path,
		Config: config,
		notify: make(chan struct{}, 1),
	}
	d.opened = append(d.opened, port)
	return port, nil
}

func (d *MockDriver) lookup(name string) (PortDescriptor, bool) {
	for _, p := range d.ports {
		if p.Name == name || p.Path == name {
			return p, true
		}
	}
	return PortDescriptor{}, false
}

// Opened returns every port handed out by Open, oldest first
func (d *MockDriver) Opened() []*MockPort {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*MockPort(nil), d.opened...)
}

// LastPort returns the most recently opened port, or nil
func (d *MockDriver) LastPort() *MockPort {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.opened) == 0 {
		return nil
	}
	return d.opened[len(d.opened)-1]
}

// MockPort is the Handle returned by MockDriver. Inbound data is pushed with
// Inject; outbound data is captured and available through Written.
type MockPort struct {
	Path   string
	Config Config

	mu         sync.Mutex
	inbound    []byte
	written    bytes.Buffer
	writeLimit int
	writeErr   error
	closeErr   error
	lost       error
	closed     bool
	closeCalls int
	notify     chan struct{}
}

var _ Handle = (*MockPort)(nil)

// Inject queues data as if it had arrived on the line
func (m *MockPort) Inject(data []byte) {
	m.mu.Lock()
	m.inbound = append(m.inbound, data...)
	m.mu.Unlock()
	m.signal()
}

// Disconnect simulates the device going away. The next readiness wait
// reports an error matching ErrLinkLost.
func (m *MockPort) Disconnect() {
	m.mu.Lock()
	m.lost = fmt.Errorf("%w: %s disconnected", ErrLinkLost, m.Path)
	m.mu.Unlock()
	m.signal()
}

// SetWriteLimit caps how many bytes a single Write accepts; 0 removes the cap
func (m *MockPort) SetWriteLimit(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeLimit = n
}

// SetWriteError makes every Write fail with err
func (m *MockPort) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// SetCloseError makes Close return err
func (m *MockPort) SetCloseError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeErr = err
}

// Written returns everything accepted by Write so far
func (m *MockPort) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return bytes.Clone(m.written.Bytes())
}

// Closed reports whether Close was called
func (m *MockPort) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// CloseCalls returns how many times Close was called
func (m *MockPort) CloseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalls
}

func (m *MockPort) signal() {
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

func (m *MockPort) Write(data []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, errMockClosed
	}
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	n := len(data)
	if m.writeLimit > 0 && n > m.writeLimit {
		n = m.writeLimit
	}
	m.written.Write(data[:n])
	return n, nil
}

func (m *MockPort) ReadAvailable() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, errMockClosed
	}
	out := m.inbound
	m.inbound = nil
	return out, nil
}

func (m *MockPort) WaitReadable(timeout time.Duration) (bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		m.mu.Lock()
		switch {
		case m.closed:
			m.mu.Unlock()
			return false, errMockClosed
		case m.lost != nil:
			err := m.lost
			m.mu.Unlock()
			return false, err
		case len(m.inbound) > 0:
			m.mu.Unlock()
			return true, nil
		}
		m.mu.Unlock()

		select {
		case <-m.notify:
		case <-timer.C:
			return false, nil
		}
	}
}

func (m *MockPort) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeCalls++
	if m.closed {
		return errMockClosed
	}
	m.closed = true
	return m.closeErr
}
