package serialport

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultPollInterval bounds each readiness wait of the inbound watcher
const DefaultPollInterval = 100 * time.Millisecond

// State is the lifecycle state of a Session
type State int

const (
	StateClosed State = iota
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "Closed"
	case StateOpen:
		return "Open"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithDriver selects the OS binding. Defaults to DefaultDriver().
func WithDriver(d Driver) SessionOption {
	return func(s *Session) {
		if d != nil {
			s.driver = d
		}
	}
}

// WithLogger sets the logger. Sessions are silent by default.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPollInterval bounds each readiness wait of the inbound watcher, and
// with it how long Close may wait for the watcher to let go of the handle
func WithPollInterval(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// Session owns a single serial port. All methods are safe for concurrent
// use, including from inside the data and link-lost callbacks.
//
// Inbound bytes are pushed to at most one callback, registered with
// SetDataReceivedCallback. Without a callback they are discarded.
type Session struct {
	id           string
	driver       Driver
	logger       *slog.Logger
	pollInterval time.Duration

	// pollMu is read-held by whoever touches the handle for reading (the
	// watcher while waiting and draining, ReadData) and write-held by Close
	// while releasing the handle. Drains serialize inside the Handle.
	// Lock order: pollMu, then mu.
	pollMu sync.RWMutex

	mu         sync.Mutex
	handle     Handle
	name       string
	path       string
	config     Config
	generation uint64
	stop       chan struct{}
	onData     func([]byte)
	onLinkLost func(error)
}

// NewSession creates a closed session
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		id:           uuid.NewString(),
		logger:       slog.New(slog.DiscardHandler),
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.driver == nil {
		s.driver = DefaultDriver()
	}
	s.logger = s.logger.With("session", s.id)
	return s
}

// ID identifies the session in logs
func (s *Session) ID() string {
	return s.id
}

// ListPorts returns the serial devices currently attached. Enumeration
// failures yield an empty list.
func (s *Session) ListPorts() []PortDescriptor {
	ports, err := s.driver.Enumerate()
	if err != nil {
		s.logger.Debug("port enumeration failed", "error", err)
		return []PortDescriptor{}
	}
	if ports == nil {
		return []PortDescriptor{}
	}
	return ports
}

// IsPortAvailable reports whether name matches the Name or Path of a listed
// port. The answer can be stale by the time Open runs.
func (s *Session) IsPortAvailable(name string) bool {
	_, ok := s.findPort(name)
	return ok
}

func (s *Session) findPort(name string) (PortDescriptor, bool) {
	for _, p := range s.ListPorts() {
		if p.Name == name || p.Path == name {
			return p, true
		}
	}
	return PortDescriptor{}, false
}

// Open opens name with config and starts inbound delivery. An open session
// is closed first. On any failure the session is left Closed.
func (s *Session) Open(name string, config Config) error {
	if err := s.Close(); err != nil {
		s.logger.Warn("closing previous port failed", "error", err)
	}

	desc, ok := s.findPort(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrPortNotFound, name)
	}

	if err := config.Validate(); err != nil {
		return err
	}

	logger := s.logger.With("port", desc.Path)
	logger.Debug("opening port", "config", config.String())

	handle, err := s.driver.Open(desc.Path, config)
	if err != nil {
		logger.Debug("open failed", "error", err)
		return fmt.Errorf("%w %s: %w", ErrOpenFailed, desc.Path, err)
	}

	s.mu.Lock()
	prev, prevStop := s.detachLocked()
	s.generation++
	gen := s.generation
	stop := make(chan struct{})
	s.handle = handle
	s.name = desc.Name
	s.path = desc.Path
	s.config = config
	s.stop = stop
	s.mu.Unlock()

	// Another Open raced us between Close and here
	if prev != nil {
		close(prevStop)
		s.release(prev)
	}

	go s.watch(gen, handle, stop, logger)

	logger.Info("port opened", "config", config.String())
	return nil
}

// Close stops inbound delivery and releases the port. Closing a closed
// session is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	handle, stop := s.detachLocked()
	path := s.path
	s.mu.Unlock()

	if handle == nil {
		return nil
	}
	close(stop)

	if err := s.release(handle); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	s.logger.Info("port closed", "port", path)
	return nil
}

// detachLocked clears the open state and bumps the generation so the
// running watcher stops touching the handle. Callers close the returned
// stop channel and release the handle outside mu.
func (s *Session) detachLocked() (Handle, chan struct{}) {
	if s.handle == nil {
		return nil, nil
	}
	handle, stop := s.handle, s.stop
	s.handle = nil
	s.stop = nil
	s.generation++
	return handle, stop
}

// release waits for any in-flight wait or drain before closing the handle
func (s *Session) release(h Handle) error {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()
	return h.Close()
}

// Send writes data with a single OS write. Fewer bytes accepted than
// len(data) fails with ErrWriteIncomplete; nothing is retried.
func (s *Session) Send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil {
		return ErrPortClosed
	}

	n, err := s.handle.Write(data)
	if err != nil {
		return fmt.Errorf("write to %s: %w", s.path, err)
	}
	if n != len(data) {
		return fmt.Errorf("%w: %d of %d bytes written to %s", ErrWriteIncomplete, n, len(data), s.path)
	}
	return nil
}

// SendData is Send reduced to success or failure
func (s *Session) SendData(data []byte) bool {
	err := s.Send(data)
	if err != nil {
		s.logger.Debug("send failed", "error", err)
	}
	return err == nil
}

// ReadData drains whatever the OS has buffered without waiting for more.
// It returns an empty slice when closed or when nothing is pending.
// Bytes taken here are not passed to the data callback, and vice versa.
func (s *Session) ReadData() []byte {
	s.pollMu.RLock()
	defer s.pollMu.RUnlock()

	s.mu.Lock()
	handle := s.handle
	s.mu.Unlock()

	if handle == nil {
		return []byte{}
	}
	data, err := handle.ReadAvailable()
	if err != nil {
		s.logger.Debug("drain failed", "error", err)
	}
	if data == nil {
		return []byte{}
	}
	return data
}

// SetDataReceivedCallback registers the inbound data handler, replacing any
// previous one. nil removes it. The handler runs on the session's watcher
// goroutine; while it runs no further data is delivered.
func (s *Session) SetDataReceivedCallback(fn func([]byte)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onData = fn
}

// SetLinkLostCallback registers a handler called when an open port fails
// underneath the session, for example when a USB adapter is unplugged.
// The session is already Closed when it runs.
func (s *Session) SetLinkLostCallback(fn func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLinkLost = fn
}

// State returns the lifecycle state
func (s *Session) State() State {
	if s.IsOpen() {
		return StateOpen
	}
	return StateClosed
}

// IsOpen reports whether a port is currently open
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle != nil
}

// Config returns the configuration of the open port
func (s *Session) Config() (Config, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == nil {
		return Config{}, false
	}
	return s.config, true
}

// PortName returns the short name of the open port, or "" when closed
func (s *Session) PortName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == nil {
		return ""
	}
	return s.name
}

// watch delivers inbound data for one open generation until stopped
func (s *Session) watch(gen uint64, h Handle, stop <-chan struct{}, logger *slog.Logger) {
	logger.Debug("watcher started")
	defer logger.Debug("watcher stopped")

	for {
		select {
		case <-stop:
			return
		default:
		}

		data, live, err := s.poll(gen, h)
		if !live {
			return
		}
		if err != nil {
			select {
			case <-stop:
				return
			default:
			}
			s.linkLost(gen, err, logger)
			return
		}
		if len(data) > 0 {
			s.deliver(gen, data)
		}
	}
}

// poll waits once for readability and drains. live is false once gen is no
// longer the current open.
func (s *Session) poll(gen uint64, h Handle) (data []byte, live bool, err error) {
	s.pollMu.RLock()
	defer s.pollMu.RUnlock()

	if !s.isCurrent(gen) {
		return nil, false, nil
	}

	ready, err := h.WaitReadable(s.pollInterval)
	if err != nil {
		return nil, true, err
	}
	if !ready {
		return nil, true, nil
	}

	data, err = h.ReadAvailable()
	if err != nil {
		return data, true, err
	}
	return data, true, nil
}

func (s *Session) isCurrent(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle != nil && s.generation == gen
}

func (s *Session) deliver(gen uint64, data []byte) {
	s.mu.Lock()
	fn := s.onData
	current := s.handle != nil && s.generation == gen
	s.mu.Unlock()

	if !current || fn == nil {
		return
	}
	fn(data)
}

// linkLost closes the session on behalf of a failed watcher, unless a Close
// or Open already moved past gen
func (s *Session) linkLost(gen uint64, cause error, logger *slog.Logger) {
	s.mu.Lock()
	if s.handle == nil || s.generation != gen {
		s.mu.Unlock()
		return
	}
	handle, stop := s.detachLocked()
	fn := s.onLinkLost
	s.mu.Unlock()

	close(stop)
	if err := s.release(handle); err != nil {
		logger.Debug("close after link loss failed", "error", err)
	}

	if !errors.Is(cause, ErrLinkLost) {
		cause = fmt.Errorf("%w: %w", ErrLinkLost, cause)
	}
	logger.Warn("link lost", "error", cause)

	if fn != nil {
		fn(cause)
	}
}
