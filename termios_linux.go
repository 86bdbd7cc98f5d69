//go:build linux

package serialport

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

var drivers = map[string]Driver{
	"termios":  TermiosDriver{},
	"portable": PortableDriver{},
}

func defaultDriver() Driver {
	return TermiosDriver{}
}

// TermiosDriver talks to /dev/tty* devices directly through termios ioctls.
// Ports are opened non-blocking and exclusive (TIOCEXCL).
type TermiosDriver struct{}

var _ Driver = TermiosDriver{}

// Enumerate scans /dev for serial devices
func (TermiosDriver) Enumerate() ([]PortDescriptor, error) {
	paths, err := scanDevPorts(devDir)
	if err != nil {
		return nil, err
	}
	ports := make([]PortDescriptor, 0, len(paths))
	for _, p := range paths {
		ports = append(ports, describePort(p))
	}
	return ports, nil
}

// Open opens the device and applies config. The descriptor is closed again
// if any configuration step fails.
func (TermiosDriver) Open(path string, config Config) (Handle, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, classifyErrno(err)
	}

	if err := unix.IoctlSetInt(fd, unix.TIOCEXCL, 0); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to lock %s: %w", path, classifyErrno(err))
	}

	if err := configurePort(fd, config); err != nil {
		unix.Close(fd)
		return nil, err
	}

	return &termiosHandle{fd: fd}, nil
}

// classifyErrno maps open(2) failures onto the package sentinels while
// keeping the errno reachable through errors.Is
func classifyErrno(err error) error {
	switch {
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	case errors.Is(err, unix.EBUSY):
		return fmt.Errorf("%w: %w", ErrDeviceInUse, err)
	case errors.Is(err, unix.ENOENT), errors.Is(err, unix.ENODEV), errors.Is(err, unix.ENXIO):
		return fmt.Errorf("%w: %w", ErrPortNotFound, err)
	}
	return err
}

// getBaudRate converts a baud rate to the unix constant
func getBaudRate(rate BaudRate) (uint32, error) {
	switch rate {
	case Baud1200:
		return unix.B1200, nil
	case Baud2400:
		return unix.B2400, nil
	case Baud4800:
		return unix.B4800, nil
	case Baud9600:
		return unix.B9600, nil
	case Baud19200:
		return unix.B19200, nil
	case Baud38400:
		return unix.B38400, nil
	case Baud57600:
		return unix.B57600, nil
	case Baud115200:
		return unix.B115200, nil
	default:
		return 0, fmt.Errorf("%w: baud rate %d", ErrInvalidConfig, int(rate))
	}
}

func getCharSize(bits DataBits) (uint32, error) {
	switch bits {
	case DataBits5:
		return unix.CS5, nil
	case DataBits6:
		return unix.CS6, nil
	case DataBits7:
		return unix.CS7, nil
	case DataBits8:
		return unix.CS8, nil
	default:
		return 0, fmt.Errorf("%w: data bits %d", ErrInvalidConfig, int(bits))
	}
}

// buildTermios derives raw-mode termios settings from config
func buildTermios(base unix.Termios, config Config) (*unix.Termios, error) {
	t := base

	size, err := getCharSize(config.DataBits)
	if err != nil {
		return nil, err
	}
	baud, err := getBaudRate(config.BaudRate)
	if err != nil {
		return nil, err
	}

	t.Cflag = size | unix.CREAD | unix.CLOCAL
	t.Iflag = 0
	t.Oflag = 0
	t.Lflag = 0

	// Reads never wait: VMIN=0, VTIME=0
	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = 0

	t.Cflag = (t.Cflag &^ unix.CBAUD) | baud
	t.Ispeed = baud
	t.Ospeed = baud

	switch config.StopBits {
	case StopBitsOne:
	case StopBitsTwo:
		t.Cflag |= unix.CSTOPB
	default:
		// termios has no 1.5 stop bit setting
		return nil, fmt.Errorf("%w: stop bits %s not supported by termios", ErrInvalidConfig, config.StopBits)
	}

	switch config.Parity {
	case ParityNone:
	case ParityOdd:
		t.Cflag |= unix.PARENB | unix.PARODD
	case ParityEven:
		t.Cflag |= unix.PARENB
	case ParityMark:
		t.Cflag |= unix.PARENB | unix.PARODD | unix.CMSPAR
	case ParitySpace:
		t.Cflag |= unix.PARENB | unix.CMSPAR
	default:
		return nil, fmt.Errorf("%w: parity %d", ErrInvalidConfig, int(config.Parity))
	}
	if config.Parity != ParityNone {
		t.Iflag |= unix.INPCK
	}

	switch config.FlowControl {
	case FlowControlNone:
	case FlowControlHardware:
		t.Cflag |= unix.CRTSCTS
	case FlowControlSoftware:
		t.Iflag |= unix.IXON | unix.IXOFF
	default:
		return nil, fmt.Errorf("%w: flow control %d", ErrInvalidConfig, int(config.FlowControl))
	}

	return &t, nil
}

// configurePort applies config to fd
func configurePort(fd int, config Config) error {
	current, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("failed to get termios: %w", err)
	}

	termios, err := buildTermios(*current, config)
	if err != nil {
		return err
	}

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		return fmt.Errorf("failed to set termios: %w", err)
	}

	// Drop anything that arrived before the line was configured
	if err := unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIFLUSH); err != nil {
		return fmt.Errorf("failed to flush input: %w", err)
	}
	return nil
}

type termiosHandle struct {
	fd int

	// serializes drains; WaitReadable only polls and needs no lock
	readMu sync.Mutex
}

func (h *termiosHandle) Write(data []byte) (int, error) {
	n, err := unix.Write(h.fd, data)
	if errors.Is(err, unix.EAGAIN) {
		// Output queue full; surfaces as a short write
		return 0, nil
	}
	if n < 0 {
		n = 0
	}
	return n, err
}

// ReadAvailable drains the input queue. With VMIN=0 an empty queue reads as
// zero bytes, so a zero read is only end of file when poll still reports
// the descriptor readable or hung up.
func (h *termiosHandle) ReadAvailable() ([]byte, error) {
	h.readMu.Lock()
	defer h.readMu.Unlock()

	size, err := unix.IoctlGetInt(h.fd, unix.TIOCINQ)
	if errors.Is(err, unix.EIO) {
		return nil, fmt.Errorf("%w: %w", ErrLinkLost, err)
	}
	if err != nil || size <= 0 {
		size = 256
	}

	var out []byte
	buf := make([]byte, size)
	for {
		n, err := unix.Read(h.fd, buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		switch {
		case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EINTR):
			return out, nil
		case errors.Is(err, unix.EIO):
			return out, fmt.Errorf("%w: %w", ErrLinkLost, err)
		case err != nil:
			return out, err
		case n <= 0:
			if len(out) == 0 && h.atEOF() {
				return nil, fmt.Errorf("%w: end of file", ErrLinkLost)
			}
			return out, nil
		}
	}
}

// atEOF reports whether the descriptor polls readable or hung up right
// after a zero-byte read
func (h *termiosHandle) atEOF() bool {
	fds := []unix.PollFd{{Fd: int32(h.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	if err != nil || n == 0 {
		return false
	}
	return fds[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0
}

func (h *termiosHandle) WaitReadable(timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(h.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if errors.Is(err, unix.EINTR) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	// A hung-up tty also reports POLLIN, so hangup wins
	revents := fds[0].Revents
	if revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
		return false, fmt.Errorf("%w: poll revents %#x", ErrLinkLost, revents)
	}
	return revents&unix.POLLIN != 0, nil
}

func (h *termiosHandle) Close() error {
	return unix.Close(h.fd)
}
