package serialport

import (
	"errors"
	"fmt"
)

// Predefined error types for robust error handling
var (
	ErrPortNotFound    = errors.New("serial port not found")
	ErrOpenFailed      = errors.New("failed to open serial port")
	ErrWriteIncomplete = errors.New("serial write did not transfer the full buffer")
	ErrUnknownSymbol   = errors.New("unknown symbol")

	ErrPortClosed       = errors.New("serial port is closed")
	ErrInvalidConfig    = errors.New("invalid serial configuration")
	ErrPermissionDenied = errors.New("permission denied accessing serial device")
	ErrDeviceInUse      = errors.New("serial device already in use")

	// Raised asynchronously through the link-lost callback
	ErrLinkLost = errors.New("serial link lost")
)

// SymbolError reports a reverse lookup miss in a SymbolTable.
// It matches ErrUnknownSymbol with errors.Is.
type SymbolError struct {
	Table string
	Input string
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("%s %q for %s", ErrUnknownSymbol, e.Input, e.Table)
}

func (e *SymbolError) Unwrap() error {
	return ErrUnknownSymbol
}
