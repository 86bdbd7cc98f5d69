// Package serialport manages a single serial port: discovering ports,
// configuring the line, opening and closing the port, and exchanging raw
// bytes with one consumer.
//
// # Basic Usage
//
// Open a port with the default configuration (9600 8N1, no flow control):
//
//	s := serialport.NewSession()
//	if err := s.Open("ttyUSB0", serialport.DefaultConfig()); err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	s.SetDataReceivedCallback(func(data []byte) {
//	    fmt.Printf("% X\n", data)
//	})
//
//	if err := s.Send([]byte("AT\r")); err != nil {
//	    log.Println(err)
//	}
//
// Ports may be named by their short name (ttyUSB0) or their path
// (/dev/ttyUSB0).
//
// # Configuration
//
// Build a configuration with functional options:
//
//	cfg, err := serialport.NewConfig(
//	    serialport.WithBaudRate(serialport.Baud115200),
//	    serialport.WithParity(serialport.ParityEven),
//	)
//
// or from the display strings a UI offers:
//
//	cfg, err := serialport.ParseConfig("115200", "8", "Even", "1", "None")
//
// ListBaudRates, ListDataBits, ListParities, ListStopBits and
// ListFlowControls return those strings in display order.
//
// # Inbound Data
//
// A session delivers inbound bytes to a single callback, on a goroutine
// owned by the session. Registering a callback replaces the previous one.
// Bytes that arrive without a callback are dropped. ReadData drains the OS
// buffer directly without waiting.
//
// If the device disappears while open, the session closes itself and calls
// the link-lost callback with an error matching ErrLinkLost.
//
// # Drivers
//
// On Linux the default TermiosDriver configures /dev/tty* devices through
// termios. PortableDriver uses go.bug.st/serial and runs on every platform
// that library supports. MockDriver serves tests:
//
//	drv := serialport.NewMockDriver(serialport.MockPortDescriptor("ttyUSB0"))
//	s := serialport.NewSession(serialport.WithDriver(drv))
//
// # Error Handling
//
// Failures are returned as errors matching the package sentinels:
//
//	if err := s.Open(name, cfg); errors.Is(err, serialport.ErrPortNotFound) {
//	    // Port vanished or never existed
//	}
//
// Open failures match ErrOpenFailed and, where the cause is known, one of
// ErrPermissionDenied, ErrDeviceInUse or ErrInvalidConfig. Send returns
// ErrWriteIncomplete when the OS accepts only part of the buffer; the
// remainder is not retried.
package serialport
