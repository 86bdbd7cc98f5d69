/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	serialport "github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/tui/components"
	"github.com/allbin/go-serialport/internal/tui/styles"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// captureCmd represents the capture command
var captureCmd = &cobra.Command{
	Use:   "capture <port> <output-file>",
	Short: "Capture serial data to a file",
	Long: `Capture incoming serial data to a file for later parsing.

Writes every chunk received on the specified serial port directly to the
output file. Runs until interrupted (Ctrl+C) or until the device goes away.

The output file is opened in append mode, allowing you to resume captures
without overwriting existing data.

Example usage:
  serialport capture ttyUSB0 data.log
  serialport capture /dev/ttyUSB0 output.txt --baud 9600
  serialport capture ttyUSB0 capture.log --console --hex`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := lineConfig()
		if err != nil {
			return err
		}

		logger, done, err := newLogger(false)
		if err != nil {
			return err
		}
		defer done()

		session, err := newSession(logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var console io.Writer
		if viper.GetBool("console") {
			console = cmd.OutOrStdout()
		}
		return runCapture(ctx, session, args[0], args[1], config, console, viper.GetBool("hex"))
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)

	addLineFlags(captureCmd)
	captureCmd.Flags().BoolP("console", "c", false, "Display incoming data on console while capturing")
	captureCmd.Flags().Bool("hex", false, "Show console output as hex pairs instead of raw bytes")
}

// capture appends received chunks to out and optionally echoes them
type capture struct {
	mu      sync.Mutex
	out     io.Writer
	console io.Writer
	hex     bool
	written int64
	err     error
}

func (c *capture) write(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return
	}

	n, err := c.out.Write(data)
	c.written += int64(n)
	if err != nil {
		c.err = fmt.Errorf("write error: %w", err)
		return
	}

	if c.console == nil {
		return
	}
	if c.hex {
		fmt.Fprintln(c.console, components.FormatHex(data))
	} else {
		_, _ = c.console.Write(data)
	}
}

func (c *capture) result() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.written, c.err
}

func runCapture(ctx context.Context, session *serialport.Session, portName, outputPath string, config serialport.Config, console io.Writer, hex bool) error {
	file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer file.Close()

	c := &capture{out: file, console: console, hex: hex}
	lost := make(chan error, 1)

	session.SetDataReceivedCallback(c.write)
	session.SetLinkLostCallback(func(err error) {
		select {
		case lost <- err:
		default:
		}
	})

	if err := session.Open(portName, config); err != nil {
		return err
	}
	defer session.Close()

	fmt.Fprintf(os.Stderr, "Capturing data from %s (%s) to %s\n", portName, config, outputPath)
	if console != nil {
		fmt.Fprintf(os.Stderr, "Console display enabled\n")
	}
	fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop\n\n")

	startTime := time.Now()
	var linkErr error
	select {
	case <-ctx.Done():
		fmt.Fprintf(os.Stderr, "\nReceived interrupt signal, shutting down...\n")
	case linkErr = <-lost:
		fmt.Fprintf(os.Stderr, "\n%s %v\n", styles.WarningStyle.Render("!"), linkErr)
	}

	session.SetDataReceivedCallback(nil)
	written, err := c.result()
	fmt.Fprintf(os.Stderr, "Capture complete: %d bytes written in %v\n", written, time.Since(startTime).Round(time.Millisecond))
	if err != nil {
		return err
	}
	return linkErr
}
