/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	serialport "github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/tui/components"
	"github.com/allbin/go-serialport/internal/tui/styles"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send [data] <port>",
	Short: "Send data to a serial port",
	Long: `Send data to a serial port with configurable options.

This command sends data to the specified serial port. Data can be provided as:
- Command line argument: send "Hello World" ttyUSB0
- From stdin (pipe): echo "test data" | serialport send ttyUSB0
- Interactive mode: serialport send ttyUSB0 (prompts for input)

The data is handed to the OS in a single write. A short write is reported
as incomplete and is not retried.

Example usage:
  serialport send "Hello World" ttyUSB0
  serialport send "AT+GMR" /dev/ttyUSB0 --newline --baud 115200
  serialport send "AA BB CC" ttyUSB0 --hex
  echo "test" | serialport send ttyUSB0
  serialport send ttyUSB0  # Interactive mode`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := lineConfig()
		if err != nil {
			return err
		}

		var data, portName string
		if len(args) == 1 {
			portName = args[0]
			data, err = readInput(os.Stdin, cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("error reading from stdin: %w", err)
			}
		} else {
			data, portName = args[0], args[1]
		}

		payload, err := buildPayload(data, viper.GetBool("hex"), viper.GetBool("newline"))
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
		return sendPayload(cmd.OutOrStdout(), session, portName, config, payload)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	addLineFlags(sendCmd)
	sendCmd.Flags().BoolP("newline", "n", false, "Add newline character to the end of data")
	sendCmd.Flags().BoolP("hex", "x", false, "Interpret data as hexadecimal (e.g., '48656c6c6f' for 'Hello')")
}

// readInput reads piped stdin, or prompts when stdin is a terminal
func readInput(in *os.File, prompt io.Writer) (string, error) {
	stat, err := in.Stat()
	if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
		fmt.Fprint(prompt, styles.InfoStyle.Render("Enter data to send: "))
		scanner := bufio.NewScanner(in)
		if scanner.Scan() {
			return scanner.Text(), nil
		}
		return "", scanner.Err()
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func buildPayload(data string, hexMode, newline bool) ([]byte, error) {
	if hexMode {
		payload, err := components.ParseHex(data)
		if err != nil {
			return nil, fmt.Errorf("invalid hex data: %w", err)
		}
		return payload, nil
	}
	if newline {
		data += "\n"
	}
	if data == "" {
		return nil, fmt.Errorf("nothing to send")
	}
	return []byte(data), nil
}

func sendPayload(w io.Writer, session *serialport.Session, portName string, config serialport.Config, payload []byte) error {
	fmt.Fprintf(w, "%s Opening %s (%s)...\n", styles.InfoStyle.Render("⚡"), portName, config)

	if err := session.Open(portName, config); err != nil {
		return err
	}
	defer session.Close()

	fmt.Fprintf(w, "%s Connected successfully\n", styles.SuccessStyle.Render("✓"))
	fmt.Fprintf(w, "%s Sending %d bytes...\n", styles.InfoStyle.Render("📤"), len(payload))

	if err := session.Send(payload); err != nil {
		return fmt.Errorf("failed to send data: %w", err)
	}

	fmt.Fprintf(w, "%s Successfully sent %d bytes\n", styles.SuccessStyle.Render("✓"), len(payload))
	fmt.Fprintf(w, "%s Data: %s\n", styles.InfoStyle.Render("📋"), preview(payload, 50))
	return nil
}

// preview shortens data for display and masks non-printable bytes
func preview(data []byte, limit int) string {
	suffix := ""
	if len(data) > limit {
		data, suffix = data[:limit], "..."
	}
	return components.FormatASCII(data) + suffix
}
