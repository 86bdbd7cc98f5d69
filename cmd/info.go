/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"

	serialport "github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/tui/styles"
	"github.com/spf13/cobra"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <port>",
	Short: "Display detailed information about a serial port",
	Long: `Display detailed information about a serial port including USB metadata.

Examples:
  serialport info ttyUSB0
  serialport info /dev/ttyACM0

For USB devices, this displays vendor/product IDs, serial numbers,
manufacturer and product strings reported by the driver.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, done, err := newLogger(false)
		if err != nil {
			return err
		}
		defer done()

		session, err := newSession(logger)
		if err != nil {
			return err
		}

		port, ok := lookupPort(session.ListPorts(), args[0])
		if !ok {
			return fmt.Errorf("%w: %s", serialport.ErrPortNotFound, args[0])
		}
		printPortInfo(cmd.OutOrStdout(), port)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

// lookupPort matches a port by short name or by path
func lookupPort(ports []serialport.PortDescriptor, name string) (serialport.PortDescriptor, bool) {
	for _, p := range ports {
		if p.Name == name || p.Path == name {
			return p, true
		}
	}
	return serialport.PortDescriptor{}, false
}

func printPortInfo(w io.Writer, info serialport.PortDescriptor) {
	fmt.Fprintf(w, "%s %s\n\n", styles.InfoStyle.Render("Port Information:"), info.Path)
	fmt.Fprintf(w, "  Name:        %s\n", info.Name)
	fmt.Fprintf(w, "  Type:        %s\n", portType(info.Name))
	fmt.Fprintf(w, "  Description: %s\n", info.Description)

	if !info.IsUSB {
		return
	}

	fmt.Fprintf(w, "\n%s\n", styles.InfoStyle.Render("USB Device Information:"))
	fields := []struct{ label, value string }{
		{"Vendor ID:   ", info.VendorID},
		{"Product ID:  ", info.ProductID},
		{"Serial:      ", info.SerialNumber},
		{"Manufacturer:", info.Manufacturer},
		{"Product:     ", info.Product},
	}
	for _, f := range fields {
		if f.value != "" {
			fmt.Fprintf(w, "  %s %s\n", f.label, f.value)
		}
	}
}
