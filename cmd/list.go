/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	serialport "github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/tui/colors"
	"github.com/allbin/go-serialport/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	Long: `List all available serial ports on the system.

With the default termios driver this scans /dev for communication-capable
serial devices:
- USB serial adapters (ttyUSB*)
- USB CDC/ACM devices (ttyACM*)
- Standard serial ports (ttyS*)
- ARM/Raspberry Pi ports (ttyAMA*)
- And other platform-specific serial devices

Virtual terminals and pseudo-terminals are excluded from the listing.`,
	Args: cobra.NoArgs,
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

		filterType := viper.GetString("filter")
		if !validFilter(filterType) {
			return fmt.Errorf("unknown filter %q (use usb, standard, arm or all)", filterType)
		}

		ports := session.ListPorts()
		if len(ports) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), styles.WarningStyle.Render("No serial ports found"))
			return nil
		}

		filtered := filterPorts(ports, filterType)
		if len(filtered) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), styles.WarningStyle.Render("No serial ports found matching filter: "+filterType))
			return nil
		}

		if viper.GetBool("table") {
			renderTable(cmd.OutOrStdout(), filtered)
		} else {
			renderSimple(cmd.OutOrStdout(), filtered)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "F", "all", "Filter by port type: usb, standard, arm, all")
	listCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

func validFilter(filterType string) bool {
	switch strings.ToLower(filterType) {
	case "", "all", "usb", "standard", "arm":
		return true
	}
	return false
}

// filterPorts filters the port list based on the specified filter type
func filterPorts(ports []serialport.PortDescriptor, filterType string) []serialport.PortDescriptor {
	filterType = strings.ToLower(filterType)
	if filterType == "" || filterType == "all" {
		return ports
	}

	var filtered []serialport.PortDescriptor
	for _, port := range ports {
		name := strings.ToLower(port.Name)
		switch filterType {
		case "usb":
			if port.IsUSB || strings.HasPrefix(name, "ttyusb") || strings.HasPrefix(name, "ttyacm") {
				filtered = append(filtered, port)
			}
		case "standard":
			if strings.HasPrefix(name, "ttys") && !strings.HasPrefix(name, "ttysac") {
				filtered = append(filtered, port)
			}
		case "arm":
			if strings.HasPrefix(name, "ttyama") {
				filtered = append(filtered, port)
			}
		}
	}
	return filtered
}

const (
	columnKeyPort        = "port"
	columnKeyType        = "type"
	columnKeyDescription = "description"
	columnKeyUSB         = "usb"
)

// portTable lays the ports out as a static bubble-table
func portTable(ports []serialport.PortDescriptor) table.Model {
	rows := make([]table.Row, 0, len(ports))
	for _, port := range ports {
		usb := ""
		if port.VendorID != "" || port.ProductID != "" {
			usb = port.VendorID + ":" + port.ProductID
			if port.SerialNumber != "" {
				usb += " " + port.SerialNumber
			}
		}
		rows = append(rows, table.NewRow(table.RowData{
			columnKeyPort:        port.Name,
			columnKeyType:        portType(port.Name),
			columnKeyDescription: port.Description,
			columnKeyUSB:         usb,
		}))
	}

	return table.New([]table.Column{
		table.NewColumn(columnKeyPort, "Port", 15),
		table.NewColumn(columnKeyType, "Type", 18),
		table.NewColumn(columnKeyDescription, "Description", 30),
		table.NewColumn(columnKeyUSB, "USB", 26),
	}).
		WithRows(rows).
		BorderRounded().
		HeaderStyle(lipgloss.NewStyle().Bold(true).Foreground(colors.Mauve)).
		WithBaseStyle(lipgloss.NewStyle().BorderForeground(colors.Surface2).Align(lipgloss.Left))
}

// renderTable renders the port list in a styled static table format
func renderTable(w io.Writer, ports []serialport.PortDescriptor) {
	fmt.Fprintf(w, "Found %d serial port(s):\n\n", len(ports))
	fmt.Fprintln(w, portTable(ports).View())
}

// renderSimple prints one openable path per line
func renderSimple(w io.Writer, ports []serialport.PortDescriptor) {
	for _, port := range ports {
		fmt.Fprintln(w, port.Path)
	}
}

// portType returns a more specific type classification for the port
func portType(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.HasPrefix(name, "ttyusb"):
		return "USB Serial"
	case strings.HasPrefix(name, "ttyacm"):
		return "USB CDC/ACM"
	case strings.HasPrefix(name, "ttyama"):
		return "ARM Serial"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial"
	case strings.HasPrefix(name, "ttysac"):
		return "Samsung Serial"
	case strings.HasPrefix(name, "ttyths"):
		return "Tegra Serial"
	case strings.HasPrefix(name, "ttyo"):
		return "OMAP Serial"
	case strings.HasPrefix(name, "ttys"):
		return "Standard Serial"
	case strings.HasPrefix(name, "com"):
		return "COM Port"
	default:
		return "Serial Port"
	}
}

func warnIfNoPorts(session *serialport.Session) {
	if len(session.ListPorts()) == 0 {
		fmt.Fprintln(os.Stderr, styles.WarningStyle.Render("No serial ports detected. Is the device plugged in?"))
	}
}
