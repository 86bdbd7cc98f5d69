/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	serialport "github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/tui/styles"
	"github.com/spf13/cobra"
)

// optionsCmd represents the options command
var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the accepted line configuration values",
	Long: `List every value accepted by --baud, --data-bits, --parity, --stop-bits
and --flow-control, in the order a picker would offer them.

Whether a driver supports a value is checked when the port is opened;
1.5 stop bits, for example, is listed but rejected by the Linux drivers.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printOptions(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
}

func printOptions(w io.Writer) {
	defaults := serialport.DefaultConfig()
	groups := []struct {
		title, flag, def string
		values           []string
	}{
		{"Baud rates", "--baud", defaults.BaudRate.String(), serialport.ListBaudRates()},
		{"Data bits", "--data-bits", defaults.DataBits.String(), serialport.ListDataBits()},
		{"Parity", "--parity", defaults.Parity.String(), serialport.ListParities()},
		{"Stop bits", "--stop-bits", defaults.StopBits.String(), serialport.ListStopBits()},
		{"Flow control", "--flow-control", defaults.FlowControl.String(), serialport.ListFlowControls()},
	}

	for _, g := range groups {
		fmt.Fprintf(w, "%s %s\n", styles.InfoStyle.Render(g.title), styles.MutedStyle.Render("("+g.flag+")"))
		values := make([]string, len(g.values))
		for i, v := range g.values {
			values[i] = v
			if v == g.def {
				values[i] = styles.SuccessStyle.Render(v + "*")
			}
		}
		fmt.Fprintf(w, "  %s\n\n", strings.Join(values, ", "))
	}
	fmt.Fprintln(w, styles.MutedStyle.Render("* default"))
}
