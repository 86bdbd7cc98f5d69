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
	"syscall"
	"time"

	serialport "github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/tui/styles"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Report serial ports as they are plugged in or removed",
	Long: `Watch for serial devices being attached and detached.

Prints the current port list, then one line for every port that appears or
disappears. Press Ctrl+C to stop.

Examples:
  serialport watch
  serialport watch --filter usb
  serialport watch --timeout 30s`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filterType := viper.GetString("filter")
		if !validFilter(filterType) {
			return fmt.Errorf("unknown filter %q (use usb, standard, arm or all)", filterType)
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
		if timeout := viper.GetDuration("timeout"); timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "Watching for serial ports. Press Ctrl+C to stop")

		var previous []serialport.PortDescriptor
		first := true
		for ports := range session.WatchPorts(ctx) {
			ports = filterPorts(ports, filterType)
			if first {
				printPortState(w, ports)
				first = false
			} else {
				added, removed := diffPorts(previous, ports)
				printPortChanges(w, added, removed)
			}
			previous = ports
		}
		fmt.Fprintln(w, "\nStopping watch...")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringP("filter", "F", "all", "Filter by port type: usb, standard, arm, all")
	watchCmd.Flags().DurationP("timeout", "t", 0, "Stop watching after this long (0 = until Ctrl+C)")
}

// diffPorts compares two snapshots by path
func diffPorts(before, after []serialport.PortDescriptor) (added, removed []serialport.PortDescriptor) {
	seen := make(map[string]bool, len(before))
	for _, p := range before {
		seen[p.Path] = true
	}
	now := make(map[string]bool, len(after))
	for _, p := range after {
		now[p.Path] = true
		if !seen[p.Path] {
			added = append(added, p)
		}
	}
	for _, p := range before {
		if !now[p.Path] {
			removed = append(removed, p)
		}
	}
	return added, removed
}

func printPortState(w io.Writer, ports []serialport.PortDescriptor) {
	timestamp := time.Now().Format("15:04:05")
	fmt.Fprintf(w, "[%s] %d port(s) present:\n", timestamp, len(ports))
	for _, p := range ports {
		fmt.Fprintf(w, "  %s  %s\n", p.Path, styles.MutedStyle.Render(p.Description))
	}
	fmt.Fprintln(w)
}

func printPortChanges(w io.Writer, added, removed []serialport.PortDescriptor) {
	timestamp := time.Now().Format("15:04:05")
	for _, p := range added {
		fmt.Fprintf(w, "[%s] %s %s  %s\n", timestamp, styles.SuccessStyle.Render("+"), p.Path, styles.MutedStyle.Render(p.Description))
	}
	for _, p := range removed {
		fmt.Fprintf(w, "[%s] %s %s\n", timestamp, styles.ErrorStyle.Render("-"), p.Path)
	}
}
