/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	serialport "github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/logging"
	"github.com/allbin/go-serialport/internal/tui/styles"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag "flow-control" is read from SERIALPORT_FLOW_CONTROL
var envKeyReplacer = strings.NewReplacer("-", "_")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "serialport",
	Short: "Discover, configure and talk to serial ports",
	Long: `serialport lists serial devices, opens one with a chosen line
configuration and exchanges raw bytes with it.

Every flag can also be set through the environment with a SERIALPORT_
prefix, e.g. SERIALPORT_BAUD=115200 or SERIALPORT_FLOW_CONTROL=Hardware.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Bind only the running command's flags so commands sharing a flag
		// name don't shadow each other
		return viper.BindPFlags(cmd.Flags())
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", styles.ErrorStyle.Render("✗"), err)
		if hint := errorHint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", styles.MutedStyle.Render(hint))
		}
		os.Exit(1)
	}
}

func init() {
	viper.SetEnvPrefix("SERIALPORT")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().String("driver", "", fmt.Sprintf("Serial driver: %s (default: platform preferred)", strings.Join(serialport.DriverNames(), ", ")))
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file instead of stderr")
}

// errorHint suggests a fix for the errors users run into most
func errorHint(err error) string {
	switch {
	case errors.Is(err, serialport.ErrPortNotFound):
		return "Run 'serialport list' to see attached ports."
	case errors.Is(err, serialport.ErrPermissionDenied):
		return "Add your user to the dialout group or run with sudo."
	case errors.Is(err, serialport.ErrDeviceInUse):
		return "Another program holds the port open."
	case errors.Is(err, serialport.ErrUnknownSymbol):
		return "Run 'serialport options' to see accepted values."
	case errors.Is(err, serialport.ErrInvalidConfig):
		return "Try another driver with --driver, or a different line setting."
	}
	return ""
}

// addLineFlags registers the line configuration flags of a port-opening
// command. Values are the display strings of the symbol tables.
func addLineFlags(cmd *cobra.Command) {
	defaults := serialport.DefaultConfig()
	cmd.Flags().StringP("baud", "b", defaults.BaudRate.String(),
		"Baud rate: "+strings.Join(serialport.ListBaudRates(), ", "))
	cmd.Flags().String("data-bits", defaults.DataBits.String(),
		"Data bits: "+strings.Join(serialport.ListDataBits(), ", "))
	cmd.Flags().StringP("parity", "p", defaults.Parity.String(),
		"Parity: "+strings.Join(serialport.ListParities(), ", "))
	cmd.Flags().String("stop-bits", defaults.StopBits.String(),
		"Stop bits: "+strings.Join(serialport.ListStopBits(), ", "))
	cmd.Flags().StringP("flow-control", "f", defaults.FlowControl.String(),
		"Flow control: "+strings.Join(serialport.ListFlowControls(), ", "))
}

// lineConfig reads the line flags (or their environment variables)
func lineConfig() (serialport.Config, error) {
	return serialport.ParseConfig(
		viper.GetString("baud"),
		viper.GetString("data-bits"),
		viper.GetString("parity"),
		viper.GetString("stop-bits"),
		viper.GetString("flow-control"),
	)
}

// newLogger returns the command logger and a func releasing it. quiet is
// set by full-screen commands, which only log when --log-file is given.
func newLogger(quiet bool) (*slog.Logger, func(), error) {
	verbose := viper.GetBool("verbose")
	if path := viper.GetString("log-file"); path != "" {
		logger, closeFn, err := logging.OpenFile(path, verbose)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return logger, func() { _ = closeFn() }, nil
	}
	if quiet {
		return logging.Discard(), func() {}, nil
	}
	return logging.New(os.Stderr, verbose), func() {}, nil
}

// newSession builds a session on the selected driver
func newSession(logger *slog.Logger) (*serialport.Session, error) {
	driver, err := serialport.DriverByName(viper.GetString("driver"))
	if err != nil {
		return nil, err
	}
	return serialport.NewSession(
		serialport.WithDriver(driver),
		serialport.WithLogger(logger),
	), nil
}
