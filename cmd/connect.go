/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"strings"
	"time"

	serialport "github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/tui/components"
	"github.com/allbin/go-serialport/internal/tui/keys"
	"github.com/allbin/go-serialport/internal/tui/models"
	"github.com/allbin/go-serialport/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// connectCmd represents the connect command
var connectCmd = &cobra.Command{
	Use:   "connect <port>",
	Short: "Connect to a serial port with bidirectional communication",
	Long: `Connect to a serial port with a bidirectional terminal interface.

This command opens the specified serial port and provides an interactive
terminal. Features include:
- Real-time data streaming with timestamps
- Vim-like modes: press 'i' to type, Esc to go back
- ASCII and hex sending (Tab toggles while typing)
- Per-message TX status: pending, written, incomplete or failed
- Input history with the arrow keys
- Reopening the port with 'R' after the device went away

Example usage:
  serialport connect ttyUSB0
  serialport connect /dev/ttyUSB0 --baud 9600 --parity Even
  serialport connect ttyACM0 --line-ending crlf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := lineConfig()
		if err != nil {
			return err
		}
		lineEnding, err := parseLineEnding(viper.GetString("line-ending"))
		if err != nil {
			return err
		}

		logger, done, err := newLogger(true)
		if err != nil {
			return err
		}
		defer done()

		session, err := newSession(logger)
		if err != nil {
			return err
		}
		warnIfNoPorts(session)

		return runConnectTUI(session, args[0], config, lineEnding, displayOptions())
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)

	addLineFlags(connectCmd)
	connectCmd.Flags().String("line-ending", "lf", "Appended to ASCII input: none, lf, cr, crlf")
	connectCmd.Flags().Bool("no-timestamps", false, "Hide timestamps from output")
	connectCmd.Flags().Bool("show-indicators", true, "Show RX/TX indicators")
	connectCmd.Flags().Bool("raw", false, "Raw output mode: no timestamps, no indicators")
}

func parseLineEnding(name string) (string, error) {
	switch strings.ToLower(name) {
	case "none", "":
		return "", nil
	case "lf":
		return "\n", nil
	case "cr":
		return "\r", nil
	case "crlf":
		return "\r\n", nil
	}
	return "", fmt.Errorf("unknown line ending %q (use none, lf, cr or crlf)", name)
}

// connectModel represents the Bubble Tea model for the connect command
type connectModel struct {
	*models.SerialModel
	terminal  *components.Terminal
	statusBar *components.StatusBar
	input     *components.Input
	help      help.Model
	keys      keys.ConnectKeys
}

func newConnectModel(session *serialport.Session, portName string, config serialport.Config, lineEnding string, opts displayOpts) *connectModel {
	m := &connectModel{
		SerialModel: models.NewSerialModel(session, portName, config),
		terminal:    components.NewTerminal(0, 0),
		statusBar:   components.NewStatusBar(portName, config),
		input:       components.NewInput(lineEnding),
		help:        help.New(),
		keys:        keys.NewConnectKeys(),
	}
	m.terminal.SetFormatOptions(opts.timestamps, opts.indicators)
	return m
}

func runConnectTUI(session *serialport.Session, portName string, config serialport.Config, lineEnding string, opts displayOpts) error {
	m := newConnectModel(session, portName, config, lineEnding, opts)

	p := tea.NewProgram(m, tea.WithAltScreen())
	m.Attach(p.Send)

	_, err := p.Run()
	if cerr := m.Cleanup(); err == nil {
		err = cerr
	}
	return err
}

func (m *connectModel) Init() tea.Cmd {
	return tea.Batch(m.OpenCmd(), tick())
}

func (m *connectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Input box (3), status bar (1) and the content border (1)
		m.terminal.SetSize(msg.Width, msg.Height-5)
		m.input.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.help.Width = msg.Width
		m.SetReady(true)

	case tickMsg:
		return m, tick()

	case models.ConnectionStatusMsg:
		applyConnectionStatus(m.SerialModel, m.terminal, m.statusBar, msg)

	case models.LinkLostMsg:
		applyLinkLost(m.SerialModel, m.terminal, m.statusBar, msg)

	case models.TxResultMsg:
		if m.ResolveTX(msg.ID, msg.Err) {
			m.terminal.RefreshDisplayWithRawData(m.GetRawData())
		}
		if msg.Err != nil {
			addNotice(m.SerialModel, m.terminal, fmt.Sprintf("send failed: %v", msg.Err))
		}

	case components.DataReceivedMsg:
		m.AddRawData(msg)
		m.terminal.AddMessage(msg)

	case tea.KeyMsg:
		if m.IsInInsertMode() {
			switch {
			case key.Matches(msg, m.keys.Escape):
				m.SetInputMode(models.InputModeNormal)
				m.input.Blur()
				return m, nil
			case key.Matches(msg, m.keys.Enter):
				return m, m.submit()
			case key.Matches(msg, m.keys.HistoryUp):
				m.input.NavigateHistoryUp()
				return m, nil
			case key.Matches(msg, m.keys.HistoryDown):
				m.input.NavigateHistoryDown()
				return m, nil
			case key.Matches(msg, m.keys.ToggleSendMode):
				m.input.ToggleSendingMode()
				return m, nil
			}

			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.InsertMode):
			m.SetInputMode(models.InputModeInsert)
			m.input.Focus()
			return m, nil
		case key.Matches(msg, m.keys.ToggleSendMode):
			m.input.ToggleSendingMode()
		case key.Matches(msg, m.keys.Reconnect):
			if !m.Session().IsOpen() {
				m.statusBar.SetConnecting()
				cmds = append(cmds, m.OpenCmd())
			}
		default:
			handleTerminalKey(m.SerialModel, m.terminal, m.keys.TerminalKeys, msg)
		}
	}

	_, cmd := m.terminal.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// submit turns the input line into a pending TX entry and a send command
func (m *connectModel) submit() tea.Cmd {
	value := m.input.Value()
	if value == "" {
		return nil
	}

	send, display, err := m.input.Payload()
	if err != nil {
		addNotice(m.SerialModel, m.terminal, fmt.Sprintf("invalid hex input: %v", err))
		return nil
	}

	entry := m.AddTX(display)
	m.terminal.AddMessage(entry)
	m.input.AddToHistory(value)
	m.input.SetValue("")
	return m.SendCmd(entry.ID, send)
}

func (m *connectModel) View() string {
	content := "Initializing..."
	if m.IsReady() {
		content = m.terminal.View()
	}

	body := styles.ContentBorderStyle.Render(content)
	if m.help.ShowAll {
		body = lipgloss.JoinVertical(lipgloss.Left, body, m.help.View(m.keys))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		body,
		m.input.ViewWithMode(m.IsInInsertMode()),
		m.statusBar.View(
			m.GetInputMode().String(),
			m.input.GetSendingMode().String(),
			time.Now().Format("15:04:05"),
		),
	)
}
