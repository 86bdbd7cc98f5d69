/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
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

// listenCmd represents the listen command
var listenCmd = &cobra.Command{
	Use:   "listen <port>",
	Short: "Listen for data on a serial port with real-time display",
	Long: `Listen for incoming data on a serial port with a real-time TUI display.

This command opens the specified serial port and displays incoming data as it
arrives. Features include:
- Real-time data streaming with timestamps
- ASCII and hex display modes
- Connection status and line settings in the status bar
- Scrollback with follow mode

The port can be given by name (ttyUSB0) or by path (/dev/ttyUSB0).

Example usage:
  serialport listen ttyUSB0
  serialport listen /dev/ttyUSB0 --baud 115200
  serialport listen ttyACM0 --raw`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := lineConfig()
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

		return runListenTUI(session, args[0], config, displayOptions())
	},
}

func init() {
	rootCmd.AddCommand(listenCmd)

	addLineFlags(listenCmd)

	listenCmd.Flags().Bool("no-timestamps", false, "Hide timestamps from output")
	listenCmd.Flags().Bool("show-indicators", false, "Show RX/TX indicators (off by default)")
	listenCmd.Flags().Bool("raw", false, "Raw output mode: no timestamps, no indicators")
}

type displayOpts struct {
	timestamps bool
	indicators bool
}

func displayOptions() displayOpts {
	opts := displayOpts{
		timestamps: !viper.GetBool("no-timestamps"),
		indicators: viper.GetBool("show-indicators"),
	}
	if viper.GetBool("raw") {
		opts = displayOpts{}
	}
	return opts
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// listenModel represents the Bubble Tea model for the listen command
type listenModel struct {
	*models.SerialModel
	terminal  *components.Terminal
	statusBar *components.StatusBar
	help      help.Model
	keys      keys.TerminalKeys
}

func newListenModel(session *serialport.Session, portName string, config serialport.Config, opts displayOpts) *listenModel {
	m := &listenModel{
		SerialModel: models.NewSerialModel(session, portName, config),
		terminal:    components.NewTerminal(0, 0),
		statusBar:   components.NewStatusBar(portName, config),
		help:        help.New(),
		keys:        keys.NewTerminalKeys(),
	}
	m.terminal.SetFormatOptions(opts.timestamps, opts.indicators)
	return m
}

func runListenTUI(session *serialport.Session, portName string, config serialport.Config, opts displayOpts) error {
	m := newListenModel(session, portName, config, opts)

	p := tea.NewProgram(m, tea.WithAltScreen())
	m.Attach(p.Send)

	_, err := p.Run()
	if cerr := m.Cleanup(); err == nil {
		err = cerr
	}
	if err == nil {
		err = m.GetError()
	}
	return err
}

func (m *listenModel) Init() tea.Cmd {
	return tea.Batch(m.OpenCmd(), tick())
}

func (m *listenModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Status bar and the content border take one line each
		m.terminal.SetSize(msg.Width, msg.Height-2)
		m.statusBar.SetWidth(msg.Width)
		m.help.Width = msg.Width
		m.SetReady(true)

	case tickMsg:
		return m, tick()

	case models.ConnectionStatusMsg:
		applyConnectionStatus(m.SerialModel, m.terminal, m.statusBar, msg)

	case models.LinkLostMsg:
		applyLinkLost(m.SerialModel, m.terminal, m.statusBar, msg)

	case components.DataReceivedMsg:
		m.AddRawData(msg)
		m.terminal.AddMessage(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		default:
			handleTerminalKey(m.SerialModel, m.terminal, m.keys, msg)
		}
	}

	_, cmd := m.terminal.Update(msg)
	return m, cmd
}

func (m *listenModel) View() string {
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
		m.statusBar.View("LISTEN", "", time.Now().Format("15:04:05")),
	)
}

// handleTerminalKey applies the scrollback and display bindings shared by
// the listen and connect views
func handleTerminalKey(m *models.SerialModel, t *components.Terminal, k keys.TerminalKeys, msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, k.Clear):
		m.ClearData()
		t.Clear()
	case key.Matches(msg, k.ToggleHex):
		t.ToggleHex()
		t.RefreshDisplayWithRawData(m.GetRawData())
	case key.Matches(msg, k.ToggleASCII):
		t.ToggleASCII()
		t.RefreshDisplayWithRawData(m.GetRawData())
	case key.Matches(msg, k.ToggleTimestamps):
		t.ToggleTimestamps()
		t.RefreshDisplayWithRawData(m.GetRawData())
	case key.Matches(msg, k.ToggleIndicators):
		t.ToggleIndicators()
		t.RefreshDisplayWithRawData(m.GetRawData())
	case key.Matches(msg, k.ScrollUp):
		t.ScrollUp(1)
	case key.Matches(msg, k.ScrollDown):
		t.ScrollDown(1)
	case key.Matches(msg, k.GotoTop):
		t.GotoTop()
	case key.Matches(msg, k.GotoBottom):
		t.GotoBottom()
	default:
		return false
	}
	return true
}

func applyConnectionStatus(m *models.SerialModel, t *components.Terminal, sb *components.StatusBar, msg models.ConnectionStatusMsg) {
	m.SetConnected(msg.Connected)
	m.SetError(msg.Error)
	if msg.Error != nil {
		sb.SetDisconnected(msg.Error)
		addNotice(m, t, fmt.Sprintf("open failed: %v", msg.Error))
		return
	}
	sb.SetConnected()
}

func applyLinkLost(m *models.SerialModel, t *components.Terminal, sb *components.StatusBar, msg models.LinkLostMsg) {
	m.SetConnected(false)
	sb.SetDisconnected(msg.Err)
	addNotice(m, t, fmt.Sprintf("link lost: %v", msg.Err))
}

func addNotice(m *models.SerialModel, t *components.Terminal, notice string) {
	entry := components.DataReceivedMsg{Timestamp: time.Now(), Notice: notice}
	m.AddRawData(entry)
	t.AddMessage(entry)
}
