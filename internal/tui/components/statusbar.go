package components

import (
	"fmt"

	serialport "github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

type connState int

const (
	stateConnecting connState = iota
	stateConnected
	stateDisconnected
	stateFailed
)

type StatusBar struct {
	portPath string
	config   serialport.Config
	state    connState
	status   string
	err      error
	width    int
}

func NewStatusBar(portPath string, config serialport.Config) *StatusBar {
	return &StatusBar{
		portPath: portPath,
		config:   config,
		state:    stateConnecting,
		status:   "Connecting...",
	}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetConnecting() {
	sb.state = stateConnecting
	sb.status = "Connecting..."
	sb.err = nil
}

func (sb *StatusBar) SetConnected() {
	sb.state = stateConnected
	sb.status = "Connected"
	sb.err = nil
}

// SetDisconnected marks the port closed; a non-nil err marks it failed
func (sb *StatusBar) SetDisconnected(err error) {
	if err != nil {
		sb.state = stateFailed
		sb.status = fmt.Sprintf("Connection failed: %v", err)
		sb.err = err
		return
	}
	sb.state = stateDisconnected
	sb.status = "Disconnected"
	sb.err = nil
}

func (sb *StatusBar) Status() string {
	return sb.status
}

func (sb *StatusBar) Err() error {
	return sb.err
}

func (sb *StatusBar) indicator() string {
	switch sb.state {
	case stateConnected:
		return lipgloss.NewStyle().Foreground(colors.Green).Render("●")
	case stateConnecting:
		return lipgloss.NewStyle().Foreground(colors.Yellow).Render("○")
	case stateFailed:
		return lipgloss.NewStyle().Foreground(colors.Red).Render("✗")
	default:
		return lipgloss.NewStyle().Foreground(colors.Red).Render("○")
	}
}

// View renders the single-line status bar. mode is NORMAL, INSERT or
// LISTEN; sendingMode is only shown in INSERT.
func (sb *StatusBar) View(mode, sendingMode, timestamp string) string {
	width := sb.width
	if width <= 0 {
		width = 80
	}

	modeColor := colors.Blue
	switch mode {
	case "INSERT":
		modeColor = colors.Green
	case "LISTEN":
		modeColor = colors.Mauve
	}
	modeView := lipgloss.NewStyle().
		Foreground(colors.Base).
		Background(modeColor).
		Bold(true).
		Padding(0, 1).
		Render(mode)

	port := lipgloss.NewStyle().
		Foreground(colors.Mauve).
		Bold(true).
		Padding(0, 1).
		Render(sb.portPath)

	divider := lipgloss.NewStyle().
		Foreground(colors.Surface2).
		Padding(0, 1).
		Render("│")

	left := []string{modeView, port, sb.indicator()}
	if mode == "INSERT" {
		left = append(left, lipgloss.NewStyle().
			Foreground(colors.Peach).
			Bold(true).
			Padding(0, 1).
			Render(fmt.Sprintf("[%s] Tab to toggle", sendingMode)))
	}
	if sb.err != nil {
		left = append(left, lipgloss.NewStyle().
			Foreground(colors.Red).
			Padding(0, 1).
			Render(sb.err.Error()))
	}
	left = append(left, divider)
	leftSide := lipgloss.JoinHorizontal(lipgloss.Left, left...)

	details := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Padding(0, 1).
		Render("⚡ " + sb.config.String())
	clock := lipgloss.NewStyle().
		Foreground(colors.Subtext1).
		Padding(0, 1).
		Render(timestamp)
	rightSide := lipgloss.JoinHorizontal(lipgloss.Left, details, divider, clock)

	spacerWidth := max(width-lipgloss.Width(leftSide)-lipgloss.Width(rightSide), 1)
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	return lipgloss.NewStyle().
		Foreground(colors.Text).
		Background(colors.Surface0).
		Width(width).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, leftSide, spacer, rightSide))
}
