package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/allbin/go-serialport/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

// TxStatus tracks an outbound entry from queued to handed to the OS
type TxStatus int

const (
	TxNone TxStatus = iota
	TxPending
	TxWritten
	TxIncomplete
	TxError
)

// DataReceivedMsg is one terminal entry: inbound bytes, outbound bytes, or a
// notice from the session (link lost, bad input)
type DataReceivedMsg struct {
	ID        int
	Timestamp time.Time
	Data      []byte
	IsTX      bool
	Status    TxStatus
	Notice    string
}

type DisplayMode struct {
	ShowHex        bool
	ShowASCII      bool
	ShowTimestamps bool
	ShowIndicators bool
}

type DataFormatter struct {
	mode DisplayMode
}

func NewDataFormatter(showHex, showASCII bool) *DataFormatter {
	return &DataFormatter{
		mode: DisplayMode{
			ShowHex:        showHex,
			ShowASCII:      showASCII,
			ShowTimestamps: true,
			ShowIndicators: true,
		},
	}
}

func (df *DataFormatter) SetDisplayMode(mode DisplayMode) {
	df.mode = mode
}

func (df *DataFormatter) GetDisplayMode() DisplayMode {
	return df.mode
}

// FormatHex renders bytes as upper-case pairs separated by single spaces,
// e.g. "AA BB CC"
func FormatHex(data []byte) string {
	return fmt.Sprintf("% X", data)
}

// FormatASCII replaces everything outside printable ASCII with '.'
func FormatASCII(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		if c >= 32 && c <= 126 {
			b.WriteByte(c)
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

func txIndicator(status TxStatus) (lipgloss.Color, string) {
	switch status {
	case TxPending:
		return colors.Yellow, "TX ○"
	case TxWritten:
		return colors.Green, "TX ✓"
	case TxIncomplete:
		return colors.Peach, "TX ½"
	case TxError:
		return colors.Red, "TX ✗"
	default:
		return colors.Peach, "TX"
	}
}

func (df *DataFormatter) FormatMessage(msg DataReceivedMsg) string {
	var prefix []string

	if df.mode.ShowTimestamps {
		prefix = append(prefix, lipgloss.NewStyle().
			Foreground(colors.Subtext0).
			Render(fmt.Sprintf("[%s]", msg.Timestamp.Format("15:04:05.000"))))
	}

	if msg.Notice != "" {
		prefix = append(prefix, lipgloss.NewStyle().
			Foreground(colors.Red).
			Bold(true).
			Render("!! "+msg.Notice))
		return strings.Join(prefix, " ")
	}

	if df.mode.ShowIndicators {
		var indicator string
		if msg.IsTX {
			color, text := txIndicator(msg.Status)
			indicator = lipgloss.NewStyle().Foreground(color).Bold(true).Render("↗ " + text)
		} else {
			indicator = lipgloss.NewStyle().Foreground(colors.Sky).Bold(true).Render("↙ RX")
		}
		prefix = append(prefix, indicator+":")
	}

	var parts []string
	if df.mode.ShowHex {
		parts = append(parts, "HEX: "+FormatHex(msg.Data))
	}
	if df.mode.ShowASCII {
		parts = append(parts, "ASCII: "+FormatASCII(msg.Data))
	}
	if !df.mode.ShowHex && !df.mode.ShowASCII {
		parts = append(parts, fmt.Sprintf("BYTES: %d", len(msg.Data)))
	}

	return strings.Join(append(prefix, strings.Join(parts, "  ")), " ")
}

func (df *DataFormatter) FormatMessages(messages []DataReceivedMsg) []string {
	formatted := make([]string, len(messages))
	for i, msg := range messages {
		formatted[i] = df.FormatMessage(msg)
	}
	return formatted
}

func (df *DataFormatter) ToggleHex() {
	df.mode.ShowHex = !df.mode.ShowHex
}

func (df *DataFormatter) ToggleASCII() {
	df.mode.ShowASCII = !df.mode.ShowASCII
}

func (df *DataFormatter) ToggleTimestamps() {
	df.mode.ShowTimestamps = !df.mode.ShowTimestamps
}

func (df *DataFormatter) ToggleIndicators() {
	df.mode.ShowIndicators = !df.mode.ShowIndicators
}
