package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// MaxLines bounds the scrollback kept by a Terminal
const MaxLines = 5000

type Terminal struct {
	viewport  viewport.Model
	formatter *DataFormatter
	lines     []string
	follow    bool
}

func NewTerminal(width, height int) *Terminal {
	return &Terminal{
		viewport:  viewport.New(width, height),
		formatter: NewDataFormatter(true, true),
		follow:    true,
	}
}

func (t *Terminal) SetSize(width, height int) {
	if height < 1 {
		height = 1
	}
	t.viewport.Width = width
	t.viewport.Height = height
}

func (t *Terminal) Width() int {
	return t.viewport.Width
}

// SetFormatOptions picks which decorations precede each entry
func (t *Terminal) SetFormatOptions(showTimestamps, showIndicators bool) {
	mode := t.formatter.GetDisplayMode()
	mode.ShowTimestamps = showTimestamps
	mode.ShowIndicators = showIndicators
	t.formatter.SetDisplayMode(mode)
}

func (t *Terminal) AddMessage(msg DataReceivedMsg) {
	t.lines = append(t.lines, t.formatter.FormatMessage(msg))
	if len(t.lines) > MaxLines {
		t.lines = t.lines[len(t.lines)-MaxLines:]
	}
	t.render()
}

// RefreshDisplayWithRawData re-renders every entry, e.g. after a display
// toggle or a TX status change
func (t *Terminal) RefreshDisplayWithRawData(rawData []DataReceivedMsg) {
	if len(rawData) > MaxLines {
		rawData = rawData[len(rawData)-MaxLines:]
	}
	t.lines = t.formatter.FormatMessages(rawData)
	t.render()
}

func (t *Terminal) render() {
	t.viewport.SetContent(strings.Join(t.lines, "\n"))
	if t.follow {
		t.viewport.GotoBottom()
	}
}

func (t *Terminal) Lines() int {
	return len(t.lines)
}

func (t *Terminal) Clear() {
	t.lines = nil
	t.viewport.SetContent("")
}

func (t *Terminal) ToggleHex()        { t.formatter.ToggleHex() }
func (t *Terminal) ToggleASCII()      { t.formatter.ToggleASCII() }
func (t *Terminal) ToggleTimestamps() { t.formatter.ToggleTimestamps() }
func (t *Terminal) ToggleIndicators() { t.formatter.ToggleIndicators() }

func (t *Terminal) GetDisplayMode() DisplayMode {
	return t.formatter.GetDisplayMode()
}

// Following reports whether new entries scroll the view to the bottom
func (t *Terminal) Following() bool {
	return t.follow
}

func (t *Terminal) ScrollUp(n int) {
	t.follow = false
	t.viewport.SetYOffset(t.viewport.YOffset - n)
}

func (t *Terminal) ScrollDown(n int) {
	t.viewport.SetYOffset(t.viewport.YOffset + n)
	t.follow = t.viewport.AtBottom()
}

func (t *Terminal) GotoTop() {
	t.follow = false
	t.viewport.GotoTop()
}

func (t *Terminal) GotoBottom() {
	t.follow = true
	t.viewport.GotoBottom()
}

func (t *Terminal) Update(msg tea.Msg) (viewport.Model, tea.Cmd) {
	// Key messages stay with the caller's bindings
	switch msg.(type) {
	case tea.WindowSizeMsg:
		var cmd tea.Cmd
		t.viewport, cmd = t.viewport.Update(msg)
		return t.viewport, cmd
	default:
		return t.viewport, nil
	}
}

func (t *Terminal) View() string {
	return t.viewport.View()
}
