package colors

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, the subset the serialport UI draws with
var (
	Base     = lipgloss.Color("#1e1e2e")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Surface2 = lipgloss.Color("#585b70")
	Overlay0 = lipgloss.Color("#6c7086")
	Subtext0 = lipgloss.Color("#a6adc8")
	Subtext1 = lipgloss.Color("#bac2de")
	Text     = lipgloss.Color("#cdd6f4")

	Blue   = lipgloss.Color("#89b4fa") // normal mode, transmitting
	Sky    = lipgloss.Color("#89dceb") // received data
	Green  = lipgloss.Color("#a6e3a1") // insert mode, success
	Yellow = lipgloss.Color("#f9e2af") // pending, hex prompt
	Peach  = lipgloss.Color("#fab387") // sent data
	Red    = lipgloss.Color("#f38ba8") // errors, link lost
	Mauve  = lipgloss.Color("#cba6f7") // port names, headings
)
