package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorText    = lipgloss.Color("#cdd6f4")
	colorMuted   = lipgloss.Color("#7f849c")
	colorAccent  = lipgloss.Color("#89b4fa")
	colorDanger  = lipgloss.Color("#f38ba8")
	colorWarning = lipgloss.Color("#f9e2af")
	colorSurface = lipgloss.Color("#313244")
)

// Styles groups every style the views render with.
type Styles struct {
	Title      lipgloss.Style
	Header     lipgloss.Style
	Row        lipgloss.Style
	Selected   lipgloss.Style
	Muted      lipgloss.Style
	Loading    lipgloss.Style
	ErrorBar   lipgloss.Style
	FieldLabel lipgloss.Style
	FieldError lipgloss.Style
	Focused    lipgloss.Style
	Box        lipgloss.Style
	Help       lipgloss.Style
}

// DefaultStyles returns the dark palette used by the students TUI.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			MarginBottom(1),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Background(colorSurface),
		Row:      lipgloss.NewStyle().Foreground(colorText),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Muted:    lipgloss.NewStyle().Foreground(colorMuted),
		Loading:  lipgloss.NewStyle().Foreground(colorWarning),
		ErrorBar: lipgloss.NewStyle().
			Foreground(colorDanger).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDanger).
			Padding(0, 1),
		FieldLabel: lipgloss.NewStyle().Foreground(colorText).Width(10),
		FieldError: lipgloss.NewStyle().Foreground(colorDanger),
		Focused:    lipgloss.NewStyle().Foreground(colorAccent),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2),
		Help: lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1),
	}
}
