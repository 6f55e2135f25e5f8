package tui

import "github.com/charmbracelet/lipgloss"

// Colour palette shared by the game views
const (
	colorAccent  = lipgloss.Color("#4CAF50")
	colorDanger  = lipgloss.Color("#F44336")
	colorMuted   = lipgloss.Color("241")
	colorSponsor = lipgloss.Color("#FFC107")
)

type styles struct {
	title    lipgloss.Style
	score    lipgloss.Style
	status   lipgloss.Style
	hint     lipgloss.Style
	gameOver lipgloss.Style
	banner   lipgloss.Style
	sponsor  lipgloss.Style
	message  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title: r.NewStyle().
			Bold(true).
			Foreground(colorAccent),
		score: r.NewStyle().
			Bold(true),
		status: r.NewStyle().
			Foreground(colorMuted).
			Italic(true),
		hint: r.NewStyle().
			Foreground(colorMuted),
		gameOver: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDanger).
			Padding(0, 2).
			Align(lipgloss.Center),
		banner: r.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1),
		sponsor: r.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(colorSponsor).
			Padding(0, 1),
		message: r.NewStyle().
			Foreground(colorAccent),
	}
}
