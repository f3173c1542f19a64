package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/fretdrill/internal/render"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	promptStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	stringStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))
	woodStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8B5A2B"))
	markerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E8E0C8"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))

	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#52C41A"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF4D4F"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#69B1FF"))
)

var feedbackStyles = map[render.Feedback]lipgloss.Style{
	render.Correct:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#52C41A")),
	render.Wrong:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF4D4F")),
	render.RootHint: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAAD14")),
	render.Solution: lipgloss.NewStyle().Foreground(lipgloss.Color("#69B1FF")),
}

var feedbackGlyphs = map[render.Feedback]string{
	render.Correct:  "●",
	render.Wrong:    "✗",
	render.RootHint: "◆",
	render.Solution: "○",
}

func messageStyle(kind render.MessageKind) lipgloss.Style {
	switch kind {
	case render.Success:
		return successStyle
	case render.Error:
		return errorStyle
	default:
		return infoStyle
	}
}
