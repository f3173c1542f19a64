package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/fretdrill/internal/schedule"
)

// fireMsg wakes the queue for one pending action.
type fireMsg struct {
	handle schedule.Handle
}

func fireAfter(p schedule.Pending) tea.Cmd {
	return tea.Tick(p.Delay, func(time.Time) tea.Msg {
		return fireMsg{handle: p.Handle}
	})
}
