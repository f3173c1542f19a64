package tui

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/fretdrill/internal/game"
	"github.com/verte-zerg/fretdrill/internal/model"
	"github.com/verte-zerg/fretdrill/internal/render"
	"github.com/verte-zerg/fretdrill/internal/theory"
	"github.com/verte-zerg/fretdrill/internal/timer"
)

type menuItem int

const (
	itemSingleNote menuItem = iota
	itemFindAll
	itemTriads
	itemViewMode
	itemTimeLimit
	itemSeconds
	itemDisabledFrom
	itemDisabledTo
	itemMajor
	itemMinor
	itemDiminished
	itemAugmented
	itemRootHint
	itemDebug
	itemFocusWeak
	menuItemCount
)

var itemModes = map[menuItem]game.Mode{
	itemSingleNote: game.SingleNote,
	itemFindAll:    game.FindAll,
	itemTriads:     game.Triads,
}

var itemTriadTypes = map[menuItem]theory.TriadType{
	itemMajor:      theory.Major,
	itemMinor:      theory.Minor,
	itemDiminished: theory.Diminished,
	itemAugmented:  theory.Augmented,
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func checkbox(v bool) string {
	if v {
		return "[x]"
	}
	return "[ ]"
}

func (m *Model) itemLabel(item menuItem, cfg model.GameConfig) string {
	if mode, ok := itemModes[item]; ok {
		return "Play " + mode.Title()
	}
	if t, ok := itemTriadTypes[item]; ok {
		return fmt.Sprintf("%s %s triads", checkbox(cfg.TriadEnabled(t)), t)
	}
	switch item {
	case itemViewMode:
		return "View: " + strings.ToUpper(string(cfg.ViewMode))
	case itemTimeLimit:
		return "Time limit: " + onOff(cfg.TimeLimitEnabled)
	case itemSeconds:
		return fmt.Sprintf("Seconds per prompt: %d", cfg.TimeLimitSeconds)
	case itemDisabledFrom:
		if cfg.DisabledFrets == nil {
			return "Disable frets from: none"
		}
		return fmt.Sprintf("Disable frets from: %d", cfg.DisabledFrets.From)
	case itemDisabledTo:
		if cfg.DisabledFrets == nil {
			return "Disable frets to: -"
		}
		return fmt.Sprintf("Disable frets to: %d", cfg.DisabledFrets.To)
	case itemRootHint:
		return "Show triad root: " + onOff(cfg.ShowTriadRootNote)
	case itemDebug:
		return "Debug overlay: " + onOff(cfg.DebugVisible)
	case itemFocusWeak:
		return "Focus weak notes: " + onOff(cfg.FocusWeak)
	default:
		return ""
	}
}

// adjustItem changes the setting under the menu cursor. delta is -1 or +1 for
// left/right and 0 for select.
func (m *Model) adjustItem(item menuItem, delta int) {
	if mode, ok := itemModes[item]; ok {
		if delta == 0 {
			m.startMode(mode)
		}
		return
	}
	if t, ok := itemTriadTypes[item]; ok {
		cfg := m.settings.Get()
		if cfg.TriadEnabled(t) && len(cfg.TriadTypes) == 1 {
			m.ShowTransientMessage(render.Error, model.ErrNoTriadTypes.Error())
			return
		}
		m.updateSettings(func(c *model.GameConfig) {
			c.TriadTypes = toggleTriad(c.TriadTypes, t)
		})
		return
	}
	maxFret := m.maxFret - 1
	switch item {
	case itemViewMode:
		m.updateSettings(func(c *model.GameConfig) { c.ViewMode = c.ViewMode.Toggle() })
	case itemTimeLimit:
		m.updateSettings(func(c *model.GameConfig) { c.TimeLimitEnabled = !c.TimeLimitEnabled })
	case itemSeconds:
		if delta == 0 {
			delta = 1
		}
		m.updateSettings(func(c *model.GameConfig) {
			c.TimeLimitSeconds = wrap(c.TimeLimitSeconds+delta, timer.MinSeconds, timer.MaxSeconds)
		})
	case itemDisabledFrom:
		if delta == 0 {
			delta = 1
		}
		m.updateSettings(func(c *model.GameConfig) {
			from := 0
			if c.DisabledFrets != nil {
				from = c.DisabledFrets.From
			}
			from = wrap(from+delta, 0, maxFret)
			if from == 0 {
				c.DisabledFrets = nil
				return
			}
			to := from
			if c.DisabledFrets != nil && c.DisabledFrets.To >= from {
				to = c.DisabledFrets.To
			}
			c.DisabledFrets = &model.FretRange{From: from, To: to}
		})
	case itemDisabledTo:
		cfg := m.settings.Get()
		if cfg.DisabledFrets == nil {
			m.ShowTransientMessage(render.Info, "set the first disabled fret first")
			return
		}
		if delta == 0 {
			delta = 1
		}
		m.updateSettings(func(c *model.GameConfig) {
			to := wrap(c.DisabledFrets.To+delta, c.DisabledFrets.From, maxFret)
			c.DisabledFrets = &model.FretRange{From: c.DisabledFrets.From, To: to}
		})
	case itemRootHint:
		m.updateSettings(func(c *model.GameConfig) { c.ShowTriadRootNote = !c.ShowTriadRootNote })
	case itemDebug:
		m.updateSettings(func(c *model.GameConfig) { c.DebugVisible = !c.DebugVisible })
	case itemFocusWeak:
		m.updateSettings(func(c *model.GameConfig) { c.FocusWeak = !c.FocusWeak })
	}
}

func toggleTriad(types []theory.TriadType, t theory.TriadType) []theory.TriadType {
	out := make([]theory.TriadType, 0, len(types)+1)
	found := false
	for _, e := range types {
		if e == t {
			found = true
			continue
		}
		out = append(out, e)
	}
	if !found {
		out = append(out, t)
	}
	return out
}

// wrap keeps v in [lo, hi], cycling past either end.
func wrap(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	span := hi - lo + 1
	return lo + ((v-lo)%span+span)%span
}

func (m *Model) menuView() string {
	cfg := m.settings.Get()
	var b strings.Builder
	b.WriteString(titleStyle.Render("fretdrill"))
	b.WriteString("\n\n")
	for i := menuItem(0); i < menuItemCount; i++ {
		if i == itemViewMode || i == itemMajor || i == itemRootHint {
			b.WriteByte('\n')
		}
		line := m.itemLabel(i, cfg)
		if i == m.menuCursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteByte('\n')
	}
	if m.last != nil {
		b.WriteByte('\n')
		b.WriteString(dimStyle.Render(fmt.Sprintf("Last game: %s, score %d, errors %d",
			m.last.Mode.Title(), m.last.Score, m.last.Errors)))
		b.WriteByte('\n')
	}
	return b.String()
}
