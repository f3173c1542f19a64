// Package model defines shared data structures.
package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/fretdrill/internal/theory"
	"github.com/verte-zerg/fretdrill/internal/timer"
)

// ViewMode selects which presentation adapter draws the neck.
type ViewMode string

const (
	View2D ViewMode = "2d"
	View3D ViewMode = "3d"
)

// Toggle returns the other view mode.
func (v ViewMode) Toggle() ViewMode {
	if v == View2D {
		return View3D
	}
	return View2D
}

// Validation errors reported before a mode starts.
var (
	ErrNoTriadTypes     = errors.New("select at least one triad type")
	ErrInvalidTimeLimit = fmt.Errorf("time limit must be between %d and %d seconds", timer.MinSeconds, timer.MaxSeconds)
	ErrInvalidFretRange = errors.New("disabled fret range is outside the neck")
	ErrInvalidViewMode  = errors.New("view mode must be 2d or 3d")
)

// FretRange is an inclusive range of frets.
type FretRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Set expands the range.
func (r FretRange) Set() theory.FretSet {
	return theory.FretRange(r.From, r.To)
}

func (r FretRange) String() string {
	return fmt.Sprintf("%d-%d", r.From, r.To)
}

// GameConfig holds the persisted game settings.
type GameConfig struct {
	ViewMode          ViewMode           `json:"view_mode"`
	TimeLimitEnabled  bool               `json:"time_limit_enabled"`
	TimeLimitSeconds  int                `json:"time_limit_seconds"`
	DisabledFrets     *FretRange         `json:"disabled_frets,omitempty"`
	TriadTypes        []theory.TriadType `json:"triad_types"`
	ShowTriadRootNote bool               `json:"show_triad_root_note"`
	DebugVisible      bool               `json:"debug_visible"`
	FocusWeak         bool               `json:"focus_weak"`
}

// DefaultTimeLimitSeconds is used when a time limit is first enabled.
const DefaultTimeLimitSeconds = 5

// Default returns the first-run settings.
func Default() GameConfig {
	return GameConfig{
		ViewMode:         View3D,
		TimeLimitSeconds: DefaultTimeLimitSeconds,
		TriadTypes:       []theory.TriadType{theory.Major, theory.Minor},
	}
}

// DisabledSet returns the disabled frets, nil when none are disabled.
func (c GameConfig) DisabledSet() theory.FretSet {
	if c.DisabledFrets == nil {
		return nil
	}
	return c.DisabledFrets.Set()
}

// TriadEnabled reports whether t is selected.
func (c GameConfig) TriadEnabled(t theory.TriadType) bool {
	for _, e := range c.TriadTypes {
		if e == t {
			return true
		}
	}
	return false
}

// Normalize repairs values a store or a caller may leave inconsistent: an empty
// triad set becomes major only, the time limit is clamped, range bounds are ordered,
// and duplicate triad types are dropped.
func (c GameConfig) Normalize() GameConfig {
	if c.ViewMode != View2D && c.ViewMode != View3D {
		c.ViewMode = View3D
	}
	if c.TimeLimitSeconds < timer.MinSeconds {
		c.TimeLimitSeconds = timer.MinSeconds
	}
	if c.TimeLimitSeconds > timer.MaxSeconds {
		c.TimeLimitSeconds = timer.MaxSeconds
	}
	if c.DisabledFrets != nil && c.DisabledFrets.From > c.DisabledFrets.To {
		r := FretRange{From: c.DisabledFrets.To, To: c.DisabledFrets.From}
		c.DisabledFrets = &r
	}
	seen := map[theory.TriadType]bool{}
	types := make([]theory.TriadType, 0, len(c.TriadTypes))
	for _, t := range theory.AllTriadTypes {
		if c.TriadEnabled(t) && !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		types = []theory.TriadType{theory.Major}
	}
	c.TriadTypes = types
	return c
}

// Validate checks the settings against a neck with frets [1, maxFret).
func (c GameConfig) Validate(maxFret int) error {
	if c.ViewMode != View2D && c.ViewMode != View3D {
		return ErrInvalidViewMode
	}
	if c.TimeLimitSeconds < timer.MinSeconds || c.TimeLimitSeconds > timer.MaxSeconds {
		return ErrInvalidTimeLimit
	}
	if r := c.DisabledFrets; r != nil {
		if r.From < 1 || r.To < 1 || r.From >= maxFret || r.To >= maxFret {
			return fmt.Errorf("%w: %s not within 1-%d", ErrInvalidFretRange, r, maxFret-1)
		}
		lo, hi := r.From, r.To
		if lo > hi {
			lo, hi = hi, lo
		}
		if lo <= 1 && hi >= maxFret-1 {
			return fmt.Errorf("%w: %s disables every fret", ErrInvalidFretRange, r)
		}
	}
	if len(c.TriadTypes) == 0 {
		return ErrNoTriadTypes
	}
	return nil
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Mode        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionStats captures a finished game session.
type SessionStats struct {
	StartedAt  time.Time
	EndedAt    time.Time
	Mode       string
	Score      int
	Errors     int
	Correct    int
	DurationMs int64
}

// NoteStats stores per-note results for a session, keyed by target pitch class.
type NoteStats struct {
	Note    string
	Correct int
	Wrong   int
}

// NoteAggregate aggregates note stats across sessions.
type NoteAggregate struct {
	Note    string
	Correct int
	Wrong   int
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	Mode       string
	Score      int
	Errors     int
	Correct    int
	DurationMs int64
}
