// Package game implements the fretboard game modes as a single-threaded state machine.
package game

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects the game being played.
type Mode int

const (
	SingleNote Mode = iota
	FindAll
	Triads
)

// AllModes lists the modes in menu order.
var AllModes = []Mode{SingleNote, FindAll, Triads}

func (m Mode) String() string {
	switch m {
	case SingleNote:
		return "single"
	case FindAll:
		return "find-all"
	case Triads:
		return "triads"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Title is the menu label.
func (m Mode) Title() string {
	switch m {
	case SingleNote:
		return "Single Note"
	case FindAll:
		return "Find All Instances"
	case Triads:
		return "Chord Triads"
	default:
		return m.String()
	}
}

// ParseMode accepts the values produced by String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "single-note", "note":
		return SingleNote, nil
	case "find-all", "findall", "all":
		return FindAll, nil
	case "triads", "triad":
		return Triads, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want single, find-all, or triads)", s)
	}
}

// Outcome is the result of one click.
type Outcome int

const (
	// Ignored: no active prompt, or the next prompt is about to appear.
	Ignored Outcome = iota
	// Rejected: the fret is disabled or off the neck.
	Rejected
	// AlreadyFound: the position or pitch class was already credited.
	AlreadyFound
	Correct
	Wrong
	// Completed: the click finished the prompt and points were awarded.
	Completed
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Rejected:
		return "rejected"
	case AlreadyFound:
		return "already-found"
	case Correct:
		return "correct"
	case Wrong:
		return "wrong"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Timing and scoring constants.
const (
	AdvanceDelay       = 1500 * time.Millisecond
	FeedbackClearDelay = 1000 * time.Millisecond
	TickInterval       = time.Second

	SingleNotePoints = 1
	FindAllBonus     = 10
	TriadPoints      = 1
)
