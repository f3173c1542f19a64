package game

import (
	"sort"
	"time"

	"github.com/verte-zerg/fretdrill/internal/model"
	"github.com/verte-zerg/fretdrill/internal/theory"
)

// NoteTally counts answers charged to one pitch class.
type NoteTally struct {
	Correct int
	Wrong   int
}

// Result summarizes a stopped mode.
type Result struct {
	Mode      Mode
	Score     int
	Errors    int
	Correct   int
	StartedAt time.Time
	EndedAt   time.Time
	Notes     map[theory.PitchClass]NoteTally
}

// Interacted reports whether the learner answered at least once or timed out.
func (r Result) Interacted() bool {
	return r.Correct+r.Errors > 0
}

// SessionStats converts the result into history rows. Notes are ordered chromatically.
func (r Result) SessionStats() (model.SessionStats, []model.NoteStats) {
	stats := model.SessionStats{
		StartedAt:  r.StartedAt,
		EndedAt:    r.EndedAt,
		Mode:       r.Mode.String(),
		Score:      r.Score,
		Errors:     r.Errors,
		Correct:    r.Correct,
		DurationMs: r.EndedAt.Sub(r.StartedAt).Milliseconds(),
	}
	pcs := make([]theory.PitchClass, 0, len(r.Notes))
	for pc := range r.Notes {
		pcs = append(pcs, pc)
	}
	sort.Slice(pcs, func(i, j int) bool { return pcs[i] < pcs[j] })
	notes := make([]model.NoteStats, 0, len(pcs))
	for _, pc := range pcs {
		t := r.Notes[pc]
		notes = append(notes, model.NoteStats{Note: pc.String(), Correct: t.Correct, Wrong: t.Wrong})
	}
	return stats, notes
}
