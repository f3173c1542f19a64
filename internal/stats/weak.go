package stats

import (
	"sort"

	"github.com/verte-zerg/fretdrill/internal/model"
	"github.com/verte-zerg/fretdrill/internal/theory"
)

// SelectWeakNotes selects the lowest-accuracy notes from aggregates.
// Unparseable note labels are skipped.
func SelectWeakNotes(aggs []model.NoteAggregate, top int) map[theory.PitchClass]struct{} {
	weak := map[theory.PitchClass]struct{}{}
	candidates := make([]model.NoteAggregate, len(aggs))
	copy(candidates, aggs)
	sortByAccuracy(candidates)
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for _, agg := range candidates[:top] {
		pc, err := theory.ParsePitchClass(agg.Note)
		if err != nil {
			continue
		}
		weak[pc] = struct{}{}
	}
	return weak
}

func sortByAccuracy(aggs []model.NoteAggregate) {
	sort.SliceStable(aggs, func(i, j int) bool {
		ai, aj := accuracy(aggs[i]), accuracy(aggs[j])
		if ai == aj {
			return aggs[i].Note < aggs[j].Note
		}
		return ai < aj
	})
}

func accuracy(agg model.NoteAggregate) float64 {
	total := agg.Correct + agg.Wrong
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}
