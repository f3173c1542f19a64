package stats

import (
	"sort"

	"github.com/verte-zerg/fretdrill/internal/model"
)

// TopNotesByFrequency returns the n most answered notes.
func TopNotesByFrequency(aggs []model.NoteAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := make([]model.NoteAggregate, len(aggs))
	copy(items, aggs)
	sort.Slice(items, func(i, j int) bool {
		ti, tj := items[i].Correct+items[i].Wrong, items[j].Correct+items[j].Wrong
		if ti == tj {
			return items[i].Note < items[j].Note
		}
		return ti > tj
	})
	n = min(n, len(items))
	out := make([]string, 0, n)
	for _, it := range items[:n] {
		out = append(out, it.Note)
	}
	return out
}
