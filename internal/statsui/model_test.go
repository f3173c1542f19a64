package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/fretdrill/internal/model"
)

type fakeSource struct {
	sessions []model.SessionAggregate
	notes    []model.NoteAggregate
	err      error
	lastCfg  model.StatsConfig
}

func (f *fakeSource) ListSessions(_ context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	f.lastCfg = cfg
	if f.err != nil {
		return nil, f.err
	}
	var out []model.SessionAggregate
	for _, s := range f.sessions {
		if cfg.Mode == "" || s.Mode == cfg.Mode {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSource) ListNoteAggregatesForSessions(_ context.Context, ids []int64) ([]model.NoteAggregate, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return f.notes, nil
}

func sampleSource() *fakeSource {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &fakeSource{
		sessions: []model.SessionAggregate{
			{SessionID: 1, EndedAt: now, Mode: "single", Score: 4, Errors: 1, Correct: 4, DurationMs: 60000},
			{SessionID: 2, EndedAt: now.Add(time.Hour), Mode: "triads", Score: 9, Errors: 0, Correct: 3, DurationMs: 30000},
		},
		notes: []model.NoteAggregate{
			{Note: "A", Correct: 2, Wrong: 0},
			{Note: "C#", Correct: 3, Wrong: 4},
		},
	}
}

func TestNewModelLoadsReport(t *testing.T) {
	m := NewModel(sampleSource(), model.StatsConfig{CurveWindow: 5})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	view := m.View()
	if !strings.Contains(view, "Sessions") || !strings.Contains(view, "Best Score") {
		t.Fatalf("overview missing summary cards:\n%s", view)
	}
	if !strings.Contains(view, "mode=any") {
		t.Fatalf("missing filter summary:\n%s", view)
	}
}

func TestModeFilterCycles(t *testing.T) {
	src := sampleSource()
	m := NewModel(src, model.StatsConfig{CurveWindow: 5})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	if src.lastCfg.Mode != "single" {
		t.Fatalf("expected single filter, got %q", src.lastCfg.Mode)
	}
	if len(m.report.Sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(m.report.Sessions))
	}
	for i := 0; i < 3; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	}
	if src.lastCfg.Mode != "" {
		t.Fatalf("expected filter to wrap to any, got %q", src.lastCfg.Mode)
	}
}

func TestNoteRowsSortedByTotal(t *testing.T) {
	rows := noteRows(sampleSource().notes)
	if len(rows) != 2 || rows[0][0] != "C#" {
		t.Fatalf("unexpected rows %v", rows)
	}
	if rows[0][1] != "42.86%" || rows[0][4] != "7" {
		t.Fatalf("unexpected C# row %v", rows[0])
	}
}

func TestNotesTab(t *testing.T) {
	m := NewModel(sampleSource(), model.StatsConfig{CurveWindow: 5})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabNoteTable {
		t.Fatalf("expected notes tab, got %d", m.activeTab)
	}
	if !strings.Contains(m.View(), "Accuracy") {
		t.Fatalf("notes tab missing table header:\n%s", m.View())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabOverview {
		t.Fatalf("expected tabs to wrap, got %d", m.activeTab)
	}
}

func TestLoadErrorShown(t *testing.T) {
	src := &fakeSource{err: errors.New("disk gone")}
	m := NewModel(src, model.StatsConfig{CurveWindow: 5})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	if !strings.Contains(m.View(), "disk gone") {
		t.Fatalf("expected error in footer:\n%s", m.View())
	}
}

func TestCurveWindowSteps(t *testing.T) {
	cases := []struct{ in, next, prev int }{
		{1, 5, 1},
		{3, 5, 2},
		{5, 10, 4},
		{7, 10, 5},
		{10, 15, 5},
	}
	for _, tc := range cases {
		if got := nextCurveWindow(tc.in); got != tc.next {
			t.Fatalf("next(%d) = %d, want %d", tc.in, got, tc.next)
		}
		if got := prevCurveWindow(tc.in); got != tc.prev {
			t.Fatalf("prev(%d) = %d, want %d", tc.in, got, tc.prev)
		}
	}
}
