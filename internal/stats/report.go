package stats

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/fretdrill/internal/model"
)

// SessionSource is the read side of the session store.
type SessionSource interface {
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error)
	ListNoteAggregatesForSessions(ctx context.Context, sessionIDs []int64) ([]model.NoteAggregate, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions         []model.SessionAggregate
	WindowSessionIDs []int64
	NoteAggsAll      []model.NoteAggregate
	NoteAggsWindow   []model.NoteAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src SessionSource, cfg model.StatsConfig) (Report, error) {
	sessions, err := src.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	allIDs := sessionIDs(sessions)
	windowIDs := lastSessionIDs(sessions, cfg.CurveWindow)
	aggsAll, err := src.ListNoteAggregatesForSessions(ctx, allIDs)
	if err != nil {
		return Report{}, err
	}
	aggsWindow, err := src.ListNoteAggregatesForSessions(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Sessions:         sessions,
		WindowSessionIDs: windowIDs,
		NoteAggsAll:      aggsAll,
		NoteAggsWindow:   aggsWindow,
	}, nil
}

// Render writes the full stats report.
func (r Report) Render(w io.Writer, cfg model.StatsConfig, totalWidth int) error {
	if err := RenderSummary(w, r.Sessions); err != nil {
		return err
	}
	if len(r.Sessions) == 0 {
		return nil
	}
	if err := RenderCurves(w, r.Sessions, cfg.CurveWindow, totalWidth, 0); err != nil {
		return err
	}
	if err := RenderNoteTable(w, "Per-Note (All)", r.NoteAggsAll); err != nil {
		return err
	}
	if err := RenderNoteTable(w, fmt.Sprintf("Per-Note (Last %d)", len(r.WindowSessionIDs)), r.NoteAggsWindow); err != nil {
		return err
	}
	if top := TopNotesByFrequency(r.NoteAggsAll, 3); len(top) > 0 {
		if _, err := fmt.Fprintf(w, "Most practiced: %s\n", strings.Join(top, ", ")); err != nil {
			return err
		}
	}
	return nil
}

func sessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}

func lastSessionIDs(sessions []model.SessionAggregate, window int) []int64 {
	if window <= 0 || len(sessions) <= window {
		return sessionIDs(sessions)
	}
	return sessionIDs(sessions[len(sessions)-window:])
}
