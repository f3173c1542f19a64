package render

import (
	"testing"

	"github.com/verte-zerg/fretdrill/internal/theory"
)

func TestMultiFansOut(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	m := Multi(a, b, Null{})
	pos := theory.Position{StringIndex: 2, Fret: 7}
	m.SetZoneFeedback(pos, Correct)
	m.PlayTone(440)
	m.ShowTransientMessage(Success, "ok")
	for _, r := range []*Recorder{a, b} {
		if r.FeedbackAt(pos) != Correct {
			t.Fatalf("expected correct feedback, got %s", r.FeedbackAt(pos))
		}
		if len(r.Tones) != 1 || r.Tones[0] != 440 {
			t.Fatalf("unexpected tones %v", r.Tones)
		}
		if msg, ok := r.LastMessage(); !ok || msg.Text != "ok" {
			t.Fatalf("unexpected message %+v", msg)
		}
	}
}

func TestRecorderNeutralClears(t *testing.T) {
	r := NewRecorder()
	pos := theory.Position{StringIndex: 0, Fret: 1}
	r.SetZoneFeedback(pos, Wrong)
	r.SetZoneFeedback(pos, Neutral)
	if r.Count(Wrong) != 0 || r.FeedbackAt(pos) != Neutral {
		t.Fatalf("expected neutral after clearing")
	}
}

func TestRecorderClick(t *testing.T) {
	r := NewRecorder()
	var got []theory.Position
	r.OnZoneClicked(func(p theory.Position) { got = append(got, p) })
	r.Click(theory.Position{StringIndex: 1, Fret: 3})
	if len(got) != 1 || got[0].Fret != 3 {
		t.Fatalf("unexpected clicks %v", got)
	}
}
