package render

import (
	"github.com/verte-zerg/fretdrill/internal/layout"
	"github.com/verte-zerg/fretdrill/internal/theory"
)

// Message is a recorded transient message.
type Message struct {
	Kind MessageKind
	Text string
}

// Recorder is a headless adapter that keeps everything the engine sends it.
type Recorder struct {
	Zones    []layout.FretZone
	Renders  int
	Feedback map[theory.Position]Feedback
	Tones    []float64
	Messages []Message

	onClick []func(theory.Position)
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{Feedback: map[theory.Position]Feedback{}}
}

func (r *Recorder) RenderZones(zones []layout.FretZone) {
	r.Zones = zones
	r.Renders++
}

func (r *Recorder) SetZoneFeedback(pos theory.Position, kind Feedback) {
	if kind == Neutral {
		delete(r.Feedback, pos)
		return
	}
	r.Feedback[pos] = kind
}

func (r *Recorder) OnZoneClicked(fn func(theory.Position)) {
	r.onClick = append(r.onClick, fn)
}

func (r *Recorder) PlayTone(hz float64) {
	r.Tones = append(r.Tones, hz)
}

func (r *Recorder) ShowTransientMessage(kind MessageKind, text string) {
	r.Messages = append(r.Messages, Message{Kind: kind, Text: text})
}

// Click delivers an input event to every subscriber.
func (r *Recorder) Click(pos theory.Position) {
	for _, fn := range r.onClick {
		fn(pos)
	}
}

// FeedbackAt returns the current highlight of pos.
func (r *Recorder) FeedbackAt(pos theory.Position) Feedback {
	return r.Feedback[pos]
}

// Count returns how many zones currently carry kind.
func (r *Recorder) Count(kind Feedback) int {
	n := 0
	for _, k := range r.Feedback {
		if k == kind {
			n++
		}
	}
	return n
}

// LastMessage returns the most recent message, if any.
func (r *Recorder) LastMessage() (Message, bool) {
	if len(r.Messages) == 0 {
		return Message{}, false
	}
	return r.Messages[len(r.Messages)-1], true
}
