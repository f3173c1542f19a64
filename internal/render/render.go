// Package render defines what the game engine needs from a presentation layer.
package render

import (
	"github.com/verte-zerg/fretdrill/internal/layout"
	"github.com/verte-zerg/fretdrill/internal/theory"
)

// Feedback is the highlight applied to a zone.
type Feedback int

const (
	Neutral Feedback = iota
	Correct
	Wrong
	RootHint
	Solution
)

func (f Feedback) String() string {
	switch f {
	case Neutral:
		return "neutral"
	case Correct:
		return "correct"
	case Wrong:
		return "wrong"
	case RootHint:
		return "root-hint"
	case Solution:
		return "solution"
	default:
		return "unknown"
	}
}

// MessageKind classifies a transient message.
type MessageKind int

const (
	Success MessageKind = iota
	Error
	Info
)

// Adapter is implemented by a 2D view, a 3D scene, or a headless harness.
// Every call is fire-and-forget; the engine never reads state back.
type Adapter interface {
	RenderZones(zones []layout.FretZone)
	SetZoneFeedback(pos theory.Position, kind Feedback)
	OnZoneClicked(fn func(theory.Position))
	PlayTone(hz float64)
	ShowTransientMessage(kind MessageKind, text string)
}

// Null discards everything.
type Null struct{}

func (Null) RenderZones([]layout.FretZone) {}
func (Null) SetZoneFeedback(theory.Position, Feedback) {}
func (Null) OnZoneClicked(func(theory.Position)) {}
func (Null) PlayTone(float64) {}
func (Null) ShowTransientMessage(MessageKind, string) {}

type multi []Adapter

// Multi fans every call out to each adapter in order.
func Multi(adapters ...Adapter) Adapter {
	return multi(adapters)
}

func (m multi) RenderZones(zones []layout.FretZone) {
	for _, a := range m {
		a.RenderZones(zones)
	}
}

func (m multi) SetZoneFeedback(pos theory.Position, kind Feedback) {
	for _, a := range m {
		a.SetZoneFeedback(pos, kind)
	}
}

func (m multi) OnZoneClicked(fn func(theory.Position)) {
	for _, a := range m {
		a.OnZoneClicked(fn)
	}
}

func (m multi) PlayTone(hz float64) {
	for _, a := range m {
		a.PlayTone(hz)
	}
}

func (m multi) ShowTransientMessage(kind MessageKind, text string) {
	for _, a := range m {
		a.ShowTransientMessage(kind, text)
	}
}
