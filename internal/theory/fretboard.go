package theory

import (
	"fmt"
	"math"
)

// NumStrings is the number of strings the engine works with.
const NumStrings = 6

// DefaultMaxFret bounds play to frets 1..22.
const DefaultMaxFret = 23

// Position identifies one playable location. String 0 is the highest-pitched string.
type Position struct {
	StringIndex int `json:"string"`
	Fret        int `json:"fret"`
}

func (p Position) String() string {
	return fmt.Sprintf("string %d fret %d", p.StringIndex+1, p.Fret)
}

// OpenString describes one string at fret 0.
type OpenString struct {
	Open          PitchClass `json:"open"`
	BaseFrequency float64    `json:"base_frequency"`
}

// Tuning lists the open strings from highest to lowest pitch.
type Tuning [NumStrings]OpenString

// StandardTuning returns E4 B3 G3 D3 A2 E2.
func StandardTuning() Tuning {
	return Tuning{
		{Open: E, BaseFrequency: 329.63},
		{Open: B, BaseFrequency: 246.94},
		{Open: G, BaseFrequency: 196.00},
		{Open: D, BaseFrequency: 146.83},
		{Open: A, BaseFrequency: 110.00},
		{Open: E, BaseFrequency: 82.41},
	}
}

// NoteAt returns the pitch class sounding at pos.
func NoteAt(t Tuning, pos Position) PitchClass {
	return t[pos.StringIndex].Open.Transpose(pos.Fret)
}

// FrequencyAt returns the equal-tempered frequency in Hz sounding at pos.
func FrequencyAt(t Tuning, pos Position) float64 {
	return t[pos.StringIndex].BaseFrequency * math.Pow(2, float64(pos.Fret)/12)
}

// FretSet is a set of frets excluded from play.
type FretSet map[int]struct{}

// FretRange builds the inclusive set [from, to]. Bounds may be given in either order.
func FretRange(from, to int) FretSet {
	if from > to {
		from, to = to, from
	}
	set := make(FretSet, to-from+1)
	for f := from; f <= to; f++ {
		set[f] = struct{}{}
	}
	return set
}

// Contains reports whether fret is in the set. A nil set contains nothing.
func (s FretSet) Contains(fret int) bool {
	_, ok := s[fret]
	return ok
}

// AllPositions enumerates every playable position producing target, string-major
// with frets ascending. Fret 0 is never playable and disabled frets are skipped.
func AllPositions(t Tuning, maxFret int, disabled FretSet, target PitchClass) []Position {
	var out []Position
	for s := 0; s < NumStrings; s++ {
		for f := 1; f < maxFret; f++ {
			if disabled.Contains(f) {
				continue
			}
			pos := Position{StringIndex: s, Fret: f}
			if NoteAt(t, pos) == target {
				out = append(out, pos)
			}
		}
	}
	return out
}
