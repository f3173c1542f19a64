// Package layout computes the logical fretboard grid and its normalized geometry.
package layout

import (
	"math"

	"github.com/verte-zerg/fretdrill/internal/theory"
)

// semitoneRatio is the equal-tempered frequency ratio between adjacent frets.
var semitoneRatio = math.Pow(2, 1.0/12)

var markerFrets = []int{3, 5, 7, 9, 12, 15, 17, 19, 21, 24}

// Rect is a rectangle in normalized neck coordinates: X runs nut to last fret, Y runs
// from the highest string lane to the lowest, both in 0..1.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// FretZone is one clickable (string, fret) unit.
type FretZone struct {
	Position theory.Position   `json:"position"`
	Bounds   Rect              `json:"bounds"`
	Note     theory.PitchClass `json:"note"`
	Enabled  bool              `json:"enabled"`
}

// Marker is an inlay position. Double markers get two dots.
type Marker struct {
	Fret   int  `json:"fret"`
	Double bool `json:"double"`
}

// rawFretPosition is the distance of wire n from the nut as a fraction of scale length.
func rawFretPosition(n int) float64 {
	return 1 - math.Pow(semitoneRatio, -float64(n))
}

// FretPositions returns the cumulative position of wires 0..maxFret-1, scaled so the
// nut sits at 0 and the last wire at 1.
func FretPositions(maxFret int) []float64 {
	if maxFret < 2 {
		return nil
	}
	span := rawFretPosition(maxFret - 1)
	out := make([]float64, maxFret)
	for n := 0; n < maxFret; n++ {
		out[n] = rawFretPosition(n) / span
	}
	out[maxFret-1] = 1
	return out
}

// FretSpacePercentages returns the width of each fret space (nut to fret 1 first) as a
// percentage of the playable span. The entries sum to 100 and strictly decrease.
func FretSpacePercentages(maxFret int) []float64 {
	if maxFret < 2 {
		return nil
	}
	span := rawFretPosition(maxFret - 1)
	out := make([]float64, maxFret-1)
	for n := 0; n < maxFret-1; n++ {
		out[n] = (rawFretPosition(n+1) - rawFretPosition(n)) / span * 100
	}
	return out
}

// Markers returns the inlay frets within [1, maxFret).
func Markers(maxFret int) []Marker {
	var out []Marker
	for _, f := range markerFrets {
		if f >= maxFret {
			break
		}
		out = append(out, Marker{Fret: f, Double: f%12 == 0})
	}
	return out
}

// BuildZones returns one zone per string and fret in [1, maxFret), string-major.
func BuildZones(t theory.Tuning, maxFret int, disabled theory.FretSet) []FretZone {
	positions := FretPositions(maxFret)
	if positions == nil {
		return nil
	}
	lane := 1.0 / theory.NumStrings
	zones := make([]FretZone, 0, theory.NumStrings*(maxFret-1))
	for s := 0; s < theory.NumStrings; s++ {
		for f := 1; f < maxFret; f++ {
			pos := theory.Position{StringIndex: s, Fret: f}
			zones = append(zones, FretZone{
				Position: pos,
				Bounds: Rect{
					X: positions[f-1],
					Y: float64(s) * lane,
					W: positions[f] - positions[f-1],
					H: lane,
				},
				Note:    theory.NoteAt(t, pos),
				Enabled: !disabled.Contains(f),
			})
		}
	}
	return zones
}

// ZoneAt finds the zone for pos.
func ZoneAt(zones []FretZone, pos theory.Position) (FretZone, bool) {
	for _, z := range zones {
		if z.Position == pos {
			return z, true
		}
	}
	return FretZone{}, false
}
