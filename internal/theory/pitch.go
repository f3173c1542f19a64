// Package theory maps fretboard positions to notes, frequencies, and triads.
package theory

import (
	"fmt"
	"strings"
)

// PitchClass is an octave-independent note, C=0 through B=11.
type PitchClass int

// Pitch classes in chromatic order.
const (
	C PitchClass = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

// NumPitchClasses is the size of the chromatic scale.
const NumPitchClasses = 12

var pitchNames = [NumPitchClasses]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var flatNames = map[string]PitchClass{
	"DB": CSharp,
	"EB": DSharp,
	"GB": FSharp,
	"AB": GSharp,
	"BB": ASharp,
	"CB": B,
	"FB": E,
}

// Normalize wraps any integer into the 0..11 range.
func Normalize(n int) PitchClass {
	n %= NumPitchClasses
	if n < 0 {
		n += NumPitchClasses
	}
	return PitchClass(n)
}

// Transpose returns the pitch class the given number of semitones away.
func (p PitchClass) Transpose(semitones int) PitchClass {
	return Normalize(int(p) + semitones)
}

// String returns the sharp spelling of the pitch class.
func (p PitchClass) String() string {
	return pitchNames[Normalize(int(p))]
}

// ParsePitchClass accepts sharp or flat spellings, case-insensitive.
func ParsePitchClass(s string) (PitchClass, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "" {
		return 0, fmt.Errorf("pitch class is empty")
	}
	for i, n := range pitchNames {
		if n == name {
			return PitchClass(i), nil
		}
	}
	if pc, ok := flatNames[name]; ok {
		return pc, nil
	}
	return 0, fmt.Errorf("unknown pitch class %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p PitchClass) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PitchClass) UnmarshalText(b []byte) error {
	parsed, err := ParsePitchClass(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
