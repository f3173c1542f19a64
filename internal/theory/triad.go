package theory

import (
	"fmt"
	"strings"
)

// TriadType names a three-note chord quality.
type TriadType int

const (
	Major TriadType = iota
	Minor
	Diminished
	Augmented
)

// AllTriadTypes lists every quality in menu order.
var AllTriadTypes = []TriadType{Major, Minor, Diminished, Augmented}

var triadIntervals = map[TriadType][3]int{
	Major:      {0, 4, 7},
	Minor:      {0, 3, 7},
	Diminished: {0, 3, 6},
	Augmented:  {0, 4, 8},
}

// Intervals returns the semitone offsets from the root, ascending, starting at 0.
func (t TriadType) Intervals() [3]int {
	return triadIntervals[t]
}

func (t TriadType) String() string {
	switch t {
	case Major:
		return "major"
	case Minor:
		return "minor"
	case Diminished:
		return "diminished"
	case Augmented:
		return "augmented"
	default:
		return fmt.Sprintf("TriadType(%d)", int(t))
	}
}

// ParseTriadType accepts the full name or a common abbreviation.
func ParseTriadType(s string) (TriadType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "major", "maj":
		return Major, nil
	case "minor", "min", "m":
		return Minor, nil
	case "diminished", "dim":
		return Diminished, nil
	case "augmented", "aug":
		return Augmented, nil
	default:
		return 0, fmt.Errorf("unknown triad type %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t TriadType) MarshalText() ([]byte, error) {
	if _, ok := triadIntervals[t]; !ok {
		return nil, fmt.Errorf("invalid triad type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TriadType) UnmarshalText(b []byte) error {
	parsed, err := ParseTriadType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Triad is a root plus a quality. Its notes are derived, never stored.
type Triad struct {
	Root PitchClass
	Type TriadType
}

// Notes returns root, third, and fifth.
func (t Triad) Notes() [3]PitchClass {
	iv := t.Type.Intervals()
	return [3]PitchClass{
		t.Root.Transpose(iv[0]),
		t.Root.Transpose(iv[1]),
		t.Root.Transpose(iv[2]),
	}
}

// Contains reports whether pc is one of the triad's notes.
func (t Triad) Contains(pc PitchClass) bool {
	for _, n := range t.Notes() {
		if n == pc {
			return true
		}
	}
	return false
}

func (t Triad) String() string {
	return t.Root.String() + " " + t.Type.String()
}
