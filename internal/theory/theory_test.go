package theory

import (
	"math"
	"reflect"
	"testing"
)

func TestNoteAtPeriodic(t *testing.T) {
	tuning := StandardTuning()
	for s := 0; s < NumStrings; s++ {
		for f := 0; f < 23; f++ {
			a := NoteAt(tuning, Position{StringIndex: s, Fret: f})
			b := NoteAt(tuning, Position{StringIndex: s, Fret: f + 12})
			if a != b {
				t.Fatalf("string %d fret %d: %s != %s an octave up", s, f, a, b)
			}
		}
	}
}

func TestNoteAtStandardTuning(t *testing.T) {
	tuning := StandardTuning()
	cases := []struct {
		pos  Position
		want PitchClass
	}{
		{Position{StringIndex: 0, Fret: 0}, E},
		{Position{StringIndex: 0, Fret: 8}, C},
		{Position{StringIndex: 1, Fret: 1}, C},
		{Position{StringIndex: 2, Fret: 2}, A},
		{Position{StringIndex: 5, Fret: 5}, A},
		{Position{StringIndex: 4, Fret: 12}, A},
	}
	for _, tc := range cases {
		if got := NoteAt(tuning, tc.pos); got != tc.want {
			t.Fatalf("%v: expected %s, got %s", tc.pos, tc.want, got)
		}
	}
}

func TestFrequencyAtOctaveDoubling(t *testing.T) {
	tuning := StandardTuning()
	for s := 0; s < NumStrings; s++ {
		for f := 0; f < 12; f++ {
			low := FrequencyAt(tuning, Position{StringIndex: s, Fret: f})
			high := FrequencyAt(tuning, Position{StringIndex: s, Fret: f + 12})
			if math.Abs(high-2*low) > 1e-9 {
				t.Fatalf("string %d fret %d: %v is not double %v", s, f, high, low)
			}
		}
	}
	if got := FrequencyAt(tuning, Position{StringIndex: 4, Fret: 0}); got != 110.0 {
		t.Fatalf("expected open A at 110Hz, got %v", got)
	}
}

func TestAllPositionsC(t *testing.T) {
	got := AllPositions(StandardTuning(), DefaultMaxFret, nil, C)
	want := []Position{
		{0, 8}, {0, 20},
		{1, 1}, {1, 13},
		{2, 5}, {2, 17},
		{3, 10}, {3, 22},
		{4, 3}, {4, 15},
		{5, 8}, {5, 20},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected positions:\n got %v\nwant %v", got, want)
	}
	for _, pos := range got {
		if NoteAt(StandardTuning(), pos) != C {
			t.Fatalf("%v does not sound C", pos)
		}
	}
}

func TestAllPositionsSkipsDisabled(t *testing.T) {
	disabled := FretRange(1, 5)
	for pc := 0; pc < NumPitchClasses; pc++ {
		for _, pos := range AllPositions(StandardTuning(), DefaultMaxFret, disabled, PitchClass(pc)) {
			if pos.Fret >= 1 && pos.Fret <= 5 {
				t.Fatalf("disabled position %v returned for %s", pos, PitchClass(pc))
			}
		}
	}
	all := AllPositions(StandardTuning(), DefaultMaxFret, nil, C)
	kept := AllPositions(StandardTuning(), DefaultMaxFret, disabled, C)
	if len(all)-len(kept) != 3 {
		t.Fatalf("expected 3 C positions on frets 1-5, removed %d", len(all)-len(kept))
	}
}

func TestFretRangeOrder(t *testing.T) {
	set := FretRange(7, 4)
	for f := 4; f <= 7; f++ {
		if !set.Contains(f) {
			t.Fatalf("expected fret %d in range", f)
		}
	}
	if set.Contains(3) || set.Contains(8) {
		t.Fatalf("range leaked outside bounds: %v", set)
	}
	var empty FretSet
	if empty.Contains(1) {
		t.Fatalf("nil set should be empty")
	}
}

func TestRandomTriadIntervals(t *testing.T) {
	rnd := NewRand(7)
	for _, typ := range AllTriadTypes {
		for i := 0; i < 50; i++ {
			tr := RandomTriad([]TriadType{typ}, rnd)
			if tr.Type != typ {
				t.Fatalf("expected %s, got %s", typ, tr.Type)
			}
			notes := tr.Notes()
			iv := typ.Intervals()
			if iv[0] != 0 || iv[0] >= iv[1] || iv[1] >= iv[2] {
				t.Fatalf("intervals for %s not ascending from 0: %v", typ, iv)
			}
			for j, n := range notes {
				diff := int(Normalize(int(n) - int(tr.Root)))
				if diff != iv[j] {
					t.Fatalf("%s: note %d is %d semitones from root, want %d", tr, j, diff, iv[j])
				}
			}
		}
	}
}

func TestRandomTriadEmptyFallsBackToMajor(t *testing.T) {
	rnd := NewRand(3)
	for i := 0; i < 20; i++ {
		if tr := RandomTriad(nil, rnd); tr.Type != Major {
			t.Fatalf("expected major fallback, got %s", tr.Type)
		}
	}
}

func TestRandomNoteCoversAllClasses(t *testing.T) {
	rnd := NewRand(11)
	seen := map[PitchClass]bool{}
	for i := 0; i < 1000; i++ {
		pc := RandomNote(rnd)
		if pc < 0 || pc >= NumPitchClasses {
			t.Fatalf("out of range pitch class %d", pc)
		}
		seen[pc] = true
	}
	if len(seen) != NumPitchClasses {
		t.Fatalf("expected all 12 classes, saw %d", len(seen))
	}
}

func TestWeightedNoteFavorsWeak(t *testing.T) {
	rnd := NewRand(5)
	weak := map[PitchClass]struct{}{FSharp: {}}
	hits := 0
	const draws = 2000
	for i := 0; i < draws; i++ {
		if WeightedNote(rnd, weak, 10) == FSharp {
			hits++
		}
	}
	// Expected share is 11/22.
	if hits < draws/3 {
		t.Fatalf("weak note drawn %d of %d times", hits, draws)
	}
}

func TestParsePitchClass(t *testing.T) {
	cases := map[string]PitchClass{"c": C, "C#": CSharp, "db": CSharp, "Bb": ASharp, " g ": G}
	for in, want := range cases {
		got, err := ParsePitchClass(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", in, want, got)
		}
	}
	if _, err := ParsePitchClass("H"); err == nil {
		t.Fatalf("expected error for H")
	}
}

func TestTriadTypeText(t *testing.T) {
	for _, typ := range AllTriadTypes {
		b, err := typ.MarshalText()
		if err != nil {
			t.Fatalf("marshal %s: %v", typ, err)
		}
		var got TriadType
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if got != typ {
			t.Fatalf("expected %s, got %s", typ, got)
		}
	}
}

func TestPitchClassText(t *testing.T) {
	for i := 0; i < NumPitchClasses; i++ {
		pc := PitchClass(i)
		b, err := pc.MarshalText()
		if err != nil {
			t.Fatalf("marshal %d: %v", i, err)
		}
		if string(b) != pc.String() {
			t.Fatalf("expected %s, got %s", pc, b)
		}
		var got PitchClass
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if got != pc {
			t.Fatalf("expected %s, got %s", pc, got)
		}
	}
	var pc PitchClass
	if err := pc.UnmarshalText([]byte("Eb")); err != nil || pc != DSharp {
		t.Fatalf("expected flat spelling to parse as D#, got %s (%v)", pc, err)
	}
	if err := pc.UnmarshalText([]byte("H")); err == nil {
		t.Fatalf("expected error for H")
	}
}
