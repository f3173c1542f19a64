package game

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/fretdrill/internal/render"
	"github.com/verte-zerg/fretdrill/internal/theory"
)

// modeState is the mode-specific half of a Session. Exactly one is active.
type modeState interface {
	mode() Mode
	newPrompt(s *Session)
	click(s *Session, pos theory.Position, note theory.PitchClass) Outcome
	// solution lists positions that would currently be credited.
	solution(s *Session) []theory.Position
	// mark is the persistent highlight of pos for the current prompt.
	mark(pos theory.Position) render.Feedback
	// tallyNote is the pitch class a wrong answer or a timeout is charged to.
	tallyNote() theory.PitchClass
	prompt() string
}

func newModeState(m Mode) modeState {
	switch m {
	case FindAll:
		return &findAllState{}
	case Triads:
		return &triadState{}
	default:
		return &singleNoteState{}
	}
}

type singleNoteState struct {
	target theory.PitchClass
}

func (st *singleNoteState) mode() Mode { return SingleNote }

func (st *singleNoteState) newPrompt(s *Session) {
	st.target = s.pickTarget()
}

func (st *singleNoteState) click(_ *Session, _ theory.Position, note theory.PitchClass) Outcome {
	if note == st.target {
		return Completed
	}
	return Wrong
}

func (st *singleNoteState) solution(s *Session) []theory.Position {
	return s.positionsOf(st.target)
}

func (st *singleNoteState) mark(theory.Position) render.Feedback { return render.Neutral }

func (st *singleNoteState) tallyNote() theory.PitchClass { return st.target }

func (st *singleNoteState) prompt() string {
	return fmt.Sprintf("Find %s", st.target)
}

type findAllState struct {
	target theory.PitchClass
	all    []theory.Position
	allSet map[theory.Position]struct{}
	found  map[theory.Position]struct{}
}

func (st *findAllState) mode() Mode { return FindAll }

func (st *findAllState) newPrompt(s *Session) {
	st.setTarget(s, s.pickTarget())
}

func (st *findAllState) setTarget(s *Session, target theory.PitchClass) {
	st.target = target
	st.all = s.positionsOf(target)
	st.allSet = make(map[theory.Position]struct{}, len(st.all))
	for _, p := range st.all {
		st.allSet[p] = struct{}{}
	}
	st.found = map[theory.Position]struct{}{}
}

func (st *findAllState) click(_ *Session, pos theory.Position, note theory.PitchClass) Outcome {
	if _, ok := st.found[pos]; ok {
		return AlreadyFound
	}
	if note != st.target {
		return Wrong
	}
	if _, ok := st.allSet[pos]; !ok {
		return Wrong
	}
	st.found[pos] = struct{}{}
	if len(st.found) == len(st.all) {
		return Completed
	}
	return Correct
}

func (st *findAllState) solution(*Session) []theory.Position {
	out := make([]theory.Position, 0, len(st.all)-len(st.found))
	for _, p := range st.all {
		if _, ok := st.found[p]; !ok {
			out = append(out, p)
		}
	}
	return out
}

func (st *findAllState) mark(pos theory.Position) render.Feedback {
	if _, ok := st.found[pos]; ok {
		return render.Correct
	}
	return render.Neutral
}

func (st *findAllState) tallyNote() theory.PitchClass { return st.target }

func (st *findAllState) prompt() string {
	return fmt.Sprintf("Find every %s (%d/%d)", st.target, len(st.found), len(st.all))
}

type triadState struct {
	target           theory.Triad
	clickedNotes     map[theory.PitchClass]struct{}
	clickedPositions []theory.Position
	rootHint         *theory.Position
}

func (st *triadState) mode() Mode { return Triads }

func (st *triadState) newPrompt(s *Session) {
	st.target = s.pickTriad()
	st.clickedNotes = map[theory.PitchClass]struct{}{}
	st.clickedPositions = nil
	st.rootHint = nil
	if !s.cfg.ShowTriadRootNote {
		return
	}
	hint, ok := theory.PickPosition(s.positionsOf(st.target.Root), s.rnd)
	if !ok {
		return
	}
	st.rootHint = &hint
	st.clickedNotes[st.target.Root] = struct{}{}
	st.clickedPositions = append(st.clickedPositions, hint)
}

func (st *triadState) click(_ *Session, pos theory.Position, note theory.PitchClass) Outcome {
	if st.rootHint != nil && *st.rootHint == pos {
		return AlreadyFound
	}
	if !st.target.Contains(note) {
		return Wrong
	}
	if _, ok := st.clickedNotes[note]; ok {
		return AlreadyFound
	}
	st.clickedNotes[note] = struct{}{}
	st.clickedPositions = append(st.clickedPositions, pos)
	if len(st.clickedNotes) == len(st.target.Notes()) {
		return Completed
	}
	return Correct
}

func (st *triadState) solution(s *Session) []theory.Position {
	var out []theory.Position
	for _, n := range st.target.Notes() {
		for _, p := range s.positionsOf(n) {
			if st.mark(p) == render.Neutral {
				out = append(out, p)
			}
		}
	}
	return out
}

func (st *triadState) mark(pos theory.Position) render.Feedback {
	if st.rootHint != nil && *st.rootHint == pos {
		return render.RootHint
	}
	for _, p := range st.clickedPositions {
		if p == pos {
			return render.Correct
		}
	}
	return render.Neutral
}

func (st *triadState) tallyNote() theory.PitchClass { return st.target.Root }

func (st *triadState) prompt() string {
	notes := st.target.Notes()
	names := make([]string, 0, len(notes))
	for _, n := range notes {
		if _, ok := st.clickedNotes[n]; ok {
			names = append(names, n.String())
		} else {
			names = append(names, "?")
		}
	}
	return fmt.Sprintf("Build %s [%s]", st.target, strings.Join(names, " "))
}
