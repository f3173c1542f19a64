package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/verte-zerg/fretdrill/internal/layout"
	"github.com/verte-zerg/fretdrill/internal/model"
	"github.com/verte-zerg/fretdrill/internal/render"
	"github.com/verte-zerg/fretdrill/internal/schedule"
	"github.com/verte-zerg/fretdrill/internal/theory"
	"github.com/verte-zerg/fretdrill/internal/timer"
)

// maxPickAttempts bounds re-rolls for a target that only sits on disabled frets.
const maxPickAttempts = 64

// NotePicker chooses the next single-note or find-all target.
type NotePicker func(*rand.Rand) theory.PitchClass

// Options wires a Session to its collaborators.
type Options struct {
	Config    model.GameConfig
	Tuning    theory.Tuning
	MaxFret   int
	Adapter   render.Adapter
	Scheduler schedule.Scheduler
	Rand      *rand.Rand
	// NotePicker defaults to theory.RandomNote.
	NotePicker NotePicker
	// OnFinish receives the result when a mode is stopped.
	OnFinish func(Result)
	Now      func() time.Time
}

// Session owns the state of the active game mode.
type Session struct {
	cfg      model.GameConfig
	tuning   theory.Tuning
	maxFret  int
	adapter  render.Adapter
	sched    schedule.Scheduler
	rnd      *rand.Rand
	pick     NotePicker
	onFinish func(Result)
	now      func() time.Time

	zones     []layout.FretZone
	disabled  theory.FretSet
	countdown *timer.Countdown

	state            modeState
	active           bool
	score            int
	errCount         int
	correct          int
	firstInteraction bool
	firstPrompt      bool
	advancing        bool
	showSolution     bool
	startedAt        time.Time
	tally            map[theory.PitchClass]*NoteTally

	marks   map[theory.Position]render.Feedback
	clears  map[theory.Position]schedule.Handle
	tick    schedule.Handle
	advance schedule.Handle
}

// New builds an idle session and subscribes it to the adapter's click events.
func New(opts Options) *Session {
	if opts.MaxFret == 0 {
		opts.MaxFret = theory.DefaultMaxFret
	}
	if opts.Adapter == nil {
		opts.Adapter = render.Null{}
	}
	if opts.Scheduler == nil {
		opts.Scheduler = schedule.NewQueue()
	}
	if opts.Rand == nil {
		opts.Rand = theory.NewRand(0)
	}
	if opts.NotePicker == nil {
		opts.NotePicker = theory.RandomNote
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Session{
		cfg:       opts.Config,
		tuning:    opts.Tuning,
		maxFret:   opts.MaxFret,
		adapter:   opts.Adapter,
		sched:     opts.Scheduler,
		rnd:       opts.Rand,
		pick:      opts.NotePicker,
		onFinish:  opts.OnFinish,
		now:       opts.Now,
		countdown: timer.New(false, model.DefaultTimeLimitSeconds),
		marks:     map[theory.Position]render.Feedback{},
		clears:    map[theory.Position]schedule.Handle{},
	}
	s.adapter.OnZoneClicked(func(pos theory.Position) {
		s.Click(pos)
	})
	return s
}

// Configure replaces the settings used by the next Start. A running mode keeps
// its settings until it is restarted.
func (s *Session) Configure(cfg model.GameConfig) {
	s.cfg = cfg
}

// SetNotePicker replaces the target picker for subsequent prompts.
func (s *Session) SetNotePicker(p NotePicker) {
	if p == nil {
		p = theory.RandomNote
	}
	s.pick = p
}

// Start validates the settings and begins mode. Any previous mode is discarded
// without reporting a result.
func (s *Session) Start(m Mode) error {
	if err := s.cfg.Validate(s.maxFret); err != nil {
		return fmt.Errorf("cannot start %s: %w", m.Title(), err)
	}
	s.teardown()

	s.disabled = s.cfg.DisabledSet()
	s.zones = layout.BuildZones(s.tuning, s.maxFret, s.disabled)
	s.adapter.RenderZones(s.zones)

	s.score = 0
	s.errCount = 0
	s.correct = 0
	s.firstInteraction = true
	s.firstPrompt = true
	s.advancing = false
	s.showSolution = false
	s.startedAt = s.now()
	s.tally = map[theory.PitchClass]*NoteTally{}

	s.countdown.Configure(s.cfg.TimeLimitEnabled, s.cfg.TimeLimitSeconds)
	s.countdown.ArmForFirstPrompt()

	s.state = newModeState(m)
	s.active = true
	s.state.newPrompt(s)
	s.refreshMarks()
	return nil
}

// Stop leaves the active mode, cancels everything it scheduled, and reports the result.
func (s *Session) Stop() (Result, bool) {
	if !s.active {
		return Result{}, false
	}
	res := s.result()
	s.teardown()
	s.active = false
	if s.onFinish != nil {
		s.onFinish(res)
	}
	return res, true
}

// Click evaluates a click on pos.
func (s *Session) Click(pos theory.Position) Outcome {
	if !s.active || s.advancing {
		return Ignored
	}
	if !s.onNeck(pos) {
		return Rejected
	}
	if s.disabled.Contains(pos.Fret) {
		s.adapter.ShowTransientMessage(render.Info, fmt.Sprintf("Fret %d is disabled", pos.Fret))
		return Rejected
	}

	note := theory.NoteAt(s.tuning, pos)
	outcome := s.state.click(s, pos, note)
	switch outcome {
	case AlreadyFound:
		s.adapter.ShowTransientMessage(render.Info, fmt.Sprintf("%s already found", note))
	case Wrong:
		s.noteInteraction()
		s.adapter.PlayTone(theory.FrequencyAt(s.tuning, pos))
		s.errCount++
		s.tallyFor(s.state.tallyNote()).Wrong++
		s.flashWrong(pos)
		s.adapter.ShowTransientMessage(render.Error, fmt.Sprintf("Wrong, that's %s", note))
	case Correct:
		s.noteInteraction()
		s.adapter.PlayTone(theory.FrequencyAt(s.tuning, pos))
		s.correct++
		s.tallyFor(note).Correct++
		s.setFeedback(pos, render.Correct)
		s.adapter.ShowTransientMessage(render.Success, s.progressMessage(note))
	case Completed:
		s.firstInteraction = false
		s.adapter.PlayTone(theory.FrequencyAt(s.tuning, pos))
		s.correct++
		s.tallyFor(note).Correct++
		s.setFeedback(pos, render.Correct)
		s.completePrompt(note)
	}
	return outcome
}

// ToggleSolution shows or hides every position that would currently be credited.
// It never changes score, errors, or found state.
func (s *Session) ToggleSolution() {
	if !s.active {
		return
	}
	s.showSolution = !s.showSolution
	s.refreshMarks()
}

// SetTargetNote forces the current single-note or find-all target. It counts as a
// new prompt: pending actions are cancelled and the countdown restarts with full time.
func (s *Session) SetTargetNote(pc theory.PitchClass) error {
	if !s.active {
		return fmt.Errorf("no active mode")
	}
	switch s.state.(type) {
	case *singleNoteState, *findAllState:
	default:
		return fmt.Errorf("%s has no single target note", s.state.mode().Title())
	}
	s.cancelPending()
	s.clearMarks()
	s.advancing = false
	switch st := s.state.(type) {
	case *singleNoteState:
		st.target = pc
	case *findAllState:
		st.setTarget(s, pc)
	}
	// Before the first scored click the countdown keeps waiting for it.
	s.countdown.Reset(s.firstInteraction)
	if s.countdown.Running() {
		s.scheduleTick()
	}
	s.refreshMarks()
	return nil
}

// Active reports whether a mode is running.
func (s *Session) Active() bool { return s.active }

// Mode returns the running mode.
func (s *Session) Mode() Mode {
	if s.state == nil {
		return SingleNote
	}
	return s.state.mode()
}

// Score returns the points earned in this session.
func (s *Session) Score() int { return s.score }

// Errors returns wrong clicks plus timeouts.
func (s *Session) Errors() int { return s.errCount }

// FirstInteraction reports whether the learner has yet to click in this session.
func (s *Session) FirstInteraction() bool { return s.firstInteraction }

// TimeRemaining returns the seconds left on the current prompt.
func (s *Session) TimeRemaining() int { return s.countdown.Remaining() }

// TimerState returns the countdown lifecycle state.
func (s *Session) TimerState() timer.State { return s.countdown.State() }

// TimeLimited reports whether the countdown is enabled.
func (s *Session) TimeLimited() bool { return s.countdown.Enabled() }

// Advancing reports whether the next prompt is about to appear.
func (s *Session) Advancing() bool { return s.advancing }

// ShowingSolution reports whether the solution overlay is on.
func (s *Session) ShowingSolution() bool { return s.showSolution }

// Config returns the settings the session runs with.
func (s *Session) Config() model.GameConfig { return s.cfg }

// Tuning returns the tuning the session runs with.
func (s *Session) Tuning() theory.Tuning { return s.tuning }

// MaxFret returns the exclusive upper fret bound.
func (s *Session) MaxFret() int { return s.maxFret }

// Zones returns the layout rendered for the running mode.
func (s *Session) Zones() []layout.FretZone { return s.zones }

// Feedback returns the highlight the session last applied to pos.
func (s *Session) Feedback(pos theory.Position) render.Feedback { return s.marks[pos] }

// Prompt describes the current task.
func (s *Session) Prompt() string {
	if !s.active {
		return ""
	}
	return s.state.prompt()
}

// TargetNote returns the single-note or find-all target.
func (s *Session) TargetNote() (theory.PitchClass, bool) {
	switch st := s.state.(type) {
	case *singleNoteState:
		return st.target, s.active
	case *findAllState:
		return st.target, s.active
	default:
		return 0, false
	}
}

// TargetTriad returns the triad to build.
func (s *Session) TargetTriad() (theory.Triad, bool) {
	if st, ok := s.state.(*triadState); ok && s.active {
		return st.target, true
	}
	return theory.Triad{}, false
}

// AllPositions returns every position of the find-all target.
func (s *Session) AllPositions() []theory.Position {
	if st, ok := s.state.(*findAllState); ok {
		return append([]theory.Position(nil), st.all...)
	}
	return nil
}

// Found returns the find-all positions found so far, string-major.
func (s *Session) Found() []theory.Position {
	st, ok := s.state.(*findAllState)
	if !ok {
		return nil
	}
	var out []theory.Position
	for _, p := range st.all {
		if _, ok := st.found[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// ClickedNotes returns the triad pitch classes credited so far, in triad order.
func (s *Session) ClickedNotes() []theory.PitchClass {
	st, ok := s.state.(*triadState)
	if !ok {
		return nil
	}
	var out []theory.PitchClass
	for _, n := range st.target.Notes() {
		if _, ok := st.clickedNotes[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

// ClickedPositions returns the triad positions credited so far, in click order.
func (s *Session) ClickedPositions() []theory.Position {
	if st, ok := s.state.(*triadState); ok {
		return append([]theory.Position(nil), st.clickedPositions...)
	}
	return nil
}

// RootHint returns the pre-marked root position, if the hint is on.
func (s *Session) RootHint() (theory.Position, bool) {
	if st, ok := s.state.(*triadState); ok && st.rootHint != nil {
		return *st.rootHint, true
	}
	return theory.Position{}, false
}

// Solution returns the positions the solution overlay highlights.
func (s *Session) Solution() []theory.Position {
	if !s.active {
		return nil
	}
	return s.state.solution(s)
}

func (s *Session) onNeck(pos theory.Position) bool {
	return pos.StringIndex >= 0 && pos.StringIndex < theory.NumStrings && pos.Fret >= 1 && pos.Fret < s.maxFret
}

func (s *Session) positionsOf(pc theory.PitchClass) []theory.Position {
	return theory.AllPositions(s.tuning, s.maxFret, s.disabled, pc)
}

// pickTarget draws a target note that is reachable on an enabled fret.
func (s *Session) pickTarget() theory.PitchClass {
	pc := s.pick(s.rnd)
	for i := 0; i < maxPickAttempts && len(s.positionsOf(pc)) == 0; i++ {
		pc = s.pick(s.rnd)
	}
	return pc
}

// pickTriad draws a triad whose three notes are all reachable on enabled frets.
func (s *Session) pickTriad() theory.Triad {
	tr := theory.RandomTriad(s.cfg.TriadTypes, s.rnd)
	for i := 0; i < maxPickAttempts && !s.reachable(tr); i++ {
		tr = theory.RandomTriad(s.cfg.TriadTypes, s.rnd)
	}
	return tr
}

func (s *Session) reachable(tr theory.Triad) bool {
	for _, n := range tr.Notes() {
		if len(s.positionsOf(n)) == 0 {
			return false
		}
	}
	return true
}

// noteInteraction starts the countdown on the session's first scored click.
func (s *Session) noteInteraction() {
	if !s.firstInteraction {
		return
	}
	s.firstInteraction = false
	if s.countdown.NotifyFirstInteraction() {
		s.scheduleTick()
	}
}

func (s *Session) scheduleTick() {
	s.sched.Cancel(s.tick)
	s.tick = s.sched.Schedule(TickInterval, s.onTick)
}

func (s *Session) onTick() {
	s.tick = 0
	if !s.active || !s.countdown.Running() {
		return
	}
	if !s.countdown.Tick() {
		s.scheduleTick()
		return
	}
	s.errCount++
	s.tallyFor(s.state.tallyNote()).Wrong++
	s.adapter.ShowTransientMessage(render.Error, "Time's up! "+s.reveal())
	s.nextPrompt()
}

func (s *Session) completePrompt(note theory.PitchClass) {
	s.sched.Cancel(s.tick)
	s.tick = 0
	s.countdown.Cancel()
	switch s.state.mode() {
	case SingleNote:
		s.score += SingleNotePoints
		s.adapter.ShowTransientMessage(render.Success, fmt.Sprintf("Correct! That's %s", note))
	case FindAll:
		s.score += FindAllBonus
		s.adapter.ShowTransientMessage(render.Success, fmt.Sprintf("Found every %s! +%d", note, FindAllBonus))
	case Triads:
		s.score += TriadPoints
		st := s.state.(*triadState)
		s.adapter.ShowTransientMessage(render.Success, fmt.Sprintf("%s complete!", st.target))
	}
	s.advancing = true
	s.advance = s.sched.Schedule(AdvanceDelay, func() {
		s.advance = 0
		s.nextPrompt()
	})
}

// nextPrompt replaces the prompt. The countdown restarts immediately: only the
// session's first prompt waits for a click.
func (s *Session) nextPrompt() {
	s.cancelPending()
	s.clearMarks()
	s.advancing = false
	s.firstPrompt = false
	s.state.newPrompt(s)
	s.countdown.Reset(s.firstPrompt)
	if s.countdown.Running() {
		s.scheduleTick()
	}
	s.refreshMarks()
}

func (s *Session) reveal() string {
	switch st := s.state.(type) {
	case *triadState:
		notes := st.target.Notes()
		return fmt.Sprintf("%s is %s %s %s", st.target, notes[0], notes[1], notes[2])
	default:
		return fmt.Sprintf("It was %s", s.state.tallyNote())
	}
}

func (s *Session) progressMessage(note theory.PitchClass) string {
	switch st := s.state.(type) {
	case *findAllState:
		return fmt.Sprintf("Found %s (%d of %d)", note, len(st.found), len(st.all))
	case *triadState:
		return fmt.Sprintf("Found %s (%d of 3)", note, len(st.clickedNotes))
	default:
		return fmt.Sprintf("Found %s", note)
	}
}

func (s *Session) flashWrong(pos theory.Position) {
	s.setFeedback(pos, render.Wrong)
	s.sched.Cancel(s.clears[pos])
	s.clears[pos] = s.sched.Schedule(FeedbackClearDelay, func() {
		delete(s.clears, pos)
		s.setFeedback(pos, s.baseFeedback(pos))
	})
}

func (s *Session) baseFeedback(pos theory.Position) render.Feedback {
	if s.state == nil {
		return render.Neutral
	}
	if m := s.state.mark(pos); m != render.Neutral {
		return m
	}
	if s.showSolution {
		for _, p := range s.state.solution(s) {
			if p == pos {
				return render.Solution
			}
		}
	}
	return render.Neutral
}

func (s *Session) setFeedback(pos theory.Position, kind render.Feedback) {
	if kind == render.Neutral {
		if _, ok := s.marks[pos]; !ok {
			return
		}
		delete(s.marks, pos)
	} else {
		s.marks[pos] = kind
	}
	s.adapter.SetZoneFeedback(pos, kind)
}

// refreshMarks reapplies the persistent highlights of the current prompt,
// leaving wrong-click flashes that are still pending alone.
func (s *Session) refreshMarks() {
	want := map[theory.Position]render.Feedback{}
	for _, z := range s.zones {
		if m := s.state.mark(z.Position); m != render.Neutral {
			want[z.Position] = m
		}
	}
	if s.showSolution {
		for _, p := range s.state.solution(s) {
			if _, ok := want[p]; !ok {
				want[p] = render.Solution
			}
		}
	}
	for pos := range s.marks {
		if _, flashing := s.clears[pos]; flashing {
			continue
		}
		if _, ok := want[pos]; !ok {
			s.setFeedback(pos, render.Neutral)
		}
	}
	for pos, kind := range want {
		if _, flashing := s.clears[pos]; flashing {
			continue
		}
		if s.marks[pos] != kind {
			s.setFeedback(pos, kind)
		}
	}
}

func (s *Session) clearMarks() {
	for pos := range s.marks {
		s.adapter.SetZoneFeedback(pos, render.Neutral)
	}
	s.marks = map[theory.Position]render.Feedback{}
}

func (s *Session) cancelPending() {
	s.sched.Cancel(s.tick)
	s.tick = 0
	s.sched.Cancel(s.advance)
	s.advance = 0
	for pos, h := range s.clears {
		s.sched.Cancel(h)
		delete(s.clears, pos)
	}
}

func (s *Session) teardown() {
	s.cancelPending()
	s.clearMarks()
	s.countdown.Stop()
	s.advancing = false
}

func (s *Session) tallyFor(pc theory.PitchClass) *NoteTally {
	t, ok := s.tally[pc]
	if !ok {
		t = &NoteTally{}
		s.tally[pc] = t
	}
	return t
}

func (s *Session) result() Result {
	notes := make(map[theory.PitchClass]NoteTally, len(s.tally))
	for pc, t := range s.tally {
		notes[pc] = *t
	}
	return Result{
		Mode:      s.state.mode(),
		Score:     s.score,
		Errors:    s.errCount,
		Correct:   s.correct,
		StartedAt: s.startedAt,
		EndedAt:   s.now(),
		Notes:     notes,
	}
}
