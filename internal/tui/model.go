// Package tui provides the Bubble Tea fretboard trainer.
package tui

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/fretdrill/internal/config"
	"github.com/verte-zerg/fretdrill/internal/game"
	"github.com/verte-zerg/fretdrill/internal/layout"
	"github.com/verte-zerg/fretdrill/internal/model"
	"github.com/verte-zerg/fretdrill/internal/render"
	"github.com/verte-zerg/fretdrill/internal/schedule"
	statsPkg "github.com/verte-zerg/fretdrill/internal/stats"
	"github.com/verte-zerg/fretdrill/internal/theory"
	"github.com/verte-zerg/fretdrill/internal/timer"
)

// messageTTL is how long a transient message stays on screen.
const messageTTL = 2 * time.Second

// SessionStore is the part of the history store the TUI writes to.
type SessionStore interface {
	InsertSession(ctx context.Context, stats model.SessionStats, notes []model.NoteStats) (int64, error)
	GetWeakNotes(ctx context.Context, window int, mode string) ([]model.NoteAggregate, error)
}

// WeakFocus configures weighted target selection.
type WeakFocus struct {
	Top    int
	Factor float64
	Window int
}

// Options wires the TUI to its collaborators.
type Options struct {
	Settings *config.Settings
	// Store is nil when history is disabled.
	Store   SessionStore
	Tuning  theory.Tuning
	MaxFret int
	Rand    *rand.Rand
	// Audio receives engine calls alongside the screen, typically an audio.Player.
	Audio render.Adapter
	Weak  WeakFocus
	// StartMode, when set, skips the menu.
	StartMode *game.Mode
}

type screen int

const (
	menuScreen screen = iota
	gameScreen
)

type transient struct {
	kind  render.MessageKind
	text  string
	clear schedule.Handle
}

// Model implements tea.Model and render.Adapter.
type Model struct {
	settings *config.Settings
	store    SessionStore
	queue    *schedule.Queue
	session  *game.Session
	tuning   theory.Tuning
	maxFret  int
	weakCfg  WeakFocus
	weak     map[theory.PitchClass]struct{}

	keys     KeyMap
	help     help.Model
	showHelp bool

	screen     screen
	menuCursor menuItem
	last       *game.Result

	zones    []layout.FretZone
	feedback map[theory.Position]render.Feedback
	onClick  []func(theory.Position)
	cursor   theory.Position
	message  *transient

	width  int
	height int
}

var _ render.Adapter = (*Model)(nil)

// NewModel builds the TUI and its game session.
func NewModel(opts Options) *Model {
	if opts.MaxFret == 0 {
		opts.MaxFret = theory.DefaultMaxFret
	}
	m := &Model{
		settings: opts.Settings,
		store:    opts.Store,
		queue:    schedule.NewQueue(),
		tuning:   opts.Tuning,
		maxFret:  opts.MaxFret,
		weakCfg:  opts.Weak,
		weak:     map[theory.PitchClass]struct{}{},
		keys:     Keys,
		help:     help.New(),
		feedback: map[theory.Position]render.Feedback{},
		cursor:   theory.Position{StringIndex: 0, Fret: 1},
	}
	var adapter render.Adapter = m
	if opts.Audio != nil {
		adapter = render.Multi(m, opts.Audio)
	}
	m.session = game.New(game.Options{
		Config:    m.settings.Get(),
		Tuning:    opts.Tuning,
		MaxFret:   opts.MaxFret,
		Adapter:   adapter,
		Scheduler: m.queue,
		Rand:      opts.Rand,
		OnFinish:  m.finish,
	})
	m.refreshWeak()
	if opts.StartMode != nil {
		m.startMode(*opts.StartMode)
	}
	return m
}

// Session exposes the engine driving the game screen.
func (m *Model) Session() *game.Session {
	return m.session
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.drain()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case fireMsg:
		m.queue.Fire(msg.handle)
		return m, m.drain()
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.stopGame()
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Help) {
			m.showHelp = !m.showHelp
			return m, nil
		}
		if m.screen == gameScreen {
			m.updateGame(msg)
		} else {
			m.updateMenu(msg)
		}
		return m, m.drain()
	default:
		return m, nil
	}
}

// drain turns newly scheduled engine actions into ticks.
func (m *Model) drain() tea.Cmd {
	pending := m.queue.TakeScheduled()
	if len(pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(pending))
	for _, p := range pending {
		cmds = append(cmds, fireAfter(p))
	}
	return tea.Batch(cmds...)
}

func (m *Model) updateMenu(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.menuCursor = menuItem(wrap(int(m.menuCursor)-1, 0, int(menuItemCount)-1))
	case key.Matches(msg, m.keys.Down):
		m.menuCursor = menuItem(wrap(int(m.menuCursor)+1, 0, int(menuItemCount)-1))
	case key.Matches(msg, m.keys.Left):
		m.adjustItem(m.menuCursor, -1)
	case key.Matches(msg, m.keys.Right):
		m.adjustItem(m.menuCursor, 1)
	case key.Matches(msg, m.keys.Select):
		m.adjustItem(m.menuCursor, 0)
	case key.Matches(msg, m.keys.View):
		m.adjustItem(itemViewMode, 0)
	}
}

func (m *Model) updateGame(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.stopGame()
	case key.Matches(msg, m.keys.Up):
		m.cursor.StringIndex = max(m.cursor.StringIndex-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.cursor.StringIndex = min(m.cursor.StringIndex+1, theory.NumStrings-1)
	case key.Matches(msg, m.keys.Left):
		m.cursor.Fret = max(m.cursor.Fret-1, 1)
	case key.Matches(msg, m.keys.Right):
		m.cursor.Fret = min(m.cursor.Fret+1, m.maxFret-1)
	case key.Matches(msg, m.keys.Select):
		m.click(m.cursor)
	case key.Matches(msg, m.keys.Solution):
		m.session.ToggleSolution()
	case key.Matches(msg, m.keys.View):
		m.updateSettings(func(c *model.GameConfig) { c.ViewMode = c.ViewMode.Toggle() })
	case key.Matches(msg, m.keys.Debug):
		m.updateSettings(func(c *model.GameConfig) { c.DebugVisible = !c.DebugVisible })
	}
}

func (m *Model) click(pos theory.Position) {
	for _, fn := range m.onClick {
		fn(pos)
	}
}

func (m *Model) updateSettings(fn func(*model.GameConfig)) {
	if err := m.settings.Update(fn); err != nil {
		log.Printf("settings: %v", err)
		m.ShowTransientMessage(render.Info, "settings could not be saved")
	}
}

func (m *Model) startMode(mode game.Mode) {
	cfg := m.settings.Get()
	m.session.Configure(cfg)
	if cfg.FocusWeak && len(m.weak) > 0 {
		weak, factor := m.weak, m.weakCfg.Factor
		m.session.SetNotePicker(func(r *rand.Rand) theory.PitchClass {
			return theory.WeightedNote(r, weak, factor)
		})
	} else {
		m.session.SetNotePicker(nil)
	}
	if err := m.session.Start(mode); err != nil {
		m.ShowTransientMessage(render.Error, err.Error())
		return
	}
	m.screen = gameScreen
	m.cursor = theory.Position{StringIndex: 0, Fret: 1}
	for _, z := range m.zones {
		if z.Enabled {
			m.cursor = z.Position
			break
		}
	}
}

func (m *Model) stopGame() {
	m.session.Stop()
	m.screen = menuScreen
}

// finish stores a stopped game. Games without a single answer are not saved.
func (m *Model) finish(r game.Result) {
	m.last = &r
	if m.store == nil || !r.Interacted() {
		return
	}
	stats, notes := r.SessionStats()
	if _, err := m.store.InsertSession(context.Background(), stats, notes); err != nil {
		log.Printf("failed to save session: %v", err)
		m.ShowTransientMessage(render.Info, "history unavailable, game not saved")
		return
	}
	m.refreshWeak()
}

func (m *Model) refreshWeak() {
	if m.store == nil || m.weakCfg.Window <= 0 {
		return
	}
	aggs, err := m.store.GetWeakNotes(context.Background(), m.weakCfg.Window, "")
	if err != nil {
		log.Printf("failed to load weak notes: %v", err)
		return
	}
	m.weak = statsPkg.SelectWeakNotes(aggs, m.weakCfg.Top)
}

// RenderZones implements render.Adapter.
func (m *Model) RenderZones(zones []layout.FretZone) {
	m.zones = zones
	m.feedback = map[theory.Position]render.Feedback{}
}

// SetZoneFeedback implements render.Adapter.
func (m *Model) SetZoneFeedback(pos theory.Position, kind render.Feedback) {
	if kind == render.Neutral {
		delete(m.feedback, pos)
		return
	}
	m.feedback[pos] = kind
}

// OnZoneClicked implements render.Adapter.
func (m *Model) OnZoneClicked(fn func(theory.Position)) {
	m.onClick = append(m.onClick, fn)
}

// PlayTone implements render.Adapter. Sound is left to the audio adapter.
func (m *Model) PlayTone(float64) {}

// ShowTransientMessage implements render.Adapter.
func (m *Model) ShowTransientMessage(kind render.MessageKind, text string) {
	if m.message != nil {
		m.queue.Cancel(m.message.clear)
	}
	msg := &transient{kind: kind, text: text}
	msg.clear = m.queue.Schedule(messageTTL, func() {
		if m.message == msg {
			m.message = nil
		}
	})
	m.message = msg
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	if m.screen == gameScreen {
		body = m.gameView()
	} else {
		body = m.menuView()
	}
	if m.message != nil {
		body += "\n" + messageStyle(m.message.kind).Render(m.message.text) + "\n"
	} else {
		body += "\n\n"
	}
	if m.showHelp {
		body += "\n" + m.help.FullHelpView(m.keys.FullHelp())
	} else {
		body += "\n" + m.help.ShortHelpView(m.keys.ShortHelp())
	}
	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m *Model) gameView() string {
	cfg := m.settings.Get()
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.session.Mode().Title()))
	b.WriteString("  ")
	b.WriteString(promptStyle.Render(m.session.Prompt()))
	b.WriteByte('\n')
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	width := m.width
	if width <= 0 {
		width = 100
	}
	bd := board{
		zones:      m.zones,
		feedback:   m.feedback,
		tuning:     m.tuning,
		maxFret:    m.maxFret,
		width:      width - 4,
		cursor:     m.cursor,
		showCursor: true,
		debug:      cfg.DebugVisible,
	}
	if cfg.ViewMode == model.View2D {
		b.WriteString(bd.render2D())
	} else {
		b.WriteString(bd.render3D())
	}
	if cfg.DebugVisible {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(m.debugLine()))
	}
	b.WriteByte('\n')
	return b.String()
}

func (m *Model) statusLine() string {
	segments := []string{
		fmt.Sprintf("Score %d", m.session.Score()),
		fmt.Sprintf("Errors %d", m.session.Errors()),
	}
	if m.session.TimeLimited() {
		switch m.session.TimerState() {
		case timer.Armed:
			segments = append(segments, fmt.Sprintf("Time %ds (starts on first click)", m.session.TimeRemaining()))
		default:
			segments = append(segments, fmt.Sprintf("Time %ds", m.session.TimeRemaining()))
		}
	}
	if m.session.ShowingSolution() {
		segments = append(segments, "solution shown")
	}
	return dimStyle.Render(strings.Join(segments, "  ·  "))
}

func (m *Model) debugLine() string {
	z, ok := layout.ZoneAt(m.zones, m.cursor)
	if !ok {
		return ""
	}
	hz := theory.FrequencyAt(m.tuning, m.cursor)
	return fmt.Sprintf("%s note=%s x=%.3f w=%.3f y=%.3f h=%.3f %.2fHz enabled=%t timer=%s",
		m.cursor, z.Note, z.Bounds.X, z.Bounds.W, z.Bounds.Y, z.Bounds.H, hz, z.Enabled, m.session.TimerState())
}
