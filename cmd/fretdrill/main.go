// Package main provides the CLI entrypoint for fretdrill.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/fretdrill/internal/audio"
	"github.com/verte-zerg/fretdrill/internal/config"
	"github.com/verte-zerg/fretdrill/internal/game"
	"github.com/verte-zerg/fretdrill/internal/layout"
	"github.com/verte-zerg/fretdrill/internal/model"
	"github.com/verte-zerg/fretdrill/internal/stats"
	"github.com/verte-zerg/fretdrill/internal/statsui"
	"github.com/verte-zerg/fretdrill/internal/store"
	"github.com/verte-zerg/fretdrill/internal/theory"
	"github.com/verte-zerg/fretdrill/internal/tui"
)

const (
	defaultWeakTop     = 4
	defaultWeakFactor  = 3.0
	defaultWeakWindow  = 20
	defaultCurveWindow = 10
	defaultStatsWidth  = 80
)

var (
	playMode       string
	playMaxFret    int
	playSeed       int64
	playNoSave     bool
	playFocusWeak  bool
	playWeakTop    int
	playWeakFactor float64
	playWeakWindow int
	playLogPath    string

	statsMode        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsTUI         bool

	layoutJSON    bool
	layoutHitbox  bool
	layoutMaxFret int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fretdrill",
		Short:         "TUI guitar fretboard trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playMode, "mode", "", "start a game directly: single, find-all, or triads")
	rootCmd.Flags().IntVar(&playMaxFret, "max-fret", theory.DefaultMaxFret, "exclusive fret bound (23 shows frets 1-22)")
	rootCmd.Flags().Int64Var(&playSeed, "seed", 0, "random seed (0 uses the clock)")
	rootCmd.Flags().BoolVar(&playNoSave, "no-save", false, "keep settings and sessions in memory only")
	rootCmd.Flags().BoolVar(&playFocusWeak, "focus-weak", false, "bias targets toward weak notes (saved to settings)")
	rootCmd.Flags().IntVar(&playWeakTop, "weak-top", defaultWeakTop, "number of weak notes to focus on")
	rootCmd.Flags().Float64Var(&playWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak notes")
	rootCmd.Flags().IntVar(&playWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute weak notes")
	rootCmd.Flags().StringVar(&playLogPath, "log", "", "write a debug log to this file")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newLayoutCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	settings, startMode, err := preparePlay(cmd, config.DefaultConfigPath())
	if err != nil {
		return err
	}

	if playLogPath != "" {
		f, err := tea.LogToFile(playLogPath, "fretdrill")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				logErrf("failed to close log: %v\n", cerr)
			}
		}()
	} else {
		log.SetOutput(io.Discard)
	}

	var sessions tui.SessionStore
	if !playNoSave {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			logErrf("failed to open db, history disabled: %v\n", err)
		} else {
			defer func() {
				if cerr := st.Close(); cerr != nil {
					logErrf("failed to close db: %v\n", cerr)
				}
			}()
			sessions = st
		}
	}

	player := audio.NewPlayer()
	if err := player.Init(); err != nil {
		logErrf("audio unavailable: %v\n", err)
	}
	defer player.Close()

	m := tui.NewModel(tui.Options{
		Settings: settings,
		Store:    sessions,
		Tuning:   theory.StandardTuning(),
		MaxFret:  playMaxFret,
		Rand:     theory.NewRand(playSeed),
		Audio:    player,
		Weak: tui.WeakFocus{
			Top:    playWeakTop,
			Factor: playWeakFactor,
			Window: playWeakWindow,
		},
		StartMode: startMode,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// preparePlay resolves flags and settings for the play command. Unreadable or
// invalid settings are reported on stderr and never block the game.
func preparePlay(cmd *cobra.Command, configPath string) (*config.Settings, *game.Mode, error) {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		logErrf("failed to load config: %v; using defaults\n", err)
		fileCfg = config.FileConfig{}
	}
	applyStringConfig(cmd, "mode", &playMode, fileCfg.Play.Mode)
	applyIntConfig(cmd, "max-fret", &playMaxFret, fileCfg.Play.MaxFret)
	applyIntConfig(cmd, "weak-top", &playWeakTop, fileCfg.Play.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &playWeakFactor, fileCfg.Play.WeakFactor)
	applyIntConfig(cmd, "weak-window", &playWeakWindow, fileCfg.Play.WeakWindow)

	if err := validatePlayFlags(); err != nil {
		return nil, nil, err
	}

	var startMode *game.Mode
	if playMode != "" {
		mode, err := game.ParseMode(playMode)
		if err != nil {
			return nil, nil, fmt.Errorf("--mode: %w", err)
		}
		startMode = &mode
	}

	var settingsStore config.Store = config.NewFileStore(configPath)
	if playNoSave {
		seed, err := settingsStore.Load()
		if err != nil {
			logErrf("failed to load settings: %v; using defaults\n", err)
		}
		settingsStore = config.NewMemoryStore(seed)
	}
	settings, err := config.LoadSettings(settingsStore)
	if err != nil {
		logErrf("%v; using defaults\n", err)
	}
	if cmd.Flags().Changed("focus-weak") {
		if err := settings.Update(func(c *model.GameConfig) { c.FocusWeak = playFocusWeak }); err != nil {
			logErrf("%v\n", err)
		}
	}
	// The menu reports the same error when a game is started.
	if err := settings.Get().Validate(playMaxFret); err != nil {
		logErrf("invalid settings in %s: %v\n", configPath, err)
	}
	return settings, startMode, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter: single, find-all, or triads")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsTUI, "tui", false, "browse stats interactively")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfigFromFlags()
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsTUI {
		program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := report.Render(cmd.OutOrStdout(), cfg, outputWidth()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func statsConfigFromFlags() (model.StatsConfig, error) {
	cfg := model.StatsConfig{
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}
	if statsMode != "" {
		mode, err := game.ParseMode(statsMode)
		if err != nil {
			return cfg, fmt.Errorf("--mode: %w", err)
		}
		cfg.Mode = mode.String()
	}
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if cfg.Last < 0 {
		return cfg, fmt.Errorf("--last must be >= 0")
	}
	if cfg.CurveWindow <= 0 {
		return cfg, fmt.Errorf("--curve-window must be > 0")
	}
	return cfg, nil
}

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the fret zone table",
		Args:  cobra.NoArgs,
		RunE:  runLayoutCmd,
	}
	cmd.Flags().BoolVar(&layoutJSON, "json", false, "emit JSON")
	cmd.Flags().BoolVar(&layoutHitbox, "hitbox", false, "include planar 3D hitboxes")
	cmd.Flags().IntVar(&layoutMaxFret, "max-fret", theory.DefaultMaxFret, "exclusive fret bound")
	return cmd
}

// zoneRecord is one row of the layout output.
type zoneRecord struct {
	layout.FretZone
	Frequency float64     `json:"frequency"`
	Hitbox    *layout.Box `json:"hitbox,omitempty"`
}

// neckFitter sizes the planar hitboxes in millimetres for a 648 mm scale.
var neckFitter = layout.PlanarFitter{Length: 648, Width: 56, Thickness: 20}

func runLayoutCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "max-fret", &layoutMaxFret, fileCfg.Play.MaxFret)
	if layoutMaxFret < 2 || layoutMaxFret > 25 {
		return fmt.Errorf("--max-fret must be between 2 and 25")
	}
	gameCfg, err := fileCfg.Game.Apply(model.Default())
	if err != nil {
		return fmt.Errorf("invalid [game] settings: %w", err)
	}

	tuning := theory.StandardTuning()
	zones := layout.BuildZones(tuning, layoutMaxFret, gameCfg.DisabledSet())
	records := make([]zoneRecord, 0, len(zones))
	for _, z := range zones {
		rec := zoneRecord{FretZone: z, Frequency: theory.FrequencyAt(tuning, z.Position)}
		if layoutHitbox {
			box := neckFitter.Hitbox(z)
			rec.Hitbox = &box
		}
		records = append(records, rec)
	}

	out := cmd.OutOrStdout()
	if layoutJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := writeLayoutTable(out, records); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func writeLayoutTable(w io.Writer, records []zoneRecord) error {
	if _, err := fmt.Fprintf(w, "%-6s %4s %-4s %-31s %-7s %9s\n", "String", "Fret", "Note", "Bounds (x y w h)", "Enabled", "Hz"); err != nil {
		return err
	}
	for _, r := range records {
		b := r.Bounds
		bounds := fmt.Sprintf("%.4f %.4f %.4f %.4f", b.X, b.Y, b.W, b.H)
		line := fmt.Sprintf("%-6d %4d %-4s %-31s %-7t %9.2f",
			r.Position.StringIndex+1, r.Position.Fret, r.Note, bounds, r.Enabled, r.Frequency)
		if r.Hitbox != nil {
			line += fmt.Sprintf("  [%.1f %.1f %.1f]-[%.1f %.1f %.1f]",
				r.Hitbox.Min[0], r.Hitbox.Min[1], r.Hitbox.Min[2],
				r.Hitbox.Max[0], r.Hitbox.Max[1], r.Hitbox.Max[2])
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func outputWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultStatsWidth
	}
	return width
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validatePlayFlags() error {
	if playMaxFret < 2 || playMaxFret > 25 {
		return fmt.Errorf("--max-fret must be between 2 and 25")
	}
	if playWeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if playWeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if playWeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# fretdrill configuration
# Uncomment a value to enable it. CLI flags override [play] values.
# The [game] section is rewritten whenever settings change in the menu.

[game]
# view-mode = "3d"          # 2d or 3d
# time-limit = false        # Count down each prompt
# time-limit-seconds = 5    # 1-10
# disabled-from = 13        # Disable a fret range (set both ends)
# disabled-to = 22
# triad-types = ["major", "minor"]  # Any of major, minor, diminished, augmented
# show-root-note = false    # Mark one root position in triad mode
# debug = false             # Show the debug line
# focus-weak = false        # Bias targets toward weak notes

[play]
# mode = "single"           # Skip the menu: single, find-all, or triads
# max-fret = %d             # Exclusive fret bound
# weak-top = %d             # Number of weak notes to focus on
# weak-factor = %.1f        # Weight factor for weak notes
# weak-window = %d          # Number of recent sessions to compute weak notes
`,
		theory.DefaultMaxFret,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
