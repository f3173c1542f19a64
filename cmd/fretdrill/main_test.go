package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/fretdrill/internal/config"
	"github.com/verte-zerg/fretdrill/internal/game"
	"github.com/verte-zerg/fretdrill/internal/layout"
	"github.com/verte-zerg/fretdrill/internal/model"
	"github.com/verte-zerg/fretdrill/internal/theory"
)

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Play.MaxFret != nil || cfg.Game.ViewMode != nil {
		t.Fatalf("expected every key commented out, got %+v", cfg)
	}
}

func TestDefaultConfigTemplateUncommented(t *testing.T) {
	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	game, err := cfg.Game.Apply(model.Default())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := game.Validate(theory.DefaultMaxFret); err != nil {
		t.Fatalf("template values invalid: %v", err)
	}
	if cfg.Play.MaxFret == nil || *cfg.Play.MaxFret != theory.DefaultMaxFret {
		t.Fatalf("unexpected max-fret %v", cfg.Play.MaxFret)
	}
}

func TestStatsConfigFromFlags(t *testing.T) {
	statsMode, statsSince, statsLast, statsCurveWindow = "find-all", "2024-03-01", 5, 3
	t.Cleanup(func() {
		statsMode, statsSince, statsLast, statsCurveWindow = "", "", 0, defaultCurveWindow
	})
	cfg, err := statsConfigFromFlags()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mode != "find-all" || cfg.Last != 5 || cfg.CurveWindow != 3 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Since == nil || cfg.Since.Day() != 1 || cfg.Since.Month() != 3 {
		t.Fatalf("unexpected since %v", cfg.Since)
	}

	statsSince = "yesterday"
	if _, err := statsConfigFromFlags(); err == nil {
		t.Fatalf("expected error for bad --since")
	}
	statsSince = ""
	statsMode = "chords"
	if _, err := statsConfigFromFlags(); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	statsMode = ""
	statsCurveWindow = 0
	if _, err := statsConfigFromFlags(); err == nil {
		t.Fatalf("expected error for zero curve window")
	}
}

func TestWriteLayoutTable(t *testing.T) {
	tuning := theory.StandardTuning()
	zones := layout.BuildZones(tuning, 4, theory.FretRange(2, 2))
	records := make([]zoneRecord, 0, len(zones))
	for _, z := range zones {
		box := neckFitter.Hitbox(z)
		records = append(records, zoneRecord{
			FretZone:  z,
			Frequency: theory.FrequencyAt(tuning, z.Position),
			Hitbox:    &box,
		})
	}
	var buf bytes.Buffer
	if err := writeLayoutTable(&buf, records); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 1+theory.NumStrings*3 {
		t.Fatalf("expected %d lines, got %d", 1+theory.NumStrings*3, len(lines))
	}
	if !strings.HasPrefix(lines[0], "String") {
		t.Fatalf("missing header: %q", lines[0])
	}
	// First row is the high E string at fret 1: F, enabled.
	if !strings.Contains(lines[1], " F ") || !strings.Contains(lines[1], "true") {
		t.Fatalf("unexpected first row: %q", lines[1])
	}
	if !strings.Contains(lines[2], "false") {
		t.Fatalf("fret 2 should be disabled: %q", lines[2])
	}
	if !strings.Contains(lines[1], "[0.0 0.0 0.0]") {
		t.Fatalf("missing hitbox: %q", lines[1])
	}
}

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestPreparePlayIgnoresMalformedConfig(t *testing.T) {
	content := "[play]\nmax-fret = 20\n\n[game\nview-mode =\n"
	path := writeTestConfig(t, content)
	cmd := newRootCmd()
	if err := cmd.Flags().Set("focus-weak", "true"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	settings, startMode, err := preparePlay(cmd, path)
	if err != nil {
		t.Fatalf("malformed config should not block play: %v", err)
	}
	if startMode != nil {
		t.Fatalf("expected menu start, got %v", *startMode)
	}
	if playMaxFret != theory.DefaultMaxFret {
		t.Fatalf("expected default max-fret, got %d", playMaxFret)
	}
	got := settings.Get()
	if got.ViewMode != model.View3D || !got.FocusWeak {
		t.Fatalf("expected defaults with focus-weak applied, got %+v", got)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(after) != content {
		t.Fatalf("malformed config was overwritten:\n%s", after)
	}
}

func TestPreparePlayDefersInvalidSettings(t *testing.T) {
	path := writeTestConfig(t, "[play]\nmode = \"single\"\n\n[game]\ndisabled-from = 30\ndisabled-to = 40\n")
	cmd := newRootCmd()

	settings, startMode, err := preparePlay(cmd, path)
	if err != nil {
		t.Fatalf("invalid settings should be reported in the game, got %v", err)
	}
	if startMode == nil || *startMode != game.SingleNote {
		t.Fatalf("expected single note start, got %v", startMode)
	}
	if err := settings.Get().Validate(playMaxFret); !errors.Is(err, model.ErrInvalidFretRange) {
		t.Fatalf("expected the out-of-range setting to survive, got %v", err)
	}
}

func TestPreparePlayRejectsBadFlags(t *testing.T) {
	path := writeTestConfig(t, "")
	cmd := newRootCmd()
	if err := cmd.Flags().Set("max-fret", "40"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if _, _, err := preparePlay(cmd, path); err == nil {
		t.Fatalf("expected --max-fret error")
	}
}
