package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/fretdrill/internal/model"
	"github.com/verte-zerg/fretdrill/internal/theory"
)

func TestFileStoreMissingFileYieldsDefaults(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "config.toml"))
	cfg, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := model.Default()
	if cfg.ViewMode != def.ViewMode || cfg.TimeLimitSeconds != def.TimeLimitSeconds || cfg.TimeLimitEnabled {
		t.Fatalf("unexpected first-run config: %+v", cfg)
	}
	if len(cfg.TriadTypes) != 2 || cfg.TriadTypes[0] != theory.Major || cfg.TriadTypes[1] != theory.Minor {
		t.Fatalf("unexpected default triads: %v", cfg.TriadTypes)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	s := NewFileStore(path)
	want := model.GameConfig{
		ViewMode:          model.View2D,
		TimeLimitEnabled:  true,
		TimeLimitSeconds:  7,
		DisabledFrets:     &model.FretRange{From: 12, To: 22},
		TriadTypes:        []theory.TriadType{theory.Diminished, theory.Augmented},
		ShowTriadRootNote: true,
		DebugVisible:      true,
		FocusWeak:         true,
	}
	if err := s.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ViewMode != want.ViewMode || got.TimeLimitEnabled != want.TimeLimitEnabled ||
		got.TimeLimitSeconds != want.TimeLimitSeconds || got.ShowTriadRootNote != want.ShowTriadRootNote ||
		got.DebugVisible != want.DebugVisible || got.FocusWeak != want.FocusWeak {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
	}
	if got.DisabledFrets == nil || *got.DisabledFrets != *want.DisabledFrets {
		t.Fatalf("disabled range mismatch: %v", got.DisabledFrets)
	}
	if len(got.TriadTypes) != 2 || got.TriadTypes[0] != theory.Diminished || got.TriadTypes[1] != theory.Augmented {
		t.Fatalf("triad types mismatch: %v", got.TriadTypes)
	}
}

func TestFileStoreSavePreservesPlaySection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[play]\nmode = \"triads\"\nmax-fret = 20\n\n[game]\nview-mode = \"2d\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	s := NewFileStore(path)
	cfg, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ViewMode != model.View2D {
		t.Fatalf("expected 2d view, got %s", cfg.ViewMode)
	}
	cfg.TimeLimitEnabled = true
	if err := s.Save(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	file, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if file.Play.Mode == nil || *file.Play.Mode != "triads" {
		t.Fatalf("play mode lost: %v", file.Play.Mode)
	}
	if file.Play.MaxFret == nil || *file.Play.MaxFret != 20 {
		t.Fatalf("play max-fret lost: %v", file.Play.MaxFret)
	}
	if file.Game.TimeLimit == nil || !*file.Game.TimeLimit {
		t.Fatalf("time limit not saved")
	}
}

func TestFileStoreRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"view":    "[game]\nview-mode = \"4d\"\n",
		"triad":   "[game]\ntriad-types = [\"sus2\"]\n",
		"range":   "[game]\ndisabled-from = 3\n",
		"invalid": "[game\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				t.Fatalf("write: %v", err)
			}
			cfg, err := NewFileStore(path).Load()
			if err == nil {
				t.Fatalf("expected error")
			}
			if cfg.ViewMode != model.View3D {
				t.Fatalf("expected defaults on error, got %+v", cfg)
			}
		})
	}
}

func TestFileStoreSaveKeepsUnreadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[play]\nmode = \"triads\"\n\n[game\nview-mode =\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	err := NewFileStore(path).Save(model.Default())
	if err == nil || !strings.Contains(err.Error(), "refusing to overwrite") {
		t.Fatalf("expected save to refuse, got %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != content {
		t.Fatalf("unreadable config was rewritten:\n%s", got)
	}
}

func TestFileStoreSaveReplacesBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[game]\nview-mode = \"4d\"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	s := NewFileStore(path)
	if err := s.Save(model.Default()); err != nil {
		t.Fatalf("save: %v", err)
	}
	cfg, err := s.Load()
	if err != nil {
		t.Fatalf("load after save: %v", err)
	}
	if cfg.ViewMode != model.View3D {
		t.Fatalf("expected 3d view, got %s", cfg.ViewMode)
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	s := &MemoryStore{}
	cfg := model.Default()
	if err := s.Save(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	cfg.TriadTypes[0] = theory.Augmented
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.TriadTypes[0] != theory.Major {
		t.Fatalf("stored config aliased caller slice")
	}
	if s.Saves != 1 {
		t.Fatalf("expected 1 save, got %d", s.Saves)
	}
}

func TestNewMemoryStoreSeeded(t *testing.T) {
	seed := model.Default()
	seed.ViewMode = model.View2D
	s := NewMemoryStore(seed)
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ViewMode != model.View2D {
		t.Fatalf("expected seeded view mode, got %q", got.ViewMode)
	}
	if s.Saves != 0 {
		t.Fatalf("seeding should not count as a save")
	}
}

func TestSettingsUpdateWritesThrough(t *testing.T) {
	store := &MemoryStore{}
	settings, err := LoadSettings(store)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := settings.Update(func(c *model.GameConfig) {
		c.ViewMode = c.ViewMode.Toggle()
		c.TimeLimitEnabled = true
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	stored, _ := store.Load()
	if stored.ViewMode != model.View2D || !stored.TimeLimitEnabled {
		t.Fatalf("update not persisted: %+v", stored)
	}
	if settings.Get().ViewMode != model.View2D {
		t.Fatalf("update not applied in memory")
	}
}

func TestSettingsUpdateNormalizes(t *testing.T) {
	settings, err := LoadSettings(&MemoryStore{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	_ = settings.Update(func(c *model.GameConfig) {
		c.TriadTypes = nil
		c.TimeLimitSeconds = 42
		c.DisabledFrets = &model.FretRange{From: 9, To: 4}
	})
	got := settings.Get()
	if len(got.TriadTypes) != 1 || got.TriadTypes[0] != theory.Major {
		t.Fatalf("expected major fallback, got %v", got.TriadTypes)
	}
	if got.TimeLimitSeconds != 10 {
		t.Fatalf("expected clamp to 10, got %d", got.TimeLimitSeconds)
	}
	if got.DisabledFrets.From != 4 || got.DisabledFrets.To != 9 {
		t.Fatalf("expected ordered range, got %s", got.DisabledFrets)
	}
}

func TestSettingsKeepsChangeWhenSaveFails(t *testing.T) {
	store := &MemoryStore{}
	settings, err := LoadSettings(store)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	store.Err = errors.New("disk full")
	err = settings.Update(func(c *model.GameConfig) { c.DebugVisible = true })
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected save error, got %v", err)
	}
	if !settings.Get().DebugVisible {
		t.Fatalf("in-memory change was lost")
	}
}

func TestLoadSettingsFallsBackOnError(t *testing.T) {
	settings, err := LoadSettings(&MemoryStore{Err: errors.New("unreadable")})
	if err == nil {
		t.Fatalf("expected error")
	}
	if settings.Get().ViewMode != model.View3D {
		t.Fatalf("expected defaults")
	}
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "fretdrill", "config.toml") {
		t.Fatalf("config path: %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "fretdrill", "fretdrill.db") {
		t.Fatalf("db path: %s", got)
	}
}
