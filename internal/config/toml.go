// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/fretdrill/internal/model"
	"github.com/verte-zerg/fretdrill/internal/theory"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game GameSection `toml:"game"`
	Play PlaySection `toml:"play"`
}

// GameSection maps the persisted game settings. Unset keys keep their defaults.
type GameSection struct {
	ViewMode         *string   `toml:"view-mode"`
	TimeLimit        *bool     `toml:"time-limit"`
	TimeLimitSeconds *int      `toml:"time-limit-seconds"`
	DisabledFrom     *int      `toml:"disabled-from"`
	DisabledTo       *int      `toml:"disabled-to"`
	TriadTypes       *[]string `toml:"triad-types"`
	ShowRootNote     *bool     `toml:"show-root-note"`
	Debug            *bool     `toml:"debug"`
	FocusWeak        *bool     `toml:"focus-weak"`
}

// PlaySection maps CLI defaults for the play command.
type PlaySection struct {
	Mode       *string  `toml:"mode"`
	MaxFret    *int     `toml:"max-fret"`
	WeakTop    *int     `toml:"weak-top"`
	WeakFactor *float64 `toml:"weak-factor"`
	WeakWindow *int     `toml:"weak-window"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Apply merges the set keys over base.
func (g GameSection) Apply(base model.GameConfig) (model.GameConfig, error) {
	cfg := base
	if g.ViewMode != nil {
		switch v := model.ViewMode(strings.ToLower(strings.TrimSpace(*g.ViewMode))); v {
		case model.View2D, model.View3D:
			cfg.ViewMode = v
		default:
			return base, fmt.Errorf("view-mode %q: %w", *g.ViewMode, model.ErrInvalidViewMode)
		}
	}
	if g.TimeLimit != nil {
		cfg.TimeLimitEnabled = *g.TimeLimit
	}
	if g.TimeLimitSeconds != nil {
		cfg.TimeLimitSeconds = *g.TimeLimitSeconds
	}
	switch {
	case g.DisabledFrom != nil && g.DisabledTo != nil:
		cfg.DisabledFrets = &model.FretRange{From: *g.DisabledFrom, To: *g.DisabledTo}
	case g.DisabledFrom != nil || g.DisabledTo != nil:
		return base, fmt.Errorf("disabled-from and disabled-to must be set together")
	}
	if g.TriadTypes != nil {
		types := make([]theory.TriadType, 0, len(*g.TriadTypes))
		for _, name := range *g.TriadTypes {
			t, err := theory.ParseTriadType(name)
			if err != nil {
				return base, fmt.Errorf("triad-types: %w", err)
			}
			types = append(types, t)
		}
		cfg.TriadTypes = types
	}
	if g.ShowRootNote != nil {
		cfg.ShowTriadRootNote = *g.ShowRootNote
	}
	if g.Debug != nil {
		cfg.DebugVisible = *g.Debug
	}
	if g.FocusWeak != nil {
		cfg.FocusWeak = *g.FocusWeak
	}
	return cfg, nil
}

// SectionFor captures every field of cfg so a round trip is lossless.
func SectionFor(cfg model.GameConfig) GameSection {
	view := string(cfg.ViewMode)
	limit := cfg.TimeLimitEnabled
	seconds := cfg.TimeLimitSeconds
	types := make([]string, 0, len(cfg.TriadTypes))
	for _, t := range cfg.TriadTypes {
		types = append(types, t.String())
	}
	root := cfg.ShowTriadRootNote
	debug := cfg.DebugVisible
	weak := cfg.FocusWeak
	g := GameSection{
		ViewMode:         &view,
		TimeLimit:        &limit,
		TimeLimitSeconds: &seconds,
		TriadTypes:       &types,
		ShowRootNote:     &root,
		Debug:            &debug,
		FocusWeak:        &weak,
	}
	if cfg.DisabledFrets != nil {
		from, to := cfg.DisabledFrets.From, cfg.DisabledFrets.To
		g.DisabledFrom = &from
		g.DisabledTo = &to
	}
	return g
}
