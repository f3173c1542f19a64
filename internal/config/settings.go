package config

import (
	"fmt"

	"github.com/verte-zerg/fretdrill/internal/model"
)

// Settings is the in-memory copy of the game settings, saved on every change.
// The in-memory value stays authoritative when the store fails.
type Settings struct {
	store Store
	cfg   model.GameConfig
}

// LoadSettings reads settings from store. On failure it falls back to the
// defaults and returns the error for the caller to report.
func LoadSettings(store Store) (*Settings, error) {
	cfg, err := store.Load()
	s := &Settings{store: store, cfg: cfg.Normalize()}
	if err != nil {
		s.cfg = model.Default()
		return s, fmt.Errorf("failed to load settings: %w", err)
	}
	return s, nil
}

// Get returns a copy of the current settings.
func (s *Settings) Get() model.GameConfig {
	return clone(s.cfg)
}

// Update applies fn, normalizes the result, and saves it. Save errors are
// returned but the change is kept.
func (s *Settings) Update(fn func(*model.GameConfig)) error {
	cfg := clone(s.cfg)
	fn(&cfg)
	s.cfg = cfg.Normalize()
	if err := s.store.Save(s.cfg); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
