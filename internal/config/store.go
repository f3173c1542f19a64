package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/fretdrill/internal/model"
)

// Store loads and saves game settings. Last write wins.
type Store interface {
	Load() (model.GameConfig, error)
	Save(cfg model.GameConfig) error
}

// FileStore keeps settings in the [game] section of a TOML file.
type FileStore struct {
	Path string
}

// NewFileStore returns a store for path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load merges the file over the defaults. A missing file yields the defaults.
func (s *FileStore) Load() (model.GameConfig, error) {
	file, err := LoadConfig(s.Path)
	if err != nil {
		return model.Default(), err
	}
	cfg, err := file.Game.Apply(model.Default())
	if err != nil {
		return model.Default(), fmt.Errorf("invalid [game] settings: %w", err)
	}
	return cfg, nil
}

// Save rewrites the [game] section, keeping the [play] section as it was.
// A file that cannot be parsed is left untouched.
func (s *FileStore) Save(cfg model.GameConfig) error {
	file, err := LoadConfig(s.Path)
	if err != nil {
		return fmt.Errorf("refusing to overwrite unreadable config: %w", err)
	}
	file.Game = SectionFor(cfg)

	var buf bytes.Buffer
	buf.WriteString("# fretdrill configuration\n\n")
	if err := toml.NewEncoder(&buf).Encode(file); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return writeFileAtomic(s.Path, buf.Bytes())
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// MemoryStore keeps settings in memory.
type MemoryStore struct {
	cfg   *model.GameConfig
	Saves int
	// Err, when set, is returned by Load and Save.
	Err error
}

// NewMemoryStore returns a store that starts out holding cfg.
func NewMemoryStore(cfg model.GameConfig) *MemoryStore {
	c := clone(cfg)
	return &MemoryStore{cfg: &c}
}

// Load returns the saved settings, or the defaults before the first save.
func (s *MemoryStore) Load() (model.GameConfig, error) {
	if s.Err != nil {
		return model.Default(), s.Err
	}
	if s.cfg == nil {
		return model.Default(), nil
	}
	return clone(*s.cfg), nil
}

// Save replaces the stored settings.
func (s *MemoryStore) Save(cfg model.GameConfig) error {
	if s.Err != nil {
		return s.Err
	}
	c := clone(cfg)
	s.cfg = &c
	s.Saves++
	return nil
}

func clone(cfg model.GameConfig) model.GameConfig {
	out := cfg
	out.TriadTypes = append(cfg.TriadTypes[:0:0], cfg.TriadTypes...)
	if cfg.DisabledFrets != nil {
		r := *cfg.DisabledFrets
		out.DisabledFrets = &r
	}
	return out
}
