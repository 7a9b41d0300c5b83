package phototinder

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// Store persists the three application documents: user config, triage
// state (which embeds the ranking state), and the fingerprint cache.
// Each is a human-readable structured document rewritten in full on
// every mutating operation. A save failure propagates to the caller but
// never rolls back the in-memory mutation that already happened.
type Store interface {
	LoadConfig() (Config, error)
	SaveConfig(Config) error
	LoadState() (*PersistentState, error)
	SaveState(*PersistentState) error
	LoadHashes() (map[string]string, error)
	SaveHashes(map[string]string) error
}

// FileStore keeps the three documents as pretty-printed JSON files
// under one directory.
type FileStore struct {
	Dir string
}

// DefaultStoreDir is the per-user document directory,
// <os config dir>/photo-tinder.
func DefaultStoreDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "photo-tinder")
}

func (fs *FileStore) configPath() string { return filepath.Join(fs.Dir, "config.json") }
func (fs *FileStore) statePath() string  { return filepath.Join(fs.Dir, "state.json") }
func (fs *FileStore) hashesPath() string { return filepath.Join(fs.Dir, "photo_hashes.json") }

func (fs *FileStore) LoadConfig() (Config, error) {
	var cfg Config
	if err := loadJSON(fs.configPath(), &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (fs *FileStore) SaveConfig(cfg Config) error {
	return saveJSON(fs.configPath(), cfg)
}

func (fs *FileStore) LoadState() (*PersistentState, error) {
	state := newPersistentState()
	if err := loadJSON(fs.statePath(), state); err != nil {
		return nil, err
	}
	state.normalize()
	return state, nil
}

func (fs *FileStore) SaveState(state *PersistentState) error {
	return saveJSON(fs.statePath(), state)
}

func (fs *FileStore) LoadHashes() (map[string]string, error) {
	hashes := make(map[string]string)
	if err := loadJSON(fs.hashesPath(), &hashes); err != nil {
		return nil, err
	}
	return hashes, nil
}

func (fs *FileStore) SaveHashes(hashes map[string]string) error {
	return saveJSON(fs.hashesPath(), hashes)
}

// loadJSON fills dest from a JSON document. A missing file leaves dest
// untouched (fresh install); a malformed one is an error so we never
// overwrite a document we could not read back.
func loadJSON(path string, dest any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func saveJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
