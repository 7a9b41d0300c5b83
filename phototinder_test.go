package phototinder

import (
	"image"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// memStore keeps all three documents in memory and counts state saves.
type memStore struct {
	cfg        Config
	state      *PersistentState
	hashes     map[string]string
	stateSaves int
	saveErr    error
}

func (m *memStore) LoadConfig() (Config, error) { return m.cfg, nil }

func (m *memStore) SaveConfig(cfg Config) error {
	m.cfg = cfg
	return m.saveErr
}

func (m *memStore) LoadState() (*PersistentState, error) {
	if m.state == nil {
		return newPersistentState(), nil
	}
	return m.state, nil
}

func (m *memStore) SaveState(state *PersistentState) error {
	m.state = state
	m.stateSaves++
	return m.saveErr
}

func (m *memStore) LoadHashes() (map[string]string, error) {
	if m.hashes == nil {
		return map[string]string{}, nil
	}
	return m.hashes, nil
}

func (m *memStore) SaveHashes(hashes map[string]string) error {
	m.hashes = hashes
	return m.saveErr
}

// newTestSession builds an initialized session over a memStore with
// deterministic randomness and a fixed clock.
func newTestSession(t *testing.T, cfg Config) (*Session, *memStore) {
	t.Helper()

	store := &memStore{cfg: cfg}
	s := &Session{
		Store:  store,
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
		Rand:   rand.New(rand.NewSource(1)),
		Now:    func() time.Time { return time.Unix(1700000000, 0) },
	}
	if err := s.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return s, store
}

// flatImage is uniform gray: its fingerprint is all zero bits.
func flatImage() image.Image {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	return img
}

// rampImage darkens left to right: every adjacent pair has the left
// pixel brighter, so its fingerprint is all one bits.
func rampImage() image.Image {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Pix[y*img.Stride+x] = uint8(255 - x*4)
		}
	}
	return img
}

// writeFile creates a file with throwaway content under dir.
func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("not really an image"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
