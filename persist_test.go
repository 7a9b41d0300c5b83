package phototinder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreConfigRoundTrip(t *testing.T) {
	t.Parallel()

	fs := &FileStore{Dir: filepath.Join(t.TempDir(), "photo-tinder")}
	cfg := Config{
		SourceFolders:  []string{"/photos/a", "/photos/b"},
		AcceptedFolder: "/photos/keep",
		RejectedFolder: "/photos/trash",
	}
	require.NoError(t, fs.SaveConfig(cfg))

	got, err := fs.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestFileStoreStateRoundTrip(t *testing.T) {
	t.Parallel()

	fs := &FileStore{Dir: t.TempDir()}
	state := newPersistentState()
	state.CurrentIndex = 3
	state.Decisions["abc123"] = DecisionAccepted
	state.MovedFiles["abc123"] = "/photos/keep/one.jpg"
	state.OriginalPaths["abc123"] = "/photos/a/one.jpg"
	state.History.Push(DecisionRecord{PhotoID: "abc123", From: DecisionPending, To: DecisionAccepted})
	state.Mode = ModeRanking
	state.Ranking.TotalComparisons = 7
	require.NoError(t, fs.SaveState(state))

	got, err := fs.LoadState()
	require.NoError(t, err)
	assert.Equal(t, 3, got.CurrentIndex)
	assert.Equal(t, DecisionAccepted, got.Decisions["abc123"])
	assert.Equal(t, "/photos/keep/one.jpg", got.MovedFiles["abc123"])
	assert.Equal(t, "/photos/a/one.jpg", got.OriginalPaths["abc123"])
	assert.Equal(t, 1, got.History.Len())
	assert.Equal(t, ModeRanking, got.Mode)
	assert.Equal(t, 7, got.Ranking.TotalComparisons)
}

func TestFileStoreHashesRoundTrip(t *testing.T) {
	t.Parallel()

	fs := &FileStore{Dir: t.TempDir()}
	hashes := map[string]string{"id1": "ff00", "id2": "00ff"}
	require.NoError(t, fs.SaveHashes(hashes))

	got, err := fs.LoadHashes()
	require.NoError(t, err)
	assert.Equal(t, hashes, got)
}

func TestFileStoreMissingFiles(t *testing.T) {
	t.Parallel()

	fs := &FileStore{Dir: filepath.Join(t.TempDir(), "never-created")}

	cfg, err := fs.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)

	state, err := fs.LoadState()
	require.NoError(t, err)
	assert.Equal(t, 0, state.CurrentIndex)
	assert.NotNil(t, state.Decisions)
	assert.NotNil(t, state.MovedFiles)
	assert.NotNil(t, state.OriginalPaths)

	hashes, err := fs.LoadHashes()
	require.NoError(t, err)
	assert.Empty(t, hashes)
}

func TestFileStoreMalformedDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fs := &FileStore{Dir: dir}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "state.json"), []byte("{not json"), 0o644))

	_, err := fs.LoadState()
	assert.Error(t, err)
}

func TestFileStoreCreatesDirectoryOnSave(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "deep", "nested")
	fs := &FileStore{Dir: dir}
	require.NoError(t, fs.SaveHashes(map[string]string{"a": "b"}))

	_, err := os.Stat(filepath.Join(dir, "photo_hashes.json"))
	assert.NoError(t, err)
}
