// Package phototinder is the core engine of a photo culling and
// ranking desktop app. Triage swipes accept, reject, or skip photos
// from the user's source folders (accept and reject relocate the
// file); the ranking phase then converges toward a total order over
// the accepted photos through pairwise comparisons: perceptual dHash
// fingerprints group near-duplicates into clusters, pairs are chosen
// intra-cluster first and globally afterwards, and a Glicko-style
// updater maintains each photo's skill estimate. Both phases keep a
// bounded undo journal.
//
// The engine is synchronous, single-threaded, pure in-memory
// computation; the enclosing shell must serialize access to a Session
// for the duration of each operation. Every mutating operation
// persists the affected documents through the Store; a persistence
// failure is surfaced but never rolls back the in-memory mutation.
package phototinder

import (
	"log/slog"
	"math/rand"
	"time"
)

// Session holds all application state plus its injected collaborators.
// Zero-value collaborators fall back to real-filesystem defaults; only
// Store has no default (tests and shells decide where documents live).
type Session struct {
	Store   Store        // document persistence (required)
	Files   FileManager  // photo relocation (nil = local filesystem)
	Decoder ImageDecoder // pixel decoding (nil = stdlib + webp)
	Logger  *slog.Logger // nil = slog.Default()
	Rand    *rand.Rand   // pair-selection randomness (nil = time-seeded)
	Now     func() time.Time

	config  Config
	state   *PersistentState
	records []ImageRecord
	pending []int
	hashes  map[string]string
	dups    *duplicateFilter
}

// PersistentState is the triage document saved to disk, embedding the
// ranking state.
type PersistentState struct {
	CurrentIndex  int                     `json:"current_index"`
	Decisions     map[string]Decision     `json:"decisions"`
	History       Journal[DecisionRecord] `json:"history"`
	MovedFiles    map[string]string       `json:"moved_files"`
	OriginalPaths map[string]string       `json:"original_paths"`
	Mode          Mode                    `json:"mode"`
	Ranking       RankingState            `json:"ranking"`
}

func newPersistentState() *PersistentState {
	s := &PersistentState{}
	s.normalize()
	return s
}

// normalize makes sure every map exists after a load from an older or
// partial document.
func (ps *PersistentState) normalize() {
	if ps.Decisions == nil {
		ps.Decisions = make(map[string]Decision)
	}
	if ps.MovedFiles == nil {
		ps.MovedFiles = make(map[string]string)
	}
	if ps.OriginalPaths == nil {
		ps.OriginalPaths = make(map[string]string)
	}
	ps.Ranking.normalize()
}

// defaults fills zero-value collaborators.
func (s *Session) defaults() {
	if s.Store == nil {
		s.Store = &FileStore{Dir: DefaultStoreDir()}
	}
	if s.Files == nil {
		s.Files = osFileManager{}
	}
	if s.Decoder == nil {
		s.Decoder = fileDecoder{}
	}
	if s.Rand == nil {
		s.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	if s.dups == nil {
		s.dups = &duplicateFilter{}
	}
	if s.state == nil {
		s.state = newPersistentState()
	}
}

func (s *Session) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Initialize loads the persisted documents and, when the configuration
// is complete, scans the source folders and builds the pending queue.
// An unset configuration is not an error; the shell shows setup UI.
func (s *Session) Initialize() error {
	s.defaults()

	cfg, err := s.Store.LoadConfig()
	if err != nil {
		return err
	}
	s.config = cfg

	state, err := s.Store.LoadState()
	if err != nil {
		return err
	}
	s.state = state

	hashes, err := s.Store.LoadHashes()
	if err != nil {
		return err
	}
	s.hashes = hashes

	if s.config.Valid() {
		s.rescan()
	}
	return nil
}

// rescan rebuilds the image records and the pending queue from the
// current configuration.
func (s *Session) rescan() {
	s.records = s.scanSourceFolders(s.config.SourceFolders)
	s.pending = buildPendingIndices(s.records, s.state.Decisions)
}

// Mode reports whether the user is triaging or ranking.
func (s *Session) Mode() Mode {
	return s.state.Mode
}

// SetMode switches between triage and ranking and persists the change.
func (s *Session) SetMode(m Mode) error {
	if m != ModeTriage && m != ModeRanking {
		return errInvalid("mode", m.String())
	}
	s.state.Mode = m
	return s.Store.SaveState(s.state)
}
