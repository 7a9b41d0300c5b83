package phototinder

import (
	"fmt"
	"os"
)

// Config is the user's folder setup. It is one of the three persisted
// documents and is rewritten whole on every change.
type Config struct {
	SourceFolders  []string `json:"source_folders"`
	AcceptedFolder string   `json:"accepted_folder"`
	RejectedFolder string   `json:"rejected_folder"`
}

// Valid reports whether triage can run: at least one source folder and
// both destinations set.
func (c Config) Valid() bool {
	return len(c.SourceFolders) > 0 && c.AcceptedFolder != "" && c.RejectedFolder != ""
}

// Config returns the session's current configuration.
func (s *Session) Config() Config {
	return s.config
}

// SetConfig replaces the configuration, persists it, and rescans the
// sources.
func (s *Session) SetConfig(cfg Config) error {
	s.config = cfg
	if err := s.Store.SaveConfig(s.config); err != nil {
		return err
	}
	s.rescan()
	return nil
}

// AddSourceFolder registers a new triage source and rescans.
func (s *Session) AddSourceFolder(path string) error {
	if _, err := os.Stat(path); err != nil {
		return errMissing("folder", path)
	}
	for _, f := range s.config.SourceFolders {
		if f == path {
			return fmt.Errorf("%w: folder already added: %s", ErrInvalidInput, path)
		}
	}
	s.config.SourceFolders = append(s.config.SourceFolders, path)
	if err := s.Store.SaveConfig(s.config); err != nil {
		return err
	}
	s.rescan()
	return nil
}

// RemoveSourceFolder drops a triage source. With clearDecisions the
// folder's photos also lose their triage verdicts and move bookkeeping.
func (s *Session) RemoveSourceFolder(path string, clearDecisions bool) error {
	found := false
	kept := s.config.SourceFolders[:0]
	for _, f := range s.config.SourceFolders {
		if f == path {
			found = true
			continue
		}
		kept = append(kept, f)
	}
	if !found {
		return errMissing("folder", path)
	}

	if clearDecisions {
		for _, r := range s.records {
			if r.SourceFolder != path {
				continue
			}
			delete(s.state.Decisions, r.ID)
			delete(s.state.MovedFiles, r.ID)
			delete(s.state.OriginalPaths, r.ID)
		}
	}

	s.config.SourceFolders = kept
	if err := s.Store.SaveConfig(s.config); err != nil {
		return err
	}
	if err := s.Store.SaveState(s.state); err != nil {
		return err
	}
	s.rescan()
	return nil
}

// SetDestinationFolder points the accepted or rejected destination at
// path, creating it if needed. kind is "accepted" or "rejected".
func (s *Session) SetDestinationFolder(kind, path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	switch kind {
	case "accepted":
		s.config.AcceptedFolder = path
	case "rejected":
		s.config.RejectedFolder = path
	default:
		return errInvalid("folder type", kind)
	}
	return s.Store.SaveConfig(s.config)
}
