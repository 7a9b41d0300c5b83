package phototinder

// DecisionRecord is one triage verdict in the undo journal, with the
// decision it replaced.
type DecisionRecord struct {
	PhotoID string   `json:"photo_id"`
	From    Decision `json:"from"`
	To      Decision `json:"to"`
}

// TriageStats summarizes triage progress.
type TriageStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Accepted  int `json:"accepted"`
	Rejected  int `json:"rejected"`
	Skipped   int `json:"skipped"`
	Processed int `json:"processed"`
}

// ImageInfo describes the photo currently up for triage. Done means
// the queue is empty.
type ImageInfo struct {
	Done         bool        `json:"done"`
	ID           string      `json:"id,omitempty"`
	Index        int         `json:"index"`
	TotalPending int         `json:"total_pending"`
	TotalImages  int         `json:"total_images"`
	Filename     string      `json:"filename,omitempty"`
	SourceFolder string      `json:"source_folder,omitempty"`
	FilePath     string      `json:"file_path,omitempty"`
	Stats        TriageStats `json:"stats"`
	Message      string      `json:"message,omitempty"`
}

// SwipeResult reports an applied triage verdict. Duplicate is set when
// an accepted photo looks perceptually identical to an earlier accept.
type SwipeResult struct {
	Decision  Decision `json:"decision"`
	Duplicate bool     `json:"duplicate,omitempty"`
}

// TriageStats computes the current triage counters.
func (s *Session) TriageStats() TriageStats {
	stats := TriageStats{Total: len(s.records)}
	for _, d := range s.state.Decisions {
		switch d {
		case DecisionAccepted:
			stats.Accepted++
		case DecisionRejected:
			stats.Rejected++
		case DecisionSkipped:
			stats.Skipped++
		}
	}
	stats.Processed = stats.Accepted + stats.Rejected + stats.Skipped
	stats.Pending = stats.Total - stats.Processed
	if stats.Pending < 0 {
		stats.Pending = 0
	}
	return stats
}

// CurrentImage returns the photo at the triage cursor, or a done
// result when the queue is empty.
func (s *Session) CurrentImage() ImageInfo {
	stats := s.TriageStats()

	record := currentRecord(s.records, s.pending, s.state.CurrentIndex)
	if record == nil {
		return ImageInfo{
			Done:        true,
			TotalImages: len(s.records),
			Stats:       stats,
			Message:     "All images have been triaged!",
		}
	}
	return ImageInfo{
		ID:           record.ID,
		Index:        s.state.CurrentIndex,
		TotalPending: len(s.pending),
		TotalImages:  len(s.records),
		Filename:     record.Filename(),
		SourceFolder: record.SourceName(),
		FilePath:     record.FullPath(),
		Stats:        stats,
	}
}

// PreloadPaths lists up to n upcoming photo paths after the cursor, so
// the shell can warm its image cache.
func (s *Session) PreloadPaths(n int) []string {
	var paths []string
	for i := 1; i <= n; i++ {
		idx := s.state.CurrentIndex + i
		if idx >= len(s.pending) {
			break
		}
		paths = append(paths, s.records[s.pending[idx]].FullPath())
	}
	return paths
}

// Swipe applies a triage verdict: left rejects, right accepts, down
// skips. Accept and reject relocate the file and remember both paths
// for undo; the verdict and its predecessor go on the bounded journal.
func (s *Session) Swipe(imageID, direction string) (SwipeResult, error) {
	decision, err := ParseDirection(direction)
	if err != nil {
		return SwipeResult{}, err
	}

	var record *ImageRecord
	for i := range s.records {
		if s.records[i].ID == imageID {
			record = &s.records[i]
			break
		}
	}
	if record == nil {
		return SwipeResult{}, errMissing("image", imageID)
	}

	old := s.state.Decisions[imageID]
	result := SwipeResult{Decision: decision}

	if decision.moved() {
		destDir := s.config.RejectedFolder
		if decision == DecisionAccepted {
			destDir = s.config.AcceptedFolder
		}
		newPath, err := s.Files.Move(record.FullPath(), destDir)
		if err != nil {
			return SwipeResult{}, err
		}
		s.state.OriginalPaths[imageID] = record.FullPath()
		s.state.MovedFiles[imageID] = newPath

		if decision == DecisionAccepted {
			result.Duplicate = s.checkAcceptedDuplicate(newPath)
		}
	}

	s.state.Decisions[imageID] = decision
	s.state.History.Push(DecisionRecord{PhotoID: imageID, From: old, To: decision})
	s.pending = buildPendingIndices(s.records, s.state.Decisions)

	if err := s.Store.SaveState(s.state); err != nil {
		return result, err
	}
	return result, nil
}

// UndoSwipe takes back the latest triage verdict: the file move is
// reversed through the file manager, the prior decision restored, and
// the cursor repositioned on the undone photo. An empty journal is a
// "nothing to undo" result, not an error.
func (s *Session) UndoSwipe() (UndoResult, error) {
	record, ok := s.state.History.Pop()
	if !ok {
		return UndoResult{Message: "nothing to undo"}, nil
	}

	if record.To.moved() {
		movedPath, hasMoved := s.state.MovedFiles[record.PhotoID]
		originalPath, hasOriginal := s.state.OriginalPaths[record.PhotoID]
		if hasMoved && hasOriginal {
			if err := s.Files.Restore(movedPath, originalPath); err != nil {
				return UndoResult{}, err
			}
			delete(s.state.MovedFiles, record.PhotoID)
			delete(s.state.OriginalPaths, record.PhotoID)
		}
	}

	if record.From == DecisionPending {
		delete(s.state.Decisions, record.PhotoID)
	} else {
		s.state.Decisions[record.PhotoID] = record.From
	}

	s.pending = buildPendingIndices(s.records, s.state.Decisions)
	for i, idx := range s.pending {
		if s.records[idx].ID == record.PhotoID {
			s.state.CurrentIndex = i
			break
		}
	}

	if err := s.Store.SaveState(s.state); err != nil {
		return UndoResult{}, err
	}
	return UndoResult{
		Undone:  true,
		Message: "undone: " + record.To.String() + " -> " + record.From.String(),
		PhotoID: record.PhotoID,
	}, nil
}
