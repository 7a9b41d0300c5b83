package phototinder

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// BrowsePhoto is one photo browser row. Rating fields are nil until a
// ranking episode has covered the photo.
type BrowsePhoto struct {
	ID       string   `json:"id"`
	Filename string   `json:"filename"`
	FilePath string   `json:"file_path"`
	Mu       *float64 `json:"mu,omitempty"`
	Sigma    *float64 `json:"sigma,omitempty"`
	Score    *float64 `json:"score,omitempty"`
	Matches  *int     `json:"matches,omitempty"`
}

// BrowsePage is one page of the photo browser.
type BrowsePage struct {
	Photos     []BrowsePhoto `json:"photos"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	TotalPages int           `json:"total_pages"`
}

// ListPhotos pages through the accepted or rejected folder. sortKey is
// one of "ranking" (best first), "ranking_asc" (worst first), "recent"
// (EXIF capture time, falling back to file mtime), or "name" (the
// default, case-insensitive). Pages are 1-based.
func (s *Session) ListPhotos(status Decision, sortKey string, page, perPage int) (BrowsePage, error) {
	var folder string
	switch status {
	case DecisionAccepted:
		folder = s.config.AcceptedFolder
	case DecisionRejected:
		folder = s.config.RejectedFolder
	default:
		return BrowsePage{}, errInvalid("status", status.String())
	}
	if perPage < 1 {
		return BrowsePage{}, errInvalid("per_page", "< 1")
	}

	var ratings map[string]*PhotoRating
	if s.state.Ranking.Initialized {
		ratings = s.state.Ranking.Ratings
	}

	scanned := scanPhotoDir(folder)
	photos := make([]BrowsePhoto, 0, len(scanned))
	for id, path := range scanned {
		p := BrowsePhoto{
			ID:       id,
			Filename: filepath.Base(path),
			FilePath: path,
		}
		if r, ok := ratings[id]; ok {
			mu, sigma := round1(r.Mu), round1(r.Sigma)
			score := round1(ConservativeScore(r.Mu, r.Sigma))
			matches := r.MatchesPlayed
			p.Mu, p.Sigma, p.Score, p.Matches = &mu, &sigma, &score, &matches
		}
		photos = append(photos, p)
	}

	sortBrowsePhotos(photos, sortKey)

	total := len(photos)
	totalPages := 1
	if total > 0 {
		totalPages = (total + perPage - 1) / perPage
	}

	start := (page - 1) * perPage
	if start < 0 {
		start = 0
	}
	end := start + perPage
	if end > total {
		end = total
	}
	pagePhotos := []BrowsePhoto{}
	if start < total {
		pagePhotos = photos[start:end]
	}

	return BrowsePage{
		Photos:     pagePhotos,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

func sortBrowsePhotos(photos []BrowsePhoto, sortKey string) {
	switch sortKey {
	case "ranking":
		sort.SliceStable(photos, func(i, j int) bool {
			return browseScore(photos[i]) > browseScore(photos[j])
		})
	case "ranking_asc":
		sort.SliceStable(photos, func(i, j int) bool {
			return browseScore(photos[i]) < browseScore(photos[j])
		})
	case "recent":
		times := make(map[string]time.Time, len(photos))
		for _, p := range photos {
			times[p.ID] = photoTime(p.FilePath)
		}
		sort.SliceStable(photos, func(i, j int) bool {
			return times[photos[i].ID].After(times[photos[j].ID])
		})
	default:
		sort.SliceStable(photos, func(i, j int) bool {
			return strings.ToLower(photos[i].Filename) < strings.ToLower(photos[j].Filename)
		})
	}
}

func browseScore(p BrowsePhoto) float64 {
	if p.Score == nil {
		return 0
	}
	return *p.Score
}

// photoTime is the EXIF capture time when present, else file mtime,
// else the zero time.
func photoTime(path string) time.Time {
	if meta := ReadPhotoMeta(path); meta != nil && !meta.CaptureTime.IsZero() {
		return meta.CaptureTime
	}
	if fi, err := os.Stat(path); err == nil {
		return fi.ModTime()
	}
	return time.Time{}
}

