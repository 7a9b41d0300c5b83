package phototinder

import (
	"crypto/md5"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// supportedExtensions covers common formats, modern formats, and RAW
// formats from the major camera manufacturers.
var supportedExtensions = map[string]bool{
	// Common formats
	"jpg": true, "jpeg": true, "png": true, "webp": true,
	"gif": true, "bmp": true, "tiff": true, "tif": true,
	// Modern formats
	"heic": true, "heif": true, "avif": true, "jxl": true,
	// RAW formats
	"raw": true,
	"cr2": true, "cr3": true, "crw": true, // Canon
	"nef": true, "nrw": true, // Nikon
	"arw": true, "srf": true, "sr2": true, // Sony
	"orf": true, // Olympus
	"rw2": true, // Panasonic
	"raf": true, // Fujifilm
	"pef": true, "ptx": true, // Pentax
	"srw": true, // Samsung
	"x3f": true, // Sigma
	"dng": true, // Adobe DNG (universal RAW)
	"3fr": true, "fff": true, // Hasselblad
	"iiq": true, // Phase One
	"rwl": true, // Leica
	"dcr": true, "kdc": true, // Kodak
	"erf": true, // Epson
	"mrw": true, // Minolta
	"bay": true, // Casio
	"ari": true, // Arri
}

func supportedImage(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return supportedExtensions[ext]
}

// PhotoID derives a photo's id from its cleaned path string: first 12
// hex characters of the path's md5. The id is content-independent, so
// moving or renaming a file outside the tool yields a new id and
// orphans the old one's rating and cluster history.
func PhotoID(path string) string {
	sum := md5.Sum([]byte(filepath.Clean(path)))
	return hex.EncodeToString(sum[:])[:12]
}

// ImageRecord is one photo discovered under a source folder.
type ImageRecord struct {
	ID           string `json:"id"`
	SourceFolder string `json:"source_folder"`
	RelativePath string `json:"relative_path"`
}

func (r ImageRecord) FullPath() string {
	return filepath.Join(r.SourceFolder, r.RelativePath)
}

func (r ImageRecord) Filename() string {
	return filepath.Base(r.RelativePath)
}

func (r ImageRecord) SourceName() string {
	return filepath.Base(r.SourceFolder)
}

// scanSourceFolders walks every source folder recursively and
// interleaves the results round-robin across folders, so triage
// alternates between sources instead of draining one at a time.
// A missing folder is skipped with a warning. WalkDir visits entries
// in lexical order, so the result is deterministic for a given tree.
func (s *Session) scanSourceFolders(folders []string) []ImageRecord {
	perFolder := make([][]ImageRecord, len(folders))

	for i, folder := range folders {
		if _, err := os.Stat(folder); err != nil {
			s.logger().Warn("source folder missing", "folder", folder)
			continue
		}

		_ = filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !supportedImage(path) {
				return nil //nolint:nilerr // unreadable entries are skipped, not fatal
			}
			rel, err := filepath.Rel(folder, path)
			if err != nil {
				return nil
			}
			perFolder[i] = append(perFolder[i], ImageRecord{
				ID:           PhotoID(path),
				SourceFolder: folder,
				RelativePath: rel,
			})
			return nil
		})
	}

	maxLen := 0
	for _, imgs := range perFolder {
		if len(imgs) > maxLen {
			maxLen = len(imgs)
		}
	}

	var interleaved []ImageRecord
	for i := 0; i < maxLen; i++ {
		for _, imgs := range perFolder {
			if i < len(imgs) {
				interleaved = append(interleaved, imgs[i])
			}
		}
	}
	return interleaved
}

// scanPhotoDir lists the supported images directly inside a destination
// folder (non-recursive) as a photo id to absolute path map. Used for the
// ranking phase over the accepted folder and the photo browser.
func scanPhotoDir(folder string) map[string]string {
	photos := make(map[string]string)
	entries, err := os.ReadDir(folder)
	if err != nil {
		return photos
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(folder, e.Name())
		if supportedImage(path) {
			photos[PhotoID(path)] = path
		}
	}
	return photos
}

// buildPendingIndices lists the record indices still needing a triage
// verdict: undecided photos, plus skipped ones recycled back into the
// queue, as long as the file still exists on disk.
func buildPendingIndices(records []ImageRecord, decisions map[string]Decision) []int {
	var pending []int
	for i, r := range records {
		switch decisions[r.ID] {
		case DecisionPending, DecisionSkipped:
			if _, err := os.Stat(r.FullPath()); err == nil {
				pending = append(pending, i)
			}
		}
	}
	return pending
}

// currentRecord resolves the triage cursor against the pending queue,
// wrapping an out-of-range cursor back to the front.
func currentRecord(records []ImageRecord, pending []int, cursor int) *ImageRecord {
	if len(pending) == 0 {
		return nil
	}
	if cursor >= len(pending) {
		cursor = 0
	}
	return &records[pending[cursor]]
}
