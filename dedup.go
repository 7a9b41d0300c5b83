package phototinder

import (
	"image"

	"github.com/corona10/goimagehash"
)

// duplicateFilter flags photos perceptually identical to earlier
// accepted ones, using a quick 64-bit dHash (the fine-grained 256-bit
// fingerprint is reserved for ranking-phase clustering). It builds up
// over the accepts of one session and shares the session's
// single-writer discipline; no internal locking.
type duplicateFilter struct {
	hashes []*goimagehash.ImageHash
}

// isDuplicate returns true if img is perceptually identical to a
// previously seen image. If hashing fails for any reason, the image is
// treated as unique (graceful degradation). Unique images have their
// hash stored for future comparisons.
func (d *duplicateFilter) isDuplicate(img image.Image) bool {
	hash, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return false
	}

	for _, h := range d.hashes {
		dist, err := hash.Distance(h)
		if err == nil && dist < HammingThreshold {
			return true
		}
	}

	d.hashes = append(d.hashes, hash)
	return false
}

// checkAcceptedDuplicate runs the filter for a freshly accepted photo.
// Decode failures count as unique.
func (s *Session) checkAcceptedDuplicate(path string) bool {
	img, err := s.Decoder.Decode(path)
	if err != nil {
		return false
	}
	dup := s.dups.isDuplicate(img)
	if dup {
		s.logger().Warn("accepted photo looks identical to an earlier accept", "path", path)
	}
	return dup
}
