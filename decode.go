package phototinder

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/webp"
)

// ImageDecoder turns a photo file into decoded pixels. Used by the
// fingerprint hasher and the triage duplicate filter.
type ImageDecoder interface {
	Decode(path string) (image.Image, error)
}

// fileDecoder decodes via the registered stdlib formats plus webp.
// RAW and HEIC files are scanned and triaged but cannot be decoded
// here; they simply go unhashed (and unclustered).
type fileDecoder struct{}

func (fileDecoder) Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// fingerprintFile hashes one photo file. A decode failure is not an
// error: the photo is logged and excluded from clustering, but can
// still be rated.
func (s *Session) fingerprintFile(path string) string {
	img, err := s.Decoder.Decode(path)
	if err != nil {
		s.logger().Warn("could not hash image", "path", path, "error", err)
		return ""
	}
	return ComputeFingerprint(img)
}
