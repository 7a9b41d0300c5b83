package phototinder

import (
	"os"
	"time"

	"github.com/bep/imagemeta"
)

// PhotoMeta holds the EXIF fields the photo browser cares about.
type PhotoMeta struct {
	CaptureTime time.Time
	CameraModel string
}

// wantedEXIFTags lists the only tags the decoder should hand over.
var wantedEXIFTags = map[string]bool{
	"DateTimeOriginal": true,
	"Model":            true,
}

// ReadPhotoMeta extracts capture time and camera model from a photo
// file's EXIF data. Returns nil when the file cannot be read, has no
// EXIF, or carries none of the wanted tags, never an error; the caller
// falls back to file mtime.
func ReadPhotoMeta(path string) *PhotoMeta {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	meta := &PhotoMeta{}
	found := false

	err = imagemeta.Decode(imagemeta.Options{
		R:       f,
		Sources: imagemeta.EXIF,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			return wantedEXIFTags[ti.Tag]
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			switch ti.Tag {
			case "DateTimeOriginal":
				if t := tagValueTime(ti.Value); !t.IsZero() {
					meta.CaptureTime = t
					found = true
				}
			case "Model":
				if s, ok := ti.Value.(string); ok && s != "" {
					meta.CameraModel = s
					found = true
				}
			}
			return nil
		},
	})
	if err != nil || !found {
		return nil
	}
	return meta
}

// tagValueTime extracts a timestamp from a tag value. EXIF date tags
// arrive either pre-parsed or as the raw "2006:01:02 15:04:05" string.
func tagValueTime(v any) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case string:
		t, err := time.Parse("2006:01:02 15:04:05", val)
		if err != nil {
			return time.Time{}
		}
		return t
	default:
		return time.Time{}
	}
}
