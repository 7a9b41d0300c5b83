package phototinder

import (
	"encoding/hex"
	"image"
	"math"
	"math/bits"

	"golang.org/x/image/draw"
)

const (
	// hashSize is the fingerprint grid height: 16 rows of 16 bits = 256 bits.
	hashSize = 16

	// fingerprintHexLen is the length of a valid hex-encoded fingerprint.
	fingerprintHexLen = hashSize * hashSize / 4

	// HammingThreshold is the maximum Hamming distance (out of 256 bits)
	// at which two fingerprints are considered near-duplicates.
	HammingThreshold = 10

	// DistanceInfinite is returned by HammingDistance for fingerprints
	// that cannot be compared. It never matches any threshold.
	DistanceInfinite = math.MaxInt32
)

// ComputeFingerprint derives a 256-bit difference hash from decoded
// image pixels: grayscale, scale to a 17×16 grid with a Catmull-Rom
// kernel, then one bit per adjacent horizontal pair (1 when the left
// pixel is brighter). Returns 64 hex characters, MSB-first per nibble.
// Identical pixels always produce an identical fingerprint.
func ComputeFingerprint(img image.Image) string {
	gray := image.NewGray(image.Rect(0, 0, hashSize+1, hashSize))
	draw.CatmullRom.Scale(gray, gray.Bounds(), img, img.Bounds(), draw.Src, nil)

	out := make([]byte, 0, fingerprintHexLen)
	var nibble byte
	nbits := 0
	for y := 0; y < hashSize; y++ {
		for x := 0; x < hashSize; x++ {
			nibble <<= 1
			if gray.GrayAt(x, y).Y > gray.GrayAt(x+1, y).Y {
				nibble |= 1
			}
			nbits++
			if nbits == 4 {
				out = append(out, hexDigits[nibble])
				nibble, nbits = 0, 0
			}
		}
	}
	return string(out)
}

const hexDigits = "0123456789abcdef"

// HammingDistance counts differing bits between two hex-encoded
// fingerprints (bytewise XOR popcount). It is symmetric and zero for
// identical inputs. Mismatched lengths or non-hex input yield
// DistanceInfinite.
func HammingDistance(a, b string) int {
	if len(a) != len(b) {
		return DistanceInfinite
	}
	ab, err := hex.DecodeString(a)
	if err != nil {
		return DistanceInfinite
	}
	bb, err := hex.DecodeString(b)
	if err != nil {
		return DistanceInfinite
	}
	d := 0
	for i := range ab {
		d += bits.OnesCount8(ab[i] ^ bb[i])
	}
	return d
}
