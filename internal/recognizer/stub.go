package recognizer

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"image"
)

// Stub is a deterministic in-memory recognizer used in tests and when no
// dlib model directory is configured. Templates are derived from the image
// pixels, so the same picture always produces the same template.
type Stub struct {
	// FaceCount is the number of faces Locate reports (default 1).
	FaceCount int

	// Error injection
	LocateError error
	EncodeError error
}

var _ Provider = (*Stub)(nil)

// NewStub creates a stub recognizer reporting exactly one face per image.
func NewStub() *Stub {
	return &Stub{FaceCount: 1}
}

func (s *Stub) Name() string { return "stub" }

func (s *Stub) Mock() bool { return true }

// Locate reports FaceCount synthetic regions spread across the image.
func (s *Stub) Locate(ctx context.Context, img image.Image) ([]Region, error) {
	if s.LocateError != nil {
		return nil, s.LocateError
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	count := s.FaceCount
	if count < 0 {
		count = 0
	}

	bounds := img.Bounds()
	regions := make([]Region, count)
	for i := range regions {
		regions[i] = Region{Rect: image.Rect(
			bounds.Min.X+i, bounds.Min.Y,
			bounds.Min.X+i+max(bounds.Dx()-i, 1), bounds.Max.Y,
		)}
	}
	return regions, nil
}

// Encode derives a template from a digest of the image pixels. Values are
// scaled into [0, 1) so distances between different images land in the
// same range as real descriptors.
func (s *Stub) Encode(ctx context.Context, img image.Image, region Region) (Template, error) {
	if s.EncodeError != nil {
		return nil, s.EncodeError
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	digest := hashImage(img)
	t := make(Template, TemplateDim)
	for i := range t {
		// Stretch the 32-byte digest across 128 dimensions by re-hashing
		// the digest with the dimension index.
		var seed [36]byte
		copy(seed[:32], digest[:])
		binary.BigEndian.PutUint32(seed[32:], uint32(i))
		h := sha256.Sum256(seed[:])
		t[i] = float32(binary.BigEndian.Uint16(h[:2])) / 65536.0
	}
	return t, nil
}

func hashImage(img image.Image) [32]byte {
	h := sha256.New()
	bounds := img.Bounds()
	var px [8]byte
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			binary.BigEndian.PutUint16(px[0:], uint16(r))
			binary.BigEndian.PutUint16(px[2:], uint16(g))
			binary.BigEndian.PutUint16(px[4:], uint16(b))
			binary.BigEndian.PutUint16(px[6:], uint16(a))
			h.Write(px[:])
		}
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}
