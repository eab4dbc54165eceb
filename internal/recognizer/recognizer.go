// Package recognizer locates faces in images and encodes them into
// fixed-length biometric templates.
package recognizer

import (
	"context"
	"errors"
	"image"
)

// TemplateDim is the dimensionality of a face template produced by the
// dlib ResNet model.
const TemplateDim = 128

// Template is a fixed-length face descriptor.
type Template []float32

// Region is the bounding box of a detected face in image coordinates.
type Region struct {
	Rect image.Rectangle
}

// ErrNoFaceDetected is returned when no face is found in the image.
var ErrNoFaceDetected = errors.New("no face detected")

// ErrMultipleFacesDetected is returned when more than one face is found.
// Both enrollment and verification require exactly one face.
var ErrMultipleFacesDetected = errors.New("multiple faces detected")

// Provider detects faces and produces templates. Implementations must be
// safe for concurrent use.
type Provider interface {
	// Name identifies the underlying model.
	Name() string
	// Mock reports whether this provider produces synthetic templates.
	Mock() bool
	// Locate finds all faces in the image.
	Locate(ctx context.Context, img image.Image) ([]Region, error)
	// Encode produces a template for the face in the given region.
	Encode(ctx context.Context, img image.Image, region Region) (Template, error)
}

// LocateSingle finds exactly one face in the image. Zero faces yields
// ErrNoFaceDetected, more than one yields ErrMultipleFacesDetected.
func LocateSingle(ctx context.Context, p Provider, img image.Image) (Region, error) {
	regions, err := p.Locate(ctx, img)
	if err != nil {
		return Region{}, err
	}
	if len(regions) == 0 {
		return Region{}, ErrNoFaceDetected
	}
	if len(regions) > 1 {
		return Region{}, ErrMultipleFacesDetected
	}
	return regions[0], nil
}
