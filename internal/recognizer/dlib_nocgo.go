//go:build !cgo

package recognizer

import (
	"context"
	"errors"
	"image"
)

// Dlib recognizes faces using the dlib ResNet model via go-face.
// go-face requires cgo; in builds without cgo this placeholder keeps the
// API intact and NewDlib reports that dlib support is unavailable.
type Dlib struct{}

var _ Provider = (*Dlib)(nil)

var errNoCgo = errors.New("dlib recognizer requires a build with cgo enabled")

// NewDlib loads the dlib models from modelDir.
func NewDlib(modelDir string) (*Dlib, error) {
	return nil, errNoCgo
}

// Close releases the dlib recognizer resources.
func (d *Dlib) Close() error { return nil }

func (d *Dlib) Name() string { return "dlib_resnet_v1" }

func (d *Dlib) Mock() bool { return false }

// Locate finds all faces in the image.
func (d *Dlib) Locate(ctx context.Context, img image.Image) ([]Region, error) {
	return nil, errNoCgo
}

// Encode produces the 128-dim template for the face in the given region.
func (d *Dlib) Encode(ctx context.Context, img image.Image, region Region) (Template, error) {
	return nil, errNoCgo
}
