//go:build cgo

package recognizer

import (
	"context"
	"fmt"
	"image"
	"sync"

	goface "github.com/Kagami/go-face"

	"github.com/facegate/facegate/internal/imaging"
)

// Dlib recognizes faces using the dlib ResNet model via go-face.
// The model directory must contain shape_predictor_5_face_landmarks.dat
// and dlib_face_recognition_resnet_model_v1.dat.
type Dlib struct {
	rec *goface.Recognizer
	mu  sync.Mutex
}

var _ Provider = (*Dlib)(nil)

// NewDlib loads the dlib models from modelDir.
func NewDlib(modelDir string) (*Dlib, error) {
	rec, err := goface.NewRecognizer(modelDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load face recognition models from %s: %w", modelDir, err)
	}
	return &Dlib{rec: rec}, nil
}

// Close releases the dlib recognizer resources.
func (d *Dlib) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.rec != nil {
		d.rec.Close()
		d.rec = nil
	}
	return nil
}

func (d *Dlib) Name() string { return "dlib_resnet_v1" }

func (d *Dlib) Mock() bool { return false }

// recognize runs dlib detection on the image. go-face consumes JPEG bytes,
// so the image is re-encoded first. The recognizer handle is not
// thread-safe, hence the mutex.
func (d *Dlib) recognize(ctx context.Context, img image.Image) ([]goface.Face, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := imaging.EncodeJPEG(img)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.rec == nil {
		return nil, fmt.Errorf("recognizer is closed")
	}

	faces, err := d.rec.Recognize(data)
	if err != nil {
		return nil, fmt.Errorf("face detection failed: %w", err)
	}
	return faces, nil
}

// Locate finds all faces in the image.
func (d *Dlib) Locate(ctx context.Context, img image.Image) ([]Region, error) {
	faces, err := d.recognize(ctx, img)
	if err != nil {
		return nil, err
	}

	regions := make([]Region, len(faces))
	for i, f := range faces {
		regions[i] = Region{Rect: f.Rectangle}
	}
	return regions, nil
}

// Encode produces the 128-dim template for the face in the given region.
// Detection runs again and the face whose rectangle matches the region is
// picked; dlib detection is deterministic for a fixed input.
func (d *Dlib) Encode(ctx context.Context, img image.Image, region Region) (Template, error) {
	faces, err := d.recognize(ctx, img)
	if err != nil {
		return nil, err
	}
	if len(faces) == 0 {
		return nil, ErrNoFaceDetected
	}

	for _, f := range faces {
		if f.Rectangle == region.Rect {
			return descriptorToTemplate(f.Descriptor), nil
		}
	}

	// Region did not match any detection, fall back to the largest face.
	best := faces[0]
	for _, f := range faces[1:] {
		if area(f.Rectangle) > area(best.Rectangle) {
			best = f
		}
	}
	return descriptorToTemplate(best.Descriptor), nil
}

func area(r image.Rectangle) int {
	return r.Dx() * r.Dy()
}

func descriptorToTemplate(d goface.Descriptor) Template {
	t := make(Template, TemplateDim)
	copy(t, d[:])
	return t
}
