package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// testPNG returns a base64-encoded PNG of the given size.
func testPNG(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecode_PlainBase64(t *testing.T) {
	img, err := Decode(testPNG(t, 10, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 10 {
		t.Errorf("expected 10x10 image, got %v", img.Bounds())
	}
}

func TestDecode_DataURI(t *testing.T) {
	raw := "data:image/png;base64," + testPNG(t, 8, 6)

	img, err := Decode(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Errorf("expected 8x6 image, got %v", img.Bounds())
	}
}

func TestDecode_InvalidBase64(t *testing.T) {
	_, err := Decode("this is not base64!!!")
	if !errors.Is(err, ErrInvalidImage) {
		t.Errorf("expected ErrInvalidImage, got %v", err)
	}
}

func TestDecode_ValidBase64InvalidImage(t *testing.T) {
	raw := base64.StdEncoding.EncodeToString([]byte("plain text, not pixels"))

	_, err := Decode(raw)
	if !errors.Is(err, ErrInvalidImage) {
		t.Errorf("expected ErrInvalidImage, got %v", err)
	}
}

func TestDecode_EmptyString(t *testing.T) {
	_, err := Decode("")
	if !errors.Is(err, ErrInvalidImage) {
		t.Errorf("expected ErrInvalidImage, got %v", err)
	}
}

func TestToRGBA_AlreadyRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if got := ToRGBA(img); got != img {
		t.Error("expected RGBA input to be returned unchanged")
	}
}

func TestToRGBA_ConvertsGray(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 5, 5))
	gray.SetGray(2, 2, color.Gray{Y: 200})

	rgba := ToRGBA(gray)

	if rgba.Bounds() != gray.Bounds() {
		t.Errorf("expected bounds %v, got %v", gray.Bounds(), rgba.Bounds())
	}
	r, g, b, _ := rgba.At(2, 2).RGBA()
	if r != g || g != b {
		t.Error("expected gray pixel to stay gray after conversion")
	}
}

func TestResize_NoResizeNeeded(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))
	if got := Resize(img, 200); got != img {
		t.Error("expected small image to be returned unchanged")
	}
}

func TestResize_Landscape(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 200))

	resized := Resize(img, 100)

	if resized.Bounds().Dx() != 100 {
		t.Errorf("expected width 100, got %d", resized.Bounds().Dx())
	}
	if resized.Bounds().Dy() != 50 {
		t.Errorf("expected height 50, got %d", resized.Bounds().Dy())
	}
}

func TestResize_Portrait(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 400))

	resized := Resize(img, 100)

	if resized.Bounds().Dx() != 50 {
		t.Errorf("expected width 50, got %d", resized.Bounds().Dx())
	}
	if resized.Bounds().Dy() != 100 {
		t.Errorf("expected height 100, got %d", resized.Bounds().Dy())
	}
}

func TestEncodeJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))

	data, err := EncodeJPEG(img)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty JPEG data")
	}

	// JPEG magic bytes
	if data[0] != 0xFF || data[1] != 0xD8 {
		t.Error("expected JPEG SOI marker")
	}
}

func TestDecode_RoundTripThroughResize(t *testing.T) {
	img, err := Decode(testPNG(t, 300, 150))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resized := Resize(ToRGBA(img), 100)
	if resized.Bounds().Dx() != 100 || resized.Bounds().Dy() != 50 {
		t.Errorf("expected 100x50 after resize, got %v", resized.Bounds())
	}

	if _, err := EncodeJPEG(resized); err != nil {
		t.Fatalf("unexpected error encoding: %v", err)
	}
}
