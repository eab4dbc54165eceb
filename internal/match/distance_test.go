package match

import (
	"math"
	"testing"
)

func TestEuclideanDistance_Identical(t *testing.T) {
	a := []float32{0.1, 0.2, 0.3}

	if d := EuclideanDistance(a, a); d != 0 {
		t.Errorf("expected distance 0 for identical vectors, got %f", d)
	}
}

func TestEuclideanDistance_KnownValue(t *testing.T) {
	a := []float32{0, 0, 0}
	b := []float32{3, 4, 0}

	if d := EuclideanDistance(a, b); math.Abs(d-5) > 1e-9 {
		t.Errorf("expected distance 5, got %f", d)
	}
}

func TestEuclideanDistance_Symmetric(t *testing.T) {
	a := []float32{0.5, -0.2, 0.9}
	b := []float32{-0.1, 0.4, 0.3}

	if EuclideanDistance(a, b) != EuclideanDistance(b, a) {
		t.Error("expected distance to be symmetric")
	}
}

func TestEuclideanDistance_MismatchedLengths(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{1, 2}

	if d := EuclideanDistance(a, b); d != math.MaxFloat64 {
		t.Errorf("expected max distance for mismatched lengths, got %f", d)
	}
}

func TestEuclideanDistance_EmptyVectors(t *testing.T) {
	if d := EuclideanDistance(nil, nil); d != math.MaxFloat64 {
		t.Errorf("expected max distance for empty vectors, got %f", d)
	}
	if d := EuclideanDistance([]float32{}, []float32{}); d != math.MaxFloat64 {
		t.Errorf("expected max distance for zero-length vectors, got %f", d)
	}
}

func TestConfidenceFromDistance(t *testing.T) {
	tests := []struct {
		distance float64
		want     float64
	}{
		{0.0, 100},
		{0.4, 60},
		{0.6, 40},
		{1.0, 0},
		{1.5, 0},   // clamped low
		{-0.5, 100}, // clamped high
	}

	for _, tt := range tests {
		got := ConfidenceFromDistance(tt.distance)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ConfidenceFromDistance(%f) = %f, want %f", tt.distance, got, tt.want)
		}
	}
}
