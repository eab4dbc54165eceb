package match

import "math"

// EuclideanDistance computes the Euclidean distance between two templates.
// Mismatched or empty vectors yield the maximum distance so they can
// never win a comparison.
func EuclideanDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.MaxFloat64
	}

	var sum float64
	for i := range a {
		diff := float64(a[i]) - float64(b[i])
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// ConfidenceFromDistance maps a face distance to a 0-100 display score
// using the linear heuristic (1 - distance) * 100, clamped. The score is
// a UI aid, not a calibrated probability.
func ConfidenceFromDistance(distance float64) float64 {
	confidence := (1 - distance) * 100
	if confidence < 0 {
		return 0
	}
	if confidence > 100 {
		return 100
	}
	return confidence
}
