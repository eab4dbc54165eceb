// Package match compares probe face templates against enrolled templates
// and decides whether a claimed identity is verified.
package match

import (
	"math"

	"github.com/facegate/facegate/internal/database"
)

// DefaultThreshold is the maximum accepted face distance. A probe matches
// only when its best distance is strictly below the threshold.
const DefaultThreshold = 0.6

// Rejection reasons carried on a Result.
const (
	ReasonNoEnrolledTemplates = "no_enrolled_templates"
	ReasonDistanceTooFar      = "distance_above_threshold"
	ReasonIdentityMismatch    = "identity_mismatch"
)

// Result is the outcome of matching a probe against the enrolled set.
type Result struct {
	StudentID   string
	StudentName string
	Distance    float64
	Confidence  float64
	Accepted    bool
	Reason      string // set when Accepted is false
}

// Best scans the snapshot sequentially and returns the closest enrolled
// template. Ties keep the first candidate in snapshot order, which is
// deterministic because snapshots are ordered by student ID ascending.
func Best(probe []float32, snapshot []database.StoredTemplate, threshold float64) Result {
	if len(snapshot) == 0 {
		return Result{
			Distance: math.MaxFloat64,
			Reason:   ReasonNoEnrolledTemplates,
		}
	}

	bestIdx := -1
	bestDist := math.MaxFloat64
	for i := range snapshot {
		dist := EuclideanDistance(probe, snapshot[i].Embedding)
		if dist < bestDist {
			bestDist = dist
			bestIdx = i
		}
	}

	result := Result{
		Distance:   bestDist,
		Confidence: ConfidenceFromDistance(bestDist),
	}
	if bestIdx >= 0 {
		result.StudentID = snapshot[bestIdx].StudentID
		result.StudentName = snapshot[bestIdx].Name
	}

	if bestDist < threshold {
		result.Accepted = true
	} else {
		result.Reason = ReasonDistanceTooFar
	}
	return result
}

// Gate cross-checks a match result against the identity the caller
// claims. An empty claim skips the check and the match stands on its
// own. A mismatch downgrades the result to rejected; the matched
// identity stays on the returned Result for diagnostic logging but must
// not be serialized to the caller.
func Gate(result Result, claimedID string) Result {
	if !result.Accepted || claimedID == "" {
		return result
	}
	if result.StudentID != claimedID {
		result.Accepted = false
		result.Reason = ReasonIdentityMismatch
	}
	return result
}
