package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/facegate/facegate/internal/attendance"
	"github.com/facegate/facegate/internal/config"
	"github.com/facegate/facegate/internal/database"
	"github.com/facegate/facegate/internal/imaging"
	"github.com/facegate/facegate/internal/match"
	"github.com/facegate/facegate/internal/recognizer"
)

// VerifyHandler verifies a claimed identity against enrolled templates
// and records attendance on success.
type VerifyHandler struct {
	config    *config.Config
	provider  recognizer.Provider
	templates database.TemplateReader
	ledger    *attendance.Ledger
}

// NewVerifyHandler creates a new verification handler.
func NewVerifyHandler(cfg *config.Config, provider recognizer.Provider, templates database.TemplateReader, ledger *attendance.Ledger) *VerifyHandler {
	return &VerifyHandler{
		config:    cfg,
		provider:  provider,
		templates: templates,
		ledger:    ledger,
	}
}

// VerifyRequest is the verification payload.
type VerifyRequest struct {
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
	Image       string `json:"image"` // base64, optionally a data URI
}

// VerifyResponse is the verification result. A failed match is a normal
// response, not an HTTP error. On identity mismatch the response must
// not reveal who actually matched.
type VerifyResponse struct {
	Success         bool    `json:"success"`
	Verified        bool    `json:"verified"`
	ConfidenceScore float64 `json:"confidenceScore"`
	Message         string  `json:"message"`
	StudentID       string  `json:"studentId,omitempty"`
	StudentName     string  `json:"studentName,omitempty"`
	Status          string  `json:"status,omitempty"`
	AlreadyMarked   bool    `json:"alreadyMarked,omitempty"`
	MockMode        bool    `json:"mock_mode"`
	Timestamp       string  `json:"timestamp,omitempty"`
}

// rejected builds a response for a failed verification attempt.
func (h *VerifyHandler) rejected(confidence float64, message string) VerifyResponse {
	return VerifyResponse{
		Success:         true,
		Verified:        false,
		ConfidenceScore: confidence,
		Message:         message,
		MockMode:        h.provider.Mock(),
	}
}

// Verify handles POST /api/verify-face.
func (h *VerifyHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.StudentID == "" || req.Image == "" {
		respondError(w, http.StatusBadRequest, "studentId and image are required")
		return
	}

	ctx := r.Context()

	img, err := imaging.Decode(req.Image)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid image data")
		return
	}
	prepared := imaging.Resize(imaging.ToRGBA(img), h.config.Recognizer.MaxImageSize)

	region, err := recognizer.LocateSingle(ctx, h.provider, prepared)
	if err != nil {
		switch {
		case errors.Is(err, recognizer.ErrNoFaceDetected):
			respondJSON(w, http.StatusOK, h.rejected(0, "No face detected. Look directly at the camera."))
		case errors.Is(err, recognizer.ErrMultipleFacesDetected):
			respondJSON(w, http.StatusOK, h.rejected(0, "Multiple faces detected. Make sure only you are in the frame."))
		default:
			log.Printf("verification face detection failed for %s: %v", sanitizeForLog(req.StudentID), err)
			respondError(w, http.StatusInternalServerError, "face detection failed")
		}
		return
	}

	probe, err := h.provider.Encode(ctx, prepared, region)
	if err != nil {
		log.Printf("verification encoding failed for %s: %v", sanitizeForLog(req.StudentID), err)
		respondError(w, http.StatusInternalServerError, "face encoding failed")
		return
	}

	snapshot, err := h.templates.All(ctx)
	if err != nil {
		log.Printf("verification snapshot failed for %s: %v", sanitizeForLog(req.StudentID), err)
		respondError(w, http.StatusInternalServerError, "template store unavailable")
		return
	}

	result := match.Best(probe, snapshot, h.config.Match.Threshold)
	result = match.Gate(result, req.StudentID)

	if !result.Accepted {
		switch result.Reason {
		case match.ReasonNoEnrolledTemplates:
			respondJSON(w, http.StatusOK, h.rejected(0, "No enrolled faces yet. Ask an administrator to enroll you."))
		case match.ReasonIdentityMismatch:
			// The matched identity stays in the server log only.
			log.Printf("identity mismatch: claimed %s, matched %s (distance %.4f)",
				sanitizeForLog(req.StudentID), sanitizeForLog(result.StudentID), result.Distance)
			respondJSON(w, http.StatusOK, h.rejected(result.Confidence, "Face does not match the selected student."))
		default:
			respondJSON(w, http.StatusOK, h.rejected(result.Confidence, "Face not recognized. Try again with better lighting."))
		}
		return
	}

	ts := now()
	outcome, status, err := h.ledger.Record(ctx, result.StudentID, result.StudentName, ts, result.Confidence, attendance.MethodFaceRecognition)
	if err != nil {
		log.Printf("attendance recording failed for %s: %v", sanitizeForLog(result.StudentID), err)
		respondError(w, http.StatusInternalServerError, "failed to record attendance")
		return
	}

	message := fmt.Sprintf("Welcome, %s! Attendance recorded.", result.StudentName)
	if status == attendance.StatusLatePresent && outcome == attendance.Recorded {
		message = fmt.Sprintf("Welcome, %s! You are marked late.", result.StudentName)
	}
	if outcome == attendance.AlreadyRecorded {
		message = fmt.Sprintf("Welcome back, %s! Attendance was already recorded today.", result.StudentName)
	}

	respondJSON(w, http.StatusOK, VerifyResponse{
		Success:         true,
		Verified:        true,
		ConfidenceScore: result.Confidence,
		Message:         message,
		StudentID:       result.StudentID,
		StudentName:     result.StudentName,
		Status:          status,
		AlreadyMarked:   outcome == attendance.AlreadyRecorded,
		MockMode:        h.provider.Mock(),
		Timestamp:       ts.Format("2006-01-02T15:04:05Z07:00"),
	})
}
