package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/facegate/facegate/internal/config"
	"github.com/facegate/facegate/internal/database"
	"github.com/facegate/facegate/internal/imaging"
	"github.com/facegate/facegate/internal/recognizer"
)

// EnrollHandler registers students and their face templates.
type EnrollHandler struct {
	config    *config.Config
	provider  recognizer.Provider
	templates database.TemplateWriter
	students  database.StudentWriter
}

// NewEnrollHandler creates a new enrollment handler.
func NewEnrollHandler(cfg *config.Config, provider recognizer.Provider, templates database.TemplateWriter, students database.StudentWriter) *EnrollHandler {
	return &EnrollHandler{
		config:    cfg,
		provider:  provider,
		templates: templates,
		students:  students,
	}
}

// EnrollRequest is the enrollment payload.
type EnrollRequest struct {
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
	Image       string `json:"image"` // base64, optionally a data URI
	Grade       string `json:"grade"`
}

// EnrollResponse is the enrollment result.
type EnrollResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	StudentID string `json:"studentId"`
	MockMode  bool   `json:"mock_mode"`
}

// Upload handles POST /api/admin/upload-student-photo. The photo must
// contain exactly one face; otherwise the store stays unchanged and the
// client gets a corrective message.
func (h *EnrollHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.StudentID == "" || req.StudentName == "" || req.Image == "" {
		respondError(w, http.StatusBadRequest, "studentId, studentName and image are required")
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
			respondError(w, http.StatusBadRequest, "no face detected in photo, use a clear frontal photo")
		case errors.Is(err, recognizer.ErrMultipleFacesDetected):
			respondError(w, http.StatusBadRequest, "multiple faces detected, use a photo with exactly one face")
		default:
			log.Printf("enrollment face detection failed for %s: %v", sanitizeForLog(req.StudentID), err)
			respondError(w, http.StatusInternalServerError, "face detection failed")
		}
		return
	}

	template, err := h.provider.Encode(ctx, prepared, region)
	if err != nil {
		log.Printf("enrollment encoding failed for %s: %v", sanitizeForLog(req.StudentID), err)
		respondError(w, http.StatusInternalServerError, "face encoding failed")
		return
	}

	if err := h.students.UpsertStudent(ctx, database.Student{
		StudentID: req.StudentID,
		Name:      req.StudentName,
		Grade:     req.Grade,
	}); err != nil {
		log.Printf("enrollment roster update failed for %s: %v", sanitizeForLog(req.StudentID), err)
		respondError(w, http.StatusInternalServerError, "failed to update student roster")
		return
	}

	err = h.templates.Enroll(ctx, database.StoredTemplate{
		StudentID: req.StudentID,
		Name:      req.StudentName,
		Embedding: template,
		Dim:       len(template),
		Model:     h.provider.Name(),
	})
	if err != nil {
		if errors.Is(err, database.ErrTemplateShapeMismatch) {
			log.Printf("enrollment shape mismatch for %s: got %d dimensions", sanitizeForLog(req.StudentID), len(template))
		} else {
			log.Printf("enrollment store failed for %s: %v", sanitizeForLog(req.StudentID), err)
		}
		respondError(w, http.StatusInternalServerError, "failed to store face template")
		return
	}

	respondJSON(w, http.StatusOK, EnrollResponse{
		Success:   true,
		Message:   fmt.Sprintf("Face enrolled for %s", req.StudentName),
		StudentID: req.StudentID,
		MockMode:  h.provider.Mock(),
	})
}
