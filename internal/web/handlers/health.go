package handlers

import (
	"net/http"

	"github.com/facegate/facegate/internal/database"
	"github.com/facegate/facegate/internal/recognizer"
)

// HealthHandler reports service status and enrollment counts.
type HealthHandler struct {
	provider  recognizer.Provider
	templates database.TemplateReader
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(provider recognizer.Provider, templates database.TemplateReader) *HealthHandler {
	return &HealthHandler{provider: provider, templates: templates}
}

// Check handles GET /api/health.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	count, err := h.templates.Count(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "template store unavailable")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"recognizer":       h.provider.Name(),
		"mock_mode":        h.provider.Mock(),
		"enrolledStudents": count,
	})
}
