package handlers

import (
	"net/http"

	"github.com/facegate/facegate/internal/database"
)

// StudentsHandler serves the student roster.
type StudentsHandler struct {
	students database.StudentReader
}

// NewStudentsHandler creates a new roster handler.
func NewStudentsHandler(students database.StudentReader) *StudentsHandler {
	return &StudentsHandler{students: students}
}

// StudentEntry is a roster row in API shape.
type StudentEntry struct {
	StudentID       string `json:"studentId"`
	Name            string `json:"name"`
	Grade           string `json:"grade,omitempty"`
	HasFaceEncoding bool   `json:"hasFaceEncoding"`
}

// List handles GET /api/students.
func (h *StudentsHandler) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.students.ListStudents(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list students")
		return
	}

	entries := make([]StudentEntry, 0, len(students))
	for _, s := range students {
		entries = append(entries, StudentEntry{
			StudentID:       s.StudentID,
			Name:            s.Name,
			Grade:           s.Grade,
			HasFaceEncoding: s.HasFaceTemplate,
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"students": entries,
		"total":    len(entries),
	})
}
