package handlers

import (
	"net/http"

	"github.com/facegate/facegate/internal/attendance"
	"github.com/facegate/facegate/internal/database"
)

// AttendanceHandler serves attendance summaries and reports.
type AttendanceHandler struct {
	store    database.AttendanceReader
	students database.StudentReader
}

// NewAttendanceHandler creates a new attendance handler.
func NewAttendanceHandler(store database.AttendanceReader, students database.StudentReader) *AttendanceHandler {
	return &AttendanceHandler{store: store, students: students}
}

// AttendanceEntry is a ledger row in API shape.
type AttendanceEntry struct {
	UID        string  `json:"uid"`
	StudentID  string  `json:"studentId"`
	Name       string  `json:"name"`
	Date       string  `json:"date"`
	CheckIn    string  `json:"checkInTime"`
	Status     string  `json:"status"`
	Method     string  `json:"method"`
	Confidence float64 `json:"confidenceScore"`
}

func toEntries(records []database.AttendanceRecord) []AttendanceEntry {
	entries := make([]AttendanceEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, AttendanceEntry{
			UID:        rec.UID,
			StudentID:  rec.StudentID,
			Name:       rec.Name,
			Date:       rec.Date,
			CheckIn:    rec.CheckIn.Format("2006-01-02T15:04:05Z07:00"),
			Status:     rec.Status,
			Method:     rec.Method,
			Confidence: rec.Confidence,
		})
	}
	return entries
}

// TodayStats handles GET /api/attendance/today-stats.
func (h *AttendanceHandler) TodayStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, err := h.students.CountStudents(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to count students")
		return
	}

	stats, err := attendance.TodayStats(ctx, h.store, total, attendance.DateOf(now()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute attendance stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// TodayList handles GET /api/attendance/today-list.
func (h *AttendanceHandler) TodayList(w http.ResponseWriter, r *http.Request) {
	date := attendance.DateOf(now())

	records, err := h.store.ListForDate(r.Context(), date)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list attendance")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"date":       date,
		"attendance": toEntries(records),
		"total":      len(records),
	})
}

// Report handles GET /api/attendance/report with optional start_date,
// end_date, and student_id query filters.
func (h *AttendanceHandler) Report(w http.ResponseWriter, r *http.Request) {
	filter := database.ReportFilter{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
		StudentID: r.URL.Query().Get("student_id"),
	}

	records, err := h.store.Report(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to query attendance report")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"attendance": toEntries(records),
		"total":      len(records),
	})
}
