package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/facegate/facegate/internal/attendance"
	"github.com/facegate/facegate/internal/database"
	"github.com/facegate/facegate/internal/database/mock"
)

func seedAttendance(t *testing.T, store *mock.MockAttendanceStore, studentID, name, date string, checkIn time.Time, status string) {
	t.Helper()
	inserted, err := store.Insert(context.Background(), database.AttendanceRecord{
		UID:        studentID + "-" + date,
		StudentID:  studentID,
		Name:       name,
		Date:       date,
		CheckIn:    checkIn,
		Status:     status,
		Method:     attendance.MethodFaceRecognition,
		Confidence: 95,
	})
	if err != nil {
		t.Fatalf("failed to seed attendance: %v", err)
	}
	if !inserted {
		t.Fatalf("duplicate seed for %s on %s", studentID, date)
	}
}

func TestAttendanceTodayStats(t *testing.T) {
	store := mock.NewMockAttendanceStore()
	students := mock.NewMockStudentStore()
	for _, s := range []database.Student{
		{StudentID: "STU001", Name: "Alice"},
		{StudentID: "STU002", Name: "Bob"},
		{StudentID: "STU003", Name: "Carol"},
		{StudentID: "STU004", Name: "Dave"},
	} {
		students.AddStudent(s)
	}
	setNow(t, time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC))

	seedAttendance(t, store, "STU001", "Alice", "2026-09-01", time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC), attendance.StatusPresent)
	seedAttendance(t, store, "STU002", "Bob", "2026-09-01", time.Date(2026, 9, 1, 13, 30, 0, 0, time.UTC), attendance.StatusLatePresent)

	handler := NewAttendanceHandler(store, students)
	recorder := httptest.NewRecorder()
	handler.TodayStats(recorder, httptest.NewRequest(http.MethodGet, "/api/attendance/today-stats", nil))

	assertStatusCode(t, recorder, http.StatusOK)

	var stats database.TodayStats
	parseJSONResponse(t, recorder, &stats)

	if stats.Date != "2026-09-01" {
		t.Errorf("expected date 2026-09-01, got %q", stats.Date)
	}
	if stats.Total != 4 {
		t.Errorf("expected 4 total students, got %d", stats.Total)
	}
	if stats.Present != 2 {
		t.Errorf("expected 2 present, got %d", stats.Present)
	}
	if stats.Late != 1 {
		t.Errorf("expected 1 late, got %d", stats.Late)
	}
	if stats.Absent != 2 {
		t.Errorf("expected 2 absent, got %d", stats.Absent)
	}
	if stats.Percentage != 50 {
		t.Errorf("expected 50%% attendance, got %f", stats.Percentage)
	}
}

func TestAttendanceTodayStats_EmptyRoster(t *testing.T) {
	handler := NewAttendanceHandler(mock.NewMockAttendanceStore(), mock.NewMockStudentStore())
	recorder := httptest.NewRecorder()
	handler.TodayStats(recorder, httptest.NewRequest(http.MethodGet, "/api/attendance/today-stats", nil))

	assertStatusCode(t, recorder, http.StatusOK)

	var stats database.TodayStats
	parseJSONResponse(t, recorder, &stats)

	if stats.Percentage != 0 {
		t.Errorf("expected 0%% attendance with an empty roster, got %f", stats.Percentage)
	}
}

func TestAttendanceTodayList(t *testing.T) {
	store := mock.NewMockAttendanceStore()
	setNow(t, time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC))

	// Out of order on purpose; the list comes back sorted by check-in.
	seedAttendance(t, store, "STU002", "Bob", "2026-09-01", time.Date(2026, 9, 1, 9, 15, 0, 0, time.UTC), attendance.StatusPresent)
	seedAttendance(t, store, "STU001", "Alice", "2026-09-01", time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC), attendance.StatusPresent)
	seedAttendance(t, store, "STU003", "Carol", "2026-08-31", time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC), attendance.StatusPresent)

	handler := NewAttendanceHandler(store, mock.NewMockStudentStore())
	recorder := httptest.NewRecorder()
	handler.TodayList(recorder, httptest.NewRequest(http.MethodGet, "/api/attendance/today-list", nil))

	assertStatusCode(t, recorder, http.StatusOK)

	var resp struct {
		Date       string            `json:"date"`
		Attendance []AttendanceEntry `json:"attendance"`
		Total      int               `json:"total"`
	}
	parseJSONResponse(t, recorder, &resp)

	if resp.Date != "2026-09-01" {
		t.Errorf("expected date 2026-09-01, got %q", resp.Date)
	}
	if resp.Total != 2 {
		t.Fatalf("expected 2 records for today, got %d", resp.Total)
	}
	if resp.Attendance[0].StudentID != "STU001" || resp.Attendance[1].StudentID != "STU002" {
		t.Errorf("expected records ordered by check-in, got %s then %s",
			resp.Attendance[0].StudentID, resp.Attendance[1].StudentID)
	}
}

func TestAttendanceReport_Filters(t *testing.T) {
	store := mock.NewMockAttendanceStore()
	seedAttendance(t, store, "STU001", "Alice", "2026-08-30", time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC), attendance.StatusPresent)
	seedAttendance(t, store, "STU001", "Alice", "2026-08-31", time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC), attendance.StatusPresent)
	seedAttendance(t, store, "STU002", "Bob", "2026-08-31", time.Date(2026, 8, 31, 13, 30, 0, 0, time.UTC), attendance.StatusLatePresent)

	handler := NewAttendanceHandler(store, mock.NewMockStudentStore())

	cases := []struct {
		name  string
		query string
		want  int
	}{
		{"all", "", 3},
		{"by student", "?student_id=STU001", 2},
		{"by start date", "?start_date=2026-08-31", 2},
		{"by end date", "?end_date=2026-08-30", 1},
		{"combined", "?student_id=STU002&start_date=2026-08-31&end_date=2026-08-31", 1},
		{"no matches", "?student_id=STU999", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			handler.Report(recorder, httptest.NewRequest(http.MethodGet, "/api/attendance/report"+tc.query, nil))

			assertStatusCode(t, recorder, http.StatusOK)

			var resp struct {
				Attendance []AttendanceEntry `json:"attendance"`
				Total      int               `json:"total"`
			}
			parseJSONResponse(t, recorder, &resp)

			if resp.Total != tc.want {
				t.Errorf("expected %d records, got %d", tc.want, resp.Total)
			}
		})
	}
}

func TestAttendanceHandlers_StoreErrors(t *testing.T) {
	store := mock.NewMockAttendanceStore()
	store.ListError = errors.New("db down")
	store.ReportError = errors.New("db down")
	store.CountError = errors.New("db down")
	students := mock.NewMockStudentStore()
	students.CountError = errors.New("db down")

	handler := NewAttendanceHandler(store, students)

	endpoints := []struct {
		name string
		call func(w http.ResponseWriter, r *http.Request)
	}{
		{"today-stats", handler.TodayStats},
		{"today-list", handler.TodayList},
		{"report", handler.Report},
	}
	for _, ep := range endpoints {
		t.Run(ep.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			ep.call(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
			assertStatusCode(t, recorder, http.StatusInternalServerError)
		})
	}
}
