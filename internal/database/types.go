package database

import (
	"time"
)

// StoredTemplate is a face template enrolled for a student.
type StoredTemplate struct {
	StudentID string
	Name      string
	Embedding []float32
	Dim       int
	Model     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Student is a roster entry. A student may exist without an enrolled
// face template.
type Student struct {
	StudentID       string
	Name            string
	Grade           string
	HasFaceTemplate bool
	CreatedAt       time.Time
}

// AttendanceRecord is a single check-in event. At most one exists per
// student per calendar day.
type AttendanceRecord struct {
	UID        string // event UID
	StudentID  string
	Name       string // name snapshot at check-in time
	Date       string // calendar day, YYYY-MM-DD
	CheckIn    time.Time
	Status     string // PRESENT or LATE_PRESENT
	Method     string // e.g. face_recognition
	Confidence float64
}

// TodayStats summarizes attendance for one day.
type TodayStats struct {
	Date       string  `json:"date"`
	Total      int     `json:"totalStudents"`
	Present    int     `json:"presentCount"`
	Absent     int     `json:"absentCount"`
	Late       int     `json:"lateCount"`
	Percentage float64 `json:"attendancePercentage"`
}

// ReportFilter narrows attendance report queries. Zero values mean
// no constraint.
type ReportFilter struct {
	StartDate string // YYYY-MM-DD inclusive
	EndDate   string // YYYY-MM-DD inclusive
	StudentID string
}

// ExportData is the portable on-disk document holding all enrolled
// templates for export/import.
type ExportData struct {
	Version    int              `json:"version"`
	ExportedAt time.Time        `json:"exported_at"`
	Templates  []StoredTemplate `json:"templates"`
}

// CurrentExportVersion is the version written into new export documents.
const CurrentExportVersion = 1
