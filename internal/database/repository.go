package database

import (
	"context"
)

// TemplateReader provides read-only access to enrolled face templates.
type TemplateReader interface {
	// Get retrieves a template by student ID, returns nil if not found.
	Get(ctx context.Context, studentID string) (*StoredTemplate, error)
	// All returns a snapshot of every enrolled template ordered by
	// student ID ascending. The returned slice is isolated from
	// concurrent writes.
	All(ctx context.Context) ([]StoredTemplate, error)
	// Count returns the number of enrolled templates.
	Count(ctx context.Context) (int, error)
}

// TemplateWriter provides write access to enrolled face templates.
type TemplateWriter interface {
	TemplateReader

	// Enroll stores a template for a student, replacing any previous
	// template for the same student. Returns ErrTemplateShapeMismatch
	// if the embedding dimensionality disagrees with the store.
	Enroll(ctx context.Context, tmpl StoredTemplate) error

	// Delete removes the template for a student.
	Delete(ctx context.Context, studentID string) error
}

// StudentReader provides read-only access to the student roster.
type StudentReader interface {
	// GetStudent retrieves a roster entry, returns nil if not found.
	GetStudent(ctx context.Context, studentID string) (*Student, error)
	// ListStudents returns the roster ordered by student ID ascending.
	ListStudents(ctx context.Context) ([]Student, error)
	// CountStudents returns the roster size.
	CountStudents(ctx context.Context) (int, error)
}

// StudentWriter provides write access to the student roster.
type StudentWriter interface {
	StudentReader

	// UpsertStudent creates or updates a roster entry.
	UpsertStudent(ctx context.Context, student Student) error
}

// AttendanceWriter records check-in events.
type AttendanceWriter interface {
	// Insert stores an attendance record. If a record already exists
	// for the same student and date, Insert reports inserted=false
	// without modifying the ledger. Uniqueness is enforced atomically
	// with the insert.
	Insert(ctx context.Context, rec AttendanceRecord) (inserted bool, err error)
}

// AttendanceReader queries the attendance ledger.
type AttendanceReader interface {
	// GetForDate returns the record for a student on a given day,
	// nil if absent.
	GetForDate(ctx context.Context, studentID, date string) (*AttendanceRecord, error)
	// ListForDate returns all records for a day ordered by check-in time.
	ListForDate(ctx context.Context, date string) ([]AttendanceRecord, error)
	// CountForDate returns the number of distinct students recorded
	// on a day.
	CountForDate(ctx context.Context, date string) (int, error)
	// Report returns records matching the filter ordered by date then
	// check-in time.
	Report(ctx context.Context, filter ReportFilter) ([]AttendanceRecord, error)
}

// AttendanceStore combines ledger reads and writes.
type AttendanceStore interface {
	AttendanceReader
	AttendanceWriter
}
