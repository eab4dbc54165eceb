// Package attendance records check-in events, at most one per student
// per calendar day.
package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/facegate/facegate/internal/database"
)

// Check-in statuses. A check-in strictly before the cutoff is PRESENT;
// at or after the cutoff it is LATE_PRESENT.
const (
	StatusPresent     = "PRESENT"
	StatusLatePresent = "LATE_PRESENT"
)

// MethodFaceRecognition tags ledger rows created by face verification.
const MethodFaceRecognition = "face_recognition"

// Outcome reports whether a Record call created a new ledger row.
type Outcome int

const (
	// Recorded means a new attendance row was created.
	Recorded Outcome = iota
	// AlreadyRecorded means the student already had a row for the day.
	// It is a normal outcome, not an error.
	AlreadyRecorded
)

func (o Outcome) String() string {
	if o == AlreadyRecorded {
		return "already_recorded"
	}
	return "recorded"
}

// Cutoff is the wall-clock time-of-day separating on-time from late
// check-ins.
type Cutoff struct {
	Hour   int
	Minute int
}

// Classify returns the status for a check-in timestamp. Only the
// time-of-day matters; the date is ignored.
func (c Cutoff) Classify(ts time.Time) string {
	minuteOfDay := ts.Hour()*60 + ts.Minute()
	cutoffMinute := c.Hour*60 + c.Minute
	if minuteOfDay < cutoffMinute {
		return StatusPresent
	}
	return StatusLatePresent
}

// DateOf formats a timestamp as the calendar day used for ledger
// uniqueness.
func DateOf(ts time.Time) string {
	return ts.Format("2006-01-02")
}

// Ledger records verified check-ins against an attendance store.
type Ledger struct {
	store  database.AttendanceStore
	cutoff Cutoff
}

// NewLedger creates a ledger with the given cutoff.
func NewLedger(store database.AttendanceStore, cutoff Cutoff) *Ledger {
	return &Ledger{store: store, cutoff: cutoff}
}

// Record stores a check-in for a student. When the student already has a
// row for the day, the existing row wins: Record returns AlreadyRecorded
// with the status of the original check-in. Concurrency control is the
// store's uniqueness constraint, so the race loser between two
// simultaneous check-ins observes AlreadyRecorded.
func (l *Ledger) Record(ctx context.Context, studentID, name string, ts time.Time, confidence float64, method string) (Outcome, string, error) {
	date := DateOf(ts)
	status := l.cutoff.Classify(ts)

	rec := database.AttendanceRecord{
		UID:        uuid.NewString(),
		StudentID:  studentID,
		Name:       name,
		Date:       date,
		CheckIn:    ts,
		Status:     status,
		Method:     method,
		Confidence: confidence,
	}

	inserted, err := l.store.Insert(ctx, rec)
	if err != nil {
		return Recorded, "", fmt.Errorf("recording attendance: %w", err)
	}
	if inserted {
		return Recorded, status, nil
	}

	// Someone (possibly a concurrent request) already recorded today.
	existing, err := l.store.GetForDate(ctx, studentID, date)
	if err != nil {
		return AlreadyRecorded, "", fmt.Errorf("loading existing attendance: %w", err)
	}
	if existing != nil {
		status = existing.Status
	}
	return AlreadyRecorded, status, nil
}

// TodayStats summarizes the ledger for a day against the roster size.
func TodayStats(ctx context.Context, reader database.AttendanceReader, totalStudents int, date string) (database.TodayStats, error) {
	records, err := reader.ListForDate(ctx, date)
	if err != nil {
		return database.TodayStats{}, fmt.Errorf("listing attendance: %w", err)
	}

	stats := database.TodayStats{
		Date:    date,
		Total:   totalStudents,
		Present: len(records),
		Absent:  totalStudents - len(records),
	}
	if stats.Absent < 0 {
		stats.Absent = 0
	}
	for _, rec := range records {
		if rec.Status == StatusLatePresent {
			stats.Late++
		}
	}
	if totalStudents > 0 {
		stats.Percentage = float64(len(records)) / float64(totalStudents) * 100
	}
	return stats, nil
}
