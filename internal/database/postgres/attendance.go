package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/facegate/facegate/internal/database"
)

// AttendanceRepository provides PostgreSQL-backed attendance storage.
// The UNIQUE (student_id, date) constraint is the only concurrency
// control: concurrent check-ins race on the insert and exactly one wins.
type AttendanceRepository struct {
	pool *Pool
}

var _ database.AttendanceStore = (*AttendanceRepository)(nil)

// NewAttendanceRepository creates a new attendance repository.
func NewAttendanceRepository(pool *Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// Insert stores a check-in unless one already exists for the student and
// day. Returns false without error when the row already existed.
func (r *AttendanceRepository) Insert(ctx context.Context, rec database.AttendanceRecord) (bool, error) {
	query := `
		INSERT INTO attendance (uid, student_id, name, date, check_in, status, method, confidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (student_id, date) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query,
		rec.UID, rec.StudentID, rec.Name, rec.Date, rec.CheckIn,
		rec.Status, rec.Method, rec.Confidence,
	)
	if err != nil {
		return false, fmt.Errorf("insert attendance: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert attendance rows affected: %w", err)
	}
	return rows == 1, nil
}

// GetForDate returns the record for a student on a day, nil if absent.
func (r *AttendanceRepository) GetForDate(ctx context.Context, studentID, date string) (*database.AttendanceRecord, error) {
	query := `
		SELECT uid, student_id, name, to_char(date, 'YYYY-MM-DD'), check_in, status, method, confidence
		FROM attendance
		WHERE student_id = $1 AND date = $2
	`

	var rec database.AttendanceRecord
	err := r.pool.QueryRow(ctx, query, studentID, date).Scan(
		&rec.UID, &rec.StudentID, &rec.Name, &rec.Date, &rec.CheckIn,
		&rec.Status, &rec.Method, &rec.Confidence,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query attendance: %w", err)
	}
	return &rec, nil
}

// ListForDate returns all records for a day ordered by check-in time.
func (r *AttendanceRepository) ListForDate(ctx context.Context, date string) ([]database.AttendanceRecord, error) {
	query := `
		SELECT uid, student_id, name, to_char(date, 'YYYY-MM-DD'), check_in, status, method, confidence
		FROM attendance
		WHERE date = $1
		ORDER BY check_in
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("query attendance for date: %w", err)
	}
	defer rows.Close()

	return scanAttendance(rows)
}

// CountForDate returns the number of students recorded on a day.
func (r *AttendanceRepository) CountForDate(ctx context.Context, date string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM attendance WHERE date = $1", date).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count attendance: %w", err)
	}
	return count, nil
}

// Report returns records matching the filter ordered by date then
// check-in time.
func (r *AttendanceRepository) Report(ctx context.Context, filter database.ReportFilter) ([]database.AttendanceRecord, error) {
	var conditions []string
	var args []any

	if filter.StartDate != "" {
		args = append(args, filter.StartDate)
		conditions = append(conditions, "date >= $"+strconv.Itoa(len(args)))
	}
	if filter.EndDate != "" {
		args = append(args, filter.EndDate)
		conditions = append(conditions, "date <= $"+strconv.Itoa(len(args)))
	}
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		conditions = append(conditions, "student_id = $"+strconv.Itoa(len(args)))
	}

	query := `
		SELECT uid, student_id, name, to_char(date, 'YYYY-MM-DD'), check_in, status, method, confidence
		FROM attendance
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date, check_in"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attendance report: %w", err)
	}
	defer rows.Close()

	return scanAttendance(rows)
}

func scanAttendance(rows *sql.Rows) ([]database.AttendanceRecord, error) {
	var records []database.AttendanceRecord
	for rows.Next() {
		var rec database.AttendanceRecord
		if err := rows.Scan(
			&rec.UID, &rec.StudentID, &rec.Name, &rec.Date, &rec.CheckIn,
			&rec.Status, &rec.Method, &rec.Confidence,
		); err != nil {
			return nil, fmt.Errorf("scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance records: %w", err)
	}
	return records, nil
}
