package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/facegate/facegate/internal/database"
)

// StudentRepository provides PostgreSQL-backed roster storage.
type StudentRepository struct {
	pool *Pool
}

var _ database.StudentWriter = (*StudentRepository)(nil)

// NewStudentRepository creates a new roster repository.
func NewStudentRepository(pool *Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// GetStudent retrieves a roster entry, nil if not found.
func (r *StudentRepository) GetStudent(ctx context.Context, studentID string) (*database.Student, error) {
	query := `
		SELECT s.student_id, s.name, s.grade, s.created_at,
		       EXISTS(SELECT 1 FROM face_templates t WHERE t.student_id = s.student_id)
		FROM students s
		WHERE s.student_id = $1
	`

	var student database.Student
	err := r.pool.QueryRow(ctx, query, studentID).Scan(
		&student.StudentID, &student.Name, &student.Grade, &student.CreatedAt,
		&student.HasFaceTemplate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query student: %w", err)
	}
	return &student, nil
}

// ListStudents returns the roster ordered by student ID ascending.
func (r *StudentRepository) ListStudents(ctx context.Context) ([]database.Student, error) {
	query := `
		SELECT s.student_id, s.name, s.grade, s.created_at,
		       EXISTS(SELECT 1 FROM face_templates t WHERE t.student_id = s.student_id)
		FROM students s
		ORDER BY s.student_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer rows.Close()

	var students []database.Student
	for rows.Next() {
		var student database.Student
		if err := rows.Scan(
			&student.StudentID, &student.Name, &student.Grade, &student.CreatedAt,
			&student.HasFaceTemplate,
		); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}
	return students, nil
}

// CountStudents returns the roster size.
func (r *StudentRepository) CountStudents(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM students").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return count, nil
}

// UpsertStudent creates or updates a roster entry.
func (r *StudentRepository) UpsertStudent(ctx context.Context, student database.Student) error {
	query := `
		INSERT INTO students (student_id, name, grade, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (student_id) DO UPDATE SET
			name = EXCLUDED.name,
			grade = EXCLUDED.grade
	`

	_, err := r.pool.Exec(ctx, query, student.StudentID, student.Name, student.Grade)
	if err != nil {
		return fmt.Errorf("upsert student: %w", err)
	}
	return nil
}
