package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/facegate/facegate/internal/database"
)

// TemplateRepository provides PostgreSQL-backed face template storage.
// Embeddings live in a pgvector column.
type TemplateRepository struct {
	pool *Pool
	dim  int
}

var _ database.TemplateWriter = (*TemplateRepository)(nil)

// NewTemplateRepository creates a template repository expecting the given
// embedding dimensionality. Zero disables the shape check.
func NewTemplateRepository(pool *Pool, dim int) *TemplateRepository {
	return &TemplateRepository{pool: pool, dim: dim}
}

// Get retrieves a template by student ID, nil if not found.
func (r *TemplateRepository) Get(ctx context.Context, studentID string) (*database.StoredTemplate, error) {
	query := `
		SELECT student_id, name, embedding, dim, model, created_at, updated_at
		FROM face_templates
		WHERE student_id = $1
	`

	var tmpl database.StoredTemplate
	var embedding pgvector.Vector
	err := r.pool.QueryRow(ctx, query, studentID).Scan(
		&tmpl.StudentID, &tmpl.Name, &embedding, &tmpl.Dim, &tmpl.Model,
		&tmpl.CreatedAt, &tmpl.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query template: %w", err)
	}
	tmpl.Embedding = embedding.Slice()
	return &tmpl, nil
}

// All returns every template ordered by student ID ascending. Row scans
// copy the embeddings, so callers hold an isolated snapshot.
func (r *TemplateRepository) All(ctx context.Context) ([]database.StoredTemplate, error) {
	query := `
		SELECT student_id, name, embedding, dim, model, created_at, updated_at
		FROM face_templates
		ORDER BY student_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer rows.Close()

	var templates []database.StoredTemplate
	for rows.Next() {
		var tmpl database.StoredTemplate
		var embedding pgvector.Vector
		if err := rows.Scan(
			&tmpl.StudentID, &tmpl.Name, &embedding, &tmpl.Dim, &tmpl.Model,
			&tmpl.CreatedAt, &tmpl.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		tmpl.Embedding = embedding.Slice()
		templates = append(templates, tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return templates, nil
}

// Count returns the number of enrolled templates.
func (r *TemplateRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM face_templates").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count templates: %w", err)
	}
	return count, nil
}

// Enroll stores a template, replacing any previous one for the student.
func (r *TemplateRepository) Enroll(ctx context.Context, tmpl database.StoredTemplate) error {
	if r.dim > 0 && len(tmpl.Embedding) != r.dim {
		return database.ErrTemplateShapeMismatch
	}

	query := `
		INSERT INTO face_templates (student_id, name, embedding, dim, model, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (student_id) DO UPDATE SET
			name = EXCLUDED.name,
			embedding = EXCLUDED.embedding,
			dim = EXCLUDED.dim,
			model = EXCLUDED.model,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		tmpl.StudentID, tmpl.Name, pgvector.NewVector(tmpl.Embedding), len(tmpl.Embedding), tmpl.Model,
	)
	if err != nil {
		return fmt.Errorf("enroll template: %w", err)
	}
	return nil
}

// Delete removes the template for a student.
func (r *TemplateRepository) Delete(ctx context.Context, studentID string) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM face_templates WHERE student_id = $1", studentID)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}
