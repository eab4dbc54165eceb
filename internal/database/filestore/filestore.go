// Package filestore persists face templates in a single JSON document.
// Saves are atomic: the document is written to a temporary file and
// renamed over the previous one, so readers never observe a partial file.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/renameio"

	"github.com/facegate/facegate/internal/database"
)

// Store is a file-backed template store.
type Store struct {
	path string
	dim  int

	mu        sync.RWMutex
	templates map[string]*database.StoredTemplate
}

var _ database.TemplateWriter = (*Store)(nil)

// Open loads the template document at path, creating an empty store when
// the file does not exist yet. dim is the expected embedding
// dimensionality; zero disables the shape check.
func Open(path string, dim int) (*Store, error) {
	s := &Store{
		path:      path,
		dim:       dim,
		templates: make(map[string]*database.StoredTemplate),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading template store %s: %w", path, err)
	}

	var doc database.ExportData
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing template store %s: %w", path, err)
	}
	// A hand-edited or cross-model document must not seed templates
	// that can never match; reject it whole, like Import does.
	for i := range doc.Templates {
		if dim > 0 && len(doc.Templates[i].Embedding) != dim {
			return nil, fmt.Errorf("template store %s: template for %s: %w",
				path, doc.Templates[i].StudentID, database.ErrTemplateShapeMismatch)
		}
	}
	for i := range doc.Templates {
		tmpl := doc.Templates[i]
		s.templates[tmpl.StudentID] = &tmpl
	}
	return s, nil
}

// Get retrieves a template by student ID, nil if not found.
func (s *Store) Get(ctx context.Context, studentID string) (*database.StoredTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tmpl, ok := s.templates[studentID]
	if !ok {
		return nil, nil
	}
	cp := *tmpl
	cp.Embedding = append([]float32(nil), tmpl.Embedding...)
	return &cp, nil
}

// All returns a snapshot of every template ordered by student ID
// ascending. The snapshot is isolated from later writes.
func (s *Store) All(ctx context.Context) ([]database.StoredTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]database.StoredTemplate, 0, len(s.templates))
	for _, tmpl := range s.templates {
		cp := *tmpl
		cp.Embedding = append([]float32(nil), tmpl.Embedding...)
		snapshot = append(snapshot, cp)
	}
	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].StudentID < snapshot[j].StudentID
	})
	return snapshot, nil
}

// Count returns the number of stored templates.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.templates), nil
}

// Enroll stores a template, replacing any previous template for the
// student, and persists the document. The in-memory state changes only
// after the document is safely on disk.
func (s *Store) Enroll(ctx context.Context, tmpl database.StoredTemplate) error {
	if s.dim > 0 && len(tmpl.Embedding) != s.dim {
		return database.ErrTemplateShapeMismatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := tmpl
	cp.Embedding = append([]float32(nil), tmpl.Embedding...)
	if existing, ok := s.templates[tmpl.StudentID]; ok {
		cp.CreatedAt = existing.CreatedAt
	} else if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	cp.UpdatedAt = time.Now()

	previous, hadPrevious := s.templates[tmpl.StudentID]
	s.templates[tmpl.StudentID] = &cp

	if err := s.saveLocked(); err != nil {
		// Roll back so memory matches disk.
		if hadPrevious {
			s.templates[tmpl.StudentID] = previous
		} else {
			delete(s.templates, tmpl.StudentID)
		}
		return err
	}
	return nil
}

// Delete removes the template for a student and persists the document.
func (s *Store) Delete(ctx context.Context, studentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, ok := s.templates[studentID]
	if !ok {
		return nil
	}
	delete(s.templates, studentID)

	if err := s.saveLocked(); err != nil {
		s.templates[studentID] = previous
		return err
	}
	return nil
}

// Export returns the full document for external backup.
func (s *Store) Export(ctx context.Context) (database.ExportData, error) {
	templates, err := s.All(ctx)
	if err != nil {
		return database.ExportData{}, err
	}
	return database.ExportData{
		Version:    database.CurrentExportVersion,
		ExportedAt: time.Now(),
		Templates:  templates,
	}, nil
}

// Import replaces the store contents with the given document.
func (s *Store) Import(ctx context.Context, doc database.ExportData) error {
	if doc.Version > database.CurrentExportVersion {
		return fmt.Errorf("unsupported template document version %d", doc.Version)
	}
	for i := range doc.Templates {
		if s.dim > 0 && len(doc.Templates[i].Embedding) != s.dim {
			return fmt.Errorf("template for %s: %w", doc.Templates[i].StudentID, database.ErrTemplateShapeMismatch)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.templates
	s.templates = make(map[string]*database.StoredTemplate, len(doc.Templates))
	for i := range doc.Templates {
		tmpl := doc.Templates[i]
		s.templates[tmpl.StudentID] = &tmpl
	}

	if err := s.saveLocked(); err != nil {
		s.templates = previous
		return err
	}
	return nil
}

// saveLocked writes the document atomically. Callers must hold the lock.
func (s *Store) saveLocked() error {
	doc := database.ExportData{
		Version:    database.CurrentExportVersion,
		ExportedAt: time.Now(),
	}
	doc.Templates = make([]database.StoredTemplate, 0, len(s.templates))
	for _, tmpl := range s.templates {
		doc.Templates = append(doc.Templates, *tmpl)
	}
	sort.Slice(doc.Templates, func(i, j int) bool {
		return doc.Templates[i].StudentID < doc.Templates[j].StudentID
	})

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding template store: %w", err)
	}

	if err := renameio.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing template store %s: %w", s.path, err)
	}
	return nil
}
