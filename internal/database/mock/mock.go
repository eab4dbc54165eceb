// Package mock provides mock implementations of database interfaces for testing.
package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/facegate/facegate/internal/database"
)

// MockTemplateStore is a mock implementation of database.TemplateWriter.
type MockTemplateStore struct {
	mu        sync.RWMutex
	templates map[string]*database.StoredTemplate
	dim       int

	// Error injection
	GetError    error
	AllError    error
	CountError  error
	EnrollError error
	DeleteError error
}

var _ database.TemplateWriter = (*MockTemplateStore)(nil)

// NewMockTemplateStore creates a mock template store expecting the given
// embedding dimensionality. Zero disables the shape check.
func NewMockTemplateStore(dim int) *MockTemplateStore {
	return &MockTemplateStore{
		templates: make(map[string]*database.StoredTemplate),
		dim:       dim,
	}
}

// AddTemplate seeds a template without going through Enroll.
func (m *MockTemplateStore) AddTemplate(tmpl database.StoredTemplate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[tmpl.StudentID] = &tmpl
}

// Get retrieves a template by student ID.
func (m *MockTemplateStore) Get(ctx context.Context, studentID string) (*database.StoredTemplate, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	tmpl, ok := m.templates[studentID]
	if !ok {
		return nil, nil
	}
	cp := *tmpl
	cp.Embedding = append([]float32(nil), tmpl.Embedding...)
	return &cp, nil
}

// All returns a snapshot ordered by student ID ascending.
func (m *MockTemplateStore) All(ctx context.Context) ([]database.StoredTemplate, error) {
	if m.AllError != nil {
		return nil, m.AllError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := make([]database.StoredTemplate, 0, len(m.templates))
	for _, tmpl := range m.templates {
		cp := *tmpl
		cp.Embedding = append([]float32(nil), tmpl.Embedding...)
		snapshot = append(snapshot, cp)
	}
	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].StudentID < snapshot[j].StudentID
	})
	return snapshot, nil
}

// Count returns the number of enrolled templates.
func (m *MockTemplateStore) Count(ctx context.Context) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.templates), nil
}

// Enroll stores a template, replacing any previous one for the student.
func (m *MockTemplateStore) Enroll(ctx context.Context, tmpl database.StoredTemplate) error {
	if m.EnrollError != nil {
		return m.EnrollError
	}
	if m.dim > 0 && len(tmpl.Embedding) != m.dim {
		return database.ErrTemplateShapeMismatch
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := tmpl
	cp.Embedding = append([]float32(nil), tmpl.Embedding...)
	if existing, ok := m.templates[tmpl.StudentID]; ok {
		cp.CreatedAt = existing.CreatedAt
	} else if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	cp.UpdatedAt = time.Now()
	m.templates[tmpl.StudentID] = &cp
	return nil
}

// Delete removes the template for a student.
func (m *MockTemplateStore) Delete(ctx context.Context, studentID string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.templates, studentID)
	return nil
}

// MockStudentStore is a mock implementation of database.StudentWriter.
type MockStudentStore struct {
	mu       sync.RWMutex
	students map[string]*database.Student

	// Error injection
	GetError    error
	ListError   error
	CountError  error
	UpsertError error
}

var _ database.StudentWriter = (*MockStudentStore)(nil)

// NewMockStudentStore creates an empty mock roster.
func NewMockStudentStore() *MockStudentStore {
	return &MockStudentStore{students: make(map[string]*database.Student)}
}

// AddStudent seeds a roster entry.
func (m *MockStudentStore) AddStudent(s database.Student) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students[s.StudentID] = &s
}

// GetStudent retrieves a roster entry.
func (m *MockStudentStore) GetStudent(ctx context.Context, studentID string) (*database.Student, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.students[studentID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// ListStudents returns the roster ordered by student ID ascending.
func (m *MockStudentStore) ListStudents(ctx context.Context) ([]database.Student, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	students := make([]database.Student, 0, len(m.students))
	for _, s := range m.students {
		students = append(students, *s)
	}
	sort.Slice(students, func(i, j int) bool {
		return students[i].StudentID < students[j].StudentID
	})
	return students, nil
}

// CountStudents returns the roster size.
func (m *MockStudentStore) CountStudents(ctx context.Context) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.students), nil
}

// UpsertStudent creates or updates a roster entry.
func (m *MockStudentStore) UpsertStudent(ctx context.Context, student database.Student) error {
	if m.UpsertError != nil {
		return m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = time.Now()
	}
	m.students[student.StudentID] = &student
	return nil
}

// MockAttendanceStore is a mock implementation of database.AttendanceStore.
// Uniqueness per (student, date) is enforced the same way the real
// backends do, so Insert races resolve to a single winner.
type MockAttendanceStore struct {
	mu      sync.Mutex
	records map[string]*database.AttendanceRecord // key: studentID + "|" + date

	// Error injection
	InsertError error
	GetError    error
	ListError   error
	CountError  error
	ReportError error
}

var _ database.AttendanceStore = (*MockAttendanceStore)(nil)

// NewMockAttendanceStore creates an empty mock ledger.
func NewMockAttendanceStore() *MockAttendanceStore {
	return &MockAttendanceStore{records: make(map[string]*database.AttendanceRecord)}
}

func attendanceKey(studentID, date string) string {
	return studentID + "|" + date
}

// Insert stores a record unless one already exists for the student and day.
func (m *MockAttendanceStore) Insert(ctx context.Context, rec database.AttendanceRecord) (bool, error) {
	if m.InsertError != nil {
		return false, m.InsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := attendanceKey(rec.StudentID, rec.Date)
	if _, exists := m.records[key]; exists {
		return false, nil
	}
	cp := rec
	m.records[key] = &cp
	return true, nil
}

// GetForDate returns the record for a student on a day, nil if absent.
func (m *MockAttendanceStore) GetForDate(ctx context.Context, studentID, date string) (*database.AttendanceRecord, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[attendanceKey(studentID, date)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

// ListForDate returns all records for a day ordered by check-in time.
func (m *MockAttendanceStore) ListForDate(ctx context.Context, date string) ([]database.AttendanceRecord, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var records []database.AttendanceRecord
	for _, rec := range m.records {
		if rec.Date == date {
			records = append(records, *rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CheckIn.Before(records[j].CheckIn)
	})
	return records, nil
}

// CountForDate returns the number of students recorded on a day.
func (m *MockAttendanceStore) CountForDate(ctx context.Context, date string) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, rec := range m.records {
		if rec.Date == date {
			count++
		}
	}
	return count, nil
}

// Report returns records matching the filter ordered by date then check-in.
func (m *MockAttendanceStore) Report(ctx context.Context, filter database.ReportFilter) ([]database.AttendanceRecord, error) {
	if m.ReportError != nil {
		return nil, m.ReportError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var records []database.AttendanceRecord
	for _, rec := range m.records {
		if filter.StudentID != "" && rec.StudentID != filter.StudentID {
			continue
		}
		if filter.StartDate != "" && rec.Date < filter.StartDate {
			continue
		}
		if filter.EndDate != "" && rec.Date > filter.EndDate {
			continue
		}
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		return records[i].CheckIn.Before(records[j].CheckIn)
	})
	return records, nil
}
