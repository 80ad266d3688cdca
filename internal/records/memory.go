package records

import (
	"context"
	"sync"
)

// Repository persists students and counseling sessions.
// Lists return records in insertion order.
type Repository interface {
	ListStudents(ctx context.Context) ([]Student, error)
	GetStudent(ctx context.Context, id string) (Student, error)
	CreateStudent(ctx context.Context, s Student) error
	UpdateStudent(ctx context.Context, s Student) error
	DeleteStudent(ctx context.Context, id string) error

	ListSessions(ctx context.Context) ([]CounselingSession, error)
	ListSessionsForStudent(ctx context.Context, studentID string) ([]CounselingSession, error)
	GetSession(ctx context.Context, id string) (CounselingSession, error)
	CreateSession(ctx context.Context, c CounselingSession) error
	UpdateSession(ctx context.Context, c CounselingSession) error
	DeleteSession(ctx context.Context, id string) error
}

// Memory is an in-process Repository.
type Memory struct {
	mu       sync.RWMutex
	students []Student
	sessions []CounselingSession
}

// NewMemory returns an empty repository.
func NewMemory() *Memory { return &Memory{} }

// NewSeededMemory returns a repository holding the demo dataset.
func NewSeededMemory() *Memory {
	return &Memory{students: SeedStudents(), sessions: SeedSessions()}
}

func (m *Memory) ListStudents(context.Context) ([]Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Student, len(m.students))
	copy(out, m.students)
	return out, nil
}

func (m *Memory) GetStudent(_ context.Context, id string) (Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.studentIndex(id); i >= 0 {
		return m.students[i], nil
	}
	return Student{}, ErrNotFound
}

func (m *Memory) CreateStudent(_ context.Context, s Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students = append(m.students, s)
	return nil
}

func (m *Memory) UpdateStudent(_ context.Context, s Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.studentIndex(s.ID)
	if i < 0 {
		return ErrNotFound
	}
	m.students[i] = s
	return nil
}

func (m *Memory) DeleteStudent(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.studentIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	m.students = append(m.students[:i], m.students[i+1:]...)
	return nil
}

func (m *Memory) ListSessions(context.Context) ([]CounselingSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]CounselingSession, len(m.sessions))
	copy(out, m.sessions)
	return out, nil
}

func (m *Memory) ListSessionsForStudent(_ context.Context, studentID string) ([]CounselingSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []CounselingSession{}
	for _, c := range m.sessions {
		if c.StudentID == studentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *Memory) GetSession(_ context.Context, id string) (CounselingSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.sessionIndex(id); i >= 0 {
		return m.sessions[i], nil
	}
	return CounselingSession{}, ErrNotFound
}

func (m *Memory) CreateSession(_ context.Context, c CounselingSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = append(m.sessions, c)
	return nil
}

func (m *Memory) UpdateSession(_ context.Context, c CounselingSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.sessionIndex(c.ID)
	if i < 0 {
		return ErrNotFound
	}
	m.sessions[i] = c
	return nil
}

func (m *Memory) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.sessionIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
	return nil
}

func (m *Memory) studentIndex(id string) int {
	for i, s := range m.students {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (m *Memory) sessionIndex(id string) int {
	for i, c := range m.sessions {
		if c.ID == id {
			return i
		}
	}
	return -1
}
