package records

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatusAll disables the status filter in Search.
const StatusAll = "All"

// Service validates and coordinates record changes.
type Service struct {
	repo  Repository
	log   *zap.Logger
	newID func() string
}

// NewService creates a service backed by a repository.
func NewService(repo Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, log: log, newID: uuid.NewString}
}

// Seed loads the demo dataset when the repository has no students.
func (s *Service) Seed(ctx context.Context) error {
	existing, err := s.repo.ListStudents(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, st := range SeedStudents() {
		if err := s.repo.CreateStudent(ctx, st); err != nil {
			return fmt.Errorf("records: seed student %s: %w", st.ID, err)
		}
	}
	for _, c := range SeedSessions() {
		if err := s.repo.CreateSession(ctx, c); err != nil {
			return fmt.Errorf("records: seed session %s: %w", c.ID, err)
		}
	}
	s.log.Info("seeded records")
	return nil
}

func (s *Service) Students(ctx context.Context) ([]Student, error) {
	return s.repo.ListStudents(ctx)
}

func (s *Service) Student(ctx context.Context, id string) (Student, error) {
	return s.repo.GetStudent(ctx, id)
}

// Search filters students by a case-insensitive substring of first name,
// last name, email or career interest, and by status. An empty term matches
// everyone; status "" or "All" disables the status filter.
func (s *Service) Search(ctx context.Context, term, status string) ([]Student, error) {
	all, err := s.repo.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	return FilterStudents(all, term, status), nil
}

// FilterStudents applies the Search rules to an in-memory list.
func FilterStudents(students []Student, term, status string) []Student {
	term = strings.ToLower(term)
	out := []Student{}
	for _, st := range students {
		if status != "" && status != StatusAll && string(st.Status) != status {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(st.FirstName), term) &&
			!strings.Contains(strings.ToLower(st.LastName), term) &&
			!strings.Contains(strings.ToLower(st.Email), term) &&
			!strings.Contains(strings.ToLower(st.CareerInterest), term) {
			continue
		}
		out = append(out, st)
	}
	return out
}

// CreateStudent validates st, assigns an id and stores it.
func (s *Service) CreateStudent(ctx context.Context, st Student) (Student, error) {
	if st.Status == "" {
		st.Status = StatusActive
	}
	if err := st.Validate(); err != nil {
		return Student{}, err
	}
	st.ID = s.newID()
	if err := s.repo.CreateStudent(ctx, st); err != nil {
		return Student{}, err
	}
	s.log.Info("student created", zap.String("student_id", st.ID))
	return st, nil
}

func (s *Service) UpdateStudent(ctx context.Context, st Student) (Student, error) {
	if st.ID == "" {
		return Student{}, &FieldError{Field: "id", Reason: "is required"}
	}
	if err := st.Validate(); err != nil {
		return Student{}, err
	}
	if err := s.repo.UpdateStudent(ctx, st); err != nil {
		return Student{}, err
	}
	return st, nil
}

// DeleteStudent removes a student together with their sessions.
func (s *Service) DeleteStudent(ctx context.Context, id string) error {
	if _, err := s.repo.GetStudent(ctx, id); err != nil {
		return err
	}
	sessions, err := s.repo.ListSessionsForStudent(ctx, id)
	if err != nil {
		return err
	}
	for _, c := range sessions {
		if err := s.repo.DeleteSession(ctx, c.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	if err := s.repo.DeleteStudent(ctx, id); err != nil {
		return err
	}
	s.log.Info("student deleted", zap.String("student_id", id), zap.Int("sessions", len(sessions)))
	return nil
}

func (s *Service) Sessions(ctx context.Context) ([]CounselingSession, error) {
	return s.repo.ListSessions(ctx)
}

func (s *Service) Session(ctx context.Context, id string) (CounselingSession, error) {
	return s.repo.GetSession(ctx, id)
}

// SessionsForStudent returns ErrNotFound when the student does not exist.
func (s *Service) SessionsForStudent(ctx context.Context, studentID string) ([]CounselingSession, error) {
	if _, err := s.repo.GetStudent(ctx, studentID); err != nil {
		return nil, err
	}
	return s.repo.ListSessionsForStudent(ctx, studentID)
}

// CreateSession validates c, checks its student exists, assigns an id and stores it.
func (s *Service) CreateSession(ctx context.Context, c CounselingSession) (CounselingSession, error) {
	if c.Type == "" {
		c.Type = TypeIndividual
	}
	if c.Status == "" {
		c.Status = SessionScheduled
	}
	if err := s.checkSession(ctx, c); err != nil {
		return CounselingSession{}, err
	}
	c.ID = s.newID()
	if err := s.repo.CreateSession(ctx, c); err != nil {
		return CounselingSession{}, err
	}
	s.log.Info("session created", zap.String("session_id", c.ID), zap.String("student_id", c.StudentID))
	return c, nil
}

func (s *Service) UpdateSession(ctx context.Context, c CounselingSession) (CounselingSession, error) {
	if c.ID == "" {
		return CounselingSession{}, &FieldError{Field: "id", Reason: "is required"}
	}
	if err := s.checkSession(ctx, c); err != nil {
		return CounselingSession{}, err
	}
	if err := s.repo.UpdateSession(ctx, c); err != nil {
		return CounselingSession{}, err
	}
	return c, nil
}

func (s *Service) DeleteSession(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}

func (s *Service) checkSession(ctx context.Context, c CounselingSession) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := s.repo.GetStudent(ctx, c.StudentID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return &FieldError{Field: "studentId", Reason: "does not match a student"}
		}
		return err
	}
	return nil
}
