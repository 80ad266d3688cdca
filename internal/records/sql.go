package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var sqlSchema = []string{`
CREATE TABLE IF NOT EXISTS students (
    id              TEXT PRIMARY KEY,
    first_name      TEXT NOT NULL,
    last_name       TEXT NOT NULL,
    email           TEXT NOT NULL,
    career_interest TEXT NOT NULL,
    date_joined     TEXT NOT NULL,
    phone           TEXT,
    address         TEXT,
    status          TEXT NOT NULL,
    position        BIGINT NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS counseling_sessions (
    id             TEXT PRIMARY KEY,
    student_id     TEXT NOT NULL,
    counselor_name TEXT NOT NULL,
    session_date   TEXT NOT NULL,
    notes          TEXT NOT NULL,
    duration       INTEGER NOT NULL,
    session_type   TEXT NOT NULL,
    status         TEXT NOT NULL,
    position       BIGINT NOT NULL
)`, `
CREATE INDEX IF NOT EXISTS counseling_sessions_student_idx ON counseling_sessions (student_id)`,
}

const (
	studentColumns = `id, first_name, last_name, email, career_interest, date_joined, phone, address, status`
	sessionColumns = `id, student_id, counselor_name, session_date, notes, duration, session_type, status`
)

// SQL persists records in Postgres (pgx) or SQLite.
type SQL struct {
	db     *sql.DB
	driver string
}

// NewSQL creates a repository; driver selects the placeholder style ("pgx" or "sqlite").
func NewSQL(db *sql.DB, driver string) *SQL {
	return &SQL{db: db, driver: driver}
}

// Migrate creates the record tables if needed.
func (r *SQL) Migrate(ctx context.Context) error {
	for _, stmt := range sqlSchema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("records: migrate: %w", err)
		}
	}
	return nil
}

func (r *SQL) ph(n int) string {
	if r.driver == "sqlite" {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}

func (r *SQL) phs(from, count int) string {
	out := ""
	for i := 0; i < count; i++ {
		if i > 0 {
			out += ", "
		}
		out += r.ph(from + i)
	}
	return out
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStudent(row scanner) (Student, error) {
	var s Student
	err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.CareerInterest, &s.DateJoined, &s.Phone, &s.Address, &s.Status)
	return s, err
}

func scanSession(row scanner) (CounselingSession, error) {
	var c CounselingSession
	err := row.Scan(&c.ID, &c.StudentID, &c.CounselorName, &c.SessionDate, &c.Notes, &c.Duration, &c.Type, &c.Status)
	return c, err
}

func (r *SQL) ListStudents(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+studentColumns+` FROM students ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQL) GetStudent(ctx context.Context, id string) (Student, error) {
	s, err := scanStudent(r.db.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = `+r.ph(1), id))
	if errors.Is(err, sql.ErrNoRows) {
		return Student{}, ErrNotFound
	}
	return s, err
}

func (r *SQL) CreateStudent(ctx context.Context, s Student) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO students (`+studentColumns+`, position)
		SELECT `+r.phs(1, 9)+`, COALESCE(MAX(position), 0) + 1 FROM students
	`, s.ID, s.FirstName, s.LastName, s.Email, s.CareerInterest, s.DateJoined, s.Phone, s.Address, string(s.Status))
	return err
}

func (r *SQL) UpdateStudent(ctx context.Context, s Student) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students
		SET first_name = `+r.ph(2)+`, last_name = `+r.ph(3)+`, email = `+r.ph(4)+`,
			career_interest = `+r.ph(5)+`, date_joined = `+r.ph(6)+`, phone = `+r.ph(7)+`,
			address = `+r.ph(8)+`, status = `+r.ph(9)+`
		WHERE id = `+r.ph(1),
		s.ID, s.FirstName, s.LastName, s.Email, s.CareerInterest, s.DateJoined, s.Phone, s.Address, string(s.Status))
	return affected(res, err)
}

func (r *SQL) DeleteStudent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = `+r.ph(1), id)
	return affected(res, err)
}

func (r *SQL) ListSessions(ctx context.Context) ([]CounselingSession, error) {
	return r.querySessions(ctx, `SELECT `+sessionColumns+` FROM counseling_sessions ORDER BY position`)
}

func (r *SQL) ListSessionsForStudent(ctx context.Context, studentID string) ([]CounselingSession, error) {
	return r.querySessions(ctx,
		`SELECT `+sessionColumns+` FROM counseling_sessions WHERE student_id = `+r.ph(1)+` ORDER BY position`,
		studentID)
}

func (r *SQL) querySessions(ctx context.Context, query string, args ...any) ([]CounselingSession, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []CounselingSession{}
	for rows.Next() {
		c, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQL) GetSession(ctx context.Context, id string) (CounselingSession, error) {
	c, err := scanSession(r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM counseling_sessions WHERE id = `+r.ph(1), id))
	if errors.Is(err, sql.ErrNoRows) {
		return CounselingSession{}, ErrNotFound
	}
	return c, err
}

func (r *SQL) CreateSession(ctx context.Context, c CounselingSession) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO counseling_sessions (`+sessionColumns+`, position)
		SELECT `+r.phs(1, 8)+`, COALESCE(MAX(position), 0) + 1 FROM counseling_sessions
	`, c.ID, c.StudentID, c.CounselorName, c.SessionDate, c.Notes, c.Duration, string(c.Type), string(c.Status))
	return err
}

func (r *SQL) UpdateSession(ctx context.Context, c CounselingSession) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE counseling_sessions
		SET student_id = `+r.ph(2)+`, counselor_name = `+r.ph(3)+`, session_date = `+r.ph(4)+`,
			notes = `+r.ph(5)+`, duration = `+r.ph(6)+`, session_type = `+r.ph(7)+`, status = `+r.ph(8)+`
		WHERE id = `+r.ph(1),
		c.ID, c.StudentID, c.CounselorName, c.SessionDate, c.Notes, c.Duration, string(c.Type), string(c.Status))
	return affected(res, err)
}

func (r *SQL) DeleteSession(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM counseling_sessions WHERE id = `+r.ph(1), id)
	return affected(res, err)
}

func affected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
