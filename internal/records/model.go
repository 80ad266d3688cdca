// Package records holds the student and counseling-session records the
// derived views aggregate over.
package records

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used by record dates.
const DateLayout = "2006-01-02"

type StudentStatus string

const (
	StatusActive    StudentStatus = "Active"
	StatusInactive  StudentStatus = "Inactive"
	StatusGraduated StudentStatus = "Graduated"
)

func (s StudentStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusGraduated:
		return true
	}
	return false
}

type SessionType string

const (
	TypeIndividual SessionType = "Individual"
	TypeGroup      SessionType = "Group"
	TypeWorkshop   SessionType = "Workshop"
)

func (t SessionType) Valid() bool {
	switch t {
	case TypeIndividual, TypeGroup, TypeWorkshop:
		return true
	}
	return false
}

type SessionStatus string

const (
	SessionScheduled SessionStatus = "Scheduled"
	SessionCompleted SessionStatus = "Completed"
	SessionCancelled SessionStatus = "Cancelled"
)

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionScheduled, SessionCompleted, SessionCancelled:
		return true
	}
	return false
}

// Student is a person receiving career guidance.
type Student struct {
	ID             string        `json:"id"`
	FirstName      string        `json:"firstName"`
	LastName       string        `json:"lastName"`
	Email          string        `json:"email"`
	CareerInterest string        `json:"careerInterest"`
	DateJoined     string        `json:"dateJoined"`
	Phone          *string       `json:"phone,omitempty"`
	Address        *string       `json:"address,omitempty"`
	Status         StudentStatus `json:"status"`
}

// FullName returns "First Last".
func (s Student) FullName() string { return s.FirstName + " " + s.LastName }

// CounselingSession is one meeting between a counselor and a student.
// Duration is in minutes.
type CounselingSession struct {
	ID            string        `json:"id"`
	StudentID     string        `json:"studentId"`
	CounselorName string        `json:"counselorName"`
	SessionDate   string        `json:"sessionDate"`
	Notes         string        `json:"notes"`
	Duration      int           `json:"duration"`
	Type          SessionType   `json:"sessionType"`
	Status        SessionStatus `json:"status"`
}

var (
	ErrNotFound   = errors.New("record not found")
	ErrValidation = errors.New("invalid record")
)

// FieldError reports one invalid field. It matches ErrValidation.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s %s", e.Field, e.Reason) }

func (e *FieldError) Is(target error) bool { return target == ErrValidation }

// Validate checks the required fields of a student.
func (s Student) Validate() error {
	switch {
	case s.FirstName == "":
		return &FieldError{Field: "firstName", Reason: "is required"}
	case s.LastName == "":
		return &FieldError{Field: "lastName", Reason: "is required"}
	case s.Email == "":
		return &FieldError{Field: "email", Reason: "is required"}
	case s.CareerInterest == "":
		return &FieldError{Field: "careerInterest", Reason: "is required"}
	case !s.Status.Valid():
		return &FieldError{Field: "status", Reason: fmt.Sprintf("must be Active, Inactive or Graduated, got %q", s.Status)}
	}
	if _, err := time.Parse(DateLayout, s.DateJoined); err != nil {
		return &FieldError{Field: "dateJoined", Reason: "must be YYYY-MM-DD"}
	}
	return nil
}

// Validate checks the required fields of a counseling session.
func (c CounselingSession) Validate() error {
	switch {
	case c.StudentID == "":
		return &FieldError{Field: "studentId", Reason: "is required"}
	case c.CounselorName == "":
		return &FieldError{Field: "counselorName", Reason: "is required"}
	case c.Duration <= 0:
		return &FieldError{Field: "duration", Reason: "must be positive"}
	case !c.Type.Valid():
		return &FieldError{Field: "sessionType", Reason: fmt.Sprintf("must be Individual, Group or Workshop, got %q", c.Type)}
	case !c.Status.Valid():
		return &FieldError{Field: "status", Reason: fmt.Sprintf("must be Scheduled, Completed or Cancelled, got %q", c.Status)}
	}
	if _, err := time.Parse(DateLayout, c.SessionDate); err != nil {
		return &FieldError{Field: "sessionDate", Reason: "must be YYYY-MM-DD"}
	}
	return nil
}
