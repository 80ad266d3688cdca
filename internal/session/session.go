package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cgmis/internal/identity"
)

// Session is the signed-in identity with its token and expiry.
// Persisted as {"user": ..., "token": ..., "expires_at": ISO-8601}.
type Session struct {
	User      identity.Identity `json:"user"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// Valid reports whether the session is still live at now.
func (s Session) Valid(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation      = errors.New("validation failed")
	ErrUnknownIdentity = errors.New("unknown email")
)

// ValidationError reports a missing required sign-in field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DeserializationError reports a persisted session that could not be decoded.
type DeserializationError struct {
	Err error
}

func (e *DeserializationError) Error() string {
	return "session: corrupt persisted session: " + e.Err.Error()
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// Encode serializes s in the persisted layout.
func Encode(s Session) (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("session: encode: %w", err)
	}
	return string(raw), nil
}

// Decode parses a persisted session. A payload missing its token or expiry is corrupt.
func Decode(raw string) (Session, error) {
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Session{}, &DeserializationError{Err: err}
	}
	if s.Token == "" || s.ExpiresAt.IsZero() {
		return Session{}, &DeserializationError{Err: errors.New("missing token or expires_at")}
	}
	return s, nil
}
