package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cgmis/internal/identity"
)

// TokenIssuer mints the opaque token carried by a session.
type TokenIssuer interface {
	Issue(u identity.Identity, expiresAt time.Time) (string, error)
}

// RandomTokens issues 256-bit random tokens.
type RandomTokens struct{}

func (RandomTokens) Issue(identity.Identity, time.Time) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Authenticator turns credentials into fresh, unpersisted sessions.
// Passwords are only checked for presence.
type Authenticator struct {
	Registry *identity.Registry
	Tokens   TokenIssuer
	TTL      time.Duration
	Now      func() time.Time
	// AllowUnknown synthesizes a temporary identity for emails missing from
	// the registry instead of failing with ErrUnknownIdentity.
	AllowUnknown bool
	Log          *zap.Logger
}

func (a *Authenticator) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *Authenticator) logger() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}

// Authenticate resolves email to an identity and mints a session for it.
func (a *Authenticator) Authenticate(email, password string) (Session, error) {
	if email == "" {
		signIns.WithLabelValues("invalid").Inc()
		return Session{}, &ValidationError{Field: "email"}
	}
	if password == "" {
		signIns.WithLabelValues("invalid").Inc()
		return Session{}, &ValidationError{Field: "password"}
	}

	u, ok := a.Registry.Lookup(email)
	if !ok {
		if !a.AllowUnknown {
			signIns.WithLabelValues("rejected").Inc()
			return Session{}, ErrUnknownIdentity
		}
		u = identity.Temporary(email, a.now())
		a.logger().Debug("synthesized temporary identity", zap.String("id", u.ID))
	}

	s, err := a.Renew(u)
	if err != nil {
		signIns.WithLabelValues("error").Inc()
		return Session{}, err
	}
	signIns.WithLabelValues("success").Inc()
	return s, nil
}

// Renew mints a new session for an already resolved identity.
func (a *Authenticator) Renew(u identity.Identity) (Session, error) {
	ttl := a.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	tokens := a.Tokens
	if tokens == nil {
		tokens = RandomTokens{}
	}
	expiresAt := a.now().Add(ttl).UTC()
	token, err := tokens.Issue(u, expiresAt)
	if err != nil {
		return Session{}, fmt.Errorf("session: issue token: %w", err)
	}
	return Session{User: u, Token: token, ExpiresAt: expiresAt}, nil
}

// Register adds a new identity to the registry.
func (a *Authenticator) Register(email, password, name string) (identity.Identity, error) {
	if email == "" {
		registrations.WithLabelValues("invalid").Inc()
		return identity.Identity{}, &ValidationError{Field: "email"}
	}
	if password == "" {
		registrations.WithLabelValues("invalid").Inc()
		return identity.Identity{}, &ValidationError{Field: "password"}
	}
	u, err := a.Registry.Register(email, name, a.now())
	if err != nil {
		if errors.Is(err, identity.ErrAlreadyExists) {
			registrations.WithLabelValues("duplicate").Inc()
		}
		return identity.Identity{}, err
	}
	registrations.WithLabelValues("success").Inc()
	a.logger().Info("registered identity", zap.String("user_id", u.ID))
	return u, nil
}
