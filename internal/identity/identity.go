package identity

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	ErrAlreadyExists = errors.New("user already exists")
	ErrInvalidEmail  = errors.New("email is required")
)

// Identity is a user record known to the system.
type Identity struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name,omitempty"`
	Role      string     `json:"role,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// DisplayName returns the name, falling back to the email.
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Email
}

const (
	RoleAdmin     = "admin"
	RoleCounselor = "counselor"
	RoleUser      = "user"
)

// Registry is the in-memory set of known identities. Registrations live for
// the lifetime of the registry only.
type Registry struct {
	mu    sync.RWMutex
	users []Identity
}

// NewRegistry returns a registry holding the given identities.
func NewRegistry(seed ...Identity) *Registry {
	users := make([]Identity, len(seed))
	copy(users, seed)
	return &Registry{users: users}
}

// DefaultRegistry returns the registry seeded with the built-in staff accounts.
func DefaultRegistry(now time.Time) *Registry {
	created := now.UTC()
	return NewRegistry(
		Identity{ID: "1", Email: "admin@cgmis.local", Name: "Administrator", Role: RoleAdmin, CreatedAt: &created},
		Identity{ID: "2", Email: "counselor@cgmis.local", Name: "Career Counselor", Role: RoleCounselor, CreatedAt: &created},
	)
}

// Lookup finds an identity by exact email.
func (r *Registry) Lookup(email string) (Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, true
		}
	}
	return Identity{}, false
}

// Register appends a new identity. The id is derived from now.
func (r *Registry) Register(email, name string, now time.Time) (Identity, error) {
	if email == "" {
		return Identity{}, ErrInvalidEmail
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return Identity{}, ErrAlreadyExists
		}
	}
	created := now.UTC()
	u := Identity{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Email:     email,
		Name:      name,
		Role:      RoleUser,
		CreatedAt: &created,
	}
	r.users = append(r.users, u)
	return u, nil
}

// All returns a snapshot of the registry in insertion order.
func (r *Registry) All() []Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Identity, len(r.users))
	copy(out, r.users)
	return out
}

// Temporary synthesizes a stand-in identity for an email missing from the registry.
func Temporary(email string, now time.Time) Identity {
	created := now.UTC()
	return Identity{
		ID:        "temp_" + strconv.FormatInt(now.UnixMilli(), 10),
		Email:     email,
		Name:      LocalPart(email),
		Role:      RoleUser,
		CreatedAt: &created,
	}
}

// LocalPart returns the part of an email before the first '@'.
func LocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
