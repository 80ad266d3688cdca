package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cgmis/internal/identity"
)

type failingTokens struct{}

func (failingTokens) Issue(identity.Identity, time.Time) (string, error) {
	return "", errors.New("no entropy")
}

func TestRenew_Defaults(t *testing.T) {
	now := time.Date(2024, 4, 1, 11, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	a := &Authenticator{Now: func() time.Time { return now }}
	u := identity.Identity{ID: "9", Email: "x@example.com"}

	s, err := a.Renew(u)
	require.NoError(t, err)
	assert.Equal(t, u, s.User)
	assert.Len(t, s.Token, 43)
	assert.True(t, s.ExpiresAt.Equal(now.Add(DefaultTTL)))
	assert.Equal(t, time.UTC, s.ExpiresAt.Location())
}

func TestRenew_TokenFailure(t *testing.T) {
	a := &Authenticator{Tokens: failingTokens{}, TTL: time.Minute}
	_, err := a.Renew(identity.Identity{ID: "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no entropy")
}

func TestAuthenticate_TokenFailure(t *testing.T) {
	a := &Authenticator{Registry: identity.DefaultRegistry(time.Now()), Tokens: failingTokens{}}
	_, err := a.Authenticate("admin@cgmis.local", "pw")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnknownIdentity))
}

func TestRandomTokens_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		tok, err := RandomTokens{}.Issue(identity.Identity{}, time.Time{})
		require.NoError(t, err)
		require.False(t, seen[tok])
		seen[tok] = true
	}
}
