package session

import (
	"civicconnect/backend/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	want := Identity{Username: "admin", Role: models.RoleAdmin}

	signed, err := tokens.Issue(want)
	require.NoError(t, err)

	got, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTokens_Expired(t *testing.T) {
	tokens := NewTokens("secret", time.Minute)
	start := time.Now()
	tokens.now = func() time.Time { return start }

	signed, err := tokens.Issue(Identity{Username: "maria", Role: models.RoleCitizen})
	require.NoError(t, err)

	tokens.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = tokens.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_WrongSecret(t *testing.T) {
	signed, err := NewTokens("one", time.Hour).Issue(Identity{Username: "maria", Role: models.RoleCitizen})
	require.NoError(t, err)

	_, err = NewTokens("two", time.Hour).Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokens("one", time.Hour).Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
