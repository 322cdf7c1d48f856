package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spieletreff/wachhund/cmd/panel/config"
	"github.com/spieletreff/wachhund/pkg/entities"
)

func TestTokenRoundTrip(t *testing.T) {
	config.JwtSecret = "test-secret"

	user := &entities.User{
		ID:       "user-1",
		Username: "bob",
		Role:     entities.RoleAdmin,
	}

	token, err := issueToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sub, err := parseToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", sub)
}

func TestParseTokenWrongSecret(t *testing.T) {
	config.JwtSecret = "test-secret"

	token, err := issueToken(&entities.User{ID: "user-1", Username: "bob", Role: entities.RoleUser})
	require.NoError(t, err)

	config.JwtSecret = "another-secret"
	_, err = parseToken(token)
	require.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	config.JwtSecret = "test-secret"

	_, err := parseToken("not-a-token")
	require.Error(t, err)
}

func TestLoginLimiterBurst(t *testing.T) {
	limiter := newLoginLimiter()

	for i := 0; i < 5; i++ {
		require.True(t, limiter.allow("10.0.0.1"))
	}
	require.False(t, limiter.allow("10.0.0.1"))

	// Other clients get their own bucket.
	require.True(t, limiter.allow("10.0.0.2"))
}
