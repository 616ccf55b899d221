package utils

import (
	"testing"
	"time"

	"stayhub/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("guest-1", "guest", time.Hour)
	require.NoError(t, err)

	id, role, err := ExtractActorFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "guest-1", id)
	assert.Equal(t, "guest", role)
}

// The signing secret comes from the loaded config, not a package-init env
// read: a token minted under one secret must not verify under another.
func TestSecretFollowsConfig(t *testing.T) {
	prev := config.AppConfig.JWTSecret
	defer func() { config.AppConfig.JWTSecret = prev }()

	config.AppConfig.JWTSecret = "secret-a"
	token, err := GenerateToken("guest-1", "guest", time.Hour)
	require.NoError(t, err)

	config.AppConfig.JWTSecret = "secret-b"
	_, _, err = ExtractActorFromToken(token)
	assert.Error(t, err)

	config.AppConfig.JWTSecret = "secret-a"
	id, _, err := ExtractActorFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "guest-1", id)
}

func TestExtractActorRejectsGarbage(t *testing.T) {
	_, _, err := ExtractActorFromToken("not-a-token")
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateToken("guest-1", "guest", -time.Hour)
	require.NoError(t, err)

	_, _, err = ExtractActorFromToken(token)
	assert.Error(t, err)
}
