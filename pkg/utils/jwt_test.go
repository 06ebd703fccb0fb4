package utils_test

import (
	"testing"
	"time"

	"github.com/bizfolio/bizfolio-api/pkg/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_AccessTokenRoundTrip(t *testing.T) {
	m := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "staff@example.com", "staff")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "staff@example.com", claims.Email)
	assert.Equal(t, "staff", claims.Role)
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	m := utils.NewJWTManager("test-secret", -time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken(uuid.New(), "staff@example.com", "staff")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	require.Error(t, err)
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	m := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	other := utils.NewJWTManager("other-secret", time.Hour, 24*time.Hour)

	token, err := m.GenerateAccessToken(uuid.New(), "staff@example.com", "staff")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	require.Error(t, err)
}

func TestJWTManager_RefreshTokenRoundTrip(t *testing.T) {
	m := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	token, err := m.GenerateRefreshToken(userID)
	require.NoError(t, err)

	got, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := utils.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, utils.CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, utils.CheckPasswordHash("wrong-pass", hash))
}
