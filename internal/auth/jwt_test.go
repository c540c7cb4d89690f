package auth

import (
	"testing"
	"time"

	"abarrotes-backend/internal/config"
	"abarrotes-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.DurableHours = 24
	cfg.JWT.SessionHours = 1
	cfg.JWT.Issuer = "abarrotes-backend"
	return cfg
}

func TestGenerateAndValidateToken(t *testing.T) {
	mgr := NewJWTManager(testConfig())
	user := &models.User{ID: 7, Email: "dona@f1.mx", Role: "owner"}

	token, err := mgr.GenerateToken(user, true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "dona@f1.mx", claims.Email)
	assert.Equal(t, "owner", claims.Role)
}

func TestTokenLifetimeByRemember(t *testing.T) {
	mgr := NewJWTManager(testConfig())
	user := &models.User{ID: 1, Email: "a@b.mx"}

	durable, err := mgr.GenerateToken(user, true)
	require.NoError(t, err)
	session, err := mgr.GenerateToken(user, false)
	require.NoError(t, err)

	durableClaims, err := mgr.ValidateToken(durable)
	require.NoError(t, err)
	sessionClaims, err := mgr.ValidateToken(session)
	require.NoError(t, err)

	durableLife := durableClaims.ExpiresAt.Sub(durableClaims.IssuedAt.Time)
	sessionLife := sessionClaims.ExpiresAt.Sub(sessionClaims.IssuedAt.Time)
	assert.Equal(t, 24*time.Hour, durableLife)
	assert.Equal(t, time.Hour, sessionLife)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	mgr := NewJWTManager(testConfig())
	user := &models.User{ID: 1, Email: "a@b.mx"}

	token, err := mgr.GenerateToken(user, false)
	require.NoError(t, err)

	otherCfg := testConfig()
	otherCfg.JWT.Secret = "different-secret"
	other := NewJWTManager(otherCfg)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	mgr := NewJWTManager(testConfig())
	_, err := mgr.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secreto123")
	require.NoError(t, err)
	assert.NotEqual(t, "secreto123", hash)

	assert.True(t, VerifyPassword(hash, "secreto123"))
	assert.False(t, VerifyPassword(hash, "otro"))
}
