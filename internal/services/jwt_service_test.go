package services

import (
	"testing"
	"time"

	"github.com/Ghawri/Cattle-insurance-agent/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	agent := &models.Agent{ID: "agent-1", AgentCode: "AG001"}

	token, expiresAt, err := svc.GenerateToken(agent, "session-1", time.Now())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "agent-1", claims.Subject)
	assert.Equal(t, "session-1", claims.ID)
	assert.Equal(t, "AG001", claims.AgentCode)
}

func TestJWTService_RejectsExpired(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	token, _, err := svc.GenerateToken(&models.Agent{ID: "a"}, "s", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	token, _, err := NewJWTService("secret", time.Hour).GenerateToken(&models.Agent{ID: "a"}, "s", time.Now())
	require.NoError(t, err)

	_, err = NewJWTService("other", time.Hour).VerifyToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsUnsignedToken(t *testing.T) {
	claims := models.AccessClaims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        "s",
		Subject:   "a",
		Issuer:    tokenIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTService("secret", time.Hour).VerifyToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	_, err := NewJWTService("secret", time.Hour).VerifyToken("not-a-token")
	assert.Error(t, err)
}
