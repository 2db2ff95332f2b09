package services

import (
	"fmt"
	"time"

	"github.com/Ghawri/Cattle-insurance-agent/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "cattle-insurance-agent"

type JWTService struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTService(jwtSecret string, ttl time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(jwtSecret),
		ttl:    ttl,
	}
}

// GenerateToken signs an access token for agent bound to sessionID. The
// returned time is the token's expiry.
func (j *JWTService) GenerateToken(agent *models.Agent, sessionID string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(j.ttl)
	claims := models.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   agent.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		AgentCode: agent.AgentCode,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("error generate token string: %w", err)
	}
	return tokenString, expiresAt, nil
}

func (j *JWTService) VerifyToken(tokenString string) (*models.AccessClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&models.AccessClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return j.secret, nil
		},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*models.AccessClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, fmt.Errorf("token missing session or subject")
	}
	return claims, nil
}
