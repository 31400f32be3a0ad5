package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/interviewday-backend/internal/logger"
	"github.com/yungbote/interviewday-backend/internal/utils"
)

type TokenClaims struct {
	jwt.RegisteredClaims
}

// TokenService exchanges the shared API key for a short-lived bearer
// token and verifies tokens on protected routes.
type TokenService interface {
	Issue(apiKey string) (string, time.Time, error)
	Verify(tokenString string) (*TokenClaims, error)
}

type tokenService struct {
	log       *logger.Logger
	apiKey    string
	secretKey string
	ttl       time.Duration
}

func NewTokenService(baseLog *logger.Logger) TokenService {
	log := baseLog.With("service", "TokenService")
	ttlMinutes := utils.GetEnvAsInt("TOKEN_TTL_MINUTES", 60, log)
	return &tokenService{
		log:       log,
		apiKey:    utils.GetEnv("API_KEY", "", log),
		secretKey: utils.GetEnv("JWT_SECRET_KEY", "", log),
		ttl:       time.Duration(ttlMinutes) * time.Minute,
	}
}

func (ts *tokenService) Issue(apiKey string) (string, time.Time, error) {
	if ts.apiKey == "" || ts.secretKey == "" {
		return "", time.Time{}, fmt.Errorf("token service is not configured")
	}
	if apiKey != ts.apiKey {
		return "", time.Time{}, fmt.Errorf("invalid api key")
	}
	expiresAt := time.Now().Add(ts.ttl)
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "scheduler",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(ts.secretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (ts *tokenService) Verify(tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("missing token")
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(ts.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}
	return claims, nil
}
