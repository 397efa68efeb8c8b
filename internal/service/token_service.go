package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/guttosm/shipment-packaging/config"
	"github.com/guttosm/shipment-packaging/internal/domain/dto"
)

// ErrInvalidToken is returned when a token is malformed, expired or signed
// with another key.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService issues and validates acting-user tokens. The user id carried
// by a token scopes builder sessions.
type TokenService interface {
	// Issue signs a token for userID.
	Issue(userID, name string) (*dto.TokenResponse, error)
	// Validate parses a token and returns its claims.
	Validate(tokenString string) (*dto.Claims, error)
}

// ClaimsWithJWT embeds the acting-user claims in the registered JWT claims.
type ClaimsWithJWT struct {
	dto.Claims
	jwt.RegisteredClaims
}

// TokenServiceImpl implements TokenService with HMAC-SHA256.
type TokenServiceImpl struct {
	secretKey []byte
	tokenTTL  time.Duration
}

// TokenConfig holds configuration for the token service.
type TokenConfig struct {
	SecretKey string
	TokenTTL  time.Duration
}

// NewTokenConfigFromAuthConfig creates TokenConfig from config.AuthConfig.
func NewTokenConfigFromAuthConfig(authConfig config.AuthConfig) TokenConfig {
	return TokenConfig{
		SecretKey: authConfig.JWTSecretKey,
		TokenTTL:  authConfig.TokenTTL,
	}
}

// NewTokenService creates a new token service.
func NewTokenService(cfg TokenConfig) TokenService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenServiceImpl{
		secretKey: []byte(cfg.SecretKey),
		tokenTTL:  ttl,
	}
}

// Issue signs a token for userID.
func (s *TokenServiceImpl) Issue(userID, name string) (*dto.TokenResponse, error) {
	if userID == "" {
		return nil, errors.New("user ID is empty, cannot create token")
	}
	now := time.Now()
	claims := &ClaimsWithJWT{
		Claims: dto.Claims{
			UserID: userID,
			Name:   name,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &dto.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
	}, nil
}

// Validate parses a token and returns its claims.
func (s *TokenServiceImpl) Validate(tokenString string) (*dto.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ClaimsWithJWT{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claimsWithJWT, ok := token.Claims.(*ClaimsWithJWT); ok && token.Valid && claimsWithJWT.UserID != "" {
		return &claimsWithJWT.Claims, nil
	}
	return nil, ErrInvalidToken
}
