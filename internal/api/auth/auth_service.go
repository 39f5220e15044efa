package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-recipes-api/config"
	"github.com/FACorreiaa/go-recipes-api/internal/api"
	"github.com/FACorreiaa/go-recipes-api/internal/types"
)

var (
	ErrInvalidIssuer   = errors.New("invalid token issuer")
	ErrInvalidAudience = errors.New("invalid token audience")
)

// TokenService issues and validates HS256 access tokens.
type TokenService struct {
	cfg    config.JWTConfig
	secret []byte
	now    func() time.Time
}

func NewTokenService(cfg config.JWTConfig) (*TokenService, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("JWT secret key cannot be empty")
	}
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = time.Hour
	}
	return &TokenService{cfg: cfg, secret: []byte(cfg.SecretKey), now: time.Now}, nil
}

// Issue signs an access token for username.
func (s *TokenService) Issue(username string) (types.TokenResponse, error) {
	now := s.now()
	claims := types.Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
			ID:        uuid.NewString(),
		},
	}
	if s.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{s.cfg.Audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return types.TokenResponse{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return types.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.cfg.AccessTokenTTL.Seconds()),
	}, nil
}

// Parse validates tokenString and returns its claims.
func (s *TokenService) Parse(tokenString string) (*types.Claims, error) {
	claims := &types.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Issuer != s.cfg.Issuer {
		return nil, ErrInvalidIssuer
	}
	if !api.VerifyAudience(claims.Audience, s.cfg.Audience) {
		return nil, ErrInvalidAudience
	}
	if claims.Username == "" {
		claims.Username = claims.Subject
	}
	return claims, nil
}
