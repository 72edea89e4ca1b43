package service

import (
	"context"
	"fmt"
	"time"

	"realtyflow/internal/cache"
	"realtyflow/internal/config"
	"realtyflow/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthService handles agent authentication
type AuthService struct {
	username  string
	password  string
	jwtSecret []byte
	ttl       time.Duration
	tokens    cache.TokenCache
	now       func() time.Time
}

// NewAuthService creates a new auth service. tokens may be nil, in which case sign-out is a no-op.
func NewAuthService(cfg config.AuthConfig, tokens cache.TokenCache) *AuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		username:  cfg.Username,
		password:  cfg.Password,
		jwtSecret: []byte(cfg.Secret),
		ttl:       ttl,
		tokens:    tokens,
		now:       time.Now,
	}
}

// AgentID derives a stable agent ID from a username, so data survives re-login
func AgentID(username string) string {
	return "agent_" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(username)).String()[:8]
}

// Login validates credentials and returns a signed token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.username || password != s.password {
		return nil, model.ErrInvalidCredentials
	}

	now := s.now()
	expires := now.Add(s.ttl)
	claims := &model.AgentClaims{
		AgentID: AgentID(username),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &model.LoginResponse{
		Token:     tokenString,
		AgentID:   claims.AgentID,
		ExpiresAt: expires.Unix(),
	}, nil
}

// ValidateToken validates an agent JWT, including revocation, and returns its claims
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*model.AgentClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.AgentClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, model.ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.AgentClaims)
	if !ok || !token.Valid || claims.AgentID == "" {
		return nil, model.ErrInvalidToken
	}

	if s.tokens != nil && claims.ID != "" {
		revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if revoked {
			return nil, model.ErrInvalidToken
		}
	}

	return claims, nil
}

// SignOut revokes the token until it expires
func (s *AuthService) SignOut(ctx context.Context, claims *model.AgentClaims) error {
	if s.tokens == nil || claims.ID == "" {
		return nil
	}
	until := s.now().Add(s.ttl)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	return s.tokens.Revoke(ctx, claims.ID, until)
}
