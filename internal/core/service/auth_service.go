package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/bountyboard/points-ledger/internal/core/domain"
	"github.com/bountyboard/points-ledger/internal/core/ports"
)

// AuthService issues operator tokens. Only privileged identities holding
// the shared operator password can log in.
type AuthService struct {
	gate         ports.Gate
	passwordHash []byte
	jwtSecret    string
	tokenTTL     time.Duration
}

// NewAuthService returns an AuthService. An empty passwordHash or jwtSecret
// disables login entirely.
func NewAuthService(gate ports.Gate, passwordHash, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		gate:         gate,
		passwordHash: []byte(passwordHash),
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
	}
}

func (s *AuthService) Login(_ context.Context, actorID domain.Identity, password string) (string, error) {
	if len(s.passwordHash) == 0 || s.jwtSecret == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}
	if !s.gate.IsPrivileged(actorID) {
		return "", domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}
	return s.generateToken(actorID)
}

func (s *AuthService) generateToken(actorID domain.Identity) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  actorID.String(),
		"role": domain.RoleOperator,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
