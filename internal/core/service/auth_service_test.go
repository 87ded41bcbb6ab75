package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/bountyboard/points-ledger/internal/core/domain"
)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := NewAuthService(NewAdminGate([]int64{1}), hashPassword(t, "s3cret"), "secret", time.Hour)

	token, err := svc.Login(context.Background(), 1, "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != domain.RoleOperator {
		t.Fatalf("expected role %s, got %v", domain.RoleOperator, claims["role"])
	}
	if claims["sub"] != "1" {
		t.Fatalf("expected sub 1, got %v", claims["sub"])
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc := NewAuthService(NewAdminGate([]int64{1}), hashPassword(t, "goodpass"), "secret", time.Hour)

	if _, err := svc.Login(context.Background(), 1, "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_NotPrivileged(t *testing.T) {
	svc := NewAuthService(NewAdminGate([]int64{1}), hashPassword(t, "goodpass"), "secret", time.Hour)

	if _, err := svc.Login(context.Background(), 2, "goodpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_Disabled(t *testing.T) {
	svc := NewAuthService(NewAdminGate([]int64{1}), "", "secret", time.Hour)

	if _, err := svc.Login(context.Background(), 1, "anything"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
