package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bountyboard/points-ledger/internal/core/domain"
)

type stubAuthService struct {
	loginFn func(ctx context.Context, actorID domain.Identity, password string) (string, error)
}

func (s *stubAuthService) Login(ctx context.Context, actorID domain.Identity, password string) (string, error) {
	return s.loginFn(ctx, actorID, password)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func TestAuthHandler_Token_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, actorID domain.Identity, password string) (string, error) {
			if actorID != 42 || password != "hunter2" {
				t.Fatalf("unexpected args: %d %s", actorID, password)
			}
			return "signed.jwt.token", nil
		},
	}
	handler := NewAuthHandler(stub)

	body := strings.NewReader(`{"actor_id":42,"password":"hunter2"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/token", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Token(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "signed.jwt.token" {
		t.Fatalf("unexpected token %q", resp.Token)
	}
}

func TestAuthHandler_Token_ValidationError(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, domain.Identity, string) (string, error) {
			t.Fatalf("service must not be called")
			return "", nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"actor_id":0}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Token(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Token_InvalidCredentials(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, domain.Identity, string) (string, error) {
			return "", domain.ErrInvalidCredentials
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"actor_id":5,"password":"nope"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Token(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
