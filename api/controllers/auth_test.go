package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/wayplan/backend/internal/auth"
	"github.com/wayplan/backend/internal/users"
	pkgerrors "github.com/wayplan/backend/pkg/errors"
)

type stubAuthService struct {
	signupResp *auth.AuthResponse
	loginResp  *auth.AuthResponse
	err        error

	lastSignup auth.SignupRequest
}

func (s *stubAuthService) Signup(_ context.Context, req auth.SignupRequest) (*auth.AuthResponse, error) {
	s.lastSignup = req
	if s.err != nil {
		return nil, s.err
	}
	return s.signupResp, nil
}

func (s *stubAuthService) Login(_ context.Context, _ auth.LoginRequest) (*auth.AuthResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.loginResp, nil
}

func (s *stubAuthService) ForgotPassword(_ context.Context, _ auth.ForgotPasswordRequest) (*auth.ForgotPasswordResponse, error) {
	return &auth.ForgotPasswordResponse{Message: "ok"}, nil
}

func (s *stubAuthService) ResetPassword(_ context.Context, _ auth.ResetPasswordRequest) error {
	return s.err
}

func authResponseFixture() *auth.AuthResponse {
	return &auth.AuthResponse{
		User:        &users.UserDTO{ID: uuid.New(), Email: "jane@example.com", FirstName: "Jane"},
		AccessToken: "signed.jwt.token",
	}
}

func TestSignupReturns201(t *testing.T) {
	svc := &stubAuthService{signupResp: authResponseFixture()}
	controller := NewAuthController(svc, nil)

	req := newRequest(t, http.MethodPost, "/api/v1/auth/signup", map[string]any{
		"email":      "jane@example.com",
		"password":   "correct horse battery",
		"first_name": "Jane",
	}, uuid.Nil, nil)
	rec := httptest.NewRecorder()
	controller.Signup(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	data := dataField(t, rec)
	if data["access_token"] != "signed.jwt.token" {
		t.Fatalf("missing token: %v", data)
	}
	if svc.lastSignup.Email != "jane@example.com" {
		t.Fatalf("request not forwarded: %+v", svc.lastSignup)
	}
}

func TestSignupRejectsBadBody(t *testing.T) {
	controller := NewAuthController(&stubAuthService{}, nil)

	req := newRequest(t, http.MethodPost, "/api/v1/auth/signup", map[string]any{
		"email":    "not-an-email",
		"password": "short",
	}, uuid.Nil, nil)
	rec := httptest.NewRecorder()
	controller.Signup(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
	errObj := errorField(t, rec)
	if errObj["code"] != string(pkgerrors.CodeValidation) {
		t.Fatalf("code = %v, want validation", errObj["code"])
	}
}

func TestLoginPropagatesUnauthorized(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")}
	controller := NewAuthController(svc, nil)

	req := newRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    "jane@example.com",
		"password": "wrong password",
	}, uuid.Nil, nil)
	rec := httptest.NewRecorder()
	controller.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLoginSuccess(t *testing.T) {
	svc := &stubAuthService{loginResp: authResponseFixture()}
	controller := NewAuthController(svc, nil)

	req := newRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    "jane@example.com",
		"password": "correct horse battery",
	}, uuid.Nil, nil)
	rec := httptest.NewRecorder()
	controller.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}
