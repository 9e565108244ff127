package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wayplan/backend/internal/users"
	pkgauth "github.com/wayplan/backend/pkg/auth"
	"github.com/wayplan/backend/pkg/config"
	"github.com/wayplan/backend/pkg/db/models"
	pkgerrors "github.com/wayplan/backend/pkg/errors"
	"github.com/wayplan/backend/pkg/redis"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubUserRepo struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
	hashes  map[uuid.UUID]string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail: map[string]*models.User{},
		byID:    map[uuid.UUID]*models.User{},
		hashes:  map[uuid.UUID]string{},
	}
}

func (s *stubUserRepo) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	s.byEmail[user.Email] = user
	s.byID[user.ID] = user
	return user, nil
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	if u, ok := s.byID[id]; ok {
		u.PasswordHash = hash
	}
	s.hashes[id] = hash
	return nil
}

type stubResetTokenStore struct {
	tokens     map[string]string
	consumeErr error
}

func newStubResetTokenStore() *stubResetTokenStore {
	return &stubResetTokenStore{tokens: map[string]string{}}
}

func (s *stubResetTokenStore) StoreResetToken(_ context.Context, token, userID string, _ time.Duration) error {
	s.tokens[token] = userID
	return nil
}

func (s *stubResetTokenStore) ConsumeResetToken(_ context.Context, token string) (string, error) {
	if s.consumeErr != nil {
		return "", s.consumeErr
	}
	userID, ok := s.tokens[token]
	if !ok {
		return "", redis.ErrNotFound
	}
	delete(s.tokens, token)
	return userID, nil
}

func testPasswordConfig() config.PasswordConfig {
	// low-cost parameters keep the argon2 hashing fast in tests
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T, repo *stubUserRepo, tokens *stubResetTokenStore, env string) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		TxRunner:    stubTxRunner{},
		Repo:        repo,
		RepoFactory: func(_ *gorm.DB) userRepository { return repo },
		ResetTokens: tokens,
		App:         config.AppConfig{Env: env},
		JWT: config.JWTConfig{
			Secret:            "auth-service-test-secret",
			Issuer:            "wayplan",
			ExpirationMinutes: 60,
			ResetTokenTTL:     30 * time.Minute,
		},
		Password: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func signupRequest() SignupRequest {
	return SignupRequest{
		Email:     "jane@example.com",
		Password:  "correct horse battery",
		FirstName: "Jane",
	}
}

func TestSignupCreatesAccountAndToken(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, newStubResetTokenStore(), "production")

	resp, err := svc.Signup(context.Background(), signupRequest())
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if resp.User.Email != "jane@example.com" {
		t.Fatalf("email = %q", resp.User.Email)
	}
	if resp.AccessToken == "" {
		t.Fatalf("expected a signed token")
	}

	stored := repo.byEmail["jane@example.com"]
	if stored.PasswordHash == "" || stored.PasswordHash == "correct horse battery" {
		t.Fatalf("password stored unhashed")
	}

	claims, err := pkgauth.ParseAccessToken(config.JWTConfig{
		Secret: "auth-service-test-secret", Issuer: "wayplan", ExpirationMinutes: 60,
	}, resp.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Email != "jane@example.com" || claims.FirstName != "Jane" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestSignupNormalizesEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, newStubResetTokenStore(), "production")

	req := signupRequest()
	req.Email = "  Jane@Example.COM "
	resp, err := svc.Signup(context.Background(), req)
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if resp.User.Email != "jane@example.com" {
		t.Fatalf("email not normalized: %q", resp.User.Email)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, newStubResetTokenStore(), "production")

	if _, err := svc.Signup(context.Background(), signupRequest()); err != nil {
		t.Fatalf("first Signup: %v", err)
	}
	_, err := svc.Signup(context.Background(), signupRequest())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, newStubResetTokenStore(), "production")

	if _, err := svc.Signup(context.Background(), signupRequest()); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "jane@example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatalf("expected a signed token")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, newStubResetTokenStore(), "production")

	if _, err := svc.Signup(context.Background(), signupRequest()); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong password",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc := newTestService(t, newStubUserRepo(), newStubResetTokenStore(), "production")

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever12",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestForgotPasswordHidesAccountExistence(t *testing.T) {
	repo := newStubUserRepo()
	tokens := newStubResetTokenStore()
	svc := newTestService(t, repo, tokens, "production")

	if _, err := svc.Signup(context.Background(), signupRequest()); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	known, err := svc.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: "jane@example.com"})
	if err != nil {
		t.Fatalf("ForgotPassword known: %v", err)
	}
	unknown, err := svc.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: "nobody@example.com"})
	if err != nil {
		t.Fatalf("ForgotPassword unknown: %v", err)
	}
	if known.Message != unknown.Message {
		t.Fatalf("responses differ: %q vs %q", known.Message, unknown.Message)
	}
	if known.ResetToken != "" || unknown.ResetToken != "" {
		t.Fatalf("token leaked outside dev")
	}
	if len(tokens.tokens) != 1 {
		t.Fatalf("stored %d tokens, want 1", len(tokens.tokens))
	}
}

func TestForgotPasswordReturnsTokenInDev(t *testing.T) {
	repo := newStubUserRepo()
	tokens := newStubResetTokenStore()
	svc := newTestService(t, repo, tokens, "dev")

	if _, err := svc.Signup(context.Background(), signupRequest()); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	resp, err := svc.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: "jane@example.com"})
	if err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if resp.ResetToken == "" {
		t.Fatalf("dev response should carry the token")
	}
}

func TestResetPasswordSingleUse(t *testing.T) {
	repo := newStubUserRepo()
	tokens := newStubResetTokenStore()
	svc := newTestService(t, repo, tokens, "dev")

	if _, err := svc.Signup(context.Background(), signupRequest()); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	forgot, err := svc.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: "jane@example.com"})
	if err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}

	err = svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Token:       forgot.ResetToken,
		NewPassword: "brand new password",
	})
	if err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	if _, err := svc.Login(context.Background(), LoginRequest{
		Email:    "jane@example.com",
		Password: "brand new password",
	}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}

	err = svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Token:       forgot.ResetToken,
		NewPassword: "another password",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("reused token should be rejected, got %v", err)
	}
}

func TestResetPasswordBadToken(t *testing.T) {
	svc := newTestService(t, newStubUserRepo(), newStubResetTokenStore(), "production")

	err := svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Token:       "not-a-real-token",
		NewPassword: "whatever password",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestResetPasswordStoreOutage(t *testing.T) {
	tokens := newStubResetTokenStore()
	tokens.consumeErr = errors.New("connection refused")
	svc := newTestService(t, newStubUserRepo(), tokens, "production")

	err := svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Token:       "some-token",
		NewPassword: "whatever password",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("store failure must not read as a bad token, got %v", err)
	}
}
