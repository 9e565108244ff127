package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/wayplan/backend/internal/users"
	pkgauth "github.com/wayplan/backend/pkg/auth"
	"github.com/wayplan/backend/pkg/config"
	"github.com/wayplan/backend/pkg/db/models"
	pkgerrors "github.com/wayplan/backend/pkg/errors"
	"github.com/wayplan/backend/pkg/redis"
	"github.com/wayplan/backend/pkg/security"
)

const resetTokenBytes = 32

// Service defines the behavior needed by the auth controller.
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type resetTokenStore interface {
	StoreResetToken(ctx context.Context, token, userID string, ttl time.Duration) error
	ConsumeResetToken(ctx context.Context, token string) (string, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	TxRunner    txRunner
	Repo        userRepository
	RepoFactory func(tx *gorm.DB) userRepository
	ResetTokens resetTokenStore
	App         config.AppConfig
	JWT         config.JWTConfig
	Password    config.PasswordConfig
}

type service struct {
	txRunner    txRunner
	repo        userRepository
	repoFactory func(tx *gorm.DB) userRepository
	resetTokens resetTokenStore
	app         config.AppConfig
	jwtCfg      config.JWTConfig
	pwCfg       config.PasswordConfig
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.RepoFactory == nil {
		params.RepoFactory = func(tx *gorm.DB) userRepository { return users.NewRepository(tx) }
	}
	if params.ResetTokens == nil {
		return nil, fmt.Errorf("reset token store is required")
	}

	return &service{
		txRunner:    params.TxRunner,
		repo:        params.Repo,
		repoFactory: params.RepoFactory,
		resetTokens: params.ResetTokens,
		app:         params.App,
		jwtCfg:      params.JWT,
		pwCfg:       params.Password,
	}, nil
}

// Signup creates the account and signs the first access token. Duplicate
// emails conflict, whether caught by the pre-check or the unique index.
func (s *service) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var user *models.User
	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repoFactory(tx)

		_, err := repo.FindByEmail(ctx, email)
		if err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "an account with this email already exists")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup email")
		}

		user, err = repo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: hash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			ProfilePic:   req.ProfilePic,
		})
		if err != nil {
			if isUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "an account with this email already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.buildAuthResponse(user)
}

// Login verifies the password and signs a fresh access token. Unknown email
// and wrong password return the same error.
func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup email")
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}

	return s.buildAuthResponse(user)
}

// ForgotPassword stores a single-use reset token. The response never reveals
// whether the email has an account.
func (s *service) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*ForgotPasswordResponse, error) {
	resp := &ForgotPasswordResponse{
		Message: "if the email is registered, a reset link has been sent",
	}

	user, err := s.repo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resp, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup email")
	}

	token, err := security.GenerateResetToken(resetTokenBytes)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset token")
	}
	if err := s.resetTokens.StoreResetToken(ctx, token, user.ID.String(), s.jwtCfg.ResetTokenTTL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store reset token")
	}

	if s.app.IsDev() {
		resp.ResetToken = token
	}
	return resp, nil
}

// ResetPassword consumes the token and overwrites the stored hash.
func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	userIDStr, err := s.resetTokens.ConsumeResetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "reset token is invalid or expired")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume reset token")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse stored user id")
	}

	hash, err := security.HashPassword(req.NewPassword, s.pwCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "reset token is invalid or expired")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}
	return nil
}

func (s *service) buildAuthResponse(user *models.User) (*AuthResponse, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID:     user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		ProfilePic: user.ProfilePic,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &AuthResponse{User: users.FromModel(user), AccessToken: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
