package trips

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wayplan/backend/pkg/db/models"
	"github.com/wayplan/backend/pkg/enums"
	pkgerrors "github.com/wayplan/backend/pkg/errors"
	"github.com/wayplan/backend/pkg/metrics"
)

// Service defines the behavior needed by the trips controller.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*TripDTO, error)
	Get(ctx context.Context, tripID uuid.UUID) (*TripDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]TripDTO, error)
	Delete(ctx context.Context, tripID uuid.UUID) error
	ValidateJoinCode(ctx context.Context, code string) (*ValidateJoinCodeResponse, error)
	FindByJoinCode(ctx context.Context, code string) (*TripDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type tripRepository interface {
	Create(ctx context.Context, trip *models.Trip) (*models.Trip, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Trip, error)
	FindByJoinCode(ctx context.Context, joinCode string) (*models.Trip, error)
	JoinCodeExists(ctx context.Context, joinCode string) (bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Trip, error)
	DeleteActivityAssociations(ctx context.Context, tripID uuid.UUID) error
	DeleteActivities(ctx context.Context, tripID uuid.UUID) error
	Delete(ctx context.Context, tripID uuid.UUID) error
}

type membershipWriter interface {
	Create(ctx context.Context, tripID, userID uuid.UUID, role enums.TripRole) (*models.TripMembership, error)
	DeleteForTrip(ctx context.Context, tripID uuid.UUID) error
}

// MembershipWriterFunc adapts a repository constructor into the membership
// factory expected by ServiceParams.
func MembershipWriterFunc[T membershipWriter](fn func(tx *gorm.DB) T) func(tx *gorm.DB) membershipWriter {
	return func(tx *gorm.DB) membershipWriter { return fn(tx) }
}

// ServiceParams bundles the dependencies required to build a trips service.
type ServiceParams struct {
	TxRunner          txRunner
	Repo              tripRepository
	RepoFactory       func(tx *gorm.DB) tripRepository
	MembershipFactory func(tx *gorm.DB) membershipWriter
	GenerateCode      func(length int) (string, error)
	Metrics           *metrics.APIMetrics
}

type service struct {
	txRunner          txRunner
	repo              tripRepository
	repoFactory       func(tx *gorm.DB) tripRepository
	membershipFactory func(tx *gorm.DB) membershipWriter
	generateCode      func(length int) (string, error)
	collector         *metrics.APIMetrics
}

// NewService constructs a trips service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("trip repository is required")
	}
	if params.RepoFactory == nil {
		params.RepoFactory = func(tx *gorm.DB) tripRepository { return NewRepository(tx) }
	}
	if params.MembershipFactory == nil {
		return nil, fmt.Errorf("membership factory is required")
	}
	if params.GenerateCode == nil {
		params.GenerateCode = defaultJoinCodeGenerator
	}

	return &service{
		txRunner:          params.TxRunner,
		repo:              params.Repo,
		repoFactory:       params.RepoFactory,
		membershipFactory: params.MembershipFactory,
		generateCode:      params.GenerateCode,
		collector:         params.Metrics,
	}, nil
}

// Create writes the trip and its creator membership in one transaction. A
// caller-supplied join code is honored when unused; otherwise the server
// draws a fresh one.
func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*TripDTO, error) {
	var dto *TripDTO
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repoFactory(tx)
		members := s.membershipFactory(tx)

		joinCode, err := s.resolveJoinCode(ctx, repo, req.JoinCode)
		if err != nil {
			return err
		}

		trip, err := repo.Create(ctx, &models.Trip{
			JoinCode:  joinCode,
			Country:   req.Country,
			City:      req.City,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			Timezone:  req.Timezone,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create trip")
		}

		if _, err := members.Create(ctx, trip.ID, userID, enums.TripRoleCreator); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create creator membership")
		}

		dto = FromModel(trip)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.collector != nil {
		s.collector.IncTripsCreated()
	}
	return dto, nil
}

func (s *service) resolveJoinCode(ctx context.Context, repo tripRepository, requested *string) (string, error) {
	if requested != nil {
		code := *requested
		if !acceptableJoinCode(code) {
			return "", pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("join code must be between 1 and %d characters", maxCustomJoinCodeSize))
		}
		exists, err := repo.JoinCodeExists(ctx, code)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check join code")
		}
		if exists {
			return "", pkgerrors.New(pkgerrors.CodeConflict, "join code is already in use")
		}
		return code, nil
	}

	code, err := generateUniqueJoinCode(ctx, repo, s.generateCode)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "allocate join code")
	}
	return code, nil
}

func (s *service) Get(ctx context.Context, tripID uuid.UUID) (*TripDTO, error) {
	trip, err := s.repo.FindByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup trip")
	}
	return FromModel(trip), nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]TripDTO, error) {
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list trips")
	}

	trips := make([]TripDTO, 0, len(rows))
	for i := range rows {
		trips = append(trips, *FromModel(&rows[i]))
	}
	return trips, nil
}

// Delete removes the trip and everything hanging off it in one transaction:
// activity links, suggester rows, memberships, activities, then the trip.
func (s *service) Delete(ctx context.Context, tripID uuid.UUID) error {
	return s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repoFactory(tx)
		members := s.membershipFactory(tx)

		if _, err := repo.FindByID(ctx, tripID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup trip")
		}

		if err := repo.DeleteActivityAssociations(ctx, tripID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete activity associations")
		}
		if err := members.DeleteForTrip(ctx, tripID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete memberships")
		}
		if err := repo.DeleteActivities(ctx, tripID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete activities")
		}
		if err := repo.Delete(ctx, tripID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete trip")
		}
		return nil
	})
}

// ValidateJoinCode reports true when no trip currently holds the code.
func (s *service) ValidateJoinCode(ctx context.Context, code string) (*ValidateJoinCodeResponse, error) {
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "join code is required")
	}

	exists, err := s.repo.JoinCodeExists(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check join code")
	}
	return &ValidateJoinCodeResponse{IsValid: !exists}, nil
}

func (s *service) FindByJoinCode(ctx context.Context, code string) (*TripDTO, error) {
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "join code is required")
	}

	trip, err := s.repo.FindByJoinCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found for join code")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup trip by join code")
	}
	return FromModel(trip), nil
}
