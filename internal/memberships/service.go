package memberships

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

// JoinResponse reports the membership resulting from a join. AlreadyMember is
// true when the user was part of the trip before the call.
type JoinResponse struct {
	Membership    MembershipDTO `json:"membership"`
	AlreadyMember bool          `json:"already_member"`
}

// Service defines the behavior needed by the trip membership endpoints.
type Service interface {
	Join(ctx context.Context, userID, tripID uuid.UUID, joinCode string) (*JoinResponse, error)
	ListMembers(ctx context.Context, tripID uuid.UUID) ([]MemberDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]MembershipDTO, error)
	UserHasRole(ctx context.Context, userID, tripID uuid.UUID, roles ...enums.TripRole) (bool, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type membershipRepository interface {
	Create(ctx context.Context, tripID, userID uuid.UUID, role enums.TripRole) (*models.TripMembership, error)
	Get(ctx context.Context, tripID, userID uuid.UUID) (*models.TripMembership, error)
	ListTripMembers(ctx context.Context, tripID uuid.UUID) ([]MemberDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.TripMembership, error)
	UserHasRole(ctx context.Context, userID, tripID uuid.UUID, roles ...enums.TripRole) (bool, error)
}

type tripFinder interface {
	FindByJoinCode(ctx context.Context, joinCode string) (*models.Trip, error)
}

// TripFinderFunc adapts a repository constructor into the trip finder factory
// expected by ServiceParams.
func TripFinderFunc[T tripFinder](fn func(tx *gorm.DB) T) func(tx *gorm.DB) tripFinder {
	return func(tx *gorm.DB) tripFinder { return fn(tx) }
}

// ServiceParams bundles the dependencies required to build a memberships service.
type ServiceParams struct {
	TxRunner    txRunner
	Repo        membershipRepository
	RepoFactory func(tx *gorm.DB) membershipRepository
	TripFinder  func(tx *gorm.DB) tripFinder
	Metrics     *metrics.APIMetrics
}

type service struct {
	txRunner    txRunner
	repo        membershipRepository
	repoFactory func(tx *gorm.DB) membershipRepository
	tripFinder  func(tx *gorm.DB) tripFinder
	collector   *metrics.APIMetrics
}

// NewService constructs a memberships service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("membership repository is required")
	}
	if params.RepoFactory == nil {
		params.RepoFactory = func(tx *gorm.DB) membershipRepository { return NewRepository(tx) }
	}
	if params.TripFinder == nil {
		return nil, fmt.Errorf("trip finder factory is required")
	}

	return &service{
		txRunner:    params.TxRunner,
		repo:        params.Repo,
		repoFactory: params.RepoFactory,
		tripFinder:  params.TripFinder,
		collector:   params.Metrics,
	}, nil
}

// Join adds the user to the trip with the USER role after checking that the
// join code resolves to that trip. Joining a trip the user already belongs to
// is a no-op, not an error.
func (s *service) Join(ctx context.Context, userID, tripID uuid.UUID, joinCode string) (*JoinResponse, error) {
	if joinCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "join code is required")
	}

	var resp *JoinResponse
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		trips := s.tripFinder(tx)
		repo := s.repoFactory(tx)

		trip, err := trips.FindByJoinCode(ctx, joinCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "trip not found for join code")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup trip by join code")
		}
		if trip.ID != tripID {
			return pkgerrors.New(pkgerrors.CodeValidation, "join code does not belong to this trip")
		}

		existing, err := repo.Get(ctx, trip.ID, userID)
		if err == nil {
			resp = &JoinResponse{Membership: toMembershipDTO(existing), AlreadyMember: true}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup membership")
		}

		created, err := repo.Create(ctx, trip.ID, userID, enums.TripRoleUser)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create membership")
		}
		resp = &JoinResponse{Membership: toMembershipDTO(created)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !resp.AlreadyMember && s.collector != nil {
		s.collector.IncMembersJoined()
	}
	return resp, nil
}

func (s *service) ListMembers(ctx context.Context, tripID uuid.UUID) ([]MemberDTO, error) {
	members, err := s.repo.ListTripMembers(ctx, tripID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list trip members")
	}
	return members, nil
}

// ListMine returns the caller's membership rows, newest first, including the
// role held on each trip.
func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]MembershipDTO, error) {
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list memberships")
	}
	memberships := make([]MembershipDTO, 0, len(rows))
	for i := range rows {
		memberships = append(memberships, toMembershipDTO(&rows[i]))
	}
	return memberships, nil
}

func (s *service) UserHasRole(ctx context.Context, userID, tripID uuid.UUID, roles ...enums.TripRole) (bool, error) {
	has, err := s.repo.UserHasRole(ctx, userID, tripID, roles...)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check trip role")
	}
	return has, nil
}

func toMembershipDTO(m *models.TripMembership) MembershipDTO {
	return MembershipDTO{
		ID:       m.ID,
		TripID:   m.TripID,
		UserID:   m.UserID,
		Role:     m.Role,
		JoinedAt: m.CreatedAt,
	}
}
