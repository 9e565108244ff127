package activities

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/wayplan/backend/pkg/db/models"
	dbtypes "github.com/wayplan/backend/pkg/db/types"
	pkgerrors "github.com/wayplan/backend/pkg/errors"
	"github.com/wayplan/backend/pkg/metrics"
	"github.com/wayplan/backend/pkg/pagination"
)

// Service defines the behavior needed by the activities controller.
type Service interface {
	Create(ctx context.Context, suggesterID uuid.UUID, req CreateRequest) (*ActivityDTO, error)
	Get(ctx context.Context, activityID uuid.UUID) (*ActivityDTO, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID, params ListParams) (*ListResponse, error)
	Update(ctx context.Context, userID, activityID uuid.UUID, req UpdateRequest) (*ActivityDTO, error)
	Delete(ctx context.Context, userID, activityID uuid.UUID) error
	CastVote(ctx context.Context, userID, activityID uuid.UUID, score float64) (*ActivityDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type activityRepository interface {
	Create(ctx context.Context, activity *models.Activity) (*models.Activity, error)
	CreateAssociations(ctx context.Context, activity *models.Activity) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Activity, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Activity, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID, params ListParams) ([]models.Activity, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Activity, error)
	UpdateVotes(ctx context.Context, id uuid.UUID, votes dbtypes.VoteList, numVotes int, avgScore float64) error
	DeleteAssociations(ctx context.Context, activityID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ServiceParams bundles the dependencies required to build an activities service.
type ServiceParams struct {
	TxRunner    txRunner
	Repo        activityRepository
	RepoFactory func(tx *gorm.DB) activityRepository
	Metrics     *metrics.APIMetrics
}

type service struct {
	txRunner    txRunner
	repo        activityRepository
	repoFactory func(tx *gorm.DB) activityRepository
	collector   *metrics.APIMetrics
}

// NewService constructs an activities service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("activity repository is required")
	}
	if params.RepoFactory == nil {
		params.RepoFactory = func(tx *gorm.DB) activityRepository { return NewRepository(tx) }
	}

	return &service{
		txRunner:    params.TxRunner,
		repo:        params.Repo,
		repoFactory: params.RepoFactory,
		collector:   params.Metrics,
	}, nil
}

// Create writes the activity plus its association rows in one transaction.
func (s *service) Create(ctx context.Context, suggesterID uuid.UUID, req CreateRequest) (*ActivityDTO, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end time must be after start time")
	}

	var dto *ActivityDTO
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repoFactory(tx)

		activity, err := repo.Create(ctx, &models.Activity{
			TripID:      req.TripID,
			SuggesterID: suggesterID,
			Name:        req.Name,
			Notes:       req.Notes,
			City:        req.City,
			Country:     req.Country,
			Timezone:    req.Timezone,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
			Address:     req.Address,
			Categories:  pq.StringArray(req.Categories),
			Website:     req.Website,
			PhoneNumber: req.PhoneNumber,
			Votes:       dbtypes.VoteList{},
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create activity")
		}

		if err := repo.CreateAssociations(ctx, activity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create activity associations")
		}

		dto = FromModel(activity)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) Get(ctx context.Context, activityID uuid.UUID) (*ActivityDTO, error) {
	activity, err := s.repo.FindByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "activity not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup activity")
	}
	return FromModel(activity), nil
}

func (s *service) ListByTrip(ctx context.Context, tripID uuid.UUID, params ListParams) (*ListResponse, error) {
	rows, err := s.repo.ListByTrip(ctx, tripID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list activities")
	}

	page, hasMore := pagination.TrimPage(rows, params.Limit)
	out := make([]ActivityDTO, 0, len(page))
	for i := range page {
		out = append(out, *FromModel(&page[i]))
	}

	info := pagination.PageInfo{HasMore: hasMore}
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		info.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	return &ListResponse{Activities: out, PageInfo: info}, nil
}

// Update applies the non-nil fields. Only the suggester may edit.
func (s *service) Update(ctx context.Context, userID, activityID uuid.UUID, req UpdateRequest) (*ActivityDTO, error) {
	activity, err := s.repo.FindByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "activity not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup activity")
	}
	if activity.SuggesterID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the suggester may edit this activity")
	}

	updates := buildUpdates(req)
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	start := activity.StartTime
	end := activity.EndTime
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if req.EndTime != nil {
		end = *req.EndTime
	}
	if !end.After(start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end time must be after start time")
	}

	updated, err := s.repo.Update(ctx, activityID, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update activity")
	}
	return FromModel(updated), nil
}

func buildUpdates(req UpdateRequest) map[string]any {
	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.Timezone != nil {
		updates["timezone"] = *req.Timezone
	}
	if req.StartTime != nil {
		updates["start_time"] = *req.StartTime
	}
	if req.EndTime != nil {
		updates["end_time"] = *req.EndTime
	}
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Categories != nil {
		updates["categories"] = pq.StringArray(req.Categories)
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = *req.PhoneNumber
	}
	return updates
}

// Delete removes the activity and its association rows. Only the suggester
// may delete.
func (s *service) Delete(ctx context.Context, userID, activityID uuid.UUID) error {
	return s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repoFactory(tx)

		activity, err := repo.FindByID(ctx, activityID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "activity not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup activity")
		}
		if activity.SuggesterID != userID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the suggester may delete this activity")
		}

		if err := repo.DeleteAssociations(ctx, activityID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete activity associations")
		}
		if err := repo.Delete(ctx, activityID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete activity")
		}
		return nil
	})
}

// CastVote records the user's score under a row lock. A repeat vote from the
// same user replaces the earlier score; count and average always reflect the
// final per-user scores.
func (s *service) CastVote(ctx context.Context, userID, activityID uuid.UUID, score float64) (*ActivityDTO, error) {
	if score < 0 || score > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "score must be between 0 and 5")
	}

	var dto *ActivityDTO
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repoFactory(tx)

		activity, err := repo.FindByIDForUpdate(ctx, activityID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "activity not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock activity")
		}

		votes := activity.Votes.Merge(userID, score)
		numVotes := len(votes)
		avgScore := votes.Average()

		if err := repo.UpdateVotes(ctx, activityID, votes, numVotes, avgScore); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist votes")
		}

		activity.Votes = votes
		activity.NumVotes = numVotes
		activity.AvgScore = avgScore
		dto = FromModel(activity)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.collector != nil {
		s.collector.IncVotesCast()
	}
	return dto, nil
}
