package activities

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wayplan/backend/pkg/db/models"
	dbtypes "github.com/wayplan/backend/pkg/db/types"
	"github.com/wayplan/backend/pkg/pagination"
)

// Repository exposes activity persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an activities repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the activity and returns the persisted model.
func (r *Repository) Create(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return nil, err
	}
	return activity, nil
}

// CreateAssociations writes the trip link and suggester rows for an activity.
func (r *Repository) CreateAssociations(ctx context.Context, activity *models.Activity) error {
	link := &models.ActivityLink{ActivityID: activity.ID, TripID: activity.TripID}
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return err
	}

	suggested := &models.UserActivity{UserID: activity.SuggesterID, ActivityID: activity.ID}
	return r.db.WithContext(ctx).Create(suggested).Error
}

// FindByID loads an activity by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
	var activity models.Activity
	if err := r.db.WithContext(ctx).First(&activity, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

// FindByIDForUpdate loads an activity under a row-level lock. Must run inside
// a transaction.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
	var activity models.Activity
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&activity, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

// ListByTrip returns one cursor page of a trip's activities, newest first.
func (r *Repository) ListByTrip(ctx context.Context, tripID uuid.UUID, params ListParams) ([]models.Activity, error) {
	query := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	if params.Category != "" {
		query = query.Where("? = ANY(categories)", params.Category)
	}
	if params.SuggesterID != nil {
		query = query.Where("suggester_id = ?", *params.SuggesterID)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Activity
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update applies column updates and returns the refreshed row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Activity, error) {
	if len(updates) > 0 {
		err := r.db.WithContext(ctx).
			Model(&models.Activity{}).
			Where("id = ?", id).
			Updates(updates).Error
		if err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// UpdateVotes persists the vote list, count, and average in one update.
func (r *Repository) UpdateVotes(ctx context.Context, id uuid.UUID, votes dbtypes.VoteList, numVotes int, avgScore float64) error {
	return r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"votes":     votes,
			"num_votes": numVotes,
			"avg_score": avgScore,
		}).Error
}

// DeleteAssociations removes the link and suggester rows for one activity.
func (r *Repository) DeleteAssociations(ctx context.Context, activityID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Delete(&models.ActivityLink{}).Error; err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Delete(&models.UserActivity{}).Error
}

// Delete removes the activity row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Activity{}, "id = ?", id).Error
}
