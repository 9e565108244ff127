package trips

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wayplan/backend/pkg/db/models"
)

// Repository exposes trip persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a trips repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the trip and returns the persisted model.
func (r *Repository) Create(ctx context.Context, trip *models.Trip) (*models.Trip, error) {
	if err := r.db.WithContext(ctx).Create(trip).Error; err != nil {
		return nil, err
	}
	return trip, nil
}

// FindByID loads a trip by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	if err := r.db.WithContext(ctx).First(&trip, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

// FindByJoinCode loads the trip holding the exact join code.
func (r *Repository) FindByJoinCode(ctx context.Context, joinCode string) (*models.Trip, error) {
	var trip models.Trip
	if err := r.db.WithContext(ctx).Where("join_code = ?", joinCode).First(&trip).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

// JoinCodeExists reports whether any trip currently holds the code.
func (r *Repository) JoinCodeExists(ctx context.Context, joinCode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Trip{}).
		Where("join_code = ?", joinCode).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListForUser returns trips the user belongs to, newest membership first.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Trip, error) {
	var trips []models.Trip
	err := r.db.WithContext(ctx).
		Table("trips").
		Joins("JOIN trip_memberships tm ON tm.trip_id = trips.id").
		Where("tm.user_id = ?", userID).
		Order("tm.created_at DESC").
		Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}

// DeleteActivityAssociations removes activity links and suggester rows for
// every activity on the trip.
func (r *Repository) DeleteActivityAssociations(ctx context.Context, tripID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Delete(&models.ActivityLink{}).Error; err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Where("activity_id IN (?)",
			r.db.Model(&models.Activity{}).Select("id").Where("trip_id = ?", tripID),
		).
		Delete(&models.UserActivity{}).Error
}

// DeleteActivities removes every activity belonging to the trip.
func (r *Repository) DeleteActivities(ctx context.Context, tripID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Delete(&models.Activity{}).Error
}

// Delete removes the trip row itself.
func (r *Repository) Delete(ctx context.Context, tripID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Trip{}, "id = ?", tripID).Error
}
