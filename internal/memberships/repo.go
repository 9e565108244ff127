package memberships

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wayplan/backend/pkg/db/models"
	"github.com/wayplan/backend/pkg/enums"
)

// Repository exposes trip membership persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a memberships repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a membership row for the given trip, user, and role.
func (r *Repository) Create(ctx context.Context, tripID, userID uuid.UUID, role enums.TripRole) (*models.TripMembership, error) {
	membership := &models.TripMembership{
		TripID: tripID,
		UserID: userID,
		Role:   role,
	}
	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		return nil, err
	}
	return membership, nil
}

// Get loads the membership row for one (trip, user) pair.
func (r *Repository) Get(ctx context.Context, tripID, userID uuid.UUID) (*models.TripMembership, error) {
	var membership models.TripMembership
	err := r.db.WithContext(ctx).
		Where("trip_id = ? AND user_id = ?", tripID, userID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// ListTripMembers returns every member of the trip joined with their profile.
func (r *Repository) ListTripMembers(ctx context.Context, tripID uuid.UUID) ([]MemberDTO, error) {
	var rows []memberRow
	err := r.db.WithContext(ctx).
		Table("trip_memberships AS tm").
		Select("tm.user_id, tm.trip_id, tm.role, u.first_name, u.last_name, u.profile_pic, tm.created_at AS joined_at").
		Joins("JOIN users u ON u.id = tm.user_id").
		Where("tm.trip_id = ?", tripID).
		Order("tm.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	members := make([]MemberDTO, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.toDTO())
	}
	return members, nil
}

// ListForUser returns all memberships held by one user, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.TripMembership, error) {
	var memberships []models.TripMembership
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

// UserHasRole reports whether the user holds one of the given roles on the trip.
func (r *Repository) UserHasRole(ctx context.Context, userID, tripID uuid.UUID, roles ...enums.TripRole) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.TripMembership{}).
		Where("trip_id = ? AND user_id = ?", tripID, userID)
	if len(roles) > 0 {
		query = query.Where("role IN ?", roles)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteForTrip removes every membership row for a trip.
func (r *Repository) DeleteForTrip(ctx context.Context, tripID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Delete(&models.TripMembership{}).Error
}
