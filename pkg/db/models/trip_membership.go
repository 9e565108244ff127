package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/wayplan/backend/pkg/enums"
)

// TripMembership links a user with a trip and captures their role.
// At most one row exists per (trip, user) pair.
type TripMembership struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TripID    uuid.UUID      `gorm:"column:trip_id;type:uuid;not null;uniqueIndex:idx_trip_memberships_trip_user"`
	UserID    uuid.UUID      `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_trip_memberships_trip_user"`
	Role      enums.TripRole `gorm:"column:role;type:text;not null"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
