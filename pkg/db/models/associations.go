package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLink associates an activity with its trip for relational queries.
type ActivityLink struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ActivityID uuid.UUID `gorm:"column:activity_id;type:uuid;not null;index"`
	TripID     uuid.UUID `gorm:"column:trip_id;type:uuid;not null;index"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

// UserActivity associates a user with an activity they suggested.
type UserActivity struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	ActivityID uuid.UUID `gorm:"column:activity_id;type:uuid;not null;index"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
