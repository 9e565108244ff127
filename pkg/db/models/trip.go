package models

import (
	"time"

	"github.com/google/uuid"
)

// Trip is a destination shared by a group of members via a join code.
type Trip struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	JoinCode  string    `gorm:"column:join_code;type:text;not null;uniqueIndex"`
	Country   string    `gorm:"column:country;not null"`
	City      *string   `gorm:"column:city"`
	Latitude  float64   `gorm:"column:latitude;not null"`
	Longitude float64   `gorm:"column:longitude;not null"`
	// Timezone carries the destination's raw UTC offset in milliseconds,
	// as returned by the timezone lookup.
	Timezone  string    `gorm:"column:timezone;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
