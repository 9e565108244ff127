package trips

import (
	"time"

	"github.com/google/uuid"

	"github.com/wayplan/backend/pkg/db/models"
)

// TripDTO is the transport shape for a trip.
type TripDTO struct {
	ID        uuid.UUID `json:"id"`
	JoinCode  string    `json:"join_code"`
	Country   string    `json:"country"`
	City      *string   `json:"city,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateRequest carries the fields needed to create a trip. JoinCode is
// optional; when omitted the server generates one.
type CreateRequest struct {
	Country   string  `json:"country" validate:"required,min=1,max=100"`
	City      *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Timezone  string  `json:"timezone" validate:"required"`
	JoinCode  *string `json:"join_code,omitempty"`
}

// ValidateJoinCodeResponse reports whether a join code is free to use.
type ValidateJoinCodeResponse struct {
	IsValid bool `json:"is_valid"`
}

func FromModel(t *models.Trip) *TripDTO {
	if t == nil {
		return nil
	}

	var city *string
	if t.City != nil {
		c := *t.City
		city = &c
	}

	return &TripDTO{
		ID:        t.ID,
		JoinCode:  t.JoinCode,
		Country:   t.Country,
		City:      city,
		Latitude:  t.Latitude,
		Longitude: t.Longitude,
		Timezone:  t.Timezone,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
