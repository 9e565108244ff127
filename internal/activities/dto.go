package activities

import (
	"time"

	"github.com/google/uuid"

	"github.com/wayplan/backend/pkg/db/models"
	dbtypes "github.com/wayplan/backend/pkg/db/types"
	"github.com/wayplan/backend/pkg/pagination"
)

// VoteDTO is one member's recorded score.
type VoteDTO struct {
	UserID uuid.UUID `json:"user_id"`
	Score  float64   `json:"score"`
}

// ActivityDTO is the transport shape for an activity.
type ActivityDTO struct {
	ID          uuid.UUID `json:"id"`
	TripID      uuid.UUID `json:"trip_id"`
	SuggesterID uuid.UUID `json:"suggester_id"`
	Name        string    `json:"name"`
	Notes       *string   `json:"notes,omitempty"`
	City        *string   `json:"city,omitempty"`
	Country     string    `json:"country"`
	Timezone    string    `json:"timezone"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Address     *string   `json:"address,omitempty"`
	Categories  []string  `json:"categories"`
	Website     *string   `json:"website,omitempty"`
	PhoneNumber *string   `json:"phone_number,omitempty"`
	Votes       []VoteDTO `json:"votes"`
	NumVotes    int       `json:"num_votes"`
	AvgScore    float64   `json:"avg_score"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateRequest carries the fields needed to propose an activity.
type CreateRequest struct {
	TripID      uuid.UUID `json:"trip_id" validate:"required"`
	Name        string    `json:"name" validate:"required,min=1,max=200"`
	Notes       *string   `json:"notes,omitempty"`
	City        *string   `json:"city,omitempty" validate:"omitempty,max=100"`
	Country     string    `json:"country" validate:"required,max=100"`
	Timezone    string    `json:"timezone" validate:"required"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	Latitude    float64   `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64   `json:"longitude" validate:"gte=-180,lte=180"`
	Address     *string   `json:"address,omitempty"`
	Categories  []string  `json:"categories,omitempty"`
	Website     *string   `json:"website,omitempty"`
	PhoneNumber *string   `json:"phone_number,omitempty"`
}

// UpdateRequest carries the editable activity fields. Nil means keep.
type UpdateRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Notes       *string    `json:"notes,omitempty"`
	City        *string    `json:"city,omitempty" validate:"omitempty,max=100"`
	Country     *string    `json:"country,omitempty" validate:"omitempty,max=100"`
	Timezone    *string    `json:"timezone,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64   `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Address     *string    `json:"address,omitempty"`
	Categories  []string   `json:"categories,omitempty"`
	Website     *string    `json:"website,omitempty"`
	PhoneNumber *string    `json:"phone_number,omitempty"`
}

// CastVoteRequest carries one member's score for an activity.
type CastVoteRequest struct {
	Score float64 `json:"score"`
}

// ListParams filters and paginates a trip's activity feed.
type ListParams struct {
	Limit       int
	Cursor      string
	Category    string
	SuggesterID *uuid.UUID
}

// ListResponse is one page of a trip's activities.
type ListResponse struct {
	Activities []ActivityDTO       `json:"activities"`
	PageInfo   pagination.PageInfo `json:"page_info"`
}

func FromModel(a *models.Activity) *ActivityDTO {
	if a == nil {
		return nil
	}

	return &ActivityDTO{
		ID:          a.ID,
		TripID:      a.TripID,
		SuggesterID: a.SuggesterID,
		Name:        a.Name,
		Notes:       a.Notes,
		City:        a.City,
		Country:     a.Country,
		Timezone:    a.Timezone,
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		Latitude:    a.Latitude,
		Longitude:   a.Longitude,
		Address:     a.Address,
		Categories:  append([]string{}, a.Categories...),
		Website:     a.Website,
		PhoneNumber: a.PhoneNumber,
		Votes:       votesFromModel(a.Votes),
		NumVotes:    a.NumVotes,
		AvgScore:    a.AvgScore,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func votesFromModel(votes dbtypes.VoteList) []VoteDTO {
	out := make([]VoteDTO, 0, len(votes))
	for _, v := range votes {
		out = append(out, VoteDTO{UserID: v.UserID, Score: v.Score})
	}
	return out
}
