package memberships

import (
	"time"

	"github.com/google/uuid"

	"github.com/wayplan/backend/pkg/enums"
)

// MemberDTO is one trip member with the profile fields clients render.
type MemberDTO struct {
	UserID     uuid.UUID      `json:"user_id"`
	TripID     uuid.UUID      `json:"trip_id"`
	Role       enums.TripRole `json:"role"`
	FirstName  string         `json:"first_name"`
	LastName   *string        `json:"last_name,omitempty"`
	ProfilePic int            `json:"profile_pic"`
	JoinedAt   time.Time      `json:"joined_at"`
}

// MembershipDTO is the bare membership row used internally and in join responses.
type MembershipDTO struct {
	ID       uuid.UUID      `json:"id"`
	TripID   uuid.UUID      `json:"trip_id"`
	UserID   uuid.UUID      `json:"user_id"`
	Role     enums.TripRole `json:"role"`
	JoinedAt time.Time      `json:"joined_at"`
}

// memberRow is the scan target for the membership/user join query.
type memberRow struct {
	UserID     uuid.UUID `gorm:"column:user_id"`
	TripID     uuid.UUID `gorm:"column:trip_id"`
	Role       string    `gorm:"column:role"`
	FirstName  string    `gorm:"column:first_name"`
	LastName   *string   `gorm:"column:last_name"`
	ProfilePic int       `gorm:"column:profile_pic"`
	JoinedAt   time.Time `gorm:"column:joined_at"`
}

func (r memberRow) toDTO() MemberDTO {
	return MemberDTO{
		UserID:     r.UserID,
		TripID:     r.TripID,
		Role:       enums.TripRole(r.Role),
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		ProfilePic: r.ProfilePic,
		JoinedAt:   r.JoinedAt,
	}
}
