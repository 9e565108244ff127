package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	dbtypes "github.com/wayplan/backend/pkg/db/types"
)

// Activity is a proposed event belonging to one trip, suggested by one user.
type Activity struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TripID      uuid.UUID        `gorm:"column:trip_id;type:uuid;not null;index"`
	SuggesterID uuid.UUID        `gorm:"column:suggester_id;type:uuid;not null;index"`
	Name        string           `gorm:"column:name;not null"`
	Notes       *string          `gorm:"column:notes"`
	City        *string          `gorm:"column:city"`
	Country     string           `gorm:"column:country;not null"`
	Timezone    string           `gorm:"column:timezone;not null"`
	StartTime   time.Time        `gorm:"column:start_time;not null"`
	EndTime     time.Time        `gorm:"column:end_time;not null"`
	Latitude    float64          `gorm:"column:latitude;not null"`
	Longitude   float64          `gorm:"column:longitude;not null"`
	Address     *string          `gorm:"column:address"`
	Categories  pq.StringArray   `gorm:"column:categories;type:text[]"`
	Website     *string          `gorm:"column:website"`
	PhoneNumber *string          `gorm:"column:phone_number"`
	Votes       dbtypes.VoteList `gorm:"column:votes;type:jsonb;not null;default:'[]'"`
	NumVotes    int              `gorm:"column:num_votes;not null;default:0"`
	AvgScore    float64          `gorm:"column:avg_score;not null;default:0"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
