package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Vote is a single member's score for an activity.
type Vote struct {
	UserID uuid.UUID `json:"user_id"`
	Score  float64   `json:"score"`
}

// VoteList holds an activity's per-user votes, persisted as JSONB.
type VoteList []Vote

// Value marshals the list into JSON for Postgres.
func (v VoteList) Value() (driver.Value, error) {
	if v == nil {
		return "[]", nil
	}
	buf, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the list.
func (v *VoteList) Scan(value interface{}) error {
	if value == nil {
		*v = nil
		return nil
	}

	var raw []byte
	switch src := value.(type) {
	case string:
		raw = []byte(src)
	case []byte:
		raw = src
	default:
		return fmt.Errorf("vote list: unsupported scan type %T", value)
	}

	result := VoteList{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*v = result
	return nil
}

// Merge records a user's score, replacing any prior vote from the same user.
func (v VoteList) Merge(userID uuid.UUID, score float64) VoteList {
	for i := range v {
		if v[i].UserID == userID {
			v[i].Score = score
			return v
		}
	}
	return append(v, Vote{UserID: userID, Score: score})
}

// Average returns the arithmetic mean of all scores, zero when empty.
func (v VoteList) Average() float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, vote := range v {
		sum += vote.Score
	}
	return sum / float64(len(v))
}
