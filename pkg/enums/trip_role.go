package enums

import "fmt"

// TripRole represents a member's role within a trip.
type TripRole string

const (
	TripRoleCreator TripRole = "CREATOR"
	TripRoleUser    TripRole = "USER"
)

var validTripRoles = []TripRole{
	TripRoleCreator,
	TripRoleUser,
}

// String implements fmt.Stringer.
func (r TripRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known TripRole.
func (r TripRole) IsValid() bool {
	for _, candidate := range validTripRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseTripRole converts raw input into a TripRole.
func ParseTripRole(value string) (TripRole, error) {
	for _, candidate := range validTripRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trip role %q", value)
}
