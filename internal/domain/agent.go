package domain

import (
	"regexp"
	"time"
)

// Agent represents a delivery agent profile.
type Agent struct {
	ID             string
	FullName       string
	Phone          string
	NationalID     string
	Location       string
	ProfilePicture string
	Online         bool
	Earnings       float64
	CreatedAt      time.Time
}

// PartialAgentUpdate carries optional fields to update an agent profile.
// A nil field means "do not change" that attribute.
type PartialAgentUpdate struct {
	ID             string
	FullName       *string
	Phone          *string
	NationalID     *string
	Location       *string
	ProfilePicture *string
}

// rePhone is a regex to validate phone numbers
var rePhone = regexp.MustCompile(`^\+[0-9]{9,14}$`)

// ValidatePhone validates the phone number format
func ValidatePhone(s string) bool {
	return rePhone.MatchString(s)
}
