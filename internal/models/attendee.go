package models

import "strings"

// AttendeeInfo holds the registration details collected for one attendee
type AttendeeInfo struct {
	FirstName           string   `json:"firstName"`
	LastName            string   `json:"lastName"`
	BadgeName           string   `json:"badgeName,omitempty"`
	ManifoldUsername    string   `json:"manifoldUsername,omitempty"`
	LWUsername          string   `json:"lwUsername,omitempty"`
	DietaryPreferences  []string `json:"dietaryPreferences"`
	DietaryOther        string   `json:"dietaryOther,omitempty"`
	HeardFromManifest   string   `json:"heardFromManifest"`
	HeardFromLessOnline string   `json:"heardFromLessOnline"`
	Under18             string   `json:"under18"`
	BringingKids        string   `json:"bringingKids"`
}

// Validate checks that every required attendee field is filled. The
// "how did you hear" answers are required only for events the buyer actually
// holds tickets for.
func (a *AttendeeInfo) Validate(hasManifestTickets, hasLessOnlineTickets bool) error {
	if strings.TrimSpace(a.FirstName) == "" {
		return NewValidationError("first name is required")
	}
	if strings.TrimSpace(a.LastName) == "" {
		return NewValidationError("last name is required")
	}
	if len(a.DietaryPreferences) == 0 {
		return NewValidationError("at least one dietary preference is required")
	}
	if hasManifestTickets && strings.TrimSpace(a.HeardFromManifest) == "" {
		return NewValidationError("heard-from answer for Manifest is required")
	}
	if hasLessOnlineTickets && strings.TrimSpace(a.HeardFromLessOnline) == "" {
		return NewValidationError("heard-from answer for LessOnline is required")
	}
	if strings.TrimSpace(a.Under18) == "" {
		return NewValidationError("under-18 answer is required")
	}
	if strings.TrimSpace(a.BringingKids) == "" {
		return NewValidationError("bringing-children answer is required")
	}
	return nil
}
