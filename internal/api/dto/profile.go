package dto

import "encoding/json"

// UpsertProfileRequest is the DTO for creating or updating a profile.
type UpsertProfileRequest struct {
	DisplayName  string          `json:"display_name"`
	RiskProfile  string          `json:"risk_profile"`
	BaseCurrency string          `json:"base_currency"`
	Preferences  json.RawMessage `json:"preferences" swaggertype:"object"`
}

// UpsertOnboardingRequest is the DTO for recording onboarding progress.
type UpsertOnboardingRequest struct {
	ExperienceLevel string   `json:"experience_level"`
	Goals           []string `json:"goals"`
	Completed       bool     `json:"completed"`
}
