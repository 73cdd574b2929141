package apimodels

import (
	"encoding/json"

	"github.com/sozercan/palestine-timeline/internal/analytics"
	"github.com/sozercan/palestine-timeline/internal/interpret"
)

type TimelineResponse struct {
	// The generated first-person story
	Narrative string `json:"narrative"`

	// The accompanying historical context paragraph
	Context string `json:"context"`

	// Metadata about the generation
	Metadata GenerationMetadata `json:"metadata"`
}

type AnalyticsResponse struct {
	Year     int                `json:"year"`
	City     string             `json:"city"`
	Snapshot analytics.Snapshot `json:"snapshot"`

	// Source tells whether the figures came from the model or the formula
	Source interpret.Source `json:"source"`

	// Warnings lists invariant violations found in the snapshot
	Warnings []string `json:"warnings,omitempty"`

	Metadata GenerationMetadata `json:"metadata"`
}

type ItineraryResponse struct {
	City      string             `json:"city"`
	Date      string             `json:"date"`
	Itinerary json.RawMessage    `json:"itinerary"`
	Source    interpret.Source   `json:"source"`
	Metadata  GenerationMetadata `json:"metadata"`
}

type GenerationMetadata struct {
	// Token identifying this generation; superseded tokens are discarded
	Token string `json:"token,omitempty"`

	// Time taken for generation
	Duration string `json:"duration"`

	// Model used for generation
	Model string `json:"model,omitempty"`

	// Tokens used across all calls
	TokensUsed int64 `json:"tokensUsed"`

	// Number of generation calls issued
	Calls int `json:"calls"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
