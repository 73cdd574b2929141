package apimodels

import "github.com/sozercan/palestine-timeline/internal/prompt"

type TimelineRequest struct {
	prompt.FormInput

	// Language selects the prompt templates ("en" or "ar").
	Language string `json:"language,omitempty"`

	// Optional parameters to control generation
	Options GenerationOptions `json:"options,omitempty"`
}

type GenerationOptions struct {
	// Model overrides the configured model (e.g. "gemini-2.0-flash")
	Model string `json:"model,omitempty"`
}

type ItineraryRequest struct {
	City     string `json:"city"`
	Date     string `json:"date"`
	Language string `json:"language,omitempty"`
}
