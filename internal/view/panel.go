// Package view turns generation results into the display state of the
// page: panel states, previews and localised labels.
package view

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sozercan/palestine-timeline/internal/prompt"
)

type State string

const (
	Idle      State = "idle"
	Loading   State = "loading"
	Error     State = "error"
	Populated State = "populated"
)

const (
	// NarrativePreviewLimit and ContextPreviewLimit are the lengths, in
	// characters, above which a panel collapses to a preview.
	NarrativePreviewLimit = 500
	ContextPreviewLimit   = 300

	// errorMessage is shown in English whatever the page language.
	errorMessage = "Failed to generate content. Please try again."
)

// Panel is the display state of one output widget. Text always holds the
// full completion; Preview is only set when the panel is Expandable.
type Panel struct {
	State      State  `json:"state"`
	Text       string `json:"text,omitempty"`
	Preview    string `json:"preview,omitempty"`
	Expandable bool   `json:"expandable"`
	WordCount  int    `json:"wordCount"`
	Message    string `json:"message,omitempty"`
}

// NewPanel builds the narrative panel for a completion or its error.
func NewPanel(text string, err error, lang prompt.Language) Panel {
	return newPanel(text, err, lang, NarrativePreviewLimit)
}

// NewContextPanel is NewPanel with the shorter historical context limit.
func NewContextPanel(text string, err error, lang prompt.Language) Panel {
	return newPanel(text, err, lang, ContextPreviewLimit)
}

func LoadingPanel(lang prompt.Language) Panel {
	return Panel{State: Loading, Message: LabelsFor(lang).Generating}
}

func newPanel(text string, err error, lang prompt.Language, limit int) Panel {
	if err != nil {
		return Panel{State: Error, Message: errorMessage}
	}
	if strings.TrimSpace(text) == "" {
		return Panel{State: Idle, Message: LabelsFor(lang).Placeholder}
	}

	p := Panel{
		State:     Populated,
		Text:      text,
		WordCount: WordCount(text),
	}
	if utf8.RuneCountInString(text) > limit {
		p.Expandable = true
		p.Preview = Preview(text, limit)
	}
	return p
}

// WordCount counts whitespace-separated fields.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Preview cuts text to at most limit characters, backing up to the last
// word boundary, and marks the cut with an ellipsis. Text within the limit
// is returned unchanged.
func Preview(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	cut := runes[:limit]
	if !unicode.IsSpace(runes[limit]) {
		if i := lastSpace(cut); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRightFunc(string(cut), unicode.IsSpace) + "…"
}

func lastSpace(r []rune) int {
	for i := len(r) - 1; i >= 0; i-- {
		if unicode.IsSpace(r[i]) {
			return i
		}
	}
	return -1
}
