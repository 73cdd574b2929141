package prompt

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"
)

var ErrInvalidInput = errors.New("invalid input")

type Language string

const (
	English Language = "en"
	Arabic  Language = "ar"
)

type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

const (
	MinAge  = 1
	MaxAge  = 120
	MinYear = 1900
	MaxYear = 2050

	// maxNameRunes caps the free-text name before it is placed in a prompt.
	maxNameRunes = 60
)

// FormInput is a single form submission. It is treated as immutable once
// validated.
type FormInput struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
	Sex  Sex    `json:"sex"`
	City string `json:"city"`
	Year int    `json:"year"`
}

var cities = map[Language][]string{
	English: {
		"Jerusalem",
		"Gaza",
		"Ramallah",
		"Bethlehem",
		"Hebron",
		"Nablus",
		"Jericho",
		"Jenin",
		"Tulkarm",
		"Qalqilya",
	},
	Arabic: {
		"القدس",
		"غزة",
		"رام الله",
		"بيت لحم",
		"الخليل",
		"نابلس",
		"أريحا",
		"جنين",
		"طولكرم",
		"قلقيلية",
	},
}

// ParseLanguage maps a request value onto a Language. An empty value means
// English.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case "", English:
		return English, nil
	case Arabic:
		return Arabic, nil
	default:
		return "", fmt.Errorf("%w: unsupported language %q", ErrInvalidInput, s)
	}
}

// Cities returns a copy of the fixed city list for lang.
func Cities(lang Language) []string {
	return slices.Clone(cities[lang])
}

// IsCity reports whether city is on the list for lang.
func IsCity(city string, lang Language) bool {
	return slices.Contains(cities[lang], city)
}

// Validate checks in against the form constraints and returns the first
// failing field wrapped in ErrInvalidInput.
func Validate(in FormInput, lang Language) error {
	if _, ok := cities[lang]; !ok {
		return fmt.Errorf("%w: unsupported language %q", ErrInvalidInput, lang)
	}
	if SanitizeName(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.Age < MinAge || in.Age > MaxAge {
		return fmt.Errorf("%w: age must be between %d and %d, got %d", ErrInvalidInput, MinAge, MaxAge, in.Age)
	}
	if in.Sex != Male && in.Sex != Female {
		return fmt.Errorf("%w: sex must be %q or %q, got %q", ErrInvalidInput, Male, Female, in.Sex)
	}
	if err := ValidateYear(in.Year); err != nil {
		return err
	}
	if !IsCity(in.City, lang) {
		return fmt.Errorf("%w: unknown city %q for language %q", ErrInvalidInput, in.City, lang)
	}
	return nil
}

// ValidateYear checks year against MinYear and MaxYear.
func ValidateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("%w: year must be between %d and %d, got %d", ErrInvalidInput, MinYear, MaxYear, year)
	}
	return nil
}

// SanitizeName flattens a user-supplied name so it cannot open new lines,
// fences or sections inside the instruction text.
func SanitizeName(name string) string {
	var b strings.Builder
	space := false
	for _, r := range name {
		switch {
		case r == '`' || r == '{' || r == '}':
			continue
		case unicode.IsSpace(r) || unicode.IsControl(r):
			if !space && b.Len() > 0 {
				b.WriteRune(' ')
			}
			space = true
			continue
		}
		space = false
		b.WriteRune(r)
	}

	out := strings.TrimSpace(b.String())
	if runes := []rune(out); len(runes) > maxNameRunes {
		out = strings.TrimSpace(string(runes[:maxNameRunes]))
	}
	return out
}
