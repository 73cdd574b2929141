// Package interpret recovers structured data from free-form model output.
package interpret

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

var ErrNoStructuredData = errors.New("no structured data in completion")

// Source records which stage produced a value.
type Source string

const (
	// Parsed means the whole completion was valid JSON.
	Parsed Source = "parsed"
	// Extracted means JSON was found between the first '{' and the last '}'.
	Extracted Source = "extracted"
	// FallbackSynthesized means no JSON could be used and the value was
	// computed locally.
	FallbackSynthesized Source = "fallback"
)

// Genuine reports whether the value came from the model.
func (s Source) Genuine() bool {
	return s == Parsed || s == Extracted
}

type Result[T any] struct {
	Value  T      `json:"value"`
	Source Source `json:"source"`
}

// Decode tries a strict parse of text without its code fences, then a
// parse of its outermost brace-delimited substring. It returns
// ErrNoStructuredData when neither stage yields a T.
func Decode[T any](text string) (T, Source, error) {
	var zero T

	full := StripCodeFences(text)
	if v, ok := unmarshal[T](full); ok {
		return v, Parsed, nil
	}

	if sub, ok := Braced(full); ok {
		if v, ok := unmarshal[T](sub); ok {
			return v, Extracted, nil
		}
	}

	return zero, "", ErrNoStructuredData
}

// Object is Decode for callers that need a JSON object of any shape. A
// strict parse that is not an object falls through to brace extraction.
func Object(text string) (json.RawMessage, Source, error) {
	full := StripCodeFences(text)
	if gjson.Valid(full) && gjson.Parse(full).IsObject() {
		return json.RawMessage(full), Parsed, nil
	}

	if sub, ok := Braced(full); ok && gjson.Valid(sub) {
		return json.RawMessage(sub), Extracted, nil
	}

	return nil, "", ErrNoStructuredData
}

// DecodeOr is Decode with a synthesized fallback; it never fails.
func DecodeOr[T any](text string, fallback func() T) Result[T] {
	v, src, err := Decode[T](text)
	if err != nil {
		return Result[T]{Value: fallback(), Source: FallbackSynthesized}
	}
	return Result[T]{Value: v, Source: src}
}

// StripCodeFences trims whitespace and a surrounding markdown fence.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Braced returns the substring from the first '{' to the last '}'.
func Braced(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func unmarshal[T any](s string) (T, bool) {
	var v T
	if s == "" {
		return v, false
	}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return v, false
	}
	return v, true
}
