package interpret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    map[string]any
		source  Source
		wantErr bool
	}{
		{
			name:   "strict",
			text:   `{"a":1}`,
			want:   map[string]any{"a": float64(1)},
			source: Parsed,
		},
		{
			name:   "strict with surrounding whitespace",
			text:   "\n  {\"a\":1}\n",
			want:   map[string]any{"a": float64(1)},
			source: Parsed,
		},
		{
			name:   "extracted from noise",
			text:   `noise {"a":1} trailing`,
			want:   map[string]any{"a": float64(1)},
			source: Extracted,
		},
		{
			name:   "code fence stripped",
			text:   "```json\n{\"a\":1}\n```",
			want:   map[string]any{"a": float64(1)},
			source: Parsed,
		},
		{
			name:   "bare code fence stripped",
			text:   "```\n{\"a\":1}\n```\n",
			want:   map[string]any{"a": float64(1)},
			source: Parsed,
		},
		{
			name:   "fence after prose is extracted",
			text:   "Here it is:\n```json\n{\"a\":1}\n```",
			want:   map[string]any{"a": float64(1)},
			source: Extracted,
		},
		{
			name:    "not json",
			text:    "not json at all",
			wantErr: true,
		},
		{
			name:    "braces without json",
			text:    "see {this} and {that}",
			wantErr: true,
		},
		{
			name:    "reversed braces",
			text:    "} nothing {",
			wantErr: true,
		},
		{
			name:    "empty",
			text:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, src, err := Decode[map[string]any](tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoStructuredData)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.source, src)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeTypeMismatchFallsThrough(t *testing.T) {
	type point struct {
		X int `json:"x"`
	}

	// Valid JSON, wrong shape for the target type.
	_, _, err := Decode[point](`["x", 1]`)
	assert.ErrorIs(t, err, ErrNoStructuredData)

	p, src, err := Decode[point](`Answer: {"x": 3}`)
	require.NoError(t, err)
	assert.Equal(t, Extracted, src)
	assert.Equal(t, 3, p.X)
}

func TestDecodeOr(t *testing.T) {
	calls := 0
	fallback := func() map[string]any {
		calls++
		return map[string]any{"synthetic": true}
	}

	res := DecodeOr(`{"a":1}`, fallback)
	assert.Equal(t, Parsed, res.Source)
	assert.True(t, res.Source.Genuine())
	assert.Equal(t, 0, calls)

	res = DecodeOr("not json at all", fallback)
	assert.Equal(t, FallbackSynthesized, res.Source)
	assert.False(t, res.Source.Genuine())
	assert.Equal(t, map[string]any{"synthetic": true}, res.Value)
	assert.Equal(t, 1, calls)
}

func TestBraced(t *testing.T) {
	s, ok := Braced(`x {"a":{"b":2}} y }`)
	require.True(t, ok)
	assert.Equal(t, `{"a":{"b":2}} y }`, s)

	_, ok = Braced("no braces")
	assert.False(t, ok)
}

func TestObject(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		source  Source
		wantErr bool
	}{
		{name: "object", text: `{"morning": "walk"}`, want: `{"morning": "walk"}`, source: Parsed},
		{name: "fenced object", text: "```json\n{\"a\":1}\n```", want: `{"a":1}`, source: Parsed},
		{name: "object inside array", text: `[{"morning": "walk"}]`, want: `{"morning": "walk"}`, source: Extracted},
		{name: "object inside prose", text: `Plan: {"a": [1, 2]} enjoy`, want: `{"a": [1, 2]}`, source: Extracted},
		{name: "string", text: `"just a string"`, wantErr: true},
		{name: "array of numbers", text: `[1, 2]`, wantErr: true},
		{name: "prose", text: "Visit the old city.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, src, err := Object(tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoStructuredData)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.source, src)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFences("  ```json\n{\"a\":1}\n```  "))
	assert.Equal(t, `{"a":1}`, StripCodeFences("```\n{\"a\":1}```"))
	assert.Equal(t, "plain", StripCodeFences(" plain\n"))
}
