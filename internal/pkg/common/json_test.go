package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n[1,2]\n```", "[1,2]"},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around fence", "Here you go:\n```json\n[]\n```\nEnjoy!", "[]"},
		{"no fence", "  [1]  ", "[1]"},
		{"unterminated fence", "```json\n[{\"a\":1}", `[{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.in))
		})
	}
}

func TestFencedBlocks(t *testing.T) {
	text := "first\n```json\n[1]\n```\nthen\n```\n[2]\n```"
	assert.Equal(t, []string{"[1]", "[2]"}, FencedBlocks(text))
	assert.Empty(t, FencedBlocks("no fences here"))
}

func TestExtractJSONBlock(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"array in prose", `Sure! [{"a":1}] hope that helps`, `[{"a":1}]`, false},
		{"object first", `{"recipes":[{"a":1}]}`, `{"recipes":[{"a":1}]}`, false},
		{"array before object", `[{"a":1},{"b":2}]`, `[{"a":1},{"b":2}]`, false},
		{"no brackets", "I cannot help with that.", "", true},
		{"no closing bracket", `[{"a":1}`, "", true},
		{"closer before opener", `] then [`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONBlock(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrNoJSON))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemoveTrailingCommas(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"object", `{"a":1,}`, `{"a":1}`},
		{"array with space", `[1,2, ]`, `[1,2 ]`},
		{"nested", `[{"a":1,},]`, `[{"a":1}]`},
		{"comma inside string kept", `{"a":"x,}"}`, `{"a":"x,}"}`},
		{"clean input unchanged", `[{"a":1},{"b":2}]`, `[{"a":1},{"b":2}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemoveTrailingCommas(tt.in))
		})
	}
}

func TestQuoteJSONKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"unquoted keys", `{name: "x", age: 3}`, `{"name": "x", "age": 3}`},
		{"mixed", `{"title":"X", snippet:"Y"}`, `{"title":"X", "snippet":"Y"}`},
		{"identifier inside string", `{"a":"b, c: d"}`, `{"a":"b, c: d"}`},
		{"bare literal value", `{"ok":true}`, `{"ok":true}`},
		{"underscore key", `{file_path: null}`, `{"file_path": null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteJSONKeys(tt.in))
		})
	}
}

func TestQuoteBareValues(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare words", `{"a": hello world, "b": 1}`, `{"a": "hello world", "b": 1}`},
		{"literals untouched", `{"a": true, "b": null, "c": -1.5}`, `{"a": true, "b": null, "c": -1.5}`},
		{"empty value", `{"a": , "b": 2}`, `{"a": null, "b": 2}`},
		{"colon inside string", `{"a": "10:30"}`, `{"a": "10:30"}`},
		{"nested object untouched", `{"a": {"b": 1}}`, `{"a": {"b": 1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteBareValues(tt.in))
		})
	}
}

func TestRepairJSON(t *testing.T) {
	repaired := RepairJSON(`[{title:"X", snippet:"Y",}]`)
	assert.Equal(t, `[{"title":"X", "snippet":"Y"}]`, repaired)

	v, err := DecodeValue(repaired)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"title": "X", "snippet": "Y"}}, v)
}

func TestRepairJSON_AllMalformations(t *testing.T) {
	repaired := RepairJSON(`{title: Old Fashioned, abv: 32, why: , }`)

	v, err := DecodeValue(repaired)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "Old Fashioned", "abv": float64(32), "why": nil}, v)
}

func TestDecodeValue(t *testing.T) {
	_, err := DecodeValue(`[1] [2]`)
	assert.Error(t, err)

	_, err = DecodeValue(`{"a":`)
	assert.Error(t, err)

	v, err := DecodeValue(` {"n": 2} `)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": float64(2)}, v)
}

func TestParseJSONBytes(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, ParseJSONBytes([]byte(`{"name":"a","extra":1}`), &out))
	assert.Equal(t, "a", out.Name)

	assert.Error(t, ParseJSONBytes([]byte(`{"name":"a"} {"name":"b"}`), &out))
}
