package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ramener/internal/core/domain"
)

func TestParseMetadata_WholeContent(t *testing.T) {
	meta, err := ParseMetadata(`{"date":"2024-03-01","source":"WHO","title":"Weekly","confidence":0.76,"extra":1}`)

	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", *meta.Date)
	assert.Equal(t, "WHO", *meta.Source)
	assert.Equal(t, "Weekly", *meta.Title)
	assert.InDelta(t, 0.76, *meta.Confidence, 1e-9)
}

func TestParseMetadata_EmbeddedObject(t *testing.T) {
	content := "Here is the result: {\"date\":\"2024-03-01\",\"source\":null,\"title\":\"X\",\"confidence\":0.9} done"

	meta, err := ParseMetadata(content)

	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", *meta.Date)
	assert.Nil(t, meta.Source)
	assert.Equal(t, "X", *meta.Title)
	assert.InDelta(t, 0.9, *meta.Confidence, 1e-9)
}

func TestParseMetadata_CodeFence(t *testing.T) {
	content := "```json\n{\"date\": null, \"source\": \"ACME\", \"title\": null, \"confidence\": null}\n```"

	meta, err := ParseMetadata(content)

	require.NoError(t, err)
	assert.Nil(t, meta.Date)
	assert.Equal(t, "ACME", *meta.Source)
	assert.Nil(t, meta.Title)
	assert.Nil(t, meta.Confidence)
}

func TestParseMetadata_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no braces", "I could not find any metadata."},
		{"reversed braces", "} nothing {"},
		{"broken json", "result: {\"date\": 2024-03-01} end"},
		{"json null", "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMetadata(tt.content)
			assert.ErrorIs(t, err, domain.ErrResponseInvalid)
		})
	}
}

func TestParseMetadata_CoercesConfidence(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected *float64
	}{
		{"numeric string", `{"confidence":" 0.5 "}`, ptr(0.5)},
		{"out of range kept", `{"confidence":1.7}`, ptr(1.7)},
		{"word", `{"confidence":"high"}`, nil},
		{"bool", `{"confidence":true}`, nil},
		{"missing", `{}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := ParseMetadata(tt.content)
			require.NoError(t, err)
			if tt.expected == nil {
				assert.Nil(t, meta.Confidence)
				return
			}
			require.NotNil(t, meta.Confidence)
			assert.InDelta(t, *tt.expected, *meta.Confidence, 1e-9)
		})
	}
}

func TestParseMetadata_NumericFieldsBecomeStrings(t *testing.T) {
	meta, err := ParseMetadata(`{"date":2024,"source":["a"],"title":12}`)

	require.NoError(t, err)
	assert.Equal(t, "2024", *meta.Date)
	assert.Nil(t, meta.Source)
	assert.Equal(t, "12", *meta.Title)
}

func ptr[T any](v T) *T { return &v }
