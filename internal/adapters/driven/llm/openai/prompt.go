package openai

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/ramener/internal/core/ports/driven"
)

const maxCandidateDates = 5

//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const (
	defaultSystemPrompt = "You are an assistant that extracts metadata from PDF documents. " +
		"Always respond with a single JSON object using keys date, source, title, confidence. " +
		"Use null for unknown values. Date must use the YYYY-MM-DD format. " +
		"Do not include any extra commentary."

	defaultUserPrompt = `Extract publication metadata from the following document excerpt.
Return a JSON object matching this schema: {schema}.
If the excerpt only contains month and year, output the first day of that month.
If the source is an author or organization, return their name.
Truncate title to under 120 characters if needed.

Excerpt:
---
{excerpt}
---

{guidance}`

	defaultOCRPrompt = "Transcribe all visible text from these document pages in reading order. " +
		"Return plain text only, without commentary or formatting."

	// SchemaExample is embedded in the user prompt.
	SchemaExample = `{"date": "2024-03-01", "source": "World Health Organization", "title": "Influenza Weekly Report", "confidence": 0.76}`
)

var datePattern = regexp.MustCompile(`(20\d{2}|19\d{2})[./-](0?[1-9]|1[0-2])[./-](0?[1-9]|[12]\d|3[01])`)

// DefaultPrompts returns the built-in prompt templates keyed by name.
func DefaultPrompts() map[string]string {
	return map[string]string{
		driven.PromptMetadataSystem: defaultSystemPrompt,
		driven.PromptMetadataUser:   defaultUserPrompt,
		driven.PromptOCRTranscribe:  defaultOCRPrompt,
	}
}

// FindCandidateDates returns up to five distinct date-shaped substrings in
// order of first appearance.
func FindCandidateDates(text string) []string {
	var seen []string
	for _, m := range datePattern.FindAllString(text, -1) {
		if !contains(seen, m) {
			seen = append(seen, m)
		}
		if len(seen) >= maxCandidateDates {
			break
		}
	}
	return seen
}

// BuildUserPrompt fills the template's {schema}, {excerpt} and {guidance}
// placeholders in a single pass.
func BuildUserPrompt(template, excerpt string) string {
	guidance := "No obvious dates detected."
	if candidates := FindCandidateDates(excerpt); len(candidates) > 0 {
		guidance = "Candidate dates: " + strings.Join(candidates, ", ")
	}
	return strings.NewReplacer(
		"{schema}", SchemaExample,
		"{excerpt}", excerpt,
		"{guidance}", guidance,
	).Replace(template)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
