package openai

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/custodia-labs/ramener/internal/core/domain"
	"github.com/custodia-labs/ramener/internal/logger"
)

// replySchemaJSON describes the reply the system prompt asks for. Replies
// that violate it are still accepted; the violation is only logged.
const replySchemaJSON = `{
  "type": "object",
  "properties": {
    "date":       {"type": ["string", "null"]},
    "source":     {"type": ["string", "null"]},
    "title":      {"type": ["string", "null"]},
    "confidence": {"type": ["number", "null"], "minimum": 0, "maximum": 1}
  },
  "required": ["date", "source", "title", "confidence"]
}`

var replySchema = mustCompileSchema("metadata.json", replySchemaJSON)

func mustCompileSchema(url, schema string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, strings.NewReader(schema)); err != nil {
		panic(fmt.Sprintf("add schema: %v", err))
	}
	return compiler.MustCompile(url)
}

// ParseMetadata decodes the model reply. The whole content is tried first,
// then the span from the first "{" to the last "}". Only the four known
// fields are read; anything else is discarded.
func ParseMetadata(content string) (*domain.DocumentMetadata, error) {
	obj, err := extractJSONObject(content)
	if err != nil {
		return nil, err
	}
	if err := replySchema.Validate(obj); err != nil {
		logger.Debug("Model reply does not match the metadata schema: %v", err)
	}

	return &domain.DocumentMetadata{
		Date:       coerceString(obj["date"]),
		Source:     coerceString(obj["source"]),
		Title:      coerceString(obj["title"]),
		Confidence: coerceFloat(obj["confidence"]),
	}, nil
}

func extractJSONObject(content string) (map[string]any, error) {
	var whole any
	if err := json.Unmarshal([]byte(content), &whole); err == nil {
		if obj, ok := whole.(map[string]any); ok {
			return obj, nil
		}
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("%w: model response did not contain JSON data", domain.ErrResponseInvalid)
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(content[start:end+1]), &obj); err != nil {
		return nil, fmt.Errorf("%w: unable to parse JSON from model response: %w", domain.ErrResponseInvalid, err)
	}
	return obj, nil
}

func coerceString(v any) *string {
	switch t := v.(type) {
	case string:
		return &t
	case float64:
		s := strconv.FormatFloat(t, 'f', -1, 64)
		return &s
	default:
		return nil
	}
}

// coerceFloat accepts numbers and numeric strings; anything else is unknown.
func coerceFloat(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
