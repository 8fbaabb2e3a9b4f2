package leadform

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// metaSchemaJSON is the JSON Schema a form schema document must satisfy.
// It checks structure only; field-kind membership and id uniqueness are
// enforced separately by (*FormSchema).Validate so unknown kinds degrade
// to an unsupported-field marker instead of an import failure.
const metaSchemaJSON = `{
  "type": "object",
  "required": ["pages"],
  "properties": {
    "metadata": {
      "type": "object",
      "properties": {
        "id": {"type": "string"},
        "formId": {"type": "string"},
        "createdAt": {"type": "string"},
        "createdBy": {"type": "string"},
        "schemaVersion": {"type": "string"}
      }
    },
    "pages": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["fields"],
        "properties": {
          "id": {"type": "string"},
          "title": {"type": "string"},
          "fields": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["id", "type"],
              "properties": {
                "id": {"type": "string"},
                "type": {"type": "string"},
                "label": {"type": "string"},
                "required": {"type": "boolean"},
                "sensitive": {"type": "boolean"},
                "pattern": {"type": "string"},
                "validationMessage": {"type": "string"},
                "description": {"type": "string"},
                "options": {"type": "array", "items": {"type": "string"}},
                "min": {"type": "number"},
                "max": {"type": "number"}
              }
            }
          }
        }
      }
    }
  }
}`

// ParseSchema parses a schema document. A top-level "pages" array is
// required; anything else is a parse error, never a partially applied
// schema.
func ParseSchema(data []byte) (*FormSchema, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, NewParseError("invalid_json", "failed to parse JSON document").WithCause(err)
	}

	pages, ok := raw["pages"].([]any)
	if !ok {
		return nil, NewParseError("missing_pages", "schema document has no pages array")
	}
	if len(pages) == 0 {
		return nil, NewParseError("empty_pages", "schema document has an empty pages array")
	}

	if err := validateAgainstMetaSchema(raw); err != nil {
		return nil, NewParseError("schema_mismatch", "schema document does not match the expected shape").WithCause(err)
	}

	var schema FormSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, NewParseError("invalid_schema", "failed to decode schema document").WithCause(err)
	}
	return &schema, nil
}

// validateAgainstMetaSchema validates a decoded schema document against
// the embedded meta-schema.
func validateAgainstMetaSchema(doc any) error {
	var schema jsonschema.Schema
	if err := json.Unmarshal([]byte(metaSchemaJSON), &schema); err != nil {
		return fmt.Errorf("failed to unmarshal into jsonschema.Schema: %w", err)
	}

	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return fmt.Errorf("failed to resolve JSON schema: %w", err)
	}

	if err := resolved.Validate(doc); err != nil {
		return fmt.Errorf("JSON validation failed: %w", err)
	}

	return nil
}

// Validate checks the structural invariants on a parsed schema: at least
// one page and field ids unique across the whole schema.
func (s *FormSchema) Validate() error {
	if s == nil {
		return NewValidationError("nil_schema", "schema is nil")
	}
	if len(s.Pages) == 0 {
		return NewValidationError("no_pages", "schema has no pages")
	}

	seen := make(map[string]struct{})
	for _, page := range s.Pages {
		for _, field := range page.Fields {
			if field.ID == "" {
				return NewValidationError("empty_field_id", "field has an empty id").WithDetail("page", page.ID)
			}
			if _, dup := seen[field.ID]; dup {
				return NewValidationError("duplicate_field_id", "field id appears more than once").WithField(field.ID)
			}
			seen[field.ID] = struct{}{}
		}
	}
	return nil
}

// WrapRemoteSchema converts a gateway schema payload into a FormSchema.
// The gateway returns {data: <schema>, id: <record id>}; the returned
// schema carries the record id in its metadata so "set as default" can
// reference it later.
func WrapRemoteSchema(data []byte, recordID string) (*FormSchema, error) {
	schema, err := ParseSchema(data)
	if err != nil {
		return nil, err
	}
	if recordID != "" {
		schema.Metadata.ID = recordID
		if schema.Metadata.FormID == "" {
			schema.Metadata.FormID = recordID
		}
	}
	return schema, nil
}
