package internal

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// tryParseNumber coerces a string into int64 or float64 when it parses as
// one, otherwise returns the string unchanged. Captured form values arrive
// as strings from some transports and the stats layer wants real numbers.
func tryParseNumber(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// sanitizeIdentifier quotes a possibly schema-qualified identifier for use
// in catalog SQL. Configured table names are operator input, not user
// input, but they still go through proper quoting.
func sanitizeIdentifier(name string) string {
	if name == "" {
		return ""
	}
	var parts []string
	for _, part := range strings.Split(name, ".") {
		if trimmed := strings.Trim(part, ` "`); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	if len(parts) == 0 {
		parts = []string{name}
	}
	return pgx.Identifier(parts).Sanitize()
}

// toUUID normalizes the id representations the catalog sees (uuid.UUID,
// string, raw or textual byte slice) into a uuid.UUID.
func toUUID(obj any) (uuid.UUID, bool) {
	switch v := obj.(type) {
	case uuid.UUID:
		return v, true
	case *uuid.UUID:
		if v == nil {
			return uuid.Nil, false
		}
		return *v, true
	case string:
		parsed, err := uuid.Parse(v)
		return parsed, err == nil
	case *string:
		if v == nil {
			return uuid.Nil, false
		}
		parsed, err := uuid.Parse(*v)
		return parsed, err == nil
	case []byte:
		if parsed, err := uuid.FromBytes(v); err == nil {
			return parsed, true
		}
		parsed, err := uuid.Parse(string(v))
		return parsed, err == nil
	default:
		return uuid.Nil, false
	}
}
