package leadform

import (
	"fmt"
	"regexp"
	"sync"
)

// Default validation patterns per field kind. These apply when a field
// does not carry an explicit pattern of its own. All are fully anchored;
// an explicit field pattern is used exactly as authored.
var defaultPatterns = map[FieldType]string{
	FieldTypePANCard:     `^[A-Z]{5}[0-9]{4}[A-Z]{1}$`,
	FieldTypeAadhaar:     `^[2-9]{1}[0-9]{11}$`,
	FieldTypeBankAccount: `^\d{9,18}$`,
	FieldTypeIFSC:        `^[A-Z]{4}0[A-Z0-9]{6}$`,
	FieldTypeGSTIN:       `^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`,
}

// GenericValidationMessage is used when a mismatching field has no
// validationMessage of its own.
const GenericValidationMessage = "Invalid"

var (
	patternMu    sync.Mutex
	patternCache = make(map[string]*regexp.Regexp)
)

// DefaultPattern returns the registry default pattern for a field kind, or
// "" when the kind has none.
func DefaultPattern(t FieldType) string {
	return defaultPatterns[t]
}

// PatternFor resolves the effective validation pattern for a field: the
// field's explicit pattern when set, else the registry default for its
// kind. Returns "" when the field has no pattern at all.
func PatternFor(field *Field) string {
	if field == nil {
		return ""
	}
	if field.Pattern != "" {
		return field.Pattern
	}
	return defaultPatterns[field.Type]
}

// compilePattern compiles and caches a pattern. Compilation failures are
// reported rather than panicking since patterns arrive from imported
// schema documents.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	patternMu.Lock()
	defer patternMu.Unlock()

	if re, ok := patternCache[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	patternCache[pattern] = re
	return re, nil
}

// ValidateFieldValue tests a field value against the field's effective
// pattern. It returns the error message to record, or "" when the value is
// valid. Absent and falsy values (nil, "", false, numeric zero) are exempt
// from pattern validation. A pattern that fails to compile never produces
// a field error.
func ValidateFieldValue(field *Field, value any) string {
	pattern := PatternFor(field)
	if pattern == "" {
		return ""
	}
	if isFalsyValue(value) {
		return ""
	}

	str := stringifyValue(value)
	if str == "" {
		return ""
	}

	re, err := compilePattern(pattern)
	if err != nil {
		return ""
	}
	if re.MatchString(str) {
		return ""
	}
	if field.ValidationMessage != "" {
		return field.ValidationMessage
	}
	return GenericValidationMessage
}

// isFalsyValue reports whether a form value is falsy and therefore skips
// pattern validation. The string "0" is truthy and still validates.
func isFalsyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case float64:
		return v == 0
	case int:
		return v == 0
	case int64:
		return v == 0
	default:
		return false
	}
}

// stringifyValue renders a scalar form value the way the UI binding would:
// nil and empty string are "empty", everything else is its string form.
func stringifyValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return trimFloat(v)
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// trimFloat formats a float the way JSON numbers round-trip: integral
// values print without a decimal point.
func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
