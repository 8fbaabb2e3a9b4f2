package leadform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDefaultPatterns tests the built-in patterns against known-good and
// known-bad values
func TestDefaultPatterns(t *testing.T) {
	cases := []struct {
		name    string
		ftype   FieldType
		valid   string
		invalid string
	}{
		{"pan", FieldTypePANCard, "ABCDE1234F", "abcde1234f"},
		{"aadhaar", FieldTypeAadhaar, "234567890123", "123456789012"},
		{"bank account", FieldTypeBankAccount, "123456789", "12345678"},
		{"ifsc", FieldTypeIFSC, "SBIN0001234", "SBIN1001234"},
		{"gstin", FieldTypeGSTIN, "22AAAAA0000A1Z5", "22AAAAA0000A1X5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			field := &Field{ID: tc.name, Type: tc.ftype}
			assert.Empty(t, ValidateFieldValue(field, tc.valid))
			assert.Equal(t, GenericValidationMessage, ValidateFieldValue(field, tc.invalid))
		})
	}
}

// TestValidateEmptyValueExempt tests that empty values never produce a
// pattern error
func TestValidateEmptyValueExempt(t *testing.T) {
	field := &Field{ID: "pan", Type: FieldTypePANCard}

	assert.Empty(t, ValidateFieldValue(field, ""))
	assert.Empty(t, ValidateFieldValue(field, nil))
}

// TestValidateFalsyValuesExempt tests that numeric zero and false skip
// pattern validation while the string "0" still validates
func TestValidateFalsyValuesExempt(t *testing.T) {
	field := &Field{ID: "pan", Type: FieldTypePANCard}

	assert.Empty(t, ValidateFieldValue(field, float64(0)))
	assert.Empty(t, ValidateFieldValue(field, 0))
	assert.Empty(t, ValidateFieldValue(field, int64(0)))
	assert.Empty(t, ValidateFieldValue(field, false))
	assert.Equal(t, GenericValidationMessage, ValidateFieldValue(field, "0"))
	assert.Equal(t, GenericValidationMessage, ValidateFieldValue(field, true))
}

// TestValidateCustomPatternAndMessage tests explicit field pattern and
// validation message precedence
func TestValidateCustomPatternAndMessage(t *testing.T) {
	field := &Field{
		ID:                "code",
		Type:              FieldTypeShortText,
		Pattern:           `^[A-Z]{3}$`,
		ValidationMessage: "Use three capital letters",
	}

	assert.Empty(t, ValidateFieldValue(field, "ABC"))
	assert.Equal(t, "Use three capital letters", ValidateFieldValue(field, "abc"))
}

// TestValidateCustomPatternOverridesDefault tests that a field pattern
// replaces the registry default for its kind
func TestValidateCustomPatternOverridesDefault(t *testing.T) {
	field := &Field{ID: "pan", Type: FieldTypePANCard, Pattern: `^\d{4}$`}

	assert.Empty(t, ValidateFieldValue(field, "1234"))
	assert.Equal(t, GenericValidationMessage, ValidateFieldValue(field, "ABCDE1234F"))
}

// TestValidateUncompilablePattern tests that a broken pattern never
// produces a field error
func TestValidateUncompilablePattern(t *testing.T) {
	field := &Field{ID: "code", Type: FieldTypeShortText, Pattern: `([`}
	assert.Empty(t, ValidateFieldValue(field, "anything"))
}

// TestValidateNoPattern tests fields with no effective pattern
func TestValidateNoPattern(t *testing.T) {
	field := &Field{ID: "notes", Type: FieldTypeLongText}
	assert.Empty(t, ValidateFieldValue(field, "free text"))
	assert.Empty(t, ValidateFieldValue(nil, "anything"))
}

// TestValidateNonStringValues tests pattern matching over coerced scalars
func TestValidateNonStringValues(t *testing.T) {
	field := &Field{ID: "count", Type: FieldTypeNumber, Pattern: `^\d+$`}

	assert.Empty(t, ValidateFieldValue(field, float64(42)))
	assert.Equal(t, GenericValidationMessage, ValidateFieldValue(field, 4.5))
}

// TestPatternFor tests effective pattern resolution
func TestPatternFor(t *testing.T) {
	assert.Equal(t, DefaultPattern(FieldTypeIFSC), PatternFor(&Field{Type: FieldTypeIFSC}))
	assert.Equal(t, `^x$`, PatternFor(&Field{Type: FieldTypeIFSC, Pattern: `^x$`}))
	assert.Empty(t, PatternFor(&Field{Type: FieldTypeShortText}))
	assert.Empty(t, PatternFor(nil))
	assert.Empty(t, DefaultPattern(FieldTypeEmail))
}
