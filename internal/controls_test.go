package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tushar-indygen/leadform"
)

func buildFor(field leadform.Field, values leadform.FormValues) Control {
	return BuildControl(&field, values, leadform.FieldErrors{}, false)
}

// TestControlPlaceholders tests the per-kind placeholder texts
func TestControlPlaceholders(t *testing.T) {
	tests := []struct {
		fieldType   leadform.FieldType
		placeholder string
		inputType   string
	}{
		{leadform.FieldTypeShortText, "Short answer text", ""},
		{leadform.FieldTypeEmail, "name@example.com", "email"},
		{leadform.FieldTypeURL, "https://example.com", "url"},
		{leadform.FieldTypePhone, "+91 0000000000", "tel"},
		{leadform.FieldTypeIPAddress, "192.168.1.1", ""},
		{leadform.FieldTypeNumber, "0", "number"},
		{leadform.FieldTypePANCard, "ABCDE1234F", ""},
		{leadform.FieldTypeAadhaar, "XXXX-XXXX-1234", ""},
		{leadform.FieldTypeBankAccount, "XXXXXXXXXX1234", ""},
		{leadform.FieldTypeIFSC, "SBIN0001234", ""},
		{leadform.FieldTypeGSTIN, "22AAAAA0000A1Z5", ""},
	}
	for _, tc := range tests {
		t.Run(string(tc.fieldType), func(t *testing.T) {
			c := buildFor(leadform.Field{ID: "f", Type: tc.fieldType}, leadform.FormValues{})
			assert.Equal(t, ControlInput, c.Kind)
			assert.Equal(t, tc.placeholder, c.Placeholder)
			assert.Equal(t, tc.inputType, c.InputType)
		})
	}
}

// TestControlSensitiveMasked tests that the sensitive flag routes through
// the masked control
func TestControlSensitiveMasked(t *testing.T) {
	c := buildFor(leadform.Field{ID: "pan", Type: leadform.FieldTypePANCard, Sensitive: true}, leadform.FormValues{})
	assert.Equal(t, ControlMasked, c.Kind)
}

// TestControlInformational tests welcome/end centered layout
func TestControlInformational(t *testing.T) {
	for _, ft := range []leadform.FieldType{leadform.FieldTypeWelcome, leadform.FieldTypeEnd} {
		c := buildFor(leadform.Field{ID: "w", Type: ft}, leadform.FormValues{})
		assert.Equal(t, ControlInfo, c.Kind)
		assert.True(t, c.Centered)
	}
}

// TestControlSelectOptions tests the placeholder-first option list
func TestControlSelectOptions(t *testing.T) {
	field := leadform.Field{ID: "city", Type: leadform.FieldTypeSelect, Options: []string{"Pune", "Mumbai"}}

	c := buildFor(field, leadform.FormValues{"city": "Mumbai"})
	require.Len(t, c.Options, 3)
	assert.Equal(t, "Select an option", c.Options[0].Label)
	assert.False(t, c.Options[0].Selected)
	assert.True(t, c.Options[2].Selected)

	empty := buildFor(field, leadform.FormValues{})
	assert.True(t, empty.Options[0].Selected)
}

// TestControlRadioGroup tests multiple choice selection state
func TestControlRadioGroup(t *testing.T) {
	field := leadform.Field{ID: "plan", Type: leadform.FieldTypeMultipleChoice, Options: []string{"Basic", "Pro"}}
	c := buildFor(field, leadform.FormValues{"plan": "Pro"})

	assert.Equal(t, ControlRadioGroup, c.Kind)
	require.Len(t, c.Options, 2)
	assert.False(t, c.Options[0].Selected)
	assert.True(t, c.Options[1].Selected)
}

// TestControlRating tests the five-position fill state
func TestControlRating(t *testing.T) {
	c := buildFor(leadform.Field{ID: "score", Type: leadform.FieldTypeRating}, leadform.FormValues{"score": float64(3)})

	require.NotNil(t, c.Rating)
	assert.Equal(t, 5, c.Rating.Positions)
	assert.Equal(t, 3, c.Rating.Value)
	assert.Equal(t, []bool{true, true, true, false, false}, c.Rating.Filled)
}

// TestControlSlider tests bounds from the field and the min fallback
func TestControlSlider(t *testing.T) {
	min, max := 10.0, 50.0
	field := leadform.Field{ID: "budget", Type: leadform.FieldTypeSlider, Min: &min, Max: &max}

	c := buildFor(field, leadform.FormValues{})
	require.NotNil(t, c.Slider)
	assert.Equal(t, 10.0, c.Slider.Min)
	assert.Equal(t, 50.0, c.Slider.Max)
	assert.Equal(t, 10.0, c.Slider.Value)

	c = buildFor(field, leadform.FormValues{"budget": 42.0})
	assert.Equal(t, 42.0, c.Slider.Value)
}

// TestControlNameSubInputs tests derived sub-key composites
func TestControlNameSubInputs(t *testing.T) {
	values := leadform.FormValues{"applicant_first": "Asha", "applicant_last": "Rao"}
	c := buildFor(leadform.Field{ID: "applicant", Type: leadform.FieldTypeName}, values)

	assert.Equal(t, ControlGroup, c.Kind)
	require.Len(t, c.Subs, 2)
	assert.Equal(t, "applicant_first", c.Subs[0].Key)
	assert.Equal(t, "Asha", c.Subs[0].Value)
	assert.Equal(t, "Rao", c.Subs[1].Value)
}

// TestControlAddressSubInputs tests the five address parts
func TestControlAddressSubInputs(t *testing.T) {
	c := buildFor(leadform.Field{ID: "addr", Type: leadform.FieldTypeAddress}, leadform.FormValues{})

	require.Len(t, c.Subs, 5)
	keys := []string{"addr_street", "addr_city", "addr_state", "addr_zip", "addr_country"}
	for i, key := range keys {
		assert.Equal(t, key, c.Subs[i].Key)
	}
}

// TestControlBasicInfo tests the nested-object composite with masked
// contact fields
func TestControlBasicInfo(t *testing.T) {
	values := leadform.FormValues{"contact": map[string]any{"first_name": "Asha", "email": "a@b.com"}}
	c := buildFor(leadform.Field{ID: "contact", Type: leadform.FieldTypeBasicInfo}, values)

	require.Len(t, c.Subs, 4)
	assert.Equal(t, "Asha", c.Subs[0].Value)
	assert.Equal(t, "a@b.com", c.Subs[2].Value)
	assert.True(t, c.Subs[2].Masked)
	assert.True(t, c.Subs[3].Masked)
}

// TestControlLeadDetailsStatusDefault tests the New default and the
// status option list
func TestControlLeadDetailsStatusDefault(t *testing.T) {
	c := buildFor(leadform.Field{ID: "details", Type: leadform.FieldTypeLeadDetails}, leadform.FormValues{})

	require.Len(t, c.Subs, 5)
	status := c.Subs[0]
	assert.Equal(t, "New", status.Value)
	require.Len(t, status.Options, len(leadform.AllLeadStatuses))
	assert.True(t, status.Options[0].Selected)

	c = buildFor(leadform.Field{ID: "details", Type: leadform.FieldTypeLeadDetails},
		leadform.FormValues{"details": map[string]any{"status": "Qualified"}})
	assert.Equal(t, "Qualified", c.Subs[0].Value)
}

// TestControlUnsupported tests the visible unsupported marker
func TestControlUnsupported(t *testing.T) {
	c := buildFor(leadform.Field{ID: "x", Type: leadform.FieldType("hologram")}, leadform.FormValues{})

	assert.Equal(t, ControlUnsupported, c.Kind)
	assert.Equal(t, "Unsupported field type: hologram", c.Message)
}

// TestControlDeepValueResolution tests that values nested under container
// keys still bind
func TestControlDeepValueResolution(t *testing.T) {
	values := leadform.FormValues{"data": map[string]any{"email": "a@b.com"}}
	c := buildFor(leadform.Field{ID: "email", Type: leadform.FieldTypeEmail}, values)

	assert.Equal(t, "a@b.com", c.Value)
}

// TestControlErrorBinding tests inline error propagation
func TestControlErrorBinding(t *testing.T) {
	field := leadform.Field{ID: "pan", Type: leadform.FieldTypePANCard}
	c := BuildControl(&field, leadform.FormValues{}, leadform.FieldErrors{"pan": "Invalid"}, false)

	assert.Equal(t, "Invalid", c.Error)
}
