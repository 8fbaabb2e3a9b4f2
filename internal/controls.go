package internal

import (
	"fmt"

	"github.com/tushar-indygen/leadform"
)

// ControlKind identifies the input control a field renders as.
type ControlKind string

const (
	ControlInput       ControlKind = "input"
	ControlTextArea    ControlKind = "textarea"
	ControlMasked      ControlKind = "masked"
	ControlSelect      ControlKind = "select"
	ControlRadioGroup  ControlKind = "radio_group"
	ControlRating      ControlKind = "rating"
	ControlSlider      ControlKind = "slider"
	ControlGroup       ControlKind = "group"
	ControlFileDrop    ControlKind = "file_drop"
	ControlInfo        ControlKind = "info"
	ControlUnsupported ControlKind = "unsupported"
)

// SelectOption is a single choice in a select or radio group.
type SelectOption struct {
	Value    string
	Label    string
	Selected bool
}

// SubInput is one input of a composite control. Key is the full values
// key for derived sub-keys (name/address) or the object property for
// nested-object composites (basic_info/lead_details).
type SubInput struct {
	Key         string
	Label       string
	Placeholder string
	Value       any
	Masked      bool
	InputType   string
	Options     []SelectOption
}

// RatingState describes a five-position rating control.
type RatingState struct {
	Positions int
	Value     int
	Filled    []bool
}

// SliderState describes a bounded range control.
type SliderState struct {
	Min   float64
	Max   float64
	Value float64
}

// Control is the render model for a single field: which input kind to
// draw, the resolved value, the inline error and any composite parts.
type Control struct {
	FieldID     string
	Type        leadform.FieldType
	Kind        ControlKind
	Label       string
	Description string
	Required    bool
	Disabled    bool
	Placeholder string
	InputType   string
	Value       any
	Error       string
	Options     []SelectOption
	Subs        []SubInput
	Rating      *RatingState
	Slider      *SliderState
	Message     string // unsupported marker text
	Centered    bool   // welcome/end informational layout
}

// resolveValue binds a values key the way the UI does: the top-level key
// wins, otherwise a depth-bounded deep search of the values map, so
// records whose values nest under a differently shaped parent still bind.
func resolveValue(values leadform.FormValues, key string) any {
	if v, ok := values[key]; ok {
		return v
	}
	if v, found := leadform.FindValueByKey(map[string]any(values), key); found {
		return v
	}
	return nil
}

func resolveString(values leadform.FormValues, key string) string {
	v := resolveValue(values, key)
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func resolveNumber(values leadform.FormValues, key string, fallback float64) float64 {
	switch v := resolveValue(values, key).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		var f float64
		if _, err := fmt.Sscanf(v, "%g", &f); err == nil {
			return f
		}
	}
	return fallback
}

// BuildControl produces the render model for one field. Dispatch is
// exhaustive over the closed FieldType set; anything outside it renders a
// visible unsupported marker and never aborts the page.
func BuildControl(field *leadform.Field, values leadform.FormValues, errors leadform.FieldErrors, readOnly bool) Control {
	c := Control{
		FieldID:     field.ID,
		Type:        field.Type,
		Label:       field.Label,
		Description: field.Description,
		Required:    field.Required,
		Disabled:    readOnly,
		Error:       errors[field.ID],
	}

	switch field.Type {
	case leadform.FieldTypeWelcome, leadform.FieldTypeEnd:
		c.Kind = ControlInfo
		c.Centered = true

	case leadform.FieldTypeShortText:
		simpleInput(&c, field, values, "Short answer text", "")
	case leadform.FieldTypeEmail:
		simpleInput(&c, field, values, "name@example.com", "email")
	case leadform.FieldTypeURL:
		simpleInput(&c, field, values, "https://example.com", "url")
	case leadform.FieldTypePhone:
		simpleInput(&c, field, values, "+91 0000000000", "tel")
	case leadform.FieldTypeIPAddress:
		simpleInput(&c, field, values, "192.168.1.1", "")
	case leadform.FieldTypeNumber:
		simpleInput(&c, field, values, "0", "number")
	case leadform.FieldTypeDate:
		simpleInput(&c, field, values, "", "date")
	case leadform.FieldTypePANCard:
		simpleInput(&c, field, values, "ABCDE1234F", "")
	case leadform.FieldTypeAadhaar:
		simpleInput(&c, field, values, "XXXX-XXXX-1234", "")
	case leadform.FieldTypeBankAccount:
		simpleInput(&c, field, values, "XXXXXXXXXX1234", "")
	case leadform.FieldTypeIFSC:
		simpleInput(&c, field, values, "SBIN0001234", "")
	case leadform.FieldTypeGSTIN:
		simpleInput(&c, field, values, "22AAAAA0000A1Z5", "")

	case leadform.FieldTypeLongText:
		c.Kind = ControlTextArea
		c.Placeholder = "Long answer text"
		c.Value = resolveString(values, field.ID)

	case leadform.FieldTypeSelect:
		c.Kind = ControlSelect
		current := resolveString(values, field.ID)
		c.Value = current
		// Placeholder option always first.
		c.Options = append(c.Options, SelectOption{Value: "", Label: "Select an option", Selected: current == ""})
		for _, opt := range field.Options {
			c.Options = append(c.Options, SelectOption{Value: opt, Label: opt, Selected: current == opt})
		}

	case leadform.FieldTypeMultipleChoice:
		c.Kind = ControlRadioGroup
		current := resolveValue(values, field.ID)
		c.Value = current
		for _, opt := range field.Options {
			selected := false
			if s, ok := current.(string); ok {
				selected = s == opt
			}
			c.Options = append(c.Options, SelectOption{Value: opt, Label: opt, Selected: selected})
		}

	case leadform.FieldTypeRating:
		c.Kind = ControlRating
		value := int(resolveNumber(values, field.ID, 0))
		state := &RatingState{Positions: 5, Value: value, Filled: make([]bool, 5)}
		for i := 0; i < 5; i++ {
			state.Filled[i] = value >= i+1
		}
		c.Rating = state
		c.Value = value

	case leadform.FieldTypeSlider:
		c.Kind = ControlSlider
		min, max := 0.0, 100.0
		if field.Min != nil {
			min = *field.Min
		}
		if field.Max != nil {
			max = *field.Max
		}
		value := resolveNumber(values, field.ID, min)
		c.Slider = &SliderState{Min: min, Max: max, Value: value}
		c.Value = value

	case leadform.FieldTypeName:
		c.Kind = ControlGroup
		c.Subs = []SubInput{
			{Key: field.ID + "_first", Placeholder: "First Name", Value: resolveString(values, field.ID+"_first")},
			{Key: field.ID + "_last", Placeholder: "Last Name", Value: resolveString(values, field.ID+"_last")},
		}

	case leadform.FieldTypeAddress:
		c.Kind = ControlGroup
		c.Subs = []SubInput{
			{Key: field.ID + "_street", Placeholder: "Street Address", Value: resolveString(values, field.ID+"_street")},
			{Key: field.ID + "_city", Placeholder: "City", Value: resolveString(values, field.ID+"_city")},
			{Key: field.ID + "_state", Placeholder: "State / Province", Value: resolveString(values, field.ID+"_state")},
			{Key: field.ID + "_zip", Placeholder: "Postal / Zip Code", Value: resolveString(values, field.ID+"_zip")},
			{Key: field.ID + "_country", Placeholder: "Country", Value: resolveString(values, field.ID+"_country")},
		}

	case leadform.FieldTypeBasicInfo:
		c.Kind = ControlGroup
		obj, _ := resolveValue(values, field.ID).(map[string]any)
		c.Value = obj
		c.Subs = []SubInput{
			{Key: "first_name", Label: "First Name", Placeholder: "First Name", Value: objString(obj, "first_name")},
			{Key: "last_name", Label: "Last Name", Placeholder: "Last Name", Value: objString(obj, "last_name")},
			{Key: "email", Label: "Email", Placeholder: "Email", Value: objString(obj, "email"), Masked: true},
			{Key: "phone", Label: "Phone", Placeholder: "Phone", Value: objString(obj, "phone"), Masked: true},
		}

	case leadform.FieldTypeLeadDetails:
		c.Kind = ControlGroup
		obj, _ := resolveValue(values, field.ID).(map[string]any)
		c.Value = obj
		status := objString(obj, "status")
		if status == "" {
			status = string(leadform.LeadStatusNew)
		}
		statusOpts := make([]SelectOption, 0, len(leadform.AllLeadStatuses))
		for _, s := range leadform.AllLeadStatuses {
			statusOpts = append(statusOpts, SelectOption{Value: string(s), Label: string(s), Selected: status == string(s)})
		}
		c.Subs = []SubInput{
			{Key: "status", Label: "Status", Placeholder: "Select status", Value: status, Options: statusOpts},
			{Key: "source", Label: "Source", Placeholder: "Source", Value: objString(obj, "source")},
			{Key: "assigned_rm_id", Label: "Assigned RM ID", Placeholder: "Assigned RM ID", Value: objString(obj, "assigned_rm_id")},
			{Key: "lead_score", Label: "Lead Score", Placeholder: "Lead Score", Value: objString(obj, "lead_score"), InputType: "number"},
			{Key: "product_interest", Label: "Product Interest", Placeholder: "Product Interest", Value: objString(obj, "product_interest")},
		}

	case leadform.FieldTypeFileUpload:
		// Presentation only; actual upload is out of scope.
		c.Kind = ControlFileDrop
		c.Message = "Click to upload file"

	default:
		c.Kind = ControlUnsupported
		c.Message = fmt.Sprintf("Unsupported field type: %s", field.Type)
	}

	return c
}

// simpleInput fills a text-like control; the sensitive flag routes it
// through the masked display control regardless of declared type.
func simpleInput(c *Control, field *leadform.Field, values leadform.FormValues, placeholder, inputType string) {
	if field.Sensitive {
		c.Kind = ControlMasked
	} else {
		c.Kind = ControlInput
	}
	c.Placeholder = placeholder
	c.InputType = inputType
	c.Value = resolveString(values, field.ID)
}

func objString(obj map[string]any, key string) string {
	if obj == nil {
		return ""
	}
	v, ok := obj[key]
	if !ok || v == nil {
		return ""
	}
	if s, isStr := v.(string); isStr {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// RenderedPage is the render model for one schema page.
type RenderedPage struct {
	ID       string
	Title    string
	Index    int
	Total    int
	Controls []Control
}
