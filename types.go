package leadform

import (
	"time"
)

// FieldType enumerates the supported form field kinds. The set is closed:
// renderers dispatch exhaustively over these values and surface anything
// else as an unsupported-field marker instead of failing the page.
type FieldType string

const (
	FieldTypeWelcome        FieldType = "welcome"
	FieldTypeShortText      FieldType = "short_text"
	FieldTypeLongText       FieldType = "long_text"
	FieldTypeMultipleChoice FieldType = "multiple_choice"
	FieldTypeRating         FieldType = "rating"
	FieldTypeFileUpload     FieldType = "file_upload"
	FieldTypeEnd            FieldType = "end"
	FieldTypeEmail          FieldType = "email"
	FieldTypePhone          FieldType = "phone"
	FieldTypeName           FieldType = "name"
	FieldTypeAddress        FieldType = "address"
	FieldTypeDate           FieldType = "date"
	FieldTypeNumber         FieldType = "number"
	FieldTypeURL            FieldType = "url"
	FieldTypeIPAddress      FieldType = "ip_address"
	FieldTypeSlider         FieldType = "slider"
	FieldTypeSelect         FieldType = "select"
	FieldTypeBasicInfo      FieldType = "basic_info"
	FieldTypeLeadDetails    FieldType = "lead_details"
	FieldTypePANCard        FieldType = "pan_card"
	FieldTypeAadhaar        FieldType = "aadhaar"
	FieldTypeBankAccount    FieldType = "bank_account"
	FieldTypeIFSC           FieldType = "ifsc"
	FieldTypeGSTIN          FieldType = "gstin"
)

// AllFieldTypes lists every supported field kind in a stable order.
var AllFieldTypes = []FieldType{
	FieldTypeWelcome, FieldTypeShortText, FieldTypeLongText,
	FieldTypeMultipleChoice, FieldTypeRating, FieldTypeFileUpload,
	FieldTypeEnd, FieldTypeEmail, FieldTypePhone, FieldTypeName,
	FieldTypeAddress, FieldTypeDate, FieldTypeNumber, FieldTypeURL,
	FieldTypeIPAddress, FieldTypeSlider, FieldTypeSelect,
	FieldTypeBasicInfo, FieldTypeLeadDetails, FieldTypePANCard,
	FieldTypeAadhaar, FieldTypeBankAccount, FieldTypeIFSC, FieldTypeGSTIN,
}

// IsSupported reports whether t is one of the closed set of field kinds.
func (t FieldType) IsSupported() bool {
	switch t {
	case FieldTypeWelcome, FieldTypeShortText, FieldTypeLongText,
		FieldTypeMultipleChoice, FieldTypeRating, FieldTypeFileUpload,
		FieldTypeEnd, FieldTypeEmail, FieldTypePhone, FieldTypeName,
		FieldTypeAddress, FieldTypeDate, FieldTypeNumber, FieldTypeURL,
		FieldTypeIPAddress, FieldTypeSlider, FieldTypeSelect,
		FieldTypeBasicInfo, FieldTypeLeadDetails, FieldTypePANCard,
		FieldTypeAadhaar, FieldTypeBankAccount, FieldTypeIFSC,
		FieldTypeGSTIN:
		return true
	}
	return false
}

// IsTextLike reports whether the field kind binds a single scalar value to
// a plain text-style input.
func (t FieldType) IsTextLike() bool {
	switch t {
	case FieldTypeShortText, FieldTypeLongText, FieldTypeEmail,
		FieldTypePhone, FieldTypeDate, FieldTypeNumber, FieldTypeURL,
		FieldTypeIPAddress, FieldTypePANCard, FieldTypeAadhaar,
		FieldTypeBankAccount, FieldTypeIFSC, FieldTypeGSTIN:
		return true
	}
	return false
}

// IsComposite reports whether the field kind stores its value across
// derived sub-keys or as a nested object instead of a single scalar under
// the field id.
func (t FieldType) IsComposite() bool {
	switch t {
	case FieldTypeName, FieldTypeAddress, FieldTypeBasicInfo, FieldTypeLeadDetails:
		return true
	}
	return false
}

// IsInformational reports whether the field kind renders page content only
// and contributes no key to the form values.
func (t FieldType) IsInformational() bool {
	return t == FieldTypeWelcome || t == FieldTypeEnd
}

// Field is a single entry on a form page.
type Field struct {
	ID                string    `json:"id"`
	Type              FieldType `json:"type"`
	Label             string    `json:"label"`
	Required          bool      `json:"required"`
	Sensitive         bool      `json:"sensitive,omitempty"`
	Pattern           string    `json:"pattern,omitempty"`
	ValidationMessage string    `json:"validationMessage,omitempty"`
	Description       string    `json:"description,omitempty"`
	Options           []string  `json:"options,omitempty"`
	Min               *float64  `json:"min,omitempty"`
	Max               *float64  `json:"max,omitempty"`
}

// Page is an ordered group of fields; pages render in sequence as wizard
// steps and field order within a page is semantically meaningful.
type Page struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// SchemaMetadata identifies a schema document.
type SchemaMetadata struct {
	ID            string `json:"id"`
	FormID        string `json:"formId"`
	CreatedAt     string `json:"createdAt"`
	CreatedBy     string `json:"createdBy"`
	SchemaVersion string `json:"schemaVersion"`
}

// FormSchema is a named, versioned description of form pages and fields.
type FormSchema struct {
	Metadata SchemaMetadata `json:"metadata"`
	Pages    []Page         `json:"pages"`
}

// FieldByID returns the field with the given id, searching every page.
func (s *FormSchema) FieldByID(id string) (*Field, bool) {
	if s == nil {
		return nil, false
	}
	for pi := range s.Pages {
		for fi := range s.Pages[pi].Fields {
			if s.Pages[pi].Fields[fi].ID == id {
				return &s.Pages[pi].Fields[fi], true
			}
		}
	}
	return nil, false
}

// FieldLabels returns a field-id -> label mapping across all pages. Views
// use it to title columns derived from captured values.
func (s *FormSchema) FieldLabels() map[string]string {
	labels := make(map[string]string)
	if s == nil {
		return labels
	}
	for _, page := range s.Pages {
		for _, field := range page.Fields {
			if field.ID != "" && field.Label != "" {
				labels[field.ID] = field.Label
			}
		}
	}
	return labels
}

// FormValues maps a field id (or composite sub-key) to a captured value.
type FormValues map[string]any

// Clone returns a shallow copy of the values map.
func (v FormValues) Clone() FormValues {
	out := make(FormValues, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// FieldErrors maps a field id to a human-readable validation message.
// Absence of a key means the field is valid.
type FieldErrors map[string]string

// Clone returns a copy of the errors map.
func (e FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(e))
	for k, msg := range e {
		out[k] = msg
	}
	return out
}

// SnippetMeta carries the display name of a saved schema.
type SnippetMeta struct {
	Name string `json:"name"`
}

// Snippet is a remote-catalog entry describing a previously saved schema
// available for import. Snippets are fetched on demand and never persisted
// locally.
type Snippet struct {
	Record      string      `json:"record"`
	SnippetMeta SnippetMeta `json:"snippetMeta"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// DefaultWorkflow is a durably cached schema+id pair used when no schema
// has been explicitly loaded for the current session. Its lifecycle is
// independent of the transient active schema.
type DefaultWorkflow struct {
	ID     string      `json:"id"`
	Schema *FormSchema `json:"schema"`
}

// LeadStatus enumerates the lead_details status values.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "New"
	LeadStatusContacted LeadStatus = "Contacted"
	LeadStatusQualified LeadStatus = "Qualified"
	LeadStatusLost      LeadStatus = "Lost"
)

// AllLeadStatuses lists the lead statuses in pipeline order.
var AllLeadStatuses = []LeadStatus{
	LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusLost,
}

// ViewKind enumerates the dashboard view modes.
type ViewKind string

const (
	ViewList   ViewKind = "list"
	ViewKanban ViewKind = "kanban"
	ViewStats  ViewKind = "stats"
)

// RolePreferences holds per-role dashboard view settings.
type RolePreferences struct {
	DefaultView   ViewKind `json:"defaultView"`
	KanbanEnabled bool     `json:"isKanbanEnabled"`
	ListEnabled   bool     `json:"isListEnabled"`
}

// Role identifies a preference profile.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)
