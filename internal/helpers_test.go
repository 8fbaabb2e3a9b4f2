package internal

import (
	"github.com/tushar-indygen/leadform"
)

// twoPageSchema builds a small lead-capture schema used across tests.
func twoPageSchema() *leadform.FormSchema {
	return &leadform.FormSchema{
		Metadata: leadform.SchemaMetadata{
			ID:     "wf-001",
			FormID: "lead-intake",
		},
		Pages: []leadform.Page{
			{
				ID:    "page-1",
				Title: "Contact",
				Fields: []leadform.Field{
					{ID: "full_name", Type: leadform.FieldTypeShortText, Label: "Full Name", Required: true},
					{ID: "email", Type: leadform.FieldTypeEmail, Label: "Email"},
					{ID: "pan", Type: leadform.FieldTypePANCard, Label: "PAN"},
				},
			},
			{
				ID:    "page-2",
				Title: "Details",
				Fields: []leadform.Field{
					{ID: "details", Type: leadform.FieldTypeLeadDetails, Label: "Lead Details"},
					{ID: "score", Type: leadform.FieldTypeRating, Label: "Score"},
				},
			},
		},
	}
}

func testStoreConfig() *leadform.Config {
	cfg := leadform.DefaultConfig()
	cfg.App.Name = "test"
	return cfg
}

func newMemoryStore() *WorkflowStore {
	return NewWorkflowStore(testStoreConfig(), nil)
}
