package internal

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tushar-indygen/leadform"
	"go.uber.org/zap"
)

// StatePersistence is the serialization boundary for session state. Load
// returns (nil, nil) when no snapshot exists under the given name.
type StatePersistence interface {
	Load(name string) ([]byte, error)
	Save(name string, data []byte) error
}

// persistedState is the durable subset of the workflow session. Snippets
// and the snippet modal flag are transient and always reset on reload.
type persistedState struct {
	Schema                *leadform.FormSchema `json:"schema"`
	CurrentPageIndex      int                  `json:"currentPageIndex"`
	FormValues            leadform.FormValues  `json:"formValues"`
	Errors                leadform.FieldErrors `json:"errors"`
	UseDynamicForm        bool                 `json:"useDynamicForm"`
	DefaultWorkflowID     string               `json:"defaultWorkflowId"`
	DefaultWorkflowSchema *leadform.FormSchema `json:"defaultWorkflowSchema"`
}

// WorkflowStore is the single writer for the active form session: schema,
// page cursor, in-progress values, field errors, import UI state and the
// cached default workflow. All reads by the renderer and the views go
// through it.
type WorkflowStore struct {
	mu      sync.Mutex
	name    string
	persist StatePersistence

	schema                *leadform.FormSchema
	currentPageIndex      int
	formValues            leadform.FormValues
	errors                leadform.FieldErrors
	snippets              []leadform.Snippet
	showSnippetModal      bool
	useDynamicForm        bool
	defaultWorkflowID     string
	defaultWorkflowSchema *leadform.FormSchema
}

// NewWorkflowStore creates a store persisted under the config's namespaced
// storage name. A nil persistence keeps the session purely in memory. A
// corrupt snapshot is discarded rather than failing store construction.
func NewWorkflowStore(cfg *leadform.Config, persist StatePersistence) *WorkflowStore {
	s := &WorkflowStore{
		name:       cfg.StorageName(),
		persist:    persist,
		formValues: make(leadform.FormValues),
		errors:     make(leadform.FieldErrors),
	}
	s.loadSnapshot()
	return s
}

func (s *WorkflowStore) loadSnapshot() {
	if s.persist == nil {
		return
	}
	data, err := s.persist.Load(s.name)
	if err != nil {
		zap.S().Warnw("workflow store: load snapshot failed", "name", s.name, "err", err)
		return
	}
	if data == nil {
		return
	}
	var snap persistedState
	if err := json.Unmarshal(data, &snap); err != nil {
		zap.S().Warnw("workflow store: discarding corrupt snapshot", "name", s.name, "err", err)
		return
	}
	s.schema = snap.Schema
	s.currentPageIndex = snap.CurrentPageIndex
	if snap.FormValues != nil {
		s.formValues = snap.FormValues
	}
	if snap.Errors != nil {
		s.errors = snap.Errors
	}
	s.useDynamicForm = snap.UseDynamicForm
	s.defaultWorkflowID = snap.DefaultWorkflowID
	s.defaultWorkflowSchema = snap.DefaultWorkflowSchema
}

// saveLocked writes the durable subset. Failures are logged and swallowed:
// persistence is best effort and never surfaces to the session.
func (s *WorkflowStore) saveLocked() {
	if s.persist == nil {
		return
	}
	snap := persistedState{
		Schema:                s.schema,
		CurrentPageIndex:      s.currentPageIndex,
		FormValues:            s.formValues,
		Errors:                s.errors,
		UseDynamicForm:        s.useDynamicForm,
		DefaultWorkflowID:     s.defaultWorkflowID,
		DefaultWorkflowSchema: s.defaultWorkflowSchema,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		zap.S().Warnw("workflow store: marshal snapshot failed", "name", s.name, "err", err)
		return
	}
	if err := s.persist.Save(s.name, data); err != nil {
		zap.S().Warnw("workflow store: save snapshot failed", "name", s.name, "err", err)
	}
}

// SetSchema replaces the active schema. Form values and the page cursor
// are left untouched; callers orchestrate ordering (or use ApplySchema).
func (s *WorkflowStore) SetSchema(schema *leadform.FormSchema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schema = schema
	s.saveLocked()
}

// Schema returns the active schema, or nil.
func (s *WorkflowStore) Schema() *leadform.FormSchema {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schema
}

// SetCurrentPageIndex stores the page cursor. The store keeps the raw
// value; navigation bounds are the renderer's responsibility.
func (s *WorkflowStore) SetCurrentPageIndex(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentPageIndex = index
	s.saveLocked()
}

// UpdateCurrentPageIndex applies a functional update to the page cursor.
func (s *WorkflowStore) UpdateCurrentPageIndex(update func(int) int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentPageIndex = update(s.currentPageIndex)
	s.saveLocked()
}

// CurrentPageIndex returns the page cursor.
func (s *WorkflowStore) CurrentPageIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPageIndex
}

// SetFormValues replaces the values map wholesale.
func (s *WorkflowStore) SetFormValues(values leadform.FormValues) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if values == nil {
		values = make(leadform.FormValues)
	}
	s.formValues = values
	s.saveLocked()
}

// UpdateFormValues applies a functional update to the values map.
func (s *WorkflowStore) UpdateFormValues(update func(leadform.FormValues) leadform.FormValues) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := update(s.formValues.Clone())
	if next == nil {
		next = make(leadform.FormValues)
	}
	s.formValues = next
	s.saveLocked()
}

// FormValues returns a copy of the current values map.
func (s *WorkflowStore) FormValues() leadform.FormValues {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formValues.Clone()
}

// HandleInputChange merges a single key into the values map. Validation is
// a separate concern driven by the renderer; this never touches errors.
func (s *WorkflowStore) HandleInputChange(fieldID string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formValues[fieldID] = value
	s.saveLocked()
}

// SetFieldError upserts a field error; an empty message deletes the key.
func (s *WorkflowStore) SetFieldError(fieldID, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if message == "" {
		delete(s.errors, fieldID)
	} else {
		s.errors[fieldID] = message
	}
	s.saveLocked()
}

// Errors returns a copy of the current field errors.
func (s *WorkflowStore) Errors() leadform.FieldErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors.Clone()
}

// FieldError returns the error message for a field, if any.
func (s *WorkflowStore) FieldError(fieldID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.errors[fieldID]
	return msg, ok
}

// SetSnippets stores the fetched catalog entries. Transient; not persisted.
func (s *WorkflowStore) SetSnippets(snippets []leadform.Snippet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snippets = snippets
}

// Snippets returns the fetched catalog entries.
func (s *WorkflowStore) Snippets() []leadform.Snippet {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]leadform.Snippet, len(s.snippets))
	copy(out, s.snippets)
	return out
}

// SetShowSnippetModal toggles the snippet selection modal. Transient.
func (s *WorkflowStore) SetShowSnippetModal(show bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showSnippetModal = show
}

// ShowSnippetModal reports whether the snippet modal is open.
func (s *WorkflowStore) ShowSnippetModal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.showSnippetModal
}

// SetUseDynamicForm toggles whether the session prefers an explicitly
// imported schema over the built-in default.
func (s *WorkflowStore) SetUseDynamicForm(use bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.useDynamicForm = use
	s.saveLocked()
}

// UseDynamicForm reports the dynamic-form preference.
func (s *WorkflowStore) UseDynamicForm() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.useDynamicForm
}

// SetAsDefaultWorkflow durably records a schema as the session default and
// implicitly turns the dynamic-form preference on.
func (s *WorkflowStore) SetAsDefaultWorkflow(id string, schema *leadform.FormSchema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultWorkflowID = id
	s.defaultWorkflowSchema = schema
	s.useDynamicForm = true
	s.saveLocked()
}

// DefaultWorkflow returns the cached default workflow. The schema may be
// nil when only an id was recorded.
func (s *WorkflowStore) DefaultWorkflow() leadform.DefaultWorkflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return leadform.DefaultWorkflow{ID: s.defaultWorkflowID, Schema: s.defaultWorkflowSchema}
}

// ApplySchema installs a schema, rewinds to page zero and clears values
// and errors as one mutation with a single persistence write, so a
// partially applied import is never observable.
func (s *WorkflowStore) ApplySchema(schema *leadform.FormSchema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schema = schema
	s.currentPageIndex = 0
	s.formValues = make(leadform.FormValues)
	s.errors = make(leadform.FieldErrors)
	s.saveLocked()
}

// ResetOptions controls Reset behavior.
type ResetOptions struct {
	KeepSchema bool
}

// Reset clears the transient session: page cursor to zero, values and
// errors emptied, snippet modal closed. The schema survives only when
// KeepSchema is set. The default workflow fields are never touched.
func (s *WorkflowStore) Reset(opts ResetOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !opts.KeepSchema {
		s.schema = nil
	}
	s.currentPageIndex = 0
	s.formValues = make(leadform.FormValues)
	s.errors = make(leadform.FieldErrors)
	s.showSnippetModal = false
	s.saveLocked()
}

// String describes the session for logs.
func (s *WorkflowStore) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	pages := 0
	if s.schema != nil {
		pages = len(s.schema.Pages)
	}
	return fmt.Sprintf("workflow[%s] pages=%d page=%d values=%d errors=%d", s.name, pages, s.currentPageIndex, len(s.formValues), len(s.errors))
}
