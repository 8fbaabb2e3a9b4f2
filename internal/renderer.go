package internal

import (
	"context"

	"github.com/tushar-indygen/leadform"
	"go.uber.org/zap"
)

// SessionState is the renderer's position in its state machine.
type SessionState string

const (
	SessionNoSchema   SessionState = "no_schema"
	SessionPageActive SessionState = "page_active"
)

// AlertEvent is a user-facing dialog raised by the renderer (parse and
// import failures, local capture confirmation).
type AlertEvent struct {
	Title       string
	Description string
}

// RendererOptions configures a render session.
type RendererOptions struct {
	// OnComplete receives the full values snapshot when the last page is
	// submitted. When nil the renderer raises a local confirmation dialog
	// instead.
	OnComplete func(leadform.FormValues)
	// ResetOnMount clears the session when the renderer is created;
	// PreserveSchema keeps the schema across that reset.
	ResetOnMount   bool
	PreserveSchema bool
	// InitialValues seed the values map on mount and again when a schema
	// becomes available while the values map is still empty.
	InitialValues leadform.FormValues
	// ReadOnly renders inputs disabled and drops value mutations; page
	// navigation stays active.
	ReadOnly bool
	// Schema supplied directly by the caller. It takes precedence over the
	// store's schema and hides the import controls.
	Schema *leadform.FormSchema
}

// Renderer drives a multi-page form session against a WorkflowStore: it
// resolves the active schema, builds the control model for the current
// page, validates on change and handles navigation and completion.
type Renderer struct {
	store *WorkflowStore
	opts  RendererOptions
	alert *AlertEvent
}

// NewRenderer creates a render session over the store.
func NewRenderer(store *WorkflowStore, opts RendererOptions) *Renderer {
	r := &Renderer{store: store, opts: opts}
	if opts.ResetOnMount {
		store.Reset(ResetOptions{KeepSchema: opts.PreserveSchema})
	}
	if len(opts.InitialValues) > 0 {
		store.SetFormValues(opts.InitialValues.Clone())
	}
	return r
}

// Schema resolves the active schema: the externally supplied one wins over
// the store's.
func (r *Renderer) Schema() *leadform.FormSchema {
	if r.opts.Schema != nil {
		return r.opts.Schema
	}
	return r.store.Schema()
}

// State reports whether a schema is active.
func (r *Renderer) State() SessionState {
	if r.Schema() == nil {
		return SessionNoSchema
	}
	return SessionPageActive
}

// SyncInitialValues re-seeds the initial values once a schema is available
// and the values map is still empty. Hosts call it after a default schema
// loads so an opened record's values are not silently dropped.
func (r *Renderer) SyncInitialValues() {
	if r.Schema() == nil || len(r.opts.InitialValues) == 0 {
		return
	}
	if len(r.store.FormValues()) > 0 {
		return
	}
	r.store.SetFormValues(r.opts.InitialValues.Clone())
}

// PageCount returns the number of pages in the active schema.
func (r *Renderer) PageCount() int {
	schema := r.Schema()
	if schema == nil {
		return 0
	}
	return len(schema.Pages)
}

// pageIndex clamps the store's raw cursor into the schema's page range.
func (r *Renderer) pageIndex() int {
	count := r.PageCount()
	if count == 0 {
		return 0
	}
	idx := r.store.CurrentPageIndex()
	if idx < 0 {
		return 0
	}
	if idx >= count {
		return count - 1
	}
	return idx
}

// CurrentPageIndex returns the bounded page cursor.
func (r *Renderer) CurrentPageIndex() int {
	return r.pageIndex()
}

// IsFirstPage reports whether the session is on the first page.
func (r *Renderer) IsFirstPage() bool {
	return r.pageIndex() == 0
}

// IsLastPage reports whether the session is on the last page.
func (r *Renderer) IsLastPage() bool {
	count := r.PageCount()
	return count > 0 && r.pageIndex() == count-1
}

// CurrentPage returns the render model for the active page, or nil when no
// schema is loaded.
func (r *Renderer) CurrentPage() *RenderedPage {
	schema := r.Schema()
	if schema == nil {
		return nil
	}
	page := schema.Pages[r.pageIndex()]
	values := r.store.FormValues()
	errors := r.store.Errors()

	rendered := &RenderedPage{
		ID:    page.ID,
		Title: page.Title,
		Index: r.pageIndex(),
		Total: len(schema.Pages),
	}
	for i := range page.Fields {
		rendered.Controls = append(rendered.Controls, BuildControl(&page.Fields[i], values, errors, r.opts.ReadOnly))
	}
	return rendered
}

// HandleInputChange records a value for a field and runs pattern
// validation for it. A no-op in read-only mode. Validation is advisory:
// errors render inline but never gate navigation or completion.
func (r *Renderer) HandleInputChange(fieldID string, value any) {
	if r.opts.ReadOnly {
		return
	}
	r.store.HandleInputChange(fieldID, value)

	schema := r.Schema()
	if schema == nil {
		return
	}
	field, ok := schema.FieldByID(fieldID)
	if !ok {
		return
	}
	if leadform.PatternFor(field) == "" {
		return
	}
	r.store.SetFieldError(fieldID, leadform.ValidateFieldValue(field, value))
}

// HandleCompositeChange shallow-merges a patch into a field's nested
// object value (basic_info, lead_details).
func (r *Renderer) HandleCompositeChange(fieldID string, patch map[string]any) {
	if r.opts.ReadOnly {
		return
	}
	current, _ := r.store.FormValues()[fieldID].(map[string]any)
	merged := make(map[string]any, len(current)+len(patch))
	for k, v := range current {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	r.store.HandleInputChange(fieldID, merged)
}

// Previous moves one page back, stopping at the first page.
func (r *Renderer) Previous() {
	r.store.UpdateCurrentPageIndex(func(p int) int {
		if p <= 0 {
			return 0
		}
		return p - 1
	})
}

// Next advances one page, or completes the session on the last page: the
// completion callback receives the full values snapshot; with no callback
// a local "Lead Captured" confirmation is raised instead.
func (r *Renderer) Next() {
	schema := r.Schema()
	if schema == nil {
		return
	}
	if r.IsLastPage() {
		values := r.store.FormValues()
		if r.opts.OnComplete != nil {
			r.opts.OnComplete(values)
		} else {
			r.showAlert("Lead Captured", "Lead captured successfully")
		}
		EmitCaptureCount(context.Background(), schema.Metadata.ID, 1)
		zap.S().Infow("form session completed", "form_id", schema.Metadata.FormID, "values", len(values))
		return
	}
	last := len(schema.Pages) - 1
	r.store.UpdateCurrentPageIndex(func(p int) int {
		if p >= last {
			return last
		}
		return p + 1
	})
}

// NextLabel returns the primary action label for the current page.
func (r *Renderer) NextLabel() string {
	if r.IsLastPage() {
		return "Capture Lead"
	}
	return "Next"
}

// PageErrors returns the validation errors for fields on the current
// page. Hosts that want to gate navigation can consult it; the renderer
// itself never does.
func (r *Renderer) PageErrors() leadform.FieldErrors {
	schema := r.Schema()
	if schema == nil {
		return leadform.FieldErrors{}
	}
	page := schema.Pages[r.pageIndex()]
	all := r.store.Errors()
	out := make(leadform.FieldErrors)
	for _, field := range page.Fields {
		if msg, ok := all[field.ID]; ok {
			out[field.ID] = msg
		}
	}
	return out
}

// ShowsImportControls reports whether the import surface is visible: only
// when no external schema was supplied.
func (r *Renderer) ShowsImportControls() bool {
	return r.opts.Schema == nil
}

// ShowsImportReset reports whether the "import new workflow" reset action
// is offered: store-owned schema with the dynamic-form preference on.
func (r *Renderer) ShowsImportReset() bool {
	return r.opts.Schema == nil && r.store.UseDynamicForm()
}

// ImportReset discards the current session so a new workflow can be
// imported.
func (r *Renderer) ImportReset() {
	r.store.Reset(ResetOptions{})
}

func (r *Renderer) showAlert(title, description string) {
	r.alert = &AlertEvent{Title: title, Description: description}
}

// Alert returns the pending dialog event, if any.
func (r *Renderer) Alert() *AlertEvent {
	return r.alert
}

// DismissAlert clears the pending dialog event.
func (r *Renderer) DismissAlert() {
	r.alert = nil
}
