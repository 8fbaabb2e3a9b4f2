package internal

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/tushar-indygen/leadform"
)

// Importer owns the three schema import pathways: local file upload, remote
// fetch through the gateway, and saved snippet application. Imports can
// overlap (a slow remote fetch racing a quick file upload), so every import
// claims a generation number up front and its result is applied only if no
// newer import started in the meantime. The latest request always wins;
// stale responses are discarded without touching store state.
type Importer struct {
	store *WorkflowStore
	gw    *GatewayClient
	cfg   leadform.ImportConfig
	gen   atomic.Uint64
}

// NewImporter creates an importer bound to a store and gateway client. The
// gateway client may be nil when only file imports are needed.
func NewImporter(store *WorkflowStore, gw *GatewayClient, cfg leadform.ImportConfig) *Importer {
	return &Importer{store: store, gw: gw, cfg: cfg}
}

// nextGeneration claims a generation number for a starting import.
func (i *Importer) nextGeneration() uint64 {
	return i.gen.Add(1)
}

// applyIfCurrent applies a parsed schema to the store unless a newer import
// has started since gen was claimed. Returns true if the schema was applied.
func (i *Importer) applyIfCurrent(gen uint64, schema *leadform.FormSchema) bool {
	if gen != i.gen.Load() {
		zap.S().Debugw("discarding superseded import result",
			"generation", gen, "current", i.gen.Load(), "schemaId", schema.Metadata.ID)
		return false
	}
	i.store.ApplySchema(schema)
	return true
}

// ImportFile parses an uploaded schema document and applies it. On any
// parse or validation failure the store is left untouched.
func (i *Importer) ImportFile(name string, data []byte) error {
	gen := i.nextGeneration()
	if i.cfg.MaxSchemaBytes > 0 && int64(len(data)) > i.cfg.MaxSchemaBytes {
		return leadform.NewImportError("schema_too_large", "schema document exceeds size limit").
			WithDetail("file", name).WithDetail("size", len(data))
	}
	schema, err := leadform.ParseSchema(data)
	if err != nil {
		EmitImportResult(context.Background(), "file", "failed")
		return leadform.NewImportError("file_import_failed", "failed to import schema file").
			WithCause(err).WithDetail("file", name)
	}
	if !i.applyIfCurrent(gen, schema) {
		EmitImportResult(context.Background(), "file", "superseded")
		return nil
	}
	EmitImportResult(context.Background(), "file", "applied")
	zap.S().Infow("imported schema from file", "file", name, "pages", len(schema.Pages))
	return nil
}

// ImportRemote fetches a workflow schema by record id through the gateway
// and applies it. Returns true if the schema was applied, false if a newer
// import superseded this one while the fetch was in flight.
func (i *Importer) ImportRemote(ctx context.Context, workflowID string) (bool, error) {
	gen := i.nextGeneration()
	if i.gw == nil {
		return false, leadform.NewImportError("gateway_unavailable", "no gateway configured for remote import")
	}
	raw, recordID, err := i.gw.GetWorkflow(ctx, workflowID)
	if err != nil {
		EmitImportResult(ctx, "remote", "failed")
		return false, leadform.NewImportError("remote_import_failed", "failed to fetch workflow schema").
			WithCause(err).WithDetail("workflowId", workflowID)
	}
	schema, err := leadform.WrapRemoteSchema(raw, recordID)
	if err != nil {
		EmitImportResult(ctx, "remote", "failed")
		return false, leadform.NewImportError("remote_import_invalid", "fetched workflow is not a valid schema").
			WithCause(err).WithDetail("workflowId", workflowID)
	}
	if !i.applyIfCurrent(gen, schema) {
		EmitImportResult(ctx, "remote", "superseded")
		return false, nil
	}
	EmitImportResult(ctx, "remote", "applied")
	zap.S().Infow("imported schema from gateway", "workflowId", recordID, "pages", len(schema.Pages))
	return true, nil
}

// LoadSnippets fetches the saved workflow collection and stages it in the
// store for snippet selection. When the gateway answers with a bare schema
// document instead of a list, the schema is applied directly.
func (i *Importer) LoadSnippets(ctx context.Context) error {
	gen := i.nextGeneration()
	if i.gw == nil {
		return leadform.NewImportError("gateway_unavailable", "no gateway configured for snippet loading")
	}
	list, err := i.gw.ListWorkflows(ctx)
	if err != nil {
		return leadform.NewImportError("snippet_load_failed", "failed to load saved workflows").WithCause(err)
	}
	if list.Schema != nil {
		schema, err := leadform.ParseSchema(list.Schema)
		if err != nil {
			return leadform.NewImportError("snippet_load_invalid", "gateway returned an invalid schema document").WithCause(err)
		}
		i.applyIfCurrent(gen, schema)
		return nil
	}
	if gen != i.gen.Load() {
		return nil
	}
	i.store.SetSnippets(list.Snippets)
	i.store.SetShowSnippetModal(true)
	return nil
}

// ApplySnippet fetches and applies the schema behind a saved snippet, then
// closes the snippet selection modal. Returns true if the schema was
// applied.
func (i *Importer) ApplySnippet(ctx context.Context, snippet leadform.Snippet) (bool, error) {
	applied, err := i.ImportRemote(ctx, snippet.Record)
	if err != nil {
		return false, err
	}
	if applied {
		i.store.SetShowSnippetModal(false)
	}
	return applied, nil
}

// SetAsDefault records the currently applied schema as the default
// workflow for future sessions and clears the dynamic-form preference,
// so the session falls back to the recorded default. The schema must
// carry the gateway record id in its metadata.
func (i *Importer) SetAsDefault() error {
	schema := i.store.Schema()
	if schema == nil {
		return leadform.NewValidationError("no_schema", "no schema is currently applied")
	}
	if schema.Metadata.ID == "" {
		return leadform.NewValidationError("no_record_id", "applied schema has no workflow record id")
	}
	i.store.SetAsDefaultWorkflow(schema.Metadata.ID, schema)
	i.store.SetUseDynamicForm(false)
	zap.S().Infow("set default workflow", "workflowId", schema.Metadata.ID)
	return nil
}

// LoadDefault applies the recorded default workflow, fetching a fresh copy
// from the gateway when possible and falling back to the persisted schema
// snapshot when the gateway is unreachable.
func (i *Importer) LoadDefault(ctx context.Context) (bool, error) {
	def := i.store.DefaultWorkflow()
	if def.ID == "" {
		return false, nil
	}
	if i.gw != nil {
		applied, err := i.ImportRemote(ctx, def.ID)
		if err == nil {
			return applied, nil
		}
		zap.S().Warnw("default workflow fetch failed, using persisted snapshot", "workflowId", def.ID, "error", err)
	}
	if def.Schema == nil {
		return false, leadform.NewImportError("default_unavailable", "default workflow has no persisted schema").
			WithDetail("workflowId", def.ID)
	}
	gen := i.nextGeneration()
	return i.applyIfCurrent(gen, def.Schema), nil
}
