package internal

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tushar-indygen/leadform"
)

const catalogSchemaDoc = `{"metadata":{"formId":"intake"},"pages":[{"fields":[{"id":"email","type":"email"}]}]}`

// TestDirectoryCatalogScan tests indexing schema files with sidecar
// metadata at startup
func TestDirectoryCatalogScan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wf-a.json"), []byte(catalogSchemaDoc), 0o644))
	meta, _ := json.Marshal(catalogSidecar{Name: "Lead Intake", CreatedAt: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wf-a.meta.json"), meta, 0o644))

	catalog, err := NewDirectoryCatalog(dir)
	require.NoError(t, err)
	defer catalog.Close()

	snippets, err := catalog.ListSnippets(context.Background())
	require.NoError(t, err)
	require.Len(t, snippets, 1)
	assert.Equal(t, "wf-a", snippets[0].Record)
	assert.Equal(t, "Lead Intake", snippets[0].SnippetMeta.Name)
	assert.Equal(t, 2026, snippets[0].CreatedAt.Year())
}

// TestDirectoryCatalogListOrder tests newest-first ordering
func TestDirectoryCatalogListOrder(t *testing.T) {
	dir := t.TempDir()
	for id, ts := range map[string]time.Time{
		"older": time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		"newer": time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), []byte(catalogSchemaDoc), 0o644))
		meta, _ := json.Marshal(catalogSidecar{Name: id, CreatedAt: ts})
		require.NoError(t, os.WriteFile(filepath.Join(dir, id+".meta.json"), meta, 0o644))
	}

	catalog, err := NewDirectoryCatalog(dir)
	require.NoError(t, err)

	snippets, err := catalog.ListSnippets(context.Background())
	require.NoError(t, err)
	require.Len(t, snippets, 2)
	assert.Equal(t, "newer", snippets[0].Record)
	assert.Equal(t, "older", snippets[1].Record)
}

// TestDirectoryCatalogGetSchema tests fetching schema bytes by id
func TestDirectoryCatalogGetSchema(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wf-a.json"), []byte(catalogSchemaDoc), 0o644))

	catalog, err := NewDirectoryCatalog(dir)
	require.NoError(t, err)

	data, err := catalog.GetSchema(context.Background(), "wf-a")
	require.NoError(t, err)
	assert.JSONEq(t, catalogSchemaDoc, string(data))
}

// TestDirectoryCatalogGetSchemaNotFound tests the not-found error type
func TestDirectoryCatalogGetSchemaNotFound(t *testing.T) {
	catalog, err := NewDirectoryCatalog(t.TempDir())
	require.NoError(t, err)

	_, err = catalog.GetSchema(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, leadform.IsErrorType(err, leadform.ErrorTypeNotFound))
}

// TestDirectoryCatalogSaveSchema tests save, re-list and re-read
func TestDirectoryCatalogSaveSchema(t *testing.T) {
	catalog, err := NewDirectoryCatalog(t.TempDir())
	require.NoError(t, err)

	id, err := catalog.SaveSchema(context.Background(), "New Intake", []byte(catalogSchemaDoc))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	data, err := catalog.GetSchema(context.Background(), id)
	require.NoError(t, err)
	assert.JSONEq(t, catalogSchemaDoc, string(data))

	snippets, err := catalog.ListSnippets(context.Background())
	require.NoError(t, err)
	require.Len(t, snippets, 1)
	assert.Equal(t, "New Intake", snippets[0].SnippetMeta.Name)
}

// TestDirectoryCatalogSaveRejectsInvalid tests schema validation on save
func TestDirectoryCatalogSaveRejectsInvalid(t *testing.T) {
	catalog, err := NewDirectoryCatalog(t.TempDir())
	require.NoError(t, err)

	_, err = catalog.SaveSchema(context.Background(), "bad", []byte(`{"pages":[]}`))
	require.Error(t, err)
	assert.True(t, leadform.IsErrorType(err, leadform.ErrorTypeParse))
}

// TestDirectoryCatalogSkipsSidecars tests that meta files are not indexed
// as schemas
func TestDirectoryCatalogSkipsSidecars(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wf-a.json"), []byte(catalogSchemaDoc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wf-a.meta.json"), []byte(`{"name":"x"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore"), 0o644))

	catalog, err := NewDirectoryCatalog(dir)
	require.NoError(t, err)

	snippets, err := catalog.ListSnippets(context.Background())
	require.NoError(t, err)
	assert.Len(t, snippets, 1)
}
