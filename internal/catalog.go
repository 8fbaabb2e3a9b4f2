package internal

import (
	"context"

	"github.com/tushar-indygen/leadform"
)

// CatalogStore is the server-side store behind the workflow metadata
// endpoints. It holds saved workflow schemas keyed by record id and serves
// the snippet listing the renderer shows in its import modal.
type CatalogStore interface {
	// ListSnippets returns the catalog entries newest first.
	ListSnippets(ctx context.Context) ([]leadform.Snippet, error)
	// GetSchema returns the raw schema document for a record id. A
	// missing record yields a not_found error.
	GetSchema(ctx context.Context, id string) ([]byte, error)
	// SaveSchema stores a schema document under a generated record id
	// and returns that id.
	SaveSchema(ctx context.Context, name string, data []byte) (string, error)
	// Close releases any underlying resources.
	Close() error
}

// NewCatalogStore builds the catalog store selected by config.
func NewCatalogStore(ctx context.Context, cfg leadform.CatalogConfig) (CatalogStore, error) {
	switch cfg.Mode {
	case "", "directory":
		return NewDirectoryCatalog(cfg.Dir)
	case "postgres":
		return NewPostgresCatalog(ctx, cfg)
	default:
		return nil, leadform.NewInternalError("bad_catalog_mode", "unknown catalog mode").WithDetail("mode", cfg.Mode)
	}
}
