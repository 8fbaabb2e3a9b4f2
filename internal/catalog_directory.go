package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tushar-indygen/leadform"
)

// directoryCatalog serves workflow schemas from a directory of JSON files.
// Each <id>.json file is a schema document; an optional <id>.meta.json
// sidecar carries the display name and creation time. This mode needs no
// database and is the default for local development.
type directoryCatalog struct {
	dir string

	mu      sync.RWMutex
	entries map[string]catalogEntry
}

type catalogEntry struct {
	id        string
	name      string
	path      string
	createdAt time.Time
}

type catalogSidecar struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewDirectoryCatalog creates a catalog backed by schemaDir, scanning it
// once at startup. SaveSchema writes new files into the same directory.
func NewDirectoryCatalog(schemaDir string) (CatalogStore, error) {
	if schemaDir == "" {
		schemaDir = "."
	}
	c := &directoryCatalog{
		dir:     schemaDir,
		entries: make(map[string]catalogEntry),
	}
	if err := c.scan(); err != nil {
		return nil, err
	}
	zap.S().Infow("directory catalog loaded", "dir", schemaDir, "schemas", len(c.entries))
	return c, nil
}

// scan walks the directory and indexes every schema file.
func (c *directoryCatalog) scan() error {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("failed to read catalog directory %s: %w", c.dir, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".meta.json") {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		entry := catalogEntry{
			id:   id,
			name: id,
			path: filepath.Join(c.dir, name),
		}
		if info, err := f.Info(); err == nil {
			entry.createdAt = info.ModTime()
		}
		if meta, err := c.readSidecar(id); err == nil {
			if meta.Name != "" {
				entry.name = meta.Name
			}
			if !meta.CreatedAt.IsZero() {
				entry.createdAt = meta.CreatedAt
			}
		}
		c.entries[id] = entry
	}
	return nil
}

func (c *directoryCatalog) readSidecar(id string) (catalogSidecar, error) {
	var meta catalogSidecar
	data, err := os.ReadFile(filepath.Join(c.dir, id+".meta.json"))
	if err != nil {
		return meta, err
	}
	err = json.Unmarshal(data, &meta)
	return meta, err
}

func (c *directoryCatalog) ListSnippets(_ context.Context) ([]leadform.Snippet, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snippets := make([]leadform.Snippet, 0, len(c.entries))
	for _, e := range c.entries {
		snippets = append(snippets, leadform.Snippet{
			Record:      e.id,
			SnippetMeta: leadform.SnippetMeta{Name: e.name},
			CreatedAt:   e.createdAt,
		})
	}
	sort.Slice(snippets, func(i, j int) bool {
		return snippets[i].CreatedAt.After(snippets[j].CreatedAt)
	})
	return snippets, nil
}

func (c *directoryCatalog) GetSchema(_ context.Context, id string) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return nil, leadform.NewNotFoundError("workflow_not_found", "workflow record not found").WithDetail("id", id)
	}
	data, err := os.ReadFile(entry.path)
	if err != nil {
		return nil, leadform.NewStorageError("catalog_read", "failed to read schema file").WithCause(err).WithDetail("id", id)
	}
	return data, nil
}

func (c *directoryCatalog) SaveSchema(_ context.Context, name string, data []byte) (string, error) {
	if _, err := leadform.ParseSchema(data); err != nil {
		return "", err
	}
	id := uuid.Must(uuid.NewV7()).String()
	path := filepath.Join(c.dir, id+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", leadform.NewStorageError("catalog_write", "failed to write schema file").WithCause(err)
	}
	meta := catalogSidecar{Name: name, CreatedAt: time.Now().UTC()}
	if raw, err := json.Marshal(meta); err == nil {
		if err := os.WriteFile(filepath.Join(c.dir, id+".meta.json"), raw, 0o644); err != nil {
			zap.S().Warnw("failed to write catalog sidecar", "id", id, "error", err)
		}
	}
	c.mu.Lock()
	c.entries[id] = catalogEntry{id: id, name: name, path: path, createdAt: meta.CreatedAt}
	c.mu.Unlock()
	return id, nil
}

func (c *directoryCatalog) Close() error { return nil }
