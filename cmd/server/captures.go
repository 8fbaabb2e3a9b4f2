package main

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tushar-indygen/leadform"
)

// captureStore holds captured submissions in memory, grouped by the
// workflow artifact they were captured against. It backs the CRUD event
// endpoint; durable archival goes through the S3 archiver instead.
type captureStore struct {
	mu    sync.RWMutex
	items map[string][]map[string]any
}

func newCaptureStore() *captureStore {
	return &captureStore{items: make(map[string][]map[string]any)}
}

// Add records a capture and returns the stored record, id and timestamp
// included.
func (c *captureStore) Add(artifactID string, values leadform.FormValues) map[string]any {
	record := make(map[string]any, len(values)+2)
	for k, v := range values {
		record[k] = v
	}
	record["id"] = uuid.Must(uuid.NewV7()).String()
	record["created_at"] = time.Now().UTC().Format(time.RFC3339)

	c.mu.Lock()
	c.items[artifactID] = append(c.items[artifactID], record)
	c.mu.Unlock()
	return record
}

// List returns the captures for an artifact, oldest first. The result is
// never nil so the endpoint always serializes a JSON array.
func (c *captureStore) List(artifactID string) []map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	records := c.items[artifactID]
	out := make([]map[string]any, len(records))
	copy(out, records)
	return out
}
