package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tushar-indygen/leadform"
)

type mockCatalog struct {
	snippets []leadform.Snippet
	schemas  map[string][]byte
	saveErr  error
}

func (m *mockCatalog) ListSnippets(ctx context.Context) ([]leadform.Snippet, error) {
	return m.snippets, nil
}

func (m *mockCatalog) GetSchema(ctx context.Context, id string) ([]byte, error) {
	data, ok := m.schemas[id]
	if !ok {
		return nil, leadform.NewNotFoundError("workflow_not_found", "workflow record not found")
	}
	return data, nil
}

func (m *mockCatalog) SaveSchema(ctx context.Context, name string, data []byte) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	if m.schemas == nil {
		m.schemas = make(map[string][]byte)
	}
	id := fmt.Sprintf("saved-%d", len(m.schemas)+1)
	m.schemas[id] = data
	return id, nil
}

func (m *mockCatalog) Close() error { return nil }

const testSchemaDoc = `{"pages":[{"id":"p1","title":"Lead","fields":[{"id":"full_name","type":"text","label":"Full Name"}]}]}`

func newTestServer(catalog *mockCatalog, token string) *Server {
	server := NewServer(catalog, token)
	server.RegisterRoutes()
	return server
}

func TestHandleWorkflowsList(t *testing.T) {
	catalog := &mockCatalog{
		snippets: []leadform.Snippet{
			{Record: "wf-1", SnippetMeta: leadform.SnippetMeta{Name: "Lead Form"}},
		},
	}
	server := newTestServer(catalog, "")

	req := httptest.NewRequest(http.MethodPost, "/metadata/workflows", nil)
	req.Header.Set("X-Method", "GET")
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var snippets []leadform.Snippet
	if err := json.Unmarshal(rec.Body.Bytes(), &snippets); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(snippets) != 1 || snippets[0].Record != "wf-1" {
		t.Fatalf("unexpected snippets: %+v", snippets)
	}
}

func TestHandleWorkflowsListEmpty(t *testing.T) {
	server := newTestServer(&mockCatalog{}, "")

	req := httptest.NewRequest(http.MethodPost, "/metadata/workflows", nil)
	req.Header.Set("X-Method", "GET")
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if body := bytes.TrimSpace(rec.Body.Bytes()); string(body) != "[]" {
		t.Fatalf("expected empty array body, got %s", body)
	}
}

func TestHandleWorkflowsSave(t *testing.T) {
	catalog := &mockCatalog{}
	server := newTestServer(catalog, "")

	payload := fmt.Sprintf(`{"name":"Lead Form","data":%s}`, testSchemaDoc)
	req := httptest.NewRequest(http.MethodPost, "/metadata/workflows", bytes.NewReader([]byte(payload)))
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["id"] == "" {
		t.Fatal("expected a record id in the response")
	}
}

func TestHandleWorkflowByID(t *testing.T) {
	catalog := &mockCatalog{schemas: map[string][]byte{"wf-1": []byte(testSchemaDoc)}}
	server := newTestServer(catalog, "")

	req := httptest.NewRequest(http.MethodPost, "/metadata/workflows/wf-1", nil)
	req.Header.Set("X-Method", "GET")
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var resp struct {
		Data json.RawMessage `json:"data"`
		ID   string          `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "wf-1" || len(resp.Data) == 0 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHandleWorkflowByIDNotFound(t *testing.T) {
	server := newTestServer(&mockCatalog{}, "")

	req := httptest.NewRequest(http.MethodPost, "/metadata/workflows/missing", nil)
	req.Header.Set("X-Method", "GET")
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestHandleCrudCreateAndList(t *testing.T) {
	server := newTestServer(&mockCatalog{}, "")

	create := []byte(`{"action":"CREATE","artifact_id":"wf-1","data":{"full_name":"Asha Rao","status":"New"}}`)
	req := httptest.NewRequest(http.MethodPost, "/events/crud", bytes.NewReader(create))
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	list := []byte(`{"action":"LIST","artifact_id":"wf-1"}`)
	req = httptest.NewRequest(http.MethodPost, "/events/crud", bytes.NewReader(list))
	rec = httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var items []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("failed to decode items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0]["full_name"] != "Asha Rao" {
		t.Fatalf("unexpected item: %+v", items[0])
	}
	if items[0]["id"] == "" || items[0]["created_at"] == "" {
		t.Fatalf("expected generated id and created_at: %+v", items[0])
	}
}

func TestHandleCrudUnknownAction(t *testing.T) {
	server := newTestServer(&mockCatalog{}, "")

	req := httptest.NewRequest(http.MethodPost, "/events/crud", bytes.NewReader([]byte(`{"action":"PURGE","artifact_id":"wf-1"}`)))
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestAuthTokenEnforced(t *testing.T) {
	server := newTestServer(&mockCatalog{}, "secret")

	req := httptest.NewRequest(http.MethodPost, "/metadata/workflows", nil)
	req.Header.Set("X-Method", "GET")
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/metadata/workflows", nil)
	req.Header.Set("X-Method", "GET")
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
