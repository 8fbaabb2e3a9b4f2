package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/tushar-indygen/leadform"
)

// The renderer's gateway client sends every request as a POST and carries
// the intended verb in the X-Method header, so the handlers below dispatch
// on that header rather than on r.Method.

// effectiveMethod resolves the intended verb of a gateway request.
func effectiveMethod(r *http.Request) string {
	if m := r.Header.Get("X-Method"); m != "" {
		return strings.ToUpper(m)
	}
	return r.Method
}

// authorized enforces the bearer token when one is configured.
func (s *Server) authorized(r *http.Request) bool {
	if s.token == "" {
		return true
	}
	return r.Header.Get("Authorization") == "Bearer "+s.token
}

// saveWorkflowRequest is the payload for saving a schema into the catalog.
type saveWorkflowRequest struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

// handleWorkflows serves the workflow collection: listing saved snippets
// and saving new schema documents.
func (s *Server) handleWorkflows(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	switch effectiveMethod(r) {
	case http.MethodGet:
		snippets, err := s.catalog.ListSnippets(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("list workflows failed: %v", err))
			return
		}
		if snippets == nil {
			snippets = []leadform.Snippet{}
		}
		writeJSON(w, http.StatusOK, snippets)
	case http.MethodPost:
		var req saveWorkflowRequest
		if err := readJSONBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if len(req.Data) == 0 {
			writeError(w, http.StatusBadRequest, "data is required")
			return
		}
		id, err := s.catalog.SaveSchema(r.Context(), req.Name, req.Data)
		if err != nil {
			status := http.StatusInternalServerError
			if leadform.IsErrorType(err, leadform.ErrorTypeParse) || leadform.IsErrorType(err, leadform.ErrorTypeValidation) {
				status = http.StatusBadRequest
			}
			writeError(w, status, fmt.Sprintf("save workflow failed: %v", err))
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleWorkflowByID serves a single workflow record as {data, id}.
func (s *Server) handleWorkflowByID(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	if effectiveMethod(r) != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/metadata/workflows/"), "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "workflow id is required")
		return
	}
	data, err := s.catalog.GetSchema(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if leadform.IsErrorType(err, leadform.ErrorTypeNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, fmt.Sprintf("get workflow failed: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data": json.RawMessage(data),
		"id":   id,
	})
}

// crudRequest is the CRUD event payload.
type crudRequest struct {
	Action     string              `json:"action"`
	ArtifactID string              `json:"artifact_id"`
	Data       leadform.FormValues `json:"data"`
}

// handleCrud serves the CRUD event endpoint: LIST returns captured records
// for an artifact, CREATE ingests a completed capture.
func (s *Server) handleCrud(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req crudRequest
	if err := readJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.ArtifactID == "" {
		writeError(w, http.StatusBadRequest, "artifact_id is required")
		return
	}

	switch strings.ToUpper(req.Action) {
	case "LIST":
		writeJSON(w, http.StatusOK, s.captures.List(req.ArtifactID))
	case "CREATE":
		if len(req.Data) == 0 {
			writeError(w, http.StatusBadRequest, "data is required")
			return
		}
		record := s.captures.Add(req.ArtifactID, req.Data)
		if s.stats != nil {
			if err := s.stats.RecordCapture(r.Context(), req.ArtifactID, req.Data); err != nil {
				zap.S().Warnw("failed to record capture stats", "artifactId", req.ArtifactID, "error", err)
			}
		}
		if s.archiver != nil {
			if err := s.archiver.Archive(r.Context(), req.ArtifactID, req.Data); err != nil {
				zap.S().Warnw("failed to archive capture", "artifactId", req.ArtifactID, "error", err)
			}
		}
		writeJSON(w, http.StatusCreated, record)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported action: %s", req.Action))
	}
}

// handleStats serves the aggregated capture summary.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	if s.stats == nil {
		writeError(w, http.StatusNotFound, "stats are not enabled")
		return
	}
	summary, err := s.stats.Summary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("stats query failed: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
