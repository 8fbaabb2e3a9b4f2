package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tushar-indygen/leadform"
)

// GatewayClient talks to the backend gateway that fronts the workflow
// metadata service and the CRUD event bus. The gateway only accepts POST
// requests; the intended verb travels in the X-Method header and the acting
// user travels as a JSON blob in X-User.
type GatewayClient struct {
	cfg     leadform.GatewayConfig
	httpc   *http.Client
	breaker *CircuitBreaker
}

// NewGatewayClient creates a gateway client from config. A circuit breaker
// is installed when cfg.BreakerEnabled is set.
func NewGatewayClient(cfg leadform.GatewayConfig) *GatewayClient {
	var breaker *CircuitBreaker
	if cfg.BreakerEnabled {
		threshold := cfg.BreakerThreshold
		if threshold <= 0 {
			threshold = 5
		}
		window := cfg.BreakerWindow
		if window <= 0 {
			window = defaultBreakerWindow
		}
		openFor := cfg.BreakerOpenDuration
		if openFor <= 0 {
			openFor = defaultBreakerOpen
		}
		breaker = NewCircuitBreaker(threshold, window, openFor)
	}
	return &GatewayClient{
		cfg:     cfg,
		httpc:   &http.Client{Timeout: cfg.Timeout},
		breaker: breaker,
	}
}

const (
	defaultBreakerWindow = time.Minute
	defaultBreakerOpen   = 30 * time.Second
)

// WorkflowList is the result of fetching the workflow collection. The
// gateway either returns a list of saved snippets or, on older deployments,
// a single raw schema document; exactly one of the two fields is populated.
type WorkflowList struct {
	Snippets []leadform.Snippet
	Schema   json.RawMessage
}

// workflowEnvelope covers the response shapes the gateway produces for a
// single workflow record.
type workflowEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Record json.RawMessage `json:"record"`
	ID     string          `json:"id"`
}

// ListWorkflows fetches the saved workflow collection from the gateway.
func (c *GatewayClient) ListWorkflows(ctx context.Context) (*WorkflowList, error) {
	body, err := c.do(ctx, "/metadata/workflows", "GET", nil)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return &WorkflowList{}, nil
	}
	if trimmed[0] == '[' {
		var snippets []leadform.Snippet
		if err := json.Unmarshal(trimmed, &snippets); err != nil {
			return nil, leadform.NewParseError("workflow_list_decode", "failed to decode workflow list").WithCause(err)
		}
		return &WorkflowList{Snippets: snippets}, nil
	}
	// Single-object response: unwrap a record envelope if present,
	// otherwise treat the whole body as a schema document.
	var env workflowEnvelope
	if err := json.Unmarshal(trimmed, &env); err == nil && len(env.Record) > 0 {
		return &WorkflowList{Schema: env.Record}, nil
	}
	return &WorkflowList{Schema: trimmed}, nil
}

// GetWorkflow fetches a single workflow record by id and returns the raw
// schema document together with the record id reported by the gateway.
func (c *GatewayClient) GetWorkflow(ctx context.Context, id string) (json.RawMessage, string, error) {
	if id == "" {
		return nil, "", leadform.NewValidationError("missing_workflow_id", "workflow id is required")
	}
	body, err := c.do(ctx, "/metadata/workflows/"+id, "GET", nil)
	if err != nil {
		return nil, "", err
	}
	var env workflowEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, "", leadform.NewParseError("workflow_decode", "failed to decode workflow record").WithCause(err).WithDetail("workflowId", id)
	}
	recordID := env.ID
	if recordID == "" {
		recordID = id
	}
	switch {
	case len(env.Data) > 0:
		return env.Data, recordID, nil
	case len(env.Record) > 0:
		return env.Record, recordID, nil
	default:
		return body, recordID, nil
	}
}

// crudRequest is the payload shape accepted by the CRUD event endpoint.
type crudRequest struct {
	Action     string              `json:"action"`
	ArtifactID string              `json:"artifact_id"`
	Data       leadform.FormValues `json:"data,omitempty"`
}

// ListItems lists captured records for an artifact through the CRUD event
// endpoint.
func (c *GatewayClient) ListItems(ctx context.Context, artifactID string) ([]map[string]any, error) {
	if artifactID == "" {
		return nil, leadform.NewValidationError("missing_artifact_id", "artifact id is required")
	}
	body, err := c.do(ctx, "/events/crud", "", crudRequest{Action: "LIST", ArtifactID: artifactID})
	if err != nil {
		return nil, err
	}
	var items []map[string]any
	if err := json.Unmarshal(body, &items); err != nil {
		// Some gateway versions wrap the list in a data envelope.
		var wrapped struct {
			Data []map[string]any `json:"data"`
		}
		if werr := json.Unmarshal(body, &wrapped); werr != nil {
			return nil, leadform.NewParseError("items_decode", "failed to decode item list").WithCause(err).WithDetail("artifactId", artifactID)
		}
		items = wrapped.Data
	}
	return items, nil
}

// CreateItem submits one captured record for an artifact through the CRUD
// event endpoint and returns the stored record.
func (c *GatewayClient) CreateItem(ctx context.Context, artifactID string, values leadform.FormValues) (map[string]any, error) {
	if artifactID == "" {
		return nil, leadform.NewValidationError("missing_artifact_id", "artifact id is required")
	}
	body, err := c.do(ctx, "/events/crud", "", crudRequest{Action: "CREATE", ArtifactID: artifactID, Data: values})
	if err != nil {
		return nil, err
	}
	var record map[string]any
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, leadform.NewParseError("item_decode", "failed to decode created record").WithCause(err).WithDetail("artifactId", artifactID)
	}
	return record, nil
}

// do issues a gateway request. Every call goes out as a POST; when xMethod
// is non-empty it is sent in the X-Method header so the gateway can route
// read intents.
func (c *GatewayClient) do(ctx context.Context, path, xMethod string, payload any) ([]byte, error) {
	if c.breaker.IsOpen() {
		return nil, leadform.NewNetworkError("circuit_open", "gateway circuit breaker is open").WithDetail("path", path)
	}

	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, leadform.NewInternalError("request_encode", "failed to encode gateway request").WithCause(err)
		}
		reqBody = bytes.NewReader(raw)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reqBody)
	if err != nil {
		return nil, leadform.NewInternalError("request_build", "failed to build gateway request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if xMethod != "" {
		req.Header.Set("X-Method", xMethod)
	}
	if c.cfg.UserHeader != "" {
		req.Header.Set("X-User", c.cfg.UserHeader)
	}
	if c.cfg.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.BearerToken)
	}

	started := time.Now()
	resp, err := c.httpc.Do(req)
	EmitGatewayLatency(ctx, path, time.Since(started).Milliseconds())
	if err != nil {
		c.breaker.RecordFailure()
		return nil, leadform.NewNetworkError("gateway_unreachable", "gateway request failed").WithCause(err).WithDetail("path", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.breaker.RecordFailure()
		return nil, leadform.NewNetworkError("gateway_read", "failed to read gateway response").WithCause(err).WithDetail("path", path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.breaker.RecordFailure()
		zap.S().Warnw("gateway request rejected", "path", path, "status", resp.StatusCode)
		return nil, leadform.NewNetworkError("gateway_status", fmt.Sprintf("gateway returned status %d", resp.StatusCode)).
			WithDetail("path", path).WithDetail("status", resp.StatusCode)
	}
	c.breaker.RecordSuccess()
	return body, nil
}
