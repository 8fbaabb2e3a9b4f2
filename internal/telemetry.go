package internal

import (
	"context"
	"sync"
)

// telemetry.go
// Lightweight telemetry hook layer for the form engine. The rest of the
// codebase calls the emitter functions below; hosts may register a real
// OpenTelemetry emitter (or a test stub) via RegisterTelemetryEmitter.
// By default the emitter is a no-op, avoiding any hard dependency on an
// OTEL SDK.

type telemetryEmitter func(ctx context.Context, name string, labels map[string]string, value any)

var (
	teleMu   sync.Mutex
	teleImpl telemetryEmitter = func(ctx context.Context, name string, labels map[string]string, value any) {
		// noop by default
	}
)

// RegisterTelemetryEmitter registers a custom emitter function. Callers
// (e.g. service wiring) can provide an OpenTelemetry-backed emitter or a
// test meter.
func RegisterTelemetryEmitter(fn telemetryEmitter) {
	teleMu.Lock()
	defer teleMu.Unlock()
	if fn == nil {
		teleImpl = func(ctx context.Context, name string, labels map[string]string, value any) {}
		return
	}
	teleImpl = fn
}

func emit(ctx context.Context, name string, labels map[string]string, value any) {
	teleMu.Lock()
	fn := teleImpl
	teleMu.Unlock()
	fn(ctx, name, labels, value)
}

// EmitGatewayLatency records gateway round-trip latency (milliseconds)
// per path.
func EmitGatewayLatency(ctx context.Context, path string, ms int64) {
	emit(ctx, "gateway_latency_ms", map[string]string{"path": path}, ms)
}

// EmitImportResult records the outcome of a schema import attempt.
// pathway is "file", "remote" or "snippet"; outcome is "applied",
// "superseded" or "failed".
func EmitImportResult(ctx context.Context, pathway, outcome string) {
	emit(ctx, "schema_import_total", map[string]string{"pathway": pathway, "outcome": outcome}, int64(1))
}

// EmitCaptureCount records completed lead captures per workflow.
func EmitCaptureCount(ctx context.Context, workflowID string, count int64) {
	emit(ctx, "lead_capture_total", map[string]string{"workflow_id": workflowID}, count)
}
