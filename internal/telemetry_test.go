package internal

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEmission struct {
	name   string
	labels map[string]string
	value  any
}

type telemetryRecorder struct {
	mu        sync.Mutex
	emissions []recordedEmission
}

func (r *telemetryRecorder) emit(_ context.Context, name string, labels map[string]string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emissions = append(r.emissions, recordedEmission{name: name, labels: labels, value: value})
}

func (r *telemetryRecorder) all() []recordedEmission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedEmission{}, r.emissions...)
}

// TestTelemetryEmitters tests that the named emitters reach a registered
// emitter with the expected labels
func TestTelemetryEmitters(t *testing.T) {
	rec := &telemetryRecorder{}
	RegisterTelemetryEmitter(rec.emit)
	defer RegisterTelemetryEmitter(nil)

	ctx := context.Background()
	EmitGatewayLatency(ctx, "/metadata/workflows", 42)
	EmitImportResult(ctx, "file", "applied")
	EmitCaptureCount(ctx, "wf-1", 1)

	emissions := rec.all()
	require.Len(t, emissions, 3)

	assert.Equal(t, "gateway_latency_ms", emissions[0].name)
	assert.Equal(t, "/metadata/workflows", emissions[0].labels["path"])
	assert.Equal(t, int64(42), emissions[0].value)

	assert.Equal(t, "schema_import_total", emissions[1].name)
	assert.Equal(t, "file", emissions[1].labels["pathway"])
	assert.Equal(t, "applied", emissions[1].labels["outcome"])

	assert.Equal(t, "lead_capture_total", emissions[2].name)
	assert.Equal(t, "wf-1", emissions[2].labels["workflow_id"])
}

// TestTelemetryNilEmitterIsNoop tests that registering nil restores the
// no-op emitter
func TestTelemetryNilEmitterIsNoop(t *testing.T) {
	rec := &telemetryRecorder{}
	RegisterTelemetryEmitter(rec.emit)
	RegisterTelemetryEmitter(nil)

	EmitGatewayLatency(context.Background(), "/events/crud", 7)
	assert.Empty(t, rec.all())
}
