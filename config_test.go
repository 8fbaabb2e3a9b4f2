package leadform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultConfig tests the default values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "mfe", cfg.App.Name)
	assert.Equal(t, 30*time.Second, cfg.Gateway.Timeout)
	assert.True(t, cfg.Gateway.BreakerEnabled)
	assert.Equal(t, 5, cfg.Gateway.BreakerThreshold)
	assert.Equal(t, StorageDriverFile, cfg.Storage.Driver)
	assert.Equal(t, int64(1<<20), cfg.Import.MaxSchemaBytes)
	assert.Equal(t, "directory", cfg.Catalog.Mode)
	assert.Equal(t, "workflows", cfg.Catalog.Table)
	assert.False(t, cfg.Archive.Enabled)
	assert.Equal(t, "captures/", cfg.Archive.KeyPrefix)
	assert.False(t, cfg.Stats.Enabled)
	assert.Equal(t, 10000, cfg.Stats.MaxSubmission)
}

// TestStorageName tests storage key namespacing by app name
func TestStorageName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.App.Name = "crm"
	assert.Equal(t, "crm-form-renderer-storage", cfg.StorageName())

	cfg.App.Name = ""
	assert.Equal(t, "mfe-form-renderer-storage", cfg.StorageName())
}

// TestPreferencesName tests preferences key namespacing by app name
func TestPreferencesName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.App.Name = "crm"
	assert.Equal(t, "crm-preferences", cfg.PreferencesName())

	cfg.App.Name = ""
	assert.Equal(t, "mfe-preferences", cfg.PreferencesName())
}
