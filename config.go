package leadform

import (
	"time"
)

// Config consolidates settings for the form engine and its collaborators.
type Config struct {
	App     AppConfig     `json:"app"`
	Gateway GatewayConfig `json:"gateway"`
	Storage StorageConfig `json:"storage"`
	Import  ImportConfig  `json:"import"`
	Catalog CatalogConfig `json:"catalog"`
	Archive ArchiveConfig `json:"archive"`
	Stats   StatsConfig   `json:"stats"`
}

// AppConfig identifies the deployed micro-frontend instance. Name
// namespaces every durable storage key so multiple instances on the same
// host do not collide.
type AppConfig struct {
	Name string `json:"name"`
}

// GatewayConfig contains backend gateway connection settings.
type GatewayConfig struct {
	BaseURL        string        `json:"baseUrl"`
	Timeout        time.Duration `json:"timeout"`
	BearerToken    string        `json:"bearerToken"`
	UserHeader     string        `json:"userHeader"` // JSON payload for the X-User header
	BreakerEnabled bool          `json:"breakerEnabled"`
	// Circuit breaker tuning; zero values fall back to defaults.
	BreakerThreshold    int           `json:"breakerThreshold"`
	BreakerWindow       time.Duration `json:"breakerWindow"`
	BreakerOpenDuration time.Duration `json:"breakerOpenDuration"`
}

// StorageDriver selects the state persistence backend.
type StorageDriver string

const (
	StorageDriverFile   StorageDriver = "file"
	StorageDriverSQLite StorageDriver = "sqlite"
	StorageDriverNone   StorageDriver = "none"
)

// StorageConfig contains durable session-state settings.
type StorageConfig struct {
	Driver StorageDriver `json:"driver"`
	Dir    string        `json:"dir"`  // file driver: directory holding state files
	Path   string        `json:"path"` // sqlite driver: database file path
}

// ImportConfig contains schema import settings.
type ImportConfig struct {
	MaxSchemaBytes int64 `json:"maxSchemaBytes"`
	MaxLookupDepth int   `json:"maxLookupDepth"`
}

// CatalogConfig contains snippet catalog storage settings (server side).
type CatalogConfig struct {
	Mode      string        `json:"mode"` // "directory" or "postgres"
	Dir       string        `json:"dir"`
	Table     string        `json:"table"`
	Host      string        `json:"host"`
	Port      int           `json:"port"`
	Database  string        `json:"database"`
	Username  string        `json:"username"`
	Password  string        `json:"password"`
	SSLMode   string        `json:"sslMode"`
	UseIAM    bool          `json:"useIam"`
	MaxConns  int           `json:"maxConns"`
	Timeout   time.Duration `json:"timeout"`
	AWSRegion string        `json:"awsRegion"`
}

// ArchiveConfig contains capture archiver settings.
type ArchiveConfig struct {
	Enabled   bool   `json:"enabled"`
	Bucket    string `json:"bucket"`
	KeyPrefix string `json:"keyPrefix"`
	Region    string `json:"region"`
	Endpoint  string `json:"endpoint"` // optional custom endpoint (e.g. MinIO)
}

// StatsConfig contains capture stats aggregation settings.
type StatsConfig struct {
	Enabled       bool          `json:"enabled"`
	DBPath        string        `json:"dbPath"` // empty means in-memory
	QueryTimeout  time.Duration `json:"queryTimeout"`
	MaxSubmission int           `json:"maxSubmission"`
}

// DefaultConfig returns a Config with sensible defaults for local use.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name: "mfe",
		},
		Gateway: GatewayConfig{
			BaseURL:             "http://localhost",
			Timeout:             30 * time.Second,
			BreakerEnabled:      true,
			BreakerThreshold:    5,
			BreakerWindow:       time.Minute,
			BreakerOpenDuration: 30 * time.Second,
		},
		Storage: StorageConfig{
			Driver: StorageDriverFile,
			Dir:    ".",
		},
		Import: ImportConfig{
			MaxSchemaBytes: 1 << 20,
			MaxLookupDepth: 8,
		},
		Catalog: CatalogConfig{
			Mode:     "directory",
			Table:    "workflows",
			Host:     "localhost",
			Port:     5432,
			Database: "leadform",
			Username: "postgres",
			SSLMode:  "disable",
			MaxConns: 10,
			Timeout:  30 * time.Second,
		},
		Archive: ArchiveConfig{
			KeyPrefix: "captures/",
		},
		Stats: StatsConfig{
			QueryTimeout:  10 * time.Second,
			MaxSubmission: 10000,
		},
	}
}

// StorageName returns the namespaced key for the form renderer state.
func (c *Config) StorageName() string {
	name := c.App.Name
	if name == "" {
		name = "mfe"
	}
	return name + "-form-renderer-storage"
}

// PreferencesName returns the namespaced key for view preferences.
func (c *Config) PreferencesName() string {
	name := c.App.Name
	if name == "" {
		name = "mfe"
	}
	return name + "-preferences"
}
