package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/tushar-indygen/leadform"
	"github.com/tushar-indygen/leadform/internal"
)

// Server is the workflow catalog gateway: it serves saved workflow schemas
// to the form renderer and accepts captured submissions over the CRUD
// event endpoint.
type Server struct {
	catalog  internal.CatalogStore
	captures *captureStore
	stats    *internal.StatsAggregator
	archiver *internal.CaptureArchiver
	token    string
	mux      *http.ServeMux
}

// NewServer creates a new Server instance.
func NewServer(catalog internal.CatalogStore, token string) *Server {
	return &Server{
		catalog:  catalog,
		captures: newCaptureStore(),
		token:    token,
		mux:      http.NewServeMux(),
	}
}

// RegisterRoutes registers all API routes.
func (s *Server) RegisterRoutes() {
	s.mux.HandleFunc("/metadata/workflows", s.handleWorkflows)
	s.mux.HandleFunc("/metadata/workflows/", s.handleWorkflowByID)
	s.mux.HandleFunc("/events/crud", s.handleCrud)
	s.mux.HandleFunc("/stats/captures", s.handleStats)
	s.mux.HandleFunc("/health", s.handleHealth)
}

// Start starts the HTTP server on the given port.
func (s *Server) Start(port string) error {
	zap.S().Infow("starting catalog gateway", "port", port)
	return http.ListenAndServe(":"+port, s.mux)
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	sugar := logger.Sugar()

	ctx := context.Background()

	cfg := leadform.DefaultConfig()
	cfg.Catalog.Mode = getEnv("CATALOG_MODE", cfg.Catalog.Mode)
	cfg.Catalog.Dir = getEnv("SCHEMA_DIR", cfg.Catalog.Dir)
	cfg.Catalog.Table = getEnv("CATALOG_TABLE", cfg.Catalog.Table)
	cfg.Catalog.Host = getEnv("DB_HOST", cfg.Catalog.Host)
	cfg.Catalog.Port = getEnvInt("DB_PORT", cfg.Catalog.Port)
	cfg.Catalog.Database = getEnv("DB_NAME", cfg.Catalog.Database)
	cfg.Catalog.Username = getEnv("DB_USER", cfg.Catalog.Username)
	cfg.Catalog.Password = getEnv("DB_PASSWORD", cfg.Catalog.Password)
	cfg.Catalog.SSLMode = getEnv("DB_SSL_MODE", cfg.Catalog.SSLMode)
	cfg.Catalog.UseIAM = getEnvBool("DB_USE_IAM", cfg.Catalog.UseIAM)
	cfg.Catalog.AWSRegion = getEnv("AWS_REGION", cfg.Catalog.AWSRegion)
	cfg.Catalog.MaxConns = getEnvInt("DB_MAX_CONNECTIONS", cfg.Catalog.MaxConns)
	cfg.Catalog.Timeout = time.Duration(getEnvInt("DB_TIMEOUT_SECONDS", 30)) * time.Second

	catalog, err := internal.NewCatalogStore(ctx, cfg.Catalog)
	if err != nil {
		sugar.Fatalf("failed to create catalog store: %v", err)
	}
	defer catalog.Close()

	server := NewServer(catalog, getEnv("AUTH_TOKEN", ""))

	if getEnvBool("STATS_ENABLED", false) {
		cfg.Stats.Enabled = true
		cfg.Stats.DBPath = getEnv("STATS_DB_PATH", "")
		stats, err := internal.NewStatsAggregator(cfg.Stats)
		if err != nil {
			sugar.Fatalf("failed to create stats aggregator: %v", err)
		}
		defer stats.Close()
		server.stats = stats
	}

	if getEnvBool("ARCHIVE_ENABLED", false) {
		cfg.Archive.Enabled = true
		cfg.Archive.Bucket = getEnv("ARCHIVE_BUCKET", "")
		cfg.Archive.Region = getEnv("ARCHIVE_REGION", "")
		cfg.Archive.Endpoint = getEnv("ARCHIVE_ENDPOINT", "")
		cfg.Archive.KeyPrefix = getEnv("ARCHIVE_PREFIX", cfg.Archive.KeyPrefix)
		archiver, err := internal.NewCaptureArchiver(ctx, cfg.Archive)
		if err != nil {
			sugar.Fatalf("failed to create capture archiver: %v", err)
		}
		server.archiver = archiver
	}

	server.RegisterRoutes()

	port := getEnv("PORT", "8080")
	if err := server.Start(port); err != nil {
		sugar.Fatalf("server error: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
