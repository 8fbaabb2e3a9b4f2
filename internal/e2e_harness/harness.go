package e2e_harness

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestHarness runs throwaway Postgres and S3 containers for end-to-end
// tests of the catalog and the capture archiver.
type TestHarness struct {
	PGContainer testcontainers.Container
	PGDSN       string
	PGHost      string
	PGPort      string
	PGDB        *sql.DB
	S3Container testcontainers.Container
	S3Endpoint  string
}

// startContainer starts one container and returns it with its mapped host
// and port for the given internal port.
func startContainer(ctx context.Context, req testcontainers.ContainerRequest, port string) (testcontainers.Container, string, string, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", "", err
	}
	host, err := container.Host(ctx)
	if err != nil {
		return container, "", "", err
	}
	mapped, err := container.MappedPort(ctx, nat.Port(port))
	if err != nil {
		return container, "", "", err
	}
	return container, host, mapped.Port(), nil
}

// StartPostgres starts a postgres container, waits until it accepts
// connections and returns the DSN. Caller must call StopPostgres.
func (h *TestHarness) StartPostgres(ctx context.Context) (string, error) {
	container, host, port, err := startContainer(ctx, testcontainers.ContainerRequest{
		Image:        "postgres:16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_PASSWORD": "password",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_DB":       "leadform",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(30 * time.Second),
	}, "5432")
	if err != nil {
		return "", err
	}
	h.PGContainer = container
	h.PGHost = host
	h.PGPort = port
	h.PGDSN = fmt.Sprintf("postgres://postgres:password@%s:%s/leadform?sslmode=disable", host, port)

	db, err := sql.Open("postgres", h.PGDSN)
	if err != nil {
		return "", err
	}

	var pingErr error
	deadline := time.Now().Add(20 * time.Second)
	for time.Now().Before(deadline) {
		if pingErr = db.PingContext(ctx); pingErr == nil {
			h.PGDB = db
			return h.PGDSN, nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	db.Close()
	return "", fmt.Errorf("postgres did not become ready: %w", pingErr)
}

// StopPostgres terminates the Postgres container and closes the DB handle.
func (h *TestHarness) StopPostgres(ctx context.Context) error {
	if h.PGDB != nil {
		h.PGDB.Close()
		h.PGDB = nil
	}
	return terminate(ctx, &h.PGContainer)
}

// StartS3 starts a MinIO-compatible container and returns its endpoint.
func (h *TestHarness) StartS3(ctx context.Context) (string, error) {
	container, host, port, err := startContainer(ctx, testcontainers.ContainerRequest{
		Image:        "rustfs/rustfs:latest",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"RUSTFS_ACCESS_KEY": "minio",
			"RUSTFS_SECRET_KEY": "minio",
		},
		WaitingFor: wait.ForListeningPort("9000/tcp").WithStartupTimeout(30 * time.Second),
	}, "9000")
	if err != nil {
		return "", err
	}
	h.S3Container = container
	h.S3Endpoint = fmt.Sprintf("http://%s:%s", host, port)
	return h.S3Endpoint, nil
}

// StopS3 terminates the S3 container.
func (h *TestHarness) StopS3(ctx context.Context) error {
	return terminate(ctx, &h.S3Container)
}

func terminate(ctx context.Context, container *testcontainers.Container) error {
	if *container == nil {
		return nil
	}
	if err := (*container).Terminate(ctx); err != nil {
		return err
	}
	*container = nil
	return nil
}

// EnsureCatalogTable creates the workflow catalog table used by the
// postgres catalog store.
func (h *TestHarness) EnsureCatalogTable(ctx context.Context, table string) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		data       JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, table)
	if _, err := h.PGDB.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create catalog table: %w", err)
	}
	return nil
}
