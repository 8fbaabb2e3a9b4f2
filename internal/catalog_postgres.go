package internal

import (
	"context"
	"fmt"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsCreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dsql/auth"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tushar-indygen/leadform"
)

// pgxQuerier is the subset of pgxpool.Pool the catalog uses. Tests swap in
// a pgxmock pool through the same interface.
type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// postgresCatalog serves workflow schemas from a Postgres table with
// columns (id uuid primary key, name text, data jsonb, created_at
// timestamptz).
type postgresCatalog struct {
	pool  pgxQuerier
	table string
	close func()
}

// NewPostgresCatalog connects to Postgres per config and returns a catalog
// bound to the configured table. When cfg.UseIAM is set the password is
// replaced by a generated DSQL auth token.
func NewPostgresCatalog(ctx context.Context, cfg leadform.CatalogConfig) (CatalogStore, error) {
	password := cfg.Password
	if cfg.UseIAM {
		token, err := generateIAMToken(ctx, cfg)
		if err != nil {
			zap.S().Warnw("failed to generate IAM auth token, falling back to configured password", "error", err)
		} else {
			password = token
		}
	}

	connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Username, password, cfg.Database, cfg.SSLMode)
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog connection config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	poolConfig.ConnConfig.ConnectTimeout = cfg.Timeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog connection pool: %w", err)
	}

	// Test the connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping catalog database: %w", err)
	}

	return &postgresCatalog{pool: pool, table: cfg.Table, close: pool.Close}, nil
}

// newPostgresCatalogWithPool wires an existing querier, used by tests.
func newPostgresCatalogWithPool(pool pgxQuerier, table string) *postgresCatalog {
	return &postgresCatalog{pool: pool, table: table, close: func() {}}
}

// generateIAMToken builds a DSQL DB connect auth token from the ambient
// AWS configuration.
func generateIAMToken(ctx context.Context, cfg leadform.CatalogConfig) (string, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("load aws config: %w", err)
	}
	if cfg.AWSRegion != "" {
		awsCfg.Region = cfg.AWSRegion
	}
	if envKey := os.Getenv("AWS_ACCESS_KEY_ID"); envKey != "" {
		awsCfg.Credentials = awsCreds.NewStaticCredentialsProvider(envKey, os.Getenv("AWS_SECRET_ACCESS_KEY"), "")
	}
	endpoint := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	token, err := auth.GenerateDbConnectAuthToken(ctx, endpoint, awsCfg.Region, awsCfg.Credentials)
	if err != nil {
		return "", fmt.Errorf("generate db connect token: %w", err)
	}
	return token, nil
}

func (c *postgresCatalog) ListSnippets(ctx context.Context) ([]leadform.Snippet, error) {
	query := fmt.Sprintf("SELECT id, name, created_at FROM %s ORDER BY created_at DESC", sanitizeIdentifier(c.table))
	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, leadform.NewStorageError("catalog_query", "failed to query workflow catalog").WithCause(err)
	}
	defer rows.Close()

	var snippets []leadform.Snippet
	for rows.Next() {
		var (
			id        uuid.UUID
			name      string
			createdAt time.Time
		)
		if err := rows.Scan(&id, &name, &createdAt); err != nil {
			return nil, leadform.NewStorageError("catalog_scan", "failed to scan catalog row").WithCause(err)
		}
		snippets = append(snippets, leadform.Snippet{
			Record:      id.String(),
			SnippetMeta: leadform.SnippetMeta{Name: name},
			CreatedAt:   createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, leadform.NewStorageError("catalog_rows", "failed to iterate catalog rows").WithCause(err)
	}
	return snippets, nil
}

func (c *postgresCatalog) GetSchema(ctx context.Context, id string) ([]byte, error) {
	recordID, ok := toUUID(id)
	if !ok {
		return nil, leadform.NewNotFoundError("workflow_not_found", "workflow record not found").WithDetail("id", id)
	}
	query := fmt.Sprintf("SELECT data FROM %s WHERE id = $1", sanitizeIdentifier(c.table))
	var data []byte
	if err := c.pool.QueryRow(ctx, query, recordID).Scan(&data); err != nil {
		if err == pgx.ErrNoRows {
			return nil, leadform.NewNotFoundError("workflow_not_found", "workflow record not found").WithDetail("id", id)
		}
		return nil, leadform.NewStorageError("catalog_get", "failed to load workflow schema").WithCause(err).WithDetail("id", id)
	}
	return data, nil
}

func (c *postgresCatalog) SaveSchema(ctx context.Context, name string, data []byte) (string, error) {
	if _, err := leadform.ParseSchema(data); err != nil {
		return "", err
	}
	id := uuid.Must(uuid.NewV7())
	query := fmt.Sprintf("INSERT INTO %s (id, name, data, created_at) VALUES ($1, $2, $3, $4)", sanitizeIdentifier(c.table))
	if _, err := c.pool.Exec(ctx, query, id, name, data, time.Now().UTC()); err != nil {
		return "", leadform.NewStorageError("catalog_insert", "failed to save workflow schema").WithCause(err)
	}
	return id.String(), nil
}

func (c *postgresCatalog) Close() error {
	c.close()
	return nil
}
