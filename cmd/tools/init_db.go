package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/tushar-indygen/leadform"
)

type initDBOptions struct {
	host         string
	port         int
	database     string
	user         string
	password     string
	sslMode      string
	catalogTable string
	schemaDir    string
}

func runInitDB(args []string) error {
	flags := flag.NewFlagSet("init-db", flag.ContinueOnError)
	flags.SetOutput(os.Stdout)
	flags.Usage = func() {
		fmt.Println("Usage: leadform-tools init-db [options]")
		fmt.Println("")
		fmt.Println("Options:")
		flags.PrintDefaults()
	}

	opts := initDBOptions{}
	flags.StringVar(&opts.host, "db-host", getenvDefault("DB_HOST", "localhost"), "database host")
	flags.IntVar(&opts.port, "db-port", getenvDefaultInt("DB_PORT", 5432), "database port")
	flags.StringVar(&opts.database, "db-name", getenvDefault("DB_NAME", "leadform"), "database name")
	flags.StringVar(&opts.user, "db-user", getenvDefault("DB_USER", "postgres"), "database user")
	flags.StringVar(&opts.password, "db-password", getenvDefault("DB_PASSWORD", "postgres"), "database password")
	flags.StringVar(&opts.sslMode, "db-ssl-mode", getenvDefault("DB_SSL_MODE", "disable"), "database sslmode")
	flags.StringVar(&opts.catalogTable, "catalog-table", getenvDefault("CATALOG_TABLE", "workflows"), "workflow catalog table name")
	flags.StringVar(&opts.schemaDir, "schema-dir", getenvDefault("SCHEMA_DIR", ""), "Directory containing JSON form schema files to seed (optional)")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	return initDatabase(opts)
}

func initDatabase(opts initDBOptions) error {
	ctx := context.Background()

	db, err := sql.Open("postgres", buildConnString(opts))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if err := withTx(ctx, db, func(tx *sql.Tx) error {
		if err := ensureCatalogTable(ctx, tx, opts); err != nil {
			return err
		}
		if opts.schemaDir != "" {
			return seedSchemas(ctx, tx, opts.catalogTable, opts.schemaDir)
		}
		return nil
	}); err != nil {
		return err
	}

	fmt.Println("Database initialized successfully.")
	return nil
}

func buildConnString(opts initDBOptions) string {
	hostPort := fmt.Sprintf("%s:%d", opts.host, opts.port)

	var userInfo *url.Userinfo
	if opts.password != "" {
		userInfo = url.UserPassword(opts.user, opts.password)
	} else {
		userInfo = url.User(opts.user)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   hostPort,
		Path:   "/" + opts.database,
	}

	q := url.Values{}
	if opts.sslMode != "" {
		q.Set("sslmode", opts.sslMode)
	}
	u.RawQuery = q.Encode()

	return u.String()
}

func ensureCatalogTable(ctx context.Context, tx *sql.Tx, opts initDBOptions) error {
	table := pq.QuoteIdentifier(opts.catalogTable)

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL,
		data       JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, table)

	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure workflow catalog table: %w", err)
	}
	fmt.Printf("Created workflow catalog table: %s\n", opts.catalogTable)

	idxName := pq.QuoteIdentifier(makeIndexName(opts.catalogTable, "name"))
	createIdxName := fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (name)`, idxName, table)
	if _, err := tx.ExecContext(ctx, createIdxName); err != nil {
		return fmt.Errorf("create name index: %w", err)
	}

	idxCreated := pq.QuoteIdentifier(makeIndexName(opts.catalogTable, "created_at"))
	createIdxCreated := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (created_at DESC)`, idxCreated, table)
	if _, err := tx.ExecContext(ctx, createIdxCreated); err != nil {
		return fmt.Errorf("create created_at index: %w", err)
	}

	return nil
}

// seedSchemas validates each JSON schema in the directory and inserts it
// into the catalog table under its form id. Names already present
// are left untouched, so reruns are safe.
func seedSchemas(ctx context.Context, tx *sql.Tx, catalogTable, schemaDir string) error {
	entries, err := os.ReadDir(schemaDir)
	if err != nil {
		return fmt.Errorf("read schema directory(%s): %w", schemaDir, err)
	}

	var schemaFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".json") && !strings.HasSuffix(name, ".meta.json") {
			schemaFiles = append(schemaFiles, name)
		}
	}

	if len(schemaFiles) == 0 {
		fmt.Printf("No schema files found, dir: %s\n", schemaDir)
		return nil
	}

	sort.Strings(schemaFiles)

	quotedTable := pq.QuoteIdentifier(catalogTable)
	insertSQL := fmt.Sprintf(
		`INSERT INTO %s (id, name, data, created_at) VALUES ($1, $2, $3, now()) ON CONFLICT (name) DO NOTHING`,
		quotedTable,
	)

	seeded := 0
	for _, file := range schemaFiles {
		path := filepath.Join(schemaDir, file)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read schema file %s: %w", file, err)
		}

		schema, err := leadform.ParseSchema(data)
		if err != nil {
			return fmt.Errorf("invalid schema %s: %w", file, err)
		}
		if err := schema.Validate(); err != nil {
			return fmt.Errorf("invalid schema %s: %w", file, err)
		}

		name := schema.Metadata.FormID
		if name == "" {
			name = strings.TrimSuffix(file, ".json")
		}

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generate workflow id: %w", err)
		}

		result, err := tx.ExecContext(ctx, insertSQL, id.String(), name, data)
		if err != nil {
			return fmt.Errorf("insert schema %s: %w", name, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("insert schema %s: %w", name, err)
		}
		if affected > 0 {
			fmt.Printf("Seeded workflow, name: %s, id: %s\n", name, id)
			seeded++
		} else {
			fmt.Printf("Workflow already exists, name: %s\n", name)
		}
	}

	fmt.Printf("Seeded workflows from directory, count: %d, dir: %s\n", seeded, schemaDir)
	return nil
}

func withTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w; rollback failed: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

func makeIndexName(table string, suffix string) string {
	base := strings.ReplaceAll(table, ".", "_")
	base = strings.ReplaceAll(base, `"`, "")
	return fmt.Sprintf("%s_%s_idx", base, suffix)
}

func getenvDefault(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getenvDefaultInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}
