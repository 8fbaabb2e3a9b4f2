package internal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"go.uber.org/zap"

	"github.com/tushar-indygen/leadform"
)

// StatsAggregator feeds completed captures into an embedded DuckDB table
// and answers the aggregate queries behind the stats view. DuckDB keeps
// the analytics path out of the capture hot path: inserts are cheap and
// the grouped counts are computed on read.
type StatsAggregator struct {
	db  *sql.DB
	cfg leadform.StatsConfig
}

// NewStatsAggregator opens the DuckDB database configured in cfg. An empty
// DBPath runs in memory.
func NewStatsAggregator(cfg leadform.StatsConfig) (*StatsAggregator, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("stats disabled in config")
	}

	dsn := cfg.DBPath
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	// DuckDB typically uses a single connection
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}

	const ddl = `CREATE TABLE IF NOT EXISTS captures (
		workflow_id VARCHAR,
		status      VARCHAR,
		source      VARCHAR,
		lead_score  DOUBLE,
		captured_at TIMESTAMP
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create captures table: %w", err)
	}

	return &StatsAggregator{db: db, cfg: cfg}, nil
}

// RecordCapture ingests one completed submission. Status, source and lead
// score are pulled from the captured values; missing fields are stored as
// empty or zero. Inserts beyond MaxSubmission are dropped with a warning
// rather than failing the capture.
func (a *StatsAggregator) RecordCapture(ctx context.Context, workflowID string, values leadform.FormValues) error {
	ctx, cancel := a.queryContext(ctx)
	defer cancel()

	if a.cfg.MaxSubmission > 0 {
		var count int64
		if err := a.db.QueryRowContext(ctx, "SELECT count(*) FROM captures").Scan(&count); err != nil {
			return fmt.Errorf("count captures: %w", err)
		}
		if count >= int64(a.cfg.MaxSubmission) {
			zap.S().Warnw("capture stats at capacity, dropping submission", "max", a.cfg.MaxSubmission)
			return nil
		}
	}

	status := stringValue(values, "status")
	source := stringValue(values, "source")
	score := numberValue(values, "lead_score")
	_, err := a.db.ExecContext(ctx,
		"INSERT INTO captures (workflow_id, status, source, lead_score, captured_at) VALUES (?, ?, ?, ?, ?)",
		workflowID, status, source, score, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert capture: %w", err)
	}
	return nil
}

// CaptureSummary is the aggregate model behind the stats view.
type CaptureSummary struct {
	Total     int64            `json:"total"`
	ByStatus  map[string]int64 `json:"byStatus"`
	BySource  map[string]int64 `json:"bySource"`
	AvgScore  float64          `json:"avgScore"`
	Workflows []string         `json:"workflows"`
}

// Summary computes the grouped capture counts.
func (a *StatsAggregator) Summary(ctx context.Context) (*CaptureSummary, error) {
	ctx, cancel := a.queryContext(ctx)
	defer cancel()

	summary := &CaptureSummary{
		ByStatus: make(map[string]int64),
		BySource: make(map[string]int64),
	}

	row := a.db.QueryRowContext(ctx, "SELECT count(*), coalesce(avg(lead_score), 0) FROM captures")
	if err := row.Scan(&summary.Total, &summary.AvgScore); err != nil {
		return nil, fmt.Errorf("query capture totals: %w", err)
	}

	if err := a.groupCounts(ctx, "status", summary.ByStatus); err != nil {
		return nil, err
	}
	if err := a.groupCounts(ctx, "source", summary.BySource); err != nil {
		return nil, err
	}

	workflowSet := make(map[string]int64)
	if err := a.groupCounts(ctx, "workflow_id", workflowSet); err != nil {
		return nil, err
	}
	summary.Workflows = MapKeys(workflowSet)
	return summary, nil
}

func (a *StatsAggregator) groupCounts(ctx context.Context, column string, into map[string]int64) error {
	query := fmt.Sprintf("SELECT coalesce(%s, ''), count(*) FROM captures GROUP BY 1", column)
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("group captures by %s: %w", column, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			key   string
			count int64
		)
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("scan %s group: %w", column, err)
		}
		if key != "" {
			into[key] = count
		}
	}
	return rows.Err()
}

func (a *StatsAggregator) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := a.cfg.QueryTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

// Close closes the underlying DuckDB database.
func (a *StatsAggregator) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

// stringValue resolves a string-typed field from captured values, looking
// through nested containers when the key is not top level.
func stringValue(values leadform.FormValues, key string) string {
	v, ok := leadform.FindValueByKey(map[string]any(values), key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// numberValue resolves a numeric field, coercing numeric strings.
func numberValue(values leadform.FormValues, key string) float64 {
	v, ok := leadform.FindValueByKey(map[string]any(values), key)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		if parsed, ok := tryParseNumber(n).(float64); ok {
			return parsed
		}
		if parsed, ok := tryParseNumber(n).(int64); ok {
			return float64(parsed)
		}
		return 0
	default:
		return 0
	}
}
