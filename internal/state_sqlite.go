package internal

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// sqliteStatePersistence stores snapshots in a single sqlite table keyed
// by storage name. Useful when several micro-frontend instances share one
// state database instead of a directory of JSON files.
type sqliteStatePersistence struct {
	db *sql.DB
}

// NewSQLiteStatePersistence opens (creating if needed) a sqlite-backed
// StatePersistence at path. The caller owns the returned closer.
func NewSQLiteStatePersistence(path string) (StatePersistence, func() error, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite state db %s: %w", path, err)
	}

	const ddl = `CREATE TABLE IF NOT EXISTS session_state (
		name       TEXT PRIMARY KEY,
		data       BLOB NOT NULL,
		updated_at INTEGER NOT NULL DEFAULT (unixepoch())
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create session_state table: %w", err)
	}

	return &sqliteStatePersistence{db: db}, db.Close, nil
}

func (p *sqliteStatePersistence) Load(name string) ([]byte, error) {
	var data []byte
	err := p.db.QueryRow(`SELECT data FROM session_state WHERE name = ?`, name).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load state %q: %w", name, err)
	}
	return data, nil
}

func (p *sqliteStatePersistence) Save(name string, data []byte) error {
	_, err := p.db.Exec(
		`INSERT INTO session_state (name, data, updated_at) VALUES (?, ?, unixepoch())
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		name, data,
	)
	if err != nil {
		return fmt.Errorf("save state %q: %w", name, err)
	}
	return nil
}
