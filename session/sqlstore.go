package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const createBlobsTableSQL = `
CREATE TABLE IF NOT EXISTS session_blobs (
    session_key VARCHAR(255) NOT NULL,
    sub_key     VARCHAR(255) NOT NULL,
    payload     TEXT NOT NULL,
    updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (session_key, sub_key)
);
`

// SQLStore persists session blobs in a SQLite database via
// github.com/mattn/go-sqlite3, keyed by (session_key, sub_key) rather
// than one physical table per sub-key family: the three fixed memory
// sub-keys are all JSON blobs of varying shape, so a single generic
// table avoids three near-identical schemas.
type SQLStore struct {
	db *sql.DB
}

// OpenSQLStore opens (creating if necessary) a SQLite database at dsn and
// ensures its schema exists.
func OpenSQLStore(dsn string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("session: open sqlite: %w", err)
	}
	if _, err := db.Exec(createBlobsTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: create schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Close closes the underlying database handle.
func (s *SQLStore) Close() error { return s.db.Close() }

// Save implements Store.
func (s *SQLStore) Save(ctx context.Context, key, subKey string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session_blobs (session_key, sub_key, payload, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(session_key, sub_key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = CURRENT_TIMESTAMP
	`, key, subKey, string(data))
	return err
}

// Get implements Store.
func (s *SQLStore) Get(ctx context.Context, key, subKey string, out any) (bool, error) {
	var payload string
	row := s.db.QueryRowContext(ctx,
		`SELECT payload FROM session_blobs WHERE session_key = ? AND sub_key = ?`, key, subKey)
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return false, err
	}
	return true, nil
}

// GetList implements Store.
func (s *SQLStore) GetList(ctx context.Context, key, subKey string, out any) (bool, error) {
	return s.Get(ctx, key, subKey, out)
}
