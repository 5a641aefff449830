// Package sqlite backs the history store with a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wonderfulspam/config-warden/pkg/history"
	"github.com/wonderfulspam/config-warden/pkg/tree"
)

type Store struct {
	db *sql.DB
}

// Open creates or opens the snapshot database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %s: %w", p, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			id TEXT PRIMARY KEY,
			config_type TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			tree BLOB NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_snapshots_type ON snapshots(config_type, created_at)`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Read(ctx context.Context, configType string) ([]*history.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, tree FROM snapshots
		WHERE config_type = ?
		ORDER BY created_at, rowid
	`, configType)
	if err != nil {
		return nil, fmt.Errorf("failed to read history for %s: %w", configType, err)
	}
	defer rows.Close()

	var snapshots []*history.Snapshot
	for rows.Next() {
		var id string
		var createdAt int64
		var blob []byte
		if err := rows.Scan(&id, &createdAt, &blob); err != nil {
			return nil, err
		}

		root, err := tree.Parse(blob)
		if err != nil {
			return nil, fmt.Errorf("failed to decode snapshot %s: %w", id, err)
		}

		snapshots = append(snapshots, &history.Snapshot{
			ID:         id,
			ConfigType: configType,
			CreatedAt:  time.UnixMilli(createdAt).UTC(),
			Tree:       root,
		})
	}
	return snapshots, rows.Err()
}

func (s *Store) Append(ctx context.Context, snapshot *history.Snapshot) error {
	blob, err := json.Marshal(snapshot.Tree)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot tree: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, config_type, created_at, tree)
		VALUES (?, ?, ?, ?)
	`, snapshot.ID, snapshot.ConfigType, snapshot.CreatedAt.UnixMilli(), blob)
	if err != nil {
		return fmt.Errorf("failed to append snapshot for %s: %w", snapshot.ConfigType, err)
	}
	return nil
}

func (s *Store) Types(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT config_type FROM snapshots ORDER BY config_type
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var configType string
		if err := rows.Scan(&configType); err != nil {
			return nil, err
		}
		types = append(types, configType)
	}
	return types, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
