// Package store persists extracted coastline tables to SQLite.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/coastalkit/shorewrap/pkg/extract"
)

//go:embed schema.sql
var schemaSQL string

// Store is a SQLite sink for coastline tables.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and initializes the
// schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTable persists a coastline table under the given name and returns its
// generated identifier. The write is transactional: either every row lands
// or none do.
func (s *Store) SaveTable(ctx context.Context, name string, tbl *extract.Table) (string, error) {
	tableID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin save transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO coastline_tables (table_id, name, created_at) VALUES (?, ?, ?)",
		tableID, name, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("insert table row: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO coastline_points (table_id, snapshot_time, point_idx, x, y) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return "", fmt.Errorf("prepare point insert: %w", err)
	}
	defer stmt.Close()

	// point_idx restarts at zero on every snapshot boundary.
	pointIdx := 0
	var prev time.Time
	for i := 0; i < tbl.Len(); i++ {
		ts, x, y := tbl.Row(i)
		if i > 0 && !ts.Equal(prev) {
			pointIdx = 0
		}
		if _, err := stmt.ExecContext(ctx, tableID, ts.Format(time.RFC3339), pointIdx, x, y); err != nil {
			return "", fmt.Errorf("insert point %d: %w", i, err)
		}
		pointIdx++
		prev = ts
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save transaction: %w", err)
	}
	return tableID, nil
}

// CountPoints returns the number of persisted rows for a table.
func (s *Store) CountPoints(ctx context.Context, tableID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM coastline_points WHERE table_id = ?", tableID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count points: %w", err)
	}
	return n, nil
}
