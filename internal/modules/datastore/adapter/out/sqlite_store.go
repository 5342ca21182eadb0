package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"irctrack/internal/modules/datastore/dto"
	datastoreout "irctrack/internal/modules/datastore/port/out"
	apperrors "irctrack/internal/platform/errors"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps tables in a local database with the same positional
// semantics as the spreadsheet: index i is the i-th data row in insertion
// order, and deleting a row shifts the following ones up. Ranges are not
// interpreted; every read returns the whole table.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

func NewSQLiteStore(dbPath string) (datastoreout.RemoteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteStore{db: db, path: dbPath}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS table_rows (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  table_name TEXT NOT NULL,
  cells TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_table_rows_table ON table_rows(table_name, id);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table_rows table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Fetch(ctx context.Context, table, _ string) ([]dto.Row, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT cells FROM table_rows WHERE table_name = ? ORDER BY id`, table)
	if err != nil {
		return nil, apperrors.NewStoreError("read", table, apperrors.KindTransient, err)
	}
	defer rows.Close()

	out := []dto.Row{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, apperrors.NewStoreError("read", table, apperrors.KindTransient, err)
		}
		row := dto.Row{}
		if err := json.Unmarshal([]byte(raw), &row); err != nil {
			return nil, apperrors.NewStoreError("read", table, apperrors.KindTransient, fmt.Errorf("decode cells: %w", err))
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("read", table, apperrors.KindTransient, err)
	}
	return out, nil
}

func (s *SQLiteStore) Append(ctx context.Context, table string, row dto.Row) error {
	cells, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode cells: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO table_rows (table_name, cells) VALUES (?, ?)`, table, string(cells)); err != nil {
		return apperrors.NewStoreError("append", table, apperrors.KindTransient, err)
	}
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, table string, index int, row dto.Row) error {
	id, err := s.rowID(ctx, "update", table, index)
	if err != nil {
		return err
	}
	cells, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode cells: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE table_rows SET cells = ? WHERE id = ?`, string(cells), id); err != nil {
		return apperrors.NewStoreError("update", table, apperrors.KindTransient, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, table string, index int) error {
	id, err := s.rowID(ctx, "delete", table, index)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM table_rows WHERE id = ?`, id); err != nil {
		return apperrors.NewStoreError("delete", table, apperrors.KindTransient, err)
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) (string, error) {
	if err := s.db.PingContext(ctx); err != nil {
		return "", apperrors.NewStoreError("ping", s.path, apperrors.KindTransient, err)
	}
	return "sqlite:" + s.path, nil
}

func (s *SQLiteStore) rowID(ctx context.Context, op, table string, index int) (int64, error) {
	if index < 0 {
		return 0, apperrors.NewStoreError(op, table, apperrors.KindNotFound, fmt.Errorf("row index %d", index))
	}
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM table_rows WHERE table_name = ? ORDER BY id LIMIT 1 OFFSET ?`, table, index).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, apperrors.NewStoreError(op, table, apperrors.KindNotFound, fmt.Errorf("row index %d", index))
	}
	if err != nil {
		return 0, apperrors.NewStoreError(op, table, apperrors.KindTransient, err)
	}
	return id, nil
}
