package store

import (
	"context"
	"fmt"

	"github.com/awaistahir/smart-wash/internal/engine"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Store holds the historical usage table in SQLite
type Store struct {
	db   *sqlx.DB
	path string
}

// NewStore opens the database and creates the schema if needed
func NewStore(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Path returns the database file the store was opened with
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS usage_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hour INTEGER NOT NULL,
		usage_count INTEGER NOT NULL DEFAULT 0,
		congestion TEXT NOT NULL,
		imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_usage_records_hour ON usage_records(hour);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Records returns every historical sample in import order
func (s *Store) Records(ctx context.Context) ([]engine.UsageRecord, error) {
	records := []engine.UsageRecord{}
	query := `SELECT hour, usage_count, congestion FROM usage_records ORDER BY id`

	if err := s.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("querying usage records: %w", err)
	}
	return records, nil
}

// Count returns the number of stored samples
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM usage_records`); err != nil {
		return 0, fmt.Errorf("counting usage records: %w", err)
	}
	return n, nil
}

// Version returns the highest row id, which grows with every import
func (s *Store) Version(ctx context.Context) (int64, error) {
	var v int64
	if err := s.db.GetContext(ctx, &v, `SELECT COALESCE(MAX(id), 0) FROM usage_records`); err != nil {
		return 0, fmt.Errorf("reading table version: %w", err)
	}
	return v, nil
}

// ReplaceRecords swaps the whole historical table for the given samples
func (s *Store) ReplaceRecords(ctx context.Context, records []engine.UsageRecord) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM usage_records`); err != nil {
		return fmt.Errorf("clearing usage records: %w", err)
	}

	if len(records) > 0 {
		query := `INSERT INTO usage_records (hour, usage_count, congestion)
			VALUES (:hour, :usage_count, :congestion)`
		if _, err := tx.NamedExecContext(ctx, query, records); err != nil {
			return fmt.Errorf("inserting usage records: %w", err)
		}
	}

	return tx.Commit()
}
