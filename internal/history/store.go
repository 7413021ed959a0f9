// Package history persists analyzed queries and serves related-query lookups.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/kaiseki/internal/models"
)

// Store persists query history in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates a SQLite database at dbPath and initializes the
// schema. Parent directories are created if they do not exist.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS queries (
		id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		intent_type TEXT NOT NULL,
		department TEXT,
		time_scope TEXT,
		complexity REAL NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_queries_created_at ON queries(created_at);
	CREATE INDEX IF NOT EXISTS idx_queries_department ON queries(department);
	`
	_, err := db.Exec(schema)
	return err
}

// Record inserts a history entry. A missing ID is assigned a UUID and a
// missing timestamp is set to now.
func (s *Store) Record(ctx context.Context, rec *models.QueryRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO queries (id, query, intent_type, department, time_scope, complexity, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Query, rec.IntentType.String(), rec.Department,
		rec.TimeScope.String(), rec.Complexity, rec.CreatedAt,
	)
	return err
}

// Recent returns the most recent history entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*models.QueryRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, intent_type, department, time_scope, complexity, created_at
		 FROM queries ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// RecentByDepartment returns the most recent entries scoped to a department.
func (s *Store) RecentByDepartment(ctx context.Context, department string, limit int) ([]*models.QueryRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, intent_type, department, time_scope, complexity, created_at
		 FROM queries WHERE department = ? ORDER BY created_at DESC, id LIMIT ?`,
		department, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// CountQueries returns the total number of stored history entries.
func (s *Store) CountQueries(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM queries`).Scan(&count)
	return count, err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func scanRecords(rows *sql.Rows) ([]*models.QueryRecord, error) {
	records := []*models.QueryRecord{}
	for rows.Next() {
		var (
			rec        models.QueryRecord
			intentType string
			timeScope  string
		)
		if err := rows.Scan(&rec.ID, &rec.Query, &intentType, &rec.Department,
			&timeScope, &rec.Complexity, &rec.CreatedAt); err != nil {
			return nil, err
		}
		// Unknown stored values degrade to the defaults.
		rec.IntentType, _ = models.ParseIntentType(intentType)
		rec.TimeScope = parseTimeScope(timeScope)
		records = append(records, &rec)
	}
	return records, rows.Err()
}

func parseTimeScope(s string) models.TimeScope {
	switch s {
	case "recent":
		return models.TimeScopeRecent
	case "quarterly":
		return models.TimeScopeQuarterly
	case "yearly":
		return models.TimeScopeYearly
	case "historical":
		return models.TimeScopeHistorical
	default:
		return models.TimeScopeNone
	}
}
