package state

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// SQLiteStore implements the model catalog on SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore creates a store instance. Open must be called before use.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("opened state store", "path", path)
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// SaveModel inserts or updates a catalog entry, keyed by name. The original
// ID and creation time survive updates.
func (s *SQLiteStore) SaveModel(rec *ModelRecord) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	now := time.Now().UTC()
	existing, err := s.GetModelByName(rec.Name)
	if err != nil {
		return fmt.Errorf("failed to check existing model: %w", err)
	}

	if existing != nil {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		rec.UpdatedAt = now
		_, err = s.db.Exec(
			`UPDATE models SET file_path = ?, tag = ?, transitions = ?, symbols = ?, updated_at = ? WHERE id = ?`,
			rec.FilePath, rec.Tag, rec.Transitions, rec.Symbols, rec.UpdatedAt, rec.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update model %s: %w", rec.Name, err)
		}
		return nil
	}

	rec.ID = generateID()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	_, err = s.db.Exec(
		`INSERT INTO models (id, name, file_path, tag, transitions, symbols, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.FilePath, rec.Tag, rec.Transitions, rec.Symbols, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert model %s: %w", rec.Name, err)
	}
	return nil
}

// GetModelByName retrieves a catalog entry, or nil when absent.
func (s *SQLiteStore) GetModelByName(name string) (*ModelRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rec := &ModelRecord{}
	err := s.db.QueryRow(
		`SELECT id, name, file_path, tag, transitions, symbols, created_at, updated_at
		 FROM models WHERE name = ?`, name,
	).Scan(&rec.ID, &rec.Name, &rec.FilePath, &rec.Tag, &rec.Transitions, &rec.Symbols,
		&rec.CreatedAt, &rec.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model %s: %w", name, err)
	}
	return rec, nil
}

// ListModels returns all catalog entries ordered by name.
func (s *SQLiteStore) ListModels() ([]*ModelRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, name, file_path, tag, transitions, symbols, created_at, updated_at
		 FROM models ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer rows.Close()

	var records []*ModelRecord
	for rows.Next() {
		rec := &ModelRecord{}
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.FilePath, &rec.Tag, &rec.Transitions,
			&rec.Symbols, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan model row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteModelByName removes a catalog entry. Deleting an absent name is not
// an error.
func (s *SQLiteStore) DeleteModelByName(name string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if _, err := s.db.Exec(`DELETE FROM models WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete model %s: %w", name, err)
	}
	return nil
}

// SaveComparison records a comparison report.
func (s *SQLiteStore) SaveComparison(rec *ComparisonRecord) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	rec.ID = generateID()
	rec.CreatedAt = time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO comparisons (id, from_model, to_model, score, jaccard, shared_patterns, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.FromModel, rec.ToModel, rec.Score, rec.Jaccard, rec.SharedPatterns, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save comparison: %w", err)
	}
	return nil
}

// ListComparisons returns saved reports, newest first, capped at limit
// (unlimited when limit <= 0).
func (s *SQLiteStore) ListComparisons(limit int) ([]*ComparisonRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	query := `SELECT id, from_model, to_model, score, jaccard, shared_patterns, created_at
	          FROM comparisons ORDER BY created_at DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(query+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list comparisons: %w", err)
	}
	defer rows.Close()

	var records []*ComparisonRecord
	for rows.Next() {
		rec := &ComparisonRecord{}
		if err := rows.Scan(&rec.ID, &rec.FromModel, &rec.ToModel, &rec.Score, &rec.Jaccard,
			&rec.SharedPatterns, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comparison row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
