// Package audit persists per-run processing metrics to Postgres. Rows carry
// counts and timings only; no original or anonymized text is ever stored.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const createAuditTable = `
CREATE TABLE IF NOT EXISTS processing_audit (
	id BIGSERIAL PRIMARY KEY,
	processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	language TEXT NOT NULL,
	chars_processed INTEGER NOT NULL,
	entity_count INTEGER NOT NULL,
	chunk_count INTEGER NOT NULL,
	duration_ms BIGINT NOT NULL,
	cache_hit BOOLEAN NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_processing_audit_processed_at ON processing_audit (processed_at);
`

// Entry is one audit row
type Entry struct {
	ID             int64     `db:"id" json:"id"`
	ProcessedAt    time.Time `db:"processed_at" json:"processed_at"`
	Language       string    `db:"language" json:"language"`
	CharsProcessed int       `db:"chars_processed" json:"chars_processed"`
	EntityCount    int       `db:"entity_count" json:"entity_count"`
	ChunkCount     int       `db:"chunk_count" json:"chunk_count"`
	DurationMs     int64     `db:"duration_ms" json:"duration_ms"`
	CacheHit       bool      `db:"cache_hit" json:"cache_hit"`
}

// Store is the Postgres-backed audit log
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewStore connects to Postgres and ensures the audit schema exists
func NewStore(dsn string, logger *zap.Logger) (*Store, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to audit database: %w", err)
	}

	if _, err := db.Exec(createAuditTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate audit schema: %w", err)
	}

	logger.Info("Audit store initialized")
	return &Store{db: db, logger: logger}, nil
}

// RecordRun inserts one audit row
func (s *Store) RecordRun(ctx context.Context, entry Entry) error {
	if entry.ProcessedAt.IsZero() {
		entry.ProcessedAt = time.Now()
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO processing_audit (processed_at, language, chars_processed, entity_count, chunk_count, duration_ms, cache_hit)
		VALUES (:processed_at, :language, :chars_processed, :entity_count, :chunk_count, :duration_ms, :cache_hit)`,
		entry)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// RecentRuns returns the newest audit rows up to limit
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []Entry
	err := s.db.SelectContext(ctx, &entries, `
		SELECT id, processed_at, language, chars_processed, entity_count, chunk_count, duration_ms, cache_hit
		FROM processing_audit ORDER BY processed_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	return entries, nil
}

// Close releases the database connection pool
func (s *Store) Close() error {
	return s.db.Close()
}
