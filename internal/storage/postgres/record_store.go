// Package postgres provides the Postgres-backed record store.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ferit-stup/radovi-crawler/internal/crawler"
)

// StoredRecord is one persisted row, including the store-assigned surrogate
// id and creation timestamp used for read ordering.
type StoredRecord struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Body       *string   `json:"body"`
	Link       string    `json:"link"`
	CompanyOIB *string   `json:"company_oib"`
	CreatedAt  time.Time `json:"created_at"`
}

type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// RecordStore persists thesis records keyed by their canonical link.
//
// Expected schema:
//
//	CREATE TABLE diplomski_radovi (
//		id          BIGSERIAL PRIMARY KEY,
//		naziv_rada  TEXT NOT NULL,
//		tekst_rada  TEXT,
//		link_rada   TEXT NOT NULL UNIQUE,
//		oib_tvrtke  CHAR(11),
//		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type RecordStore struct {
	pool pgxQuerier
}

// NewRecordStore connects a pgx pool and pings it to ensure it is alive.
func NewRecordStore(ctx context.Context, dsn string) (*RecordStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &RecordStore{pool: pool}, nil
}

// NewRecordStoreWithPool constructs a store from an existing pool (primarily
// for testing with pgxmock).
func NewRecordStoreWithPool(pool pgxQuerier) (*RecordStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &RecordStore{pool: pool}, nil
}

// Close releases the underlying pool resources.
func (s *RecordStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

const upsertSQL = `
INSERT INTO diplomski_radovi (naziv_rada, tekst_rada, link_rada, oib_tvrtke)
VALUES ($1, $2, $3, $4)
ON CONFLICT (link_rada) DO UPDATE SET
	naziv_rada = EXCLUDED.naziv_rada,
	tekst_rada = EXCLUDED.tekst_rada,
	oib_tvrtke = EXCLUDED.oib_tvrtke`

// UpsertAll inserts or updates one row per record, keyed by link. Re-upserting
// an existing link overwrites title, body and OIB in place and leaves the link
// and original created_at untouched, so the call is idempotent.
//
// The batch is fail-fast: the first row error aborts the remaining records
// and surfaces wrapped, naming the offending link.
func (s *RecordStore) UpsertAll(ctx context.Context, records []crawler.Record) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("record store is not configured")
	}
	for _, r := range records {
		if _, err := s.pool.Exec(ctx, upsertSQL, r.Title, r.Body, r.Link, r.CompanyOIB); err != nil {
			return fmt.Errorf("upsert record %s: %w", r.Link, err)
		}
	}
	return nil
}

const readAllSQL = `
SELECT id, naziv_rada, tekst_rada, link_rada, oib_tvrtke, created_at
FROM diplomski_radovi
ORDER BY created_at DESC, id DESC`

// ReadAll returns every stored row, most recently created first, with the
// surrogate id as a deterministic tie-breaker for rows sharing an instant.
func (s *RecordStore) ReadAll(ctx context.Context) ([]StoredRecord, error) {
	if s == nil || s.pool == nil {
		return nil, fmt.Errorf("record store is not configured")
	}
	rows, err := s.pool.Query(ctx, readAllSQL)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	defer rows.Close()

	var out []StoredRecord
	for rows.Next() {
		var rec StoredRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Title,
			&rec.Body,
			&rec.Link,
			&rec.CompanyOIB,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate record rows: %w", err)
	}
	return out, nil
}
