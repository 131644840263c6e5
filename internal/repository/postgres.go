package repository

import (
	"context"
	"fmt"

	"ordinance-map/internal/document"
	"ordinance-map/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the table holding flattened ordinance documents.
const Schema = `
	CREATE TABLE IF NOT EXISTS street_records (
		position INTEGER PRIMARY KEY,
		ordinance_id VARCHAR(255) NOT NULL,
		ordinance_meta JSONB NOT NULL DEFAULT '{}'::jsonb,
		zone VARCHAR(255) NOT NULL,
		street TEXT NOT NULL,
		record JSONB
	);
	CREATE INDEX IF NOT EXISTS street_records_ordinance_zone_idx ON street_records (ordinance_id, zone);
`

// Repository implements the document source for PostgreSQL
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the street_records table when missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// Fetch loads every street record in position order and rebuilds the document.
func (r *Repository) Fetch(ctx context.Context) (*models.Document, error) {
	sql := `
		SELECT
			position,
			ordinance_id,
			ordinance_meta,
			zone,
			street,
			record
		FROM street_records
		ORDER BY position
	`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: %w: failed to execute query: %w", models.ErrDataFetch, err)
	}
	defer rows.Close()

	var flat []document.Row
	for rows.Next() {
		var row document.Row
		var meta, record []byte
		err := rows.Scan(
			&row.Position,
			&row.OrdinanceID,
			&meta,
			&row.Zone,
			&row.Street,
			&record,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: %w: failed to scan street record: %w", models.ErrDataFetch, err)
		}
		row.Meta = meta
		row.Record = record
		flat = append(flat, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: %w: error iterating rows: %w", models.ErrDataFetch, err)
	}

	return document.Assemble(flat), nil
}

// ReplaceAll swaps the stored document for rows in a single transaction, using COPY for the insert.
func (r *Repository) ReplaceAll(ctx context.Context, rows []document.Row) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM street_records"); err != nil {
		return 0, fmt.Errorf("repository: failed to clear street records: %w", err)
	}

	n, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"street_records"},
		[]string{"position", "ordinance_id", "ordinance_meta", "zone", "street", "record"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]interface{}, error) {
			row := rows[i]
			return []interface{}{row.Position, row.OrdinanceID, string(row.Meta), row.Zone, row.Street, nullableJSON(row.Record)}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to copy street records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("repository: failed to commit: %w", err)
	}
	return n, nil
}

// Count returns the number of stored street records.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM street_records").Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count records: %w", err)
	}
	return count, nil
}

// Name identifies the source in logs.
func (r *Repository) Name() string {
	return "postgres"
}

// nullableJSON maps a JSON null record to SQL NULL.
func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return string(raw)
}
