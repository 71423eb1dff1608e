package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clearstream/clearstream/internal/engine"
)

// PostgresWriter renders snapshots into the account_snapshots table, one run
// id per invocation. It is an output sink only: the engine never reads these
// rows back.
type PostgresWriter struct {
	db *pgxpool.Pool
}

// NewPostgresWriter builds a writer backed by PostgreSQL.
func NewPostgresWriter(db *pgxpool.Pool) *PostgresWriter {
	return &PostgresWriter{db: db}
}

// WriteSnapshots inserts all items inside a single transaction so a partially
// written report is never visible.
func (p *PostgresWriter) WriteSnapshots(ctx context.Context, items []engine.OutputItem) error {
	runID := uuid.New()

	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	const insert = `INSERT INTO account_snapshots (run_id, client_id, available, held, total, locked, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, now())`
	for _, item := range items {
		_, err := tx.Exec(ctx, insert,
			runID,
			int32(item.Client),
			item.Available.String(),
			item.Held.String(),
			item.Total.String(),
			item.Locked,
		)
		if err != nil {
			return fmt.Errorf("insert snapshot for client %d: %w", item.Client, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit snapshot transaction: %w", err)
	}
	return nil
}
