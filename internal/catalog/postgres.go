package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/stockpicker/internal/contracts"
)

// Schema creates the catalog table
const Schema = `
CREATE SCHEMA IF NOT EXISTS catalog;

CREATE TABLE IF NOT EXISTS catalog.instruments (
	symbol          TEXT PRIMARY KEY,
	position        INTEGER NOT NULL,
	name            TEXT NOT NULL,
	price           DOUBLE PRECISION NOT NULL,
	change          DOUBLE PRECISION NOT NULL,
	change_percent  DOUBLE PRECISION NOT NULL,
	sector          TEXT NOT NULL DEFAULT '',
	market_cap      BIGINT NOT NULL,
	dividend_yield  DOUBLE PRECISION,
	pe              DOUBLE PRECISION,
	roe             DOUBLE PRECISION,
	pb              DOUBLE PRECISION,
	score           DOUBLE PRECISION NOT NULL,
	reason          TEXT NOT NULL DEFAULT '',
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// PostgresSource reads the dataset from catalog.instruments
// ⭐ SSOT: 종목 카탈로그 DB 조회/저장은 여기서만
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource creates a new Postgres-backed source
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

// Name identifies the source in logs
func (s *PostgresSource) Name() string {
	return "postgres"
}

// Instruments loads every row in dataset order. NULL ratios become absent metrics.
func (s *PostgresSource) Instruments(ctx context.Context) ([]contracts.Instrument, error) {
	query := `
		SELECT symbol, name, price, change, change_percent, sector, market_cap,
		       dividend_yield, pe, roe, pb, score, reason
		FROM catalog.instruments
		ORDER BY position, symbol
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query instruments: %w", err)
	}
	defer rows.Close()

	instruments := make([]contracts.Instrument, 0)
	for rows.Next() {
		inst, err := scanInstrument(rows)
		if err != nil {
			return nil, err
		}
		instruments = append(instruments, inst)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate instruments: %w", err)
	}

	return instruments, nil
}

func scanInstrument(row pgx.Row) (contracts.Instrument, error) {
	var (
		inst              contracts.Instrument
		dividendYield, pe *float64
		roe, pb           *float64
	)

	err := row.Scan(
		&inst.Symbol, &inst.Name, &inst.Price, &inst.Change, &inst.ChangePercent,
		&inst.Sector, &inst.MarketCap,
		&dividendYield, &pe, &roe, &pb,
		&inst.Score, &inst.Reason,
	)
	if err != nil {
		return contracts.Instrument{}, fmt.Errorf("failed to scan instrument: %w", err)
	}

	inst.DividendYield = contracts.MetricFromPtr(dividendYield)
	inst.PE = contracts.MetricFromPtr(pe)
	inst.ROE = contracts.MetricFromPtr(roe)
	inst.PB = contracts.MetricFromPtr(pb)

	return inst, nil
}

// Migrate creates the catalog schema if missing
func (s *PostgresSource) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create catalog schema: %w", err)
	}
	return nil
}

// Replace swaps the stored dataset for instruments in one transaction.
// Callers validate first; position follows slice order.
func (s *PostgresSource) Replace(ctx context.Context, instruments []contracts.Instrument) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM catalog.instruments"); err != nil {
		return fmt.Errorf("failed to delete old instruments: %w", err)
	}

	query := `
		INSERT INTO catalog.instruments (
			symbol, position, name, price, change, change_percent, sector, market_cap,
			dividend_yield, pe, roe, pb, score, reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	batch := &pgx.Batch{}
	for i, inst := range instruments {
		batch.Queue(query,
			inst.Symbol, i, inst.Name, inst.Price, inst.Change, inst.ChangePercent,
			inst.Sector, inst.MarketCap,
			inst.DividendYield.Ptr(), inst.PE.Ptr(), inst.ROE.Ptr(), inst.PB.Ptr(),
			inst.Score, inst.Reason,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert instruments: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
