package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jclinedev/hiddencity/internal/domain"
)

// AirportStore implements domain.AirportStore on the airports reference
// table. The table is seeded by migration with the busiest-US-airports list
// so a fresh database can serve candidates immediately.
type AirportStore struct {
	pool *pgxpool.Pool
}

// NewAirportStore creates an AirportStore backed by pool.
func NewAirportStore(pool *pgxpool.Pool) *AirportStore {
	return &AirportStore{pool: pool}
}

// ListCodes returns all airport codes ordered by rank, busiest first.
func (s *AirportStore) ListCodes(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, "SELECT code FROM airports ORDER BY rank, code")
	if err != nil {
		return nil, fmt.Errorf("postgres: list airport codes: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("postgres: scan airport code: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate airport codes: %w", err)
	}
	return codes, nil
}

// UpsertAirports inserts or updates reference entries in one batch.
func (s *AirportStore) UpsertAirports(ctx context.Context, airports []domain.Airport) error {
	if len(airports) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	const upsert = `
		INSERT INTO airports (code, name, rank)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, rank = EXCLUDED.rank`
	for _, a := range airports {
		batch.Queue(upsert, a.Code, a.Name, a.Rank)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range airports {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("postgres: upsert airport: %w", err)
		}
	}
	return nil
}

// Compile-time interface check.
var _ domain.AirportStore = (*AirportStore)(nil)
