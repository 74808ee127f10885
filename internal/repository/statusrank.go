package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"backlog-tracker/internal/model"
)

// StatusRankRepository handles the status → rank lookup table. Status keys
// are stored trimmed and lower-cased.
type StatusRankRepository struct {
	pool *pgxpool.Pool
}

// NewStatusRankRepository creates a new StatusRankRepository instance.
func NewStatusRankRepository(pool *pgxpool.Pool) *StatusRankRepository {
	return &StatusRankRepository{pool: pool}
}

// RankOf returns the rank of a status label.
// Returns ErrStatusNotRanked when the label is not in the table.
func (r *StatusRankRepository) RankOf(ctx context.Context, status string) (int, error) {
	const query = `SELECT rank FROM status_ranks WHERE status = $1`

	var rank int
	err := r.pool.QueryRow(ctx, query, normalizeStatusKey(status)).Scan(&rank)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrStatusNotRanked
		}
		return 0, fmt.Errorf("failed to get status rank: %w", err)
	}
	return rank, nil
}

// List returns the whole rank table ordered by rank, then status.
func (r *StatusRankRepository) List(ctx context.Context) ([]*model.StatusRank, error) {
	const query = `SELECT status, rank FROM status_ranks ORDER BY rank ASC, status ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list status ranks: %w", err)
	}
	defer rows.Close()

	var ranks []*model.StatusRank
	for rows.Next() {
		var sr model.StatusRank
		if err := rows.Scan(&sr.Status, &sr.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan status rank: %w", err)
		}
		ranks = append(ranks, &sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status ranks: %w", err)
	}
	return ranks, nil
}

// Upsert inserts or replaces the rank of a status label.
func (r *StatusRankRepository) Upsert(ctx context.Context, status string, rank int) error {
	const query = `
		INSERT INTO status_ranks (status, rank)
		VALUES ($1, $2)
		ON CONFLICT (status) DO UPDATE SET rank = EXCLUDED.rank
	`

	if _, err := r.pool.Exec(ctx, query, normalizeStatusKey(status), rank); err != nil {
		return fmt.Errorf("failed to upsert status rank: %w", err)
	}
	return nil
}

func normalizeStatusKey(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}
