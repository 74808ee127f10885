package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MetadataRepository caches external (RAWG) metadata blobs keyed by
// lower-cased game title. The insights path only ever reads this table; the
// network fetch happens on an explicit refresh.
type MetadataRepository struct {
	pool *pgxpool.Pool
}

// NewMetadataRepository creates a new MetadataRepository instance.
func NewMetadataRepository(pool *pgxpool.Pool) *MetadataRepository {
	return &MetadataRepository{pool: pool}
}

// Get returns the cached metadata blob for a title, or nil on a miss.
// Implements the hours resolver's metadata cache contract.
func (r *MetadataRepository) Get(ctx context.Context, lowerTitle string) (map[string]any, error) {
	const query = `SELECT data FROM rawg_cache WHERE title = $1`

	var raw []byte
	err := r.pool.QueryRow(ctx, query, strings.ToLower(lowerTitle)).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}

	var blob map[string]any
	if err := json.Unmarshal(raw, &blob); err != nil {
		return nil, fmt.Errorf("failed to decode metadata blob: %w", err)
	}
	return blob, nil
}

// Upsert stores or replaces the metadata blob for a title.
func (r *MetadataRepository) Upsert(ctx context.Context, title string, blob map[string]any) error {
	raw, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("failed to encode metadata blob: %w", err)
	}

	const query = `
		INSERT INTO rawg_cache (title, data, fetched_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (title) DO UPDATE SET data = EXCLUDED.data, fetched_at = NOW()
	`
	if _, err := r.pool.Exec(ctx, query, strings.ToLower(title), raw); err != nil {
		return fmt.Errorf("failed to upsert metadata: %w", err)
	}
	return nil
}
