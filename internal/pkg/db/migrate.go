package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// migrations are applied in order on startup. Statements are idempotent so
// re-running on boot is safe.
var migrations = []struct {
	name string
	stmt string
}{
	{
		name: "games table",
		stmt: `
			CREATE TABLE IF NOT EXISTS games (
				id BIGSERIAL PRIMARY KEY,
				user_id BIGINT NOT NULL,
				name TEXT NOT NULL,
				status VARCHAR(64) NOT NULL DEFAULT 'planned',
				position BIGINT,
				how_long_to_beat BIGINT,
				my_genre TEXT,
				thoughts TEXT,
				my_score DOUBLE PRECISION,
				started_at TIMESTAMPTZ,
				finished_at TIMESTAMPTZ,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_games_user_status ON games(user_id, status);
			CREATE INDEX IF NOT EXISTS idx_games_user_position ON games(user_id, position);
		`,
	},
	{
		name: "status_ranks table",
		stmt: `
			CREATE TABLE IF NOT EXISTS status_ranks (
				status VARCHAR(64) PRIMARY KEY,
				rank INT NOT NULL
			);
			INSERT INTO status_ranks (status, rank) VALUES
				('playing', 1),
				('in progress', 1),
				('planned', 2),
				('backlog', 2),
				('want to play', 2),
				('finished', 3),
				('completed', 3),
				('done', 3),
				('dropped', 4)
			ON CONFLICT (status) DO NOTHING;
		`,
	},
	{
		name: "rawg_cache table",
		stmt: `
			CREATE TABLE IF NOT EXISTS rawg_cache (
				title TEXT PRIMARY KEY,
				data JSONB NOT NULL,
				fetched_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
		`,
	},
}

// Migrate applies all schema migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	log.Info().Msg("Running database migrations...")

	for i, m := range migrations {
		if _, err := pool.Exec(ctx, m.stmt); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", i+1, m.name, err)
		}
		log.Info().Int("migration", i+1).Str("name", m.name).Msg("Migration applied")
	}

	log.Info().Msg("All migrations completed successfully")
	return nil
}
