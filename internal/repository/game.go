// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"backlog-tracker/internal/model"
	"backlog-tracker/internal/reorder"
)

// Common errors for repository operations.
var (
	ErrGameNotFound    = errors.New("game not found")
	ErrStatusNotRanked = errors.New("status has no rank")
)

// gameColumns is the canonical select list for game rows.
const gameColumns = `g.id, g.user_id, g.name, g.status, g.position, g.how_long_to_beat,
	g.my_genre, g.thoughts, g.my_score, g.started_at, g.finished_at, g.created_at, g.updated_at`

// GameRepository handles game row persistence.
type GameRepository struct {
	pool *pgxpool.Pool
}

// NewGameRepository creates a new GameRepository instance.
func NewGameRepository(pool *pgxpool.Pool) *GameRepository {
	return &GameRepository{pool: pool}
}

func scanGame(row pgx.Row) (*model.Game, error) {
	var g model.Game
	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.Name,
		&g.Status,
		&g.Position,
		&g.HowLongToBeat,
		&g.MyGenre,
		&g.Thoughts,
		&g.MyScore,
		&g.StartedAt,
		&g.FinishedAt,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// List retrieves all games for a user ordered the way the client displays
// them: status rank ascending (unranked statuses last), then position with
// nulls last, then id.
func (r *GameRepository) List(ctx context.Context, userID int64) ([]*model.Game, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM games g
		LEFT JOIN status_ranks sr ON sr.status = lower(btrim(g.status))
		WHERE g.user_id = $1
		ORDER BY COALESCE(sr.rank, 2147483647) ASC, g.position ASC NULLS LAST, g.id ASC
	`, gameColumns)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*model.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}
	return games, nil
}

// GetByID retrieves one of the user's games.
// Returns ErrGameNotFound if it does not exist or belongs to someone else.
func (r *GameRepository) GetByID(ctx context.Context, userID, id int64) (*model.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM games g WHERE g.user_id = $1 AND g.id = $2`, gameColumns)

	g, err := scanGame(r.pool.QueryRow(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return g, nil
}

// Create inserts a game and returns the stored row.
func (r *GameRepository) Create(ctx context.Context, g *model.Game) (*model.Game, error) {
	query := fmt.Sprintf(`
		INSERT INTO games (user_id, name, status, position, how_long_to_beat,
			my_genre, thoughts, my_score, started_at, finished_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING %s
	`, selfColumns())

	created, err := scanGame(r.pool.QueryRow(ctx, query,
		g.UserID, g.Name, g.Status, g.Position, g.HowLongToBeat,
		g.MyGenre, g.Thoughts, g.MyScore, g.StartedAt, g.FinishedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return created, nil
}

// UpdateGameParams holds the optional fields of a game patch. Nil fields are
// left unchanged.
type UpdateGameParams struct {
	Name          *string
	Status        *string
	Position      *int64
	HowLongToBeat *int64
	MyGenre       *string
	Thoughts      *string
	MyScore       *float64
	StartedAt     *time.Time
	FinishedAt    *time.Time
}

// Update applies a partial update and returns the stored row.
func (r *GameRepository) Update(ctx context.Context, userID, id int64, p UpdateGameParams) (*model.Game, error) {
	query := fmt.Sprintf(`
		UPDATE games g SET
			name = COALESCE($3, name),
			status = COALESCE($4, status),
			position = COALESCE($5, position),
			how_long_to_beat = COALESCE($6, how_long_to_beat),
			my_genre = COALESCE($7, my_genre),
			thoughts = COALESCE($8, thoughts),
			my_score = COALESCE($9, my_score),
			started_at = COALESCE($10, started_at),
			finished_at = COALESCE($11, finished_at),
			updated_at = NOW()
		WHERE user_id = $1 AND id = $2
		RETURNING %s
	`, gameColumns)

	g, err := scanGame(r.pool.QueryRow(ctx, query, userID, id,
		p.Name, p.Status, p.Position, p.HowLongToBeat, p.MyGenre, p.Thoughts, p.MyScore,
		p.StartedAt, p.FinishedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to update game: %w", err)
	}
	return g, nil
}

// Delete removes one of the user's games.
func (r *GameRepository) Delete(ctx context.Context, userID, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM games WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrGameNotFound
	}
	return nil
}

// ListByRank retrieves the members of a rank group: every game whose status
// maps to the given rank, regardless of the literal status string. Ordered
// by position ascending with nulls last, then id.
func (r *GameRepository) ListByRank(ctx context.Context, userID int64, rank int) ([]*model.Game, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM games g
		JOIN status_ranks sr ON sr.status = lower(btrim(g.status))
		WHERE g.user_id = $1 AND sr.rank = $2
		ORDER BY g.position ASC NULLS LAST, g.id ASC
	`, gameColumns)

	rows, err := r.pool.Query(ctx, query, userID, rank)
	if err != nil {
		return nil, fmt.Errorf("failed to list rank group: %w", err)
	}
	defer rows.Close()

	var games []*model.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rank group: %w", err)
	}
	return games, nil
}

// NextPositionInRank returns the position for appending a game at the end of
// a rank group.
func (r *GameRepository) NextPositionInRank(ctx context.Context, userID int64, rank int) (int64, error) {
	const query = `
		SELECT COALESCE(MAX(g.position), 0)
		FROM games g
		JOIN status_ranks sr ON sr.status = lower(btrim(g.status))
		WHERE g.user_id = $1 AND sr.rank = $2
	`

	var maxPos int64
	if err := r.pool.QueryRow(ctx, query, userID, rank).Scan(&maxPos); err != nil {
		return 0, fmt.Errorf("failed to get max position: %w", err)
	}
	return maxPos + reorder.Spacing, nil
}

// UpdatePositions persists a renumbered ordering. All updates are applied in
// a single transaction so a mid-batch failure cannot leave the group with a
// mix of old and new positions.
func (r *GameRepository) UpdatePositions(ctx context.Context, userID int64, order []model.GamePosition) error {
	if len(order) == 0 {
		return nil
	}

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, o := range order {
			batch.Queue(
				`UPDATE games SET position = $3, updated_at = NOW() WHERE user_id = $1 AND id = $2`,
				userID, o.ID, o.Position,
			)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("failed to update positions: %w", err)
	}
	return nil
}

// UpdateHours persists resolved hour counts for multiple games. A stored
// positive value is never overwritten; this backs the resolver's
// opportunistic dataset write-back.
func (r *GameRepository) UpdateHours(ctx context.Context, userID int64, hoursByID map[int64]int) error {
	if len(hoursByID) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for id, h := range hoursByID {
		batch.Queue(`
			UPDATE games SET how_long_to_beat = $3, updated_at = NOW()
			WHERE user_id = $1 AND id = $2
			  AND (how_long_to_beat IS NULL OR how_long_to_beat <= 0)
		`, userID, id, h)
	}
	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to update hours: %w", err)
	}
	return nil
}

// selfColumns is gameColumns without the table alias, for RETURNING clauses.
func selfColumns() string {
	return `id, user_id, name, status, position, how_long_to_beat,
	my_genre, thoughts, my_score, started_at, finished_at, created_at, updated_at`
}
