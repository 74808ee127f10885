// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"backlog-tracker/internal/model"
	"backlog-tracker/internal/reorder"
	"backlog-tracker/internal/repository"
)

// Common errors for game operations.
var (
	ErrNameRequired   = errors.New("game name is required")
	ErrStatusRequired = errors.New("status is required")
)

// GameStore is the game persistence contract consumed by services.
// *repository.GameRepository implements it.
type GameStore interface {
	List(ctx context.Context, userID int64) ([]*model.Game, error)
	GetByID(ctx context.Context, userID, id int64) (*model.Game, error)
	Create(ctx context.Context, g *model.Game) (*model.Game, error)
	Update(ctx context.Context, userID, id int64, p repository.UpdateGameParams) (*model.Game, error)
	Delete(ctx context.Context, userID, id int64) error
	ListByRank(ctx context.Context, userID int64, rank int) ([]*model.Game, error)
	NextPositionInRank(ctx context.Context, userID int64, rank int) (int64, error)
	UpdatePositions(ctx context.Context, userID int64, order []model.GamePosition) error
	UpdateHours(ctx context.Context, userID int64, hoursByID map[int64]int) error
}

// RankStore is the status → rank lookup contract.
// *repository.StatusRankRepository implements it.
type RankStore interface {
	RankOf(ctx context.Context, status string) (int, error)
	List(ctx context.Context) ([]*model.StatusRank, error)
	Upsert(ctx context.Context, status string, rank int) error
}

// UserLocker serializes operations per user.
type UserLocker interface {
	WithLock(userID int64, fn func() error) error
}

// GameService handles game CRUD and reorder operations.
type GameService struct {
	games GameStore
	ranks RankStore
	locks UserLocker
}

// NewGameService creates a new GameService instance.
func NewGameService(games GameStore, ranks RankStore, locks UserLocker) *GameService {
	return &GameService{games: games, ranks: ranks, locks: locks}
}

// List returns all of a user's games in display order.
func (s *GameService) List(ctx context.Context, userID int64) ([]*model.Game, error) {
	return s.games.List(ctx, userID)
}

// Get returns one of a user's games.
func (s *GameService) Get(ctx context.Context, userID, id int64) (*model.Game, error) {
	return s.games.GetByID(ctx, userID, id)
}

// Create inserts a game. When no position is given and the status is ranked,
// the game is appended at the end of its rank group.
func (s *GameService) Create(ctx context.Context, g *model.Game) (*model.Game, error) {
	if strings.TrimSpace(g.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(g.Status) == "" {
		g.Status = "planned"
	}

	if g.Position == nil {
		rank, err := s.ranks.RankOf(ctx, g.Status)
		if err == nil {
			pos, err := s.games.NextPositionInRank(ctx, g.UserID, rank)
			if err != nil {
				return nil, fmt.Errorf("failed to place game: %w", err)
			}
			g.Position = &pos
		} else if !errors.Is(err, repository.ErrStatusNotRanked) {
			return nil, err
		}
	}

	return s.games.Create(ctx, g)
}

// Update applies a partial update.
func (s *GameService) Update(ctx context.Context, userID, id int64, p repository.UpdateGameParams) (*model.Game, error) {
	return s.games.Update(ctx, userID, id, p)
}

// Delete removes a game.
func (s *GameService) Delete(ctx context.Context, userID, id int64) error {
	return s.games.Delete(ctx, userID, id)
}

// ListStatusRanks returns the status → rank table.
func (s *GameService) ListStatusRanks(ctx context.Context) ([]*model.StatusRank, error) {
	return s.ranks.List(ctx)
}

// SetStatusRank inserts or replaces a status label's rank.
func (s *GameService) SetStatusRank(ctx context.Context, statusLabel string, rank int) error {
	if strings.TrimSpace(statusLabel) == "" {
		return ErrStatusRequired
	}
	return s.ranks.Upsert(ctx, statusLabel, rank)
}

// Reorder moves a game to targetIndex within its rank group and renumbers
// every member. The rank group is everything sharing the status's rank, not
// just the literal status string. The whole move runs under the user's lock
// and the position writes commit in one transaction.
func (s *GameService) Reorder(ctx context.Context, userID, gameID int64, targetIndex int, statusLabel string) (*model.ReorderResult, error) {
	if strings.TrimSpace(statusLabel) == "" {
		return nil, ErrStatusRequired
	}
	if targetIndex < 0 {
		return nil, reorder.ErrInvalidIndex
	}

	rank, err := s.ranks.RankOf(ctx, statusLabel)
	if err != nil {
		if errors.Is(err, repository.ErrStatusNotRanked) {
			return nil, reorder.ErrNotFound
		}
		return nil, err
	}

	var result *model.ReorderResult
	err = s.locks.WithLock(userID, func() error {
		group, err := s.games.ListByRank(ctx, userID, rank)
		if err != nil {
			return err
		}

		members := make([]reorder.Member, len(group))
		byID := make(map[int64]*model.Game, len(group))
		for i, g := range group {
			members[i] = reorder.Member{ID: g.ID, Status: g.Status, Position: g.Position}
			byID[g.ID] = g
		}

		order, changed, err := reorder.Renumber(members, gameID, targetIndex)
		if err != nil {
			return err
		}

		if !changed {
			result = &model.ReorderResult{
				Game:  byID[gameID],
				Order: currentOrder(group),
			}
			return nil
		}

		if err := s.games.UpdatePositions(ctx, userID, order); err != nil {
			return err
		}

		for _, o := range order {
			if g, ok := byID[o.ID]; ok {
				pos := o.Position
				g.Position = &pos
			}
		}
		result = &model.ReorderResult{Game: byID[gameID], Order: order}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// currentOrder builds the (id, status, position) view of an already-ordered
// group without touching it. A nil position reports as 0.
func currentOrder(group []*model.Game) []model.GamePosition {
	order := make([]model.GamePosition, len(group))
	for i, g := range group {
		order[i] = model.GamePosition{ID: g.ID, Status: g.Status}
		if g.Position != nil {
			order[i].Position = *g.Position
		}
	}
	return order
}
