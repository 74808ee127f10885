package service

import (
	"context"
	"errors"
	"strings"
)

// ErrMetadataNotFound means the external API had no match for a game name.
var ErrMetadataNotFound = errors.New("no metadata found for game")

// MetadataFetcher is the external metadata client contract.
// *metadata.Client implements it.
type MetadataFetcher interface {
	FetchByName(ctx context.Context, name string) (map[string]any, error)
}

// MetadataStore is the metadata cache persistence contract.
// *repository.MetadataRepository implements it.
type MetadataStore interface {
	Get(ctx context.Context, lowerTitle string) (map[string]any, error)
	Upsert(ctx context.Context, title string, blob map[string]any) error
}

// MetadataService refreshes the cached external metadata for games. The
// insights path never goes to the network; it only reads what this service
// has cached.
type MetadataService struct {
	games   GameStore
	fetcher MetadataFetcher
	store   MetadataStore
}

// NewMetadataService creates a new MetadataService instance.
func NewMetadataService(games GameStore, fetcher MetadataFetcher, store MetadataStore) *MetadataService {
	return &MetadataService{games: games, fetcher: fetcher, store: store}
}

// Refresh fetches metadata for one of the user's games and caches the blob
// under the game's lowercase title.
func (s *MetadataService) Refresh(ctx context.Context, userID, gameID int64) (map[string]any, error) {
	game, err := s.games.GetByID(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}

	blob, err := s.fetcher.FetchByName(ctx, game.Name)
	if err != nil {
		return nil, err
	}
	if blob == nil {
		return nil, ErrMetadataNotFound
	}

	if err := s.store.Upsert(ctx, strings.ToLower(game.Name), blob); err != nil {
		return nil, err
	}
	return blob, nil
}
