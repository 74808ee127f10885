// In-memory fakes shared by the service tests.
package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"backlog-tracker/internal/model"
	"backlog-tracker/internal/repository"
)

type fakeRanks struct {
	ranks map[string]int
}

func newFakeRanks() *fakeRanks {
	return &fakeRanks{ranks: map[string]int{
		"playing": 1, "in progress": 1,
		"planned": 2, "backlog": 2,
		"finished": 3,
		"dropped":  4,
	}}
}

func (f *fakeRanks) RankOf(_ context.Context, statusLabel string) (int, error) {
	r, ok := f.ranks[strings.ToLower(strings.TrimSpace(statusLabel))]
	if !ok {
		return 0, repository.ErrStatusNotRanked
	}
	return r, nil
}

func (f *fakeRanks) List(_ context.Context) ([]*model.StatusRank, error) {
	var out []*model.StatusRank
	for s, r := range f.ranks {
		out = append(out, &model.StatusRank{Status: s, Rank: r})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out, nil
}

func (f *fakeRanks) Upsert(_ context.Context, statusLabel string, rank int) error {
	f.ranks[strings.ToLower(strings.TrimSpace(statusLabel))] = rank
	return nil
}

type fakeStore struct {
	mu     sync.Mutex
	games  map[int64]*model.Game
	ranks  *fakeRanks
	nextID int64

	positionBatches [][]model.GamePosition
	hoursBatches    []map[int64]int
	failPositions   error
	failHours       error
}

func newFakeStore(ranks *fakeRanks) *fakeStore {
	return &fakeStore{games: make(map[int64]*model.Game), ranks: ranks, nextID: 1}
}

func (f *fakeStore) add(g *model.Game) *model.Game {
	f.mu.Lock()
	defer f.mu.Unlock()
	g.ID = f.nextID
	f.nextID++
	f.games[g.ID] = g
	return g
}

func (f *fakeStore) List(_ context.Context, userID int64) ([]*model.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Game
	for _, g := range f.games {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetByID(_ context.Context, userID, id int64) (*model.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.games[id]
	if !ok || g.UserID != userID {
		return nil, repository.ErrGameNotFound
	}
	return g, nil
}

func (f *fakeStore) Create(_ context.Context, g *model.Game) (*model.Game, error) {
	return f.add(g), nil
}

func (f *fakeStore) Update(_ context.Context, userID, id int64, p repository.UpdateGameParams) (*model.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.games[id]
	if !ok || g.UserID != userID {
		return nil, repository.ErrGameNotFound
	}
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Status != nil {
		g.Status = *p.Status
	}
	if p.HowLongToBeat != nil {
		g.HowLongToBeat = p.HowLongToBeat
	}
	if p.StartedAt != nil {
		g.StartedAt = p.StartedAt
	}
	if p.FinishedAt != nil {
		g.FinishedAt = p.FinishedAt
	}
	return g, nil
}

func (f *fakeStore) Delete(_ context.Context, userID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.games[id]
	if !ok || g.UserID != userID {
		return repository.ErrGameNotFound
	}
	delete(f.games, id)
	return nil
}

func (f *fakeStore) ListByRank(ctx context.Context, userID int64, rank int) ([]*model.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Game
	for _, g := range f.games {
		if g.UserID != userID {
			continue
		}
		if r, err := f.ranks.RankOf(ctx, g.Status); err == nil && r == rank {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := out[i].Position, out[j].Position
		switch {
		case pi == nil && pj == nil:
			return out[i].ID < out[j].ID
		case pi == nil:
			return false
		case pj == nil:
			return true
		case *pi != *pj:
			return *pi < *pj
		default:
			return out[i].ID < out[j].ID
		}
	})
	return out, nil
}

func (f *fakeStore) NextPositionInRank(ctx context.Context, userID int64, rank int) (int64, error) {
	group, _ := f.ListByRank(ctx, userID, rank)
	var max int64
	for _, g := range group {
		if g.Position != nil && *g.Position > max {
			max = *g.Position
		}
	}
	return max + 1000, nil
}

func (f *fakeStore) UpdatePositions(_ context.Context, _ int64, order []model.GamePosition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPositions != nil {
		return f.failPositions
	}
	f.positionBatches = append(f.positionBatches, order)
	for _, o := range order {
		if g, ok := f.games[o.ID]; ok {
			pos := o.Position
			g.Position = &pos
		}
	}
	return nil
}

func (f *fakeStore) UpdateHours(_ context.Context, _ int64, hoursByID map[int64]int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failHours != nil {
		return f.failHours
	}
	f.hoursBatches = append(f.hoursBatches, hoursByID)
	for id, h := range hoursByID {
		if g, ok := f.games[id]; ok && (g.HowLongToBeat == nil || *g.HowLongToBeat <= 0) {
			v := int64(h)
			g.HowLongToBeat = &v
		}
	}
	return nil
}

var errStoreDown = errors.New("store down")
