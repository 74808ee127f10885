package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"backlog-tracker/internal/hours"
	"backlog-tracker/internal/insights"
	"backlog-tracker/internal/model"
	"backlog-tracker/internal/pkg/cache"
	"backlog-tracker/internal/status"
)

// cacheVersion tags insight cache keys so a format change is a guaranteed
// miss after deploy.
const cacheVersion = "v1"

// unrankedRank sorts statuses missing from the rank table last, matching the
// SQL list ordering.
const unrankedRank = 1<<31 - 1

// InsightsOptions tunes the insights computation.
type InsightsOptions struct {
	// MaxWeeklyPace clamps the requested pace; 0 uses DefaultMaxWeeklyPace.
	MaxWeeklyPace int
	// PersistBatchSize caps how many dataset-resolved hour values are
	// written back per call.
	PersistBatchSize int
}

// DefaultMaxWeeklyPace is the upper clamp for the weekly pace parameter.
const DefaultMaxWeeklyPace = 200

// DefaultPersistBatchSize caps the dataset write-back batch.
const DefaultPersistBatchSize = 25

// ReportParams echoes the request parameters back in the report.
type ReportParams struct {
	WeeklyPace     int  `json:"weekly_pace"`
	IncludeMissing bool `json:"include_missing"`
}

// Report is the full insights response: the aggregate snapshot plus
// diagnostic metadata about how hours were resolved.
type Report struct {
	Snapshot        *insights.Snapshot        `json:"snapshot"`
	Sources         map[model.HoursSource]int `json:"sources"`
	UnresolvedCount int                       `json:"unresolved_count"`
	UnresolvedNames []string                  `json:"unresolved_names,omitempty"`
	Params          ReportParams              `json:"params"`
}

// InsightsService computes aggregated backlog insights. Reports are memoized
// per (user, parameters) with a TTL; edits to games do not evict the cache,
// so staleness is bounded only by the TTL.
type InsightsService struct {
	games    GameStore
	ranks    RankStore
	resolver *hours.Resolver
	table    *status.Table
	cache    *cache.Cache
	opts     InsightsOptions
	now      func() time.Time
}

// NewInsightsService creates a new InsightsService instance. A nil clock
// defaults to time.Now.
func NewInsightsService(
	games GameStore,
	ranks RankStore,
	resolver *hours.Resolver,
	table *status.Table,
	c *cache.Cache,
	opts InsightsOptions,
	now func() time.Time,
) *InsightsService {
	if opts.MaxWeeklyPace <= 0 {
		opts.MaxWeeklyPace = DefaultMaxWeeklyPace
	}
	if opts.PersistBatchSize <= 0 {
		opts.PersistBatchSize = DefaultPersistBatchSize
	}
	if now == nil {
		now = time.Now
	}
	return &InsightsService{
		games:    games,
		ranks:    ranks,
		resolver: resolver,
		table:    table,
		cache:    c,
		opts:     opts,
		now:      now,
	}
}

// Get returns the aggregated insights for a user, serving from the cache
// when a report for the same parameters is still fresh.
func (s *InsightsService) Get(ctx context.Context, userID int64, weeklyPace int, includeMissing bool) (*Report, error) {
	if weeklyPace < 0 {
		weeklyPace = 0
	}
	if weeklyPace > s.opts.MaxWeeklyPace {
		weeklyPace = s.opts.MaxWeeklyPace
	}

	key := fmt.Sprintf("%s|pace=%d|missing=%t", cacheVersion, weeklyPace, includeMissing)
	if v, ok := s.cache.Get(userID, key); ok {
		return v.(*Report), nil
	}

	report, writeback, err := s.compute(ctx, userID, weeklyPace, includeMissing)
	if err != nil {
		return nil, err
	}

	// Dataset hits are persisted back onto the game rows so the next
	// resolution takes the cheap db path. Best-effort and off the read
	// path: a failure is logged, never surfaced.
	if len(writeback) > 0 {
		go s.persistHours(userID, writeback)
	}

	s.cache.Set(userID, key, report)
	return report, nil
}

func (s *InsightsService) compute(ctx context.Context, userID int64, weeklyPace int, includeMissing bool) (*Report, map[int64]int, error) {
	games, err := s.games.List(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	rankCache := make(map[string]int)
	rankOf := func(label string) int {
		if r, ok := rankCache[label]; ok {
			return r
		}
		r, err := s.ranks.RankOf(ctx, label)
		if err != nil {
			r = unrankedRank
		}
		rankCache[label] = r
		return r
	}

	rows := make([]insights.Row, 0, len(games))
	sources := map[model.HoursSource]int{
		model.SourceDB:            0,
		model.SourceDataset:       0,
		model.SourceExternalCache: 0,
	}
	var unresolved []string
	writeback := make(map[int64]int)

	for _, g := range games {
		row := insights.Row{Status: g.Status, Rank: rankOf(g.Status)}
		if res := s.resolver.Resolve(ctx, g); res != nil {
			row.Hours = res.Hours
			sources[res.Source]++
			if res.Source == model.SourceDataset && len(writeback) < s.opts.PersistBatchSize {
				writeback[g.ID] = res.Hours
			}
		} else {
			unresolved = append(unresolved, g.Name)
		}
		rows = append(rows, row)
	}

	report := &Report{
		Snapshot:        insights.Aggregate(s.table, rows, weeklyPace, s.now()),
		Sources:         sources,
		UnresolvedCount: len(unresolved),
		Params: ReportParams{
			WeeklyPace:     weeklyPace,
			IncludeMissing: includeMissing,
		},
	}
	if includeMissing {
		report.UnresolvedNames = unresolved
	}
	return report, writeback, nil
}

// persistHours is the fire-and-forget dataset write-back. It runs detached
// from the request context.
func (s *InsightsService) persistHours(userID int64, writeback map[int64]int) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.games.UpdateHours(ctx, userID, writeback); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Int("games", len(writeback)).
			Msg("Failed to persist dataset hours")
		return
	}
	log.Debug().Int64("user_id", userID).Int("games", len(writeback)).
		Msg("Persisted dataset hours")
}
