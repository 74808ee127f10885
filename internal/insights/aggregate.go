// Package insights folds a user's backlog into per-status totals, group
// totals and an ETA projection.
package insights

import (
	"math"
	"sort"
	"time"

	"backlog-tracker/internal/model"
	"backlog-tracker/internal/status"
)

// Row is one pre-resolved input row for aggregation. Hours is 0 for an
// unresolved game, which contributes to counts but not to hour totals.
type Row struct {
	Status string
	Rank   int
	Hours  int
}

// StatusStat is the per-status breakdown line of a snapshot.
type StatusStat struct {
	Status string `json:"status"`
	Rank   int    `json:"rank"`
	Count  int    `json:"count"`
	Hours  int    `json:"hours"`
}

// ETA is a projected completion of the remaining backlog at a weekly pace.
type ETA struct {
	RemainingHours int     `json:"remaining_hours"`
	WeeklyPace     int     `json:"weekly_pace"`
	Weeks          float64 `json:"weeks"`
	FinishDate     string  `json:"finish_date"`
}

// Snapshot is the aggregate view of a backlog. RemainingHours and
// BacklogHours carry the same value: the latter is the original field name
// and stays for consumers that still read it. Output fields are additive,
// never removed.
type Snapshot struct {
	Statuses       []StatusStat        `json:"statuses"`
	GroupHours     map[model.Group]int `json:"group_hours"`
	TotalCount     int                 `json:"total_count"`
	TotalHours     int                 `json:"total_hours"`
	RemainingHours int                 `json:"remaining_hours"`
	BacklogHours   int                 `json:"backlog_hours"`
	DoneHours      int                 `json:"done_hours"`
	AverageHours   float64             `json:"average_hours"`
	ETA            *ETA                `json:"eta,omitempty"`
}

// Aggregate folds rows into a snapshot. weeklyPace <= 0 means no projection
// was requested; the snapshot then carries no ETA. now supplies the clock for
// the finish-date projection.
func Aggregate(table *status.Table, rows []Row, weeklyPace int, now time.Time) *Snapshot {
	snap := &Snapshot{
		Statuses: []StatusStat{},
		GroupHours: map[model.Group]int{
			model.GroupPlanned: 0,
			model.GroupPlaying: 0,
			model.GroupDone:    0,
		},
	}

	// Per-status accumulation in first-appearance order, so the later sort
	// by rank stays stable for equal ranks.
	statIndex := make(map[string]int)
	countedRows := 0
	countedHours := 0

	for _, row := range rows {
		i, ok := statIndex[row.Status]
		if !ok {
			i = len(snap.Statuses)
			statIndex[row.Status] = i
			snap.Statuses = append(snap.Statuses, StatusStat{Status: row.Status, Rank: row.Rank})
		}
		snap.Statuses[i].Count++
		snap.Statuses[i].Hours += row.Hours

		snap.TotalCount++
		snap.TotalHours += row.Hours
		if row.Hours > 0 {
			countedRows++
			countedHours += row.Hours
		}

		// Rows outside the three canonical groups count toward overall
		// totals only.
		group := table.GroupOf(row.Status)
		if group != model.GroupOther {
			snap.GroupHours[group] += row.Hours
		}
	}

	sort.SliceStable(snap.Statuses, func(i, j int) bool {
		return snap.Statuses[i].Rank < snap.Statuses[j].Rank
	})

	snap.RemainingHours = snap.GroupHours[model.GroupPlanned] + snap.GroupHours[model.GroupPlaying]
	snap.BacklogHours = snap.RemainingHours
	snap.DoneHours = snap.GroupHours[model.GroupDone]

	if countedRows > 0 {
		snap.AverageHours = round1(float64(countedHours) / float64(countedRows))
	}

	if weeklyPace > 0 {
		weeks := round1(float64(snap.RemainingHours) / float64(weeklyPace))
		finish := now.UTC().Add(time.Duration(weeks * 7 * 24 * float64(time.Hour)))
		snap.ETA = &ETA{
			RemainingHours: snap.RemainingHours,
			WeeklyPace:     weeklyPace,
			Weeks:          weeks,
			FinishDate:     finish.Format("2006-01-02"),
		}
	}

	return snap
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
