// Package hours resolves "how long to beat" hours for a game from multiple
// sources in strict priority order: stored value, local reference dataset,
// cached external metadata.
package hours

import (
	"context"
	"math"
	"strings"

	"backlog-tracker/internal/model"
)

// Unit is the unit the reference dataset stores its values in.
type Unit string

const (
	UnitHours   Unit = "hours"
	UnitMinutes Unit = "minutes"
	UnitSeconds Unit = "seconds"
)

// Dataset is the local reference dataset contract. LookupByTitle receives a
// title already normalized with NormalizeTitle and returns the raw value in
// the dataset's unit, or 0 on a miss.
type Dataset interface {
	LookupByTitle(normalizedTitle string) float64
}

// MetadataCache is the cached external metadata contract. Get is keyed by
// lower-cased title and returns a decoded metadata blob, or nil on a miss.
type MetadataCache interface {
	Get(ctx context.Context, lowerTitle string) (map[string]any, error)
}

// Resolution is a resolved hour count and the source that produced it.
type Resolution struct {
	Hours  int
	Source model.HoursSource
}

// metadataFields is the ordered list of candidate playtime fields scanned in
// an external metadata blob. The first finite positive number wins.
var metadataFields = [][]string{
	{"playtime"},
	{"time_to_beat", "main"},
	{"time_to_beat", "normally"},
	{"time_to_beat", "completely"},
	{"average_playtime"},
}

// Resolver resolves hours for individual games.
type Resolver struct {
	dataset Dataset
	meta    MetadataCache
	unit    Unit
}

// NewResolver creates a Resolver. Either source may be nil, in which case the
// corresponding step is skipped.
func NewResolver(dataset Dataset, meta MetadataCache, unit Unit) *Resolver {
	if unit == "" {
		unit = UnitHours
	}
	return &Resolver{dataset: dataset, meta: meta, unit: unit}
}

// Resolve determines the hour count for a game, trying each source in
// priority order. Returns nil when no source yields a usable value; the game
// is then "unresolved" and excluded from hour aggregates.
func (r *Resolver) Resolve(ctx context.Context, game *model.Game) *Resolution {
	// 1. Stored value on the game record is authoritative when positive.
	if game.HowLongToBeat != nil && *game.HowLongToBeat > 0 {
		return &Resolution{Hours: int(*game.HowLongToBeat), Source: model.SourceDB}
	}

	// 2. Local reference dataset by normalized title.
	if r.dataset != nil {
		if raw := r.dataset.LookupByTitle(NormalizeTitle(game.Name)); raw > 0 {
			if h := r.toHours(raw); h > 0 {
				return &Resolution{Hours: h, Source: model.SourceDataset}
			}
		}
	}

	// 3. Cached external metadata by lowercase title. Cache failures resolve
	// as a miss; this step must never surface an error.
	if r.meta != nil {
		blob, err := r.meta.Get(ctx, strings.ToLower(game.Name))
		if err == nil && blob != nil {
			if h := hoursFromMetadata(blob); h > 0 {
				return &Resolution{Hours: h, Source: model.SourceExternalCache}
			}
		}
	}

	return nil
}

// toHours converts a dataset value in the configured unit to whole hours.
func (r *Resolver) toHours(raw float64) int {
	switch r.unit {
	case UnitMinutes:
		raw /= 60
	case UnitSeconds:
		raw /= 3600
	}
	return roundHalfUp(raw)
}

// hoursFromMetadata scans the candidate fields of a metadata blob and returns
// the first usable hour count, or 0.
func hoursFromMetadata(blob map[string]any) int {
	for _, path := range metadataFields {
		if v, ok := lookupPath(blob, path); ok {
			if h := roundHalfUp(v); h > 0 {
				return h
			}
		}
	}
	return 0
}

// lookupPath walks nested metadata objects and returns a finite positive
// number at the path, if any.
func lookupPath(blob map[string]any, path []string) (float64, bool) {
	cur := any(blob)
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return 0, false
		}
		cur, ok = obj[key]
		if !ok {
			return 0, false
		}
	}

	var v float64
	switch n := cur.(type) {
	case float64:
		v = n
	case int:
		v = float64(n)
	case int64:
		v = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

// roundHalfUp rounds a non-negative value to the nearest integer, halves up.
func roundHalfUp(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return int(math.Floor(v + 0.5))
}
