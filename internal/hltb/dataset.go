// Package hltb loads the local "how long to beat" reference dataset.
// The dataset is a JSON array of {title, value} entries shipped with the
// deployment; values are in the unit configured under insights.hltb_unit.
package hltb

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"backlog-tracker/internal/hours"
)

// Entry is one record of the dataset file.
type Entry struct {
	Title string  `json:"title"`
	Value float64 `json:"value"`
}

// Dataset is an in-memory lookup over the reference file, keyed by
// normalized title. Immutable after Load; safe for concurrent use.
type Dataset struct {
	byTitle map[string]float64
}

// Load reads and indexes a dataset file. Duplicate normalized titles keep
// the first entry seen.
func Load(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hltb dataset: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse hltb dataset: %w", err)
	}

	d := New(entries)
	log.Info().Str("path", path).Int("entries", len(d.byTitle)).Msg("HLTB dataset loaded")
	return d, nil
}

// New indexes entries without touching the filesystem. Used by tests and by
// Load.
func New(entries []Entry) *Dataset {
	byTitle := make(map[string]float64, len(entries))
	for _, e := range entries {
		key := hours.NormalizeTitle(e.Title)
		if key == "" || e.Value <= 0 {
			continue
		}
		if _, ok := byTitle[key]; !ok {
			byTitle[key] = e.Value
		}
	}
	return &Dataset{byTitle: byTitle}
}

// LookupByTitle returns the raw dataset value for a normalized title, or 0
// on a miss. Implements hours.Dataset.
func (d *Dataset) LookupByTitle(normalizedTitle string) float64 {
	return d.byTitle[normalizedTitle]
}

// Len reports the number of indexed titles.
func (d *Dataset) Len() int {
	return len(d.byTitle)
}
