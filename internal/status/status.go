// Package status classifies raw game status strings into semantic groups.
// The group definition table is the single source of truth for which raw
// statuses mean planned, playing or done; everything else is "other".
package status

import (
	"sort"
	"strings"

	"backlog-tracker/internal/model"
)

// DefaultDefinitions is the built-in group definition table.
// Raw statuses are matched after trimming and lower-casing.
func DefaultDefinitions() map[model.Group][]string {
	return map[model.Group][]string{
		model.GroupPlanned: {"planned", "backlog", "want to play", "wishlist"},
		model.GroupPlaying: {"playing", "in progress", "replaying"},
		model.GroupDone:    {"finished", "done", "completed", "beaten"},
	}
}

// Table holds precomputed membership sets for status classification.
// It is immutable after construction and safe for concurrent use.
type Table struct {
	defs  map[model.Group][]string
	index map[string]model.Group
}

// NewTable builds a classification table from group definitions.
// Membership sets are computed once here, not per call.
func NewTable(defs map[model.Group][]string) *Table {
	t := &Table{
		defs:  make(map[model.Group][]string, len(defs)),
		index: make(map[string]model.Group),
	}
	for group, raws := range defs {
		t.defs[group] = append([]string(nil), raws...)
		for _, raw := range raws {
			t.index[Normalize(raw)] = group
		}
	}
	return t
}

// NewDefaultTable builds a table from DefaultDefinitions.
func NewDefaultTable() *Table {
	return NewTable(DefaultDefinitions())
}

// Normalize trims and lower-cases a raw status string.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// GroupOf returns the semantic group for a raw status string.
// Unknown statuses classify as GroupOther; this never fails.
func (t *Table) GroupOf(raw string) model.Group {
	if group, ok := t.index[Normalize(raw)]; ok {
		return group
	}
	return model.GroupOther
}

// RawStatuses returns the raw status strings belonging to a group, sorted
// for deterministic query expansion. GroupOther has no explicit members.
func (t *Table) RawStatuses(group model.Group) []string {
	raws := append([]string(nil), t.defs[group]...)
	sort.Strings(raws)
	return raws
}

// BucketOf coarsens a group into a backlog/done bucket.
// GroupOther maps to the backlog bucket: an unclassified game is still
// something the user has not finished.
func BucketOf(group model.Group) model.Bucket {
	if group == model.GroupDone {
		return model.BucketDone
	}
	return model.BucketBacklog
}
