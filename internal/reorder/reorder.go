// Package reorder computes sparse integer positions for drag-and-drop moves
// inside a status-rank group. The engine is pure: it sequences and renumbers
// in memory, and the caller persists the result.
package reorder

import (
	"errors"
	"sort"

	"backlog-tracker/internal/model"
)

// Spacing is the gap between adjacent positions after a renumber. Positions
// become contiguous multiples of this constant, which leaves room for cheap
// client-side insertions between renumbers.
const Spacing int64 = 1000

var (
	// ErrNotFound means the moving id is not a member of the rank group.
	ErrNotFound = errors.New("game not found in rank group")
	// ErrInvalidIndex means the target index is negative.
	ErrInvalidIndex = errors.New("target index must be non-negative")
)

// Member is one game of a rank group as fetched from the store.
type Member struct {
	ID       int64
	Status   string
	Position *int64
}

// SortMembers orders a group the way the store and the list endpoint do:
// position ascending with nulls last, id ascending as tiebreak.
func SortMembers(members []Member) {
	sort.SliceStable(members, func(i, j int) bool {
		pi, pj := members[i].Position, members[j].Position
		switch {
		case pi == nil && pj == nil:
			return members[i].ID < members[j].ID
		case pi == nil:
			return false
		case pj == nil:
			return true
		case *pi != *pj:
			return *pi < *pj
		default:
			return members[i].ID < members[j].ID
		}
	})
}

// Renumber moves movingID to targetIndex within its group and reassigns
// every member's position to (index+1)*Spacing. A target index at or past
// the end appends. Returns the authoritative new ordering, or changed=false
// when the move is a no-op (target equals current index); the group is left
// untouched in that case.
func Renumber(members []Member, movingID int64, targetIndex int) ([]model.GamePosition, bool, error) {
	if targetIndex < 0 {
		return nil, false, ErrInvalidIndex
	}
	if len(members) == 0 {
		return nil, false, ErrNotFound
	}

	ordered := make([]Member, len(members))
	copy(ordered, members)
	SortMembers(ordered)

	currentIndex := -1
	for i, m := range ordered {
		if m.ID == movingID {
			currentIndex = i
			break
		}
	}
	if currentIndex == -1 {
		return nil, false, ErrNotFound
	}

	effective := targetIndex
	if effective > len(ordered)-1 {
		effective = len(ordered) - 1
	}
	if effective == currentIndex {
		return nil, false, nil
	}

	moving := ordered[currentIndex]
	seq := append(ordered[:currentIndex:currentIndex], ordered[currentIndex+1:]...)
	if targetIndex >= len(seq) {
		seq = append(seq, moving)
	} else {
		seq = append(seq[:targetIndex], append([]Member{moving}, seq[targetIndex:]...)...)
	}

	order := make([]model.GamePosition, len(seq))
	for i, m := range seq {
		order[i] = model.GamePosition{
			ID:       m.ID,
			Status:   m.Status,
			Position: int64(i+1) * Spacing,
		}
	}
	return order, true, nil
}
