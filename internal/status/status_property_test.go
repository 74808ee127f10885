// Property-based tests for status classification.
package status

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"backlog-tracker/internal/model"
)

// TestGroupOfTotalProperty verifies that classification is total: any input
// maps to exactly one of the four groups, and repeated calls agree.
func TestGroupOfTotalProperty(t *testing.T) {
	table := NewDefaultTable()
	known := map[model.Group]bool{
		model.GroupPlanned: true,
		model.GroupPlaying: true,
		model.GroupDone:    true,
		model.GroupOther:   true,
	}

	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.String().Draw(t, "raw")

		first := table.GroupOf(raw)
		if !known[first] {
			t.Fatalf("GroupOf(%q) = %v, not a known group", raw, first)
		}
		if second := table.GroupOf(raw); second != first {
			t.Fatalf("GroupOf(%q) unstable: %v then %v", raw, first, second)
		}
	})
}

// TestGroupOfCaseWhitespaceProperty verifies that classification is invariant
// under case changes and surrounding whitespace.
func TestGroupOfCaseWhitespaceProperty(t *testing.T) {
	table := NewDefaultTable()

	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.StringMatching(`[a-z ]{1,20}`).Draw(t, "raw")
		pad := rapid.StringMatching(`[ \t]{0,4}`).Draw(t, "pad")

		base := table.GroupOf(raw)
		if got := table.GroupOf(pad + strings.ToUpper(raw) + pad); got != base {
			t.Fatalf("GroupOf not invariant for %q: %v vs %v", raw, base, got)
		}
	})
}
