// Property-based tests for the hours resolver.
package hours

import (
	"context"
	"testing"

	"pgregory.net/rapid"

	"backlog-tracker/internal/model"
)

// TestStoredValueRoundTripProperty verifies that a positive stored hour count
// always resolves to exactly that value with source db, no matter what the
// dataset or metadata cache contain.
func TestStoredValueRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		stored := rapid.Int64Range(1, 10000).Draw(t, "stored")
		name := rapid.StringMatching(`[A-Za-z0-9 ]{1,30}`).Draw(t, "name")
		datasetHours := rapid.Float64Range(0, 500).Draw(t, "datasetHours")
		cacheHours := rapid.Float64Range(0, 500).Draw(t, "cacheHours")

		r := NewResolver(
			mapDataset{NormalizeTitle(name): datasetHours},
			mapMetadata{name: {"playtime": cacheHours}},
			UnitHours,
		)

		game := &model.Game{Name: name, HowLongToBeat: &stored}
		res := r.Resolve(context.Background(), game)
		if res == nil {
			t.Fatalf("Resolve returned nil for stored value %d", stored)
		}
		if res.Hours != int(stored) || res.Source != model.SourceDB {
			t.Fatalf("Resolve = {%d %s}, want {%d db}", res.Hours, res.Source, stored)
		}
	})
}

// TestNormalizeTitleIdempotentProperty verifies normalization is idempotent.
func TestNormalizeTitleIdempotentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		title := rapid.String().Draw(t, "title")
		once := NormalizeTitle(title)
		if twice := NormalizeTitle(once); twice != once {
			t.Fatalf("NormalizeTitle not idempotent: %q -> %q -> %q", title, once, twice)
		}
	})
}
