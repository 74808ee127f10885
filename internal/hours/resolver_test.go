package hours

import (
	"context"
	"testing"

	"backlog-tracker/internal/model"
)

// mapDataset is a Dataset backed by a plain map of normalized titles.
type mapDataset map[string]float64

func (d mapDataset) LookupByTitle(normalizedTitle string) float64 {
	return d[normalizedTitle]
}

// mapMetadata is a MetadataCache backed by a map of lowercase titles.
type mapMetadata map[string]map[string]any

func (m mapMetadata) Get(_ context.Context, lowerTitle string) (map[string]any, error) {
	return m[lowerTitle], nil
}

func ptr(v int64) *int64 { return &v }

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{"lowercase", "Hollow Knight", "hollow knight"},
		{"punctuation", "NieR:Automata", "nier automata"},
		{"roman numeral", "The Last of Us Part II", "the last of us part 2"},
		{"arabic stays", "The Last of Us Part 2", "the last of us part 2"},
		{"bare i kept", "Crash Bandicoot I", "crash bandicoot i"},
		{"bare x kept", "Mega Man X", "mega man x"},
		{"bare v kept", "GTA V", "gta v"},
		{"two-letter numeral folds", "Final Fantasy XV", "final fantasy 15"},
		{"collapse whitespace", "  Doom   Eternal ", "doom eternal"},
		{"seven", "Final Fantasy VII", "final fantasy 7"},
	}

	// The folding must never conflate a stylized letter with a sequel
	// number.
	if NormalizeTitle("Mega Man X") == NormalizeTitle("Mega Man 10") {
		t.Error("Mega Man X and Mega Man 10 must not share a lookup key")
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTitle(tt.title); got != tt.expected {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.title, got, tt.expected)
			}
		})
	}
}

func TestResolveStoredValueWins(t *testing.T) {
	// Dataset and cache both have entries; the stored value must win.
	r := NewResolver(
		mapDataset{"hollow knight": 99},
		mapMetadata{"hollow knight": {"playtime": 88.0}},
		UnitHours,
	)

	game := &model.Game{Name: "Hollow Knight", HowLongToBeat: ptr(27)}
	res := r.Resolve(context.Background(), game)
	if res == nil {
		t.Fatal("Resolve returned nil for stored value")
	}
	if res.Hours != 27 || res.Source != model.SourceDB {
		t.Errorf("Resolve = {%d %s}, want {27 db}", res.Hours, res.Source)
	}
}

func TestResolveDatasetFallback(t *testing.T) {
	r := NewResolver(mapDataset{"celeste": 12.4}, nil, UnitHours)

	tests := []struct {
		name string
		game *model.Game
	}{
		{"nil stored value", &model.Game{Name: "Celeste"}},
		{"zero stored value", &model.Game{Name: "Celeste", HowLongToBeat: ptr(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Resolve(context.Background(), tt.game)
			if res == nil {
				t.Fatal("Resolve returned nil")
			}
			// 12.4 rounds down to 12.
			if res.Hours != 12 || res.Source != model.SourceDataset {
				t.Errorf("Resolve = {%d %s}, want {12 dataset}", res.Hours, res.Source)
			}
		})
	}
}

func TestResolveDatasetUnits(t *testing.T) {
	tests := []struct {
		name     string
		unit     Unit
		raw      float64
		expected int
	}{
		{"hours passthrough", UnitHours, 12.5, 13},
		{"minutes", UnitMinutes, 90, 2}, // 1.5h rounds up
		{"seconds", UnitSeconds, 5400, 2},
		{"rounds to zero is a miss", UnitMinutes, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(mapDataset{"celeste": tt.raw}, nil, tt.unit)
			res := r.Resolve(context.Background(), &model.Game{Name: "Celeste"})
			if tt.expected == 0 {
				if res != nil {
					t.Fatalf("Resolve = %+v, want unresolved", res)
				}
				return
			}
			if res == nil || res.Hours != tt.expected {
				t.Fatalf("Resolve = %+v, want %d hours", res, tt.expected)
			}
		})
	}
}

func TestResolveMetadataCache(t *testing.T) {
	tests := []struct {
		name     string
		blob     map[string]any
		expected int
	}{
		{"playtime field", map[string]any{"playtime": 30.0}, 30},
		{"nested time to beat", map[string]any{"time_to_beat": map[string]any{"main": 14.6}}, 15},
		{"average playtime last", map[string]any{"playtime": 0.0, "average_playtime": 22.0}, 22},
		{"field order", map[string]any{"playtime": 10.0, "average_playtime": 99.0}, 10},
		{"no usable field", map[string]any{"playtime": -3.0, "rating": 4.5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(nil, mapMetadata{"outer wilds": tt.blob}, UnitHours)
			res := r.Resolve(context.Background(), &model.Game{Name: "Outer Wilds"})
			if tt.expected == 0 {
				if res != nil {
					t.Fatalf("Resolve = %+v, want unresolved", res)
				}
				return
			}
			if res == nil || res.Hours != tt.expected || res.Source != model.SourceExternalCache {
				t.Fatalf("Resolve = %+v, want {%d external-cache}", res, tt.expected)
			}
		})
	}
}

func TestResolveUnresolved(t *testing.T) {
	r := NewResolver(mapDataset{}, mapMetadata{}, UnitHours)
	if res := r.Resolve(context.Background(), &model.Game{Name: "Obscure Game"}); res != nil {
		t.Errorf("Resolve = %+v, want nil for unresolved game", res)
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in       float64
		expected int
	}{
		{12.4, 12},
		{12.5, 13},
		{12.6, 13},
		{0.4, 0},
		{0.5, 1},
		{-3, 0},
	}
	for _, tt := range tests {
		if got := roundHalfUp(tt.in); got != tt.expected {
			t.Errorf("roundHalfUp(%v) = %d, want %d", tt.in, got, tt.expected)
		}
	}
}
