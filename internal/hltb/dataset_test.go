package hltb

import (
	"os"
	"path/filepath"
	"testing"

	"backlog-tracker/internal/hours"
)

func TestNewIndexesNormalizedTitles(t *testing.T) {
	d := New([]Entry{
		{Title: "The Witcher III: Wild Hunt", Value: 51.5},
		{Title: "Celeste", Value: 12},
		{Title: "Bad Entry", Value: 0},
		{Title: "", Value: 10},
	})

	if d.Len() != 2 {
		t.Errorf("Len = %d, want 2 (zero-value and empty entries skipped)", d.Len())
	}

	// Roman numeral folds, so the arabic spelling matches too.
	if v := d.LookupByTitle(hours.NormalizeTitle("The Witcher 3: Wild Hunt")); v != 51.5 {
		t.Errorf("LookupByTitle = %v, want 51.5", v)
	}
	if v := d.LookupByTitle("unknown game"); v != 0 {
		t.Errorf("LookupByTitle(miss) = %v, want 0", v)
	}
}

func TestNewKeepsFirstDuplicate(t *testing.T) {
	d := New([]Entry{
		{Title: "Hades", Value: 21},
		{Title: "HADES!", Value: 99},
	})

	if v := d.LookupByTitle("hades"); v != 21 {
		t.Errorf("LookupByTitle = %v, want first entry 21", v)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hltb.json")
	content := `[{"title": "Outer Wilds", "value": 16.9}, {"title": "Hollow Knight", "value": 26.5}]`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if v := d.LookupByTitle("outer wilds"); v != 16.9 {
		t.Errorf("LookupByTitle = %v, want 16.9", v)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load(missing) returned nil error")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load(malformed) returned nil error")
	}
}
