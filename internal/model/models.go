// Package model defines the data models for the backlog tracker.
package model

import "time"

// Game represents a single entry in a user's game backlog.
type Game struct {
	ID            int64      `db:"id" json:"id"`
	UserID        int64      `db:"user_id" json:"user_id"`
	Name          string     `db:"name" json:"name"`
	Status        string     `db:"status" json:"status"`
	Position      *int64     `db:"position" json:"position"`
	HowLongToBeat *int64     `db:"how_long_to_beat" json:"how_long_to_beat,omitempty"`
	MyGenre       *string    `db:"my_genre" json:"my_genre,omitempty"`
	Thoughts      *string    `db:"thoughts" json:"thoughts,omitempty"`
	MyScore       *float64   `db:"my_score" json:"my_score,omitempty"`
	StartedAt     *time.Time `db:"started_at" json:"started_at,omitempty"`
	FinishedAt    *time.Time `db:"finished_at" json:"finished_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// StatusRank maps a raw status label to its display rank.
// Games are ordered primarily by rank, then by position within the rank.
type StatusRank struct {
	Status string `db:"status" json:"status"`
	Rank   int    `db:"rank" json:"rank"`
}

// Group is a semantic classification of a raw status string.
type Group string

const (
	GroupPlanned Group = "planned"
	GroupPlaying Group = "playing"
	GroupDone    Group = "done"
	GroupOther   Group = "other"
)

// Bucket is a coarser partition of groups.
type Bucket string

const (
	BucketBacklog Bucket = "backlog" // planned + playing
	BucketDone    Bucket = "done"
)

// HoursSource identifies which source produced a resolved hour count.
type HoursSource string

const (
	SourceDB            HoursSource = "db"
	SourceDataset       HoursSource = "dataset"
	SourceExternalCache HoursSource = "external-cache"
)

// GamePosition is the (id, status, position) triple returned after a reorder
// so the caller can update its view without re-querying.
type GamePosition struct {
	ID       int64  `json:"id"`
	Status   string `json:"status"`
	Position int64  `json:"position"`
}

// ReorderResult holds the moved game plus the authoritative ordering of the
// whole rank group after a reorder.
type ReorderResult struct {
	Game  *Game          `json:"game"`
	Order []GamePosition `json:"order"`
}
