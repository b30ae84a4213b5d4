package models

import (
	"time"
)

// AttemptsFailed is the sentinel stored in PuzzleResult.Attempts when the
// puzzle was not solved within six guesses.
const AttemptsFailed = 0

// MaxAttempts is the number of guesses Wordle allows.
const MaxAttempts = 6

// PuzzleResult represents one player's outcome for one daily puzzle.
// The (UserID, PuzzleNumber) pair is the primary key; a player has at most
// one result per puzzle.
type PuzzleResult struct {
	// UserID is the opaque stable identifier of the player (a Discord user id).
	UserID string `gorm:"column:user_id;primaryKey;size:64" json:"user_id"`

	// PuzzleNumber is the official Wordle puzzle index. It is global (one per
	// calendar day), never negative, and increases with real-world date.
	PuzzleNumber int `gorm:"column:puzzle_number;primaryKey" json:"puzzle_number"`

	// Attempts is the number of guesses used (1-6), or AttemptsFailed when
	// the puzzle was not solved.
	Attempts int `gorm:"column:attempts" json:"attempts"`

	// HardMode is true when the announcement carried the hard-mode marker.
	HardMode bool `gorm:"column:hard_mode" json:"hard_mode"`

	// SourceMessageID identifies the announcement this record was derived
	// from. It is unique per record and drives idempotency: the same
	// announcement delivered twice is detected as a duplicate, a different
	// announcement for the same pair is a conflict.
	SourceMessageID string `gorm:"column:source_message_id;size:64;uniqueIndex" json:"source_message_id"`

	// PlayedAt is when the announcement was posted, as reported by the
	// message source. Time-window queries filter on it, so a backfilled
	// record windows the same as a live one.
	PlayedAt time.Time `gorm:"column:played_at" json:"played_at"`

	// RecordedAt is when the record was ingested, not when the puzzle was
	// played.
	RecordedAt time.Time `gorm:"column:recorded_at" json:"recorded_at"`
}

// TableName overrides the gorm table name.
func (PuzzleResult) TableName() string {
	return "puzzle_results"
}

// Solved reports whether the puzzle was solved within six guesses.
func (r PuzzleResult) Solved() bool {
	return r.Attempts != AttemptsFailed
}

// SameDerived reports whether two records carry the same parser-derived
// fields (attempts and hard mode), regardless of provenance.
func (r PuzzleResult) SameDerived(other PuzzleResult) bool {
	return r.Attempts == other.Attempts && r.HardMode == other.HardMode
}

// Message is the fixed, validated input the core accepts from the message
// source collaborator. Dynamic gateway payloads are mapped to this struct at
// the ingestion boundary; nothing gateway-specific enters the core.
type Message struct {
	// ID is the collaborator's identifier for the announcement message.
	ID string `json:"id"`

	// AuthorID identifies the player the announcement is about.
	AuthorID string `json:"author_id"`

	// ChannelID is the channel the message was posted in.
	ChannelID string `json:"channel_id"`

	// Content is the raw text body of the announcement.
	Content string `json:"content"`

	// Timestamp is when the message was posted. The reconciler uses it to
	// order corrections when the source cannot guarantee oldest-first order.
	Timestamp time.Time `json:"timestamp"`
}
