package store

import (
	"context"

	"wordle-tracker/feature/wordle/models"
)

// Store is the persistence interface the core depends on. It is the only
// shared mutable resource in the system; per-(user, puzzle) serialization is
// the store's responsibility, provided by InsertIfAbsent's atomicity under
// concurrent callers (a uniqueness constraint on the backing table).
type Store interface {
	// Get returns the stored result for (userID, puzzleNumber), or nil when
	// no record exists.
	Get(ctx context.Context, userID string, puzzleNumber int) (*models.PuzzleResult, error)

	// InsertIfAbsent atomically inserts the record unless one already exists
	// for its (user, puzzle) pair. It reports whether the insert happened.
	InsertIfAbsent(ctx context.Context, result models.PuzzleResult) (bool, error)

	// Overwrite replaces the stored record for the result's (user, puzzle)
	// pair. Only the reconciler calls this; live ingestion never overwrites.
	Overwrite(ctx context.Context, result models.PuzzleResult) error

	// ListByUser returns all results for one player, ordered by puzzle number.
	ListByUser(ctx context.Context, userID string) ([]models.PuzzleResult, error)

	// ListAll returns every stored result, ordered by user then puzzle number.
	ListAll(ctx context.Context) ([]models.PuzzleResult, error)
}
