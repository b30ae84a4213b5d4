package store

import (
	"context"
	"sort"
	"sync"

	"wordle-tracker/feature/wordle/models"
)

// MemoryStore is an in-process Store used when no database is configured and
// throughout the test suite. Records are lost on restart; a rescan rebuilds
// them from channel history.
type MemoryStore struct {
	mu      sync.Mutex
	results map[memoryKey]models.PuzzleResult
}

type memoryKey struct {
	userID       string
	puzzleNumber int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{results: make(map[memoryKey]models.PuzzleResult)}
}

// Get returns the stored result for (userID, puzzleNumber), or nil when absent.
func (s *MemoryStore) Get(ctx context.Context, userID string, puzzleNumber int) (*models.PuzzleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result, ok := s.results[memoryKey{userID, puzzleNumber}]; ok {
		r := result
		return &r, nil
	}
	return nil, nil
}

// InsertIfAbsent inserts the record unless the (user, puzzle) pair exists.
func (s *MemoryStore) InsertIfAbsent(ctx context.Context, result models.PuzzleResult) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{result.UserID, result.PuzzleNumber}
	if _, ok := s.results[key]; ok {
		return false, nil
	}
	s.results[key] = result
	return true, nil
}

// Overwrite replaces the stored record for the result's pair.
func (s *MemoryStore) Overwrite(ctx context.Context, result models.PuzzleResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[memoryKey{result.UserID, result.PuzzleNumber}] = result
	return nil
}

// ListByUser returns all results for one player, ordered by puzzle number.
func (s *MemoryStore) ListByUser(ctx context.Context, userID string) ([]models.PuzzleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var results []models.PuzzleResult
	for key, result := range s.results {
		if key.userID == userID {
			results = append(results, result)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].PuzzleNumber < results[j].PuzzleNumber
	})
	return results, nil
}

// ListAll returns every stored result, ordered by user then puzzle number.
func (s *MemoryStore) ListAll(ctx context.Context) ([]models.PuzzleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]models.PuzzleResult, 0, len(s.results))
	for _, result := range s.results {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].UserID != results[j].UserID {
			return results[i].UserID < results[j].UserID
		}
		return results[i].PuzzleNumber < results[j].PuzzleNumber
	})
	return results, nil
}
