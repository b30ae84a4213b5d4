package store

import (
	"context"
	"errors"
	"fmt"

	"wordle-tracker/feature/wordle/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists puzzle results in a relational database through GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the puzzle_results table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.PuzzleResult{}); err != nil {
		return fmt.Errorf("failed to migrate puzzle_results: %w", err)
	}
	return nil
}

// Get returns the stored result for (userID, puzzleNumber), or nil when absent.
func (s *GormStore) Get(ctx context.Context, userID string, puzzleNumber int) (*models.PuzzleResult, error) {
	var result models.PuzzleResult
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND puzzle_number = ?", userID, puzzleNumber).
		Take(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read puzzle result: %w", err)
	}
	return &result, nil
}

// InsertIfAbsent inserts the record unless the (user, puzzle) pair exists.
// Atomicity comes from the primary key constraint: concurrent callers race on
// the database, not on in-process state.
func (s *GormStore) InsertIfAbsent(ctx context.Context, result models.PuzzleResult) (bool, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&result)
	if res.Error != nil {
		return false, fmt.Errorf("failed to insert puzzle result: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Overwrite replaces the stored record for the result's pair, inserting when
// no record exists.
func (s *GormStore) Overwrite(ctx context.Context, result models.PuzzleResult) error {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "puzzle_number"}},
			UpdateAll: true,
		}).
		Create(&result)
	if res.Error != nil {
		return fmt.Errorf("failed to overwrite puzzle result: %w", res.Error)
	}
	return nil
}

// ListByUser returns all results for one player, ordered by puzzle number.
func (s *GormStore) ListByUser(ctx context.Context, userID string) ([]models.PuzzleResult, error) {
	var results []models.PuzzleResult
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("puzzle_number ASC").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list puzzle results for user: %w", err)
	}
	return results, nil
}

// ListAll returns every stored result, ordered by user then puzzle number.
func (s *GormStore) ListAll(ctx context.Context) ([]models.PuzzleResult, error) {
	var results []models.PuzzleResult
	err := s.db.WithContext(ctx).
		Order("user_id ASC, puzzle_number ASC").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list puzzle results: %w", err)
	}
	return results, nil
}
