package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wordle-tracker/feature/wordle/models"
	"wordle-tracker/feature/wordle/parser"
	"wordle-tracker/feature/wordle/store"

	"go.uber.org/zap"
)

// Outcome classifies what the pipeline did with one live message.
type Outcome string

const (
	// OutcomeStored means a new record was inserted.
	OutcomeStored Outcome = "stored"
	// OutcomeDuplicate means a record for the (user, puzzle) pair already
	// exists; nothing was written.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeSkipped means the message is not a result announcement.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeRejected means the message looked like an announcement but a
	// required field was malformed.
	OutcomeRejected Outcome = "rejected"
)

// Pipeline consumes live announcement messages and upserts parsed results.
type Pipeline struct {
	store  store.Store
	logger *zap.Logger
}

// NewPipeline creates a live ingestion pipeline over the given store.
func NewPipeline(s store.Store, logger *zap.Logger) *Pipeline {
	return &Pipeline{store: s, logger: logger}
}

// Ingest processes one live message. It performs at most one insert, never
// overwrites an existing record (first writer wins on the live path; the
// upstream bot posts each result exactly once under normal operation), and
// returns an empty outcome only on store failure.
func (p *Pipeline) Ingest(ctx context.Context, msg models.Message) (Outcome, error) {
	result, err := parser.Parse(msg)
	if errors.Is(err, parser.ErrNotApplicable) {
		return OutcomeSkipped, nil
	}

	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		p.logger.Warn("Rejected malformed announcement",
			zap.String("message_id", msg.ID),
			zap.String("reason", string(parseErr.Reason)),
			zap.String("detail", parseErr.Detail),
		)
		return OutcomeRejected, nil
	}
	if err != nil {
		return "", fmt.Errorf("parse failed: %w", err)
	}

	result.RecordedAt = time.Now().UTC()

	inserted, err := p.store.InsertIfAbsent(ctx, *result)
	if err != nil {
		return "", err
	}
	if inserted {
		p.logger.Info("Stored puzzle result",
			zap.String("user_id", result.UserID),
			zap.Int("puzzle_number", result.PuzzleNumber),
			zap.Int("attempts", result.Attempts),
		)
		return OutcomeStored, nil
	}

	existing, err := p.store.Get(ctx, result.UserID, result.PuzzleNumber)
	if err != nil {
		return "", err
	}
	if existing != nil && existing.SourceMessageID != result.SourceMessageID {
		// The upstream bot reposted or edited an already-recorded result.
		// The live path stays conservative: keep the stored value and flag
		// the pair for the next rescan to settle.
		p.logger.Warn("Conflicting announcement for already-recorded puzzle, keeping stored value",
			zap.String("user_id", result.UserID),
			zap.Int("puzzle_number", result.PuzzleNumber),
			zap.String("stored_message_id", existing.SourceMessageID),
			zap.String("incoming_message_id", result.SourceMessageID),
		)
	}

	return OutcomeDuplicate, nil
}
