package wordle

import (
	"context"
	"errors"
	"time"

	"wordle-tracker/feature/wordle/ingest"
	"wordle-tracker/feature/wordle/models"
	"wordle-tracker/feature/wordle/reconcile"
	"wordle-tracker/feature/wordle/stats"
	"wordle-tracker/feature/wordle/store"

	"go.uber.org/zap"
)

// HistoryFactory opens a fresh oldest-first history stream for a rescan.
// Rescans are restartable from the beginning only, so every rescan gets a
// new stream.
type HistoryFactory func(ctx context.Context) (reconcile.HistorySource, error)

// ErrNoHistorySource is returned when a rescan is requested but no history
// source is configured.
var ErrNoHistorySource = errors.New("no history source configured")

// Service bundles the tracker core: live ingestion, rescan, and stat
// queries over one shared store. It holds no cross-request state beyond the
// store handle and the reconciler's single-flight guard.
type Service struct {
	store      store.Store
	pipeline   *ingest.Pipeline
	reconciler *reconcile.Reconciler
	aggregator *stats.Aggregator
	history    HistoryFactory
	logger     *zap.Logger
}

// NewService wires the core components over the given store. history may be
// nil when no rescan source exists (rescans will be rejected).
func NewService(s store.Store, history HistoryFactory, logger *zap.Logger) *Service {
	return &Service{
		store:      s,
		pipeline:   ingest.NewPipeline(s, logger),
		reconciler: reconcile.NewReconciler(s, logger),
		aggregator: stats.NewAggregator(s),
		history:    history,
		logger:     logger,
	}
}

// SetHistory installs the rescan source after construction. The gateway that
// provides the history stream needs the service first, so wiring happens in
// two steps during startup, before any rescan can run.
func (s *Service) SetHistory(history HistoryFactory) {
	s.history = history
}

// Ingest processes one live announcement message.
func (s *Service) Ingest(ctx context.Context, msg models.Message) (ingest.Outcome, error) {
	return s.pipeline.Ingest(ctx, msg)
}

// Rescan opens a fresh history stream and reconciles it against the store.
func (s *Service) Rescan(ctx context.Context) (*reconcile.Report, error) {
	if s.history == nil {
		return nil, ErrNoHistorySource
	}
	history, err := s.history(ctx)
	if err != nil {
		return nil, err
	}
	return s.reconciler.Rescan(ctx, history)
}

// UserStats computes metrics for one player, optionally windowed.
func (s *Service) UserStats(ctx context.Context, userID string, since time.Time) (stats.UserStats, error) {
	return s.aggregator.UserStats(ctx, userID, since)
}

// Leaderboard computes the ranked leaderboard, optionally windowed.
func (s *Service) Leaderboard(ctx context.Context, since time.Time) ([]stats.LeaderboardEntry, error) {
	return s.aggregator.Leaderboard(ctx, since)
}

// Empty reports whether the store has no records yet. The start command uses
// it to trigger the automatic initial rescan.
func (s *Service) Empty(ctx context.Context) (bool, error) {
	results, err := s.store.ListAll(ctx)
	if err != nil {
		return false, err
	}
	return len(results) == 0, nil
}
