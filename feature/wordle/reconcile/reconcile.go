package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync/atomic"
	"time"

	"wordle-tracker/feature/wordle/models"
	"wordle-tracker/feature/wordle/parser"
	"wordle-tracker/feature/wordle/store"

	"go.uber.org/zap"
)

// ErrRescanActive is returned when a rescan is requested while another is
// still running. A second invocation is rejected, never queued.
var ErrRescanActive = errors.New("a rescan is already in progress")

// HistorySource yields historical channel messages, oldest first. Next
// returns io.EOF when the history is exhausted. Sources are finite and
// restartable from the beginning only; no resume cursor is kept.
type HistorySource interface {
	Next(ctx context.Context) (*models.Message, error)
}

// SliceHistory adapts an in-memory message slice to HistorySource.
type SliceHistory struct {
	messages []models.Message
	pos      int
}

// NewSliceHistory wraps messages in stream order.
func NewSliceHistory(messages []models.Message) *SliceHistory {
	return &SliceHistory{messages: messages}
}

// Next returns the next message or io.EOF.
func (h *SliceHistory) Next(ctx context.Context) (*models.Message, error) {
	if h.pos >= len(h.messages) {
		return nil, io.EOF
	}
	msg := h.messages[h.pos]
	h.pos++
	return &msg, nil
}

// Report summarizes one rescan pass so an operator can judge data health.
type Report struct {
	// Scanned is the number of history messages consumed.
	Scanned int `json:"scanned"`
	// Inserted counts records backfilled for pairs missing from the store.
	Inserted int `json:"inserted"`
	// Corrected counts stored records overwritten with re-derived values.
	Corrected int `json:"corrected"`
	// Conflicted counts pairs with ambiguous provenance, recorded for manual
	// review and left untouched.
	Conflicted int `json:"conflicted"`
}

// Reconciler rebuilds and repairs the stored result set from channel history.
// Unlike live ingestion, it is the authority for fixing drift: where history
// and store disagree and the stored record's announcement is itself part of
// the scanned history, the re-derived value wins. True ambiguity is never
// resolved by guessing.
type Reconciler struct {
	store   store.Store
	logger  *zap.Logger
	running atomic.Bool
}

// NewReconciler creates a reconciler over the given store.
func NewReconciler(s store.Store, logger *zap.Logger) *Reconciler {
	return &Reconciler{store: s, logger: logger}
}

// pairKey identifies one (user, puzzle) primary-key pair.
type pairKey struct {
	userID       string
	puzzleNumber int
}

// candidate is the current winning derivation for a pair during a scan.
type candidate struct {
	result    models.PuzzleResult
	timestamp time.Time
}

// Rescan walks the full history and merges the re-derived result set against
// stored state. At most one rescan runs at a time; concurrent invocations get
// ErrRescanActive. A parse failure never aborts the scan; a store failure
// aborts the remaining pass, and mutations applied up to that point remain
// committed. The returned report is valid even when an error is returned.
func (r *Reconciler) Rescan(ctx context.Context, history HistorySource) (*Report, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, ErrRescanActive
	}
	defer r.running.Store(false)

	report := &Report{}

	candidates, seen, err := r.scan(ctx, history, report)
	if err != nil {
		return report, err
	}

	if err := r.merge(ctx, candidates, seen, report); err != nil {
		return report, err
	}

	r.logger.Info("Rescan complete",
		zap.Int("scanned", report.Scanned),
		zap.Int("inserted", report.Inserted),
		zap.Int("corrected", report.Corrected),
		zap.Int("conflicted", report.Conflicted),
	)
	return report, nil
}

// scan consumes the history and re-derives one winning candidate per pair.
// When the same pair appears more than once, the later message wins: history
// order reflects the upstream bot's own correction order. Timestamps guard
// against sources that cannot guarantee oldest-first delivery; within equal
// timestamps, stream position decides.
func (r *Reconciler) scan(ctx context.Context, history HistorySource, report *Report) (map[pairKey]candidate, map[string]struct{}, error) {
	candidates := make(map[pairKey]candidate)
	seen := make(map[string]struct{})

	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		msg, err := history.Next(ctx)
		if errors.Is(err, io.EOF) {
			return candidates, seen, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("history read failed: %w", err)
		}
		report.Scanned++

		result, err := parser.Parse(*msg)
		if errors.Is(err, parser.ErrNotApplicable) {
			continue
		}
		if err != nil {
			// Isolate and continue: one bad message never aborts a rescan.
			r.logger.Warn("Skipping unparsable history message",
				zap.String("message_id", msg.ID),
				zap.Error(err),
			)
			continue
		}

		seen[result.SourceMessageID] = struct{}{}

		key := pairKey{result.UserID, result.PuzzleNumber}
		next := candidate{result: *result, timestamp: msg.Timestamp}
		if prev, ok := candidates[key]; ok && next.timestamp.Before(prev.timestamp) {
			continue
		}
		candidates[key] = next
	}
}

// merge applies the re-derived candidates against the store, one pair at a
// time in deterministic order.
func (r *Reconciler) merge(ctx context.Context, candidates map[pairKey]candidate, seen map[string]struct{}, report *Report) error {
	keys := make([]pairKey, 0, len(candidates))
	for key := range candidates {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].userID != keys[j].userID {
			return keys[i].userID < keys[j].userID
		}
		return keys[i].puzzleNumber < keys[j].puzzleNumber
	})

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}

		derived := candidates[key].result

		stored, err := r.store.Get(ctx, key.userID, key.puzzleNumber)
		if err != nil {
			return err
		}

		if stored == nil {
			derived.RecordedAt = time.Now().UTC()
			inserted, err := r.store.InsertIfAbsent(ctx, derived)
			if err != nil {
				return err
			}
			if inserted {
				report.Inserted++
				continue
			}
			// Lost a race with live ingestion; re-read and compare below.
			stored, err = r.store.Get(ctx, key.userID, key.puzzleNumber)
			if err != nil {
				return err
			}
			if stored == nil {
				continue
			}
		}

		if stored.SourceMessageID == derived.SourceMessageID {
			if !stored.SameDerived(derived) {
				// The announcement was edited in place. Whether an edit is a
				// correction is unknowable here, so route to manual review.
				report.Conflicted++
				r.logConflict("announcement edited in place", stored, derived)
			}
			continue
		}

		if stored.SameDerived(derived) {
			// Different announcement, same outcome: stored data is correct.
			continue
		}

		if _, ok := seen[stored.SourceMessageID]; ok {
			// The stored record came from an earlier announcement that the
			// scan also saw; the later message supersedes it.
			derived.RecordedAt = time.Now().UTC()
			if err := r.store.Overwrite(ctx, derived); err != nil {
				return err
			}
			report.Corrected++
			continue
		}

		// The stored record's announcement is nowhere in history, so the
		// scan's candidate has no higher confidence. Leave it untouched.
		report.Conflicted++
		r.logConflict("stored announcement not found in history", stored, derived)
	}

	return nil
}

func (r *Reconciler) logConflict(why string, stored *models.PuzzleResult, derived models.PuzzleResult) {
	r.logger.Warn("Reconcile conflict: "+why,
		zap.String("user_id", stored.UserID),
		zap.Int("puzzle_number", stored.PuzzleNumber),
		zap.String("stored_message_id", stored.SourceMessageID),
		zap.String("derived_message_id", derived.SourceMessageID),
		zap.Int("stored_attempts", stored.Attempts),
		zap.Int("derived_attempts", derived.Attempts),
	)
}
