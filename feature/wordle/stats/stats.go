package stats

import (
	"context"
	"sort"
	"time"

	"wordle-tracker/feature/wordle/models"
	"wordle-tracker/feature/wordle/store"
)

// UserStats holds the derived metrics for one player. All values are computed
// fresh per query from stored results; nothing here is persisted.
type UserStats struct {
	UserID string `json:"user_id"`

	// TotalGames is the number of recorded results.
	TotalGames int `json:"total_games"`

	// Wins is the number of solved puzzles.
	Wins int `json:"wins"`

	// WinRate is Wins divided by TotalGames, 0 when no games are recorded.
	WinRate float64 `json:"win_rate"`

	// AverageAttempts is the mean attempts over solved puzzles only. It is
	// meaningful only when HasAverage is true.
	AverageAttempts float64 `json:"average_attempts"`

	// HasAverage is false when the player has no solved puzzle, in which
	// case AverageAttempts carries no data.
	HasAverage bool `json:"has_average"`

	// CurrentStreak counts consecutive most-recent puzzle numbers solved,
	// broken by a missing or failed entry. Gaps in the global puzzle
	// sequence break streaks; calendar dates are irrelevant.
	CurrentStreak int `json:"current_streak"`

	// MaxStreak is the longest such run across the player's history.
	MaxStreak int `json:"max_streak"`

	// GuessDistribution counts solved puzzles per attempts value; index 0
	// holds the count of 1-guess solves.
	GuessDistribution [models.MaxAttempts]int `json:"guess_distribution"`

	// HardModeGames counts results announced with the hard-mode marker.
	HardModeGames int `json:"hard_mode_games"`
}

// Compute derives all metrics for one player from their results. It is a
// pure function; the input slice is not modified.
func Compute(userID string, results []models.PuzzleResult) UserStats {
	s := UserStats{UserID: userID}
	if len(results) == 0 {
		return s
	}

	ordered := make([]models.PuzzleResult, len(results))
	copy(ordered, results)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].PuzzleNumber < ordered[j].PuzzleNumber
	})

	attemptsSum := 0
	for _, r := range ordered {
		s.TotalGames++
		if r.HardMode {
			s.HardModeGames++
		}
		if r.Solved() {
			s.Wins++
			attemptsSum += r.Attempts
			s.GuessDistribution[r.Attempts-1]++
		}
	}

	s.WinRate = float64(s.Wins) / float64(s.TotalGames)
	if s.Wins > 0 {
		s.AverageAttempts = float64(attemptsSum) / float64(s.Wins)
		s.HasAverage = true
	}

	s.CurrentStreak, s.MaxStreak = streaks(ordered)
	return s
}

// streaks computes the current and maximum runs of consecutive puzzle
// numbers with solved results. The input must be ordered by puzzle number.
func streaks(ordered []models.PuzzleResult) (current, max int) {
	run := 0
	for i, r := range ordered {
		if !r.Solved() {
			run = 0
			continue
		}
		if i > 0 && ordered[i-1].Solved() && ordered[i-1].PuzzleNumber == r.PuzzleNumber-1 {
			run++
		} else {
			run = 1
		}
		if run > max {
			max = run
		}
	}

	// The current streak is the run ending at the most recent result.
	if len(ordered) > 0 && ordered[len(ordered)-1].Solved() {
		current = run
	}
	return current, max
}

// Aggregator serves read-side stat queries over the store. It holds no state
// beyond the store handle and never mutates anything.
type Aggregator struct {
	store store.Store
}

// NewAggregator creates an aggregator over the given store.
func NewAggregator(s store.Store) *Aggregator {
	return &Aggregator{store: s}
}

// UserStats computes metrics for one player. A non-zero since restricts the
// computation to results played at or after that instant.
func (a *Aggregator) UserStats(ctx context.Context, userID string, since time.Time) (UserStats, error) {
	results, err := a.store.ListByUser(ctx, userID)
	if err != nil {
		return UserStats{}, err
	}
	return Compute(userID, filterSince(results, since)), nil
}

// Leaderboard computes and ranks stats for every recorded player. A non-zero
// since restricts the computation window.
func (a *Aggregator) Leaderboard(ctx context.Context, since time.Time) ([]LeaderboardEntry, error) {
	results, err := a.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return Rank(filterSince(results, since)), nil
}

// filterSince windows on the announcement timestamp, not the ingestion time:
// a rescan stamps a fresh RecordedAt on everything it touches, which must not
// pull years-old plays into a "last N days" view.
func filterSince(results []models.PuzzleResult, since time.Time) []models.PuzzleResult {
	if since.IsZero() {
		return results
	}
	filtered := make([]models.PuzzleResult, 0, len(results))
	for _, r := range results {
		if !r.PlayedAt.Before(since) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
