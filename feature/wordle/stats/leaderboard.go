package stats

import (
	"sort"

	"wordle-tracker/feature/wordle/models"
)

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	// Rank starts at 1 for the best player.
	Rank int `json:"rank"`

	Stats UserStats `json:"stats"`
}

// Rank groups results by player, computes their stats, and orders them by
// the leaderboard key. The ordering is a total order and therefore stable
// across runs for identical data:
//
//  1. average attempts ascending; players with no solved puzzle (no average)
//     sort after every player that has one
//  2. win rate descending
//  3. total results descending (more data is more trustworthy)
//  4. user id ascending
//
// Rank is a pure function of its input.
func Rank(results []models.PuzzleResult) []LeaderboardEntry {
	byUser := make(map[string][]models.PuzzleResult)
	for _, r := range results {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}

	entries := make([]LeaderboardEntry, 0, len(byUser))
	for userID, userResults := range byUser {
		entries = append(entries, LeaderboardEntry{Stats: Compute(userID, userResults)})
	}

	sort.Slice(entries, func(i, j int) bool {
		return leaderboardLess(entries[i].Stats, entries[j].Stats)
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// leaderboardLess implements the composite leaderboard key.
func leaderboardLess(a, b UserStats) bool {
	if a.HasAverage != b.HasAverage {
		return a.HasAverage
	}
	if a.HasAverage && a.AverageAttempts != b.AverageAttempts {
		return a.AverageAttempts < b.AverageAttempts
	}
	if a.WinRate != b.WinRate {
		return a.WinRate > b.WinRate
	}
	if a.TotalGames != b.TotalGames {
		return a.TotalGames > b.TotalGames
	}
	return a.UserID < b.UserID
}
