package cmd

import (
	"context"
	"fmt"
	"time"

	"wordle-tracker/core/config"
	"wordle-tracker/core/database"
	"wordle-tracker/feature/wordle/stats"
	"wordle-tracker/feature/wordle/store"

	"github.com/spf13/cobra"
)

var statsDays int

// statsCmd prints derived metrics straight from the database, bypassing the
// running server. Useful for spot checks during operations.
var statsCmd = &cobra.Command{
	Use:   "stats [user_id]",
	Short: "Print the leaderboard, or one player's stats",
	Long: `Stats reads the result store directly and prints either the ranked
leaderboard (no arguments) or the full metrics of one player.

Examples:
  # Ranked leaderboard over all recorded results
  stats

  # One player's metrics over the last 30 days
  stats 123456789012345678 --days 30`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsDays, "days", 0, "Only include puzzles played in the last N days")
	RootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	aggregator := stats.NewAggregator(store.NewGormStore(db))

	var since time.Time
	if statsDays > 0 {
		since = time.Now().UTC().AddDate(0, 0, -statsDays)
	}

	if len(args) == 1 {
		return printUserStats(ctx, aggregator, args[0], since)
	}
	return printLeaderboard(ctx, aggregator, since)
}

func printUserStats(ctx context.Context, aggregator *stats.Aggregator, userID string, since time.Time) error {
	s, err := aggregator.UserStats(ctx, userID, since)
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}
	if s.TotalGames == 0 {
		fmt.Printf("No results recorded for %s\n", userID)
		return nil
	}

	fmt.Printf("User:            %s\n", s.UserID)
	fmt.Printf("Games:           %d\n", s.TotalGames)
	fmt.Printf("Wins:            %d (%.0f%%)\n", s.Wins, s.WinRate*100)
	if s.HasAverage {
		fmt.Printf("Avg guesses:     %.2f\n", s.AverageAttempts)
	} else {
		fmt.Printf("Avg guesses:     n/a\n")
	}
	fmt.Printf("Current streak:  %d\n", s.CurrentStreak)
	fmt.Printf("Max streak:      %d\n", s.MaxStreak)
	fmt.Printf("Hard mode:       %d\n", s.HardModeGames)
	fmt.Printf("Distribution:   ")
	for i, n := range s.GuessDistribution {
		fmt.Printf(" %d:%d", i+1, n)
	}
	fmt.Println()
	return nil
}

func printLeaderboard(ctx context.Context, aggregator *stats.Aggregator, since time.Time) error {
	entries, err := aggregator.Leaderboard(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to compute leaderboard: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No results recorded yet")
		return nil
	}

	fmt.Printf("%-5s %-20s %-8s %-8s %s\n", "RANK", "USER", "AVG", "WINS", "GAMES")
	for _, e := range entries {
		average := "n/a"
		if e.Stats.HasAverage {
			average = fmt.Sprintf("%.2f", e.Stats.AverageAttempts)
		}
		fmt.Printf("%-5d %-20s %-8s %-8s %d\n",
			e.Rank, e.Stats.UserID, average,
			fmt.Sprintf("%.0f%%", e.Stats.WinRate*100), e.Stats.TotalGames)
	}
	return nil
}
