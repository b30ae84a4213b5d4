package discord

import (
	"fmt"
	"strings"
	"time"

	"wordle-tracker/feature/wordle/stats"

	"github.com/bwmarrin/discordgo"
)

const embedColor = 0x6AAA64 // Wordle green

// maxBarWidth bounds the guess-distribution bars so a prolific player's
// embed stays readable on mobile.
const maxBarWidth = 16

var medals = []string{"🥇", "🥈", "🥉"}

func statsEmbed(username string, s stats.UserStats, days int) *discordgo.MessageEmbed {
	average := "—"
	if s.HasAverage {
		average = fmt.Sprintf("%.2f", s.AverageAttempts)
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Games", Value: fmt.Sprintf("%d", s.TotalGames), Inline: true},
		{Name: "Win rate", Value: fmt.Sprintf("%.0f%%", s.WinRate*100), Inline: true},
		{Name: "Avg guesses", Value: average, Inline: true},
		{Name: "Current streak", Value: fmt.Sprintf("%d", s.CurrentStreak), Inline: true},
		{Name: "Max streak", Value: fmt.Sprintf("%d", s.MaxStreak), Inline: true},
		{Name: "Hard mode", Value: fmt.Sprintf("%d", s.HardModeGames), Inline: true},
		{Name: "Guess distribution", Value: distributionText(s)},
	}

	return &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("Wordle stats — %s", username),
		Color:  embedColor,
		Fields: fields,
		Footer: windowFooter(days),
	}
}

func leaderboardEmbed(entries []stats.LeaderboardEntry, days int) *discordgo.MessageEmbed {
	var b strings.Builder
	for _, e := range entries {
		prefix := fmt.Sprintf("%d.", e.Rank)
		if e.Rank <= len(medals) {
			prefix = medals[e.Rank-1]
		}

		average := "—"
		if e.Stats.HasAverage {
			average = fmt.Sprintf("%.2f", e.Stats.AverageAttempts)
		}
		fmt.Fprintf(&b, "%s <@%s> — avg %s, %.0f%% wins, %d games\n",
			prefix, e.Stats.UserID, average, e.Stats.WinRate*100, e.Stats.TotalGames)
	}

	return &discordgo.MessageEmbed{
		Title:       "Wordle leaderboard",
		Color:       embedColor,
		Description: b.String(),
		Footer:      windowFooter(days),
	}
}

// distributionText renders one bar per guess count, scaled to the largest
// bucket.
func distributionText(s stats.UserStats) string {
	peak := 0
	for _, n := range s.GuessDistribution {
		if n > peak {
			peak = n
		}
	}
	if peak == 0 {
		return "No solved puzzles yet."
	}

	var b strings.Builder
	for i, n := range s.GuessDistribution {
		width := n * maxBarWidth / peak
		if n > 0 && width == 0 {
			width = 1
		}
		fmt.Fprintf(&b, "`%d` %s %d\n", i+1, strings.Repeat("█", width), n)
	}
	return b.String()
}

func windowFooter(days int) *discordgo.MessageEmbedFooter {
	if days <= 0 {
		return nil
	}
	return &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Last %d days", days)}
}

// sinceFromDays converts the optional days option to an absolute cutoff.
func sinceFromDays(days int) time.Time {
	if days <= 0 {
		return time.Time{}
	}
	return time.Now().UTC().AddDate(0, 0, -days)
}
