package discord

import (
	"strings"
	"testing"
	"time"

	"wordle-tracker/feature/wordle/stats"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToModelMessage(t *testing.T) {
	ts := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	t.Run("BotAnnouncementUsesFirstMention", func(t *testing.T) {
		m := &discordgo.Message{
			ID:        "m1",
			ChannelID: "chan-1",
			Content:   "Wordle 100 4/6 <@111>",
			Author:    &discordgo.User{ID: "bot-id"},
			Mentions:  []*discordgo.User{{ID: "111"}, {ID: "222"}},
			Timestamp: ts,
		}

		msg := toModelMessage(m, "bot-id")
		assert.Equal(t, "111", msg.AuthorID)
		assert.Equal(t, "m1", msg.ID)
		assert.Equal(t, "chan-1", msg.ChannelID)
		assert.Equal(t, ts, msg.Timestamp)
	})

	t.Run("SelfPostedShareKeepsAuthor", func(t *testing.T) {
		m := &discordgo.Message{
			ID:        "m2",
			ChannelID: "chan-1",
			Content:   "Wordle 100 4/6",
			Author:    &discordgo.User{ID: "player-id"},
			Timestamp: ts,
		}

		msg := toModelMessage(m, "bot-id")
		assert.Equal(t, "player-id", msg.AuthorID)
	})

	t.Run("BotAnnouncementWithoutMentionKeepsBotAuthor", func(t *testing.T) {
		m := &discordgo.Message{
			ID:        "m3",
			ChannelID: "chan-1",
			Content:   "Wordle 100 4/6",
			Author:    &discordgo.User{ID: "bot-id"},
			Timestamp: ts,
		}

		msg := toModelMessage(m, "bot-id")
		assert.Equal(t, "bot-id", msg.AuthorID)
	})
}

func TestDistributionText(t *testing.T) {
	t.Run("NoSolves", func(t *testing.T) {
		assert.Equal(t, "No solved puzzles yet.", distributionText(stats.UserStats{}))
	})

	t.Run("BarsScaleToPeak", func(t *testing.T) {
		s := stats.UserStats{}
		s.GuessDistribution[2] = 8 // 3-guess solves, the peak
		s.GuessDistribution[3] = 4
		s.GuessDistribution[5] = 1

		text := distributionText(s)
		lines := strings.Split(strings.TrimSpace(text), "\n")
		require.Len(t, lines, 6)

		assert.Contains(t, lines[2], strings.Repeat("█", maxBarWidth))
		assert.Contains(t, lines[3], strings.Repeat("█", maxBarWidth/2))
		// A non-zero bucket always renders at least one block.
		assert.Contains(t, lines[5], "█")
		assert.NotContains(t, lines[0], "█")
	})
}

func TestLeaderboardEmbed(t *testing.T) {
	entries := []stats.LeaderboardEntry{
		{Rank: 1, Stats: stats.UserStats{UserID: "u1", TotalGames: 5, WinRate: 1.0, HasAverage: true, AverageAttempts: 2.5}},
		{Rank: 2, Stats: stats.UserStats{UserID: "u2", TotalGames: 5, WinRate: 0.8, HasAverage: true, AverageAttempts: 3.5}},
		{Rank: 3, Stats: stats.UserStats{UserID: "u3", TotalGames: 5, WinRate: 0.6, HasAverage: true, AverageAttempts: 4.0}},
		{Rank: 4, Stats: stats.UserStats{UserID: "u4", TotalGames: 2, WinRate: 0.0}},
	}

	embed := leaderboardEmbed(entries, 0)
	require.NotNil(t, embed)
	assert.Nil(t, embed.Footer)

	lines := strings.Split(strings.TrimSpace(embed.Description), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "🥇"))
	assert.True(t, strings.HasPrefix(lines[1], "🥈"))
	assert.True(t, strings.HasPrefix(lines[2], "🥉"))
	assert.True(t, strings.HasPrefix(lines[3], "4."))
	assert.Contains(t, lines[3], "avg —")
}

func TestStatsEmbed(t *testing.T) {
	s := stats.UserStats{
		UserID:          "u1",
		TotalGames:      10,
		Wins:            9,
		WinRate:         0.9,
		HasAverage:      true,
		AverageAttempts: 3.44,
		CurrentStreak:   4,
		MaxStreak:       7,
	}

	embed := statsEmbed("alice", s, 30)
	require.NotNil(t, embed)
	assert.Contains(t, embed.Title, "alice")
	require.NotNil(t, embed.Footer)
	assert.Contains(t, embed.Footer.Text, "30")

	var average string
	for _, f := range embed.Fields {
		if f.Name == "Avg guesses" {
			average = f.Value
		}
	}
	assert.Equal(t, "3.44", average)
}

func TestSinceFromDays(t *testing.T) {
	assert.True(t, sinceFromDays(0).IsZero())
	assert.True(t, sinceFromDays(-1).IsZero())

	since := sinceFromDays(7)
	assert.False(t, since.IsZero())
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, -7), since, time.Minute)
}
