package discord

import (
	"context"
	"errors"
	"fmt"

	"wordle-tracker/feature/wordle/reconcile"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	commandStats       = "wordle-stats"
	commandLeaderboard = "wordle-leaderboard"
	commandRescan      = "wordle-rescan"
)

// registerCommands creates the slash commands, scoped to the configured
// guild when one is set (guild commands propagate immediately).
func (g *Gateway) registerCommands() error {
	adminOnly := int64(discordgo.PermissionAdministrator)

	daysOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "days",
		Description: "Only include puzzles played in the last N days",
	}

	definitions := []*discordgo.ApplicationCommand{
		{
			Name:        commandStats,
			Description: "Show Wordle statistics for a player",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Player to look up (defaults to you)",
				},
				daysOption,
			},
		},
		{
			Name:        commandLeaderboard,
			Description: "Show the Wordle leaderboard",
			Options:     []*discordgo.ApplicationCommandOption{daysOption},
		},
		{
			Name:                     commandRescan,
			Description:              "Rescan the full channel history (admin only)",
			DefaultMemberPermissions: &adminOnly,
		},
	}

	for _, def := range definitions {
		cmd, err := g.session.ApplicationCommandCreate(g.session.State.User.ID, g.cfg.GuildID, def)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", def.Name, err)
		}
		g.commands = append(g.commands, cmd)
	}
	return nil
}

func (g *Gateway) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case commandStats:
		g.handleStatsCommand(s, i)
	case commandLeaderboard:
		g.handleLeaderboardCommand(s, i)
	case commandRescan:
		g.handleRescanCommand(s, i)
	}
}

func (g *Gateway) handleStatsCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := deferReply(s, i); err != nil {
		g.logger.Warn("Failed to defer interaction", zap.Error(err))
		return
	}

	target := invoker(i)
	var days int
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			target = opt.UserValue(s)
		case "days":
			days = int(opt.IntValue())
		}
	}

	userStats, err := g.service.UserStats(context.Background(), target.ID, sinceFromDays(days))
	if err != nil {
		g.followupError(s, i, "Error retrieving stats.")
		g.logger.Error("Stats command failed", zap.String("user_id", target.ID), zap.Error(err))
		return
	}
	if userStats.TotalGames == 0 {
		g.followupText(s, i, fmt.Sprintf("No Wordle data found for %s.", target.Username))
		return
	}

	g.followupEmbed(s, i, statsEmbed(target.Username, userStats, days))
}

func (g *Gateway) handleLeaderboardCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := deferReply(s, i); err != nil {
		g.logger.Warn("Failed to defer interaction", zap.Error(err))
		return
	}

	var days int
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "days" {
			days = int(opt.IntValue())
		}
	}

	entries, err := g.service.Leaderboard(context.Background(), sinceFromDays(days))
	if err != nil {
		g.followupError(s, i, "Error generating leaderboard.")
		g.logger.Error("Leaderboard command failed", zap.Error(err))
		return
	}
	if len(entries) == 0 {
		g.followupText(s, i, "No Wordle data recorded yet.")
		return
	}

	g.followupEmbed(s, i, leaderboardEmbed(entries, days))
}

func (g *Gateway) handleRescanCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := deferReply(s, i); err != nil {
		g.logger.Warn("Failed to defer interaction", zap.Error(err))
		return
	}

	report, err := g.service.Rescan(context.Background())
	if errors.Is(err, reconcile.ErrRescanActive) {
		g.followupText(s, i, "A rescan is already in progress.")
		return
	}
	if err != nil {
		g.followupError(s, i, "Rescan failed; check the logs.")
		g.logger.Error("Rescan command failed", zap.Error(err))
		return
	}

	g.followupText(s, i, fmt.Sprintf(
		"Rescan complete: %d messages scanned, %d inserted, %d corrected, %d conflicted.",
		report.Scanned, report.Inserted, report.Corrected, report.Conflicted,
	))
}

// invoker returns the user behind an interaction, wherever it came from.
func invoker(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

func deferReply(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

func (g *Gateway) followupText(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{Content: content}); err != nil {
		g.logger.Warn("Failed to send followup", zap.Error(err))
	}
}

func (g *Gateway) followupError(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	g.followupText(s, i, content)
}

func (g *Gateway) followupEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	}); err != nil {
		g.logger.Warn("Failed to send followup embed", zap.Error(err))
	}
}
