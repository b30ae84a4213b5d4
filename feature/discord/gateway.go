package discord

import (
	"context"
	"fmt"

	"wordle-tracker/feature/archive"
	"wordle-tracker/feature/wordle"
	"wordle-tracker/feature/wordle/models"
	"wordle-tracker/feature/wordle/reconcile"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Gateway connects the tracker core to Discord. It stays deliberately thin:
// gateway payloads are mapped to models.Message at this boundary and nothing
// discordgo-specific crosses into the core.
type Gateway struct {
	cfg     Config
	session *discordgo.Session
	service *wordle.Service
	archive *archive.Archive // nil when object storage is disabled
	logger  *zap.Logger

	commands []*discordgo.ApplicationCommand
}

// NewGateway creates a gateway over a fresh discordgo session.
func NewGateway(cfg Config, service *wordle.Service, arch *archive.Archive, logger *zap.Logger) (*Gateway, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	g := &Gateway{
		cfg:     cfg,
		session: session,
		service: service,
		archive: arch,
		logger:  logger,
	}
	session.AddHandler(g.onMessageCreate)
	session.AddHandler(g.onInteraction)
	return g, nil
}

// Start opens the gateway connection and registers the slash commands.
func (g *Gateway) Start() error {
	if err := g.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}

	if err := g.registerCommands(); err != nil {
		g.session.Close()
		return err
	}

	g.logger.Info("Discord gateway connected",
		zap.String("channel_id", g.cfg.ChannelID),
		zap.String("wordle_bot_user_id", g.cfg.WordleBotUserID),
	)
	return nil
}

// Stop deregisters the slash commands and closes the gateway connection.
func (g *Gateway) Stop() {
	for _, cmd := range g.commands {
		if err := g.session.ApplicationCommandDelete(g.session.State.User.ID, g.cfg.GuildID, cmd.ID); err != nil {
			g.logger.Warn("Failed to deregister command", zap.String("command", cmd.Name), zap.Error(err))
		}
	}
	if err := g.session.Close(); err != nil {
		g.logger.Warn("Failed to close discord session", zap.Error(err))
	}
}

// HistoryFactory returns a rescan source that pages through the tracked
// channel's full history, oldest first.
func (g *Gateway) HistoryFactory() wordle.HistoryFactory {
	return func(ctx context.Context) (reconcile.HistorySource, error) {
		return NewChannelHistory(g.session, g.cfg.ChannelID, g.cfg.WordleBotUserID), nil
	}
}

// onMessageCreate feeds live channel traffic into the ingestion pipeline.
func (g *Gateway) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.ChannelID != g.cfg.ChannelID {
		return
	}
	if g.cfg.WordleBotUserID != "" && m.Author.ID != g.cfg.WordleBotUserID {
		return
	}

	ctx := context.Background()
	msg := toModelMessage(m.Message, g.cfg.WordleBotUserID)

	if g.archive != nil {
		// Best effort: an archive failure must not drop the live result.
		if err := g.archive.Put(ctx, msg); err != nil {
			g.logger.Warn("Failed to archive announcement", zap.String("message_id", msg.ID), zap.Error(err))
		}
	}

	outcome, err := g.service.Ingest(ctx, msg)
	if err != nil {
		g.logger.Error("Live ingestion failed", zap.String("message_id", msg.ID), zap.Error(err))
		return
	}
	g.logger.Debug("Ingested live message",
		zap.String("message_id", msg.ID),
		zap.String("outcome", string(outcome)),
	)
}

// toModelMessage maps a gateway payload to the core's fixed input struct.
// Announcements posted by the upstream bot are about the first mentioned
// player; self-posted shares are about their author.
func toModelMessage(m *discordgo.Message, wordleBotUserID string) models.Message {
	authorID := m.Author.ID
	if authorID == wordleBotUserID && len(m.Mentions) > 0 {
		authorID = m.Mentions[0].ID
	}
	return models.Message{
		ID:        m.ID,
		AuthorID:  authorID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
}
