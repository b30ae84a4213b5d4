package cmd

import (
	"context"
	"fmt"

	"wordle-tracker/core/config"
	"wordle-tracker/core/database"
	"wordle-tracker/core/logger"
	"wordle-tracker/core/storage"
	"wordle-tracker/feature/archive"
	"wordle-tracker/feature/discord"
	"wordle-tracker/feature/wordle"
	"wordle-tracker/feature/wordle/reconcile"
	"wordle-tracker/feature/wordle/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rescanSource string

// rescanCmd runs a one-shot full-history reconciliation and exits.
var rescanCmd = &cobra.Command{
	Use:   "rescan",
	Short: "Rescan the full channel history against the stored results",
	Long: `Rescan replays the complete announcement history and reconciles it
against the result store: missing results are inserted, stale ones corrected,
and ambiguous ones reported as conflicts without being touched.

The source is the message archive by default; pass --source discord to page
the channel history through the Discord API instead.

Examples:
  # Rescan from the object-storage archive
  rescan

  # Rescan directly from the Discord channel
  rescan --source discord`,
	RunE: runRescan,
}

func init() {
	rescanCmd.Flags().StringVar(&rescanSource, "source", "archive", "History source to replay (archive, discord)")
	RootCmd.AddCommand(rescanCmd)
}

func runRescan(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	// A one-shot rescan only makes sense against a persistent store.
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := store.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	service := wordle.NewService(store.NewGormStore(db), nil, l)

	switch rescanSource {
	case "archive":
		if !cfg.Storage.Enabled {
			return fmt.Errorf("archive source requires storage to be enabled")
		}
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		arch := archive.New(client, cfg.Storage.Bucket, l)
		channelID := cfg.Discord.ChannelID
		service.SetHistory(func(ctx context.Context) (reconcile.HistorySource, error) {
			return arch.History(ctx, channelID), nil
		})
	case "discord":
		if !cfg.Discord.IsEnabled() {
			return fmt.Errorf("discord source requires a token and channel id")
		}
		// The gateway is used for its REST client only; the websocket stays
		// closed for a one-shot rescan.
		gateway, err := discord.NewGateway(cfg.Discord, service, nil, l)
		if err != nil {
			return fmt.Errorf("failed to create discord gateway: %w", err)
		}
		service.SetHistory(gateway.HistoryFactory())
	default:
		return fmt.Errorf("unknown history source %q", rescanSource)
	}

	l.Info("Starting history rescan", zap.String("source", rescanSource))

	report, err := service.Rescan(ctx)
	if report != nil {
		// Partial progress stays committed even when the rescan aborts.
		l.Info("Rescan report",
			zap.Int("scanned", report.Scanned),
			zap.Int("inserted", report.Inserted),
			zap.Int("corrected", report.Corrected),
			zap.Int("conflicted", report.Conflicted),
		)
	}
	if err != nil {
		return fmt.Errorf("rescan failed: %w", err)
	}
	return nil
}
