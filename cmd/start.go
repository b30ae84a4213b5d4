package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"wordle-tracker/core/config"
	"wordle-tracker/core/database"
	"wordle-tracker/core/loader"
	"wordle-tracker/core/logger"
	"wordle-tracker/core/middleware/auth"
	"wordle-tracker/core/middleware/rayid"
	"wordle-tracker/core/storage"
	"wordle-tracker/feature/archive"
	"wordle-tracker/feature/discord"
	"wordle-tracker/feature/wordle"
	"wordle-tracker/feature/wordle/reconcile"
	"wordle-tracker/feature/wordle/store"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// resultColumns are the columns the tracker expects on puzzle_results. The
// startup drift check uses them when auto-migration is disabled.
var resultColumns = []string{
	"user_id", "puzzle_number", "attempts", "hard_mode", "source_message_id", "played_at", "recorded_at",
}

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the wordle tracker",
	Long:  `Starts the Discord gateway, the HTTP server, and the live ingestion pipeline.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Open the result store. A database failure downgrades to the
		// volatile in-memory store so live tracking keeps running; a later
		// rescan rebuilds everything once persistence is back.
		var st store.Store
		if db, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Database connection failed, falling back to in-memory store", zap.Error(err))
			st = store.NewMemoryStore()
		} else {
			if cfg.Database.AutoMigrate {
				if err := store.Migrate(db); err != nil {
					logg.Fatal("Failed to migrate schema", zap.Error(err))
				}
			} else if missing, err := database.MissingColumns(db, "puzzle_results", resultColumns); err != nil {
				logg.Warn("Schema drift check failed", zap.Error(err))
			} else if len(missing) > 0 {
				logg.Warn("Schema is missing expected columns", zap.Strings("columns", missing))
			}
			st = store.NewGormStore(db)
			logg.Info("Connected to result database", zap.String("driver", cfg.Database.Driver))
		}

		// 4. Initialize the announcement archive (optional).
		var arch *archive.Archive
		if cfg.Storage.Enabled {
			client, err := storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			arch = archive.New(client, cfg.Storage.Bucket, logg)
			if err := arch.EnsureBucket(context.Background()); err != nil {
				logg.Fatal("Failed to prepare archive bucket", zap.Error(err))
			}
		}

		// 5. Wire the tracker core. The history source is installed after the
		// gateway exists.
		service := wordle.NewService(st, nil, logg)

		// 6. Connect the Discord gateway (optional).
		var gateway *discord.Gateway
		if cfg.Discord.IsEnabled() {
			gateway, err = discord.NewGateway(cfg.Discord, service, arch, logg)
			if err != nil {
				logg.Fatal("Failed to create discord gateway", zap.Error(err))
			}
			if err := gateway.Start(); err != nil {
				logg.Fatal("Failed to start discord gateway", zap.Error(err))
			}
		}

		// Rescans prefer the archive: its replay is oldest-first by
		// construction and does not consume Discord rate limits. On a fresh
		// deployment the archive is as empty as the store, so an empty
		// archive falls back to paging the channel itself — otherwise the
		// initial scan would replay nothing.
		var gatewayHistory wordle.HistoryFactory
		if gateway != nil {
			gatewayHistory = gateway.HistoryFactory()
		}
		switch {
		case arch != nil && cfg.Discord.ChannelID != "":
			channelID := cfg.Discord.ChannelID
			service.SetHistory(func(ctx context.Context) (reconcile.HistorySource, error) {
				if gatewayHistory != nil {
					empty, err := arch.Empty(ctx, channelID)
					if err != nil {
						return nil, err
					}
					if empty {
						logg.Info("Archive is empty, rescanning from the channel history")
						return gatewayHistory(ctx)
					}
				}
				return arch.History(ctx, channelID), nil
			})
		case gatewayHistory != nil:
			service.SetHistory(gatewayHistory)
		default:
			logg.Warn("No history source configured, rescans are disabled")
		}

		// 7. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// Middleware Registration
		// RayID must come first so every later log line can carry it.
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})
		// Health stays public; everything behind it needs the API key.
		app.Get("/health", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 8. Load Features
		mgr := loader.NewManager()
		mgr.Register(wordle.NewFeature(service, logg))
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 9. Initial backfill: an empty store on startup means the tracker has
		// never seen this channel, so scan the full history once.
		go func() {
			empty, err := service.Empty(context.Background())
			if err != nil {
				logg.Error("Failed to check store state", zap.Error(err))
				return
			}
			if !empty {
				return
			}
			logg.Info("Store is empty, starting initial history scan")
			report, err := service.Rescan(context.Background())
			if err != nil {
				logg.Error("Initial history scan failed", zap.Error(err))
				return
			}
			logg.Info("Initial history scan complete",
				zap.Int("scanned", report.Scanned),
				zap.Int("inserted", report.Inserted),
				zap.Int("corrected", report.Corrected),
				zap.Int("conflicted", report.Conflicted),
			)
		}()

		// 10. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 11. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down...")
		if gateway != nil {
			gateway.Stop()
		}
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
