package cmd

import (
	"fmt"
	"os"

	"wordle-tracker/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "wordle-tracker",
	Short: "Wordle Results Tracker",
	Long: `Wordle Tracker follows the official Wordle bot's announcements in a
shared Discord channel, records one result per player per puzzle, and serves
streaks, averages, and a leaderboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format and debug level so CLI errors come out pretty with
		// ISO8601 timestamps rather than production JSON.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
