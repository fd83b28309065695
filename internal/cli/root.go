package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/seiya-sugimoto/trade-gate-log/internal/config"
	"github.com/seiya-sugimoto/trade-gate-log/internal/logging"
	"github.com/seiya-sugimoto/trade-gate-log/internal/repo"
	"github.com/seiya-sugimoto/trade-gate-log/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies. One App (and one Repository) is
// constructed per process and injected into every command.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Repo   *repo.Repository

	dataStore store.DataStore
}

// Close releases the underlying store.
func (a *App) Close() error {
	if a.dataStore != nil {
		return a.dataStore.Close()
	}
	return nil
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) (*cobra.Command, *App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dataStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	app.dataStore = dataStore
	app.Repo = repo.New(dataStore, logger)
	logger.Debug().Str("path", cfg.Database.Path).Msg("SQLite store initialized")

	rootCmd := &cobra.Command{
		Use:   "tradegate",
		Short: "Trade gate log - discipline enforcement for discretionary traders",
		Long: `Trade gate log is a personal discipline tool for discretionary traders.

Every trade passes through a set of hard-stop gate checks before it is
recorded. The gate warns, it never blocks; but a trade saved against a
warning requires a written friction note. Records, settings, and full
backups live in a local SQLite database.

This tool records and reviews trading discipline. It does not produce
investment advice.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/trade-gate-log)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addGateCommands(rootCmd, app)
	addTradeCommands(rootCmd, app)
	addSettingsCommands(rootCmd, app)
	addDataCommands(rootCmd, app)
	addStatsCommand(rootCmd, app)
	addReportCommands(rootCmd, app)
	addVersionCommand(rootCmd)

	return rootCmd, app, nil
}

func addVersionCommand(rootCmd *cobra.Command) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("tradegate %s\n", Version)
		},
	})
}
