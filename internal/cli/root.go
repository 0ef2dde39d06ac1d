package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"options-lab/internal/config"
	"options-lab/internal/logging"
	"options-lab/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  *store.SQLiteStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dataStore, err := store.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize decision log, history will be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Msg("Decision log initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "optlab",
		Short: "Options Lab - decision support for multi-leg options trading",
		Long: `Options Lab is a decision-support CLI for multi-leg options strategies.

It prices Black-Scholes Greeks, derives payoff and risk metrics for
multi-leg structures, sizes positions with fractional Kelly, simulates
equity paths under Monte Carlo, and scores setups into auditable
go/no-go decisions.

Use 'optlab help <command>' for more information about a command.`,
		Version:       Version,
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

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/options-lab)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addGreeksCommands(rootCmd, app)
	addAnalyzeCommands(rootCmd, app)
	addSizingCommands(rootCmd, app)
	addSimulateCommands(rootCmd, app)
	addDecisionCommands(rootCmd, app)
	addHistoryCommands(rootCmd, app)

	return rootCmd
}
