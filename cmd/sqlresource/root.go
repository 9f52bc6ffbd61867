package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/asaidimu/sqlresource/internal/cli"
)

var (
	// Global state set during PersistentPreRunE
	cfg        *cli.Config
	configPath string
	logger     *slog.Logger

	// Persistent flags
	cfgFile   string
	modelFile string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "sqlresource",
	Short: "Build and run SQL for resource models",
	Long: `sqlresource - SQL statements for resource models

sqlresource renders INSERT, UPDATE, DELETE and SELECT statements for a table
described by a model file. Values are hashed into tokens and bound as
parameters in the configured dialect's placeholder style.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, configPath, err = cli.LoadConfig(cfgFile)
		if err != nil {
			return cli.ConfigError("loading configuration", err)
		}

		level, err := cfg.Level()
		if err != nil {
			return cli.ConfigError("loading configuration", err)
		}
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Command group IDs
const (
	groupStatement = "statement"
	groupUtility   = "utility"
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: auto-discover sqlresource.yaml)")
	rootCmd.PersistentFlags().StringVarP(&modelFile, "model", "m", "", "model file describing the table, values and condition")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	rootCmd.AddGroup(
		&cobra.Group{ID: groupStatement, Title: "Statements:"},
		&cobra.Group{ID: groupUtility, Title: "Utility:"},
	)

	for _, c := range statementCommands() {
		c.GroupID = groupStatement
		rootCmd.AddCommand(c)
	}

	configCmd.GroupID = groupUtility
	rootCmd.AddCommand(configCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cli.ExitWithError(err)
	}
}
