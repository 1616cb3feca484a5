package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptiq/internal/config"
	"github.com/abhisek/adaptiq/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:          "adaptiq",
	Short:        "Adaptive assessment engine",
	Long:         "adaptiq runs IRT-based adaptive assessments, generates tiered hints, and validates the estimator by simulation.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ADAPTIQ_DB env var)")
	rootCmd.PersistentFlags().String("redis", "", "Redis URL for session storage (overrides ADAPTIQ_REDIS_URL env var)")

	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads ADAPTIQ_* variables and applies persistent flag
// overrides on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if u, _ := cmd.Flags().GetString("redis"); u != "" {
		cfg.RedisURL = u
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then ADAPTIQ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return "", err
	}
	return cfg.ResolveDBPath()
}

func newLogger(cfg config.Config) (*logger.Logger, error) {
	log, err := logger.New(string(cfg.LogMode))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}
