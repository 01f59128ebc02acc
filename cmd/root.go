package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ilearnhow/lessonsynth/internal/config"
	"github.com/ilearnhow/lessonsynth/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "lessonsynth",
	Short: "Personalized daily lesson synthesis",
	Long: `lessonsynth composes the daily iLearnHow lesson for a learner's age, tone,
language and avatar, from per-day lesson DNA or the built-in curriculum.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/lessonsynth/config.toml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LESSONSYNTH_DB env var)")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory with dna/ and curriculum/ lesson sources")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(synthCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(warmCmd)
	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
		cfg.DataDir = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db or db_path (highest
// priority), then LESSONSYNTH_DB env var, then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore loads configuration and opens the event store.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
