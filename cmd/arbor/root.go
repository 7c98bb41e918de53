package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/cli"
	"github.com/aretw0/arbor/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "Arbor evaluates prediction programs and turns them into source code",
	Long: `Arbor loads models (typed expression trees with a declared signature) from a
repository, evaluates them on input rows and emits equivalent standalone
functions in C, C++, JavaScript, Python or Ruby.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", "", "Directory containing the models (overrides models_dir)")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("store", "", "Model store: loam, memory, file, redis or badger")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable verbose logging to stderr")
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, os.Environ())
	if err != nil {
		return config.Config{}, err
	}
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		cfg.ModelsDir = dir
	}
	if store, _ := cmd.Flags().GetString("store"); store != "" {
		cfg.Store = store
		cfg.Redis.Enabled = store == "redis"
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, cfg.Validate()
}

// openEngine builds the engine every command works on. The returned
// function releases the store.
func openEngine(cmd *cobra.Command, extra ...arbor.Option) (*arbor.Engine, config.Config, *slog.Logger, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, nil, nil, err
	}
	debug, _ := cmd.Flags().GetBool("debug")
	logger, err := cli.NewLogger(cfg.LogLevel, debug)
	if err != nil {
		return nil, cfg, nil, nil, err
	}
	engine, closer, err := cli.NewEngine(cfg, logger, extra...)
	if err != nil {
		return nil, cfg, nil, nil, err
	}
	release := func() {
		if err := closer(); err != nil {
			logger.Warn("closing store failed", "error", err)
		}
	}
	return engine, cfg, logger, release, nil
}
