// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the coursematch CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/coursematch/internal/logging"
	"github.com/pdiddy/coursematch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the resolved configuration, loaded before every command runs.
	cfg types.Config

	logger = zerolog.Nop()
)

// rootCmd is the base command for the coursematch CLI.
var rootCmd = &cobra.Command{
	Use:   "coursematch",
	Short: "Rank study programs against a learner's preferences",
	Long: `coursematch keeps a local catalog of study programs and ranks them
against a learner's skills, interests, career goal and practical
constraints (location, modality, language, budget, duration, level).

Seed files are YAML; "catalog ingest" loads them into a SQLite catalog
that "rank" reads. "extract" and "suggest" help build queries from free
text and partial input.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("decoding configuration: %w", err)
		}
		l, err := logging.New(cfg.Log, os.Stderr)
		if err != nil {
			return err
		}
		logger = l
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug().Str("file", f).Msg("using config file")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./coursematch.yaml or ~/.config/coursematch/config.yaml)")
	pf.String("catalog-dir", "", "base directory for the catalog (contains index/)")
	pf.String("seed-dir", "", "directory of YAML seed files")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: console or json")

	_ = viper.BindPFlag("catalog.dir", pf.Lookup("catalog-dir"))
	_ = viper.BindPFlag("catalog.seed_dir", pf.Lookup("seed-dir"))
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", pf.Lookup("log-format"))
}

func setDefaults() {
	eng := types.DefaultEngineConfig()
	viper.SetDefault("engine.min_score", eng.MinScore)
	viper.SetDefault("engine.default_limit", eng.DefaultLimit)
	viper.SetDefault("engine.max_features", eng.MaxFeatures)
	viper.SetDefault("engine.workers", eng.Workers)
	viper.SetDefault("engine.few_matches", eng.FewMatches)
	viper.SetDefault("engine.low_budget", eng.LowBudget)
	viper.SetDefault("engine.low_score", eng.LowScore)
	viper.SetDefault("engine.alternatives", eng.Alternatives)

	viper.SetDefault("catalog.dir", "catalog")
	viper.SetDefault("catalog.seed_dir", filepath.Join("catalog", "seed"))
	viper.SetDefault("catalog.max_results", 100)
	viper.SetDefault("catalog.lock_timeout", "10s")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", logging.FormatConsole)
}

func initConfig() {
	setDefaults()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("coursematch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "coursematch"))
		}
	}

	viper.SetEnvPrefix("COURSEMATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			fmt.Fprintln(os.Stderr, "Reading config:", err)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
