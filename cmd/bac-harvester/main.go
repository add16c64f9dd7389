// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bac-harvester CLI.
//
// bac-harvester collects Moroccan Baccalauréat exam papers and their
// corrections from configured web sources, reconciles the findings into a
// canonical per-subject/year/session inventory, fills gaps from archive
// templates, downloads the documents, and writes manifests.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yselmaoui/bac-harvester/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the bac-harvester CLI.
var rootCmd = &cobra.Command{
	Use:   "bac-harvester",
	Short: "Collect Baccalauréat exam papers and corrections from the web",
	Long: `bac-harvester builds a complete local archive of national exam PDFs with
their official corrections, organized per subject. It harvests candidate
links from configured source pages, keeps the most trusted copy of each
(subject, year, session, type) document, fills holes from deterministic
archive URLs, and records what it obtained in JSON/CSV manifests and a
SQLite inventory.

Each stage is reachable as a subcommand: harvest runs the full pipeline,
gaps reports coverage without downloading, verify checks stored PDFs, and
inventory inspects past runs.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		pretty, _ := cmd.Flags().GetBool("pretty-log")
		if err := logging.Setup(level, pretty); err != nil {
			return fmt.Errorf("configuring logging: %w", err)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bac-harvester.yaml or ~/.config/bac-harvester/config.yaml)")
	rootCmd.PersistentFlags().String("catalog", "", "catalog file overriding the built-in subjects and sources")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("pretty-log", true, "human-readable log output instead of JSON")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bac-harvester")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bac-harvester"))
		}
	}

	viper.SetEnvPrefix("BAC_HARVESTER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
