// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the biocms server and its
// maintenance commands.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"biocms/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "biocms",
	Short: "Biosciences marketing CMS API",
	Long: `biocms serves the public content API and the admin API of the
biosciences marketing site.

Available commands:
  serve        - Run the HTTP server
  migrate      - Apply, roll back or inspect schema migrations
  seed         - Load the embedded seed taxonomy, settings and pages
  create-admin - Create an admin account`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		setupLogger(cfg)
		loaded = cfg
		return nil
	},
}

// loaded is the configuration read by PersistentPreRunE.
var loaded *config.Config

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, createAdminCmd)
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// setupLogger installs the default structured logger: text in
// development, JSON everywhere else.
func setupLogger(cfg *config.Config) {
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))
}
