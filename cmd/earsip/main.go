// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the e-Arsip document-archive service.
// The serve command runs the HTTP API; the other commands operate on the
// same store for maintenance from a shell.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	var (
		verbose  bool
		jsonLogs bool
	)

	root := &cobra.Command{
		Use:   "earsip",
		Short: "University document-archive service",
		Long: `e-Arsip keeps the records office's document metadata, category tree,
users and audit trail, and serves them over a JSON API.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger(verbose, jsonLogs)
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Write logs as JSON")

	root.AddCommand(newServeCmd())
	root.AddCommand(newCategoriesCmd())
	root.AddCommand(newBackupCmd())
	root.AddCommand(newUsersCmd())
	return root
}

// setupLogger installs the default structured logger: text in development,
// JSON when requested or when APP_ENV is production.
func setupLogger(verbose, jsonLogs bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if jsonLogs || os.Getenv("APP_ENV") == "production" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
