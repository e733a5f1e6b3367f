// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"earsip/internal/models"
	"earsip/internal/state"
)

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export, restore and sync backups",
		Long: `Manage backups of archive metadata and the category tree.

Available subcommands:
  export  - Write a backup file
  restore - Replace archives and categories from a backup file
  push    - Upload a backup to S3-compatible storage
  list    - List backups stored in S3-compatible storage`,
	}
	cmd.AddCommand(newBackupExportCmd(), newBackupRestoreCmd(), newBackupPushCmd(), newBackupListCmd())
	return cmd
}

func newBackupExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a backup to a file, or stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			data, err := json.MarshalIndent(rt.app.Backup(), "", "  ")
			if err != nil {
				return fmt.Errorf("encode backup: %w", err)
			}
			if out == "" || out == "-" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(out, data, 0o600); err != nil {
				return fmt.Errorf("write backup: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "backup written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func newBackupRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace archives and categories with a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read backup: %w", err)
			}
			var data models.BackupData
			if err := json.Unmarshal(raw, &data); err != nil {
				return fmt.Errorf("parse backup: %w", err)
			}

			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.app.Restore(cmd.Context(), cliActor, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %d archives and %d categories\n", len(data.Archives), len(data.Categories))
			return nil
		},
	}
}

func newBackupPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Upload a backup to S3-compatible storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			res, err := rt.app.CloudSync(cmd.Context(), cliActor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s (%d archives)\n", res.Key, res.Archives)
			return nil
		},
	}
}

func newBackupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backups in S3-compatible storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			if rt.backups == nil {
				return state.ErrCloudDisabled
			}
			objs, err := rt.backups.ListBackups(cmd.Context())
			if err != nil {
				return err
			}
			for _, o := range objs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", o.LastModified.UTC().Format("2006-01-02 15:04:05"), o.Size, o.Key)
			}
			return nil
		},
	}
}
