// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"biocms/internal/auth"
	"biocms/internal/database"
	"biocms/internal/models"
	"biocms/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status]",
	Short: "Apply, roll back or inspect schema migrations",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		direction := "up"
		if len(args) == 1 {
			direction = args[0]
		}

		db, err := database.Connect(loaded.DSN())
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := cmd.Context()
		switch direction {
		case "up":
			return database.Migrate(ctx, db)
		case "down":
			return database.MigrateDown(ctx, db)
		case "status":
			status, err := database.MigrationStatus(ctx, db)
			if err != nil {
				return err
			}
			printMigrationStatus(cmd.OutOrStdout(), status)
			return nil
		default:
			return fmt.Errorf("unknown migrate direction %q (want up, down or status)", direction)
		}
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the embedded seed taxonomy, settings and pages",
	Long: `Load the embedded seed data. Each group is skipped when its table
already has rows, so seeding an existing database is a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(loaded.DSN())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		return database.Seed(cmd.Context(), db)
	},
}

var adminFlags struct {
	email    string
	password string
	name     string
	role     string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	Example: `  biocms create-admin --email ops@example.com --password 's3cret-pass' --name Ops --role super_admin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(loaded.DSN())
		if err != nil {
			return err
		}
		defer db.Close()

		accounts := auth.NewService(store.NewAdminStore(db), auth.NewTokens(loaded.JWTSecret, loaded.TokenTTL), nil)
		admin, err := accounts.CreateAdmin(cmd.Context(), auth.AdminInput{
			Email:    adminFlags.email,
			Password: adminFlags.password,
			Name:     adminFlags.name,
			Role:     models.Role(strings.TrimSpace(adminFlags.role)),
		})
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) %s\n", admin.Email, admin.Role, admin.ID)
		return nil
	},
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminFlags.email, "email", "", "login email (required)")
	f.StringVar(&adminFlags.password, "password", "", "initial password, at least 8 characters (required)")
	f.StringVar(&adminFlags.name, "name", "", "display name (required)")
	f.StringVar(&adminFlags.role, "role", string(models.RoleAdmin), "admin or super_admin")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
	_ = createAdminCmd.MarkFlagRequired("name")
}

// printMigrationStatus writes one aligned line per migration.
func printMigrationStatus(out io.Writer, status []*goose.MigrationStatus) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT\tFILE")
	for _, s := range status {
		applied := "-"
		if !s.AppliedAt.IsZero() {
			applied = s.AppliedAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Source.Version, s.State, applied, filepath.Base(s.Source.Path))
	}
	tw.Flush()
}
