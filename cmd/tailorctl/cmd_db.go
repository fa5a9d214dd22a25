package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tailorpreview/internal/db"
)

// tailorctl migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := boot("migrate")
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := db.Migrate(ctx, conn); err != nil {
			return err
		}
		logger.Info().Int("statements", len(db.Statements())).Msg("schema applied")
		fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
		return nil
	},
}
