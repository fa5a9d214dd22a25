package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tailorpreview/internal/adapter/repo"
	"tailorpreview/internal/infra"
	"tailorpreview/internal/infra/credentials"
	"tailorpreview/internal/service"
)

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Manage profile roles",
}

// tailorctl role set --id <uuid> --role admin|shop
var roleSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the role of a profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		role, _ := cmd.Flags().GetString("role")

		return withSQL(cmd.Context(), "role", func(ctx context.Context, sql *infra.SQLRunner) error {
			if err := service.NewProfileService(repo.NewProfileRepository(sql)).SetRole(ctx, id, role); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "profile %s is now %s\n", id, role)
			return nil
		})
	},
}

var geminiKeyCmd = &cobra.Command{
	Use:   "gemini-key",
	Short: "Manage the stored Gemini API key",
}

// tailorctl gemini-key set --key <key>
var geminiKeySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the Gemini API key used when GEMINI_API_KEY is unset",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		return withSQL(cmd.Context(), "gemini-key", func(ctx context.Context, sql *infra.SQLRunner) error {
			if err := credentials.NewStore(sql).SetGeminiAPIKey(ctx, key); err != nil {
				return fmt.Errorf("store gemini api key: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "GEMINI API key stored successfully")
			return nil
		})
	},
}

func init() {
	roleSetCmd.Flags().String("id", "", "profile id")
	roleSetCmd.Flags().String("role", "", "admin or shop")
	_ = roleSetCmd.MarkFlagRequired("id")
	_ = roleSetCmd.MarkFlagRequired("role")
	roleCmd.AddCommand(roleSetCmd)

	geminiKeySetCmd.Flags().String("key", "", "Gemini API key")
	_ = geminiKeySetCmd.MarkFlagRequired("key")
	geminiKeyCmd.AddCommand(geminiKeySetCmd)
}

func withSQL(parent context.Context, name string, fn func(ctx context.Context, sql *infra.SQLRunner) error) error {
	cfg, logger, err := boot(name)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(parent, 30*time.Second)
	defer cancel()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(ctx, infra.NewSQLRunner(pool, logger, nil))
}
