package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"tailorpreview/internal/infra"
)

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "tailorctl",
	Short:         "TailorPreview operations CLI",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(roleCmd)
	rootCmd.AddCommand(geminiKeyCmd)
	rootCmd.AddCommand(tryonCmd)
	rootCmd.AddCommand(sessionCmd)
}

// boot loads configuration and a CLI logger.
func boot(name string) (*infra.Config, infra.Logger, error) {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return nil, infra.NopLogger(), err
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("cmd", name).Logger()
	return cfg, logger, nil
}
