package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/templui/skilledger/internal/app"
	"github.com/templui/skilledger/internal/config"
	"github.com/templui/skilledger/internal/logger"
)

func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "ledger",
		Short:        "Operate the skill progress ledger",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(MigrateCmd())
	rootCmd.AddCommand(SessionCmd())
	rootCmd.AddCommand(ProgressCmd())
	rootCmd.AddCommand(SessionsCmd())
	rootCmd.AddCommand(AchievementsCmd())
	rootCmd.AddCommand(TokenCmd())

	return rootCmd
}

// loadConfig reads the environment and sends logs to stderr
func loadConfig() *config.Config {
	cfg := config.Load()
	logger.InitWriter(os.Stderr, cfg.IsDevelopment(), cfg.SentryDSN)
	return cfg
}

// withApp wires the full application (migrations included) for one command
func withApp(ctx context.Context, fn func(a *app.App) error) error {
	cfg := loadConfig()
	defer logger.Flush()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func addUserFlag(cmd *cobra.Command, userID *string) {
	cmd.Flags().StringVarP(userID, "user", "u", "", "user id")
	cmd.MarkFlagRequired("user")
}
