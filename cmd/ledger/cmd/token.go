package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/skilledger/internal/service"
)

func TokenCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			auth := service.NewAuthService(cfg.JWTSecret, cfg.JWTExpiry, cfg.IsProduction())
			token, err := auth.GenerateJWT(userID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	addUserFlag(cmd, &userID)
	return cmd
}
