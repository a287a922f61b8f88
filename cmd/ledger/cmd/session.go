package cmd

import (
	"github.com/spf13/cobra"
	"github.com/templui/skilledger/internal/app"
)

func SessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Study session commands",
	}

	cmd.AddCommand(sessionLogCmd())
	return cmd
}

func sessionLogCmd() *cobra.Command {
	var (
		userID  string
		skill   string
		minutes int
		note    string
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a study session against a skill",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				session, err := a.ProgressService.LogSession(cmd.Context(), userID, skill, minutes, note)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), session)
			})
		},
	}

	addUserFlag(cmd, &userID)
	cmd.Flags().StringVarP(&skill, "skill", "s", "", "skill name")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "minutes studied")
	cmd.Flags().StringVar(&note, "note", "", "optional note")
	return cmd
}

func SessionsCmd() *cobra.Command {
	var (
		userID string
		days   int
	)

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recent study sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				sessions, err := a.ProgressService.SessionsFor(cmd.Context(), userID, days)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), sessions)
			})
		},
	}

	addUserFlag(cmd, &userID)
	cmd.Flags().IntVarP(&days, "days", "d", 0, "trailing window in days (default SESSION_WINDOW_DAYS)")
	return cmd
}
