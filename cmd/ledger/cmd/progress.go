package cmd

import (
	"github.com/spf13/cobra"
	"github.com/templui/skilledger/internal/app"
)

func ProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Progress commands",
	}

	cmd.AddCommand(progressSetCmd())
	cmd.AddCommand(progressListCmd())
	return cmd
}

func progressSetCmd() *cobra.Command {
	var (
		userID     string
		skill      string
		course     string
		percentage int
		note       string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the completion percentage of a skill",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				update, err := a.ProgressService.SetProgress(cmd.Context(), userID, skill, course, percentage, note)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), update)
			})
		},
	}

	addUserFlag(cmd, &userID)
	cmd.Flags().StringVarP(&skill, "skill", "s", "", "skill name")
	cmd.Flags().StringVarP(&course, "course", "c", "", "course name")
	cmd.Flags().IntVarP(&percentage, "percentage", "p", 0, "completion percentage (0-100)")
	cmd.Flags().StringVar(&note, "note", "", "optional note")
	cmd.MarkFlagRequired("percentage")
	return cmd
}

func progressListCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List progress records, most recently active first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				records, err := a.ProgressService.ProgressFor(cmd.Context(), userID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), records)
			})
		},
	}

	addUserFlag(cmd, &userID)
	return cmd
}

func AchievementsCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "List earned achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				achievements, err := a.ProgressService.AchievementsFor(cmd.Context(), userID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), achievements)
			})
		},
	}

	addUserFlag(cmd, &userID)
	return cmd
}
