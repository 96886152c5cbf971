package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daylog-app/daylog/internal/model"
	"github.com/daylog-app/daylog/internal/server"
)

func newDayCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Archive, restore or group whole days",
	}

	archive := &cobra.Command{
		Use:   "archive <date>",
		Short: "Archive a day and its open todos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := model.ParseDate(args[0])
			if err != nil {
				return err
			}
			return o.withApp(func(app *server.App) error {
				n, err := app.Planner.ArchiveDate(cmd.Context(), app.Config.OwnerID, d)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Archived %s (%d todos)\n", d, n)
				return nil
			})
		},
	}

	unarchive := &cobra.Command{
		Use:   "unarchive <date>",
		Short: "Restore an archived day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := model.ParseDate(args[0])
			if err != nil {
				return err
			}
			return o.withApp(func(app *server.App) error {
				n, err := app.Planner.UnarchiveDate(cmd.Context(), app.Config.OwnerID, d)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Restored %s (%d todos)\n", d, n)
				return nil
			})
		},
	}

	group := &cobra.Command{
		Use:   "group <date> <name>",
		Short: "Create a month group and file a day under it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := model.ParseDate(args[0])
			if err != nil {
				return err
			}
			return o.withApp(func(app *server.App) error {
				g, err := app.Planner.CreateMonthGroup(cmd.Context(), app.Config.OwnerID, args[1])
				if err != nil {
					return err
				}
				if err := app.Planner.AssignDateToMonthGroup(cmd.Context(), app.Config.OwnerID, d, g.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Filed %s under %s (%s)\n", d, g.Name, g.ID)
				return nil
			})
		},
	}

	cmd.AddCommand(archive, unarchive, group)
	return cmd
}
