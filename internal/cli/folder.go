package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daylog-app/daylog/internal/model"
	"github.com/daylog-app/daylog/internal/server"
)

func newFolderCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Manage folders",
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(func(app *server.App) error {
				f, err := app.Planner.CreateFolder(cmd.Context(), app.Config.OwnerID, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created folder %s\n", f.ID)
				return nil
			})
		},
	}

	archive := &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a folder and its open todos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			undo, _ := cmd.Flags().GetBool("undo")
			return o.withApp(func(app *server.App) error {
				var n int
				var err error
				if undo {
					n, err = app.Planner.UnarchiveFolder(cmd.Context(), app.Config.OwnerID, args[0])
				} else {
					n, err = app.Planner.ArchiveFolder(cmd.Context(), app.Config.OwnerID, args[0])
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d todos updated\n", n)
				return nil
			})
		},
	}
	archive.Flags().Bool("undo", false, "Unarchive instead")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a folder (its todos and notes are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(func(app *server.App) error {
				return app.Planner.DeleteFolder(cmd.Context(), app.Config.OwnerID, args[0])
			})
		},
	}

	file := &cobra.Command{
		Use:   "file <date> <folder-id>",
		Short: "File a day under a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := model.ParseDate(args[0])
			if err != nil {
				return err
			}
			return o.withApp(func(app *server.App) error {
				return app.Planner.AssignDateToFolder(cmd.Context(), app.Config.OwnerID, d, args[1])
			})
		},
	}

	cmd.AddCommand(add, archive, rm, file)
	return cmd
}
