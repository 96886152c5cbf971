package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/daylog-app/daylog/internal/planner"
	"github.com/daylog-app/daylog/internal/server"
	"github.com/daylog-app/daylog/internal/store"
)

func newNoteCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage notes",
	}

	add := &cobra.Command{
		Use:   "add <content>",
		Short: "Add a note to a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dateFlag(cmd)
			if err != nil {
				return err
			}
			in := planner.NewNote{Content: args[0], Date: &d}
			if title, _ := cmd.Flags().GetString("title"); title != "" {
				in.Title = &title
			}
			return o.withApp(func(app *server.App) error {
				n, err := app.Planner.CreateNote(cmd.Context(), app.Config.OwnerID, in)
				if err != nil {
					return err
				}
				return o.emit(cmd.OutOrStdout(), n, func(w io.Writer) {
					fmt.Fprintf(w, "Added note %s\n", n.ID)
				})
			})
		},
	}
	add.Flags().StringP("date", "d", "", "Day (default: today)")
	add.Flags().StringP("title", "t", "", "Note title")

	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Search notes by content and title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(func(app *server.App) error {
				notes, err := app.Planner.SearchNotes(cmd.Context(), app.Config.OwnerID, args[0])
				if err != nil {
					return err
				}
				return o.emit(cmd.OutOrStdout(), notes, func(w io.Writer) {
					if len(notes) == 0 {
						fmt.Fprintln(w, "No notes found")
					}
					for _, n := range notes {
						title := "(untitled)"
						if n.Title != nil {
							title = *n.Title
						}
						fmt.Fprintf(w, "%s  %s  %s\n", n.ID, title, store.Truncate(n.Content, 60))
					}
				})
			})
		},
	}

	share := &cobra.Command{
		Use:   "share <id>",
		Short: "Create (or show) a public share token for a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			revoke, _ := cmd.Flags().GetBool("revoke")
			return o.withApp(func(app *server.App) error {
				if revoke {
					if err := app.Planner.UnshareNote(cmd.Context(), app.Config.OwnerID, args[0]); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Share revoked")
					return nil
				}
				tok, err := app.Planner.ShareNote(cmd.Context(), app.Config.OwnerID, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), tok)
				return nil
			})
		},
	}
	share.Flags().Bool("revoke", false, "Revoke the share token")

	shared := &cobra.Command{
		Use:   "shared <token>",
		Short: "Show a shared note by its token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(func(app *server.App) error {
				n, err := app.Planner.SharedNote(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return o.emit(cmd.OutOrStdout(), n, func(w io.Writer) {
					if n.Title != nil {
						fmt.Fprintf(w, "# %s\n\n", *n.Title)
					}
					fmt.Fprintln(w, n.Content)
				})
			})
		},
	}

	cmd.AddCommand(add, search, share, shared)
	return cmd
}
