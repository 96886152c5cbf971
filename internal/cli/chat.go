package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/daylog-app/daylog/internal/model"
	"github.com/daylog-app/daylog/internal/server"
)

func newChatCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Read and manage chat transcripts",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print a day's transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dateFlag(cmd)
			if err != nil {
				return err
			}
			return o.withApp(func(app *server.App) error {
				tr, err := app.Chats.GetTranscript(cmd.Context(), app.Config.OwnerID, d)
				if err != nil {
					return err
				}
				return o.emit(cmd.OutOrStdout(), tr, func(w io.Writer) {
					for _, m := range tr.Messages {
						fmt.Fprintf(w, "[%s] %s: %s\n", m.Timestamp, m.Role, m.Content)
					}
				})
			})
		},
	}
	show.Flags().StringP("date", "d", "", "Day (default: today)")

	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Search transcripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return o.withApp(func(app *server.App) error {
				found, err := app.Chats.SearchChats(cmd.Context(), app.Config.OwnerID, args[0], limit)
				if err != nil {
					return err
				}
				return o.emit(cmd.OutOrStdout(), found, func(w io.Writer) {
					for _, c := range found {
						fmt.Fprintf(w, "%s  %d messages\n", c.Date, len(c.Messages))
					}
				})
			})
		},
	}
	search.Flags().IntP("limit", "l", 20, "Max results")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every message from a day's transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dateFlag(cmd)
			if err != nil {
				return err
			}
			del, _ := cmd.Flags().GetBool("delete")
			return o.withApp(func(app *server.App) error {
				tr, err := app.Chats.GetTranscript(cmd.Context(), app.Config.OwnerID, d)
				if errors.Is(err, model.ErrNotFoundOrUnauthorized) {
					return nil
				}
				if err != nil {
					return err
				}
				if del {
					return app.Chats.DeleteChat(cmd.Context(), app.Config.OwnerID, tr.ID)
				}
				return app.Chats.ClearChat(cmd.Context(), app.Config.OwnerID, tr.ID)
			})
		},
	}
	clearCmd.Flags().StringP("date", "d", "", "Day (default: today)")
	clearCmd.Flags().Bool("delete", false, "Delete the transcript record too")

	cmd.AddCommand(show, search, clearCmd)
	return cmd
}
