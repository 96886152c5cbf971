package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/daylog-app/daylog/internal/model"
	"github.com/daylog-app/daylog/internal/planner"
	"github.com/daylog-app/daylog/internal/server"
)

func newTodoCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage todos",
	}

	add := &cobra.Command{
		Use:   "add <content>",
		Short: "Add a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := planner.NewTodo{Content: args[0]}
			if noDate, _ := cmd.Flags().GetBool("no-date"); !noDate {
				d, err := dateFlag(cmd)
				if err != nil {
					return err
				}
				in.Date = &d
			}
			in.Pinned, _ = cmd.Flags().GetBool("pinned")
			in.Backlog, _ = cmd.Flags().GetBool("backlog")
			if f, _ := cmd.Flags().GetString("folder"); f != "" {
				in.FolderID = &f
			}
			return o.withApp(func(app *server.App) error {
				t, err := app.Planner.CreateTodo(cmd.Context(), app.Config.OwnerID, in)
				if err != nil {
					return err
				}
				return o.emit(cmd.OutOrStdout(), t, func(w io.Writer) {
					fmt.Fprintf(w, "Added %s\n", t.ID)
				})
			})
		},
	}
	add.Flags().StringP("date", "d", "", "Day (YYYY-MM-DD, today, tomorrow; default: today)")
	add.Flags().Bool("no-date", false, "Create an undated todo")
	add.Flags().Bool("pinned", false, "Pin the todo")
	add.Flags().Bool("backlog", false, "Put the todo in the backlog")
	add.Flags().String("folder", "", "Folder id")

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List a day's todos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dateFlag(cmd)
			if err != nil {
				return err
			}
			all, _ := cmd.Flags().GetBool("all")
			return o.withApp(func(app *server.App) error {
				todos, err := app.Planner.TodosForDate(cmd.Context(), app.Config.OwnerID, d, all)
				if err != nil {
					return err
				}
				return o.emit(cmd.OutOrStdout(), todos, func(w io.Writer) { printTodos(w, d, todos) })
			})
		},
	}
	ls.Flags().StringP("date", "d", "", "Day (default: today)")
	ls.Flags().BoolP("all", "a", false, "Include completed todos")

	done := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a todo done (or not done with --undo)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			undo, _ := cmd.Flags().GetBool("undo")
			return o.withApp(func(app *server.App) error {
				changed, err := app.Planner.SetCompleted(cmd.Context(), app.Config.OwnerID, args[0], !undo)
				if err != nil {
					return err
				}
				if !changed {
					fmt.Fprintln(cmd.OutOrStdout(), "No change")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Updated")
				return nil
			})
		},
	}
	done.Flags().Bool("undo", false, "Mark the todo not done")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(func(app *server.App) error {
				if err := app.Planner.DeleteTodo(cmd.Context(), app.Config.OwnerID, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
				return nil
			})
		},
	}

	mv := &cobra.Command{
		Use:   "mv <date> <id>...",
		Short: "Move todos to another day",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := model.ParseDate(args[0])
			if err != nil {
				return err
			}
			return o.withApp(func(app *server.App) error {
				n, err := app.Planner.MoveTodosToDate(cmd.Context(), app.Config.OwnerID, args[1:], target)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Moved %d of %d\n", n, len(args)-1)
				return nil
			})
		},
	}

	cmd.AddCommand(add, ls, done, rm, mv)
	return cmd
}

func printTodos(w io.Writer, d model.Date, todos []model.Todo) {
	if len(todos) == 0 {
		fmt.Fprintf(w, "No todos for %s\n", d)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tDONE\tTODO\n")
	for _, t := range todos {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		content := t.Content
		if t.Pinned {
			content += " (pinned)"
		}
		fmt.Fprintf(tw, "%s\t[%s]\t%s\n", t.ID, mark, content)
	}
	_ = tw.Flush()
}
