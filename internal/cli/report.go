package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/daylog-app/daylog/internal/config"
	"github.com/daylog-app/daylog/internal/server"
	"github.com/daylog-app/daylog/internal/stats"
)

func newStreakCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show the completion streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(func(app *server.App) error {
				st, err := app.Streaks.Current(cmd.Context(), app.Config.OwnerID)
				if err != nil {
					return err
				}
				return o.emit(cmd.OutOrStdout(), st, func(w io.Writer) {
					fmt.Fprintf(w, "Current streak: %d\n", st.CurrentStreak)
					fmt.Fprintf(w, "Longest streak: %d\n", st.LongestStreak)
					if st.LastCompletedDate != "" {
						fmt.Fprintf(w, "Last completed: %s\n", st.LastCompletedDate)
					}
				})
			})
		},
	}
}

func newStatsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show counters and streak figures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(func(app *server.App) error {
				rep, err := app.Stats.Report(cmd.Context(), app.Config.OwnerID)
				if err != nil {
					return err
				}
				return o.emit(cmd.OutOrStdout(), rep, func(w io.Writer) {
					fmt.Fprint(w, stats.Format(rep))
				})
			})
		},
	}
}

func newConfigCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or write the configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			return o.emit(cmd.OutOrStdout(), cfg, func(w io.Writer) {
				fmt.Fprintf(w, "data_dir: %s\nowner_id: %s\n", cfg.DataDir, cfg.OwnerID)
				fmt.Fprintf(w, "search.max_todo_results: %d\nsearch.max_note_results: %d\n",
					cfg.Search.MaxTodoResults, cfg.Search.MaxNoteResults)
				fmt.Fprintf(w, "streak.backdate_policy: %s\nbatch.max_concurrency: %d\n",
					cfg.Streak.BackdatePolicy, cfg.Batch.MaxConcurrency)
			})
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			path := o.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.AddCommand(show, initCmd)
	return cmd
}
