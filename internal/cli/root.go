// Package cli implements the daylog command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/daylog-app/daylog/internal/config"
	"github.com/daylog-app/daylog/internal/model"
	"github.com/daylog-app/daylog/internal/server"
)

// timeNow is replaceable in tests.
var timeNow = time.Now

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath string
	owner      string
	dataDir    string
	format     string
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "daylog",
		Short:         "Personal day planner with an MCP agent interface",
		Long:          "daylog keeps per-day todos, notes and a completion streak in a local SQLite file, and serves them to AI assistants over MCP.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "Config file (default: ~/.daylog/config.yaml)")
	root.PersistentFlags().StringVar(&o.owner, "owner", "", "Acting owner id (overrides owner_id)")
	root.PersistentFlags().StringVar(&o.dataDir, "data-dir", "", "Data directory (overrides data_dir)")
	root.PersistentFlags().StringVarP(&o.format, "format", "f", "text", "Output format: text or json")

	root.AddCommand(
		newServeCmd(o),
		newTodoCmd(o),
		newNoteCmd(o),
		newFolderCmd(o),
		newDayCmd(o),
		newChatCmd(o),
		newStreakCmd(o),
		newStatsCmd(o),
		newConfigCmd(o),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// loadConfig reads the config file and applies flag overrides.
func (o *options) loadConfig() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if o.owner != "" {
		cfg.OwnerID = o.owner
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	if cfg.OwnerID == "" {
		return nil, fmt.Errorf("no owner: set owner_id in the config or pass --owner")
	}
	return cfg, nil
}

// withApp opens the services, runs fn and closes them.
func (o *options) withApp(fn func(app *server.App) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	app, err := server.Open(cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}

// emit writes v as JSON, or calls text to render it.
func (o *options) emit(w io.Writer, v any, text func(io.Writer)) error {
	if o.format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

// dateFlag resolves a --date value, defaulting to today.
func dateFlag(cmd *cobra.Command) (model.Date, error) {
	s, _ := cmd.Flags().GetString("date")
	if s == "" || s == "today" {
		return model.DateOf(timeNow()), nil
	}
	if s == "tomorrow" {
		return model.DateOf(timeNow()).AddDays(1), nil
	}
	return model.ParseDate(s)
}
