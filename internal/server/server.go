// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools, prompts and resources that depend on them.
// No business logic lives here, only wiring.
package server

import (
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/daylog-app/daylog/internal/agenttools"
	"github.com/daylog-app/daylog/internal/chat"
	"github.com/daylog-app/daylog/internal/config"
	"github.com/daylog-app/daylog/internal/ops"
	"github.com/daylog-app/daylog/internal/planner"
	"github.com/daylog-app/daylog/internal/prompts"
	"github.com/daylog-app/daylog/internal/resources"
	"github.com/daylog-app/daylog/internal/stats"
	"github.com/daylog-app/daylog/internal/store"
	"github.com/daylog-app/daylog/internal/streak"
)

// Version is set at build time via ldflags.
var Version = "dev"

// App holds the services built from a Config. The CLI uses it directly;
// the MCP server is layered on top of it.
type App struct {
	Config   *config.Config
	Store    *store.Store
	Streaks  *streak.Engine
	Planner  *planner.Service
	Chats    *chat.Manager
	Executor *ops.Executor
	Stats    *stats.Reporter
}

// Open builds an App from cfg. The caller must Close it.
func Open(cfg *config.Config) (*App, error) {
	policy, err := streak.ParsePolicy(cfg.Streak.BackdatePolicy)
	if err != nil {
		return nil, err
	}
	st, err := store.New(store.Config{
		DataDir:        cfg.DataDir,
		MaxTodoResults: cfg.Search.MaxTodoResults,
		MaxNoteResults: cfg.Search.MaxNoteResults,
	})
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	eng := streak.NewEngine(st, policy)
	p := planner.New(st, eng, planner.WithMaxConcurrency(cfg.Batch.MaxConcurrency))
	return &App{
		Config:   cfg,
		Store:    st,
		Streaks:  eng,
		Planner:  p,
		Chats:    chat.NewManager(st),
		Executor: ops.NewExecutor(p),
		Stats:    stats.NewReporter(st, eng),
	}, nil
}

// Close releases the store.
func (a *App) Close() {
	if err := a.Store.Close(); err != nil {
		log.Printf("WARNING: store close: %v", err)
	}
}

// New creates and configures the MCP server with all tools, prompts,
// and resources registered for the configured owner.
//
// The returned cleanup function closes the store and must be called on
// shutdown (typically via defer). It is always non-nil.
func New(cfg *config.Config) (*server.MCPServer, func(), error) {
	if cfg.OwnerID == "" {
		return nil, noop, fmt.Errorf("owner_id is not configured")
	}
	app, err := Open(cfg)
	if err != nil {
		return nil, noop, err
	}

	s := server.NewMCPServer(
		"daylog",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	registerAgentTools(s, app, cfg.OwnerID)

	// --- Register prompts ---

	review := prompts.NewDailyReviewPrompt()
	s.AddPrompt(review.Definition(), review.Handle)

	streakCheck := prompts.NewStreakCheckPrompt()
	s.AddPrompt(streakCheck.Definition(), streakCheck.Handle)

	// --- Register resources ---

	rh := resources.NewHandler(app.Streaks, app.Stats, cfg.OwnerID)
	s.AddResource(rh.StreakResource(), rh.HandleStreak)
	s.AddResource(rh.StatsResource(), rh.HandleStats)

	return s, app.Close, nil
}

// noop is the cleanup returned when nothing was opened.
func noop() {}

// registerAgentTools registers the operation catalogue plus the read-only
// and chat tools.
func registerAgentTools(s *server.MCPServer, app *App, owner string) {
	exec := app.Executor

	// --- Todos ---
	createTodo := agenttools.NewCreateTodoTool(exec, owner)
	s.AddTool(createTodo.Definition(), createTodo.Handle)

	updateTodo := agenttools.NewUpdateTodoTool(exec, owner)
	s.AddTool(updateTodo.Definition(), updateTodo.Handle)

	completeTodo := agenttools.NewCompleteTodoTool(exec, owner)
	s.AddTool(completeTodo.Definition(), completeTodo.Handle)

	deleteTodo := agenttools.NewDeleteTodoTool(exec, owner)
	s.AddTool(deleteTodo.Definition(), deleteTodo.Handle)

	moveTodos := agenttools.NewMoveTodosTool(exec, owner)
	s.AddTool(moveTodos.Definition(), moveTodos.Handle)

	searchTodos := agenttools.NewSearchTodosTool(exec, owner)
	s.AddTool(searchTodos.Definition(), searchTodos.Handle)

	todosForDate := agenttools.NewTodosForDateTool(exec, owner)
	s.AddTool(todosForDate.Definition(), todosForDate.Handle)

	archiveDate := agenttools.NewArchiveDateTool(exec, owner)
	s.AddTool(archiveDate.Definition(), archiveDate.Handle)

	// --- Notes ---
	searchNotes := agenttools.NewSearchNotesTool(exec, owner)
	s.AddTool(searchNotes.Definition(), searchNotes.Handle)

	createNote := agenttools.NewCreateNoteTool(exec, owner)
	s.AddTool(createNote.Definition(), createNote.Handle)

	updateNote := agenttools.NewUpdateNoteTool(exec, owner)
	s.AddTool(updateNote.Definition(), updateNote.Handle)

	// --- Read-only ---
	streakTool := agenttools.NewStreakTool(app.Streaks, owner)
	s.AddTool(streakTool.Definition(), streakTool.Handle)

	statsTool := agenttools.NewStatsTool(app.Stats, owner)
	s.AddTool(statsTool.Definition(), statsTool.Handle)

	// --- Chat ---
	chatLog := agenttools.NewChatLogTool(app.Chats, owner)
	s.AddTool(chatLog.Definition(), chatLog.Handle)

	searchChats := agenttools.NewSearchChatsTool(app.Chats, owner)
	s.AddTool(searchChats.Definition(), searchChats.Handle)
}

// serverInstructions returns the system instructions that tell the AI
// how to use daylog.
func serverInstructions() string {
	return `You have access to daylog, the user's personal day planner.

## What lives here

- Todos, each optionally on a day (YYYY-MM-DD). A day is "complete" when every
  dated, unpinned, non-backlog todo outside a folder on it is done.
- Notes, optionally on a day.
- A completion streak: consecutive complete days.
- A chat transcript per day.

## How to use the tools

- Every tool returns {"success": ...}. A failure comes back as a tool error
  whose text says what went wrong. Read it and adjust; do not retry blindly.
- All mutations are safe to repeat. complete_todo on a done todo and
  delete_todo on a deleted todo both succeed.
- move_todos_to_date skips IDs it cannot move and reports movedCount.
- search_todos returns at most 20 results, search_notes at most 10.
- Use get_todos_for_date before changing a day so you work from fresh IDs.
- Log important exchanges with log_chat_message so they can be found later.`
}
