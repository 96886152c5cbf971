package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daylog-app/daylog/internal/config"
	"github.com/daylog-app/daylog/internal/model"
	"github.com/daylog-app/daylog/internal/ops"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.OwnerID = "alice"
	return cfg
}

func TestNew_RegistersEverything(t *testing.T) {
	s, cleanup, err := New(testConfig(t))
	require.NoError(t, err)
	defer cleanup()

	tools := s.ListTools()
	for _, name := range []string{
		"create_todo", "update_todo", "complete_todo", "delete_todo",
		"move_todos_to_date", "search_todos", "search_notes", "get_todos_for_date",
		"archive_date_and_todos", "create_note", "update_note",
		"get_streak", "get_stats", "log_chat_message", "search_chats",
	} {
		assert.Contains(t, tools, name)
	}
}

func TestNew_RequiresOwner(t *testing.T) {
	cfg := testConfig(t)
	cfg.OwnerID = ""
	_, cleanup, err := New(cfg)
	assert.Error(t, err)
	cleanup()
}

func TestOpen_RejectsUnknownPolicy(t *testing.T) {
	cfg := testConfig(t)
	cfg.Streak.BackdatePolicy = "forgive"
	_, err := Open(cfg)
	assert.True(t, model.IsValidation(err))
}

func TestOpen_PreservePolicyWired(t *testing.T) {
	cfg := testConfig(t)
	cfg.Streak.BackdatePolicy = "preserve"
	app, err := Open(cfg)
	require.NoError(t, err)
	defer app.Close()

	ctx := context.Background()
	run := func(cmd ops.Command) ops.Result {
		res := app.Executor.Execute(ctx, "alice", cmd)
		require.True(t, res.Success, res.Error)
		return res
	}
	complete := func(date string) {
		d := model.Date(date)
		res := run(ops.CreateTodo{Content: "x", Date: &d})
		run(ops.CompleteTodo{TodoID: res.Data.(ops.TodoCreated).TodoID})
	}
	complete("2025-06-10")
	complete("2025-06-11")
	complete("2025-06-05")

	st, err := app.Streaks.Current(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, st.CurrentStreak)
	assert.Equal(t, model.Date("2025-06-11"), st.LastCompletedDate)
	assert.True(t, st.WeeklyProgress["2025-06-05"])
	assert.Equal(t, 3, st.TotalTodosCompleted)
}
