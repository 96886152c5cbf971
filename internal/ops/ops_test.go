package ops

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daylog-app/daylog/internal/model"
	"github.com/daylog-app/daylog/internal/planner"
	"github.com/daylog-app/daylog/internal/store"
	"github.com/daylog-app/daylog/internal/streak"
)

type fixture struct {
	exec    *Executor
	planner *planner.Service
	streaks *streak.Engine
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	s, err := store.New(store.Config{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	eng := streak.NewEngine(s, streak.PolicyRestart)
	p := planner.New(s, eng)
	return fixture{exec: NewExecutor(p), planner: p, streaks: eng}
}

func datePtr(d string) *model.Date {
	v := model.Date(d)
	return &v
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func (f fixture) run(t *testing.T, owner string, cmd Command) Result {
	t.Helper()
	return f.exec.Execute(context.Background(), owner, cmd)
}

func (f fixture) createTodo(t *testing.T, owner, content, date string) string {
	t.Helper()
	res := f.run(t, owner, CreateTodo{Content: content, Date: datePtr(date)})
	require.True(t, res.Success, res.Error)
	return res.Data.(TodoCreated).TodoID
}

func TestBuyMilkEndToEnd(t *testing.T) {
	f := newFixture(t)
	id := f.createTodo(t, "alice", "Buy milk", "2025-06-01")

	res := f.run(t, "alice", CompleteTodo{TodoID: id})
	require.True(t, res.Success, res.Error)

	res = f.run(t, "alice", GetTodosForDate{Date: "2025-06-01"})
	require.True(t, res.Success, res.Error)
	day := res.Data.([]DayTodo)
	require.Len(t, day, 1)
	assert.Equal(t, "Buy milk", day[0].Content)
	assert.True(t, day[0].Completed)
	assert.True(t, day[0].Archived)

	st, err := f.streaks.Current(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, st.CurrentStreak)
	assert.Equal(t, model.Date("2025-06-01"), st.LastCompletedDate)
	assert.Equal(t, 1, st.TotalTodosCompleted)
}

func TestCompleteTodo_TwiceNoDoubleIncrement(t *testing.T) {
	f := newFixture(t)
	id := f.createTodo(t, "alice", "stretch", "2025-06-01")

	for range 2 {
		res := f.run(t, "alice", CompleteTodo{TodoID: id})
		assert.True(t, res.Success, res.Error)
	}

	st, err := f.streaks.Current(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, st.CurrentStreak)
	assert.Equal(t, 1, st.TotalTodosCompleted)
}

func TestDeleteTodo_MissingIsSuccess(t *testing.T) {
	f := newFixture(t)
	res := f.run(t, "alice", DeleteTodo{TodoID: "does-not-exist"})
	assert.True(t, res.Success)
	assert.Empty(t, res.Error)

	id := f.createTodo(t, "alice", "x", "2025-06-01")
	assert.True(t, f.run(t, "alice", DeleteTodo{TodoID: id}).Success)
	assert.True(t, f.run(t, "alice", DeleteTodo{TodoID: id}).Success)
}

func TestDeleteTodo_ForeignIsUntouched(t *testing.T) {
	f := newFixture(t)
	id := f.createTodo(t, "bob", "bob's", "2025-06-01")

	assert.True(t, f.run(t, "alice", DeleteTodo{TodoID: id}).Success)

	_, err := f.planner.GetTodo(context.Background(), "bob", id)
	assert.NoError(t, err)
}

func TestUpdateTodo_OwnershipIsolation(t *testing.T) {
	f := newFixture(t)
	id := f.createTodo(t, "bob", "original", "2025-06-01")

	res := f.run(t, "alice", UpdateTodo{TodoID: id, Content: strPtr("hijacked")})
	assert.False(t, res.Success)
	assert.Equal(t, model.ErrNotFoundOrUnauthorized.Error(), res.Error)

	got, err := f.planner.GetTodo(context.Background(), "bob", id)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Content)
}

func TestUpdateTodo_OnlySuppliedFields(t *testing.T) {
	f := newFixture(t)
	id := f.createTodo(t, "alice", "keep", "2025-06-01")

	res := f.run(t, "alice", UpdateTodo{TodoID: id, Pinned: boolPtr(true)})
	require.True(t, res.Success, res.Error)
	res = f.run(t, "alice", UpdateTodo{TodoID: id})
	require.True(t, res.Success, res.Error)

	got, err := f.planner.GetTodo(context.Background(), "alice", id)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Content)
	assert.True(t, got.Pinned)
}

func TestMoveTodosToDate_SkipsForeign(t *testing.T) {
	f := newFixture(t)
	a := f.createTodo(t, "alice", "a", "2025-06-01")
	b := f.createTodo(t, "alice", "b", "2025-06-01")
	c := f.createTodo(t, "bob", "c", "2025-06-01")

	res := f.run(t, "alice", MoveTodosToDate{TodoIDs: []string{a, b, c}, TargetDate: "2025-06-02"})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, Moved{MovedCount: 2}, res.Data)
}

func TestSearchTodos_CapAndDefaults(t *testing.T) {
	f := newFixture(t)
	for i := range 25 {
		f.createTodo(t, "alice", fmt.Sprintf("review report %d", i), "2025-06-01")
	}
	done := f.createTodo(t, "alice", "report finished", "2025-06-02")
	require.True(t, f.run(t, "alice", CompleteTodo{TodoID: done}).Success)

	res := f.run(t, "alice", SearchTodos{Query: "report"})
	require.True(t, res.Success, res.Error)
	assert.Len(t, res.Data.([]TodoHit), 20)

	res = f.run(t, "alice", SearchTodos{Query: "finished"})
	require.True(t, res.Success, res.Error)
	assert.Empty(t, res.Data.([]TodoHit), "completed todos are excluded by default")

	res = f.run(t, "alice", SearchTodos{Query: "finished", IncludeCompleted: boolPtr(true), Date: datePtr("2025-06-02")})
	require.True(t, res.Success, res.Error)
	hits := res.Data.([]TodoHit)
	require.Len(t, hits, 1)
	assert.True(t, hits[0].Completed)
	assert.Equal(t, "2025-06-02", hits[0].Date)
}

func TestSearchNotes_PreviewAndBound(t *testing.T) {
	f := newFixture(t)
	long := strings.Repeat("ä", 150)
	for i := range 12 {
		res := f.run(t, "alice", CreateNote{Content: fmt.Sprintf("meeting %d %s", i, long), Title: strPtr("meeting")})
		require.True(t, res.Success, res.Error)
	}

	res := f.run(t, "alice", SearchNotes{Query: "meeting"})
	require.True(t, res.Success, res.Error)
	hits := res.Data.([]NoteHit)
	assert.Len(t, hits, 10)
	for _, h := range hits {
		assert.Equal(t, "meeting", h.Title)
		assert.LessOrEqual(t, utf8.RuneCountInString(h.ContentPreview), PreviewLength+1)
		assert.True(t, strings.HasSuffix(h.ContentPreview, "…"))
	}
}

func TestArchiveDateAndTodos(t *testing.T) {
	f := newFixture(t)
	f.createTodo(t, "alice", "a", "2025-06-01")
	f.createTodo(t, "alice", "b", "2025-06-01")

	res := f.run(t, "alice", ArchiveDateAndTodos{Date: "2025-06-01"})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, Archived{ArchivedCount: 2}, res.Data)

	res = f.run(t, "alice", ArchiveDateAndTodos{Date: "2025-06-01"})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, Archived{ArchivedCount: 0}, res.Data)
}

func TestNotes_CreateAndUpdate(t *testing.T) {
	f := newFixture(t)
	res := f.run(t, "alice", CreateNote{Content: "draft", Date: datePtr("2025-06-01")})
	require.True(t, res.Success, res.Error)
	id := res.Data.(NoteSaved).NoteID

	res = f.run(t, "alice", UpdateNote{NoteID: id, Title: strPtr("Final")})
	require.True(t, res.Success, res.Error)

	res = f.run(t, "bob", UpdateNote{NoteID: id, Content: strPtr("x")})
	assert.False(t, res.Success)

	n, err := f.planner.GetNote(context.Background(), "alice", id)
	require.NoError(t, err)
	assert.Equal(t, "draft", n.Content)
	require.NotNil(t, n.Title)
	assert.Equal(t, "Final", *n.Title)
}

func TestExecute_ErrorsAreData(t *testing.T) {
	f := newFixture(t)

	res := f.run(t, "alice", CreateTodo{Content: ""})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "content")

	res = f.run(t, "alice", GetTodosForDate{Date: "someday"})
	assert.False(t, res.Success)

	res = f.run(t, "", CreateTodo{Content: "x"})
	assert.False(t, res.Success)

	res = f.run(t, "alice", nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "unknown operation")
}

func TestExecute_RecoversPanics(t *testing.T) {
	var e Executor
	res := e.Execute(context.Background(), "alice", CreateTodo{Content: "x"})
	assert.False(t, res.Success)
	assert.Equal(t, "internal error", res.Error)
}

func TestConcurrentRepeats_AreIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.createTodo(t, "alice", "a", "2025-06-01")
	b := f.createTodo(t, "alice", "b", "2025-06-01")
	foreign := f.createTodo(t, "bob", "c", "2025-06-01")

	const workers = 8
	completes := make([]Result, workers)
	moves := make([]Result, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(2)
		go func() {
			defer wg.Done()
			completes[i] = f.exec.Execute(ctx, "alice", CompleteTodo{TodoID: a})
		}()
		go func() {
			defer wg.Done()
			moves[i] = f.exec.Execute(ctx, "alice", MoveTodosToDate{TodoIDs: []string{b, b, foreign}, TargetDate: "2025-06-02"})
		}()
	}
	wg.Wait()

	for i := range workers {
		assert.True(t, completes[i].Success, completes[i].Error)
		require.True(t, moves[i].Success, moves[i].Error)
		assert.Equal(t, Moved{MovedCount: 1}, moves[i].Data)
	}

	st, err := f.streaks.Current(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, st.CurrentStreak)
	assert.Equal(t, 1, st.TotalTodosCompleted)
}
