package agenttools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/daylog-app/daylog/internal/chat"
	"github.com/daylog-app/daylog/internal/ops"
	"github.com/daylog-app/daylog/internal/planner"
	"github.com/daylog-app/daylog/internal/stats"
	"github.com/daylog-app/daylog/internal/store"
	"github.com/daylog-app/daylog/internal/streak"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

type deps struct {
	exec     *ops.Executor
	engine   *streak.Engine
	reporter *stats.Reporter
}

// newTestDeps wires an executor over a temp-dir store.
func newTestDeps(t *testing.T) deps {
	t.Helper()
	s, err := store.New(store.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	eng := streak.NewEngine(s, streak.PolicyRestart)
	return deps{
		exec:     ops.NewExecutor(planner.New(s, eng)),
		engine:   eng,
		reporter: stats.NewReporter(s, eng),
	}
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

type handler interface {
	Handle(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// call runs a handler and fails the test on a protocol-level error.
func call(t *testing.T, h handler, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	res, err := h.Handle(context.Background(), makeReq(args))
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	return res
}

// decode unmarshals a successful tool result into an ops.Result-shaped value.
func decode(t *testing.T, res *mcp.CallToolResult, data any) {
	t.Helper()
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(res))
	}
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(resultText(res)), &envelope); err != nil {
		t.Fatalf("invalid JSON %q: %v", resultText(res), err)
	}
	if !envelope.Success {
		t.Fatalf("success = false in %s", resultText(res))
	}
	if data != nil {
		if err := json.Unmarshal(envelope.Data, data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
}

func createTodo(t *testing.T, d deps, owner, content, date string) string {
	t.Helper()
	var out ops.TodoCreated
	decode(t, call(t, NewCreateTodoTool(d.exec, owner), map[string]interface{}{
		"content": content,
		"date":    date,
	}), &out)
	if out.TodoID == "" {
		t.Fatal("create_todo returned empty todoId")
	}
	return out.TodoID
}

// ─── Definitions ─────────────────────────────────────────────────────────────

func TestDefinitions_NamesAndRequired(t *testing.T) {
	d := newTestDeps(t)
	cases := []struct {
		def      mcp.Tool
		name     string
		required []string
	}{
		{NewCreateTodoTool(d.exec, "a").Definition(), "create_todo", []string{"content"}},
		{NewUpdateTodoTool(d.exec, "a").Definition(), "update_todo", []string{"todo_id"}},
		{NewCompleteTodoTool(d.exec, "a").Definition(), "complete_todo", []string{"todo_id"}},
		{NewDeleteTodoTool(d.exec, "a").Definition(), "delete_todo", []string{"todo_id"}},
		{NewMoveTodosTool(d.exec, "a").Definition(), "move_todos_to_date", []string{"todo_ids", "target_date"}},
		{NewSearchTodosTool(d.exec, "a").Definition(), "search_todos", []string{"query"}},
		{NewSearchNotesTool(d.exec, "a").Definition(), "search_notes", []string{"query"}},
		{NewTodosForDateTool(d.exec, "a").Definition(), "get_todos_for_date", []string{"date"}},
		{NewArchiveDateTool(d.exec, "a").Definition(), "archive_date_and_todos", []string{"date"}},
		{NewCreateNoteTool(d.exec, "a").Definition(), "create_note", []string{"content"}},
		{NewUpdateNoteTool(d.exec, "a").Definition(), "update_note", []string{"note_id"}},
		{NewStreakTool(d.engine, "a").Definition(), "get_streak", nil},
		{NewStatsTool(d.reporter, "a").Definition(), "get_stats", nil},
	}
	for _, tc := range cases {
		if tc.def.Name != tc.name {
			t.Errorf("tool name = %q, want %q", tc.def.Name, tc.name)
		}
		for _, r := range tc.required {
			if _, ok := tc.def.InputSchema.Properties[r]; !ok {
				t.Errorf("%s: missing %q parameter", tc.name, r)
			}
			found := false
			for _, req := range tc.def.InputSchema.Required {
				if req == r {
					found = true
				}
			}
			if !found {
				t.Errorf("%s: %q should be required", tc.name, r)
			}
		}
	}
}

// ─── Todos ───────────────────────────────────────────────────────────────────

func TestTodoFlow_CompleteAndList(t *testing.T) {
	d := newTestDeps(t)
	id := createTodo(t, d, "alice", "Buy milk", "2025-06-01")

	decode(t, call(t, NewCompleteTodoTool(d.exec, "alice"), map[string]interface{}{"todo_id": id}), nil)
	decode(t, call(t, NewCompleteTodoTool(d.exec, "alice"), map[string]interface{}{"todo_id": id}), nil)

	var day []ops.DayTodo
	decode(t, call(t, NewTodosForDateTool(d.exec, "alice"), map[string]interface{}{"date": "2025-06-01"}), &day)
	if len(day) != 1 || !day[0].Completed || !day[0].Archived {
		t.Fatalf("day = %+v, want one completed+archived todo", day)
	}

	res := call(t, NewStreakTool(d.engine, "alice"), nil)
	text := resultText(res)
	if !strings.Contains(text, `"current_streak": 1`) {
		t.Errorf("streak text missing current_streak 1: %s", text)
	}
	if !strings.Contains(text, `"total_todos_completed": 1`) {
		t.Errorf("streak text missing total 1: %s", text)
	}
}

func TestUpdateTodo_ForeignOwnerIsToolError(t *testing.T) {
	d := newTestDeps(t)
	id := createTodo(t, d, "bob", "private", "2025-06-01")

	res := call(t, NewUpdateTodoTool(d.exec, "alice"), map[string]interface{}{
		"todo_id": id,
		"content": "mine now",
	})
	if !res.IsError {
		t.Fatal("expected tool error for foreign todo")
	}
	if !strings.Contains(resultText(res), "not found or unauthorized") {
		t.Errorf("error text = %q", resultText(res))
	}
}

func TestCreateTodo_MissingContentIsToolError(t *testing.T) {
	d := newTestDeps(t)
	res := call(t, NewCreateTodoTool(d.exec, "alice"), map[string]interface{}{})
	if !res.IsError {
		t.Fatal("expected tool error for empty content")
	}
}

func TestDeleteTodo_MissingSucceeds(t *testing.T) {
	d := newTestDeps(t)
	decode(t, call(t, NewDeleteTodoTool(d.exec, "alice"), map[string]interface{}{"todo_id": "ghost"}), nil)
}

func TestMoveTodos_CountsOnlyOwned(t *testing.T) {
	d := newTestDeps(t)
	a := createTodo(t, d, "alice", "a", "2025-06-01")
	b := createTodo(t, d, "alice", "b", "2025-06-01")
	c := createTodo(t, d, "bob", "c", "2025-06-01")

	var moved ops.Moved
	decode(t, call(t, NewMoveTodosTool(d.exec, "alice"), map[string]interface{}{
		"todo_ids":    []interface{}{a, b, c},
		"target_date": "2025-06-03",
	}), &moved)
	if moved.MovedCount != 2 {
		t.Errorf("movedCount = %d, want 2", moved.MovedCount)
	}

	res := call(t, NewMoveTodosTool(d.exec, "alice"), map[string]interface{}{
		"todo_ids":    []interface{}{},
		"target_date": "2025-06-03",
	})
	if !res.IsError {
		t.Error("expected tool error for empty todo_ids")
	}
}

func TestSearchTodos_IncludeCompletedFlag(t *testing.T) {
	d := newTestDeps(t)
	id := createTodo(t, d, "alice", "file taxes", "2025-06-01")
	decode(t, call(t, NewCompleteTodoTool(d.exec, "alice"), map[string]interface{}{"todo_id": id}), nil)

	var hits []ops.TodoHit
	decode(t, call(t, NewSearchTodosTool(d.exec, "alice"), map[string]interface{}{"query": "taxes"}), &hits)
	if len(hits) != 0 {
		t.Errorf("hits = %d, want 0 without include_completed", len(hits))
	}

	decode(t, call(t, NewSearchTodosTool(d.exec, "alice"), map[string]interface{}{
		"query":             "taxes",
		"include_completed": true,
	}), &hits)
	if len(hits) != 1 {
		t.Errorf("hits = %d, want 1 with include_completed", len(hits))
	}
}

func TestArchiveDate(t *testing.T) {
	d := newTestDeps(t)
	createTodo(t, d, "alice", "a", "2025-06-01")

	var out ops.Archived
	decode(t, call(t, NewArchiveDateTool(d.exec, "alice"), map[string]interface{}{"date": "2025-06-01"}), &out)
	if out.ArchivedCount != 1 {
		t.Errorf("archivedCount = %d, want 1", out.ArchivedCount)
	}
}

// ─── Notes ───────────────────────────────────────────────────────────────────

func TestNotes_CreateUpdateSearch(t *testing.T) {
	d := newTestDeps(t)

	var saved ops.NoteSaved
	decode(t, call(t, NewCreateNoteTool(d.exec, "alice"), map[string]interface{}{
		"content": "Quarterly planning notes",
		"title":   "Q3",
		"date":    "2025-06-01",
	}), &saved)

	decode(t, call(t, NewUpdateNoteTool(d.exec, "alice"), map[string]interface{}{
		"note_id": saved.NoteID,
		"content": "Quarterly planning notes, revised",
	}), nil)

	var hits []ops.NoteHit
	decode(t, call(t, NewSearchNotesTool(d.exec, "alice"), map[string]interface{}{"query": "revised"}), &hits)
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	if hits[0].Title != "Q3" || hits[0].Date != "2025-06-01" {
		t.Errorf("hit = %+v", hits[0])
	}
}

// ─── Stats ───────────────────────────────────────────────────────────────────

func TestStatsTool(t *testing.T) {
	d := newTestDeps(t)
	createTodo(t, d, "alice", "a", "2025-06-01")

	res := call(t, NewStatsTool(d.reporter, "alice"), nil)
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}
	if !strings.Contains(resultText(res), "Todos:          1") {
		t.Errorf("stats text = %q", resultText(res))
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func TestArgHelpers(t *testing.T) {
	req := makeReq(map[string]interface{}{
		"flag":  false,
		"name":  "x",
		"ids":   []interface{}{"a", 3.0, "b"},
		"empty": "",
	})
	if v := optBool(req, "flag"); v == nil || *v {
		t.Errorf("optBool(flag) = %v, want false", v)
	}
	if optBool(req, "missing") != nil {
		t.Error("optBool(missing) should be nil")
	}
	if v := optString(req, "name"); v == nil || *v != "x" {
		t.Errorf("optString(name) = %v", v)
	}
	if optDate(req, "empty") != nil {
		t.Error("optDate(empty) should be nil")
	}
	if got := stringSlice(req, "ids"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("stringSlice = %v", got)
	}
}

// ─── Chat ────────────────────────────────────────────────────────────────────

func TestChatTools_LogAndSearch(t *testing.T) {
	s, err := store.New(store.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	m := chat.NewManager(s)

	logTool := NewChatLogTool(m, "alice")
	res := call(t, logTool, map[string]interface{}{
		"content": "remind me about the dentist",
		"role":    "user",
		"date":    "2025-06-01",
	})
	if res.IsError {
		t.Fatalf("log user: %s", resultText(res))
	}
	res = call(t, logTool, map[string]interface{}{
		"content":  "Added a dentist todo",
		"date":     "2025-06-01",
		"link_url": "https://example.com/dentist",
	})
	if res.IsError {
		t.Fatalf("log assistant: %s", resultText(res))
	}
	if !strings.Contains(resultText(res), "(2 messages)") {
		t.Errorf("text = %q", resultText(res))
	}

	res = call(t, logTool, map[string]interface{}{"content": "x", "role": "system"})
	if !res.IsError {
		t.Error("expected error for unknown role")
	}

	res = call(t, NewSearchChatsTool(m, "alice"), map[string]interface{}{"query": "dentist"})
	var hits []chatHit
	if err := json.Unmarshal([]byte(resultText(res)), &hits); err != nil {
		t.Fatalf("invalid JSON %q: %v", resultText(res), err)
	}
	if len(hits) != 1 || hits[0].Date != "2025-06-01" || hits[0].Messages != 2 {
		t.Errorf("hits = %+v", hits)
	}

	res = call(t, NewSearchChatsTool(m, "bob"), map[string]interface{}{"query": "dentist"})
	if err := json.Unmarshal([]byte(resultText(res)), &hits); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("bob sees %d transcripts, want 0", len(hits))
	}
}
