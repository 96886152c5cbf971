package prompts

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func promptText(t *testing.T, res *mcp.GetPromptResult) string {
	t.Helper()
	if len(res.Messages) == 0 {
		t.Fatal("no messages")
	}
	tc, ok := res.Messages[0].Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T", res.Messages[0].Content)
	}
	return tc.Text
}

func TestDailyReview_DefaultsToToday(t *testing.T) {
	old := timeNow
	timeNow = func() time.Time { return time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { timeNow = old })

	p := NewDailyReviewPrompt()
	if p.Definition().Name != "daily-review" {
		t.Errorf("name = %q", p.Definition().Name)
	}
	res, err := p.Handle(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := promptText(t, res)
	if !strings.Contains(text, "date='2025-06-30'") {
		t.Errorf("missing review date: %s", text)
	}
	if !strings.Contains(text, "to 2025-07-01") {
		t.Errorf("missing next day: %s", text)
	}
}

func TestDailyReview_ExplicitAndInvalidDate(t *testing.T) {
	p := NewDailyReviewPrompt()

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"date": "2024-02-28"}
	res, err := p.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(promptText(t, res), "to 2024-02-29") {
		t.Error("next day should respect leap year")
	}

	req.Params.Arguments = map[string]string{"date": "yesterday"}
	if _, err := p.Handle(context.Background(), req); err == nil {
		t.Error("expected error for invalid date")
	}
}

func TestStreakCheck(t *testing.T) {
	p := NewStreakCheckPrompt()
	res, err := p.Handle(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(promptText(t, res), "get_streak") {
		t.Error("prompt should reference get_streak")
	}
}
