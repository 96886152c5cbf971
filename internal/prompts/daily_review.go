// Package prompts implements MCP prompt handlers.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/daylog-app/daylog/internal/model"
)

// timeNow is replaceable in tests.
var timeNow = time.Now

// DailyReviewPrompt handles the daily-review MCP prompt.
// It walks the AI through reviewing one day and planning the next.
type DailyReviewPrompt struct{}

// NewDailyReviewPrompt creates a DailyReviewPrompt.
func NewDailyReviewPrompt() *DailyReviewPrompt {
	return &DailyReviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *DailyReviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("daily-review",
		mcp.WithPromptDescription(
			"Review a day's todos, close out what is done, "+
				"and carry the rest forward to tomorrow.",
		),
		mcp.WithArgument("date",
			mcp.ArgumentDescription("Day to review, YYYY-MM-DD. Default: today"),
		),
	)
}

// Handle processes the daily-review prompt request.
func (p *DailyReviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	day := model.DateOf(timeNow())
	if args := req.Params.Arguments; args != nil {
		if d, ok := args["date"]; ok && d != "" {
			parsed, err := model.ParseDate(d)
			if err != nil {
				return nil, err
			}
			day = parsed
		}
	}
	next := day.AddDays(1)

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Daily review for %s", day),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Let's review %s.\n\n"+
						"Please:\n"+
						"1. Run `get_todos_for_date` with date='%s' and show me what is open and what is done\n"+
						"2. Ask me which open todos I finished, and run `complete_todo` for each\n"+
						"3. Move whatever is still open to %s with `move_todos_to_date`\n"+
						"4. Run `archive_date_and_todos` for %s once I confirm\n"+
						"5. Finish with `get_streak` and tell me where my streak stands",
					day, day, next, day,
				)),
			},
		},
	}, nil
}
