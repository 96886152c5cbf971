package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StreakCheckPrompt handles the streak-check MCP prompt.
// It instructs the AI to read and present the streak and overall stats.
type StreakCheckPrompt struct{}

// NewStreakCheckPrompt creates a StreakCheckPrompt.
func NewStreakCheckPrompt() *StreakCheckPrompt {
	return &StreakCheckPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StreakCheckPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("streak-check",
		mcp.WithPromptDescription(
			"Check your completion streak and overall progress.",
		),
	)
}

// Handle processes the streak-check prompt request.
func (p *StreakCheckPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Streak check",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `get_streak` and `get_stats`.\n\n" +
						"Then:\n" +
						"1. Tell me my current and longest streak\n" +
						"2. Say which recent days were fully completed\n" +
						"3. Point out anything that would break the streak today",
				),
			},
		},
	}, nil
}
