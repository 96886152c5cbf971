package agenttools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/daylog-app/daylog/internal/chat"
	"github.com/daylog-app/daylog/internal/model"
)

// timeNow is replaceable in tests.
var timeNow = time.Now

// ChatLogTool handles the log_chat_message MCP tool. It appends to the
// owner's transcript for a day, creating the transcript on first use.
type ChatLogTool struct {
	chats *chat.Manager
	owner string
}

// NewChatLogTool creates a ChatLogTool.
func NewChatLogTool(chats *chat.Manager, owner string) *ChatLogTool {
	return &ChatLogTool{chats: chats, owner: owner}
}

// Definition returns the MCP tool definition for log_chat_message.
func (t *ChatLogTool) Definition() mcp.Tool {
	return mcp.NewTool("log_chat_message",
		mcp.WithDescription("Append a message to the day's chat transcript so it can be searched later."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Message text")),
		mcp.WithString("role", mcp.Description("user or assistant (default: assistant)")),
		mcp.WithString("date", mcp.Description("Transcript day, YYYY-MM-DD (default: today)")),
		mcp.WithString("link_url", mcp.Description("Optional link to attach to the message")),
	)
}

// Handle processes the log_chat_message tool call.
func (t *ChatLogTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date := model.DateOf(timeNow())
	if d := optDate(req, "date"); d != nil {
		date = *d
	}
	var atts []model.Attachment
	if url := req.GetString("link_url", ""); url != "" {
		atts = append(atts, model.Attachment{Kind: model.AttachmentLink, URL: url})
	}
	content := req.GetString("content", "")

	tr, err := t.chats.EnsureTranscript(ctx, t.owner, date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to open transcript: %v", err)), nil
	}
	switch role := model.Role(req.GetString("role", string(model.RoleAssistant))); role {
	case model.RoleUser:
		// User messages always pass the owner check, even on a transcript
		// this call just opened for the same owner.
		tr, err = t.chats.AddUserMessage(ctx, t.owner, tr.ID, content, atts)
	case model.RoleAssistant:
		tr, err = t.chats.AddAssistantMessage(ctx, tr.ID, content, atts)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown role %q (user, assistant)", role)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to append message: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Logged to %s transcript (%d messages)", tr.Date, len(tr.Messages))), nil
}

// SearchChatsTool handles the search_chats MCP tool.
type SearchChatsTool struct {
	chats *chat.Manager
	owner string
}

// NewSearchChatsTool creates a SearchChatsTool.
func NewSearchChatsTool(chats *chat.Manager, owner string) *SearchChatsTool {
	return &SearchChatsTool{chats: chats, owner: owner}
}

// Definition returns the MCP tool definition for search_chats.
func (t *SearchChatsTool) Definition() mcp.Tool {
	return mcp.NewTool("search_chats",
		mcp.WithDescription("Search past chat transcripts. Returns matching days with their message count."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Words to search for")),
		mcp.WithNumber("limit", mcp.Description("Max days to return (default: 20)")),
	)
}

type chatHit struct {
	Date          model.Date `json:"date"`
	Messages      int        `json:"messages"`
	LastMessageAt string     `json:"lastMessageAt,omitempty"`
}

// Handle processes the search_chats tool call.
func (t *SearchChatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	found, err := t.chats.SearchChats(ctx, t.owner, req.GetString("query", ""), intArg(req, "limit", chat.DefaultSearchLimit))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	hits := make([]chatHit, len(found))
	for i, c := range found {
		hits[i] = chatHit{Date: c.Date, Messages: len(c.Messages), LastMessageAt: c.LastMessageAt}
	}
	return jsonResult(hits)
}
