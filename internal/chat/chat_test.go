package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daylog-app/daylog/internal/model"
	"github.com/daylog-app/daylog/internal/store"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	s, err := store.New(store.Config{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return NewManager(s)
}

func fixedClock(t *testing.T) {
	t.Helper()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	n := 0
	old := timeNow
	timeNow = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	t.Cleanup(func() { timeNow = old })
}

func TestEnsureTranscript_OnePerOwnerAndDate(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	a, err := m.EnsureTranscript(ctx, "alice", "2025-06-01")
	require.NoError(t, err)
	again, err := m.EnsureTranscript(ctx, "alice", "2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, a.ID, again.ID)
	assert.Empty(t, a.Messages)

	b, err := m.EnsureTranscript(ctx, "bob", "2025-06-01")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	_, err = m.EnsureTranscript(ctx, "alice", "June 1")
	assert.True(t, model.IsValidation(err))
}

func TestAddMessage_ProjectionConsistent(t *testing.T) {
	fixedClock(t)
	m := newTestManager(t)
	ctx := context.Background()
	tr, err := m.EnsureTranscript(ctx, "alice", "2025-06-01")
	require.NoError(t, err)

	contents := []string{"plan my day", "Sure, here is a plan", "add gym at 6"}
	for i, c := range contents {
		if i%2 == 0 {
			tr, err = m.AddUserMessage(ctx, "alice", tr.ID, c, nil)
		} else {
			tr, err = m.AddAssistantMessage(ctx, tr.ID, c, nil)
		}
		require.NoError(t, err)
		assert.Equal(t, strings.Join(contents[:i+1], " "), tr.SearchableContent)
	}

	stored, err := m.GetTranscript(ctx, "alice", "2025-06-01")
	require.NoError(t, err)
	require.Len(t, stored.Messages, 3)
	assert.Equal(t, strings.Join(contents, " "), stored.SearchableContent)
	assert.Equal(t, model.RoleUser, stored.Messages[0].Role)
	assert.Equal(t, model.RoleAssistant, stored.Messages[1].Role)
	assert.Equal(t, stored.Messages[2].Timestamp, stored.LastMessageAt)
	assert.Less(t, stored.Messages[0].Timestamp, stored.Messages[2].Timestamp)
}

func TestAddUserMessage_Guarded(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	tr, err := m.EnsureTranscript(ctx, "alice", "2025-06-01")
	require.NoError(t, err)

	_, err = m.AddUserMessage(ctx, "bob", tr.ID, "hello", nil)
	assert.ErrorIs(t, err, model.ErrNotFoundOrUnauthorized)

	stored, err := m.GetTranscript(ctx, "alice", "2025-06-01")
	require.NoError(t, err)
	assert.Empty(t, stored.Messages)
}

func TestAddUserMessage_ValidatesAttachments(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	tr, err := m.EnsureTranscript(ctx, "alice", "2025-06-01")
	require.NoError(t, err)

	_, err = m.AddUserMessage(ctx, "alice", tr.ID, "look", []model.Attachment{{Kind: model.AttachmentLink}})
	assert.True(t, model.IsValidation(err))

	_, err = m.AddUserMessage(ctx, "alice", tr.ID, "  ", nil)
	assert.True(t, model.IsValidation(err))

	out, err := m.AddUserMessage(ctx, "alice", tr.ID, "", []model.Attachment{{Kind: model.AttachmentImage, BlobRef: "blob-1"}})
	require.NoError(t, err)
	assert.Len(t, out.Messages, 1)
}

func TestClearAndDeleteChat_Idempotent(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	tr, err := m.EnsureTranscript(ctx, "alice", "2025-06-01")
	require.NoError(t, err)
	_, err = m.AddUserMessage(ctx, "alice", tr.ID, "hello", nil)
	require.NoError(t, err)

	require.NoError(t, m.ClearChat(ctx, "bob", tr.ID))
	stored, err := m.GetTranscript(ctx, "alice", "2025-06-01")
	require.NoError(t, err)
	assert.Len(t, stored.Messages, 1, "foreign clear must not mutate")

	require.NoError(t, m.ClearChat(ctx, "alice", tr.ID))
	require.NoError(t, m.ClearChat(ctx, "alice", tr.ID))
	stored, err = m.GetTranscript(ctx, "alice", "2025-06-01")
	require.NoError(t, err)
	assert.Empty(t, stored.Messages)
	assert.Empty(t, stored.SearchableContent)

	require.NoError(t, m.DeleteChat(ctx, "bob", tr.ID))
	require.NoError(t, m.DeleteChat(ctx, "alice", tr.ID))
	require.NoError(t, m.DeleteChat(ctx, "alice", tr.ID))
	_, err = m.GetTranscript(ctx, "alice", "2025-06-01")
	assert.ErrorIs(t, err, model.ErrNotFoundOrUnauthorized)
}

func TestSearchChats_OwnerScoped(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	for _, owner := range []string{"alice", "bob"} {
		tr, err := m.EnsureTranscript(ctx, owner, "2025-06-01")
		require.NoError(t, err)
		_, err = m.AddUserMessage(ctx, owner, tr.ID, "dentist appointment", nil)
		require.NoError(t, err)
	}

	got, err := m.SearchChats(ctx, "alice", "dentist", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "alice", got[0].OwnerID)

	_, err = m.SearchChats(ctx, "alice", "", 0)
	assert.True(t, model.IsValidation(err))
}

func TestFillLinkPreview(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	tr, err := m.EnsureTranscript(ctx, "alice", "2025-06-01")
	require.NoError(t, err)
	tr, err = m.AddUserMessage(ctx, "alice", tr.ID, "read this", []model.Attachment{
		{Kind: model.AttachmentLink, URL: "https://example.com/a"},
		{Kind: model.AttachmentImage, BlobRef: "blob-1"},
	})
	require.NoError(t, err)
	before := tr.Messages[0]

	n, err := m.FillLinkPreview(ctx, tr.ID, 0, "https://example.com/a", LinkPreview{Title: "A", ScrapedContent: "body"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, err := m.GetTranscript(ctx, "alice", "2025-06-01")
	require.NoError(t, err)
	got := stored.Messages[0]
	assert.Equal(t, "A", got.Attachments[0].Title)
	assert.Equal(t, "body", got.Attachments[0].ScrapedContent)
	assert.Equal(t, before.Attachments[1], got.Attachments[1])
	assert.Equal(t, before.Content, got.Content)
	assert.Equal(t, before.Timestamp, got.Timestamp)
	assert.Equal(t, "read this", stored.SearchableContent)

	n, err = m.FillLinkPreview(ctx, tr.ID, 0, "https://other.example", LinkPreview{Title: "B"})
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = m.FillLinkPreview(ctx, tr.ID, 5, "https://example.com/a", LinkPreview{})
	assert.True(t, model.IsValidation(err))
}
