// Package chat keeps the per-owner, per-date assistant transcripts.
//
// Transcripts are append-only. Every append rewrites the message list, the
// searchable text and the last-message time in one store write, so the
// searchable text always equals the space-joined message contents.
package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/daylog-app/daylog/internal/model"
	"github.com/daylog-app/daylog/internal/store"
)

// timeNow is replaceable in tests.
var timeNow = time.Now

// DefaultSearchLimit bounds SearchChats when the caller passes no limit.
const DefaultSearchLimit = 20

// Manager appends to and reads chat transcripts.
type Manager struct {
	store *store.Store
}

// NewManager creates a Manager over s.
func NewManager(s *store.Store) *Manager {
	return &Manager{store: s}
}

// EnsureTranscript returns the owner's transcript for date, creating an
// empty one on first use.
func (m *Manager) EnsureTranscript(ctx context.Context, ownerID string, date model.Date) (*model.ChatTranscript, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, model.Invalid("owner_id", "must not be empty")
	}
	if _, err := model.ParseDate(string(date)); err != nil {
		return nil, err
	}
	return m.store.EnsureChat(ctx, ownerID, date)
}

// GetTranscript loads the owner's transcript for date.
func (m *Manager) GetTranscript(ctx context.Context, ownerID string, date model.Date) (*model.ChatTranscript, error) {
	if _, err := model.ParseDate(string(date)); err != nil {
		return nil, err
	}
	return m.store.ChatForDate(ctx, ownerID, date)
}

// AddUserMessage appends a user-authored message after checking that the
// transcript belongs to ownerID.
func (m *Manager) AddUserMessage(ctx context.Context, ownerID, transcriptID, content string, attachments []model.Attachment) (*model.ChatTranscript, error) {
	msg, err := newMessage(model.RoleUser, content, attachments)
	if err != nil {
		return nil, err
	}
	var out *model.ChatTranscript
	err = m.store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.RequireOwned(ctx, store.Chats, ownerID, transcriptID); err != nil {
			return err
		}
		out, err = appendMessage(ctx, tx, transcriptID, msg)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AddAssistantMessage appends an assistant-authored message. The caller has
// validated transcriptID earlier in the same request, so there is no owner
// check here.
func (m *Manager) AddAssistantMessage(ctx context.Context, transcriptID, content string, attachments []model.Attachment) (*model.ChatTranscript, error) {
	msg, err := newMessage(model.RoleAssistant, content, attachments)
	if err != nil {
		return nil, err
	}
	var out *model.ChatTranscript
	err = m.store.WithTx(ctx, func(tx *store.Store) error {
		out, err = appendMessage(ctx, tx, transcriptID, msg)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func newMessage(role model.Role, content string, attachments []model.Attachment) (model.Message, error) {
	if strings.TrimSpace(content) == "" && len(attachments) == 0 {
		return model.Message{}, model.Invalid("content", "message needs content or an attachment")
	}
	for _, a := range attachments {
		if err := a.Validate(); err != nil {
			return model.Message{}, err
		}
	}
	return model.Message{Role: role, Content: content, Attachments: attachments}, nil
}

// appendMessage is the read-modify-write of one append. The timestamp is
// assigned inside the transaction so message order and time order agree.
func appendMessage(ctx context.Context, tx *store.Store, id string, msg model.Message) (*model.ChatTranscript, error) {
	t, err := tx.GetChat(ctx, id)
	if err != nil {
		return nil, err
	}
	msg.Timestamp = timeNow().UTC().Format(time.RFC3339Nano)
	t.Messages = append(t.Messages, msg)
	if err := tx.SaveChatMessages(ctx, id, t.Messages, msg.Timestamp); err != nil {
		return nil, err
	}
	t.LastMessageAt = msg.Timestamp
	t.SearchableContent = model.SearchableText(t.Messages)
	return t, nil
}

// ClearChat empties a transcript but keeps the record. Clearing a missing,
// foreign or already-empty transcript succeeds without changes.
func (m *Manager) ClearChat(ctx context.Context, ownerID, transcriptID string) error {
	return m.store.WithTx(ctx, func(tx *store.Store) error {
		err := tx.RequireOwned(ctx, store.Chats, ownerID, transcriptID)
		if errors.Is(err, model.ErrNotFoundOrUnauthorized) {
			return nil
		}
		if err != nil {
			return err
		}
		t, err := tx.GetChat(ctx, transcriptID)
		if err != nil {
			return err
		}
		if len(t.Messages) == 0 {
			return nil
		}
		return tx.SaveChatMessages(ctx, transcriptID, nil, "")
	})
}

// DeleteChat removes a transcript. Deleting a missing or foreign transcript
// succeeds without changes.
func (m *Manager) DeleteChat(ctx context.Context, ownerID, transcriptID string) error {
	_, err := m.store.DeleteChat(ctx, ownerID, transcriptID)
	return err
}

// SearchChats finds the owner's transcripts whose messages match query.
func (m *Manager) SearchChats(ctx context.Context, ownerID, query string, limit int) ([]model.ChatTranscript, error) {
	if strings.TrimSpace(query) == "" {
		return nil, model.Invalid("query", "must not be empty")
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return m.store.SearchChats(ctx, ownerID, query, limit)
}

// LinkPreview is the late-filled part of a link attachment.
type LinkPreview struct {
	Title          string
	ScrapedContent string
}

// FillLinkPreview sets the title and scraped content of every link
// attachment with url on message index of the transcript. Nothing else on
// the message changes. It reports how many attachments were filled.
func (m *Manager) FillLinkPreview(ctx context.Context, transcriptID string, index int, url string, p LinkPreview) (int, error) {
	filled := 0
	err := m.store.WithTx(ctx, func(tx *store.Store) error {
		t, err := tx.GetChat(ctx, transcriptID)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(t.Messages) {
			return model.Invalid("index", "no such message")
		}
		atts := t.Messages[index].Attachments
		for i := range atts {
			if atts[i].Kind == model.AttachmentLink && atts[i].URL == url {
				atts[i].Title = p.Title
				atts[i].ScrapedContent = p.ScrapedContent
				filled++
			}
		}
		if filled == 0 {
			return nil
		}
		return tx.SaveChatMessages(ctx, transcriptID, t.Messages, t.LastMessageAt)
	})
	if err != nil {
		return 0, err
	}
	if filled == 0 {
		log.Printf("WARNING: chat: no link attachment %q on message %d of %s", url, index, transcriptID)
	}
	return filled, nil
}
