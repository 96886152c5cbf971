package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/daylog-app/daylog/internal/model"
)

type chatRow struct {
	ID                string         `db:"id"`
	OwnerID           string         `db:"owner_id"`
	Date              string         `db:"date"`
	Messages          string         `db:"messages"`
	LastMessageAt     sql.NullString `db:"last_message_at"`
	SearchableContent string         `db:"searchable_content"`
}

func (r chatRow) transcript() (*model.ChatTranscript, error) {
	var msgs []model.Message
	if err := json.Unmarshal([]byte(r.Messages), &msgs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	return &model.ChatTranscript{
		ID:                r.ID,
		OwnerID:           r.OwnerID,
		Date:              model.Date(r.Date),
		Messages:          msgs,
		LastMessageAt:     r.LastMessageAt.String,
		SearchableContent: r.SearchableContent,
	}, nil
}

const chatColumns = "id, owner_id, date, messages, last_message_at, searchable_content"

// EnsureChat returns the owner's transcript for date, creating it if absent.
func (s *Store) EnsureChat(ctx context.Context, ownerID string, date model.Date) (*model.ChatTranscript, error) {
	var out *model.ChatTranscript
	err := s.WithTx(ctx, func(tx *Store) error {
		if _, err := tx.exec(ctx,
			"INSERT OR IGNORE INTO chats (id, owner_id, date) VALUES (?, ?, ?)",
			tx.NewID(), ownerID, string(date),
		); err != nil {
			return model.WriteFailed("create chat", err)
		}
		t, err := tx.ChatForDate(ctx, ownerID, date)
		out = t
		return err
	})
	return out, err
}

// ChatForDate loads the owner's transcript for date.
func (s *Store) ChatForDate(ctx context.Context, ownerID string, date model.Date) (*model.ChatTranscript, error) {
	return s.loadChat(ctx, "SELECT "+chatColumns+" FROM chats WHERE owner_id = ? AND date = ?", ownerID, string(date))
}

// GetChat loads a transcript by id without an owner check. Callers reach it
// only with an id validated earlier in the same request.
func (s *Store) GetChat(ctx context.Context, id string) (*model.ChatTranscript, error) {
	return s.loadChat(ctx, "SELECT "+chatColumns+" FROM chats WHERE id = ?", id)
}

func (s *Store) loadChat(ctx context.Context, query string, args ...any) (*model.ChatTranscript, error) {
	var row chatRow
	err := s.get(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFoundOrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("load chat: %w", err)
	}
	return row.transcript()
}

// SaveChatMessages replaces a transcript's message list, keeping the
// searchable projection and last-message time in the same write.
func (s *Store) SaveChatMessages(ctx context.Context, id string, msgs []model.Message, lastMessageAt string) error {
	if msgs == nil {
		msgs = []model.Message{}
	}
	raw, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}
	var last any
	if lastMessageAt != "" {
		last = lastMessageAt
	}
	_, err = s.exec(ctx,
		"UPDATE chats SET messages = ?, searchable_content = ?, last_message_at = ? WHERE id = ?",
		string(raw), model.SearchableText(msgs), last, id,
	)
	return model.WriteFailed("save chat", err)
}

// DeleteChat removes a transcript. It reports whether a row was removed.
func (s *Store) DeleteChat(ctx context.Context, ownerID, id string) (bool, error) {
	res, err := s.exec(ctx, "DELETE FROM chats WHERE owner_id = ? AND id = ?", ownerID, id)
	if err != nil {
		return false, model.WriteFailed("delete chat", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SearchChats searches the owner's transcripts by their searchable text.
func (s *Store) SearchChats(ctx context.Context, ownerID, query string, limit int) ([]model.ChatTranscript, error) {
	ftsQuery := sanitizeFTS(query)
	if ftsQuery == "" {
		return nil, nil
	}
	if limit <= 0 || limit > hardTodoSearchCap {
		limit = hardTodoSearchCap
	}
	var rows []chatRow
	err := s.selectAll(ctx, &rows, `
		SELECT c.id, c.owner_id, c.date, c.messages, c.last_message_at, c.searchable_content
		FROM chats_fts fts
		JOIN chats c ON c.rowid = fts.rowid
		WHERE chats_fts MATCH ? AND c.owner_id = ?
		ORDER BY fts.rank LIMIT ?`,
		ftsQuery, ownerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search chats: %w", err)
	}
	out := make([]model.ChatTranscript, 0, len(rows))
	for _, r := range rows {
		t, err := r.transcript()
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}
