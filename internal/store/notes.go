package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/daylog-app/daylog/internal/model"
)

const noteColumns = `id, owner_id, date, folder_id, title, content, sort_order, is_page,
	share_token, created_at, updated_at`

// InsertNote stores n, assigning an id, timestamps and order when unset.
func (s *Store) InsertNote(ctx context.Context, n *model.Note) error {
	if n.ID == "" {
		n.ID = s.NewID()
	}
	if n.Order == 0 {
		n.Order = NowOrder()
	}
	now := Now()
	n.CreatedAt, n.UpdatedAt = now, now

	_, err := s.exec(ctx, `
		INSERT INTO notes (`+noteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.OwnerID, nullableDate(n.Date), nullableString(n.FolderID), nullableString(n.Title),
		n.Content, n.Order, boolInt(n.IsPage), nullableString(n.ShareToken), n.CreatedAt, n.UpdatedAt,
	)
	return model.WriteFailed("insert note", err)
}

// GetNote loads a note owned by ownerID.
func (s *Store) GetNote(ctx context.Context, ownerID, id string) (*model.Note, error) {
	var n model.Note
	err := s.get(ctx, &n, `SELECT `+noteColumns+` FROM notes WHERE owner_id = ? AND id = ?`, ownerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFoundOrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return &n, nil
}

// PatchNote applies p to the note. The caller has already run the guard.
func (s *Store) PatchNote(ctx context.Context, ownerID, id string, p model.NotePatch) error {
	if p.Empty() {
		return nil
	}
	var sets []string
	var args []any
	if p.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *p.Content)
	}
	if p.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, nullableDate(p.Date))
	}
	if p.FolderID != nil {
		sets = append(sets, "folder_id = ?")
		args = append(args, *p.FolderID)
	}
	if p.Order != nil {
		sets = append(sets, "sort_order = ?")
		args = append(args, *p.Order)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, Now(), ownerID, id)

	_, err := s.exec(ctx,
		"UPDATE notes SET "+strings.Join(sets, ", ")+" WHERE owner_id = ? AND id = ?",
		args...,
	)
	return model.WriteFailed("update note", err)
}

// DeleteNote hard-deletes a note. It reports whether a row was removed.
func (s *Store) DeleteNote(ctx context.Context, ownerID, id string) (bool, error) {
	res, err := s.exec(ctx, "DELETE FROM notes WHERE owner_id = ? AND id = ?", ownerID, id)
	if err != nil {
		return false, model.WriteFailed("delete note", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// NotesForDate lists an owner's notes on date in display order.
func (s *Store) NotesForDate(ctx context.Context, ownerID string, date model.Date) ([]model.Note, error) {
	var notes []model.Note
	err := s.selectAll(ctx, &notes,
		`SELECT `+noteColumns+` FROM notes WHERE owner_id = ? AND date = ? ORDER BY sort_order, rowid`,
		ownerID, string(date),
	)
	if err != nil {
		return nil, fmt.Errorf("notes for date: %w", err)
	}
	return notes, nil
}

// SearchNotesByContent searches the note content index.
func (s *Store) SearchNotesByContent(ctx context.Context, ownerID, query string) ([]model.Note, error) {
	return s.searchNotes(ctx, "notes_content_fts", ownerID, query)
}

// SearchNotesByTitle searches the note title index.
func (s *Store) SearchNotesByTitle(ctx context.Context, ownerID, query string) ([]model.Note, error) {
	return s.searchNotes(ctx, "notes_title_fts", ownerID, query)
}

// searchNotes queries one of the two note indexes. index is always one of
// the constants above, never caller input.
func (s *Store) searchNotes(ctx context.Context, index, ownerID, query string) ([]model.Note, error) {
	ftsQuery := sanitizeFTS(query)
	if ftsQuery == "" {
		return nil, nil
	}
	var notes []model.Note
	err := s.selectAll(ctx, &notes, `
		SELECT `+prefixed("n.", noteColumns)+`
		FROM `+index+` fts
		JOIN notes n ON n.rowid = fts.rowid
		WHERE `+index+` MATCH ? AND n.owner_id = ?
		ORDER BY fts.rank LIMIT ?`,
		ftsQuery, ownerID, s.cfg.NoteCap(),
	)
	if err != nil {
		return nil, fmt.Errorf("search notes (%s): %w", index, err)
	}
	return notes, nil
}

// SetShareToken sets or clears a note's public share token.
func (s *Store) SetShareToken(ctx context.Context, ownerID, id string, token *string) error {
	_, err := s.exec(ctx,
		"UPDATE notes SET share_token = ?, updated_at = ? WHERE owner_id = ? AND id = ?",
		nullableString(token), Now(), ownerID, id,
	)
	return model.WriteFailed("share note", err)
}

// NoteByShareToken loads a shared note without an owner check.
func (s *Store) NoteByShareToken(ctx context.Context, token string) (*model.Note, error) {
	var n model.Note
	err := s.get(ctx, &n, `SELECT `+noteColumns+` FROM notes WHERE share_token = ?`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFoundOrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("shared note: %w", err)
	}
	return &n, nil
}
