package planner

import (
	"context"

	"github.com/google/uuid"

	"github.com/daylog-app/daylog/internal/model"
	"github.com/daylog-app/daylog/internal/store"
)

// NewNote holds the input of CreateNote.
type NewNote struct {
	Title    *string
	Content  string
	Date     *model.Date
	FolderID *string
	IsPage   bool
}

// CreateNote stores a new note. Content may be empty; a page needs a title.
func (s *Service) CreateNote(ctx context.Context, ownerID string, in NewNote) (*model.Note, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if in.Date != nil {
		if _, err := model.ParseDate(string(*in.Date)); err != nil {
			return nil, err
		}
	}
	if in.IsPage && (in.Title == nil || *in.Title == "") {
		return nil, model.Invalid("title", "a page requires a title")
	}
	n := &model.Note{
		OwnerID:  ownerID,
		Date:     in.Date,
		FolderID: in.FolderID,
		Title:    in.Title,
		Content:  in.Content,
		IsPage:   in.IsPage,
		Order:    store.NowOrder(),
	}
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		if in.FolderID != nil {
			if err := tx.RequireOwned(ctx, store.Folders, ownerID, *in.FolderID); err != nil {
				return err
			}
		}
		return tx.InsertNote(ctx, n)
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// UpdateNote applies a guarded partial update and returns the stored note.
func (s *Service) UpdateNote(ctx context.Context, ownerID, id string, p model.NotePatch) (*model.Note, error) {
	if p.Date != nil {
		if _, err := model.ParseDate(string(*p.Date)); err != nil {
			return nil, err
		}
	}
	var out *model.Note
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.RequireOwned(ctx, store.Notes, ownerID, id); err != nil {
			return err
		}
		if p.FolderID != nil {
			if err := tx.RequireOwned(ctx, store.Folders, ownerID, *p.FolderID); err != nil {
				return err
			}
		}
		if err := tx.PatchNote(ctx, ownerID, id, p); err != nil {
			return err
		}
		var err error
		out, err = tx.GetNote(ctx, ownerID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetNote loads one of the owner's notes.
func (s *Service) GetNote(ctx context.Context, ownerID, id string) (*model.Note, error) {
	return s.store.GetNote(ctx, ownerID, id)
}

// DeleteNote deletes a note. A missing or foreign id is reported as
// model.ErrNotFoundOrUnauthorized.
func (s *Service) DeleteNote(ctx context.Context, ownerID, id string) error {
	if err := s.store.RequireOwned(ctx, store.Notes, ownerID, id); err != nil {
		return err
	}
	_, err := s.store.DeleteNote(ctx, ownerID, id)
	return err
}

// NotesForDate lists the owner's notes on date.
func (s *Service) NotesForDate(ctx context.Context, ownerID string, date model.Date) ([]model.Note, error) {
	if _, err := model.ParseDate(string(date)); err != nil {
		return nil, err
	}
	return s.store.NotesForDate(ctx, ownerID, date)
}

// SearchNotes queries the content index and then the title index. Content
// hits come first; a note found by both appears once, at its content rank.
// The merged list is capped at the note search limit.
func (s *Service) SearchNotes(ctx context.Context, ownerID, query string) ([]model.Note, error) {
	q, err := requireText("query", query)
	if err != nil {
		return nil, err
	}
	byContent, err := s.store.SearchNotesByContent(ctx, ownerID, q)
	if err != nil {
		return nil, err
	}
	byTitle, err := s.store.SearchNotesByTitle(ctx, ownerID, q)
	if err != nil {
		return nil, err
	}

	limit := s.store.Config().NoteCap()
	seen := make(map[string]bool, len(byContent)+len(byTitle))
	out := make([]model.Note, 0, min(limit, len(byContent)+len(byTitle)))
	for _, list := range [][]model.Note{byContent, byTitle} {
		for _, n := range list {
			if len(out) == limit {
				return out, nil
			}
			if seen[n.ID] {
				continue
			}
			seen[n.ID] = true
			out = append(out, n)
		}
	}
	return out, nil
}

// ShareNote gives a note a public share token and returns it. A note that
// is already shared keeps its token.
func (s *Service) ShareNote(ctx context.Context, ownerID, id string) (string, error) {
	var token string
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.RequireOwned(ctx, store.Notes, ownerID, id); err != nil {
			return err
		}
		n, err := tx.GetNote(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if n.ShareToken != nil {
			token = *n.ShareToken
			return nil
		}
		token = uuid.NewString()
		return tx.SetShareToken(ctx, ownerID, id, &token)
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// UnshareNote revokes a note's share token.
func (s *Service) UnshareNote(ctx context.Context, ownerID, id string) error {
	return s.store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.RequireOwned(ctx, store.Notes, ownerID, id); err != nil {
			return err
		}
		return tx.SetShareToken(ctx, ownerID, id, nil)
	})
}

// SharedNote resolves a share token to its note, with no owner check.
func (s *Service) SharedNote(ctx context.Context, token string) (*model.Note, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, model.ErrNotFoundOrUnauthorized
	}
	return s.store.NoteByShareToken(ctx, token)
}
