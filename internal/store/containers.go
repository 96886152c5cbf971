package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/daylog-app/daylog/internal/model"
)

// ─── Folders ─────────────────────────────────────────────────────────────────

// InsertFolder stores f, assigning an id, timestamp and order when unset.
func (s *Store) InsertFolder(ctx context.Context, f *model.Folder) error {
	if f.ID == "" {
		f.ID = s.NewID()
	}
	if f.Order == 0 {
		f.Order = NowOrder()
	}
	f.CreatedAt = Now()
	_, err := s.exec(ctx,
		`INSERT INTO folders (id, owner_id, name, archived, sort_order, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		f.ID, f.OwnerID, f.Name, boolInt(f.Archived), f.Order, f.CreatedAt,
	)
	return model.WriteFailed("insert folder", err)
}

// GetFolder loads a folder owned by ownerID.
func (s *Store) GetFolder(ctx context.Context, ownerID, id string) (*model.Folder, error) {
	var f model.Folder
	err := s.get(ctx, &f,
		`SELECT id, owner_id, name, archived, sort_order, created_at FROM folders WHERE owner_id = ? AND id = ?`,
		ownerID, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFoundOrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("get folder: %w", err)
	}
	return &f, nil
}

// SetFolderArchived flips a folder's archived flag.
func (s *Store) SetFolderArchived(ctx context.Context, ownerID, id string, archived bool) error {
	_, err := s.exec(ctx, "UPDATE folders SET archived = ? WHERE owner_id = ? AND id = ?",
		boolInt(archived), ownerID, id)
	return model.WriteFailed("archive folder", err)
}

// DeleteFolder removes a folder and its date associations. Todos and notes
// filed in it are moved out of the folder rather than deleted.
func (s *Store) DeleteFolder(ctx context.Context, ownerID, id string) (bool, error) {
	var removed bool
	err := s.WithTx(ctx, func(tx *Store) error {
		if _, err := tx.exec(ctx, "UPDATE todos SET folder_id = NULL WHERE owner_id = ? AND folder_id = ?", ownerID, id); err != nil {
			return model.WriteFailed("detach folder todos", err)
		}
		if _, err := tx.exec(ctx, "UPDATE notes SET folder_id = NULL WHERE owner_id = ? AND folder_id = ?", ownerID, id); err != nil {
			return model.WriteFailed("detach folder notes", err)
		}
		if _, err := tx.exec(ctx, "DELETE FROM folder_dates WHERE owner_id = ? AND folder_id = ?", ownerID, id); err != nil {
			return model.WriteFailed("delete folder dates", err)
		}
		res, err := tx.exec(ctx, "DELETE FROM folders WHERE owner_id = ? AND id = ?", ownerID, id)
		if err != nil {
			return model.WriteFailed("delete folder", err)
		}
		n, _ := res.RowsAffected()
		removed = n > 0
		return nil
	})
	return removed, err
}

// InsertMonthGroup stores g, assigning an id and timestamp.
func (s *Store) InsertMonthGroup(ctx context.Context, g *model.MonthGroup) error {
	if g.ID == "" {
		g.ID = s.NewID()
	}
	g.CreatedAt = Now()
	_, err := s.exec(ctx,
		`INSERT INTO month_groups (id, owner_id, name, created_at) VALUES (?, ?, ?, ?)`,
		g.ID, g.OwnerID, g.Name, g.CreatedAt,
	)
	return model.WriteFailed("insert month group", err)
}

// ─── Date associations ───────────────────────────────────────────────────────

// AssignDateToFolder files date under folderID, replacing any prior folder.
func (s *Store) AssignDateToFolder(ctx context.Context, ownerID string, date model.Date, folderID string) error {
	_, err := s.exec(ctx, `
		INSERT INTO folder_dates (owner_id, date, folder_id) VALUES (?, ?, ?)
		ON CONFLICT(owner_id, date) DO UPDATE SET folder_id = excluded.folder_id`,
		ownerID, string(date), folderID,
	)
	return model.WriteFailed("assign date to folder", err)
}

// FolderForDate returns the folder date is filed under, or "".
func (s *Store) FolderForDate(ctx context.Context, ownerID string, date model.Date) (string, error) {
	return s.lookupAssoc(ctx, "SELECT folder_id FROM folder_dates WHERE owner_id = ? AND date = ?", ownerID, date)
}

// AssignDateToMonthGroup files date under groupID, replacing any prior group.
func (s *Store) AssignDateToMonthGroup(ctx context.Context, ownerID string, date model.Date, groupID string) error {
	_, err := s.exec(ctx, `
		INSERT INTO month_group_dates (owner_id, date, month_group_id) VALUES (?, ?, ?)
		ON CONFLICT(owner_id, date) DO UPDATE SET month_group_id = excluded.month_group_id`,
		ownerID, string(date), groupID,
	)
	return model.WriteFailed("assign date to month group", err)
}

// MonthGroupForDate returns the month group date is filed under, or "".
func (s *Store) MonthGroupForDate(ctx context.Context, ownerID string, date model.Date) (string, error) {
	return s.lookupAssoc(ctx, "SELECT month_group_id FROM month_group_dates WHERE owner_id = ? AND date = ?", ownerID, date)
}

func (s *Store) lookupAssoc(ctx context.Context, query, ownerID string, date model.Date) (string, error) {
	var id string
	err := s.get(ctx, &id, query, ownerID, string(date))
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return id, err
}

// ─── Archived dates ──────────────────────────────────────────────────────────

// MarkDateArchived records date as archived. It reports whether a new marker
// was written; an existing marker is left untouched.
func (s *Store) MarkDateArchived(ctx context.Context, ownerID string, date model.Date) (bool, error) {
	res, err := s.exec(ctx,
		"INSERT OR IGNORE INTO archived_dates (owner_id, date, created_at) VALUES (?, ?, ?)",
		ownerID, string(date), Now(),
	)
	if err != nil {
		return false, model.WriteFailed("archive date", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// UnmarkDateArchived removes the archived marker for date.
func (s *Store) UnmarkDateArchived(ctx context.Context, ownerID string, date model.Date) error {
	_, err := s.exec(ctx, "DELETE FROM archived_dates WHERE owner_id = ? AND date = ?", ownerID, string(date))
	return model.WriteFailed("unarchive date", err)
}

// IsDateArchived reports whether date carries an archived marker.
func (s *Store) IsDateArchived(ctx context.Context, ownerID string, date model.Date) (bool, error) {
	var n int
	err := s.get(ctx, &n, "SELECT COUNT(*) FROM archived_dates WHERE owner_id = ? AND date = ?", ownerID, string(date))
	return n > 0, err
}

// ArchivedDates lists the owner's archived dates, newest first.
func (s *Store) ArchivedDates(ctx context.Context, ownerID string) ([]model.Date, error) {
	var dates []model.Date
	err := s.selectAll(ctx, &dates, "SELECT date FROM archived_dates WHERE owner_id = ? ORDER BY date DESC", ownerID)
	return dates, err
}
