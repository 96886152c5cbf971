package planner

import (
	"context"
	"errors"

	"github.com/daylog-app/daylog/internal/model"
	"github.com/daylog-app/daylog/internal/store"
)

// CreateFolder creates an empty, unarchived folder.
func (s *Service) CreateFolder(ctx context.Context, ownerID, name string) (*model.Folder, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	name, err := requireText("name", name)
	if err != nil {
		return nil, err
	}
	f := &model.Folder{OwnerID: ownerID, Name: name}
	if err := s.store.InsertFolder(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// ArchiveFolder archives a folder and, concurrently, every open todo filed
// in it. It returns how many todos the cascade archived.
func (s *Service) ArchiveFolder(ctx context.Context, ownerID, id string) (int, error) {
	return s.cascadeFolder(ctx, ownerID, id, true)
}

// UnarchiveFolder restores a folder and its incomplete todos. Completed
// todos keep their done marker.
func (s *Service) UnarchiveFolder(ctx context.Context, ownerID, id string) (int, error) {
	return s.cascadeFolder(ctx, ownerID, id, false)
}

func (s *Service) cascadeFolder(ctx context.Context, ownerID, id string, archived bool) (int, error) {
	if err := s.store.RequireOwned(ctx, store.Folders, ownerID, id); err != nil {
		return 0, err
	}
	if err := s.store.SetFolderArchived(ctx, ownerID, id, archived); err != nil {
		return 0, err
	}
	todos, err := s.store.TodosInFolder(ctx, ownerID, id)
	if err != nil {
		return 0, err
	}
	var targets []string
	for _, t := range todos {
		if t.Completed || t.Archived == archived {
			continue
		}
		targets = append(targets, t.ID)
	}
	return s.setArchived(ctx, ownerID, targets, archived), nil
}

// DeleteFolder deletes a folder; its todos and notes stay, unfiled, and
// the dates of the detached todos are recomputed. Deleting a folder that
// is already gone succeeds.
func (s *Service) DeleteFolder(ctx context.Context, ownerID, id string) error {
	return s.store.WithTx(ctx, func(tx *store.Store) error {
		err := tx.RequireOwned(ctx, store.Folders, ownerID, id)
		if errors.Is(err, model.ErrNotFoundOrUnauthorized) {
			return nil
		}
		if err != nil {
			return err
		}
		filed, err := tx.TodosInFolder(ctx, ownerID, id)
		if err != nil {
			return err
		}
		var dates []model.Date
		for _, t := range filed {
			dates = append(dates, t.DateValue())
		}
		if _, err := tx.DeleteFolder(ctx, ownerID, id); err != nil {
			return err
		}
		return s.recomputeDates(ctx, tx, ownerID, dates...)
	})
}

// CreateMonthGroup creates a named month group.
func (s *Service) CreateMonthGroup(ctx context.Context, ownerID, name string) (*model.MonthGroup, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	name, err := requireText("name", name)
	if err != nil {
		return nil, err
	}
	g := &model.MonthGroup{OwnerID: ownerID, Name: name}
	if err := s.store.InsertMonthGroup(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// AssignDateToFolder files date under a folder, replacing the previous one.
func (s *Service) AssignDateToFolder(ctx context.Context, ownerID string, date model.Date, folderID string) error {
	if _, err := model.ParseDate(string(date)); err != nil {
		return err
	}
	return s.store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.RequireOwned(ctx, store.Folders, ownerID, folderID); err != nil {
			return err
		}
		return tx.AssignDateToFolder(ctx, ownerID, date, folderID)
	})
}

// AssignDateToMonthGroup files date under a month group, replacing the
// previous one.
func (s *Service) AssignDateToMonthGroup(ctx context.Context, ownerID string, date model.Date, groupID string) error {
	if _, err := model.ParseDate(string(date)); err != nil {
		return err
	}
	return s.store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.RequireOwned(ctx, store.MonthGroups, ownerID, groupID); err != nil {
			return err
		}
		return tx.AssignDateToMonthGroup(ctx, ownerID, date, groupID)
	})
}
