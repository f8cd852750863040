package memory

import (
	"context"
	"fmt"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

type memoryFolderRepository struct {
	s *store
}

func newFolderRepository(s *store) repositories.FolderRepository {
	return &memoryFolderRepository{s: s}
}

func (r *memoryFolderRepository) Insert(ctx context.Context, folder *models.Folder) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if folder.ParentID != nil {
		if _, ok := r.s.folders[*folder.ParentID]; !ok {
			return 0, fmt.Errorf("parent folder %d: %w", *folder.ParentID, domain.ErrNotFound)
		}
	}

	if folder.ID == 0 {
		folder.ID = r.s.nextFolderID
		r.s.nextFolderID++
	} else if folder.ID >= r.s.nextFolderID {
		r.s.nextFolderID = folder.ID + 1
	}
	r.s.folders[folder.ID] = cloneFolder(folder)

	r.s.notifier.Broadcast()
	return folder.ID, nil
}

func (r *memoryFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.folders[folder.ID]; !ok {
		return fmt.Errorf("folder %d: %w", folder.ID, domain.ErrNotFound)
	}
	r.s.folders[folder.ID] = cloneFolder(folder)

	r.s.notifier.Broadcast()
	return nil
}

// Delete removes the folder and its whole subtree. Notes filed anywhere in
// the subtree become unfoldered.
func (r *memoryFolderRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.folders[id]; !ok {
		return fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
	}

	doomed := map[int64]struct{}{id: {}}
	for {
		grew := false
		for _, f := range r.s.folders {
			if f.ParentID == nil {
				continue
			}
			if _, gone := doomed[*f.ParentID]; !gone {
				continue
			}
			if _, seen := doomed[f.ID]; !seen {
				doomed[f.ID] = struct{}{}
				grew = true
			}
		}
		if !grew {
			break
		}
	}

	for fid := range doomed {
		delete(r.s.folders, fid)
	}
	for _, n := range r.s.notes {
		if n.FolderID == nil {
			continue
		}
		if _, gone := doomed[*n.FolderID]; gone {
			n.FolderID = nil
		}
	}

	r.s.notifier.Broadcast()
	return nil
}

func (r *memoryFolderRepository) GetByID(ctx context.Context, id int64) (*models.Folder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.folders[id]
	if !ok {
		return nil, fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
	}
	return cloneFolder(f), nil
}

func (r *memoryFolderRepository) collect(match func(*models.Folder) bool) []models.Folder {
	var folders []models.Folder
	for _, f := range r.s.folders {
		if match(f) {
			folders = append(folders, *cloneFolder(f))
		}
	}
	sortFolders(folders)
	return folders
}

func (r *memoryFolderRepository) ListAll(ctx context.Context) ([]models.Folder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.collect(func(*models.Folder) bool { return true }), nil
}

func (r *memoryFolderRepository) ListRoots(ctx context.Context) ([]models.Folder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.collect(func(f *models.Folder) bool { return f.ParentID == nil }), nil
}

func (r *memoryFolderRepository) ListChildren(ctx context.Context, parentID int64) ([]models.Folder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.collect(func(f *models.Folder) bool {
		return f.ParentID != nil && *f.ParentID == parentID
	}), nil
}

func (r *memoryFolderRepository) Search(ctx context.Context, query string) ([]models.Folder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.collect(func(f *models.Folder) bool { return containsFold(f.Name, query) }), nil
}

func (r *memoryFolderRepository) mutate(id int64, fn func(*models.Folder)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f, ok := r.s.folders[id]
	if !ok {
		return fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
	}
	fn(f)
	r.s.notifier.Broadcast()
	return nil
}

func (r *memoryFolderRepository) SetParent(ctx context.Context, id int64, parentID *int64, now int64) error {
	return r.mutate(id, func(f *models.Folder) {
		f.ParentID = parentID
		f.UpdatedAt = now
	})
}

func (r *memoryFolderRepository) SetExpanded(ctx context.Context, id int64, expanded bool, now int64) error {
	return r.mutate(id, func(f *models.Folder) {
		f.IsExpanded = expanded
		f.UpdatedAt = now
	})
}

func (r *memoryFolderRepository) SetSortOrder(ctx context.Context, id int64, sortOrder int, now int64) error {
	return r.mutate(id, func(f *models.Folder) {
		f.SortOrder = sortOrder
		f.UpdatedAt = now
	})
}

func (r *memoryFolderRepository) NameExists(ctx context.Context, name string, parentID *int64, excludeID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, f := range r.s.folders {
		if f.ID == excludeID || f.Name != name {
			continue
		}
		if parentID == nil && f.ParentID == nil {
			return true, nil
		}
		if parentID != nil && f.ParentID != nil && *parentID == *f.ParentID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryFolderRepository) Count(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.folders), nil
}

func (r *memoryFolderRepository) CountChildren(ctx context.Context, parentID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, f := range r.s.folders {
		if f.ParentID != nil && *f.ParentID == parentID {
			count++
		}
	}
	return count, nil
}
