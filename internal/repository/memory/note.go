package memory

import (
	"context"
	"fmt"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

type memoryNoteRepository struct {
	s *store
}

func newNoteRepository(s *store) repositories.NoteRepository {
	return &memoryNoteRepository{s: s}
}

func (r *memoryNoteRepository) Insert(ctx context.Context, note *models.Note) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if note.FolderID != nil {
		if _, ok := r.s.folders[*note.FolderID]; !ok {
			return 0, fmt.Errorf("folder %d: %w", *note.FolderID, domain.ErrNotFound)
		}
	}

	if note.ID == 0 {
		note.ID = r.s.nextNoteID
		r.s.nextNoteID++
	} else if note.ID >= r.s.nextNoteID {
		r.s.nextNoteID = note.ID + 1
	}
	stored := cloneNote(note)
	stored.Tags = nil
	stored.FolderName = ""
	r.s.notes[note.ID] = stored

	r.s.notifier.Broadcast()
	return note.ID, nil
}

func (r *memoryNoteRepository) Update(ctx context.Context, note *models.Note) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.notes[note.ID]; !ok {
		return fmt.Errorf("note %d: %w", note.ID, domain.ErrNotFound)
	}
	stored := cloneNote(note)
	stored.Tags = nil
	stored.FolderName = ""
	r.s.notes[note.ID] = stored

	r.s.notifier.Broadcast()
	return nil
}

func (r *memoryNoteRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.notes[id]; !ok {
		return fmt.Errorf("note %d: %w", id, domain.ErrNotFound)
	}
	delete(r.s.notes, id)
	r.s.dropLinksForNoteLocked(id)

	r.s.notifier.Broadcast()
	return nil
}

func (r *memoryNoteRepository) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n, ok := r.s.notes[id]
	if !ok {
		return nil, fmt.Errorf("note %d: %w", id, domain.ErrNotFound)
	}
	return cloneNote(n), nil
}

func (r *memoryNoteRepository) collect(match func(*models.Note) bool) []models.Note {
	var notes []models.Note
	for _, n := range r.s.notes {
		if match(n) {
			notes = append(notes, *cloneNote(n))
		}
	}
	return notes
}

func isActive(n *models.Note) bool { return !n.IsInTrash && !n.IsArchived }

func (r *memoryNoteRepository) ListActive(ctx context.Context) ([]models.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	notes := r.collect(isActive)
	sortNotesDefault(notes)
	return notes, nil
}

func (r *memoryNoteRepository) ListByFolder(ctx context.Context, folderID int64) ([]models.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	notes := r.collect(func(n *models.Note) bool {
		return isActive(n) && n.FolderID != nil && *n.FolderID == folderID
	})
	sortNotesDefault(notes)
	return notes, nil
}

func (r *memoryNoteRepository) ListUnfoldered(ctx context.Context) ([]models.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	notes := r.collect(func(n *models.Note) bool { return isActive(n) && n.FolderID == nil })
	sortNotesDefault(notes)
	return notes, nil
}

func (r *memoryNoteRepository) ListArchived(ctx context.Context) ([]models.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	notes := r.collect(func(n *models.Note) bool { return n.IsArchived && !n.IsInTrash })
	sortNotesByUpdated(notes)
	return notes, nil
}

func (r *memoryNoteRepository) ListTrashed(ctx context.Context) ([]models.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	notes := r.collect(func(n *models.Note) bool { return n.IsInTrash })
	sortTrashed(notes)
	return notes, nil
}

func (r *memoryNoteRepository) ListPinned(ctx context.Context) ([]models.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	notes := r.collect(func(n *models.Note) bool { return n.IsPinned && isActive(n) })
	sortNotesByUpdated(notes)
	return notes, nil
}

func (r *memoryNoteRepository) Search(ctx context.Context, query string) ([]models.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	notes := r.collect(func(n *models.Note) bool {
		if n.IsInTrash {
			return false
		}
		return containsFold(n.Title, query) || containsFold(n.PlainTextContent, query)
	})
	sortNotesDefault(notes)
	return notes, nil
}

func (r *memoryNoteRepository) mutate(id int64, fn func(*models.Note)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notes[id]
	if !ok {
		return fmt.Errorf("note %d: %w", id, domain.ErrNotFound)
	}
	fn(n)
	r.s.notifier.Broadcast()
	return nil
}

func (r *memoryNoteRepository) SetPinned(ctx context.Context, id int64, pinned bool, now int64) error {
	return r.mutate(id, func(n *models.Note) {
		n.IsPinned = pinned
		n.UpdatedAt = now
	})
}

func (r *memoryNoteRepository) SetArchived(ctx context.Context, id int64, archived bool, now int64) error {
	return r.mutate(id, func(n *models.Note) {
		n.IsArchived = archived
		n.IsPinned = false
		n.IsInTrash = false
		n.TrashedAt = nil
		n.UpdatedAt = now
	})
}

func (r *memoryNoteRepository) MoveToTrash(ctx context.Context, id int64, now int64) error {
	return r.mutate(id, func(n *models.Note) {
		n.IsInTrash = true
		trashedAt := now
		n.TrashedAt = &trashedAt
		n.IsPinned = false
		n.IsArchived = false
		n.UpdatedAt = now
	})
}

func (r *memoryNoteRepository) RestoreFromTrash(ctx context.Context, id int64, now int64) error {
	return r.mutate(id, func(n *models.Note) {
		n.IsInTrash = false
		n.TrashedAt = nil
		n.UpdatedAt = now
	})
}

func (r *memoryNoteRepository) EmptyTrash(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var deleted int64
	for id, n := range r.s.notes {
		if n.IsInTrash {
			delete(r.s.notes, id)
			r.s.dropLinksForNoteLocked(id)
			deleted++
		}
	}
	if deleted > 0 {
		r.s.notifier.Broadcast()
	}
	return deleted, nil
}

func (r *memoryNoteRepository) DeleteExpiredTrash(ctx context.Context, threshold int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var deleted int64
	for id, n := range r.s.notes {
		if n.IsInTrash && n.TrashedAt != nil && *n.TrashedAt < threshold {
			delete(r.s.notes, id)
			r.s.dropLinksForNoteLocked(id)
			deleted++
		}
	}
	if deleted > 0 {
		r.s.notifier.Broadcast()
	}
	return deleted, nil
}

func (r *memoryNoteRepository) SetFolder(ctx context.Context, id int64, folderID *int64, now int64) error {
	if folderID != nil {
		r.s.mu.RLock()
		_, ok := r.s.folders[*folderID]
		r.s.mu.RUnlock()
		if !ok {
			return fmt.Errorf("folder %d: %w", *folderID, domain.ErrNotFound)
		}
	}
	return r.mutate(id, func(n *models.Note) {
		n.FolderID = folderID
		n.UpdatedAt = now
	})
}

func (r *memoryNoteRepository) SetColor(ctx context.Context, id int64, color *models.NoteColor, now int64) error {
	return r.mutate(id, func(n *models.Note) {
		n.Color = color
		n.UpdatedAt = now
	})
}

func (r *memoryNoteRepository) CountActive(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.collect(isActive)), nil
}

func (r *memoryNoteRepository) CountInFolder(ctx context.Context, folderID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.collect(func(n *models.Note) bool {
		return isActive(n) && n.FolderID != nil && *n.FolderID == folderID
	})), nil
}

func (r *memoryNoteRepository) CountsByFolder(ctx context.Context) (map[int64]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[int64]int)
	for _, n := range r.s.notes {
		if isActive(n) && n.FolderID != nil {
			counts[*n.FolderID]++
		}
	}
	return counts, nil
}

func (r *memoryNoteRepository) CountArchived(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.collect(func(n *models.Note) bool { return n.IsArchived && !n.IsInTrash })), nil
}

func (r *memoryNoteRepository) CountTrashed(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.collect(func(n *models.Note) bool { return n.IsInTrash })), nil
}

func (r *memoryNoteRepository) ListAll(ctx context.Context) ([]models.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	notes := r.collect(func(*models.Note) bool { return true })
	sortNotesByID(notes)
	return notes, nil
}
