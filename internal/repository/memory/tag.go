package memory

import (
	"context"
	"fmt"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

type memoryTagRepository struct {
	s *store
}

func newTagRepository(s *store) repositories.TagRepository {
	return &memoryTagRepository{s: s}
}

func (r *memoryTagRepository) nameTakenLocked(name string, excludeID int64) bool {
	for _, t := range r.s.tags {
		if t.Name == name && t.ID != excludeID {
			return true
		}
	}
	return false
}

func (r *memoryTagRepository) Insert(ctx context.Context, tag *models.Tag) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTakenLocked(tag.Name, tag.ID) {
		return 0, fmt.Errorf("tag name %q: %w", tag.Name, domain.ErrConflict)
	}

	if tag.ID == 0 {
		tag.ID = r.s.nextTagID
		r.s.nextTagID++
	} else if tag.ID >= r.s.nextTagID {
		r.s.nextTagID = tag.ID + 1
	}
	r.s.tags[tag.ID] = cloneTag(tag)

	r.s.notifier.Broadcast()
	return tag.ID, nil
}

func (r *memoryTagRepository) Update(ctx context.Context, tag *models.Tag) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.tags[tag.ID]
	if !ok {
		return fmt.Errorf("tag %d: %w", tag.ID, domain.ErrNotFound)
	}
	if r.nameTakenLocked(tag.Name, tag.ID) {
		return fmt.Errorf("tag name %q: %w", tag.Name, domain.ErrConflict)
	}
	stored.Name = tag.Name
	if tag.Color != nil {
		v := *tag.Color
		stored.Color = &v
	} else {
		stored.Color = nil
	}

	r.s.notifier.Broadcast()
	return nil
}

func (r *memoryTagRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tags[id]; !ok {
		return fmt.Errorf("tag %d: %w", id, domain.ErrNotFound)
	}
	delete(r.s.tags, id)
	for link := range r.s.links {
		if link.TagID == id {
			delete(r.s.links, link)
		}
	}

	r.s.notifier.Broadcast()
	return nil
}

func (r *memoryTagRepository) GetByID(ctx context.Context, id int64) (*models.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tags[id]
	if !ok {
		return nil, fmt.Errorf("tag %d: %w", id, domain.ErrNotFound)
	}
	return cloneTag(t), nil
}

func (r *memoryTagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.tags {
		if t.Name == name {
			return cloneTag(t), nil
		}
	}
	return nil, fmt.Errorf("tag %q: %w", name, domain.ErrNotFound)
}

func (r *memoryTagRepository) collect(match func(*models.Tag) bool) []models.Tag {
	var tags []models.Tag
	for _, t := range r.s.tags {
		if match(t) {
			tags = append(tags, *cloneTag(t))
		}
	}
	sortTags(tags)
	return tags
}

func (r *memoryTagRepository) ListAll(ctx context.Context) ([]models.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.collect(func(*models.Tag) bool { return true }), nil
}

func (r *memoryTagRepository) Search(ctx context.Context, query string) ([]models.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.collect(func(t *models.Tag) bool { return containsFold(t.Name, query) }), nil
}

func (r *memoryTagRepository) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.nameTakenLocked(name, excludeID), nil
}

func (r *memoryTagRepository) AddLink(ctx context.Context, noteID, tagID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.notes[noteID]; !ok {
		return fmt.Errorf("note %d: %w", noteID, domain.ErrNotFound)
	}
	if _, ok := r.s.tags[tagID]; !ok {
		return fmt.Errorf("tag %d: %w", tagID, domain.ErrNotFound)
	}

	link := models.NoteTagLink{NoteID: noteID, TagID: tagID}
	if _, exists := r.s.links[link]; exists {
		return nil
	}
	r.s.links[link] = struct{}{}

	r.s.notifier.Broadcast()
	return nil
}

func (r *memoryTagRepository) RemoveLink(ctx context.Context, noteID, tagID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	link := models.NoteTagLink{NoteID: noteID, TagID: tagID}
	if _, exists := r.s.links[link]; !exists {
		return nil
	}
	delete(r.s.links, link)

	r.s.notifier.Broadcast()
	return nil
}

func (r *memoryTagRepository) RemoveLinksForNote(ctx context.Context, noteID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	removed := false
	for link := range r.s.links {
		if link.NoteID == noteID {
			delete(r.s.links, link)
			removed = true
		}
	}
	if removed {
		r.s.notifier.Broadcast()
	}
	return nil
}

func (r *memoryTagRepository) ListTagsForNote(ctx context.Context, noteID int64) ([]models.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var tags []models.Tag
	for link := range r.s.links {
		if link.NoteID != noteID {
			continue
		}
		if t, ok := r.s.tags[link.TagID]; ok {
			tags = append(tags, *cloneTag(t))
		}
	}
	sortTags(tags)
	return tags, nil
}

func (r *memoryTagRepository) CountNotesForTag(ctx context.Context, tagID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for link := range r.s.links {
		if link.TagID == tagID {
			count++
		}
	}
	return count, nil
}

func (r *memoryTagRepository) Count(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.tags), nil
}
