// Package memory provides an in-process storage engine with the same
// behavior as the postgres engine, including cascade and set-null rules.
// It backs tests and single-process embedding without a database.
package memory

import (
	"sort"
	"strings"
	"sync"

	"inkwell/internal/domain/models"
	"inkwell/internal/stream"
)

type store struct {
	mu sync.RWMutex

	notes   map[int64]*models.Note
	folders map[int64]*models.Folder
	tags    map[int64]*models.Tag
	links   map[models.NoteTagLink]struct{}

	settings *models.Settings

	nextNoteID   int64
	nextFolderID int64
	nextTagID    int64

	notifier *stream.Notifier
}

func newStore() *store {
	return &store{
		notes:        make(map[int64]*models.Note),
		folders:      make(map[int64]*models.Folder),
		tags:         make(map[int64]*models.Tag),
		links:        make(map[models.NoteTagLink]struct{}),
		nextNoteID:   1,
		nextFolderID: 1,
		nextTagID:    1,
		notifier:     stream.NewNotifier(),
	}
}

func cloneNote(n *models.Note) *models.Note {
	c := *n
	if n.FolderID != nil {
		v := *n.FolderID
		c.FolderID = &v
	}
	if n.Color != nil {
		v := *n.Color
		c.Color = &v
	}
	if n.TrashedAt != nil {
		v := *n.TrashedAt
		c.TrashedAt = &v
	}
	c.ChecklistItems = append([]models.ChecklistItem(nil), n.ChecklistItems...)
	c.Tags = append([]models.Tag(nil), n.Tags...)
	return &c
}

func cloneFolder(f *models.Folder) *models.Folder {
	c := *f
	if f.ParentID != nil {
		v := *f.ParentID
		c.ParentID = &v
	}
	if f.Color != nil {
		v := *f.Color
		c.Color = &v
	}
	if f.Icon != nil {
		v := *f.Icon
		c.Icon = &v
	}
	c.Children = nil
	return &c
}

func cloneTag(t *models.Tag) *models.Tag {
	c := *t
	if t.Color != nil {
		v := *t.Color
		c.Color = &v
	}
	return &c
}

func (s *store) dropLinksForNoteLocked(noteID int64) {
	for link := range s.links {
		if link.NoteID == noteID {
			delete(s.links, link)
		}
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// sortNotesDefault orders pinned before unpinned, then most recently
// updated first, matching the database list queries.
func sortNotesDefault(notes []models.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].IsPinned != notes[j].IsPinned {
			return notes[i].IsPinned
		}
		if notes[i].UpdatedAt != notes[j].UpdatedAt {
			return notes[i].UpdatedAt > notes[j].UpdatedAt
		}
		return notes[i].ID > notes[j].ID
	})
}

func sortNotesByUpdated(notes []models.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].UpdatedAt != notes[j].UpdatedAt {
			return notes[i].UpdatedAt > notes[j].UpdatedAt
		}
		return notes[i].ID > notes[j].ID
	})
}

func sortTrashed(notes []models.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		ti, tj := int64(0), int64(0)
		if notes[i].TrashedAt != nil {
			ti = *notes[i].TrashedAt
		}
		if notes[j].TrashedAt != nil {
			tj = *notes[j].TrashedAt
		}
		if ti != tj {
			return ti > tj
		}
		return notes[i].ID > notes[j].ID
	})
}

func sortNotesByID(notes []models.Note) {
	sort.SliceStable(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })
}

func sortFolders(folders []models.Folder) {
	sort.SliceStable(folders, func(i, j int) bool {
		if folders[i].SortOrder != folders[j].SortOrder {
			return folders[i].SortOrder < folders[j].SortOrder
		}
		return folders[i].Name < folders[j].Name
	})
}

func sortTags(tags []models.Tag) {
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
}
