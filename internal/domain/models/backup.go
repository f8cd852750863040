package models

// BackupFormatVersion is the current backup document version.
const BackupFormatVersion = 1

// BackupData is the portable interchange document: the full entity set plus
// a format version and creation timestamp. Field names are part of the
// external format and deliberately diverge from the internal ones in one
// place: a note's updatedAt is carried as "modifiedAt".
type BackupData struct {
	Version   int            `json:"version"`
	Timestamp int64          `json:"timestamp"`
	Notes     []BackupNote   `json:"notes"`
	Folders   []BackupFolder `json:"folders"`
	Tags      []BackupTag    `json:"tags"`
}

type BackupNote struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Content          string  `json:"content"`
	PlainTextContent string  `json:"plainTextContent"`
	FolderID         *int64  `json:"folderId"`
	Color            *string `json:"color"`
	IsPinned         bool    `json:"isPinned"`
	IsArchived       bool    `json:"isArchived"`
	IsInTrash        bool    `json:"isInTrash"`
	IsChecklist      bool    `json:"isChecklist"`
	ChecklistItems   string  `json:"checklistItems"`
	CreatedAt        int64   `json:"createdAt"`
	ModifiedAt       int64   `json:"modifiedAt"`
	TrashedAt        *int64  `json:"trashedAt"`
}

// BackupFolder omits icon, isExpanded and sortOrder: those are device-local
// presentation state, not portable content.
type BackupFolder struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	ParentID  *int64  `json:"parentId"`
	Color     *string `json:"color"`
	CreatedAt int64   `json:"createdAt"`
}

type BackupTag struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

// ToBackupNote maps a note to its backup form.
func ToBackupNote(n Note) BackupNote {
	var color *string
	if n.Color != nil {
		name := string(*n.Color)
		color = &name
	}
	return BackupNote{
		ID:               n.ID,
		Title:            n.Title,
		Content:          n.Content,
		PlainTextContent: n.PlainTextContent,
		FolderID:         n.FolderID,
		Color:            color,
		IsPinned:         n.IsPinned,
		IsArchived:       n.IsArchived,
		IsInTrash:        n.IsInTrash,
		IsChecklist:      n.IsChecklist,
		ChecklistItems:   RenderChecklist(n.ChecklistItems),
		CreatedAt:        n.CreatedAt,
		ModifiedAt:       n.UpdatedAt,
		TrashedAt:        n.TrashedAt,
	}
}

// ToNote maps a backup note back to the canonical form. Unknown color names
// degrade to no color.
func (b BackupNote) ToNote() Note {
	var color *NoteColor
	if b.Color != nil {
		if c, ok := ParseNoteColor(*b.Color); ok {
			color = &c
		}
	}
	return Note{
		ID:               b.ID,
		Title:            b.Title,
		Content:          b.Content,
		PlainTextContent: b.PlainTextContent,
		FolderID:         b.FolderID,
		Color:            color,
		IsPinned:         b.IsPinned,
		IsArchived:       b.IsArchived,
		IsInTrash:        b.IsInTrash,
		IsChecklist:      b.IsChecklist,
		ChecklistItems:   ParseChecklist(b.ChecklistItems),
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.ModifiedAt,
		TrashedAt:        b.TrashedAt,
	}
}

// ToBackupFolder maps a folder to its backup form.
func ToBackupFolder(f Folder) BackupFolder {
	return BackupFolder{
		ID:        f.ID,
		Name:      f.Name,
		ParentID:  f.ParentID,
		Color:     f.Color,
		CreatedAt: f.CreatedAt,
	}
}

// ToFolder maps a backup folder back to the canonical form. Omitted fields
// take their defaults; restored folders come back expanded.
func (b BackupFolder) ToFolder() Folder {
	return Folder{
		ID:         b.ID,
		Name:       b.Name,
		ParentID:   b.ParentID,
		Color:      b.Color,
		IsExpanded: true,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.CreatedAt,
	}
}

// ToBackupTag maps a tag to its backup form.
func ToBackupTag(t Tag) BackupTag {
	return BackupTag{ID: t.ID, Name: t.Name, Color: t.Color}
}

// ToTag maps a backup tag back to the canonical form.
func (b BackupTag) ToTag(createdAt int64) Tag {
	return Tag{ID: b.ID, Name: b.Name, Color: b.Color, CreatedAt: createdAt}
}
