package services

import (
	"context"

	"inkwell/internal/domain/models"
	"inkwell/internal/stream"
)

// NoteService handles note business logic
type NoteService interface {
	// Save persists a note draft. A zero ID creates, a non-zero ID
	// replaces. The plain-text mirror is recomputed from the content, tag
	// links are replaced in the same transaction, and an empty draft is
	// elided: nothing is created, an existing note is deleted, and the
	// returned note is nil.
	Save(ctx context.Context, req *SaveNoteRequest) (*models.Note, error)

	// Get retrieves a note enriched with its folder name and tags
	Get(ctx context.Context, id int64) (*models.Note, error)

	// Delete permanently removes a note
	Delete(ctx context.Context, id int64) error

	// Duplicate copies a note. The copy gets " (Copy)" appended to the
	// title, is never pinned, carries fresh timestamps and the same tags.
	Duplicate(ctx context.Context, id int64) (*models.Note, error)

	// SetPinned flips the pin flag
	SetPinned(ctx context.Context, id int64, pinned bool) error

	// SetArchived sets the archive flag; archiving unpins and untrashes
	SetArchived(ctx context.Context, id int64, archived bool) error

	// MoveToTrash trashes a note, clearing pin and archive flags
	MoveToTrash(ctx context.Context, id int64) error

	// RestoreFromTrash returns a trashed note to its previous folder
	RestoreFromTrash(ctx context.Context, id int64) error

	// EmptyTrash permanently deletes all trashed notes
	EmptyTrash(ctx context.Context) (int64, error)

	// SweepExpiredTrash deletes trashed notes older than the retention
	// period from settings
	SweepExpiredTrash(ctx context.Context) (int64, error)

	// MoveToFolder re-files a note; nil means unfoldered
	MoveToFolder(ctx context.Context, id int64, folderID *int64) error

	// SetColor assigns or clears a note's color
	SetColor(ctx context.Context, id int64, color *models.NoteColor) error

	// ListActive returns non-trashed, non-archived notes, pinned first
	ListActive(ctx context.Context) ([]models.Note, error)

	// ListByFolder returns the active notes of one folder
	ListByFolder(ctx context.Context, folderID int64) ([]models.Note, error)

	// ListUnfoldered returns active notes without a folder
	ListUnfoldered(ctx context.Context) ([]models.Note, error)

	// ListArchived returns archived notes
	ListArchived(ctx context.Context) ([]models.Note, error)

	// ListTrashed returns trashed notes, most recently trashed first
	ListTrashed(ctx context.Context) ([]models.Note, error)

	// ListPinned returns pinned active notes
	ListPinned(ctx context.Context) ([]models.Note, error)

	// Search returns non-trashed notes whose title or plain text contains
	// the query, case-insensitively
	Search(ctx context.Context, query string) ([]models.Note, error)

	// SortForDisplay orders notes for the list surface: the pinned
	// partition always by updatedAt descending, the rest by the user's
	// sort key and direction
	SortForDisplay(notes []models.Note, by models.SortBy, order models.SortOrder) []models.Note

	// CountActive counts active notes
	CountActive(ctx context.Context) (int, error)

	// CountArchived counts archived notes
	CountArchived(ctx context.Context) (int, error)

	// CountTrashed counts trashed notes
	CountTrashed(ctx context.Context) (int, error)

	// WatchActive republishes the active list on every engine change
	WatchActive(ctx context.Context) *stream.Stream[[]models.Note]

	// WatchByFolder republishes one folder's notes on every engine change
	WatchByFolder(ctx context.Context, folderID int64) *stream.Stream[[]models.Note]

	// WatchArchived republishes the archive list on every engine change
	WatchArchived(ctx context.Context) *stream.Stream[[]models.Note]

	// WatchTrashed republishes the trash list on every engine change
	WatchTrashed(ctx context.Context) *stream.Stream[[]models.Note]
}

// SaveNoteRequest represents a note save request. Plain text is derived
// server-side and not accepted from the caller.
type SaveNoteRequest struct {
	ID             int64                  `json:"id"` // 0 creates
	Title          string                 `json:"title"`
	Content        string                 `json:"content"`
	FolderID       *int64                 `json:"folder_id,omitempty"`
	Color          *models.NoteColor      `json:"color,omitempty"`
	IsChecklist    bool                   `json:"is_checklist"`
	ChecklistItems []models.ChecklistItem `json:"checklist_items,omitempty"`
	TagIDs         []int64                `json:"tag_ids,omitempty"`
}
