package repositories

import (
	"context"

	"inkwell/internal/domain/models"
)

// NoteRepository defines data access operations for notes. List results come
// back in the declared order; the store owns filtering and sorting so every
// caller sees one consistent snapshot per call.
type NoteRepository interface {
	// Insert persists a note and returns the assigned id. A non-zero
	// note.ID is honored and replaces any existing row with that id
	// (backup restore relies on this).
	Insert(ctx context.Context, note *models.Note) (int64, error)

	// Update rewrites the full row.
	Update(ctx context.Context, note *models.Note) error

	// Delete permanently removes a note.
	Delete(ctx context.Context, id int64) error

	// GetByID retrieves a note row.
	GetByID(ctx context.Context, id int64) (*models.Note, error)

	// ListActive returns notes that are neither trashed nor archived,
	// pinned first, then updatedAt descending.
	ListActive(ctx context.Context) ([]models.Note, error)

	// ListByFolder is ListActive restricted to one folder.
	ListByFolder(ctx context.Context, folderID int64) ([]models.Note, error)

	// ListUnfoldered is ListActive restricted to notes without a folder.
	ListUnfoldered(ctx context.Context) ([]models.Note, error)

	// ListArchived returns archived, non-trashed notes, updatedAt descending.
	ListArchived(ctx context.Context) ([]models.Note, error)

	// ListTrashed returns trashed notes, trashedAt descending.
	ListTrashed(ctx context.Context) ([]models.Note, error)

	// ListPinned returns pinned active notes, updatedAt descending.
	ListPinned(ctx context.Context) ([]models.Note, error)

	// Search returns non-trashed notes whose title or plain text contains
	// the query case-insensitively, pinned first, then updatedAt descending.
	Search(ctx context.Context, query string) ([]models.Note, error)

	// SetPinned flips the pin flag.
	SetPinned(ctx context.Context, id int64, pinned bool, now int64) error

	// SetArchived sets the archive flag; archiving always clears the pin
	// and any trash state.
	SetArchived(ctx context.Context, id int64, archived bool, now int64) error

	// MoveToTrash marks the note trashed, stamps trashedAt, and clears the
	// pin and archive flags.
	MoveToTrash(ctx context.Context, id int64, now int64) error

	// RestoreFromTrash clears the trash flag and trashedAt.
	RestoreFromTrash(ctx context.Context, id int64, now int64) error

	// EmptyTrash permanently deletes every trashed note and reports how
	// many were removed.
	EmptyTrash(ctx context.Context) (int64, error)

	// DeleteExpiredTrash permanently deletes trashed notes whose trashedAt
	// is older than the threshold.
	DeleteExpiredTrash(ctx context.Context, threshold int64) (int64, error)

	// SetFolder re-files the note; nil means unfoldered.
	SetFolder(ctx context.Context, id int64, folderID *int64, now int64) error

	// SetColor assigns or clears the note color.
	SetColor(ctx context.Context, id int64, color *models.NoteColor, now int64) error

	// CountActive counts active (non-trashed, non-archived) notes.
	CountActive(ctx context.Context) (int, error)

	// CountInFolder counts active notes in one folder.
	CountInFolder(ctx context.Context, folderID int64) (int, error)

	// CountsByFolder returns the active-note count per folder id in one
	// pass, for tree annotation without per-node queries.
	CountsByFolder(ctx context.Context) (map[int64]int, error)

	// CountArchived counts archived, non-trashed notes.
	CountArchived(ctx context.Context) (int, error)

	// CountTrashed counts trashed notes.
	CountTrashed(ctx context.Context) (int, error)

	// ListAll returns every note row regardless of state, for backup.
	ListAll(ctx context.Context) ([]models.Note, error)
}
