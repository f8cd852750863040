package repositories

import (
	"context"

	"inkwell/internal/domain/models"
)

// TagRepository defines data access operations for tags and note-tag links.
// Link rows cascade away when either side is deleted. Linking against a
// nonexistent note or tag id fails here (foreign keys), not at the service
// layer.
type TagRepository interface {
	// Insert persists a tag and returns the assigned id. A non-zero tag.ID
	// is honored and replaces any existing row with that id.
	Insert(ctx context.Context, tag *models.Tag) (int64, error)

	// Update rewrites the full row.
	Update(ctx context.Context, tag *models.Tag) error

	// Delete removes a tag and its links.
	Delete(ctx context.Context, id int64) error

	// GetByID retrieves a tag row.
	GetByID(ctx context.Context, id int64) (*models.Tag, error)

	// GetByName retrieves a tag by exact, case-sensitive name.
	GetByName(ctx context.Context, name string) (*models.Tag, error)

	// ListAll returns every tag, name ascending.
	ListAll(ctx context.Context) ([]models.Tag, error)

	// Search returns tags whose name contains the query, name ascending.
	Search(ctx context.Context, query string) ([]models.Tag, error)

	// NameExists reports whether another tag with this exact name exists,
	// excluding one id (0 excludes nothing).
	NameExists(ctx context.Context, name string, excludeID int64) (bool, error)

	// AddLink associates a note with a tag; an existing link is a no-op.
	AddLink(ctx context.Context, noteID, tagID int64) error

	// RemoveLink drops one association.
	RemoveLink(ctx context.Context, noteID, tagID int64) error

	// RemoveLinksForNote drops every association of a note.
	RemoveLinksForNote(ctx context.Context, noteID int64) error

	// ListTagsForNote returns a note's tags, name ascending.
	ListTagsForNote(ctx context.Context, noteID int64) ([]models.Tag, error)

	// CountNotesForTag returns how many notes carry the tag.
	CountNotesForTag(ctx context.Context, tagID int64) (int, error)

	// Count returns the total number of tags.
	Count(ctx context.Context) (int, error)
}
