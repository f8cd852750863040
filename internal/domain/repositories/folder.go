package repositories

import (
	"context"

	"inkwell/internal/domain/models"
)

// FolderRepository defines data access operations for folders. All list
// results are ordered by (sortOrder ascending, name ascending). The store
// declares the referential-integrity rules: deleting a folder cascades to
// its child folders and nulls the folder reference of contained notes.
type FolderRepository interface {
	// Insert persists a folder and returns the assigned id. A non-zero
	// folder.ID is honored and replaces any existing row with that id.
	Insert(ctx context.Context, folder *models.Folder) (int64, error)

	// Update rewrites the full row.
	Update(ctx context.Context, folder *models.Folder) error

	// Delete removes a folder; descendants go with it (cascade) and
	// contained notes become unfoldered (set null).
	Delete(ctx context.Context, id int64) error

	// GetByID retrieves a folder row.
	GetByID(ctx context.Context, id int64) (*models.Folder, error)

	// ListAll returns every folder in one consistent snapshot; tree
	// construction partitions it in memory instead of issuing per-node
	// queries.
	ListAll(ctx context.Context) ([]models.Folder, error)

	// ListRoots returns folders without a parent.
	ListRoots(ctx context.Context) ([]models.Folder, error)

	// ListChildren returns the immediate children of a folder.
	ListChildren(ctx context.Context, parentID int64) ([]models.Folder, error)

	// Search returns folders whose name contains the query, name ascending.
	Search(ctx context.Context, query string) ([]models.Folder, error)

	// SetParent re-parents the folder; nil moves it to the root. Cycle
	// checking is the tree engine's job, not the store's.
	SetParent(ctx context.Context, id int64, parentID *int64, now int64) error

	// SetExpanded persists the tree-expansion flag.
	SetExpanded(ctx context.Context, id int64, expanded bool, now int64) error

	// SetSortOrder persists the manual ordering position.
	SetSortOrder(ctx context.Context, id int64, sortOrder int, now int64) error

	// NameExists reports whether another folder with this exact name exists
	// under the same parent, excluding one id (0 excludes nothing).
	NameExists(ctx context.Context, name string, parentID *int64, excludeID int64) (bool, error)

	// Count returns the total number of folders.
	Count(ctx context.Context) (int, error)

	// CountChildren returns the number of immediate children.
	CountChildren(ctx context.Context, parentID int64) (int, error)
}
