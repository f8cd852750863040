package services

import (
	"context"

	"inkwell/internal/domain/models"
	"inkwell/internal/stream"
)

// FolderTreeService handles folder hierarchy business logic
type FolderTreeService interface {
	// CreateFolder creates a new folder
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)

	// GetFolder retrieves a folder
	GetFolder(ctx context.Context, id int64) (*models.Folder, error)

	// UpdateFolder renames or restyles a folder
	UpdateFolder(ctx context.Context, id int64, req *UpdateFolderRequest) (*models.Folder, error)

	// DeleteFolder deletes a folder and its whole subtree; notes filed in
	// the subtree become unfoldered
	DeleteFolder(ctx context.Context, id int64) error

	// Move re-parents a folder. Moving under itself or one of its
	// descendants fails with *domain.CycleError.
	Move(ctx context.Context, id int64, newParentID *int64) error

	// BuildTree returns the root folders with children nested, note counts
	// and depths filled in
	BuildTree(ctx context.Context) ([]*models.Folder, error)

	// FlattenForDisplay linearizes the tree in depth-first order,
	// descending only into expanded folders
	FlattenForDisplay(ctx context.Context) ([]models.FolderTreeNode, error)

	// ToggleExpanded flips a folder's expansion state
	ToggleExpanded(ctx context.Context, id int64) error

	// SetSortOrder repositions a folder among its siblings
	SetSortOrder(ctx context.Context, id int64, sortOrder int) error

	// NameExists reports whether a sibling folder already uses the name
	NameExists(ctx context.Context, name string, parentID *int64, excludeID int64) (bool, error)

	// SearchFolders returns folders whose name contains the query
	SearchFolders(ctx context.Context, query string) ([]models.Folder, error)

	// WatchTree re-derives and publishes the nested tree on every engine
	// change until ctx ends
	WatchTree(ctx context.Context) *stream.Stream[[]*models.Folder]

	// WatchFlattened re-derives and publishes the display list on every
	// engine change until ctx ends
	WatchFlattened(ctx context.Context) *stream.Stream[[]models.FolderTreeNode]
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *int64  `json:"parent_id,omitempty"` // nil for root folders
	Color    *string `json:"color,omitempty"`
	Icon     *string `json:"icon,omitempty"`
}

// UpdateFolderRequest represents a folder update request
type UpdateFolderRequest struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}
