package services

import (
	"context"

	"inkwell/internal/domain/models"
)

// TagService handles tag business logic
type TagService interface {
	// GetOrCreate returns the tag with the exact name, creating it first
	// if needed. Lookup is case-sensitive.
	GetOrCreate(ctx context.Context, name string) (*models.Tag, error)

	// CreateTag creates a new tag
	CreateTag(ctx context.Context, req *CreateTagRequest) (*models.Tag, error)

	// GetTag retrieves a tag with its note count
	GetTag(ctx context.Context, id int64) (*models.Tag, error)

	// UpdateTag renames or recolors a tag
	UpdateTag(ctx context.Context, id int64, req *UpdateTagRequest) (*models.Tag, error)

	// DeleteTag removes a tag and all its note links
	DeleteTag(ctx context.Context, id int64) error

	// ListTags returns all tags with note counts, ordered by name
	ListTags(ctx context.Context) ([]models.Tag, error)

	// SearchTags returns tags whose name contains the query
	SearchTags(ctx context.Context, query string) ([]models.Tag, error)

	// NameExists reports whether another tag already uses the exact name
	NameExists(ctx context.Context, name string, excludeID int64) (bool, error)

	// AddTagToNote attaches a tag to a note; an existing link is a no-op
	AddTagToNote(ctx context.Context, noteID, tagID int64) error

	// RemoveTagFromNote detaches a tag from a note
	RemoveTagFromNote(ctx context.Context, noteID, tagID int64) error

	// TagsForNote returns the tags attached to one note
	TagsForNote(ctx context.Context, noteID int64) ([]models.Tag, error)
}

// CreateTagRequest represents a tag creation request
type CreateTagRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
}

// UpdateTagRequest represents a tag update request
type UpdateTagRequest struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}
