package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/domain/services"
)

type tagService struct {
	engine repositories.Engine
	logger *slog.Logger
}

// NewTagService creates a new tag service
func NewTagService(engine repositories.Engine, logger *slog.Logger) services.TagService {
	return &tagService{engine: engine, logger: logger}
}

// GetOrCreate returns the tag with the exact name, creating it if needed.
func (s *tagService) GetOrCreate(ctx context.Context, name string) (*models.Tag, error) {
	if err := validateTagName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	tags := s.engine.Tags()
	existing, err := tags.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	tag := &models.Tag{Name: name, CreatedAt: time.Now().UnixMilli()}
	if _, err := tags.Insert(ctx, tag); err != nil {
		// Lost a race against a concurrent create; the other row wins.
		if errors.Is(err, domain.ErrConflict) {
			return tags.GetByName(ctx, name)
		}
		return nil, err
	}

	s.logger.Info("tag created", "id", tag.ID, "name", tag.Name)
	return tag, nil
}

// CreateTag creates a new tag
func (s *tagService) CreateTag(ctx context.Context, req *services.CreateTagRequest) (*models.Tag, error) {
	if err := validateTagName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	tag := &models.Tag{
		Name:      req.Name,
		Color:     req.Color,
		CreatedAt: time.Now().UnixMilli(),
	}
	if _, err := s.engine.Tags().Insert(ctx, tag); err != nil {
		return nil, err
	}

	s.logger.Info("tag created", "id", tag.ID, "name", tag.Name)
	return tag, nil
}

// GetTag retrieves a tag with its note count
func (s *tagService) GetTag(ctx context.Context, id int64) (*models.Tag, error) {
	tag, err := s.engine.Tags().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.engine.Tags().CountNotesForTag(ctx, id)
	if err != nil {
		return nil, err
	}
	tag.NotesCount = count
	return tag, nil
}

// UpdateTag renames or recolors a tag
func (s *tagService) UpdateTag(ctx context.Context, id int64, req *services.UpdateTagRequest) (*models.Tag, error) {
	if req.Name == nil && req.Color == nil {
		return nil, fmt.Errorf("%w: at least one field must be provided", domain.ErrValidation)
	}

	tags := s.engine.Tags()
	tag, err := tags.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := validateTagName(*req.Name); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		tag.Name = *req.Name
	}
	if req.Color != nil {
		tag.Color = req.Color
	}

	if err := tags.Update(ctx, tag); err != nil {
		return nil, err
	}

	s.logger.Info("tag updated", "id", tag.ID, "name", tag.Name)
	return tag, nil
}

// DeleteTag removes a tag and all its note links
func (s *tagService) DeleteTag(ctx context.Context, id int64) error {
	if err := s.engine.Tags().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("tag deleted", "id", id)
	return nil
}

// ListTags returns all tags with note counts, ordered by name
func (s *tagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.engine.Tags().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tags {
		count, err := s.engine.Tags().CountNotesForTag(ctx, tags[i].ID)
		if err != nil {
			return nil, err
		}
		tags[i].NotesCount = count
	}
	return tags, nil
}

// SearchTags returns tags whose name contains the query
func (s *tagService) SearchTags(ctx context.Context, query string) ([]models.Tag, error) {
	return s.engine.Tags().Search(ctx, query)
}

// NameExists reports whether another tag already uses the exact name
func (s *tagService) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	return s.engine.Tags().NameExists(ctx, name, excludeID)
}

// AddTagToNote attaches a tag to a note
func (s *tagService) AddTagToNote(ctx context.Context, noteID, tagID int64) error {
	return s.engine.Tags().AddLink(ctx, noteID, tagID)
}

// RemoveTagFromNote detaches a tag from a note
func (s *tagService) RemoveTagFromNote(ctx context.Context, noteID, tagID int64) error {
	return s.engine.Tags().RemoveLink(ctx, noteID, tagID)
}

// TagsForNote returns the tags attached to one note
func (s *tagService) TagsForNote(ctx context.Context, noteID int64) ([]models.Tag, error) {
	return s.engine.Tags().ListTagsForNote(ctx, noteID)
}

func validateTagName(name string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(1, config.MaxTagNameLength),
	)
}
