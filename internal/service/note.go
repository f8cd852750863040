package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/domain/services"
	"inkwell/internal/markdown"
	"inkwell/internal/stream"
)

type noteService struct {
	engine   repositories.Engine
	settings services.SettingsService
	logger   *slog.Logger
}

// NewNoteService creates a new note service
func NewNoteService(
	engine repositories.Engine,
	settings services.SettingsService,
	logger *slog.Logger,
) services.NoteService {
	return &noteService{engine: engine, settings: settings, logger: logger}
}

// Save persists a note draft, eliding empty ones.
func (s *noteService) Save(ctx context.Context, req *services.SaveNoteRequest) (*models.Note, error) {
	if err := s.validateSaveRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	notes := s.engine.Notes()
	now := time.Now().UnixMilli()

	note := &models.Note{
		ID:             req.ID,
		Title:          req.Title,
		Content:        req.Content,
		FolderID:       req.FolderID,
		Color:          req.Color,
		IsChecklist:    req.IsChecklist,
		ChecklistItems: req.ChecklistItems,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	note.PlainTextContent = derivePlainText(note)

	if req.ID != 0 {
		existing, err := notes.GetByID(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		note.CreatedAt = existing.CreatedAt
		note.IsPinned = existing.IsPinned
		note.IsArchived = existing.IsArchived
		note.IsInTrash = existing.IsInTrash
		note.TrashedAt = existing.TrashedAt
	}

	// An empty draft never lands in storage; saving one over an existing
	// note deletes it.
	if note.IsEmpty() {
		if req.ID != 0 {
			if err := notes.Delete(ctx, req.ID); err != nil {
				return nil, err
			}
			s.logger.Info("empty note deleted on save", "id", req.ID)
		}
		return nil, nil
	}

	err := s.engine.Tx().ExecTx(ctx, func(txCtx context.Context) error {
		if req.ID == 0 {
			if _, err := notes.Insert(txCtx, note); err != nil {
				return err
			}
		} else {
			if err := notes.Update(txCtx, note); err != nil {
				return err
			}
		}
		return s.replaceTagLinks(txCtx, note.ID, req.TagIDs)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("note saved", "id", note.ID, "title", note.Title, "checklist", note.IsChecklist)
	return s.enrich(ctx, note)
}

func (s *noteService) replaceTagLinks(ctx context.Context, noteID int64, tagIDs []int64) error {
	tags := s.engine.Tags()
	if err := tags.RemoveLinksForNote(ctx, noteID); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if err := tags.AddLink(ctx, noteID, tagID); err != nil {
			return err
		}
	}
	return nil
}

// derivePlainText rebuilds the searchable text mirror. Checklist notes use
// their item texts, markdown notes go through the parser.
func derivePlainText(note *models.Note) string {
	if note.IsChecklist {
		texts := make([]string, 0, len(note.ChecklistItems))
		for _, item := range note.ChecklistItems {
			texts = append(texts, item.Text)
		}
		return strings.TrimSpace(strings.Join(texts, "\n"))
	}
	return markdown.PlainText(note.Content)
}

// Get retrieves a note enriched with its folder name and tags
func (s *noteService) Get(ctx context.Context, id int64) (*models.Note, error) {
	note, err := s.engine.Notes().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, note)
}

func (s *noteService) enrich(ctx context.Context, note *models.Note) (*models.Note, error) {
	if note.FolderID != nil {
		folder, err := s.engine.Folders().GetByID(ctx, *note.FolderID)
		if err == nil {
			note.FolderName = folder.Name
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	tags, err := s.engine.Tags().ListTagsForNote(ctx, note.ID)
	if err != nil {
		return nil, err
	}
	note.Tags = tags
	return note, nil
}

func (s *noteService) enrichAll(ctx context.Context, notes []models.Note) ([]models.Note, error) {
	folders, err := s.engine.Folders().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(folders))
	for _, f := range folders {
		names[f.ID] = f.Name
	}

	for i := range notes {
		if notes[i].FolderID != nil {
			notes[i].FolderName = names[*notes[i].FolderID]
		}
		tags, err := s.engine.Tags().ListTagsForNote(ctx, notes[i].ID)
		if err != nil {
			return nil, err
		}
		notes[i].Tags = tags
	}
	return notes, nil
}

// Delete permanently removes a note
func (s *noteService) Delete(ctx context.Context, id int64) error {
	if err := s.engine.Notes().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("note deleted", "id", id)
	return nil
}

// Duplicate copies a note with a " (Copy)" title, unpinned, fresh
// timestamps and the same tag links.
func (s *noteService) Duplicate(ctx context.Context, id int64) (*models.Note, error) {
	original, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	copied := *original
	copied.ID = 0
	copied.Title = original.Title + " (Copy)"
	copied.IsPinned = false
	copied.CreatedAt = now
	copied.UpdatedAt = now
	copied.ChecklistItems = append([]models.ChecklistItem(nil), original.ChecklistItems...)
	copied.Tags = nil
	copied.FolderName = ""

	err = s.engine.Tx().ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.engine.Notes().Insert(txCtx, &copied); err != nil {
			return err
		}
		for _, tag := range original.Tags {
			if err := s.engine.Tags().AddLink(txCtx, copied.ID, tag.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("note duplicated", "source_id", id, "copy_id", copied.ID)
	return s.enrich(ctx, &copied)
}

// SetPinned flips the pin flag
func (s *noteService) SetPinned(ctx context.Context, id int64, pinned bool) error {
	return s.engine.Notes().SetPinned(ctx, id, pinned, time.Now().UnixMilli())
}

// SetArchived sets the archive flag, clearing pin and trash state
func (s *noteService) SetArchived(ctx context.Context, id int64, archived bool) error {
	return s.engine.Notes().SetArchived(ctx, id, archived, time.Now().UnixMilli())
}

// MoveToTrash trashes a note, clearing pin and archive flags
func (s *noteService) MoveToTrash(ctx context.Context, id int64) error {
	return s.engine.Notes().MoveToTrash(ctx, id, time.Now().UnixMilli())
}

// RestoreFromTrash returns a trashed note to circulation
func (s *noteService) RestoreFromTrash(ctx context.Context, id int64) error {
	return s.engine.Notes().RestoreFromTrash(ctx, id, time.Now().UnixMilli())
}

// EmptyTrash permanently deletes all trashed notes
func (s *noteService) EmptyTrash(ctx context.Context) (int64, error) {
	deleted, err := s.engine.Notes().EmptyTrash(ctx)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("trash emptied", "deleted", deleted)
	}
	return deleted, nil
}

// SweepExpiredTrash deletes trashed notes past the retention period
func (s *noteService) SweepExpiredTrash(ctx context.Context) (int64, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return 0, err
	}
	retention := int64(settings.TrashRetentionDays) * 24 * int64(time.Hour/time.Millisecond)
	threshold := time.Now().UnixMilli() - retention

	deleted, err := s.engine.Notes().DeleteExpiredTrash(ctx, threshold)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("expired trash swept",
			"deleted", deleted,
			"retention_days", settings.TrashRetentionDays,
		)
	}
	return deleted, nil
}

// MoveToFolder re-files a note; nil means unfoldered
func (s *noteService) MoveToFolder(ctx context.Context, id int64, folderID *int64) error {
	if folderID != nil {
		if _, err := s.engine.Folders().GetByID(ctx, *folderID); err != nil {
			return fmt.Errorf("folder: %w", err)
		}
	}
	return s.engine.Notes().SetFolder(ctx, id, folderID, time.Now().UnixMilli())
}

// SetColor assigns or clears a note's color
func (s *noteService) SetColor(ctx context.Context, id int64, color *models.NoteColor) error {
	if color != nil && !color.Valid() {
		return fmt.Errorf("%w: unknown color %q", domain.ErrValidation, string(*color))
	}
	return s.engine.Notes().SetColor(ctx, id, color, time.Now().UnixMilli())
}

func (s *noteService) listEnriched(ctx context.Context, list func(context.Context) ([]models.Note, error)) ([]models.Note, error) {
	notes, err := list(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, notes)
}

func (s *noteService) ListActive(ctx context.Context) ([]models.Note, error) {
	return s.listEnriched(ctx, s.engine.Notes().ListActive)
}

func (s *noteService) ListByFolder(ctx context.Context, folderID int64) ([]models.Note, error) {
	return s.listEnriched(ctx, func(ctx context.Context) ([]models.Note, error) {
		return s.engine.Notes().ListByFolder(ctx, folderID)
	})
}

func (s *noteService) ListUnfoldered(ctx context.Context) ([]models.Note, error) {
	return s.listEnriched(ctx, s.engine.Notes().ListUnfoldered)
}

func (s *noteService) ListArchived(ctx context.Context) ([]models.Note, error) {
	return s.listEnriched(ctx, s.engine.Notes().ListArchived)
}

func (s *noteService) ListTrashed(ctx context.Context) ([]models.Note, error) {
	return s.listEnriched(ctx, s.engine.Notes().ListTrashed)
}

func (s *noteService) ListPinned(ctx context.Context) ([]models.Note, error) {
	return s.listEnriched(ctx, s.engine.Notes().ListPinned)
}

func (s *noteService) Search(ctx context.Context, query string) ([]models.Note, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	return s.listEnriched(ctx, func(ctx context.Context) ([]models.Note, error) {
		return s.engine.Notes().Search(ctx, query)
	})
}

// SortForDisplay orders notes for the list surface. Pinned notes come
// first, always most recently updated first; the rest follow the user's
// sort key and direction.
func (s *noteService) SortForDisplay(notes []models.Note, by models.SortBy, order models.SortOrder) []models.Note {
	sorted := append([]models.Note(nil), notes...)

	var pinned, unpinned []models.Note
	for _, n := range sorted {
		if n.IsPinned {
			pinned = append(pinned, n)
		} else {
			unpinned = append(unpinned, n)
		}
	}

	sort.SliceStable(pinned, func(i, j int) bool {
		return pinned[i].UpdatedAt > pinned[j].UpdatedAt
	})

	less := sortLess(by)
	sort.SliceStable(unpinned, func(i, j int) bool {
		if order == models.SortDescending {
			return less(unpinned[j], unpinned[i])
		}
		return less(unpinned[i], unpinned[j])
	})

	return append(pinned, unpinned...)
}

func sortLess(by models.SortBy) func(a, b models.Note) bool {
	switch by {
	case models.SortByDateCreated:
		return func(a, b models.Note) bool { return a.CreatedAt < b.CreatedAt }
	case models.SortByTitle:
		return func(a, b models.Note) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case models.SortByColor:
		return func(a, b models.Note) bool { return colorName(a.Color) < colorName(b.Color) }
	default:
		return func(a, b models.Note) bool { return a.UpdatedAt < b.UpdatedAt }
	}
}

func colorName(c *models.NoteColor) string {
	if c == nil {
		return ""
	}
	return string(*c)
}

func (s *noteService) CountActive(ctx context.Context) (int, error) {
	return s.engine.Notes().CountActive(ctx)
}

func (s *noteService) CountArchived(ctx context.Context) (int, error) {
	return s.engine.Notes().CountArchived(ctx)
}

func (s *noteService) CountTrashed(ctx context.Context) (int, error) {
	return s.engine.Notes().CountTrashed(ctx)
}

func (s *noteService) WatchActive(ctx context.Context) *stream.Stream[[]models.Note] {
	return watch(ctx, s.engine.Changes(), s.logger, s.ListActive)
}

func (s *noteService) WatchByFolder(ctx context.Context, folderID int64) *stream.Stream[[]models.Note] {
	return watch(ctx, s.engine.Changes(), s.logger, func(ctx context.Context) ([]models.Note, error) {
		return s.ListByFolder(ctx, folderID)
	})
}

func (s *noteService) WatchArchived(ctx context.Context) *stream.Stream[[]models.Note] {
	return watch(ctx, s.engine.Changes(), s.logger, s.ListArchived)
}

func (s *noteService) WatchTrashed(ctx context.Context) *stream.Stream[[]models.Note] {
	return watch(ctx, s.engine.Changes(), s.logger, s.ListTrashed)
}

func (s *noteService) validateSaveRequest(req *services.SaveNoteRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Length(0, config.MaxNoteTitleLength)),
	); err != nil {
		return err
	}
	if req.Color != nil && !req.Color.Valid() {
		return fmt.Errorf("unknown color %q", string(*req.Color))
	}
	return nil
}
