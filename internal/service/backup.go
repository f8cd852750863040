package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/domain/services"
)

type backupService struct {
	engine repositories.Engine
	logger *slog.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(engine repositories.Engine, logger *slog.Logger) services.BackupService {
	return &backupService{engine: engine, logger: logger}
}

// Export writes the full data set as a pretty-printed JSON document.
func (s *backupService) Export(ctx context.Context, w io.Writer) error {
	notes, err := s.engine.Notes().ListAll(ctx)
	if err != nil {
		return &domain.BackupError{Op: "export", Err: err}
	}
	folders, err := s.engine.Folders().ListAll(ctx)
	if err != nil {
		return &domain.BackupError{Op: "export", Err: err}
	}
	tags, err := s.engine.Tags().ListAll(ctx)
	if err != nil {
		return &domain.BackupError{Op: "export", Err: err}
	}

	data := models.BackupData{
		Version:   models.BackupFormatVersion,
		Timestamp: time.Now().UnixMilli(),
		Notes:     make([]models.BackupNote, 0, len(notes)),
		Folders:   make([]models.BackupFolder, 0, len(folders)),
		Tags:      make([]models.BackupTag, 0, len(tags)),
	}
	for _, n := range notes {
		data.Notes = append(data.Notes, models.ToBackupNote(n))
	}
	for _, f := range folders {
		data.Folders = append(data.Folders, models.ToBackupFolder(f))
	}
	for _, t := range tags {
		data.Tags = append(data.Tags, models.ToBackupTag(t))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return &domain.BackupError{Op: "export", Err: err}
	}

	s.logger.Info("backup exported",
		"notes", len(data.Notes),
		"folders", len(data.Folders),
		"tags", len(data.Tags),
	)
	return nil
}

// Restore merges a backup document additively. Rows whose ids collide are
// replaced, everything already in the store stays.
func (s *backupService) Restore(ctx context.Context, r io.Reader) (*services.RestoreSummary, error) {
	var data models.BackupData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, &domain.BackupError{Op: "restore", Err: err}
	}
	if data.Version > models.BackupFormatVersion {
		return nil, &domain.BackupError{
			Op:  "restore",
			Err: fmt.Errorf("unsupported backup version %d", data.Version),
		}
	}

	summary := &services.RestoreSummary{}
	err := s.engine.Tx().ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.restoreFolders(txCtx, data.Folders, summary); err != nil {
			return err
		}
		if err := s.restoreTags(txCtx, data.Tags, summary); err != nil {
			return err
		}
		return s.restoreNotes(txCtx, data.Notes, summary)
	})
	if err != nil {
		return nil, &domain.BackupError{Op: "restore", Err: err}
	}

	s.logger.Info("backup restored",
		"notes", summary.Notes,
		"folders", summary.Folders,
		"tags", summary.Tags,
	)
	return summary, nil
}

// restoreFolders inserts parents before children so the hierarchy references
// always resolve.
func (s *backupService) restoreFolders(ctx context.Context, backup []models.BackupFolder, summary *services.RestoreSummary) error {
	inBackup := make(map[int64]bool, len(backup))
	for _, b := range backup {
		inBackup[b.ID] = true
	}

	done := make(map[int64]bool, len(backup))
	pending := backup
	for len(pending) > 0 {
		var next []models.BackupFolder
		progressed := false
		for _, b := range pending {
			if b.ParentID != nil && inBackup[*b.ParentID] && !done[*b.ParentID] {
				next = append(next, b)
				continue
			}
			folder := b.ToFolder()
			if _, err := s.engine.Folders().Insert(ctx, &folder); err != nil {
				return fmt.Errorf("restore folder %d: %w", b.ID, err)
			}
			done[b.ID] = true
			summary.Folders++
			progressed = true
		}
		if !progressed {
			return fmt.Errorf("folder hierarchy in backup contains a cycle")
		}
		pending = next
	}
	return nil
}

func (s *backupService) restoreTags(ctx context.Context, backup []models.BackupTag, summary *services.RestoreSummary) error {
	now := time.Now().UnixMilli()
	for _, b := range backup {
		tag := b.ToTag(now)
		if _, err := s.engine.Tags().Insert(ctx, &tag); err != nil {
			// A different tag already owns this name; keep it.
			if errors.Is(err, domain.ErrConflict) {
				continue
			}
			return fmt.Errorf("restore tag %d: %w", b.ID, err)
		}
		summary.Tags++
	}
	return nil
}

func (s *backupService) restoreNotes(ctx context.Context, backup []models.BackupNote, summary *services.RestoreSummary) error {
	folders, err := s.engine.Folders().ListAll(ctx)
	if err != nil {
		return err
	}
	known := make(map[int64]bool, len(folders))
	for _, f := range folders {
		known[f.ID] = true
	}

	for _, b := range backup {
		note := b.ToNote()
		// A folder reference the store cannot resolve degrades to
		// unfoldered instead of failing the whole restore.
		if note.FolderID != nil && !known[*note.FolderID] {
			note.FolderID = nil
		}
		if _, err := s.engine.Notes().Insert(ctx, &note); err != nil {
			return fmt.Errorf("restore note %d: %w", b.ID, err)
		}
		summary.Notes++
	}
	return nil
}
