package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/services"
)

// EditorSession owns one note draft being edited. While the auto-save
// preference is on, every edit reschedules an inactivity save and a periodic
// loop saves a dirty draft at the configured interval; with it off, only
// Flush and Close persist. Saves go through the note service, so an empty
// draft is elided rather than stored.
type EditorSession struct {
	notes  services.NoteService
	logger *slog.Logger

	autoSave        bool
	inactivityDelay time.Duration
	saveInterval    time.Duration

	mu         sync.Mutex
	draft      services.SaveNoteRequest
	dirty      bool
	inactivity *time.Timer
	closed     bool

	cancel context.CancelFunc
	done   chan struct{}
}

// EditorSessionOptions tune the session timers; zero values take the
// defaults (3 s inactivity, interval from settings).
type EditorSessionOptions struct {
	InactivityDelay time.Duration
	SaveInterval    time.Duration
}

// NewEditorSession opens a session over an existing note or, when noteID is
// zero, a fresh draft.
func NewEditorSession(
	ctx context.Context,
	notes services.NoteService,
	settings models.Settings,
	logger *slog.Logger,
	noteID int64,
	opts EditorSessionOptions,
) (*EditorSession, error) {
	draft := services.SaveNoteRequest{ID: noteID}
	if noteID != 0 {
		note, err := notes.Get(ctx, noteID)
		if err != nil {
			return nil, err
		}
		draft.Title = note.Title
		draft.Content = note.Content
		draft.FolderID = note.FolderID
		draft.Color = note.Color
		draft.IsChecklist = note.IsChecklist
		draft.ChecklistItems = append([]models.ChecklistItem(nil), note.ChecklistItems...)
		for _, tag := range note.Tags {
			draft.TagIDs = append(draft.TagIDs, tag.ID)
		}
	}

	inactivity := opts.InactivityDelay
	if inactivity <= 0 {
		inactivity = config.AutoSaveInactivity
	}
	interval := opts.SaveInterval
	if interval <= 0 {
		interval = time.Duration(settings.AutoSaveIntervalSeconds) * time.Second
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	s := &EditorSession{
		notes:           notes,
		logger:          logger,
		autoSave:        settings.AutoSave,
		inactivityDelay: inactivity,
		saveInterval:    interval,
		draft:           draft,
		cancel:          cancel,
		done:            make(chan struct{}),
	}

	if settings.AutoSave {
		go s.periodicLoop(sessionCtx)
	} else {
		close(s.done)
	}
	return s, nil
}

func (s *EditorSession) periodicLoop(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.saveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.flushIfDirty(ctx); err != nil {
				s.logger.Error("periodic save failed", "error", err)
			}
		}
	}
}

func (s *EditorSession) edit(fn func(*services.SaveNoteRequest)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	fn(&s.draft)
	s.dirty = true

	// With auto-save off, edits accumulate in the draft until an explicit
	// Flush or Close.
	if !s.autoSave {
		return
	}

	if s.inactivity != nil {
		s.inactivity.Stop()
	}
	s.inactivity = time.AfterFunc(s.inactivityDelay, func() {
		if err := s.flushIfDirty(context.Background()); err != nil {
			s.logger.Error("inactivity save failed", "error", err)
		}
	})
}

// SetTitle updates the draft title.
func (s *EditorSession) SetTitle(title string) {
	s.edit(func(d *services.SaveNoteRequest) { d.Title = title })
}

// SetContent updates the draft body.
func (s *EditorSession) SetContent(content string) {
	s.edit(func(d *services.SaveNoteRequest) { d.Content = content })
}

// SetChecklist switches the draft to checklist form with the given items.
func (s *EditorSession) SetChecklist(items []models.ChecklistItem) {
	s.edit(func(d *services.SaveNoteRequest) {
		d.IsChecklist = true
		d.ChecklistItems = append([]models.ChecklistItem(nil), items...)
	})
}

// SetFolder re-files the draft.
func (s *EditorSession) SetFolder(folderID *int64) {
	s.edit(func(d *services.SaveNoteRequest) { d.FolderID = folderID })
}

// SetColor recolors the draft.
func (s *EditorSession) SetColor(color *models.NoteColor) {
	s.edit(func(d *services.SaveNoteRequest) { d.Color = color })
}

// SetTags replaces the draft's tag set.
func (s *EditorSession) SetTags(tagIDs []int64) {
	s.edit(func(d *services.SaveNoteRequest) {
		d.TagIDs = append([]int64(nil), tagIDs...)
	})
}

// Draft returns a copy of the current draft.
func (s *EditorSession) Draft() services.SaveNoteRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draft
	d.ChecklistItems = append([]models.ChecklistItem(nil), s.draft.ChecklistItems...)
	d.TagIDs = append([]int64(nil), s.draft.TagIDs...)
	return d
}

// flushIfDirty saves the draft if it changed since the last save.
func (s *EditorSession) flushIfDirty(ctx context.Context) error {
	s.mu.Lock()
	if !s.dirty || s.closed {
		s.mu.Unlock()
		return nil
	}
	req := s.draft
	s.dirty = false
	s.mu.Unlock()

	saved, err := s.notes.Save(ctx, &req)
	if err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if saved == nil {
		// The draft was empty and elided; a later non-empty save creates
		// a new note.
		s.draft.ID = 0
	} else if s.draft.ID == 0 {
		s.draft.ID = saved.ID
	}
	return nil
}

// Flush saves the draft now regardless of timers.
func (s *EditorSession) Flush(ctx context.Context) error {
	return s.flushIfDirty(ctx)
}

// Close flushes a dirty draft, then cancels both save timers. No save can
// fire after Close returns.
func (s *EditorSession) Close(ctx context.Context) error {
	err := s.flushIfDirty(ctx)

	s.mu.Lock()
	s.closed = true
	if s.inactivity != nil {
		s.inactivity.Stop()
	}
	s.mu.Unlock()

	s.cancel()
	<-s.done
	return err
}
