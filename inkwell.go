// Package inkwell is the core of a personal note-taking application: a
// hierarchical folder tree, notes with markdown or checklist content, tags,
// user preferences and JSON backup, over either a postgres or an in-process
// storage engine. There is no network or CLI surface; embed the App and call
// the services directly.
package inkwell

import (
	"context"
	"log/slog"

	"inkwell/internal/config"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/domain/services"
	"inkwell/internal/repository/memory"
	"inkwell/internal/repository/postgres"
	"inkwell/internal/service"
)

// App bundles the wired services over one storage engine.
type App struct {
	Folders  services.FolderTreeService
	Notes    services.NoteService
	Tags     services.TagService
	Settings services.SettingsService
	Backup   services.BackupService

	engine repositories.Engine
	close  func()
}

// New wires an App from configuration. A configured DATABASE_URL selects
// the postgres engine (migrations applied on startup); otherwise everything
// runs on the in-process engine.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg.DatabaseURL == "" {
		engine := memory.NewEngine()
		return newApp(engine, engine.Close, logger), nil
	}

	engine, err := postgres.NewEngine(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}
	return newApp(engine, engine.Close, logger), nil
}

// NewWithEngine wires an App over a caller-provided engine.
func NewWithEngine(engine repositories.Engine, logger *slog.Logger) *App {
	return newApp(engine, nil, logger)
}

func newApp(engine repositories.Engine, closeFn func(), logger *slog.Logger) *App {
	settings := service.NewSettingsService(engine, logger)
	return &App{
		Folders:  service.NewFolderTreeService(engine, logger),
		Notes:    service.NewNoteService(engine, settings, logger),
		Tags:     service.NewTagService(engine, logger),
		Settings: settings,
		Backup:   service.NewBackupService(engine, logger),
		engine:   engine,
		close:    closeFn,
	}
}

// Engine exposes the underlying storage engine, for sessions and advanced
// callers.
func (a *App) Engine() repositories.Engine { return a.engine }

// OpenEditor starts an auto-saving editing session over a note, or a fresh
// draft when noteID is zero.
func (a *App) OpenEditor(ctx context.Context, noteID int64, logger *slog.Logger) (*service.EditorSession, error) {
	settings, err := a.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	return service.NewEditorSession(ctx, a.Notes, settings, logger, noteID, service.EditorSessionOptions{})
}

// OpenSearch starts a debounced search session.
func (a *App) OpenSearch(ctx context.Context, logger *slog.Logger) *service.SearchSession {
	return service.NewSearchSession(ctx, a.Notes, logger, 0)
}

// Close releases the engine if this App owns it.
func (a *App) Close() {
	if a.close != nil {
		a.close()
	}
}
