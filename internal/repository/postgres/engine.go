package postgres

import (
	"context"
	"log/slog"

	"inkwell/internal/domain/repositories"
	"inkwell/internal/stream"
)

// Engine bundles the postgres repositories behind the storage engine
// interface. All repositories share one pool and one change notifier.
type Engine struct {
	notes    repositories.NoteRepository
	folders  repositories.FolderRepository
	tags     repositories.TagRepository
	settings repositories.SettingsRepository
	tx       repositories.TransactionManager
	notifier *stream.Notifier
	config   *RepositoryConfig
}

// NewEngine connects to the database, applies pending migrations and
// returns a ready engine.
func NewEngine(ctx context.Context, databaseURL string, logger *slog.Logger) (*Engine, error) {
	if err := Migrate(databaseURL); err != nil {
		return nil, err
	}

	pool, err := CreateConnectionPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	config := &RepositoryConfig{
		Pool:     pool,
		Logger:   logger,
		Notifier: stream.NewNotifier(),
	}
	return &Engine{
		notes:    NewNoteRepository(config),
		folders:  NewFolderRepository(config),
		tags:     NewTagRepository(config),
		settings: NewSettingsRepository(config),
		tx:       NewTransactionManager(config),
		notifier: config.Notifier,
		config:   config,
	}, nil
}

func (e *Engine) Notes() repositories.NoteRepository        { return e.notes }
func (e *Engine) Folders() repositories.FolderRepository    { return e.folders }
func (e *Engine) Tags() repositories.TagRepository          { return e.tags }
func (e *Engine) Settings() repositories.SettingsRepository { return e.settings }
func (e *Engine) Tx() repositories.TransactionManager       { return e.tx }
func (e *Engine) Changes() *stream.Notifier                 { return e.notifier }

// Close releases the connection pool and the change notifier.
func (e *Engine) Close() {
	e.notifier.Close()
	e.config.Pool.Close()
}
