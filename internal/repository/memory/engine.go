package memory

import (
	"context"
	"sync"

	"inkwell/internal/domain/repositories"
	"inkwell/internal/stream"
)

// Engine is the in-memory storage engine. It satisfies the same interface
// as the postgres engine.
type Engine struct {
	s        *store
	notes    repositories.NoteRepository
	folders  repositories.FolderRepository
	tags     repositories.TagRepository
	settings repositories.SettingsRepository
	tx       repositories.TransactionManager
}

// NewEngine returns an empty in-memory engine.
func NewEngine() *Engine {
	s := newStore()
	return &Engine{
		s:        s,
		notes:    newNoteRepository(s),
		folders:  newFolderRepository(s),
		tags:     newTagRepository(s),
		settings: newSettingsRepository(s),
		tx:       &memoryTransactionManager{s: s},
	}
}

func (e *Engine) Notes() repositories.NoteRepository        { return e.notes }
func (e *Engine) Folders() repositories.FolderRepository    { return e.folders }
func (e *Engine) Tags() repositories.TagRepository          { return e.tags }
func (e *Engine) Settings() repositories.SettingsRepository { return e.settings }
func (e *Engine) Tx() repositories.TransactionManager       { return e.tx }
func (e *Engine) Changes() *stream.Notifier                 { return e.s.notifier }

// Close releases the change notifier.
func (e *Engine) Close() {
	e.s.notifier.Close()
}

// memoryTransactionManager serializes transactional sections. Mutations
// apply immediately, so a failed fn is not rolled back; callers that need
// atomicity against a real database use the postgres engine.
type memoryTransactionManager struct {
	s    *store
	txMu sync.Mutex
}

func (tm *memoryTransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	tm.txMu.Lock()
	defer tm.txMu.Unlock()
	return fn(ctx)
}
