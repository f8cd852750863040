package repositories

import "inkwell/internal/stream"

// Engine bundles a persistence implementation: the entity repositories, the
// transaction manager, and the change notifier that drives reactive query
// subscriptions. Both the postgres and the in-process engines satisfy it.
type Engine interface {
	Notes() NoteRepository
	Folders() FolderRepository
	Tags() TagRepository
	Settings() SettingsRepository
	Tx() TransactionManager

	// Changes emits a tick after every committed mutation; services re-run
	// their registered queries on each tick.
	Changes() *stream.Notifier
}
