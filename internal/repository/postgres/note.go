package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/stream"
)

// PostgresNoteRepository implements the NoteRepository interface
type PostgresNoteRepository struct {
	pool     *pgxpool.Pool
	notifier *stream.Notifier
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(config *RepositoryConfig) repositories.NoteRepository {
	return &PostgresNoteRepository{pool: config.Pool, notifier: config.Notifier}
}

const noteColumns = `id, title, content, plain_text_content, folder_id, color,
	is_pinned, is_archived, is_in_trash, is_checklist, checklist_items,
	created_at, updated_at, trashed_at`

func scanNote(row interface{ Scan(...interface{}) error }, n *models.Note) error {
	var colorName *string
	var checklistDoc string
	if err := row.Scan(
		&n.ID,
		&n.Title,
		&n.Content,
		&n.PlainTextContent,
		&n.FolderID,
		&colorName,
		&n.IsPinned,
		&n.IsArchived,
		&n.IsInTrash,
		&n.IsChecklist,
		&checklistDoc,
		&n.CreatedAt,
		&n.UpdatedAt,
		&n.TrashedAt,
	); err != nil {
		return err
	}
	// Unknown color names and malformed checklist documents degrade
	// instead of failing the load.
	if colorName != nil {
		if c, ok := models.ParseNoteColor(*colorName); ok {
			n.Color = &c
		}
	}
	n.ChecklistItems = models.ParseChecklist(checklistDoc)
	return nil
}

func noteArgs(n *models.Note) []interface{} {
	var colorName *string
	if n.Color != nil {
		name := string(*n.Color)
		colorName = &name
	}
	return []interface{}{
		n.Title, n.Content, n.PlainTextContent, n.FolderID, colorName,
		n.IsPinned, n.IsArchived, n.IsInTrash, n.IsChecklist,
		models.RenderChecklist(n.ChecklistItems),
		n.CreatedAt, n.UpdatedAt, n.TrashedAt,
	}
}

// Insert persists a note. A non-zero id replaces any existing row with that
// id and keeps the id sequence ahead of it.
func (r *PostgresNoteRepository) Insert(ctx context.Context, note *models.Note) (int64, error) {
	executor := GetExecutor(ctx, r.pool)

	if note.ID == 0 {
		query := `
			INSERT INTO notes (title, content, plain_text_content, folder_id, color,
				is_pinned, is_archived, is_in_trash, is_checklist, checklist_items,
				created_at, updated_at, trashed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING id
		`
		if err := executor.QueryRow(ctx, query, noteArgs(note)...).Scan(&note.ID); err != nil {
			if isPgForeignKeyError(err) {
				return 0, fmt.Errorf("folder: %w", domain.ErrNotFound)
			}
			return 0, fmt.Errorf("insert note: %w", err)
		}
	} else {
		query := `
			INSERT INTO notes (id, title, content, plain_text_content, folder_id, color,
				is_pinned, is_archived, is_in_trash, is_checklist, checklist_items,
				created_at, updated_at, trashed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (id) DO UPDATE SET
				title = EXCLUDED.title,
				content = EXCLUDED.content,
				plain_text_content = EXCLUDED.plain_text_content,
				folder_id = EXCLUDED.folder_id,
				color = EXCLUDED.color,
				is_pinned = EXCLUDED.is_pinned,
				is_archived = EXCLUDED.is_archived,
				is_in_trash = EXCLUDED.is_in_trash,
				is_checklist = EXCLUDED.is_checklist,
				checklist_items = EXCLUDED.checklist_items,
				created_at = EXCLUDED.created_at,
				updated_at = EXCLUDED.updated_at,
				trashed_at = EXCLUDED.trashed_at
		`
		args := append([]interface{}{note.ID}, noteArgs(note)...)
		if _, err := executor.Exec(ctx, query, args...); err != nil {
			if isPgForeignKeyError(err) {
				return 0, fmt.Errorf("folder: %w", domain.ErrNotFound)
			}
			return 0, fmt.Errorf("insert note: %w", err)
		}
		if _, err := executor.Exec(ctx,
			`SELECT setval(pg_get_serial_sequence('notes', 'id'), (SELECT MAX(id) FROM notes))`,
		); err != nil {
			return 0, fmt.Errorf("advance note id sequence: %w", err)
		}
	}

	r.notifier.Broadcast()
	return note.ID, nil
}

// Update rewrites the full note row.
func (r *PostgresNoteRepository) Update(ctx context.Context, note *models.Note) error {
	query := `
		UPDATE notes
		SET title = $1, content = $2, plain_text_content = $3, folder_id = $4, color = $5,
			is_pinned = $6, is_archived = $7, is_in_trash = $8, is_checklist = $9,
			checklist_items = $10, created_at = $11, updated_at = $12, trashed_at = $13
		WHERE id = $14
	`
	args := append(noteArgs(note), note.ID)
	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("note %d: %w", note.ID, domain.ErrNotFound)
	}

	r.notifier.Broadcast()
	return nil
}

// Delete permanently removes a note.
func (r *PostgresNoteRepository) Delete(ctx context.Context, id int64) error {
	result, err := GetExecutor(ctx, r.pool).Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("note %d: %w", id, domain.ErrNotFound)
	}

	r.notifier.Broadcast()
	return nil
}

// GetByID retrieves a note by ID
func (r *PostgresNoteRepository) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	query := fmt.Sprintf(`SELECT %s FROM notes WHERE id = $1`, noteColumns)

	var note models.Note
	if err := scanNote(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id), &note); err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("note %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return &note, nil
}

func (r *PostgresNoteRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Note, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var note models.Note
		if err := scanNote(rows, &note); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}

// ListActive returns notes that are neither trashed nor archived.
func (r *PostgresNoteRepository) ListActive(ctx context.Context) ([]models.Note, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM notes
		WHERE is_in_trash = FALSE AND is_archived = FALSE
		ORDER BY is_pinned DESC, updated_at DESC
	`, noteColumns)
	return r.list(ctx, query)
}

// ListByFolder returns the active notes of one folder.
func (r *PostgresNoteRepository) ListByFolder(ctx context.Context, folderID int64) ([]models.Note, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM notes
		WHERE folder_id = $1 AND is_in_trash = FALSE AND is_archived = FALSE
		ORDER BY is_pinned DESC, updated_at DESC
	`, noteColumns)
	return r.list(ctx, query, folderID)
}

// ListUnfoldered returns active notes without a folder.
func (r *PostgresNoteRepository) ListUnfoldered(ctx context.Context) ([]models.Note, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM notes
		WHERE is_in_trash = FALSE AND is_archived = FALSE AND folder_id IS NULL
		ORDER BY is_pinned DESC, updated_at DESC
	`, noteColumns)
	return r.list(ctx, query)
}

// ListArchived returns archived, non-trashed notes.
func (r *PostgresNoteRepository) ListArchived(ctx context.Context) ([]models.Note, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM notes
		WHERE is_archived = TRUE AND is_in_trash = FALSE
		ORDER BY updated_at DESC
	`, noteColumns)
	return r.list(ctx, query)
}

// ListTrashed returns trashed notes, most recently trashed first.
func (r *PostgresNoteRepository) ListTrashed(ctx context.Context) ([]models.Note, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM notes
		WHERE is_in_trash = TRUE
		ORDER BY trashed_at DESC
	`, noteColumns)
	return r.list(ctx, query)
}

// ListPinned returns pinned active notes.
func (r *PostgresNoteRepository) ListPinned(ctx context.Context) ([]models.Note, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM notes
		WHERE is_pinned = TRUE AND is_in_trash = FALSE AND is_archived = FALSE
		ORDER BY updated_at DESC
	`, noteColumns)
	return r.list(ctx, query)
}

// Search returns non-trashed notes whose title or plain text contains the
// query, case-insensitively.
func (r *PostgresNoteRepository) Search(ctx context.Context, query string) ([]models.Note, error) {
	sql := fmt.Sprintf(`
		SELECT %s FROM notes
		WHERE (title ILIKE '%%' || $1 || '%%' ESCAPE '\' OR plain_text_content ILIKE '%%' || $1 || '%%' ESCAPE '\')
			AND is_in_trash = FALSE
		ORDER BY is_pinned DESC, updated_at DESC
	`, noteColumns)
	return r.list(ctx, sql, escapeLike(query))
}

func (r *PostgresNoteRepository) exec(ctx context.Context, id int64, query string, args ...interface{}) error {
	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("note %d: %w", id, domain.ErrNotFound)
	}
	r.notifier.Broadcast()
	return nil
}

// SetPinned flips the pin flag.
func (r *PostgresNoteRepository) SetPinned(ctx context.Context, id int64, pinned bool, now int64) error {
	return r.exec(ctx, id,
		`UPDATE notes SET is_pinned = $1, updated_at = $2 WHERE id = $3`, pinned, now, id)
}

// SetArchived sets the archive flag. Archiving clears the pin and any trash
// state so the lifecycle partition stays mutually exclusive.
func (r *PostgresNoteRepository) SetArchived(ctx context.Context, id int64, archived bool, now int64) error {
	return r.exec(ctx, id, `
		UPDATE notes
		SET is_archived = $1, is_pinned = FALSE, is_in_trash = FALSE, trashed_at = NULL, updated_at = $2
		WHERE id = $3
	`, archived, now, id)
}

// MoveToTrash marks the note trashed and clears the pin and archive flags.
func (r *PostgresNoteRepository) MoveToTrash(ctx context.Context, id int64, now int64) error {
	return r.exec(ctx, id, `
		UPDATE notes
		SET is_in_trash = TRUE, trashed_at = $1, is_pinned = FALSE, is_archived = FALSE, updated_at = $1
		WHERE id = $2
	`, now, id)
}

// RestoreFromTrash clears the trash flag and trashedAt.
func (r *PostgresNoteRepository) RestoreFromTrash(ctx context.Context, id int64, now int64) error {
	return r.exec(ctx, id, `
		UPDATE notes
		SET is_in_trash = FALSE, trashed_at = NULL, updated_at = $1
		WHERE id = $2
	`, now, id)
}

// EmptyTrash permanently deletes every trashed note.
func (r *PostgresNoteRepository) EmptyTrash(ctx context.Context) (int64, error) {
	result, err := GetExecutor(ctx, r.pool).Exec(ctx, `DELETE FROM notes WHERE is_in_trash = TRUE`)
	if err != nil {
		return 0, fmt.Errorf("empty trash: %w", err)
	}
	if result.RowsAffected() > 0 {
		r.notifier.Broadcast()
	}
	return result.RowsAffected(), nil
}

// DeleteExpiredTrash permanently deletes trashed notes older than threshold.
func (r *PostgresNoteRepository) DeleteExpiredTrash(ctx context.Context, threshold int64) (int64, error) {
	result, err := GetExecutor(ctx, r.pool).Exec(ctx,
		`DELETE FROM notes WHERE is_in_trash = TRUE AND trashed_at < $1`, threshold)
	if err != nil {
		return 0, fmt.Errorf("delete expired trash: %w", err)
	}
	if result.RowsAffected() > 0 {
		r.notifier.Broadcast()
	}
	return result.RowsAffected(), nil
}

// SetFolder re-files the note; nil means unfoldered.
func (r *PostgresNoteRepository) SetFolder(ctx context.Context, id int64, folderID *int64, now int64) error {
	return r.exec(ctx, id,
		`UPDATE notes SET folder_id = $1, updated_at = $2 WHERE id = $3`, folderID, now, id)
}

// SetColor assigns or clears the note color.
func (r *PostgresNoteRepository) SetColor(ctx context.Context, id int64, color *models.NoteColor, now int64) error {
	var colorName *string
	if color != nil {
		name := string(*color)
		colorName = &name
	}
	return r.exec(ctx, id,
		`UPDATE notes SET color = $1, updated_at = $2 WHERE id = $3`, colorName, now, id)
}

func (r *PostgresNoteRepository) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return count, nil
}

// CountActive counts active notes.
func (r *PostgresNoteRepository) CountActive(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM notes WHERE is_in_trash = FALSE AND is_archived = FALSE`)
}

// CountInFolder counts active notes in one folder.
func (r *PostgresNoteRepository) CountInFolder(ctx context.Context, folderID int64) (int, error) {
	return r.count(ctx,
		`SELECT COUNT(*) FROM notes WHERE folder_id = $1 AND is_in_trash = FALSE AND is_archived = FALSE`,
		folderID)
}

// CountsByFolder returns active-note counts for every folder in one pass.
func (r *PostgresNoteRepository) CountsByFolder(ctx context.Context) (map[int64]int, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, `
		SELECT folder_id, COUNT(*)
		FROM notes
		WHERE folder_id IS NOT NULL AND is_in_trash = FALSE AND is_archived = FALSE
		GROUP BY folder_id
	`)
	if err != nil {
		return nil, fmt.Errorf("count notes by folder: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var folderID int64
		var count int
		if err := rows.Scan(&folderID, &count); err != nil {
			return nil, fmt.Errorf("scan folder count: %w", err)
		}
		counts[folderID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folder counts: %w", err)
	}
	return counts, nil
}

// CountArchived counts archived, non-trashed notes.
func (r *PostgresNoteRepository) CountArchived(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM notes WHERE is_archived = TRUE AND is_in_trash = FALSE`)
}

// CountTrashed counts trashed notes.
func (r *PostgresNoteRepository) CountTrashed(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM notes WHERE is_in_trash = TRUE`)
}

// ListAll returns every note row for backup.
func (r *PostgresNoteRepository) ListAll(ctx context.Context) ([]models.Note, error) {
	query := fmt.Sprintf(`SELECT %s FROM notes ORDER BY id ASC`, noteColumns)
	return r.list(ctx, query)
}
