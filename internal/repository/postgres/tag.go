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

// PostgresTagRepository implements the TagRepository interface
type PostgresTagRepository struct {
	pool     *pgxpool.Pool
	notifier *stream.Notifier
}

// NewTagRepository creates a new tag repository
func NewTagRepository(config *RepositoryConfig) repositories.TagRepository {
	return &PostgresTagRepository{pool: config.Pool, notifier: config.Notifier}
}

const tagColumns = `id, name, color, created_at`

func scanTag(row interface{ Scan(...interface{}) error }, t *models.Tag) error {
	return row.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt)
}

// Insert persists a tag. A non-zero id replaces any existing row with that id.
func (r *PostgresTagRepository) Insert(ctx context.Context, tag *models.Tag) (int64, error) {
	executor := GetExecutor(ctx, r.pool)

	if tag.ID == 0 {
		query := `INSERT INTO tags (name, color, created_at) VALUES ($1, $2, $3) RETURNING id`
		if err := executor.QueryRow(ctx, query, tag.Name, tag.Color, tag.CreatedAt).Scan(&tag.ID); err != nil {
			if isPgDuplicateError(err) {
				return 0, fmt.Errorf("tag name %q: %w", tag.Name, domain.ErrConflict)
			}
			return 0, fmt.Errorf("insert tag: %w", err)
		}
	} else {
		query := `
			INSERT INTO tags (id, name, color, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				color = EXCLUDED.color,
				created_at = EXCLUDED.created_at
		`
		if _, err := executor.Exec(ctx, query, tag.ID, tag.Name, tag.Color, tag.CreatedAt); err != nil {
			if isPgDuplicateError(err) {
				return 0, fmt.Errorf("tag name %q: %w", tag.Name, domain.ErrConflict)
			}
			return 0, fmt.Errorf("insert tag: %w", err)
		}
		if _, err := executor.Exec(ctx,
			`SELECT setval(pg_get_serial_sequence('tags', 'id'), (SELECT MAX(id) FROM tags))`,
		); err != nil {
			return 0, fmt.Errorf("advance tag id sequence: %w", err)
		}
	}

	r.notifier.Broadcast()
	return tag.ID, nil
}

// Update rewrites the tag row.
func (r *PostgresTagRepository) Update(ctx context.Context, tag *models.Tag) error {
	result, err := GetExecutor(ctx, r.pool).Exec(ctx,
		`UPDATE tags SET name = $1, color = $2 WHERE id = $3`, tag.Name, tag.Color, tag.ID)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("tag name %q: %w", tag.Name, domain.ErrConflict)
		}
		return fmt.Errorf("update tag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("tag %d: %w", tag.ID, domain.ErrNotFound)
	}

	r.notifier.Broadcast()
	return nil
}

// Delete removes a tag; note links go with it via the FK cascade.
func (r *PostgresTagRepository) Delete(ctx context.Context, id int64) error {
	result, err := GetExecutor(ctx, r.pool).Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("tag %d: %w", id, domain.ErrNotFound)
	}

	r.notifier.Broadcast()
	return nil
}

// GetByID retrieves a tag by ID
func (r *PostgresTagRepository) GetByID(ctx context.Context, id int64) (*models.Tag, error) {
	query := fmt.Sprintf(`SELECT %s FROM tags WHERE id = $1`, tagColumns)

	var tag models.Tag
	if err := scanTag(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id), &tag); err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("tag %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return &tag, nil
}

// GetByName retrieves a tag by exact, case-sensitive name.
func (r *PostgresTagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	query := fmt.Sprintf(`SELECT %s FROM tags WHERE name = $1`, tagColumns)

	var tag models.Tag
	if err := scanTag(GetExecutor(ctx, r.pool).QueryRow(ctx, query, name), &tag); err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("tag %q: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return &tag, nil
}

func (r *PostgresTagRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Tag, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var tag models.Tag
		if err := scanTag(rows, &tag); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	return tags, nil
}

// ListAll returns all tags ordered by name.
func (r *PostgresTagRepository) ListAll(ctx context.Context) ([]models.Tag, error) {
	return r.list(ctx, fmt.Sprintf(`SELECT %s FROM tags ORDER BY name ASC`, tagColumns))
}

// Search returns tags whose name contains the query, case-insensitively.
func (r *PostgresTagRepository) Search(ctx context.Context, query string) ([]models.Tag, error) {
	sql := fmt.Sprintf(
		`SELECT %s FROM tags WHERE name ILIKE '%%' || $1 || '%%' ESCAPE '\' ORDER BY name ASC`, tagColumns)
	return r.list(ctx, sql, escapeLike(query))
}

// NameExists reports whether another tag already uses the exact name.
func (r *PostgresTagRepository) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var exists bool
	err := GetExecutor(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM tags WHERE name = $1 AND id != $2)`, name, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check tag name: %w", err)
	}
	return exists, nil
}

// AddLink attaches a tag to a note. An existing link is a no-op.
func (r *PostgresTagRepository) AddLink(ctx context.Context, noteID, tagID int64) error {
	result, err := GetExecutor(ctx, r.pool).Exec(ctx, `
		INSERT INTO note_tags (note_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT (note_id, tag_id) DO NOTHING
	`, noteID, tagID)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("note %d or tag %d: %w", noteID, tagID, domain.ErrNotFound)
		}
		return fmt.Errorf("link tag: %w", err)
	}
	if result.RowsAffected() > 0 {
		r.notifier.Broadcast()
	}
	return nil
}

// RemoveLink detaches a tag from a note.
func (r *PostgresTagRepository) RemoveLink(ctx context.Context, noteID, tagID int64) error {
	result, err := GetExecutor(ctx, r.pool).Exec(ctx,
		`DELETE FROM note_tags WHERE note_id = $1 AND tag_id = $2`, noteID, tagID)
	if err != nil {
		return fmt.Errorf("unlink tag: %w", err)
	}
	if result.RowsAffected() > 0 {
		r.notifier.Broadcast()
	}
	return nil
}

// RemoveLinksForNote detaches every tag from a note.
func (r *PostgresTagRepository) RemoveLinksForNote(ctx context.Context, noteID int64) error {
	result, err := GetExecutor(ctx, r.pool).Exec(ctx,
		`DELETE FROM note_tags WHERE note_id = $1`, noteID)
	if err != nil {
		return fmt.Errorf("unlink note tags: %w", err)
	}
	if result.RowsAffected() > 0 {
		r.notifier.Broadcast()
	}
	return nil
}

// ListTagsForNote returns the tags attached to one note, ordered by name.
func (r *PostgresTagRepository) ListTagsForNote(ctx context.Context, noteID int64) ([]models.Tag, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM tags t
		JOIN note_tags nt ON nt.tag_id = t.id
		WHERE nt.note_id = $1
		ORDER BY t.name ASC
	`, tagColumnsQualified)
	return r.list(ctx, query, noteID)
}

const tagColumnsQualified = `t.id, t.name, t.color, t.created_at`

// CountNotesForTag counts the notes a tag is attached to.
func (r *PostgresTagRepository) CountNotesForTag(ctx context.Context, tagID int64) (int, error) {
	var count int
	err := GetExecutor(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM note_tags WHERE tag_id = $1`, tagID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count tag notes: %w", err)
	}
	return count, nil
}

// Count counts all tags.
func (r *PostgresTagRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM tags`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tags: %w", err)
	}
	return count, nil
}
