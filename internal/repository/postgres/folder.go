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

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool     *pgxpool.Pool
	notifier *stream.Notifier
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{pool: config.Pool, notifier: config.Notifier}
}

const folderColumns = `id, name, parent_id, color, icon, sort_order, is_expanded, created_at, updated_at`

func scanFolder(row interface{ Scan(...interface{}) error }, f *models.Folder) error {
	return row.Scan(
		&f.ID,
		&f.Name,
		&f.ParentID,
		&f.Color,
		&f.Icon,
		&f.SortOrder,
		&f.IsExpanded,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
}

// Insert persists a folder. A non-zero id replaces any existing row with
// that id and keeps the id sequence ahead of it.
func (r *PostgresFolderRepository) Insert(ctx context.Context, folder *models.Folder) (int64, error) {
	executor := GetExecutor(ctx, r.pool)

	if folder.ID == 0 {
		query := `
			INSERT INTO folders (name, parent_id, color, icon, sort_order, is_expanded, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		`
		err := executor.QueryRow(ctx, query,
			folder.Name, folder.ParentID, folder.Color, folder.Icon,
			folder.SortOrder, folder.IsExpanded, folder.CreatedAt, folder.UpdatedAt,
		).Scan(&folder.ID)
		if err != nil {
			if isPgForeignKeyError(err) {
				return 0, fmt.Errorf("parent folder: %w", domain.ErrNotFound)
			}
			return 0, fmt.Errorf("insert folder: %w", err)
		}
	} else {
		query := `
			INSERT INTO folders (id, name, parent_id, color, icon, sort_order, is_expanded, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				parent_id = EXCLUDED.parent_id,
				color = EXCLUDED.color,
				icon = EXCLUDED.icon,
				sort_order = EXCLUDED.sort_order,
				is_expanded = EXCLUDED.is_expanded,
				created_at = EXCLUDED.created_at,
				updated_at = EXCLUDED.updated_at
		`
		if _, err := executor.Exec(ctx, query,
			folder.ID, folder.Name, folder.ParentID, folder.Color, folder.Icon,
			folder.SortOrder, folder.IsExpanded, folder.CreatedAt, folder.UpdatedAt,
		); err != nil {
			if isPgForeignKeyError(err) {
				return 0, fmt.Errorf("parent folder: %w", domain.ErrNotFound)
			}
			return 0, fmt.Errorf("insert folder: %w", err)
		}
		if _, err := executor.Exec(ctx,
			`SELECT setval(pg_get_serial_sequence('folders', 'id'), (SELECT MAX(id) FROM folders))`,
		); err != nil {
			return 0, fmt.Errorf("advance folder id sequence: %w", err)
		}
	}

	r.notifier.Broadcast()
	return folder.ID, nil
}

// Update rewrites the full folder row.
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := `
		UPDATE folders
		SET name = $1, parent_id = $2, color = $3, icon = $4, sort_order = $5, is_expanded = $6, updated_at = $7
		WHERE id = $8
	`
	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		folder.Name, folder.ParentID, folder.Color, folder.Icon,
		folder.SortOrder, folder.IsExpanded, folder.UpdatedAt, folder.ID,
	)
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %d: %w", folder.ID, domain.ErrNotFound)
	}

	r.notifier.Broadcast()
	return nil
}

// Delete removes a folder. Child folders cascade away and contained notes
// lose their folder reference; both rules live in the schema.
func (r *PostgresFolderRepository) Delete(ctx context.Context, id int64) error {
	result, err := GetExecutor(ctx, r.pool).Exec(ctx, `DELETE FROM folders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
	}

	r.notifier.Broadcast()
	return nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id int64) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM folders WHERE id = $1`, folderColumns)

	var folder models.Folder
	if err := scanFolder(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id), &folder); err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}
	return &folder, nil
}

func (r *PostgresFolderRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Folder, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		if err := scanFolder(rows, &folder); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}
	return folders, nil
}

// ListAll retrieves every folder in one snapshot, display-ordered.
func (r *PostgresFolderRepository) ListAll(ctx context.Context) ([]models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM folders ORDER BY sort_order ASC, name ASC`, folderColumns)
	return r.list(ctx, query)
}

// ListRoots retrieves folders without a parent.
func (r *PostgresFolderRepository) ListRoots(ctx context.Context) ([]models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM folders WHERE parent_id IS NULL ORDER BY sort_order ASC, name ASC`, folderColumns)
	return r.list(ctx, query)
}

// ListChildren retrieves the immediate children of a folder.
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentID int64) ([]models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM folders WHERE parent_id = $1 ORDER BY sort_order ASC, name ASC`, folderColumns)
	return r.list(ctx, query, parentID)
}

// Search retrieves folders whose name contains the query,
// case-insensitively.
func (r *PostgresFolderRepository) Search(ctx context.Context, query string) ([]models.Folder, error) {
	sql := fmt.Sprintf(`SELECT %s FROM folders WHERE name ILIKE '%%' || $1 || '%%' ESCAPE '\' ORDER BY name ASC`, folderColumns)
	return r.list(ctx, sql, escapeLike(query))
}

func (r *PostgresFolderRepository) exec(ctx context.Context, id int64, query string, args ...interface{}) error {
	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
	}
	r.notifier.Broadcast()
	return nil
}

// SetParent re-parents a folder; nil moves it to the root.
func (r *PostgresFolderRepository) SetParent(ctx context.Context, id int64, parentID *int64, now int64) error {
	return r.exec(ctx, id,
		`UPDATE folders SET parent_id = $1, updated_at = $2 WHERE id = $3`, parentID, now, id)
}

// SetExpanded persists the tree-expansion flag.
func (r *PostgresFolderRepository) SetExpanded(ctx context.Context, id int64, expanded bool, now int64) error {
	return r.exec(ctx, id,
		`UPDATE folders SET is_expanded = $1, updated_at = $2 WHERE id = $3`, expanded, now, id)
}

// SetSortOrder persists the manual ordering position.
func (r *PostgresFolderRepository) SetSortOrder(ctx context.Context, id int64, sortOrder int, now int64) error {
	return r.exec(ctx, id,
		`UPDATE folders SET sort_order = $1, updated_at = $2 WHERE id = $3`, sortOrder, now, id)
}

// NameExists reports whether another folder with this exact name exists
// under the same parent.
func (r *PostgresFolderRepository) NameExists(ctx context.Context, name string, parentID *int64, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM folders
			WHERE name = $1 AND parent_id IS NOT DISTINCT FROM $2 AND id != $3
		)
	`
	var exists bool
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, name, parentID, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("folder name exists: %w", err)
	}
	return exists, nil
}

// Count returns the total number of folders.
func (r *PostgresFolderRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM folders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count folders: %w", err)
	}
	return count, nil
}

// CountChildren returns the number of immediate children.
func (r *PostgresFolderRepository) CountChildren(ctx context.Context, parentID int64) (int, error) {
	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM folders WHERE parent_id = $1`, parentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count child folders: %w", err)
	}
	return count, nil
}
