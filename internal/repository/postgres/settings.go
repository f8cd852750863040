package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/stream"
)

// PostgresSettingsRepository implements the SettingsRepository interface.
// Settings live in a single JSONB row so new preference keys need no
// schema change.
type PostgresSettingsRepository struct {
	pool     *pgxpool.Pool
	notifier *stream.Notifier
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(config *RepositoryConfig) repositories.SettingsRepository {
	return &PostgresSettingsRepository{pool: config.Pool, notifier: config.Notifier}
}

// Get returns the stored settings, or (nil, nil) when nothing was saved yet.
func (r *PostgresSettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	var data []byte
	err := GetExecutor(ctx, r.pool).QueryRow(ctx,
		`SELECT data FROM settings WHERE id = 1`).Scan(&data)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	var settings models.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &settings, nil
}

// Upsert stores the full settings snapshot.
func (r *PostgresSettingsRepository) Upsert(ctx context.Context, settings *models.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	_, err = GetExecutor(ctx, r.pool).Exec(ctx, `
		INSERT INTO settings (id, data)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data
	`, data)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}

	r.notifier.Broadcast()
	return nil
}
