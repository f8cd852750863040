package repositories

import (
	"context"

	"inkwell/internal/domain/models"
)

// SettingsRepository persists the single preference snapshot.
type SettingsRepository interface {
	// Get returns the stored snapshot, or (nil, nil) when none has been
	// saved yet.
	Get(ctx context.Context) (*models.Settings, error)

	// Upsert stores the snapshot, replacing any previous one.
	Upsert(ctx context.Context, settings *models.Settings) error
}
