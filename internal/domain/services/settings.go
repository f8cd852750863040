package services

import (
	"context"

	"inkwell/internal/domain/models"
	"inkwell/internal/stream"
)

// SettingsService manages the user preference snapshot
type SettingsService interface {
	// Get returns the current settings, defaults when nothing was saved
	Get(ctx context.Context) (models.Settings, error)

	// Update applies fn to the current snapshot, normalizes the result
	// (font size clamped, enums backfilled), persists and returns it
	Update(ctx context.Context, fn func(models.Settings) models.Settings) (models.Settings, error)

	// Watch publishes the current snapshot and every later change until
	// ctx ends
	Watch(ctx context.Context) *stream.Stream[models.Settings]
}
