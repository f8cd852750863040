package service

import (
	"context"
	"log/slog"

	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/domain/services"
	"inkwell/internal/stream"
)

type settingsService struct {
	engine repositories.Engine
	logger *slog.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(engine repositories.Engine, logger *slog.Logger) services.SettingsService {
	return &settingsService{engine: engine, logger: logger}
}

// Get returns the current settings, defaults when nothing was saved.
func (s *settingsService) Get(ctx context.Context) (models.Settings, error) {
	stored, err := s.engine.Settings().Get(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	if stored == nil {
		return models.DefaultSettings(), nil
	}
	return stored.Normalized(), nil
}

// Update applies fn to the current snapshot, normalizes and persists it.
func (s *settingsService) Update(ctx context.Context, fn func(models.Settings) models.Settings) (models.Settings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return models.Settings{}, err
	}

	updated := fn(current).Normalized()
	if err := s.engine.Settings().Upsert(ctx, &updated); err != nil {
		return models.Settings{}, err
	}

	s.logger.Info("settings updated",
		"theme", updated.ThemeMode,
		"view", updated.ViewMode,
		"sort_by", updated.SortBy,
	)
	return updated, nil
}

// Watch publishes the current snapshot and every later change.
func (s *settingsService) Watch(ctx context.Context) *stream.Stream[models.Settings] {
	return watch(ctx, s.engine.Changes(), s.logger, s.Get)
}
