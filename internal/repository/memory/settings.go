package memory

import (
	"context"

	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

type memorySettingsRepository struct {
	s *store
}

func newSettingsRepository(s *store) repositories.SettingsRepository {
	return &memorySettingsRepository{s: s}
}

func (r *memorySettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if r.s.settings == nil {
		return nil, nil
	}
	settings := *r.s.settings
	return &settings, nil
}

func (r *memorySettingsRepository) Upsert(ctx context.Context, settings *models.Settings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *settings
	r.s.settings = &stored

	r.s.notifier.Broadcast()
	return nil
}
