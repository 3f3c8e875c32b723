package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	ports "model-catalog-service/internal/core/ports/output"
)

const healthProbeText = "model catalog health probe"

// HealthService proves both backing stores accept writes by performing a
// throwaway write+delete against each.
type HealthService struct {
	store ports.ModelStore
	files ports.FileStore
}

func NewHealthService(store ports.ModelStore, files ports.FileStore) *HealthService {
	return &HealthService{store: store, files: files}
}

func (s *HealthService) Check(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("model store unhealthy: %w", err)
	}
	location := fmt.Sprintf("health-check-%s", uuid.New())
	if err := s.files.Add(ctx, location, strings.NewReader(healthProbeText)); err != nil {
		return fmt.Errorf("file store unhealthy: %w", err)
	}
	if err := s.files.Delete(ctx, location); err != nil {
		return fmt.Errorf("file store unhealthy: %w", err)
	}
	return nil
}
