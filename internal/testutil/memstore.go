package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"model-catalog-service/internal/core/domain"
)

// MemModelStore is a map-backed ports.ModelStore for scenario tests that
// need real state transitions instead of canned mock returns.
type MemModelStore struct {
	mu     sync.Mutex
	models map[uuid.UUID]*domain.Model
}

func NewMemModelStore() *MemModelStore {
	return &MemModelStore{models: make(map[uuid.UUID]*domain.Model)}
}

func (s *MemModelStore) List(ctx context.Context, orgID uuid.UUID) ([]*domain.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*domain.Model{}
	for _, m := range s.models {
		if orgID == uuid.Nil || m.OrgID == orgID {
			c := cloneModel(m)
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *MemModelStore) Get(ctx context.Context, id uuid.UUID) (*domain.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.models[id]
	if !ok {
		return nil, domain.ErrModelNotFound
	}
	c := cloneModel(m)
	return &c, nil
}

func (s *MemModelStore) Add(ctx context.Context, model *domain.Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := cloneModel(model)
	s.models[model.ID] = &c
	return nil
}

func (s *MemModelStore) Update(ctx context.Context, id uuid.UUID, props map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.models[id]
	if !ok {
		return domain.ErrModelNotFound
	}
	setString := func(dst *string, v any) {
		if v == nil {
			*dst = ""
			return
		}
		*dst = v.(string)
	}
	for name, value := range props {
		switch name {
		case "name":
			setString(&m.Name, value)
		case "revision":
			setString(&m.Revision, value)
		case "algorithm":
			setString(&m.Algorithm, value)
		case "creationTool":
			setString(&m.CreationTool, value)
		case "description":
			setString(&m.Description, value)
		case "modifiedBy":
			setString(&m.ModifiedBy, value)
		case "modifiedOn":
			m.ModifiedOn = value.(time.Time)
		}
	}
	return nil
}

func (s *MemModelStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.models[id]; !ok {
		return domain.ErrModelNotFound
	}
	delete(s.models, id)
	return nil
}

func (s *MemModelStore) AddArtifact(ctx context.Context, modelID uuid.UUID, artifact *domain.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.models[modelID]
	if !ok {
		return domain.ErrModelNotFound
	}
	m.Artifacts = append(m.Artifacts, *artifact)
	return nil
}

func (s *MemModelStore) RemoveArtifact(ctx context.Context, modelID, artifactID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.models[modelID]
	if !ok {
		return domain.ErrModelNotFound
	}
	for i := range m.Artifacts {
		if m.Artifacts[i].ID == artifactID {
			m.Artifacts = append(m.Artifacts[:i], m.Artifacts[i+1:]...)
			return nil
		}
	}
	return domain.ErrArtifactNotFound
}

func (s *MemModelStore) Ping(ctx context.Context) error {
	return nil
}

func cloneModel(m *domain.Model) domain.Model {
	c := *m
	c.Artifacts = make([]domain.Artifact, len(m.Artifacts))
	copy(c.Artifacts, m.Artifacts)
	return c
}
