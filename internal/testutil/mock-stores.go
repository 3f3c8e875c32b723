package testutil

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"model-catalog-service/internal/core/domain"
)

// MockModelStore is a mock of ports.ModelStore.
type MockModelStore struct {
	mock.Mock
}

func (m *MockModelStore) List(ctx context.Context, orgID uuid.UUID) ([]*domain.Model, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Model), args.Error(1)
}

func (m *MockModelStore) Get(ctx context.Context, id uuid.UUID) (*domain.Model, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Model), args.Error(1)
}

func (m *MockModelStore) Add(ctx context.Context, model *domain.Model) error {
	args := m.Called(ctx, model)
	return args.Error(0)
}

func (m *MockModelStore) Update(ctx context.Context, id uuid.UUID, props map[string]any) error {
	args := m.Called(ctx, id, props)
	return args.Error(0)
}

func (m *MockModelStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockModelStore) AddArtifact(ctx context.Context, modelID uuid.UUID, artifact *domain.Artifact) error {
	args := m.Called(ctx, modelID, artifact)
	return args.Error(0)
}

func (m *MockModelStore) RemoveArtifact(ctx context.Context, modelID, artifactID uuid.UUID) error {
	args := m.Called(ctx, modelID, artifactID)
	return args.Error(0)
}

func (m *MockModelStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockFileStore is a mock of ports.FileStore.
type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Add(ctx context.Context, location string, data io.Reader) error {
	args := m.Called(ctx, location, data)
	return args.Error(0)
}

func (m *MockFileStore) Retrieve(ctx context.Context, location string) (io.ReadCloser, error) {
	args := m.Called(ctx, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockFileStore) Delete(ctx context.Context, location string) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}
