package ports

import (
	"context"
	"io"

	"github.com/google/uuid"

	"model-catalog-service/internal/core/domain"
)

// ModelStore persists model records and their artifact membership.
// Implementations map their driver-level "no such record" onto
// domain.ErrModelNotFound; every other driver error surfaces as-is so the
// services can classify it.
type ModelStore interface {
	List(ctx context.Context, orgID uuid.UUID) ([]*domain.Model, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Model, error)
	Add(ctx context.Context, model *domain.Model) error

	// Update applies a property map produced by the diff engine. Keys are
	// the canonical property names (name, revision, algorithm, creationTool,
	// description, modifiedBy, modifiedOn); a nil value clears the field.
	Update(ctx context.Context, id uuid.UUID, props map[string]any) error

	Delete(ctx context.Context, id uuid.UUID) error

	AddArtifact(ctx context.Context, modelID uuid.UUID, artifact *domain.Artifact) error
	RemoveArtifact(ctx context.Context, modelID, artifactID uuid.UUID) error

	// Ping proves the backing store is reachable, typically with a
	// throwaway write+delete.
	Ping(ctx context.Context) error
}

// FileStore persists opaque blobs keyed by a location string. Retrieve of a
// missing location fails loudly; Delete of a missing location is tolerated.
type FileStore interface {
	Add(ctx context.Context, location string, data io.Reader) error
	Retrieve(ctx context.Context, location string) (io.ReadCloser, error)
	Delete(ctx context.Context, location string) error
}
