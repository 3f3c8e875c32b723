package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"model-catalog-service/internal/core/domain"
	ports "model-catalog-service/internal/core/ports/output"
)

// ArtifactService coordinates artifact metadata (in the model store) and
// artifact content (in the file store). The two stores are not
// transactional; the write order below bounds the damage of a partial
// failure.
type ArtifactService struct {
	store ports.ModelStore
	files ports.FileStore
}

func NewArtifactService(store ports.ModelStore, files ports.FileStore) *ArtifactService {
	return &ArtifactService{store: store, files: files}
}

// Add stores the blob first and registers metadata second. A registered but
// blobless artifact would be reported by list/retrieve yet unreadable, so an
// orphan blob is the preferred failure mode.
func (s *ArtifactService) Add(ctx context.Context, modelID uuid.UUID, rawActions []string, content io.Reader, filename string) (*domain.Artifact, error) {
	if _, err := s.retrieveModel(ctx, modelID); err != nil {
		return nil, err
	}
	actions, err := domain.ParseArtifactActions(rawActions)
	if err != nil {
		return nil, err
	}

	artifactID := uuid.New()
	artifact := &domain.Artifact{
		ID:       artifactID,
		Filename: filename,
		Location: domain.ArtifactLocation(modelID, artifactID),
		Actions:  actions,
	}

	if err := s.files.Add(ctx, artifact.Location, content); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrArtifactAddFailed, err)
	}
	if err := s.store.AddArtifact(ctx, modelID, artifact); err != nil {
		log.WithFields(log.Fields{
			"model_id": modelID,
			"location": artifact.Location,
		}).WithError(err).Warn("artifact registration failed after blob write; blob is orphaned")
		return nil, fmt.Errorf("%w: %v", domain.ErrArtifactAddFailed, err)
	}
	return artifact, nil
}

// Retrieve finds an artifact in its parent model's artifact set. A missing
// parent propagates ErrModelNotFound, distinct from ErrArtifactNotFound.
func (s *ArtifactService) Retrieve(ctx context.Context, modelID, artifactID uuid.UUID) (*domain.Artifact, error) {
	model, err := s.retrieveModel(ctx, modelID)
	if err != nil {
		return nil, err
	}
	for i := range model.Artifacts {
		if model.Artifacts[i].ID == artifactID {
			return &model.Artifacts[i], nil
		}
	}
	return nil, domain.ErrArtifactNotFound
}

// RetrieveContent resolves the artifact and streams its blob. A missing blob
// should be impossible under the add-before-register order but the stores
// are not transactional, so it is handled rather than assumed away.
func (s *ArtifactService) RetrieveContent(ctx context.Context, modelID, artifactID uuid.UUID) (io.ReadCloser, *domain.Artifact, error) {
	artifact, err := s.Retrieve(ctx, modelID, artifactID)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.files.Retrieve(ctx, artifact.Location)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrArtifactFileRetrieveFailed, err)
	}
	return data, artifact, nil
}

// Delete removes the blob first and the metadata reference second. Leaving
// an intact metadata+blob pair beats leaving dangling metadata, so a blob
// delete failure aborts before metadata is touched.
func (s *ArtifactService) Delete(ctx context.Context, modelID, artifactID uuid.UUID) (*domain.Artifact, error) {
	artifact, err := s.Retrieve(ctx, modelID, artifactID)
	if err != nil {
		return nil, err
	}
	if err := s.files.Delete(ctx, artifact.Location); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrArtifactDeleteFailed, err)
	}
	if err := s.store.RemoveArtifact(ctx, modelID, artifactID); err != nil {
		log.WithFields(log.Fields{
			"model_id":    modelID,
			"artifact_id": artifactID,
		}).WithError(err).Warn("artifact record removal failed after blob delete; model references a missing artifact")
		return nil, fmt.Errorf("%w: %v", domain.ErrArtifactDeleteFailed, err)
	}
	return artifact, nil
}

func (s *ArtifactService) retrieveModel(ctx context.Context, modelID uuid.UUID) (*domain.Model, error) {
	model, err := s.store.Get(ctx, modelID)
	if err != nil {
		if errors.Is(err, domain.ErrModelNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrModelRetrieveFailed, err)
	}
	return model, nil
}
