package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"model-catalog-service/internal/core/domain"
	ports "model-catalog-service/internal/core/ports/output"
)

// ModelService orchestrates the lifecycle of Model records. The acting user
// is always an explicit parameter; nothing is read from ambient state.
type ModelService struct {
	store ports.ModelStore
	files ports.FileStore
}

func NewModelService(store ports.ModelStore, files ports.FileStore) *ModelService {
	return &ModelService{store: store, files: files}
}

// List returns the models visible to orgID. uuid.Nil lists every model.
// An empty result is not an error.
func (s *ModelService) List(ctx context.Context, orgID uuid.UUID) ([]*domain.Model, error) {
	models, err := s.store.List(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModelListFailed, err)
	}
	return models, nil
}

func (s *ModelService) Retrieve(ctx context.Context, id uuid.UUID) (*domain.Model, error) {
	model, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrModelNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrModelRetrieveFailed, err)
	}
	return model, nil
}

// Add validates required fields, assigns a fresh identifier and audit
// stamps, and persists the new model.
func (s *ModelService) Add(ctx context.Context, params domain.ModelParams, orgID uuid.UUID, user string) (*domain.Model, error) {
	if err := checkRequiredFields(params); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	model := &domain.Model{
		ID:           uuid.New(),
		Name:         deref(params.Name),
		Revision:     deref(params.Revision),
		Algorithm:    deref(params.Algorithm),
		CreationTool: deref(params.CreationTool),
		Description:  deref(params.Description),
		OrgID:        orgID,
		AddedBy:      user,
		AddedOn:      now,
		ModifiedBy:   user,
		ModifiedOn:   now,
		Artifacts:    []domain.Artifact{},
	}
	if err := s.store.Add(ctx, model); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModelAddFailed, err)
	}
	return model, nil
}

// Update overwrites the model's modifiable fields: absent params clear
// their fields. Name and creationTool stay required.
func (s *ModelService) Update(ctx context.Context, id uuid.UUID, params domain.ModelParams, user string) (*domain.Model, error) {
	if err := checkRequiredFields(params); err != nil {
		return nil, err
	}
	return s.update(ctx, id, params, ModeOverwrite, user)
}

// Patch changes only the fields present in params. An all-absent params
// fails with ErrNothingToUpdate.
func (s *ModelService) Patch(ctx context.Context, id uuid.UUID, params domain.ModelParams, user string) (*domain.Model, error) {
	return s.update(ctx, id, params, ModePatch, user)
}

func (s *ModelService) update(ctx context.Context, id uuid.UUID, params domain.ModelParams, mode UpdateMode, user string) (*domain.Model, error) {
	// Existence strictly before diff computation; emptiness strictly before
	// audit stamping. Reordering either check changes the observable error.
	if _, err := s.Retrieve(ctx, id); err != nil {
		return nil, err
	}
	props := PropertiesToUpdate(params, mode)
	if len(props) == 0 {
		return nil, domain.ErrNothingToUpdate
	}
	props["modifiedBy"] = user
	props["modifiedOn"] = time.Now().UTC()

	if err := s.store.Update(ctx, id, props); err != nil {
		if errors.Is(err, domain.ErrModelNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrModelUpdateFailed, err)
	}
	// Return the persisted state, not the pre-update copy.
	return s.Retrieve(ctx, id)
}

// Delete removes the model and cascades to its artifacts: every child blob
// is deleted before the record goes away. Returns the model as it existed
// immediately before deletion.
func (s *ModelService) Delete(ctx context.Context, id uuid.UUID) (*domain.Model, error) {
	model, err := s.Retrieve(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, artifact := range model.Artifacts {
		if err := s.files.Delete(ctx, artifact.Location); err != nil {
			log.WithFields(log.Fields{
				"model_id":    id,
				"artifact_id": artifact.ID,
			}).WithError(err).Error("cascade blob delete failed")
			return nil, fmt.Errorf("%w: %v", domain.ErrModelDeleteFailed, err)
		}
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrModelNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrModelDeleteFailed, err)
	}
	return model, nil
}

func checkRequiredFields(params domain.ModelParams) error {
	if params.Name == nil || *params.Name == "" {
		return domain.ErrMissingModelName
	}
	if params.CreationTool == nil || *params.CreationTool == "" {
		return domain.ErrMissingCreationTool
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
