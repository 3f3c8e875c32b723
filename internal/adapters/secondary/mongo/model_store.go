package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"model-catalog-service/internal/core/domain"
	ports "model-catalog-service/internal/core/ports/output"
)

const (
	modelsCollection      = "models"
	healthCheckCollection = "health_check"
)

// ModelStore persists models as single documents with an embedded artifacts
// array; artifact membership changes are single-document $addToSet/$pull
// operations, so they are atomic per model.
type ModelStore struct {
	db *mongo.Database
}

func NewModelStore(db *mongo.Database) *ModelStore {
	return &ModelStore{db: db}
}

var _ ports.ModelStore = (*ModelStore)(nil)

type artifactDoc struct {
	ID       string   `bson:"_id"`
	Filename string   `bson:"filename"`
	Location string   `bson:"location"`
	Actions  []string `bson:"actions"`
}

type modelDoc struct {
	ID           string        `bson:"_id"`
	Name         string        `bson:"name"`
	Revision     string        `bson:"revision"`
	Algorithm    string        `bson:"algorithm"`
	CreationTool string        `bson:"creationTool"`
	Description  string        `bson:"description"`
	OrgID        string        `bson:"orgId"`
	AddedBy      string        `bson:"addedBy"`
	AddedOn      time.Time     `bson:"addedOn"`
	ModifiedBy   string        `bson:"modifiedBy"`
	ModifiedOn   time.Time     `bson:"modifiedOn"`
	Artifacts    []artifactDoc `bson:"artifacts"`
}

func (s *ModelStore) models() *mongo.Collection {
	return s.db.Collection(modelsCollection)
}

func (s *ModelStore) List(ctx context.Context, orgID uuid.UUID) ([]*domain.Model, error) {
	filter := bson.M{}
	if orgID != uuid.Nil {
		filter["orgId"] = orgID.String()
	}
	cursor, err := s.models().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("unable to list models: %w", err)
	}
	var docs []modelDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("unable to list models: %w", err)
	}
	out := make([]*domain.Model, 0, len(docs))
	for i := range docs {
		m, err := toModel(&docs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *ModelStore) Get(ctx context.Context, id uuid.UUID) (*domain.Model, error) {
	var doc modelDoc
	err := s.models().FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("unable to retrieve model: %w", err)
	}
	return toModel(&doc)
}

func (s *ModelStore) Add(ctx context.Context, model *domain.Model) error {
	if _, err := s.models().InsertOne(ctx, toDoc(model)); err != nil {
		return fmt.Errorf("unable to add model: %w", err)
	}
	return nil
}

func (s *ModelStore) Update(ctx context.Context, id uuid.UUID, props map[string]any) error {
	// property names are the document field names, so the map is the $set
	result, err := s.models().UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{"$set": bson.M(props)})
	if err != nil {
		return fmt.Errorf("unable to update model: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrModelNotFound
	}
	return nil
}

func (s *ModelStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.models().DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("unable to delete model: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrModelNotFound
	}
	return nil
}

func (s *ModelStore) AddArtifact(ctx context.Context, modelID uuid.UUID, artifact *domain.Artifact) error {
	update := bson.M{"$addToSet": bson.M{"artifacts": toArtifactDoc(artifact)}}
	result, err := s.models().UpdateOne(ctx, bson.M{"_id": modelID.String()}, update)
	if err != nil {
		return fmt.Errorf("unable to add artifact: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrModelNotFound
	}
	return nil
}

func (s *ModelStore) RemoveArtifact(ctx context.Context, modelID, artifactID uuid.UUID) error {
	update := bson.M{"$pull": bson.M{"artifacts": bson.M{"_id": artifactID.String()}}}
	result, err := s.models().UpdateOne(ctx, bson.M{"_id": modelID.String()}, update)
	if err != nil {
		return fmt.Errorf("unable to delete artifact: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrModelNotFound
	}
	if result.ModifiedCount == 0 {
		return fmt.Errorf("no artifact record was removed")
	}
	return nil
}

// Ping proves the database accepts writes with a throwaway insert+delete.
func (s *ModelStore) Ping(ctx context.Context) error {
	coll := s.db.Collection(healthCheckCollection)
	id := uuid.New().String()
	if _, err := coll.InsertOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("health check insert: %w", err)
	}
	if _, err := coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("health check delete: %w", err)
	}
	return nil
}

func toDoc(m *domain.Model) *modelDoc {
	doc := &modelDoc{
		ID:           m.ID.String(),
		Name:         m.Name,
		Revision:     m.Revision,
		Algorithm:    m.Algorithm,
		CreationTool: m.CreationTool,
		Description:  m.Description,
		OrgID:        m.OrgID.String(),
		AddedBy:      m.AddedBy,
		AddedOn:      m.AddedOn,
		ModifiedBy:   m.ModifiedBy,
		ModifiedOn:   m.ModifiedOn,
		Artifacts:    make([]artifactDoc, 0, len(m.Artifacts)),
	}
	for i := range m.Artifacts {
		doc.Artifacts = append(doc.Artifacts, *toArtifactDoc(&m.Artifacts[i]))
	}
	return doc
}

func toArtifactDoc(a *domain.Artifact) *artifactDoc {
	actions := make([]string, 0, len(a.Actions))
	for _, action := range a.Actions {
		actions = append(actions, string(action))
	}
	return &artifactDoc{
		ID:       a.ID.String(),
		Filename: a.Filename,
		Location: a.Location,
		Actions:  actions,
	}
}

func toModel(doc *modelDoc) (*domain.Model, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("malformed model id %q: %w", doc.ID, err)
	}
	orgID, err := uuid.Parse(doc.OrgID)
	if err != nil {
		return nil, fmt.Errorf("malformed org id %q: %w", doc.OrgID, err)
	}
	model := &domain.Model{
		ID:           id,
		Name:         doc.Name,
		Revision:     doc.Revision,
		Algorithm:    doc.Algorithm,
		CreationTool: doc.CreationTool,
		Description:  doc.Description,
		OrgID:        orgID,
		AddedBy:      doc.AddedBy,
		AddedOn:      doc.AddedOn,
		ModifiedBy:   doc.ModifiedBy,
		ModifiedOn:   doc.ModifiedOn,
		Artifacts:    make([]domain.Artifact, 0, len(doc.Artifacts)),
	}
	for _, a := range doc.Artifacts {
		artifactID, err := uuid.Parse(a.ID)
		if err != nil {
			return nil, fmt.Errorf("malformed artifact id %q: %w", a.ID, err)
		}
		actions := make([]domain.ArtifactAction, 0, len(a.Actions))
		for _, s := range a.Actions {
			actions = append(actions, domain.ArtifactAction(s))
		}
		model.Artifacts = append(model.Artifacts, domain.Artifact{
			ID:       artifactID,
			Filename: a.Filename,
			Location: a.Location,
			Actions:  actions,
		})
	}
	return model, nil
}
