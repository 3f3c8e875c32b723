package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"model-catalog-service/internal/core/domain"
	ports "model-catalog-service/internal/core/ports/output"
)

// ModelStore persists models in a models table with a child artifacts
// table. Artifact rows cascade on model delete at the schema level, but the
// services still remove blobs first; the FK cascade only covers metadata.
type ModelStore struct {
	pool *pgxpool.Pool
}

func NewModelStore(pool *pgxpool.Pool) *ModelStore {
	return &ModelStore{pool: pool}
}

var _ ports.ModelStore = (*ModelStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS models (
	id UUID PRIMARY KEY,
	org_id UUID NOT NULL,
	name TEXT,
	revision TEXT,
	algorithm TEXT,
	creation_tool TEXT,
	description TEXT,
	added_by TEXT NOT NULL,
	added_on TIMESTAMPTZ NOT NULL,
	modified_by TEXT NOT NULL,
	modified_on TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS artifacts (
	id UUID PRIMARY KEY,
	model_id UUID NOT NULL REFERENCES models(id) ON DELETE CASCADE,
	filename TEXT NOT NULL,
	location TEXT NOT NULL,
	actions TEXT[] NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_models_org_id ON models(org_id);
CREATE INDEX IF NOT EXISTS idx_artifacts_model_id ON artifacts(model_id);
`

func (s *ModelStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// updateColumns maps canonical property names onto columns. Anything
// outside this map is rejected rather than interpolated.
var updateColumns = map[string]string{
	"name":         "name",
	"revision":     "revision",
	"algorithm":    "algorithm",
	"creationTool": "creation_tool",
	"description":  "description",
	"modifiedBy":   "modified_by",
	"modifiedOn":   "modified_on",
}

// propertyOrder keeps the generated SET clause deterministic.
var propertyOrder = []string{"name", "revision", "algorithm", "creationTool", "description", "modifiedBy", "modifiedOn"}

func (s *ModelStore) List(ctx context.Context, orgID uuid.UUID) ([]*domain.Model, error) {
	query := `
		SELECT id, org_id, COALESCE(name, ''), COALESCE(revision, ''),
			   COALESCE(algorithm, ''), COALESCE(creation_tool, ''),
			   COALESCE(description, ''), added_by, added_on, modified_by, modified_on
		FROM models
	`
	args := []any{}
	if orgID != uuid.Nil {
		query += ` WHERE org_id = $1`
		args = append(args, orgID)
	}
	query += ` ORDER BY added_on`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	models := []*domain.Model{}
	byID := map[uuid.UUID]*domain.Model{}
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("list models: %w", err)
		}
		models = append(models, m)
		byID[m.ID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	if len(models) == 0 {
		return models, nil
	}

	ids := make([]uuid.UUID, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID)
	}
	artifactRows, err := s.pool.Query(ctx,
		`SELECT model_id, id, filename, location, actions FROM artifacts WHERE model_id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer artifactRows.Close()
	for artifactRows.Next() {
		var modelID uuid.UUID
		a, err := scanArtifact(artifactRows, &modelID)
		if err != nil {
			return nil, fmt.Errorf("list artifacts: %w", err)
		}
		if m, ok := byID[modelID]; ok {
			m.Artifacts = append(m.Artifacts, *a)
		}
	}
	if err := artifactRows.Err(); err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	return models, nil
}

func (s *ModelStore) Get(ctx context.Context, id uuid.UUID) (*domain.Model, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, org_id, COALESCE(name, ''), COALESCE(revision, ''),
			   COALESCE(algorithm, ''), COALESCE(creation_tool, ''),
			   COALESCE(description, ''), added_by, added_on, modified_by, modified_on
		FROM models WHERE id = $1
	`, id)
	m, err := scanModel(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("get model: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT model_id, id, filename, location, actions FROM artifacts WHERE model_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get model artifacts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var modelID uuid.UUID
		a, err := scanArtifact(rows, &modelID)
		if err != nil {
			return nil, fmt.Errorf("get model artifacts: %w", err)
		}
		m.Artifacts = append(m.Artifacts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get model artifacts: %w", err)
	}
	return m, nil
}

func (s *ModelStore) Add(ctx context.Context, model *domain.Model) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO models
			(id, org_id, name, revision, algorithm, creation_tool, description,
			 added_by, added_on, modified_by, modified_on)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		model.ID, model.OrgID, model.Name, model.Revision, model.Algorithm,
		model.CreationTool, model.Description,
		model.AddedBy, model.AddedOn, model.ModifiedBy, model.ModifiedOn,
	)
	if err != nil {
		return fmt.Errorf("add model: %w", err)
	}
	return nil
}

func (s *ModelStore) Update(ctx context.Context, id uuid.UUID, props map[string]any) error {
	for name := range props {
		if _, known := updateColumns[name]; !known {
			return fmt.Errorf("unknown model property %q", name)
		}
	}
	assignments := make([]string, 0, len(props))
	args := []any{id}
	for _, name := range propertyOrder {
		value, ok := props[name]
		if !ok {
			continue
		}
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", updateColumns[name], len(args)))
	}
	if len(assignments) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE models SET %s WHERE id = $1`, strings.Join(assignments, ", "))
	result, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update model: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrModelNotFound
	}
	return nil
}

func (s *ModelStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM models WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrModelNotFound
	}
	return nil
}

func (s *ModelStore) AddArtifact(ctx context.Context, modelID uuid.UUID, artifact *domain.Artifact) error {
	actions := make([]string, 0, len(artifact.Actions))
	for _, a := range artifact.Actions {
		actions = append(actions, string(a))
	}
	result, err := s.pool.Exec(ctx, `
		INSERT INTO artifacts (id, model_id, filename, location, actions)
		SELECT $1, $2, $3, $4, $5 WHERE EXISTS (SELECT 1 FROM models WHERE id = $2)
	`, artifact.ID, modelID, artifact.Filename, artifact.Location, actions)
	if err != nil {
		return fmt.Errorf("add artifact: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrModelNotFound
	}
	return nil
}

func (s *ModelStore) RemoveArtifact(ctx context.Context, modelID, artifactID uuid.UUID) error {
	result, err := s.pool.Exec(ctx,
		`DELETE FROM artifacts WHERE id = $1 AND model_id = $2`, artifactID, modelID)
	if err != nil {
		return fmt.Errorf("delete artifact: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("no artifact record was removed")
	}
	return nil
}

func (s *ModelStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func scanModel(row pgx.Row) (*domain.Model, error) {
	m := &domain.Model{Artifacts: []domain.Artifact{}}
	err := row.Scan(
		&m.ID, &m.OrgID, &m.Name, &m.Revision, &m.Algorithm,
		&m.CreationTool, &m.Description,
		&m.AddedBy, &m.AddedOn, &m.ModifiedBy, &m.ModifiedOn,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func scanArtifact(row pgx.Row, modelID *uuid.UUID) (*domain.Artifact, error) {
	a := &domain.Artifact{}
	var actions []string
	if err := row.Scan(modelID, &a.ID, &a.Filename, &a.Location, &actions); err != nil {
		return nil, err
	}
	a.Actions = make([]domain.ArtifactAction, 0, len(actions))
	for _, s := range actions {
		a.Actions = append(a.Actions, domain.ArtifactAction(s))
	}
	return a, nil
}
