package dto

import (
	"github.com/google/uuid"

	"model-catalog-service/internal/core/domain"
)

// ModelModificationParams is the request body shared by create, replace
// and patch. Absent fields stay nil so patch can tell "not sent" from
// "sent as empty".
type ModelModificationParams struct {
	Name         *string `json:"name"`
	Revision     *string `json:"revision"`
	Algorithm    *string `json:"algorithm"`
	CreationTool *string `json:"creationTool"`
	Description  *string `json:"description"`
}

func (p ModelModificationParams) ToDomain() domain.ModelParams {
	return domain.ModelParams{
		Name:         p.Name,
		Revision:     p.Revision,
		Algorithm:    p.Algorithm,
		CreationTool: p.CreationTool,
		Description:  p.Description,
	}
}

type ModelDTO struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Revision     string        `json:"revision"`
	Algorithm    string        `json:"algorithm"`
	CreationTool string        `json:"creationTool"`
	Description  string        `json:"description"`
	Artifacts    []ArtifactDTO `json:"artifacts"`
	AddedBy      string        `json:"addedBy"`
	AddedOn      string        `json:"addedOn"`
	ModifiedBy   string        `json:"modifiedBy"`
	ModifiedOn   string        `json:"modifiedOn"`
}

type ArtifactDTO struct {
	ID       uuid.UUID `json:"id"`
	Filename string    `json:"filename"`
	Location string    `json:"location"`
	Actions  []string  `json:"actions"`
}

func ToModelDTO(m *domain.Model) ModelDTO {
	artifacts := make([]ArtifactDTO, 0, len(m.Artifacts))
	for i := range m.Artifacts {
		artifacts = append(artifacts, ToArtifactDTO(&m.Artifacts[i]))
	}
	return ModelDTO{
		ID:           m.ID,
		Name:         m.Name,
		Revision:     m.Revision,
		Algorithm:    m.Algorithm,
		CreationTool: m.CreationTool,
		Description:  m.Description,
		Artifacts:    artifacts,
		AddedBy:      m.AddedBy,
		AddedOn:      FormatInstant(m.AddedOn),
		ModifiedBy:   m.ModifiedBy,
		ModifiedOn:   FormatInstant(m.ModifiedOn),
	}
}

func ToArtifactDTO(a *domain.Artifact) ArtifactDTO {
	actions := make([]string, 0, len(a.Actions))
	for _, action := range a.Actions {
		actions = append(actions, string(action))
	}
	return ArtifactDTO{
		ID:       a.ID,
		Filename: a.Filename,
		Location: a.Location,
		Actions:  actions,
	}
}
