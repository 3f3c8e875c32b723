package domain

import (
	"time"

	"github.com/google/uuid"
)

// Model is a catalog record describing a trained ML entity. The ID is
// assigned at creation and immutable; OrgID is set once and never updated.
type Model struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Revision     string     `json:"revision"`
	Algorithm    string     `json:"algorithm"`
	CreationTool string     `json:"creation_tool"`
	Description  string     `json:"description"`
	OrgID        uuid.UUID  `json:"org_id"`
	AddedBy      string     `json:"added_by"`
	AddedOn      time.Time  `json:"added_on"`
	ModifiedBy   string     `json:"modified_by"`
	ModifiedOn   time.Time  `json:"modified_on"`
	Artifacts    []Artifact `json:"artifacts"`
}

// ModelParams carries the modifiable fields of a Model. A nil field means
// "absent": left unchanged by a patch, cleared by an overwrite.
type ModelParams struct {
	Name         *string
	Revision     *string
	Algorithm    *string
	CreationTool *string
	Description  *string
}
