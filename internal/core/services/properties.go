package services

import "model-catalog-service/internal/core/domain"

// UpdateMode selects null-field handling for a property diff.
type UpdateMode int

const (
	// ModePatch omits absent fields: absence means "leave unchanged".
	ModePatch UpdateMode = iota
	// ModeOverwrite includes every declared field; an absent value is an
	// explicit instruction to clear it.
	ModeOverwrite
)

// PropertiesToUpdate computes the exact property set a store write must
// change. The identifier never appears in the output. An empty result means
// nothing to update; callers must check that before stamping audit fields.
func PropertiesToUpdate(params domain.ModelParams, mode UpdateMode) map[string]any {
	props := make(map[string]any)
	put := func(name string, value *string) {
		switch {
		case value != nil:
			props[name] = *value
		case mode == ModeOverwrite:
			props[name] = nil
		}
	}
	put("name", params.Name)
	put("revision", params.Revision)
	put("algorithm", params.Algorithm)
	put("creationTool", params.CreationTool)
	put("description", params.Description)
	return props
}
