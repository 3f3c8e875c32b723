package domain

import "errors"

// ============================================================================
// Model Catalog Errors
// ============================================================================

// Not found errors
var (
	ErrModelNotFound    = errors.New("model with given ID not found")
	ErrArtifactNotFound = errors.New("artifact with given ID not found")
)

// Validation errors
var (
	ErrMissingModelName      = errors.New("non-empty value is required for model name field")
	ErrMissingCreationTool   = errors.New("non-empty value is required for model creationTool field")
	ErrUnknownArtifactAction = errors.New("unknown artifact action")
)

// Update semantics
var ErrNothingToUpdate = errors.New("model update failed (nothing to update)")

// Operation failures; these wrap the store-level cause so it never leaks
// past the core boundary unclassified.
var (
	ErrModelListFailed     = errors.New("model list failed")
	ErrModelRetrieveFailed = errors.New("model retrieve failed")
	ErrModelAddFailed      = errors.New("model add failed")
	ErrModelUpdateFailed   = errors.New("model update failed")
	ErrModelDeleteFailed   = errors.New("model delete failed")

	ErrArtifactAddFailed          = errors.New("artifact add failed")
	ErrArtifactFileRetrieveFailed = errors.New("artifact file retrieve failed")
	ErrArtifactDeleteFailed       = errors.New("artifact delete failed")
)
