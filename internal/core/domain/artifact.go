package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ArtifactAction is an enumerated label describing an intended use of an
// artifact file.
type ArtifactAction string

const (
	ActionDownload                  ArtifactAction = "DOWNLOAD"
	ActionPublishToMarketplace      ArtifactAction = "PUBLISH_TO_MARKETPLACE"
	ActionPublishJarScoringEngine   ArtifactAction = "PUBLISH_JAR_SCORING_ENGINE"
	ActionPublishToTapScoringEngine ArtifactAction = "PUBLISH_TO_TAP_SCORING_ENGINE"
)

var knownActions = map[ArtifactAction]bool{
	ActionDownload:                  true,
	ActionPublishToMarketplace:      true,
	ActionPublishJarScoringEngine:   true,
	ActionPublishToTapScoringEngine: true,
}

// ParseArtifactAction validates a raw action tag.
func ParseArtifactAction(s string) (ArtifactAction, error) {
	a := ArtifactAction(s)
	if !knownActions[a] {
		return "", fmt.Errorf("%w: %q", ErrUnknownArtifactAction, s)
	}
	return a, nil
}

// ParseArtifactActions validates a set of raw tags, rejecting the first
// unknown one by name.
func ParseArtifactActions(raw []string) ([]ArtifactAction, error) {
	actions := make([]ArtifactAction, 0, len(raw))
	for _, s := range raw {
		a, err := ParseArtifactAction(s)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// Artifact is a binary file owned by exactly one Model. Location is a pure
// function of the parent model id and the artifact id, so re-deriving it is
// stable across retries.
type Artifact struct {
	ID       uuid.UUID        `json:"id"`
	Filename string           `json:"filename"`
	Location string           `json:"location"`
	Actions  []ArtifactAction `json:"actions"`
}

// ArtifactLocation derives the blob store location for an artifact. It must
// never depend on the filename or on time.
func ArtifactLocation(modelID, artifactID uuid.UUID) string {
	return fmt.Sprintf("/%s/%s", modelID, artifactID)
}
