package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"model-catalog-service/internal/core/domain"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrModelNotFound),
		errors.Is(err, domain.ErrArtifactNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// A patch carrying no fields changes nothing
	case errors.Is(err, domain.ErrNothingToUpdate):
		c.Status(http.StatusNotModified)

	// Bad request / validation errors
	case errors.Is(err, domain.ErrMissingModelName),
		errors.Is(err, domain.ErrMissingCreationTool),
		errors.Is(err, domain.ErrUnknownArtifactAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
