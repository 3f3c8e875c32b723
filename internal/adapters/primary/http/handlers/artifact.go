package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"model-catalog-service/internal/adapters/primary/http/dto"
)

const (
	formKeyArtifactFile    = "artifactFile"
	formKeyArtifactActions = "artifactActions"
)

func (h *Handler) AddArtifact(c *gin.Context) {
	modelID, err := uuid.Parse(c.Param("modelId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return
	}

	fileHeader, err := c.FormFile(formKeyArtifactFile)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing artifact file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable artifact file"})
		return
	}
	defer file.Close()

	actions := c.PostFormArray(formKeyArtifactActions)

	artifact, err := h.artifactSvc.Add(c.Request.Context(), modelID, actions, file, fileHeader.Filename)
	if err != nil {
		log.WithError(err).Error("add artifact failed")
		mapDomainError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("%s/%s", c.Request.URL.Path, artifact.ID))
	c.JSON(http.StatusCreated, dto.ToArtifactDTO(artifact))
}

func (h *Handler) GetArtifact(c *gin.Context) {
	modelID, artifactID, ok := artifactIDs(c)
	if !ok {
		return
	}

	artifact, err := h.artifactSvc.Retrieve(c.Request.Context(), modelID, artifactID)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToArtifactDTO(artifact))
}

func (h *Handler) GetArtifactFile(c *gin.Context) {
	modelID, artifactID, ok := artifactIDs(c)
	if !ok {
		return
	}

	content, artifact, err := h.artifactSvc.RetrieveContent(c.Request.Context(), modelID, artifactID)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	defer content.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, content); err != nil {
		log.WithError(err).Warn("artifact download interrupted")
	}
}

func (h *Handler) DeleteArtifact(c *gin.Context) {
	modelID, artifactID, ok := artifactIDs(c)
	if !ok {
		return
	}

	artifact, err := h.artifactSvc.Delete(c.Request.Context(), modelID, artifactID)
	if err != nil {
		log.WithError(err).Error("delete artifact failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToArtifactDTO(artifact))
}

func artifactIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	modelID, err := uuid.Parse(c.Param("modelId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return uuid.Nil, uuid.Nil, false
	}
	artifactID, err := uuid.Parse(c.Param("artifactId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid artifact id"})
		return uuid.Nil, uuid.Nil, false
	}
	return modelID, artifactID, true
}
