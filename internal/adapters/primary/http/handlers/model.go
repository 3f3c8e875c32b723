package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"model-catalog-service/internal/adapters/primary/http/dto"
	"model-catalog-service/internal/core/domain"
)

func (h *Handler) ListModels(c *gin.Context) {
	orgID := uuid.Nil
	if raw := c.Query("orgId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization id"})
			return
		}
		orgID = parsed
	}

	models, err := h.modelSvc.List(c.Request.Context(), orgID)
	if err != nil {
		log.WithError(err).Error("list models failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ModelDTO, 0, len(models))
	for _, m := range models {
		items = append(items, dto.ToModelDTO(m))
	}

	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetModel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("modelId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return
	}

	model, err := h.modelSvc.Retrieve(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelDTO(model))
}

func (h *Handler) AddModel(c *gin.Context) {
	orgID := uuid.Nil
	if raw := c.Query("orgId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization id"})
			return
		}
		orgID = parsed
	}

	var req dto.ModelModificationParams
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model, err := h.modelSvc.Add(c.Request.Context(), req.ToDomain(), orgID, actingUser(c))
	if err != nil {
		log.WithError(err).Error("add model failed")
		mapDomainError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("%s/%s", c.Request.URL.Path, model.ID))
	c.JSON(http.StatusCreated, dto.ToModelDTO(model))
}

func (h *Handler) UpdateModel(c *gin.Context) {
	h.modifyModel(c, h.modelSvc.Update)
}

func (h *Handler) PatchModel(c *gin.Context) {
	h.modifyModel(c, h.modelSvc.Patch)
}

func (h *Handler) modifyModel(c *gin.Context, apply func(ctx context.Context, id uuid.UUID, params domain.ModelParams, user string) (*domain.Model, error)) {
	id, err := uuid.Parse(c.Param("modelId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return
	}

	var req dto.ModelModificationParams
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model, err := apply(c.Request.Context(), id, req.ToDomain(), actingUser(c))
	if err != nil {
		log.WithError(err).Error("modify model failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelDTO(model))
}

func (h *Handler) DeleteModel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("modelId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return
	}

	model, err := h.modelSvc.Delete(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Error("delete model failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelDTO(model))
}
