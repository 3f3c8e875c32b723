package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"model-catalog-service/internal/core/services"
)

type Handler struct {
	modelSvc    *services.ModelService
	artifactSvc *services.ArtifactService
	healthSvc   *services.HealthService
}

func New(
	modelSvc *services.ModelService,
	artifactSvc *services.ArtifactService,
	healthSvc *services.HealthService,
) *Handler {
	return &Handler{
		modelSvc:    modelSvc,
		artifactSvc: artifactSvc,
		healthSvc:   healthSvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Models
	r.GET("/models", h.ListModels)
	r.POST("/models", h.AddModel)
	r.GET("/models/:modelId", h.GetModel)
	r.PUT("/models/:modelId", h.UpdateModel)
	r.PATCH("/models/:modelId", h.PatchModel)
	r.DELETE("/models/:modelId", h.DeleteModel)

	// Artifacts (nested under model)
	r.POST("/models/:modelId/artifacts", h.AddArtifact)
	r.GET("/models/:modelId/artifacts/:artifactId", h.GetArtifact)
	r.GET("/models/:modelId/artifacts/:artifactId/file", h.GetArtifactFile)
	r.DELETE("/models/:modelId/artifacts/:artifactId", h.DeleteArtifact)
}

func (h *Handler) Healthz(c *gin.Context) {
	if err := h.healthSvc.Check(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// actingUser resolves the caller identity stamped onto audit fields.
// Anonymous access is permitted; authentication sits in front of this
// service.
func actingUser(c *gin.Context) string {
	if user := c.GetHeader("X-Username"); user != "" {
		return user
	}
	return "anonymous"
}
