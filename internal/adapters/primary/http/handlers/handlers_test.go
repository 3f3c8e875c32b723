package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"model-catalog-service/internal/adapters/primary/http/dto"
	"model-catalog-service/internal/adapters/secondary/filestore"
	"model-catalog-service/internal/core/services"
	"model-catalog-service/internal/testutil"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := testutil.NewMemModelStore()
	files := filestore.NewMemory()

	h := New(
		services.NewModelService(store, files),
		services.NewArtifactService(store, files),
		services.NewHealthService(store, files),
	)

	router := gin.New()
	h.RegisterRoutes(router.Group("/api/v1"))
	router.GET("/healthz", h.Healthz)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func addModel(t *testing.T, router *gin.Engine, name string) dto.ModelDTO {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/models", gin.H{
		"name":         name,
		"creationTool": "sparkml",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var out dto.ModelDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func uploadArtifact(t *testing.T, router *gin.Engine, modelID uuid.UUID, filename, content string, actions ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(formKeyArtifactFile, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	for _, a := range actions {
		require.NoError(t, w.WriteField(formKeyArtifactActions, a))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/models/%s/artifacts", modelID), &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAddModel(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/models", gin.H{
		"name":         "fraud-detector",
		"creationTool": "sparkml",
		"description":  "flags suspicious transfers",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var out dto.ModelDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "fraud-detector", out.Name)
	assert.Equal(t, "sparkml", out.CreationTool)
	assert.Equal(t, "anonymous", out.AddedBy)
	assert.Equal(t, out.AddedOn, out.ModifiedOn)
	assert.NotNil(t, out.Artifacts)
	assert.Empty(t, out.Artifacts)
	assert.Equal(t, "/api/v1/models/"+out.ID.String(), rec.Header().Get("Location"))
}

func TestAddModel_StampsHeaderUser(t *testing.T) {
	router := newTestRouter(t)

	raw, _ := json.Marshal(gin.H{"name": "m", "creationTool": "h2o"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/models", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Username", "alice")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var out dto.ModelDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "alice", out.AddedBy)
	assert.Equal(t, "alice", out.ModifiedBy)
}

func TestAddModel_MissingName(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/models", gin.H{"creationTool": "sparkml"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name")
}

func TestAddModel_InvalidOrgID(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/models?orgId=not-a-uuid", gin.H{
		"name": "m", "creationTool": "h2o",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetModel(t *testing.T) {
	router := newTestRouter(t)
	created := addModel(t, router, "fraud-detector")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/models/"+created.ID.String(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var out dto.ModelDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, created.ID, out.ID)
	assert.Equal(t, "fraud-detector", out.Name)
}

func TestGetModel_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/models/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetModel_InvalidID(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/models/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListModels(t *testing.T) {
	router := newTestRouter(t)
	addModel(t, router, "first")
	addModel(t, router, "second")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/models", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var out []dto.ModelDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out, 2)
}

func TestListModels_EmptyIsArray(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/models", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestPatchModel(t *testing.T) {
	router := newTestRouter(t)
	created := addModel(t, router, "fraud-detector")

	rec := doJSON(t, router, http.MethodPatch, "/api/v1/models/"+created.ID.String(), gin.H{
		"description": "now with gradient boosting",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var out dto.ModelDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "now with gradient boosting", out.Description)
	assert.Equal(t, "fraud-detector", out.Name)
}

func TestPatchModel_EmptyBodyNotModified(t *testing.T) {
	router := newTestRouter(t)
	created := addModel(t, router, "fraud-detector")

	rec := doJSON(t, router, http.MethodPatch, "/api/v1/models/"+created.ID.String(), gin.H{})

	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestPatchModel_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPatch, "/api/v1/models/"+uuid.NewString(), gin.H{
		"description": "d",
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateModel_ClearsOmittedFields(t *testing.T) {
	router := newTestRouter(t)
	created := addModel(t, router, "fraud-detector")

	rec := doJSON(t, router, http.MethodPut, "/api/v1/models/"+created.ID.String(), gin.H{
		"name":         "fraud-detector",
		"creationTool": "h2o",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var out dto.ModelDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "h2o", out.CreationTool)
	assert.Empty(t, out.Description)
}

func TestUpdateModel_MissingRequiredFields(t *testing.T) {
	router := newTestRouter(t)
	created := addModel(t, router, "fraud-detector")

	rec := doJSON(t, router, http.MethodPut, "/api/v1/models/"+created.ID.String(), gin.H{
		"description": "d",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteModel(t *testing.T) {
	router := newTestRouter(t)
	created := addModel(t, router, "fraud-detector")

	rec := doJSON(t, router, http.MethodDelete, "/api/v1/models/"+created.ID.String(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var out dto.ModelDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, created.ID, out.ID)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/models/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteModel_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodDelete, "/api/v1/models/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddArtifact(t *testing.T) {
	router := newTestRouter(t)
	created := addModel(t, router, "fraud-detector")

	rec := uploadArtifact(t, router, created.ID, "model.bin", "weights", "DOWNLOAD")

	require.Equal(t, http.StatusCreated, rec.Code)
	var out dto.ArtifactDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "model.bin", out.Filename)
	assert.Equal(t, []string{"DOWNLOAD"}, out.Actions)
	assert.Equal(t, fmt.Sprintf("/%s/%s", created.ID, out.ID), out.Location)
	assert.Contains(t, rec.Header().Get("Location"), out.ID.String())
}

func TestAddArtifact_MissingFile(t *testing.T) {
	router := newTestRouter(t)
	created := addModel(t, router, "fraud-detector")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField(formKeyArtifactActions, "DOWNLOAD"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/models/%s/artifacts", created.ID), &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing artifact file")
}

func TestAddArtifact_UnknownAction(t *testing.T) {
	router := newTestRouter(t)
	created := addModel(t, router, "fraud-detector")

	rec := uploadArtifact(t, router, created.ID, "model.bin", "weights", "FROBNICATE")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "FROBNICATE")
}

func TestAddArtifact_ModelNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := uploadArtifact(t, router, uuid.New(), "model.bin", "weights", "DOWNLOAD")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetArtifactFile(t *testing.T) {
	router := newTestRouter(t)
	created := addModel(t, router, "fraud-detector")

	rec := uploadArtifact(t, router, created.ID, "model.bin", "serialized weights", "DOWNLOAD")
	require.Equal(t, http.StatusCreated, rec.Code)
	var artifact dto.ArtifactDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &artifact))

	path := fmt.Sprintf("/api/v1/models/%s/artifacts/%s/file", created.ID, artifact.ID)
	rec = doJSON(t, router, http.MethodGet, path, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "serialized weights", rec.Body.String())
	assert.Equal(t, `attachment; filename="model.bin"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
}

func TestGetArtifact_NotFound(t *testing.T) {
	router := newTestRouter(t)
	created := addModel(t, router, "fraud-detector")

	path := fmt.Sprintf("/api/v1/models/%s/artifacts/%s", created.ID, uuid.New())
	rec := doJSON(t, router, http.MethodGet, path, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteArtifact(t *testing.T) {
	router := newTestRouter(t)
	created := addModel(t, router, "fraud-detector")

	rec := uploadArtifact(t, router, created.ID, "model.bin", "weights", "DOWNLOAD")
	require.Equal(t, http.StatusCreated, rec.Code)
	var artifact dto.ArtifactDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &artifact))

	path := fmt.Sprintf("/api/v1/models/%s/artifacts/%s", created.ID, artifact.ID)
	rec = doJSON(t, router, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestHealthz_StoreDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := new(testutil.MockModelStore)
	files := filestore.NewMemory()
	store.On("Ping", mock.Anything).Return(errors.New("connection refused"))

	h := New(
		services.NewModelService(store, files),
		services.NewArtifactService(store, files),
		services.NewHealthService(store, files),
	)
	router := gin.New()
	router.GET("/healthz", h.Healthz)

	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "unhealthy")
}

func TestHealthz_FileStoreDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := testutil.NewMemModelStore()
	files := new(testutil.MockFileStore)
	files.On("Add", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))

	h := New(
		services.NewModelService(store, files),
		services.NewArtifactService(store, files),
		services.NewHealthService(store, files),
	)
	router := gin.New()
	router.GET("/healthz", h.Healthz)

	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "unhealthy")
}
