// Package client provides a typed HTTP client for the model catalog
// service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Errors surfaced from catalog responses. Inspect with errors.Is; the
// wrapped form carries the server-side message.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrNothingToUpdate = errors.New("nothing to update")
	ErrBadRequest      = errors.New("bad request")
)

const (
	headerUsername = "X-Username"
	instantLayout  = "2006-01-02 15:04 MST"
)

type Model struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Revision     string     `json:"revision"`
	Algorithm    string     `json:"algorithm"`
	CreationTool string     `json:"creationTool"`
	Description  string     `json:"description"`
	Artifacts    []Artifact `json:"artifacts"`
	AddedBy      string     `json:"addedBy"`
	AddedOn      Instant    `json:"addedOn"`
	ModifiedBy   string     `json:"modifiedBy"`
	ModifiedOn   Instant    `json:"modifiedOn"`
}

type Artifact struct {
	ID       uuid.UUID `json:"id"`
	Filename string    `json:"filename"`
	Location string    `json:"location"`
	Actions  []string  `json:"actions"`
}

// ModelParams carries the mutable model fields. Nil fields are omitted
// from the request body, which matters for PATCH.
type ModelParams struct {
	Name         *string `json:"name,omitempty"`
	Revision     *string `json:"revision,omitempty"`
	Algorithm    *string `json:"algorithm,omitempty"`
	CreationTool *string `json:"creationTool,omitempty"`
	Description  *string `json:"description,omitempty"`
}

// Instant is a minute-precise timestamp rendered in GMT on the wire.
type Instant struct {
	time.Time
}

func (i Instant) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.In(time.FixedZone("GMT", 0)).Format(instantLayout))
}

func (i *Instant) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.ParseInLocation(instantLayout, s, time.FixedZone("GMT", 0))
	if err != nil {
		return err
	}
	i.Time = t
	return nil
}

type Client struct {
	baseURL  string
	username string
	http     *http.Client
}

type Option func(*Client)

// WithHTTPClient swaps the underlying transport, e.g. to set timeouts.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithUsername sets the identity stamped onto audit fields of every
// mutating call.
func WithUsername(user string) Option {
	return func(c *Client) { c.username = user }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListModels returns every model in the catalog. A non-nil orgID narrows
// the listing to that organization.
func (c *Client) ListModels(ctx context.Context, orgID uuid.UUID) ([]Model, error) {
	path := "/api/v1/models"
	if orgID != uuid.Nil {
		path += "?orgId=" + url.QueryEscape(orgID.String())
	}
	var out []Model
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetModel(ctx context.Context, id uuid.UUID) (*Model, error) {
	var out Model
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/models/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddModel(ctx context.Context, params ModelParams) (*Model, error) {
	var out Model
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/models", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateModel replaces every mutable field; omitted fields are cleared.
func (c *Client) UpdateModel(ctx context.Context, id uuid.UUID, params ModelParams) (*Model, error) {
	var out Model
	if err := c.doJSON(ctx, http.MethodPut, "/api/v1/models/"+id.String(), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PatchModel applies only the fields set in params.
func (c *Client) PatchModel(ctx context.Context, id uuid.UUID, params ModelParams) (*Model, error) {
	var out Model
	if err := c.doJSON(ctx, http.MethodPatch, "/api/v1/models/"+id.String(), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteModel removes the model and its artifacts, returning the state
// the model had just before deletion.
func (c *Client) DeleteModel(ctx context.Context, id uuid.UUID) (*Model, error) {
	var out Model
	if err := c.doJSON(ctx, http.MethodDelete, "/api/v1/models/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddArtifact uploads an artifact file with its action tags.
func (c *Client) AddArtifact(ctx context.Context, modelID uuid.UUID, filename string, content io.Reader, actions ...string) (*Artifact, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("artifactFile", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, err
	}
	for _, a := range actions {
		if err := w.WriteField("artifactActions", a); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost,
		fmt.Sprintf("/api/v1/models/%s/artifacts", modelID), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out Artifact
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetArtifact(ctx context.Context, modelID, artifactID uuid.UUID) (*Artifact, error) {
	var out Artifact
	path := fmt.Sprintf("/api/v1/models/%s/artifacts/%s", modelID, artifactID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetArtifactFile streams the artifact content. The caller owns the
// returned ReadCloser.
func (c *Client) GetArtifactFile(ctx context.Context, modelID, artifactID uuid.UUID) (io.ReadCloser, error) {
	path := fmt.Sprintf("/api/v1/models/%s/artifacts/%s/file", modelID, artifactID)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, responseError(resp)
	}
	return resp.Body, nil
}

func (c *Client) DeleteArtifact(ctx context.Context, modelID, artifactID uuid.UUID) (*Artifact, error) {
	var out Artifact
	path := fmt.Sprintf("/api/v1/models/%s/artifacts/%s", modelID, artifactID)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.username != "" {
		req.Header.Set(headerUsername, c.username)
	}
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return responseError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func responseError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	message := resp.Status
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		message = payload.Error
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case http.StatusNotModified:
		return ErrNothingToUpdate
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, message)
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, message)
	}
}
