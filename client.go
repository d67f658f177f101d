// Package compliance provides a client for the compliance document API.
package compliance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

// PrincipalHeader carries the authenticated principal id.
const PrincipalHeader = "X-Principal-Id"

// APIError is the stable error shape returned by the API.
type APIError struct {
	Kind    string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
}

type Document struct {
	ID               string     `json:"id"`
	EstablishmentID  string     `json:"establishment_id"`
	Kind             string     `json:"kind"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Status           string     `json:"status"`
	CurrentVersionID *string    `json:"current_version_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type Version struct {
	ID                string     `json:"id"`
	DocumentID        string     `json:"document_id"`
	VersionNumber     int64      `json:"version_number"`
	Status            string     `json:"status"`
	FileName          string     `json:"file_name"`
	Checksum          string     `json:"checksum"`
	Size              int64      `json:"size"`
	ChangeDescription string     `json:"change_description"`
	UploadedBy        string     `json:"uploaded_by"`
	ActivatedAt       *time.Time `json:"activated_at"`
	CreatedAt         time.Time  `json:"created_at"`
}

type Relation struct {
	ID             string    `json:"id"`
	FromDocumentID string    `json:"from_document_id"`
	ToDocumentID   string    `json:"to_document_id"`
	Type           string    `json:"type"`
	CreatedAt      time.Time `json:"created_at"`
}

// Client talks to the compliance API on behalf of one principal.
type Client struct {
	base        string
	principalID string
	http        *http.Client
}

func NewClient(base, principalID string) *Client {
	return &Client{
		base:        base,
		principalID: principalID,
		http:        &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) CreateDocument(ctx context.Context, establishmentID, kind, name, description string) (*Document, error) {
	var doc Document
	err := c.do(ctx, http.MethodPost, "/v1/documents", map[string]string{
		"establishment_id": establishmentID,
		"kind":             kind,
		"name":             name,
		"description":      description,
	}, &doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) GetDocument(ctx context.Context, id string) (*Document, error) {
	var doc Document
	if err := c.do(ctx, http.MethodGet, "/v1/documents/"+id, nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) ListDocuments(ctx context.Context, establishmentID string) ([]Document, error) {
	var out struct {
		Documents []Document `json:"documents"`
	}
	err := c.do(ctx, http.MethodGet, "/v1/establishments/"+establishmentID+"/documents", nil, &out)
	return out.Documents, err
}

// UpdateDocument updates name and/or description; nil fields are untouched.
func (c *Client) UpdateDocument(ctx context.Context, id string, name, description *string) (*Document, error) {
	body := map[string]*string{}
	if name != nil {
		body["name"] = name
	}
	if description != nil {
		body["description"] = description
	}

	var doc Document
	if err := c.do(ctx, http.MethodPut, "/v1/documents/"+id, body, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/documents/"+id, nil, nil)
}

func (c *Client) ListVersions(ctx context.Context, documentID string) ([]Version, error) {
	var out struct {
		Versions []Version `json:"versions"`
	}
	err := c.do(ctx, http.MethodGet, "/v1/documents/"+documentID+"/versions", nil, &out)
	return out.Versions, err
}

// UploadVersion uploads a new version as multipart form data.
func (c *Client) UploadVersion(ctx context.Context, documentID, fileName, changeDescription string, content io.Reader) (*Version, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, content); err != nil {
		return nil, err
	}
	if changeDescription != "" {
		if err := mw.WriteField("change_description", changeDescription); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/v1/documents/"+documentID+"/versions", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(PrincipalHeader, c.principalID)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var version Version
	if err := decode(res, &version); err != nil {
		return nil, err
	}
	return &version, nil
}

func (c *Client) ActivateVersion(ctx context.Context, documentID, versionID string) (*Version, error) {
	var version Version
	err := c.do(ctx, http.MethodPost, "/v1/documents/"+documentID+"/versions/"+versionID+"/activate", nil, &version)
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (c *Client) ArchiveVersion(ctx context.Context, documentID, versionID string) (*Version, error) {
	var version Version
	err := c.do(ctx, http.MethodPost, "/v1/documents/"+documentID+"/versions/"+versionID+"/archive", nil, &version)
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (c *Client) UpdateVersion(ctx context.Context, documentID, versionID, changeDescription string) (*Version, error) {
	var version Version
	err := c.do(ctx, http.MethodPut, "/v1/documents/"+documentID+"/versions/"+versionID, map[string]string{
		"change_description": changeDescription,
	}, &version)
	if err != nil {
		return nil, err
	}
	return &version, nil
}

// DownloadVersion streams the version blob. The caller owns the reader.
func (c *Client) DownloadVersion(ctx context.Context, documentID, versionID string) (io.ReadCloser, error) {
	u := c.base + "/v1/documents/" + documentID + "/versions/" + versionID + "/file?mode=download"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(PrincipalHeader, c.principalID)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= 400 {
		defer res.Body.Close()
		return nil, apiError(res)
	}
	return res.Body, nil
}

func (c *Client) CreateRelation(ctx context.Context, fromDocumentID, toDocumentID, relationType string) (*Relation, error) {
	var relation Relation
	err := c.do(ctx, http.MethodPost, "/v1/documents/"+fromDocumentID+"/relations", map[string]string{
		"to_document_id": toDocumentID,
		"type":           relationType,
	}, &relation)
	if err != nil {
		return nil, err
	}
	return &relation, nil
}

func (c *Client) ListRelations(ctx context.Context, documentID, direction, relationType string) ([]Relation, error) {
	q := url.Values{}
	if direction != "" {
		q.Set("direction", direction)
	}
	if relationType != "" {
		q.Set("type", relationType)
	}
	path := "/v1/documents/" + documentID + "/relations"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out struct {
		Relations []Relation `json:"relations"`
	}
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out.Relations, err
}

func (c *Client) DeleteRelation(ctx context.Context, documentID, relationID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/documents/"+documentID+"/relations/"+relationID, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(PrincipalHeader, c.principalID)

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	return decode(res, out)
}

func decode(res *http.Response, out interface{}) error {
	if res.StatusCode >= 400 {
		return apiError(res)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func apiError(res *http.Response) error {
	apiErr := &APIError{Status: res.StatusCode}
	if err := json.NewDecoder(res.Body).Decode(apiErr); err != nil {
		apiErr.Kind = "unknown"
		apiErr.Message = res.Status
	}
	return apiErr
}
