// Package api is the REST adapter behind ports.CatalogAPI. It owns the
// transport details the core never sees: URLs, JSON bodies, the auth
// header and the backend's error envelope.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/casthub/catadm/internal/core/domain"
)

// Client talks to the catalog backend. Safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the given base URL. token may be empty for
// backends running without auth (local development).
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// errorEnvelope is the backend's structured error body. Only the message
// matters to the client; status codes are not interpreted beyond
// success/failure.
type errorEnvelope struct {
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func decodeError(resp *http.Response) error {
	var envelope errorEnvelope
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Message != "" {
		return fmt.Errorf("%s", envelope.Message)
	}
	return fmt.Errorf("request failed with status %s", resp.Status)
}

// ListCategories returns all categories
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out struct {
		Items []domain.Category `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return out.Items, nil
}

// ListAssets returns one page of a category's assets
func (c *Client) ListAssets(ctx context.Context, categoryID string, page, pageSize int) (*domain.AssetPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	path := "/api/categories/" + url.PathEscape(categoryID) + "/assets"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out struct {
		Items      []domain.Asset    `json:"items"`
		Pagination domain.Pagination `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return &domain.AssetPage{Items: out.Items, Pagination: out.Pagination}, nil
}

// patchBody maps a tagged field change onto the wire's partial-update shape
func patchBody(change domain.FieldChange) map[string]interface{} {
	switch change.Field {
	case domain.FieldPremium:
		return map[string]interface{}{"is_premium": change.Bool}
	case domain.FieldCount:
		return map[string]interface{}{"count": change.Int}
	case domain.FieldPrompt:
		return map[string]interface{}{"prompt": change.Str}
	case domain.FieldCountry:
		return map[string]interface{}{"country": change.Str}
	default:
		return map[string]interface{}{}
	}
}

// UpdateAsset applies a single-field change and returns the confirmed asset
func (c *Client) UpdateAsset(ctx context.Context, categoryID, assetID string, change domain.FieldChange) (*domain.Asset, error) {
	path := "/api/categories/" + url.PathEscape(categoryID) + "/assets/" + url.PathEscape(assetID)
	var out domain.Asset
	if err := c.do(ctx, http.MethodPatch, path, patchBody(change), &out); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", change.Field, err)
	}
	return &out, nil
}

// DeleteAsset removes an asset
func (c *Client) DeleteAsset(ctx context.Context, categoryID, assetID string) error {
	path := "/api/categories/" + url.PathEscape(categoryID) + "/assets/" + url.PathEscape(assetID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return nil
}

// ReorderAssets persists a complete dense ordering
func (c *Client) ReorderAssets(ctx context.Context, categoryID string, ordering []domain.OrderEntry) error {
	path := "/api/categories/" + url.PathEscape(categoryID) + "/assets/reorder"
	body := map[string]interface{}{"ordering": ordering}
	if err := c.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("failed to reorder assets: %w", err)
	}
	return nil
}

// UploadAsset uploads one media file with its metadata
func (c *Client) UploadAsset(ctx context.Context, categoryID, filePath string, meta domain.UploadMeta) (*domain.Asset, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	count := meta.Count
	if count < 1 {
		count = 1
	}
	fields := map[string]string{
		"is_premium": strconv.FormatBool(meta.IsPremium),
		"count":      strconv.Itoa(count),
	}
	if meta.Prompt != "" {
		fields["prompt"] = meta.Prompt
	}
	if meta.Country != "" {
		fields["country"] = meta.Country
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to build upload form: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish upload form: %w", err)
	}

	path := "/api/categories/" + url.PathEscape(categoryID) + "/assets"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	var out domain.Asset
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	return &out, nil
}

// FetchMedia retrieves raw media bytes from an absolute URL. Used by the
// grid's lazy cells; auth is injected only for URLs under the API base.
func (c *Client) FetchMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build media request: %w", err)
	}
	if strings.HasPrefix(mediaURL, c.baseURL) {
		c.authorize(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("media fetch failed with status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
