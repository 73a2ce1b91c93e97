// Package client talks to the signature API server. It is used by the
// Outlook add-in host process, which runs on end user machines and must
// keep working through short server outages, hence the persistent cache.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/embedding"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/models"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/signature"
)

// Client is a signature API client
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new signature API client
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse mirrors the server's /health payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// request performs an HTTP request to the signature API
func (c *Client) request(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
			return fmt.Errorf("HTTP %d", resp.StatusCode)
		}
		return fmt.Errorf("API error: %s", errResp.Error)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// Health checks server health
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.request(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetSignature fetches a rendered signature for the given user.
func (c *Client) GetSignature(ctx context.Context, email string, variant signature.Variant, mode embedding.Mode) (*models.RenderedSignature, error) {
	params := url.Values{}
	params.Set("email", email)
	if variant != "" {
		params.Set("type", string(variant))
	}
	if mode != "" {
		params.Set("embed", string(mode))
	}

	var resp models.RenderedSignature
	if err := c.request(ctx, http.MethodGet, "/api/signature?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListTemplates lists all templates
func (c *Client) ListTemplates(ctx context.Context) ([]models.Template, error) {
	var resp []models.Template
	if err := c.request(ctx, http.MethodGet, "/api/templates", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Fetch implements the add-in fetcher contract. The add-in always asks
// for CID embedding so signatures render without remote image loads.
func (c *Client) Fetch(ctx context.Context, email string, variant signature.Variant) (*models.RenderedSignature, error) {
	return c.GetSignature(ctx, email, variant, embedding.ModeCID)
}
