// Package clinic is a thin client for the external patient/visit REST
// backend. The backend itself is not part of this repository; only the
// surface consumed by the upload flow is modeled here.
package clinic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the clinic REST backend.
type Client struct {
	BaseURL    string
	httpClient *http.Client
}

// NewClient creates a clinic API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewClientWithHTTPClient creates a clinic API client over a specific
// *http.Client.
func NewClientWithHTTPClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{BaseURL: baseURL, httpClient: client}
}

// CreateVisit submits a completed draft to the backend and returns the
// persisted visit.
func (c *Client) CreateVisit(ctx context.Context, draft *VisitDraft) (*Visit, error) {
	payload, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to encode visit draft: %w", err)
	}

	targetURL := fmt.Sprintf("%s/api/visits", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create visit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to submit visit to %s: %w", targetURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("clinic backend returned status %d creating visit: %s", resp.StatusCode, string(bodyBytes))
	}

	var visit Visit
	if err := json.NewDecoder(resp.Body).Decode(&visit); err != nil {
		return nil, fmt.Errorf("failed to decode visit response: %w", err)
	}
	return &visit, nil
}

// GetVisit fetches one visit by ID.
func (c *Client) GetVisit(ctx context.Context, visitID string) (*Visit, error) {
	targetURL := fmt.Sprintf("%s/api/visits/%s", c.BaseURL, visitID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create visit request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get visit from %s: %w", targetURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("clinic backend returned status %d getting visit %s", resp.StatusCode, visitID)
	}

	var visit Visit
	if err := json.NewDecoder(resp.Body).Decode(&visit); err != nil {
		return nil, fmt.Errorf("failed to decode visit response: %w", err)
	}
	return &visit, nil
}
