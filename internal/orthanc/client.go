package orthanc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const contentTypeDICOM = "application/dicom"

// ErrStudyNotFound is returned when Orthanc has no study for the given ID.
var ErrStudyNotFound = errors.New("orthanc: study not found")

// Client manages communication with the Orthanc API.
type Client struct {
	BaseURL    string
	httpClient *http.Client
}

// NewClient creates a new Orthanc API client with a default HTTP client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewClientWithHTTPClient creates a new Orthanc API client with a specific
// *http.Client. This allows passing an instrumented client.
func NewClientWithHTTPClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		BaseURL:    baseURL,
		httpClient: client,
	}
}

// StoreInstance forwards one raw DICOM object to Orthanc's ingest endpoint
// and returns whatever Orthanc answered, verbatim. The response is not
// interpreted here: any status code Orthanc produces is handed back as-is,
// and an error is returned only when the request itself could not be
// completed (connection refused, timeout, unreadable body).
func (c *Client) StoreInstance(ctx context.Context, data []byte) (*RelayedResponse, error) {
	targetURL := fmt.Sprintf("%s/instances", c.BaseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create store request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeDICOM)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "Orthanc client failed to execute store request", "url", targetURL, "error", err)
		return nil, fmt.Errorf("failed to execute store request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read store response body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}

	slog.DebugContext(ctx, "Forwarded DICOM object to Orthanc",
		"url", targetURL, "statusCode", resp.StatusCode, "requestBytes", len(data))
	return &RelayedResponse{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        body,
	}, nil
}

// GetStudyDetails retrieves detailed metadata for a study ID from Orthanc.
// Returns ErrStudyNotFound when Orthanc answers 404.
func (c *Client) GetStudyDetails(ctx context.Context, orthancStudyID string) (*StudyDetails, error) {
	if orthancStudyID == "" {
		return nil, fmt.Errorf("orthancStudyID cannot be empty")
	}
	targetURL := fmt.Sprintf("%s/studies/%s", c.BaseURL, orthancStudyID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request to get study details: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "Orthanc client failed to execute request for study details", "url", targetURL, "error", err)
		return nil, fmt.Errorf("failed to execute request to get study details: %w", err)
	}
	defer resp.Body.Close()

	logAttrs := []any{"url", targetURL, "statusCode", resp.StatusCode}

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		logAttrs = append(logAttrs, "responseBody", string(bodyBytes))
		slog.ErrorContext(ctx, "Orthanc returned non-OK status getting study details", logAttrs...)
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("study %s: %w", orthancStudyID, ErrStudyNotFound)
		}
		return nil, fmt.Errorf("orthanc returned non-OK status %d getting study details", resp.StatusCode)
	}

	var details StudyDetails
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		slog.ErrorContext(ctx, "Failed to decode study details response from Orthanc", "url", targetURL, "error", err)
		return nil, fmt.Errorf("failed to decode study details response: %w", err)
	}

	slog.DebugContext(ctx, "Successfully retrieved study details from Orthanc", logAttrs...)
	return &details, nil
}

// ListStudies retrieves the list of study IDs known to Orthanc.
func (c *Client) ListStudies(ctx context.Context) ([]string, error) {
	targetURL := fmt.Sprintf("%s/studies", c.BaseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request to %s: %w", targetURL, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get studies from %s: %w", targetURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-OK status code %d from %s", resp.StatusCode, targetURL)
	}

	var studies []string // Orthanc /studies returns a JSON array of strings
	if err := json.NewDecoder(resp.Body).Decode(&studies); err != nil {
		return nil, fmt.Errorf("failed to decode studies response from %s: %w", targetURL, err)
	}

	return studies, nil
}
