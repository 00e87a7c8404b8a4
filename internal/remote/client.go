// Package remote talks to the record service that validates and bulk
// updates EPOS records over JSON/HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"eposupdate/internal/config"
	"eposupdate/internal/port"
)

const defaultTimeout = 120 * time.Second

// Client implements port.RecordValidator and port.RecordUpdater against
// the remote record service. It never retries.
type Client struct {
	apiKey      string
	validateURL string
	updateURL   string
	client      *http.Client
}

var (
	_ port.RecordValidator = (*Client)(nil)
	_ port.RecordUpdater   = (*Client)(nil)
)

// NewClient creates a Client from cfg.
func NewClient(cfg *config.RemoteConfig) *Client {
	return NewClientWithHTTP(cfg, nil)
}

// NewClientWithHTTP creates a Client using hc, or a client with the
// configured timeout when hc is nil.
func NewClientWithHTTP(cfg *config.RemoteConfig, hc *http.Client) *Client {
	if hc == nil {
		timeout := time.Duration(cfg.TimeoutSecs) * time.Second
		if timeout == 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	validatePath := cfg.ValidatePath
	if validatePath == "" {
		validatePath = "/validate"
	}
	updatePath := cfg.UpdatePath
	if updatePath == "" {
		updatePath = "/update"
	}
	return &Client{
		apiKey:      cfg.APIKey,
		validateURL: cfg.BaseURL + validatePath,
		updateURL:   cfg.BaseURL + updatePath,
		client:      hc,
	}
}

type validateRequest struct {
	IDs []string `json:"ids"`
}

type validateResponse struct {
	ValidIDs   []string `json:"validIds"`
	InvalidIDs []string `json:"invalidIds"`
}

type updateRequest struct {
	CSVData         string   `json:"csvData"`
	SelectedOptions []string `json:"selectedOptions"`
}

// ValidateRecords sends every candidate id in one request.
func (c *Client) ValidateRecords(ctx context.Context, input port.ValidateInput) (*port.ValidateOutput, error) {
	ids := input.IDs
	if ids == nil {
		ids = []string{}
	}

	body, err := c.post(ctx, c.validateURL, validateRequest{IDs: ids})
	if err != nil {
		return nil, err
	}

	var resp validateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling validate response: %w", err)
	}
	return &port.ValidateOutput{ValidIDs: resp.ValidIDs, InvalidIDs: resp.InvalidIDs}, nil
}

// UpdateRecords submits one bulk update and returns the service payload
// untouched.
func (c *Client) UpdateRecords(ctx context.Context, input port.UpdateInput) (*port.UpdateOutput, error) {
	options := input.Options
	if options == nil {
		options = []string{}
	}

	body, err := c.post(ctx, c.updateURL, updateRequest{CSVData: input.CSVData, SelectedOptions: options})
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return &port.UpdateOutput{}, nil
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("update response is not valid JSON: %s", truncate(string(body), 200))
	}
	return &port.UpdateOutput{Result: json.RawMessage(body)}, nil
}

func (c *Client) post(ctx context.Context, url string, payload interface{}) ([]byte, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling record service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(respBody), 500)}
	}
	return respBody, nil
}

// StatusError is returned when the record service answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("record service error (status %d): %s", e.StatusCode, e.Body)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
