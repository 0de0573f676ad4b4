// Package devicecheck calls the external device-analysis service that
// suggests a canonical model name and a risk assessment for a device
// being entered into inventory. The analysis is advisory: callers must
// treat failures as a recorded "analysis failed" state, never as a block.
package devicecheck

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/outletplus/pos-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://devicecheck.outletplus.com.br/v1"
	responseBodyReadLimit int64 = 1024
)

var errAPIKeyRequired = errors.New("device check api key is required")

// Client wraps the device analysis HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds the device check client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// AnalyzeRequest describes the device attributes submitted for analysis.
type AnalyzeRequest struct {
	Model     string `json:"model"`
	StorageGB int    `json:"storageGb,omitempty"`
	Color     string `json:"color,omitempty"`
	IMEI      string `json:"imei"`
	Notes     string `json:"notes,omitempty"`
}

// Analysis is the advisory verdict returned by the service.
type Analysis struct {
	IdentifiedModel string
	RiskAssessment  string
}

// Analyze submits the device for identification and risk assessment.
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (*Analysis, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "device check client not configured")
	}
	if strings.TrimSpace(req.IMEI) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "imei is required")
	}

	url := strings.TrimRight(c.baseURL, "/") + "/devices:analyze"
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal analyze request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build analyze request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute analyze request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "analyze request failed")
	}

	var apiResp struct {
		IdentifiedModel string `json:"identifiedModel"`
		RiskAssessment  string `json:"riskAssessment"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode analyze response")
	}

	return &Analysis{
		IdentifiedModel: apiResp.IdentifiedModel,
		RiskAssessment:  apiResp.RiskAssessment,
	}, nil
}
