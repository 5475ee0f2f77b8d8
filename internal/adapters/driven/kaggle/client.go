// Package kaggle implements the dataset catalog on the Kaggle API v1.
package kaggle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/core/ports/driven"
)

// Client is the low-level Kaggle API transport. It maps HTTP failures
// onto the domain error taxonomy; retry policy belongs to the callers.
type Client struct {
	credentials driven.CredentialsProvider
	httpClient  *http.Client
	baseURL     string
}

// NewClient creates a Kaggle API client.
func NewClient(cfg Config) *Client {
	cfg.applyDefaults()
	return &Client{
		credentials: cfg.Credentials,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
	}
}

// listItem is one dataset in the list response. The list endpoint often
// carries only a subtitle where the view endpoint has a description.
type listItem struct {
	domain.RawDataset
	Subtitle string `json:"subtitle"`
}

// filesResponse is the file-listing response envelope.
type filesResponse struct {
	DatasetFiles []domain.DatasetFile `json:"datasetFiles"`
	ErrorMessage string               `json:"errorMessage"`
}

// get performs an authenticated GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	creds, err := c.credentials.Credentials(ctx)
	if err != nil {
		return fmt.Errorf("resolve credentials: %w", err)
	}
	if !creds.IsZero() {
		req.SetBasicAuth(creds.Username, creds.Key)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Cancellation must surface as-is, not as a retryable failure.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("catalog request: %v: %w", err, domain.ErrTransient)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}
	return nil
}

// statusError maps a non-200 response onto the domain error taxonomy:
// 429 is retryable with backoff, 5xx retryable as transient, everything
// else (auth failures, bad requests) is fatal.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	detail := strings.TrimSpace(string(body))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("catalog over quota: %w", domain.ErrRateLimited)
	case resp.StatusCode >= 500:
		return fmt.Errorf("catalog server error %d: %s: %w", resp.StatusCode, detail, domain.ErrTransient)
	default:
		return fmt.Errorf("catalog error %d: %s", resp.StatusCode, detail)
	}
}
