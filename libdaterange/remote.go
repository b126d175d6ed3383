package libdaterange

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/njt/daterange/internal/dateparse"
)

// DefaultRemoteTimeout bounds a single extraction request.
const DefaultRemoteTimeout = 5 * time.Second

// RemoteExtractor asks an HTTP date-recognition service for the dates in a text.
// The service accepts POST /extract with {"text", "reference"} and answers
// {"dates": ["YYYY-MM-DD", ...]}.
type RemoteExtractor struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
}

// ExtractRequest is the body sent to the remote service.
type ExtractRequest struct {
	Text      string `json:"text"`
	Reference string `json:"reference"`
}

// ExtractResponse is the body returned by the remote service.
type ExtractResponse struct {
	Dates []string `json:"dates"`
}

// NewRemoteExtractor creates a client for the service at baseURL.
// A non-positive timeout falls back to DefaultRemoteTimeout.
func NewRemoteExtractor(baseURL string, timeout time.Duration) *RemoteExtractor {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	return &RemoteExtractor{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
	}
}

// Extract implements Extractor.
func (c *RemoteExtractor) Extract(text string, ref time.Time) ([]time.Time, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	data, err := c.post(ctx, "/extract", &ExtractRequest{
		Text:      text,
		Reference: dateparse.FormatDate(ref),
	})
	if err != nil {
		return nil, err
	}

	var resp ExtractResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(resp.Dates) == 0 {
		return nil, ErrNoDate
	}

	dates := make([]time.Time, 0, len(resp.Dates))
	for _, s := range resp.Dates {
		t, err := time.ParseInLocation(dateparse.DateLayout, s, ref.Location())
		if err != nil {
			return nil, fmt.Errorf("invalid date %q in response: %w", s, err)
		}
		dates = append(dates, t)
	}
	return dates, nil
}

// post performs a JSON POST request
func (c *RemoteExtractor) post(ctx context.Context, path string, data any) ([]byte, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("extract request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
