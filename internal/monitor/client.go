package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ignite/campaign-studio/internal/domain"
)

// HTTPDoer is the interface for executing HTTP requests.
// *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the job and SMTP endpoints of the studio server.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a client for the server at baseURL. A nil doer uses
// http.DefaultClient.
func NewClient(baseURL string, doer HTTPDoer) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: doer,
	}
}

// JobData fetches GET /job/{id}/data.
func (c *Client) JobData(ctx context.Context, jobID int64) (domain.JobSnapshot, error) {
	var snap domain.JobSnapshot
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/job/%d/data", jobID), &snap); err != nil {
		return domain.JobSnapshot{}, fmt.Errorf("fetching job data: %w", err)
	}
	return snap, nil
}

type logsResponse struct {
	Logs []domain.JobLog `json:"logs"`
}

// JobLogs fetches GET /job/{id}/logs.
func (c *Client) JobLogs(ctx context.Context, jobID int64) ([]domain.JobLog, error) {
	var resp logsResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/job/%d/logs", jobID), &resp); err != nil {
		return nil, fmt.Errorf("fetching job logs: %w", err)
	}
	return resp.Logs, nil
}

// TestSMTP calls POST /smtp-config/{id}/test.
func (c *Client) TestSMTP(ctx context.Context, configID int64) (domain.SMTPTestResult, error) {
	var res domain.SMTPTestResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/smtp-config/%d/test", configID), &res); err != nil {
		return domain.SMTPTestResult{}, fmt.Errorf("testing smtp config: %w", err)
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, method, path string, out interface{}) error {
	var body io.Reader
	if method == http.MethodPost {
		body = bytes.NewReader([]byte("{}"))
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
