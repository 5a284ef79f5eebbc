package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eyebreak/eyebreak/internal/models"
)

// Client talks to a running daemon's API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Client) Status(ctx context.Context) (*Status, error) {
	var st Status
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) StartTimer(ctx context.Context) (*Status, error) {
	return c.post(ctx, "/api/timer/start", nil)
}

func (c *Client) ConfirmRest(ctx context.Context) (*Status, error) {
	return c.post(ctx, "/api/rest/confirm", nil)
}

func (c *Client) Snooze(ctx context.Context) (*Status, error) {
	return c.post(ctx, "/api/rest/snooze", nil)
}

func (c *Client) SkipRest(ctx context.Context) (*Status, error) {
	return c.post(ctx, "/api/rest/skip", nil)
}

// Overlay answers the shown overlay with "confirm", "later" or "exit".
func (c *Client) Overlay(ctx context.Context, action string) (*Status, error) {
	return c.post(ctx, "/api/overlay/"+action, nil)
}

func (c *Client) UpdateSettings(ctx context.Context, req SettingsRequest) (*Status, error) {
	var st Status
	if err := c.do(ctx, http.MethodPut, "/api/settings", req, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) Nudge(ctx context.Context, target string, delta float64) (*Status, error) {
	return c.post(ctx, "/api/settings/nudge", NudgeRequest{Target: target, Delta: delta})
}

func (c *Client) Report(ctx context.Context, period string) (*models.Report, error) {
	var report models.Report
	if err := c.do(ctx, http.MethodGet, "/api/report?period="+period, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (*Status, error) {
	var st Status
	if err := c.do(ctx, http.MethodPost, path, body, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("daemon not reachable at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return fmt.Errorf("%s %s: %s", method, path, e.Error)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
