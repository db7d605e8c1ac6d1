// Package remote talks to the planner backend over HTTP.
package remote

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

	"github.com/sandeepkv93/sched/internal/model"
	"github.com/sandeepkv93/sched/internal/planner"
)

const (
	generatePath = "/api/generate-schedule"
	manualPath   = "/api/manual-tasks"
	feedbackPath = "/api/schedule-feedback"

	maxErrorBody = 512
)

var ErrNoBaseURL = errors.New("remote: base url is required")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote: %s: unexpected status %d", e.Path, e.Code)
	}
	return fmt.Sprintf("remote: %s: unexpected status %d: %s", e.Path, e.Code, e.Body)
}

// Client implements the planner's generator and persistence endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, ErrNoBaseURL
	}
	c := &Client{baseURL: base, http: &http.Client{Timeout: 30 * time.Second}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var (
	_ planner.Generator         = (*Client)(nil)
	_ planner.AugmentationSaver = (*Client)(nil)
	_ planner.FeedbackSaver     = (*Client)(nil)
)

type generateResponse struct {
	Schedule string `json:"schedule"`
}

func (c *Client) GenerateSchedule(ctx context.Context, req planner.GenerateRequest) (string, error) {
	if req.RecurringEvents == nil {
		req.RecurringEvents = []model.RecurringEvent{}
	}
	var out generateResponse
	if err := c.post(ctx, generatePath, req, &out); err != nil {
		return "", err
	}
	return out.Schedule, nil
}

func (c *Client) SaveManualTask(ctx context.Context, req planner.ManualTaskRequest) error {
	return c.post(ctx, manualPath, req, nil)
}

func (c *Client) SaveFeedback(ctx context.Context, req planner.FeedbackRequest) error {
	return c.post(ctx, feedbackPath, req, nil)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("remote: marshal %s: %w", path, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("remote: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("remote: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("remote: decode %s: %w", path, err)
	}
	return nil
}
