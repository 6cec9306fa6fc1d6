// Package runway wraps the Runway image-to-video API, the optional
// premium provider in the video fallback chain.
package runway

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
)

const (
	defaultBaseURL = "https://api.dev.runwayml.com/v1"
	defaultModel   = "gen3a_turbo"
	defaultRatio   = "768:1280"
	apiVersion     = "2024-11-06"
)

var (
	ErrTaskFailed  = errors.New("runway: task failed")
	ErrTaskTimeout = errors.New("runway: task timed out")
)

// Client talks to the Runway HTTP API.
type Client struct {
	apiKey        string
	baseURL       string
	httpClient    *http.Client
	model         string
	ratio         string
	createTimeout time.Duration
	pollInterval  time.Duration
	pollBudget    time.Duration
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithBaseURL overrides the API base (useful for tests).
func WithBaseURL(base string) Option {
	return func(cl *Client) {
		base = strings.TrimRight(strings.TrimSpace(base), "/")
		if base != "" {
			cl.baseURL = base
		}
	}
}

// WithModel overrides the generation model and aspect ratio.
func WithModel(model, ratio string) Option {
	return func(cl *Client) {
		if model != "" {
			cl.model = model
		}
		if ratio != "" {
			cl.ratio = ratio
		}
	}
}

// WithTaskBudget tunes creation timeout, poll interval and the wall-clock
// polling budget.
func WithTaskBudget(createTimeout, pollInterval, pollBudget time.Duration) Option {
	return func(cl *Client) {
		if createTimeout > 0 {
			cl.createTimeout = createTimeout
		}
		if pollInterval > 0 {
			cl.pollInterval = pollInterval
		}
		if pollBudget > 0 {
			cl.pollBudget = pollBudget
		}
	}
}

// NewClient constructs a Runway client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:        strings.TrimSpace(apiKey),
		baseURL:       defaultBaseURL,
		httpClient:    &http.Client{},
		model:         defaultModel,
		ratio:         defaultRatio,
		createTimeout: 10 * time.Second,
		pollInterval:  2 * time.Second,
		pollBudget:    60 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasCredential reports whether a key is configured.
func (c *Client) HasCredential() bool { return c.apiKey != "" }

// CreateTask submits an image-to-video task and returns its id.
func (c *Client) CreateTask(ctx context.Context, imageURL, prompt string, durationSeconds int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.createTimeout)
	defer cancel()

	payload := map[string]any{
		"model":       c.model,
		"promptImage": imageURL,
		"promptText":  prompt,
		"ratio":       c.ratio,
		"duration":    durationSeconds,
	}
	body, err := c.request(ctx, http.MethodPost, "/image_to_video", payload)
	if err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}

	var parsed struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse create response: %w", err)
	}
	if parsed.ID == "" {
		return "", errors.New("runway: no task id returned")
	}
	return parsed.ID, nil
}

// Task is one poll result.
type Task struct {
	Status      string   `json:"status"`
	Output      []string `json:"output"`
	FailureCode string   `json:"failureCode"`
}

// GetTask polls a task by id.
func (c *Client) GetTask(ctx context.Context, taskID string) (Task, error) {
	var task Task
	body, err := c.request(ctx, http.MethodGet, "/tasks/"+taskID, nil)
	if err != nil {
		return task, fmt.Errorf("poll task: %w", err)
	}
	if err := json.Unmarshal(body, &task); err != nil {
		return task, fmt.Errorf("parse task response: %w", err)
	}
	return task, nil
}

// GenerateVideo runs the async task pattern against Runway: create, poll
// every interval within the wall-clock budget, and return the output URL.
// An exceeded budget abandons the remote task (no cancellation call) and
// reports a timeout carrying the task id.
func (c *Client) GenerateVideo(ctx context.Context, imageURL, prompt string, durationSeconds int) (string, error) {
	taskID, err := c.CreateTask(ctx, imageURL, prompt, durationSeconds)
	if err != nil {
		return "", err
	}

	deadline := time.Now().Add(c.pollBudget)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}

		task, err := c.GetTask(ctx, taskID)
		if err != nil {
			return "", err
		}
		switch task.Status {
		case "SUCCEEDED":
			if len(task.Output) == 0 || task.Output[0] == "" {
				return "", errors.New("runway: succeeded task has no output")
			}
			return task.Output[0], nil
		case "FAILED":
			reason := task.FailureCode
			if reason == "" {
				reason = "unknown"
			}
			return "", fmt.Errorf("%w: task %s: %s", ErrTaskFailed, taskID, reason)
		}
	}

	return "", fmt.Errorf("%w: task %s", ErrTaskTimeout, taskID)
}

func (c *Client) request(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Runway-Version", apiVersion)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
