// Package minimax wraps the MiniMax speech (t2a_v2) and video generation
// APIs used as the pipeline's primary remote provider.
package minimax

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://api.minimax.io/v1"
	defaultSpeechModel = "speech-01-turbo"
	defaultVideoModel  = "video-01"
	defaultVoiceID     = "male-qn-qingse"
	defaultSpeed       = 1.2
)

// Provider-level failures the caller needs to tell apart: a rejection is a
// 2xx transport response carrying a nonzero application status, while a
// malformed response is a body that matches no known shape.
var (
	ErrProviderRejected  = errors.New("minimax: provider rejected request")
	ErrMalformedResponse = errors.New("minimax: malformed provider response")
	ErrTaskFailed        = errors.New("minimax: video task failed")
	ErrTaskTimeout       = errors.New("minimax: video task timed out")
)

// Client talks to the MiniMax HTTP API.
type Client struct {
	apiKey        string
	baseURL       string
	httpClient    *http.Client
	speechModel   string
	videoModel    string
	voiceID       string
	speed         float64
	createTimeout time.Duration
	pollInterval  time.Duration
	pollAttempts  int
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

// WithVoice sets the voice profile and speaking-rate multiplier.
func WithVoice(voiceID string, speed float64) Option {
	return func(cl *Client) {
		if voiceID != "" {
			cl.voiceID = voiceID
		}
		if speed > 0 {
			cl.speed = speed
		}
	}
}

// WithModels overrides the speech and video model ids.
func WithModels(speech, video string) Option {
	return func(cl *Client) {
		if speech != "" {
			cl.speechModel = speech
		}
		if video != "" {
			cl.videoModel = video
		}
	}
}

// WithTaskBudget tunes the async task pattern: creation timeout, poll
// interval and the bounded number of poll attempts.
func WithTaskBudget(createTimeout, pollInterval time.Duration, pollAttempts int) Option {
	return func(cl *Client) {
		if createTimeout > 0 {
			cl.createTimeout = createTimeout
		}
		if pollInterval > 0 {
			cl.pollInterval = pollInterval
		}
		if pollAttempts > 0 {
			cl.pollAttempts = pollAttempts
		}
	}
}

// NewClient constructs a MiniMax client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:        strings.TrimSpace(apiKey),
		baseURL:       defaultBaseURL,
		httpClient:    &http.Client{},
		speechModel:   defaultSpeechModel,
		videoModel:    defaultVideoModel,
		voiceID:       defaultVoiceID,
		speed:         defaultSpeed,
		createTimeout: 10 * time.Second,
		pollInterval:  2 * time.Second,
		pollAttempts:  45,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasCredential reports whether a key is configured.
func (c *Client) HasCredential() bool { return c.apiKey != "" }

type baseResp struct {
	StatusCode int    `json:"status_code"`
	StatusMsg  string `json:"status_msg"`
}

type speechResponse struct {
	Data *struct {
		Audio string `json:"audio"`
	} `json:"data"`
	BaseResp *baseResp `json:"base_resp"`
}

// Speech synthesizes narration for the given text and returns the decoded
// audio bytes. The t2a_v2 endpoint answers 200 even for application-level
// failures, so the body is parsed defensively: a nonzero base_resp status
// is a rejection, and anything without a hex audio payload is malformed.
func (c *Client) Speech(ctx context.Context, text string) ([]byte, error) {
	payload := map[string]any{
		"model":  c.speechModel,
		"text":   text,
		"stream": false,
		"voice_setting": map[string]any{
			"voice_id": c.voiceID,
			"speed":    c.speed,
		},
	}

	body, err := c.post(ctx, "/t2a_v2", payload)
	if err != nil {
		return nil, err
	}

	var parsed speechResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if parsed.BaseResp != nil && parsed.BaseResp.StatusCode != 0 {
		return nil, fmt.Errorf("%w: %d %s", ErrProviderRejected, parsed.BaseResp.StatusCode, parsed.BaseResp.StatusMsg)
	}
	if parsed.Data == nil || parsed.Data.Audio == "" {
		return nil, fmt.Errorf("%w: no audio payload", ErrMalformedResponse)
	}

	audio, err := hex.DecodeString(parsed.Data.Audio)
	if err != nil {
		return nil, fmt.Errorf("%w: audio payload is not hex: %v", ErrMalformedResponse, err)
	}
	return audio, nil
}

// CreateVideoTask submits an image-to-video generation task and returns
// the opaque task id. The creation call is capped at the configured
// connect/creation timeout.
func (c *Client) CreateVideoTask(ctx context.Context, imageURL, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.createTimeout)
	defer cancel()

	payload := map[string]any{
		"model":             c.videoModel,
		"prompt":            prompt,
		"first_frame_image": imageURL,
	}
	body, err := c.post(ctx, "/video_generation", payload)
	if err != nil {
		return "", fmt.Errorf("create video task: %w", err)
	}

	var parsed struct {
		TaskID string `json:"task_id"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if parsed.TaskID == "" {
		return "", fmt.Errorf("%w: no task_id returned", ErrMalformedResponse)
	}
	return parsed.TaskID, nil
}

// TaskStatus is one poll result for a video generation task.
type TaskStatus struct {
	Status string `json:"status"`
	FileID string `json:"file_id"`
}

// QueryVideoTask polls a video generation task.
func (c *Client) QueryVideoTask(ctx context.Context, taskID string) (TaskStatus, error) {
	var status TaskStatus
	body, err := c.get(ctx, "/query/video_generation?task_id="+url.QueryEscape(taskID))
	if err != nil {
		return status, fmt.Errorf("query video task: %w", err)
	}
	if err := json.Unmarshal(body, &status); err != nil {
		return status, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return status, nil
}

// RetrieveFileURL exchanges a finished task's file id for a download URL.
func (c *Client) RetrieveFileURL(ctx context.Context, fileID string) (string, error) {
	body, err := c.get(ctx, "/files/retrieve?file_id="+url.QueryEscape(fileID))
	if err != nil {
		return "", fmt.Errorf("retrieve file: %w", err)
	}
	var parsed struct {
		File struct {
			DownloadURL string `json:"download_url"`
		} `json:"file"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if parsed.File.DownloadURL == "" {
		return "", fmt.Errorf("%w: no download_url", ErrMalformedResponse)
	}
	return parsed.File.DownloadURL, nil
}

// GenerateVideo runs the full async task pattern: create, poll on a fixed
// interval up to the attempt budget, then resolve the download URL. The
// remote task is not cancelled when the budget runs out; it is abandoned
// and the task id is included in the timeout error for traceability.
func (c *Client) GenerateVideo(ctx context.Context, imageURL, prompt string) (string, error) {
	taskID, err := c.CreateVideoTask(ctx, imageURL, prompt)
	if err != nil {
		return "", err
	}

	for attempt := 0; attempt < c.pollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}

		status, err := c.QueryVideoTask(ctx, taskID)
		if err != nil {
			return "", err
		}
		switch status.Status {
		case "Success":
			return c.RetrieveFileURL(ctx, status.FileID)
		case "Fail":
			return "", fmt.Errorf("%w: task %s", ErrTaskFailed, taskID)
		}
	}

	return "", fmt.Errorf("%w: task %s", ErrTaskTimeout, taskID)
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

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
