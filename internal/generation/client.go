// Package generation talks to the text-generation backend (an
// Ollama-compatible HTTP API). Generation is slow and synchronous, so
// the call carries a long bounded timeout and no retries: a failed
// generation is an upstream failure the caller must see.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/victormacedov/social-media-agent/internal/logger"
)

// BackendError is a distinguishable "upstream dependency failed"
// condition. The HTTP layer maps it to 502.
type BackendError struct {
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("generation backend: %v", e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	log        *logrus.Entry
}

func NewClient(baseURL, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.Component("generation"),
	}
}

// Generate sends the prompt and returns the backend's raw text. Any
// transport failure or non-success status comes back as *BackendError.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", &BackendError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", &BackendError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &BackendError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &BackendError{Err: fmt.Errorf("status %d: %s", resp.StatusCode, raw)}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &BackendError{Err: fmt.Errorf("decode response: %w", err)}
	}

	c.log.WithFields(logrus.Fields{
		"model":       c.model,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("generation completed")
	return out.Response, nil
}

// Ping checks that the backend answers at all. Used by the startup
// readiness probe, not by the request path.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("backend status %d", resp.StatusCode)
	}
	return nil
}
