// ABOUTME: HTTP client for the remote answering agent
// ABOUTME: One best-effort POST per prompt, no retry; replies are decoded tolerantly

package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxReplyBytes bounds how much of a reply body is read.
const maxReplyBytes = 8 << 20

// DefaultTimeout applies when ClientConfig.Timeout is zero.
const DefaultTimeout = 120 * time.Second

// ClientConfig configures the HTTP agent client.
type ClientConfig struct {
	Endpoint   string
	APIKey     string
	UserID     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client invokes the agent over HTTP.
type Client struct {
	endpoint string
	apiKey   string
	userID   string
	http     *http.Client
	logger   *slog.Logger
}

// chatRequest is the JSON body posted to the agent endpoint.
type chatRequest struct {
	Message   string `json:"message"`
	AgentID   string `json:"agent_id"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id,omitempty"`
}

// NewClient creates an agent client. Pass nil logger for default.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		userID:   cfg.UserID,
		http:     httpClient,
		logger:   logger.With("component", "agent"),
	}
}

// Invoke posts the prompt and decodes the reply envelope.
// Non-2xx responses are still decoded when they carry a JSON envelope,
// and are always reported as unsuccessful.
func (c *Client) Invoke(ctx context.Context, req *Request) (*Result, error) {
	body, err := json.Marshal(chatRequest{
		Message:   req.Prompt,
		AgentID:   req.AgentID,
		SessionID: req.SessionID,
		UserID:    c.userID,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("x-api-key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling agent: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading reply: %w", err)
	}

	c.logger.Debug("agent replied",
		"agent_id", req.AgentID,
		"session_id", req.SessionID,
		"status", resp.StatusCode,
		"bytes", len(data),
		"elapsed", time.Since(start))

	result, err := DecodeResult(data)
	if err != nil {
		if resp.StatusCode/100 != 2 {
			return nil, fmt.Errorf("agent returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("decoding reply: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		result.Success = false
		if result.Error == "" {
			result.Error = fmt.Sprintf("agent returned status %d", resp.StatusCode)
		}
	}
	return result, nil
}
