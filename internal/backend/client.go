package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxResponseBody caps how much of a response body is read.
const maxResponseBody = 1 << 20 // 1MB

// RequestIDHeader carries a per-request uuid for correlation with server logs.
const RequestIDHeader = "X-Request-ID"

// Client talks to the wellness service over JSON/HTTP.
type Client struct {
	baseURL        string
	http           *http.Client
	requestTimeout time.Duration
	chatTimeout    time.Duration
	logger         *slog.Logger
}

// ClientConfig holds configuration for the backend client.
type ClientConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	ChatTimeout    time.Duration
	HTTPClient     *http.Client
}

// DefaultClientConfig returns default configuration.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:        "http://127.0.0.1:5000",
		RequestTimeout: 15 * time.Second,
		ChatTimeout:    60 * time.Second,
	}
}

// NewClient creates a backend client. Zero-valued fields of cfg take their
// defaults.
func NewClient(cfg ClientConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	def := DefaultClientConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.ChatTimeout <= 0 {
		cfg.ChatTimeout = def.ChatTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q", cfg.BaseURL)
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		http:           cfg.HTTPClient,
		requestTimeout: cfg.RequestTimeout,
		chatTimeout:    cfg.ChatTimeout,
		logger:         logger,
	}, nil
}

// Register creates an account. Failures are returned as *AuthError.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	if err := c.do(ctx, c.requestTimeout, "register", http.MethodPost, "/register", "", req, nil); err != nil {
		return authError(err, DefaultRegistrationError)
	}
	return nil
}

// Login exchanges credentials for a bearer token. Failures are returned as
// *AuthError.
func (c *Client) Login(ctx context.Context, req LoginRequest) (string, error) {
	var resp loginResponse
	if err := c.do(ctx, c.requestTimeout, "login", http.MethodPost, "/login", "", req, &resp); err != nil {
		return "", authError(err, DefaultLoginError)
	}
	if resp.Token == "" {
		return "", &AuthError{Message: DefaultLoginError, Err: errors.New("login response carried no token")}
	}
	return resp.Token, nil
}

// Chat sends one user message. A 2xx body that cannot be decoded is treated
// as a reply without content rather than an error.
func (c *Client) Chat(ctx context.Context, token string, req ChatRequest) (*ChatResponse, error) {
	if token == "" {
		return nil, ErrNoCredential
	}
	var raw json.RawMessage
	if err := c.do(ctx, c.chatTimeout, "chat", http.MethodPost, "/chat", token, req, &raw); err != nil {
		return nil, err
	}
	resp := &ChatResponse{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, resp); err != nil {
			c.logger.Warn("chat response is not a JSON object", "error", err)
			return &ChatResponse{}, nil
		}
	}
	return resp, nil
}

// LogMood records a mood entry.
func (c *Client) LogMood(ctx context.Context, token string, req MoodRequest) error {
	if token == "" {
		return ErrNoCredential
	}
	return c.do(ctx, c.requestTimeout, "mood", http.MethodPost, "/mood", token, req, nil)
}

// Meditation fetches meditation guidance text.
func (c *Client) Meditation(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNoCredential
	}
	var resp meditationResponse
	if err := c.do(ctx, c.requestTimeout, "meditation", http.MethodGet, "/meditation", token, nil, &resp); err != nil {
		return "", err
	}
	return resp.Meditation, nil
}

// WellnessPlan fetches the user's wellness plan text.
func (c *Client) WellnessPlan(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNoCredential
	}
	var resp planResponse
	if err := c.do(ctx, c.requestTimeout, "wellness-plan", http.MethodGet, "/wellness-plan", token, nil, &resp); err != nil {
		return "", err
	}
	return resp.Plan, nil
}

// do performs one request. Network failures come back as *TransportError,
// non-2xx responses as *ServerError.
func (c *Client) do(ctx context.Context, timeout time.Duration, op, method, path, token string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed", "op", op, "request_id", requestID, "error", err)
		return &TransportError{Op: op, Err: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("failed to close response body", "op", op, "error", closeErr)
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("backend request complete",
		"op", op,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody errorResponse
		_ = json.Unmarshal(data, &errBody)
		return &ServerError{Op: op, Status: resp.StatusCode, Message: errBody.Error}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], data...)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
