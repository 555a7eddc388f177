package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// TokenSource yields the cached session token for authenticated calls.
// An empty token with a nil error means no session exists.
type TokenSource interface {
	SessionToken(ctx context.Context) (string, error)
}

// Client is the shared HTTP core behind every domain client. It builds
// requests, attaches the Bearer token, enforces a client-side rate limit,
// and classifies every failure into the api error taxonomy.
//
// Contract: encoding and decoding failures never panic; they convert to a
// typed error and return control to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	tokens     TokenSource
	logger     *slog.Logger
}

// Options configures a Client.
type Options struct {
	// BaseURL is the root of the remote API, without a trailing slash.
	BaseURL string

	// HTTPClient overrides the transport. Defaults to a client with a
	// 15 second timeout.
	HTTPClient *http.Client

	// RequestsPerSecond caps outbound calls client-side. Zero disables
	// the limiter.
	RequestsPerSecond float64

	// Tokens supplies the session token for authenticated calls.
	Tokens TokenSource

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// NewClient creates the shared HTTP core for the domain clients.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), int(opts.RequestsPerSecond)+1)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    opts.BaseURL,
		httpClient: httpClient,
		limiter:    limiter,
		tokens:     opts.Tokens,
		logger:     logger,
	}
}

// serverMessage is the structured error body the remote service returns on
// 4xx/5xx responses.
type serverMessage struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (m serverMessage) text() string {
	if m.Error != "" {
		return m.Error
	}
	return m.Message
}

// call issues one HTTP request and decodes the 2xx response body into out.
// A nil out discards the body. authed calls fail with ErrNoSession before
// any network I/O when no token is cached.
func (c *Client) call(ctx context.Context, method, path string, body any, authed bool, out any) error {
	var token string
	if authed {
		if c.tokens == nil {
			return ErrNoSession
		}
		t, err := c.tokens.SessionToken(ctx)
		if err != nil {
			return &Error{Kind: KindUnknown, cause: err}
		}
		if t == "" {
			return ErrNoSession
		}
		token = t
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return encodingError(err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return networkError(err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return encodingError(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("remote call failed",
			"method", method,
			"path", path,
			"error", err,
		)
		return networkError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(err)
	}

	c.logger.Debug("remote call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg serverMessage
		if err := json.Unmarshal(respBody, &msg); err == nil && msg.text() != "" {
			return serverError(resp.StatusCode, msg.text())
		}
		return invalidResponseError(resp.StatusCode)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return decodingError(fmt.Errorf("decoding %s %s response: %w", method, path, err))
	}
	return nil
}

// get decodes a 2xx GET response into T.
func get[T any](ctx context.Context, c *Client, path string, authed bool) (*T, error) {
	var out T
	if err := c.call(ctx, http.MethodGet, path, nil, authed, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// post encodes body, issues a POST, and decodes the response into T.
func post[T any](ctx context.Context, c *Client, path string, body any, authed bool) (*T, error) {
	var out T
	if err := c.call(ctx, http.MethodPost, path, body, authed, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
