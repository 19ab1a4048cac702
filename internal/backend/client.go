// Package backend is a typed client for the portfolio REST API. The API owns
// every project and image; this package only moves request-scoped copies.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/nfrund/folio/internal/domain"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 8 << 20

// Config holds configuration for creating a Client.
type Config struct {
	// APIURL is the REST root, e.g. "http://localhost:3000/api".
	APIURL string

	// HTTPClient is used for all HTTP requests. Defaults to a client with a
	// 10 second timeout.
	HTTPClient *http.Client

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client talks to one deployment of the portfolio API.
type Client struct {
	apiURL     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client from the given configuration.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// APIURL returns the REST root this client targets.
func (c *Client) APIURL() string {
	return c.apiURL
}

// request describes one call to the API.
type request struct {
	method      string
	path        string
	token       string
	body        io.Reader
	contentType string
}

// do executes a request and returns the status and the raw body. Transport
// failures and unreadable bodies are returned as errors; HTTP status handling
// is left to the caller.
func (c *Client) do(ctx context.Context, r request) (int, []byte, error) {
	url := c.apiURL + r.path
	req, err := http.NewRequestWithContext(ctx, r.method, url, r.body)
	if err != nil {
		return 0, nil, fmt.Errorf("backend: building %s %s: %w", r.method, r.path, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	// An absent token omits the header entirely.
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("backend: %s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("backend: reading %s %s response: %w", r.method, r.path, err)
	}

	c.logger.DebugContext(ctx, "Portfolio API call",
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"duration", time.Since(start))
	return resp.StatusCode, body, nil
}

// getJSON performs a GET and decodes a 2xx body into out.
func (c *Client) getJSON(ctx context.Context, path, token string, out any) error {
	status, body, err := c.do(ctx, request{method: http.MethodGet, path: path, token: token})
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return newAPIError(http.MethodGet, path, status, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("backend: decoding GET %s: %w", path, err)
	}
	return nil
}

// sendResult performs a mutating request whose answer is a {success, error}
// envelope. The API reports validation failures as an envelope on a non-2xx
// status, so the envelope is decoded whenever the body carries one.
func (c *Client) sendResult(ctx context.Context, r request) (*domain.Result, error) {
	status, body, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}

	var result domain.Result
	decodeErr := json.Unmarshal(body, &result)
	if status >= 200 && status < 300 {
		if decodeErr != nil {
			return nil, fmt.Errorf("backend: decoding %s %s: %w", r.method, r.path, decodeErr)
		}
		return &result, nil
	}
	if decodeErr == nil && !result.Success && (result.Error != "" || result.Message != "") {
		if result.Error == "" {
			result.Error = result.Message
		}
		return &result, nil
	}
	return nil, newAPIError(r.method, r.path, status, body)
}

// Pool hands out one Client per API root so that requests resolved to
// different environments reuse their connections.
type Pool struct {
	mu         sync.Mutex
	clients    map[string]*Client
	httpClient *http.Client
	logger     *slog.Logger
}

// NewPool creates a pool whose clients share httpClient.
func NewPool(httpClient *http.Client, logger *slog.Logger) *Pool {
	return &Pool{
		clients:    make(map[string]*Client),
		httpClient: httpClient,
		logger:     logger,
	}
}

// For returns the client for apiURL, creating it on first use.
func (p *Pool) For(apiURL string) *Client {
	key := strings.TrimRight(apiURL, "/")
	p.mu.Lock()
	defer p.mu.Unlock()
	if client, ok := p.clients[key]; ok {
		return client
	}
	client := NewClient(Config{APIURL: key, HTTPClient: p.httpClient, Logger: p.logger})
	p.clients[key] = client
	return client
}

func jsonBody(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
