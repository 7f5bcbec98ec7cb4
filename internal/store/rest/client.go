// Package rest implements the backend contract over the Vidora HTTP API.
// Backend-specific failures are normalized into the store sentinels; raw
// detail is logged and never surfaced to callers.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vidora/vidora/internal/store"
)

const (
	HeaderProject  = "X-Vidora-Project"
	HeaderPlatform = "X-Vidora-Platform"
	HeaderSession  = "X-Vidora-Session"
)

type Config struct {
	// Endpoint is the API base, including the version prefix,
	// e.g. https://api.vidora.dev/v1.
	Endpoint   string
	ProjectID  string
	Platform   string
	DatabaseID string
	BucketID   string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

type Client struct {
	http       *http.Client
	endpoint   string
	projectID  string
	platform   string
	databaseID string
	bucketID   string
	logger     zerolog.Logger

	// Session state is explicit: set by CreateSession, cleared by
	// DeleteSession. Never process-global.
	mu      sync.Mutex
	session string
}

var _ store.Store = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("project id is required")
	}
	if cfg.DatabaseID == "" {
		return nil, fmt.Errorf("database id is required")
	}
	if cfg.BucketID == "" {
		return nil, fmt.Errorf("storage bucket id is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		http:       httpClient,
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		projectID:  cfg.ProjectID,
		platform:   cfg.Platform,
		databaseID: cfg.DatabaseID,
		bucketID:   cfg.BucketID,
		logger:     cfg.Logger.With().Str("component", "rest_client").Logger(),
	}, nil
}

func (c *Client) sessionToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Client) setSession(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = token
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	req.Header.Set(HeaderProject, c.projectID)
	if c.platform != "" {
		req.Header.Set(HeaderPlatform, c.platform)
	}
	if tok := c.sessionToken(); tok != "" {
		req.Header.Set(HeaderSession, tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).
			Str("method", req.Method).
			Str("url", req.URL.String()).
			Msg("transport failure")
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, store.ErrNetwork)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapError(req, resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.logger.Error().Err(err).Str("url", req.URL.String()).Msg("bad response body")
			return fmt.Errorf("%s %s: decode response: %w", req.Method, req.URL.Path, store.ErrNetwork)
		}
	}
	return nil
}

func (c *Client) mapError(req *http.Request, resp *http.Response) error {
	var body errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	c.logger.Warn().
		Int("status", resp.StatusCode).
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("detail", body.Error).
		Msg("backend rejected request")

	var sentinel error
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		sentinel = store.ErrNotAuthenticated
	case http.StatusNotFound:
		sentinel = store.ErrNotFound
	case http.StatusConflict:
		sentinel = store.ErrConflict
	case http.StatusBadRequest:
		sentinel = store.ErrInvalidArgument
	default:
		sentinel = store.ErrNetwork
	}
	return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, sentinel)
}
