package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rce-portal/portal/internal/session"
)

const (
	// BasePath prefixes every backend call; proxies strip it before forwarding
	BasePath = "/api"

	// DefaultTimeout is the per-request ceiling
	DefaultTimeout = 10 * time.Second

	DefaultLoginPath = "/login"
)

// Options configures a Client
type Options struct {
	// Origin is scheme://host[:port] of the shell, BasePath is appended
	Origin    string
	Store     session.TokenStore
	Navigator Navigator
	LoginPath string
	Timeout   time.Duration
	Transport http.RoundTripper
	Logger    zerolog.Logger
}

// Client represents an HTTP client for the backend API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a new API client. All requests go through the session interceptors.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	loginPath := opts.LoginPath
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}

	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	store := opts.Store
	if store == nil {
		store = session.NewMemoryStore()
	}

	return &Client{
		baseURL: strings.TrimRight(opts.Origin, "/") + BasePath,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &authTransport{
				base:      base,
				store:     store,
				navigator: opts.Navigator,
				loginPath: loginPath,
				logger:    opts.Logger,
			},
		},
		logger: opts.Logger,
	}
}

// Get issues a GET request and decodes the JSON response into out (if non-nil)
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(method, BasePath+path, resp.StatusCode, respBody)
		c.logger.Debug().
			Str("method", method).
			Str("path", apiErr.Path).
			Int("status", resp.StatusCode).
			Msg("API request failed")
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
