// ABOUTME: HTTP client for the autoclick bot control API
// ABOUTME: Wraps status, control, screenshot and log calls with uniform error classification

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds every request made by the client
const DefaultTimeout = 30 * time.Second

// ErrUnauthorized is returned for any 401 response
var ErrUnauthorized = errors.New("invalid master password")

// APIError is an application-level failure reported as {success:false, error}
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client is the API client for the bot control backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithTimeout overrides the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// envelope is the {success, data, error} wrapper every endpoint returns
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type controlRequest struct {
	MasterPassword string `json:"masterPassword"`
	Action         Action `json:"action"`
	TargetLevel    *int   `json:"targetLevel,omitempty"`
}

type screenshotRequest struct {
	MasterPassword string `json:"masterPassword"`
}

// Status calls GET /api/status
func (c *Client) Status(ctx context.Context, password string) (*BotStatus, error) {
	q := url.Values{}
	q.Set("masterPassword", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/status?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var status BotStatus
	if err := c.do(ctx, req, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Control calls POST /api/control with START, STOP or CONTINUE
func (c *Client) Control(ctx context.Context, password string, action Action, targetLevel *int) (*BotStatus, error) {
	if !action.IsControl() {
		return nil, fmt.Errorf("unsupported control action %q", action)
	}

	body, err := json.Marshal(controlRequest{
		MasterPassword: password,
		Action:         action,
		TargetLevel:    targetLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/control", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var status BotStatus
	if err := c.do(ctx, req, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// RequestScreenshot calls POST /api/control/screenshot
// The capture itself completes asynchronously on the bot side.
func (c *Client) RequestScreenshot(ctx context.Context, password string) error {
	body, err := json.Marshal(screenshotRequest{MasterPassword: password})
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/control/screenshot", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(ctx, req, nil)
}

// Logs calls GET /api/logs for one page of run history
func (c *Client) Logs(ctx context.Context, password string, limit, offset int) (*LogPage, error) {
	q := url.Values{}
	q.Set("masterPassword", password)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/logs?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var page LogPage
	if err := c.do(ctx, req, &page); err != nil {
		return nil, err
	}
	if page.Logs == nil {
		page.Logs = []LogEntry{}
	}
	return &page, nil
}

// do sends the request and decodes the envelope into out (which may be nil)
func (c *Client) do(ctx context.Context, req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Drain so the connection can be reused
		io.Copy(io.Discard, resp.Body)
		return ErrUnauthorized
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("backend returned status %d", resp.StatusCode)
		}
		return fmt.Errorf("invalid response from backend: %w", err)
	}

	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("backend returned status %d", resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("invalid response from backend: missing data")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("request canceled")
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// IsUnauthorized reports whether err is an authorization failure
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// AsAPIError extracts an application-level failure from err
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
