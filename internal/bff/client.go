package bff

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

	"github.com/angelmondragon/bottle-amigo/pkg/config"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/logger"
	"github.com/angelmondragon/bottle-amigo/pkg/metrics"
)

const responseBodyReadLimit int64 = 64 * 1024

// ErrUnauthorized is returned for any 401. Callers must not retry.
var ErrUnauthorized = errors.New("bff: unauthorized")

// APIError is a non-2xx, non-401 response from the BFF.
type APIError struct {
	Status  int
	Message string
	Path    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bff %s: %d %s", e.Path, e.Status, e.Message)
}

// StatusCode exposes the upstream status for error dumps.
func (e *APIError) StatusCode() int {
	return e.Status
}

// Code maps the upstream status onto the local error taxonomy.
func (e *APIError) Code() pkgerrors.Code {
	return pkgerrors.CodeForStatus(e.Status)
}

// UnauthorizedHook runs once per 401 with the context of the failing call.
type UnauthorizedHook func(ctx context.Context)

// Client wraps the BFF REST API. It holds no per-user state; the bearer
// token travels on the request context.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	logg           *logger.Logger
	metrics        *metrics.BFFMetrics
	loading        *Loading
	onUnauthorized UnauthorizedHook
	portal         string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger for failed calls.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		c.logg = logg
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *metrics.BFFMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLoading wires a loading indicator. Only the consumer portal uses one.
func WithLoading(l *Loading) Option {
	return func(c *Client) {
		c.loading = l
	}
}

// WithUnauthorizedHook registers the session-clearing callback for 401s.
func WithUnauthorizedHook(hook UnauthorizedHook) Option {
	return func(c *Client) {
		c.onUnauthorized = hook
	}
}

// WithPortal labels metrics with the portal the client serves.
func WithPortal(portal string) Option {
	return func(c *Client) {
		c.portal = portal
	}
}

// NewClient builds a BFF client from config.
func NewClient(cfg config.BFFConfig, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("bff base url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    base,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Loading returns the wired loading indicator, or nil.
func (c *Client) Loading() *Loading {
	return c.loading
}

// Call performs one JSON request. body may be nil; out may be nil to
// discard the response.
func (c *Client) Call(ctx context.Context, method, path string, body any, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "bff client not configured")
	}

	if c.loading != nil {
		c.loading.Begin()
		defer c.loading.End()
	}
	c.metrics.AddInFlight(c.portal, 1)
	defer c.metrics.AddInFlight(c.portal, -1)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal bff request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build bff request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(method, 0, time.Since(started))
		c.logFailure(ctx, method, path, 0, err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute bff request")
	}
	defer func() { _ = resp.Body.Close() }()
	c.metrics.ObserveRequest(method, resp.StatusCode, time.Since(started))

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return ErrUnauthorized
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read bff response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(raw, resp.StatusCode),
			Path:    path,
		}
		c.logFailure(ctx, method, path, resp.StatusCode, apiErr)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode bff response")
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.Call(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	if body == nil {
		body = struct{}{}
	}
	return c.Call(ctx, http.MethodPost, path, body, out)
}

func (c *Client) logFailure(ctx context.Context, method, path string, status int, err error) {
	if c.logg == nil {
		return
	}
	ctx = c.logg.WithFields(ctx, map[string]any{
		"method": method,
		"path":   path,
		"status": status,
	})
	if status == 0 || status >= 500 {
		c.logg.Error(ctx, "bff.call.failed", err)
		return
	}
	c.logg.Warn(ctx, "bff.call.failed")
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
}

// errorMessage prefers the body's "error" field, then "message", then the
// HTTP status text.
func errorMessage(raw []byte, status int) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if msg := strings.TrimSpace(envelope.Error); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(envelope.Message); msg != "" {
			return msg
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", status)
}

// IsNotFound reports whether err is a 404 from the BFF.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// MessageOf returns the server-supplied message when err is an APIError.
func MessageOf(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}
