package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pot-code/interview-prep/internal/infrastructure/logging"
	"go.elastic.co/apm"
	"go.uber.org/zap"
)

// TokenSource yields the bearer token for the session bound to ctx, an empty token means anonymous
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource
type TokenFunc func(ctx context.Context) (string, error)

// Token implement TokenSource
func (f TokenFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticToken always yields the same token
func StaticToken(token string) TokenSource {
	return TokenFunc(func(context.Context) (string, error) { return token, nil })
}

// Client interview prep API client. It never retries.
type Client struct {
	baseURL *url.URL
	hc      *http.Client
	tokens  TokenSource
}

// Option client option
type Option func(*Client)

// WithTimeout limit a single call, zero keeps calls unbounded
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.hc.Timeout = d
	}
}

// WithHTTPClient replace the underlying http client, apply it before WithTimeout
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.hc = hc
	}
}

// WithTokenSource set where bearer tokens come from
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// New create a Client for the API served at baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	c := &Client{
		baseURL: u,
		hc:      &http.Client{},
		tokens:  StaticToken(""),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// getJSON GET path and decode JSON response into out
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// sendJSON send body as JSON with method, body may be nil
func (c *Client) sendJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, nil), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	ctx := req.Context()
	logger := logging.ExtractLoggerFromContext(ctx)
	span, ctx := apm.StartSpan(ctx, req.Method+" "+req.URL.Path, "external.http")
	defer span.End()

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to load bearer token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.hc.Do(req.WithContext(ctx))
	if err != nil {
		logger.Debug("API call failed", zap.String("api.path", req.URL.Path),
			zap.String("api.method", req.Method), zap.Error(err))
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer res.Body.Close()

	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read response of %s: %w", req.URL.Path, err)
	}
	logger.Debug("API call", zap.String("api.path", req.URL.Path),
		zap.String("api.method", req.Method),
		zap.Int("api.status", res.StatusCode),
		zap.Duration("api.time", time.Since(start)))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return newAPIError(res.StatusCode, body)
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response of %s: %w", req.URL.Path, err)
	}
	return nil
}
