// Package checkclient calls a remote oh-my-chess server.
package checkclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/park285/oh-my-chess/pkg/movedto"
)

// HeaderProvider supplies extra headers for each request.
type HeaderProvider func() map[string]string

// APIError is a non-2xx reply. Err holds the decoded error body when the
// server sent one.
type APIError struct {
	Status int
	Err    movedto.DomainError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("oh-my-chess api error: status=%d code=%s message=%s", e.Status, e.Err.Code, e.Err.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

type Client struct {
	baseURL string
	http    *fasthttp.Client
	headers HeaderProvider

	defaultTimeout time.Duration
	retryMax       int
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.defaultTimeout = d
		}
	}
}

func WithHeaderProvider(h HeaderProvider) Option {
	return func(c *Client) { c.headers = h }
}

func WithRetry(max int) Option {
	return func(c *Client) { c.retryMax = max }
}

// WithDial replaces the TCP dialer, e.g. with an in-memory listener.
func WithDial(dial func(addr string) (net.Conn, error)) Option {
	return func(c *Client) { c.http.Dial = dial }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:           &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 64},
		defaultTimeout: 10 * time.Second,
		retryMax:       3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate is idempotent and retried on 5xx.
func (c *Client) Validate(ctx context.Context, req movedto.ValidateRequest) (*movedto.ValidateResponse, error) {
	var resp movedto.ValidateResponse
	if err := c.doJSON(ctx, fasthttp.MethodPost, "/v1/moves/validate", req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) PathCheck(ctx context.Context, req movedto.PathRequest) (bool, error) {
	var resp movedto.PathResponse
	if err := c.doJSON(ctx, fasthttp.MethodPost, "/v1/paths/check", req, &resp, true); err != nil {
		return false, err
	}
	return resp.Clear, nil
}

// Render returns the PNG bytes.
func (c *Client) Render(ctx context.Context, req movedto.RenderRequest) ([]byte, error) {
	return c.do(ctx, fasthttp.MethodPost, "/v1/boards/render", req, true)
}

func (c *Client) RecentChecks(ctx context.Context, limit int) ([]movedto.CheckRecord, error) {
	path := "/v1/checks/recent"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var resp movedto.RecentChecksResponse
	if err := c.doJSON(ctx, fasthttp.MethodGet, path, nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Checks, nil
}

func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, fasthttp.MethodGet, "/healthz", nil, false)
	return err
}

func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any, retry bool) error {
	body, err := c.do(ctx, method, path, in, retry)
	if err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in any, retry bool) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	req.Header.SetContentType("application/json")
	if c.headers != nil {
		for k, v := range c.headers() {
			if strings.TrimSpace(k) != "" && strings.TrimSpace(v) != "" {
				req.Header.Set(k, v)
			}
		}
	}
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		req.SetBody(payload)
	}

	attempts := 1
	if retry && c.retryMax > 1 {
		attempts = c.retryMax
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := c.http.DoDeadline(req, resp, c.computeDeadline(ctx))
		if err == nil {
			status := resp.StatusCode()
			if status >= 200 && status < 300 {
				return append([]byte(nil), resp.Body()...), nil
			}
			apiErr := &APIError{Status: status}
			if jerr := json.Unmarshal(resp.Body(), &struct {
				Error *movedto.DomainError `json:"error"`
			}{Error: &apiErr.Err}); jerr != nil || apiErr.Err.Code == "" {
				apiErr.Err = movedto.DomainError{Code: movedto.CodeInternal, Message: truncate(string(resp.Body()), 512)}
			}
			if !shouldRetryStatus(status) {
				return nil, apiErr
			}
			err = apiErr
		} else {
			err = fmt.Errorf("request failed: %w", err)
		}
		lastErr = err
		if attempt == attempts {
			break
		}
		if sleepErr := sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
			return nil, lastErr
		}
	}
	if lastErr == nil {
		lastErr = errors.New("unknown error")
	}
	return nil, lastErr
}

func (c *Client) computeDeadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(c.defaultTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	return time.Duration(1<<uint(attempt-1)) * 100 * time.Millisecond // 100ms, 200ms ...
}

func shouldRetryStatus(code int) bool {
	switch code {
	case 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
