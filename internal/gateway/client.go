// Package gateway performs the remote API calls behind every action.
//
// A call ends in one of three ways: a decoded Result whose Status is
// "success", a decoded Result with any other (or no) status, or a
// *TransportError when the request never completed. There are no retries.
package gateway

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

	"github.com/Rorical/LeafDesk/internal/metrics"
)

const defaultUserAgent = "LeafDesk/1.0"

// ResponseError is returned by the read-only endpoints when the server
// answers with something other than the expected JSON document.
type ResponseError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *ResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: unexpected response (%d): %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: unexpected response (%d)", e.Endpoint, e.StatusCode)
}

func (e *ResponseError) Unwrap() error { return e.Err }

// Client talks to the diagnosis tracker API.
type Client struct {
	baseURL       string
	sessionCookie string
	userAgent     string
	httpClient    *http.Client
	logger        *slog.Logger
	metrics       *metrics.Gateway
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each call. Zero leaves the platform default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithSessionCookie sends the web session cookie with every call.
func WithSessionCookie(value string) Option {
	return func(c *Client) { c.sessionCookie = value }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithMetrics(m *metrics.Gateway) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a client for baseURL. Redirects are not followed: a form
// submission answers with a redirect and that answer is the outcome.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: defaultUserAgent,
		httpClient: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the API root the client was built for.
func (c *Client) BaseURL() string { return c.baseURL }

// Do performs req once. Application failures come back as a Result with a
// non-success status and a nil error.
func (c *Client) Do(ctx context.Context, req Request) (Result, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	start := time.Now()

	resp, err := c.send(ctx, req)
	if err != nil {
		c.metrics.Observe(req.Method, req.Endpoint, metrics.OutcomeTransport, time.Since(start))
		c.logger.Error("api call failed",
			"request_id", req.ID, "method", req.Method, "path", req.Path, "err", err)
		return Result{}, &TransportError{Method: req.Method, Path: req.Path, Err: err}
	}

	var res Result
	if req.Form != nil {
		res = formResult(req.Landing, resp)
	} else {
		res = decodeResult(resp.status, resp.body)
	}

	outcome := metrics.OutcomeSuccess
	if !res.OK() {
		outcome = metrics.OutcomeApplication
		c.logger.Warn("api call rejected",
			"request_id", req.ID, "method", req.Method, "path", req.Path,
			"http_status", resp.status, "status", res.Status, "message", res.Message)
	} else {
		c.logger.Debug("api call succeeded",
			"request_id", req.ID, "method", req.Method, "path", req.Path)
	}
	c.metrics.Observe(req.Method, req.Endpoint, outcome, time.Since(start))
	return res, nil
}

// response is what send keeps of an HTTP answer.
type response struct {
	status int
	header http.Header
	body   []byte
}

func (c *Client) send(ctx context.Context, req Request) (response, error) {
	var reader io.Reader
	contentType := ""
	switch {
	case req.Form != nil:
		reader = strings.NewReader(req.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.Body != nil:
		b, err := json.Marshal(req.Body)
		if err != nil {
			return response{}, fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(b)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, reader)
	if err != nil {
		return response{}, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", req.ID)
	if c.sessionCookie != "" {
		httpReq.AddCookie(&http.Cookie{Name: "session", Value: c.sessionCookie})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return response{}, err
	}
	defer httpResp.Body.Close()

	resp := response{status: httpResp.StatusCode, header: httpResp.Header}
	resp.body, err = io.ReadAll(httpResp.Body)
	if err != nil {
		return resp, fmt.Errorf("read response: %w", err)
	}
	return resp, nil
}

// decodeResult never fails: a body that is not a JSON envelope (a login
// page, a proxy error) is an application failure with an empty status.
func decodeResult(status int, body []byte) Result {
	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		res = Result{}
	}
	res.StatusCode = status
	res.Raw = json.RawMessage(body)
	return res
}

// getJSON performs a read-only call and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path, endpoint string, out any) error {
	req := Request{ID: uuid.NewString(), Method: http.MethodGet, Path: path, Endpoint: endpoint}
	start := time.Now()

	resp, err := c.send(ctx, req)
	status, body := resp.status, resp.body
	if err != nil {
		c.metrics.Observe(req.Method, endpoint, metrics.OutcomeTransport, time.Since(start))
		c.logger.Error("api read failed", "request_id", req.ID, "path", path, "err", err)
		return &TransportError{Method: req.Method, Path: path, Err: err}
	}
	if status < 200 || status >= 300 {
		c.metrics.Observe(req.Method, endpoint, metrics.OutcomeApplication, time.Since(start))
		return &ResponseError{Endpoint: endpoint, StatusCode: status}
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.metrics.Observe(req.Method, endpoint, metrics.OutcomeApplication, time.Since(start))
		return &ResponseError{Endpoint: endpoint, StatusCode: status, Err: err}
	}
	c.metrics.Observe(req.Method, endpoint, metrics.OutcomeSuccess, time.Since(start))
	return nil
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func escape(id string) string {
	return url.PathEscape(id)
}
