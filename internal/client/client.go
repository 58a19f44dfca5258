// Package client talks to the /students REST resource.
//
// Every method issues exactly one HTTP request. There are no retries: a
// failure is returned to the caller immediately as a *RequestFailedError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aanand-mishra/students-manager/internal/types"
)

// ResourcePath is the collection path appended to the base URL.
const ResourcePath = "/students"

// RequestIDHeader carries a per-request identifier the backend echoes in its logs.
const RequestIDHeader = "X-Request-ID"

// Client is safe for concurrent use.
type Client struct {
	base    string
	http    *http.Client
	timeout time.Duration
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request. Zero means no per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a Client for the backend at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("client.New: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client.New: base url %q must be http or https", baseURL)
	}

	c := &Client{
		base: strings.TrimRight(u.String(), "/") + ResourcePath,
		http: http.DefaultClient,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// List fetches every student.
func (c *Client) List(ctx context.Context) ([]types.Student, error) {
	var students []types.Student
	if err := c.do(ctx, "List", http.MethodGet, "", nil, &students, MsgFetchStudents); err != nil {
		return nil, err
	}
	if students == nil {
		students = []types.Student{}
	}
	return students, nil
}

// Get fetches one student. A missing record yields an error matching ErrNotFound.
func (c *Client) Get(ctx context.Context, id int64) (types.Student, error) {
	var s types.Student
	if err := c.do(ctx, "Get", http.MethodGet, idPath(id), nil, &s, MsgFetchStudent); err != nil {
		return types.Student{}, err
	}
	return s, nil
}

// Create posts in and returns the stored record with its server-assigned ID.
func (c *Client) Create(ctx context.Context, in types.StudentInput) (types.Student, error) {
	var s types.Student
	if err := c.do(ctx, "Create", http.MethodPost, "", in, &s, MsgAddStudent); err != nil {
		return types.Student{}, err
	}
	return s, nil
}

// Update replaces the editable fields of student id.
func (c *Client) Update(ctx context.Context, id int64, in types.StudentInput) (types.Student, error) {
	var s types.Student
	if err := c.do(ctx, "Update", http.MethodPut, idPath(id), in, &s, MsgUpdateStudent); err != nil {
		return types.Student{}, err
	}
	return s, nil
}

// Remove deletes student id. Any response body is ignored.
func (c *Client) Remove(ctx context.Context, id int64) error {
	return c.do(ctx, "Remove", http.MethodDelete, idPath(id), nil, nil, MsgDeleteStudent)
}

func idPath(id int64) string {
	return "/" + strconv.FormatInt(id, 10)
}

// do performs one request. payload (if non-nil) is sent as JSON; a 2xx body is
// decoded into out (if non-nil).
func (c *Client) do(ctx context.Context, op, method, suffix string, payload, out any, fallback string) error {
	fail := func(kind Kind, status int, msg string, err error) error {
		return &RequestFailedError{Op: op, Kind: kind, StatusCode: status, Message: msg, Err: err}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return fail(NetworkFailure, 0, fallback, fmt.Errorf("encode body: %w", err))
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+suffix, body)
	if err != nil {
		return fail(NetworkFailure, 0, fallback, fmt.Errorf("build request: %w", err))
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("request failed",
			slog.String("method", method),
			slog.String("url", req.URL.String()),
			slog.String("request_id", reqID),
			slog.String("error", err.Error()))
		return fail(NetworkFailure, 0, fallback, err)
	}
	defer resp.Body.Close()

	c.log.Debug("request completed",
		slog.String("method", method),
		slog.String("url", req.URL.String()),
		slog.String("request_id", reqID),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(NetworkFailure, resp.StatusCode, fallback, fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(HTTPError, resp.StatusCode, serverMessage(raw, fallback), nil)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fail(HTTPError, resp.StatusCode, fallback, fmt.Errorf("decode body: %w", err))
	}
	return nil
}

// serverMessage prefers a "message" field in an error body, then "error".
func serverMessage(raw []byte, fallback string) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return fallback
	}
	if m := strings.TrimSpace(body.Message); m != "" {
		return m
	}
	if m := strings.TrimSpace(body.Error); m != "" {
		return m
	}
	return fallback
}
