package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service is the blocking form of the lending API.
// This interface is implemented by *Client and can be used for testing.
type Service interface {
	FetchBooks(ctx context.Context) ([]Book, error)
	AddBook(ctx context.Context, book NewBook) (Book, error)
	Checkout(ctx context.Context, id int, by string) (Book, error)
	DeleteBook(ctx context.Context, id int) error
	DeleteAll(ctx context.Context) error
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// ErrUnexpectedStatus is matched by every *StatusError.
var ErrUnexpectedStatus = errors.New("unexpected status")

// StatusError reports a response whose status the operation does not accept.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const (
	// DefaultBaseURL is the public lending API.
	DefaultBaseURL   = "https://ivy-ios-challenge.herokuapp.com"
	defaultUserAgent = "shelf/0.1"
)

// Client talks to the lending HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a Client for the API rooted at baseURL. An empty baseURL
// uses DefaultBaseURL. Requests carry no timeout beyond the transport's.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{},
		userAgent: defaultUserAgent,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client resolves paths against.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchBooks lists every book.
func (c *Client) FetchBooks(ctx context.Context) ([]Book, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var books []Book
	if err := c.do(ctx, request{method: http.MethodGet, path: []string{"books"}}, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// AddBook creates a book and returns the stored record with its server id.
func (c *Client) AddBook(ctx context.Context, book NewBook) (Book, error) {
	if c == nil {
		return Book{}, fmt.Errorf("client is nil")
	}
	var created Book
	if err := c.do(ctx, request{method: http.MethodPost, path: []string{"books"}, body: book}, &created); err != nil {
		return Book{}, err
	}
	return created, nil
}

// Checkout records that by took out book id. The server stamps the time.
func (c *Client) Checkout(ctx context.Context, id int, by string) (Book, error) {
	if c == nil {
		return Book{}, fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return Book{}, fmt.Errorf("book id required")
	}
	body := struct {
		LastCheckedOutBy string `json:"lastCheckedOutBy"`
	}{LastCheckedOutBy: by}
	var updated Book
	if err := c.do(ctx, request{method: http.MethodPut, path: []string{"books", strconv.Itoa(id)}, body: body}, &updated); err != nil {
		return Book{}, err
	}
	return updated, nil
}

// DeleteBook removes book id.
func (c *Client) DeleteBook(ctx context.Context, id int) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return fmt.Errorf("book id required")
	}
	return c.do(ctx, request{method: http.MethodDelete, path: []string{"books", strconv.Itoa(id)}, accept: deleteAccepted}, nil)
}

// DeleteAll removes every book.
func (c *Client) DeleteAll(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, request{method: http.MethodDelete, path: []string{"clean"}, accept: deleteAccepted}, nil)
}

type request struct {
	method string
	path   []string
	body   any
	accept func(status int) bool
}

func (c *Client) do(ctx context.Context, r request, dest any) error {
	reqURL := c.baseURL.JoinPath(r.path...)

	var payload io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, reqURL.String(), payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.logger.With("request_id", requestID, "method", r.method, "path", reqURL.Path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", "error", err)
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	log.Debug("response received", "status", resp.StatusCode, "elapsed", time.Since(start))

	accept := r.accept
	if accept == nil {
		accept = successStatus
	}
	if !accept(resp.StatusCode) {
		return &StatusError{Method: r.method, Path: reqURL.Path, StatusCode: resp.StatusCode}
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func successStatus(status int) bool {
	return status >= 200 && status < 300
}

func deleteAccepted(status int) bool {
	return status >= http.StatusOK && status <= http.StatusNoContent
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", raw)
	}
	u.Path = "/" + strings.Trim(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
