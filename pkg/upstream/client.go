// Package upstream fetches JSON documents and exposition text from the
// services the gateway fronts.
package upstream

import (
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
	"unicode/utf8"

	"github.com/gameplay-tools/gameplay-mcp/pkg/logging"
)

// DefaultTimeout applies when a request does not set its own.
const DefaultTimeout = 30 * time.Second

// maxBodySize caps how much of an upstream response is read.
const maxBodySize = 64 << 20

// userAgent is sent with every request.
const userAgent = "gameplay-mcp"

// ErrInvalidJSON is returned when a JSON upstream answers with a body that
// is not JSON.
var ErrInvalidJSON = errors.New("upstream returned invalid JSON")

// ErrBodyTooLarge is returned when a response body is larger than the
// client reads.
var ErrBodyTooLarge = errors.New("upstream response too large")

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s returned status %d", e.URL, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Observer is told about every completed outbound request. Status is 0 when
// no response arrived.
type Observer func(upstream string, status int, d time.Duration)

// Client issues GET requests to upstream services.
type Client struct {
	httpClient *http.Client
	log        *slog.Logger
	observe    Observer
	maxBody    int64
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = logging.OrNop(log)
	}
}

// WithObserver registers a callback invoked after every request.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observe = o
	}
}

// New creates a Client. Timeouts are applied per request, so the default
// HTTP client carries none of its own.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 60 * time.Second,
			},
		},
		log:     logging.Nop(),
		maxBody: maxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request describes one GET.
type Request struct {
	// Upstream names the collaborator for logs and metrics.
	Upstream string
	// URL is the base URL or full endpoint URL.
	URL string
	// Path is appended to URL when set.
	Path    string
	Query   url.Values
	Timeout time.Duration
}

// Target returns the full request URL.
func (r Request) Target() (string, error) {
	u, err := url.Parse(strings.TrimRight(r.URL, "/") + r.Path)
	if err != nil {
		return "", fmt.Errorf("invalid upstream URL: %w", err)
	}
	if len(r.Query) > 0 {
		q := u.Query()
		for k, vs := range r.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// GetJSON fetches a JSON document and returns it verbatim.
func (c *Client) GetJSON(ctx context.Context, r Request) (json.RawMessage, error) {
	body, err := c.get(ctx, r, "application/json")
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, ErrInvalidJSON
	}
	return json.RawMessage(body), nil
}

// GetText fetches a text document, such as a metrics exposition.
func (c *Client) GetText(ctx context.Context, r Request) (string, error) {
	body, err := c.get(ctx, r, "text/plain;version=0.0.4;q=1,*/*;q=0.1")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) get(ctx context.Context, r Request, accept string) ([]byte, error) {
	target, err := r.Target()
	if err != nil {
		return nil, err
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.done(r.Upstream, 0, start)
		c.log.Warn("upstream request failed", "upstream", r.Upstream, "url", target, "error", err)
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	c.done(r.Upstream, resp.StatusCode, start)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		c.log.Warn("upstream response too large",
			"upstream", r.Upstream, "url", target, "limit", c.maxBody)
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrBodyTooLarge, target, c.maxBody)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("upstream returned error status",
			"upstream", r.Upstream, "url", target, "status", resp.StatusCode)
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: target, Body: snippet(body)}
	}

	c.log.Debug("upstream request completed",
		"upstream", r.Upstream, "url", target, "status", resp.StatusCode,
		"bytes", len(body), "duration", time.Since(start))
	return body, nil
}

func (c *Client) done(upstream string, status int, start time.Time) {
	if c.observe != nil {
		c.observe(upstream, status, time.Since(start))
	}
}

const snippetSize = 200

// snippet returns a short single-line excerpt of an error body.
func snippet(body []byte) string {
	s := strings.Join(strings.Fields(string(body)), " ")
	if len(s) <= snippetSize {
		return s
	}
	cut := snippetSize
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
