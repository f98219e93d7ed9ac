package braintrust

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vvoland/btprompt/pkg/httpclient"
)

// DefaultBaseURL is the public Braintrust REST API.
const DefaultBaseURL = "https://api.braintrust.dev/v1"

// DefaultPageSize is the page size used when listing prompts.
const DefaultPageSize = 100

// Client is an HTTP client for the Braintrust REST API.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	tracer     trace.Tracer
	pageSize   int

	// projectIDs caches project name -> id lookups for the client's lifetime.
	projectIDs *cache.Cache
}

// ClientOption is a function for configuring the Client
type ClientOption func(*Client)

// WithBaseURL points the client at another API root, e.g. a self-hosted
// data plane.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if u, err := url.Parse(strings.TrimRight(baseURL, "/")); err == nil && baseURL != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithTracer records a span for every request and invocation.
func WithTracer(tracer trace.Tracer) ClientOption {
	return func(c *Client) {
		c.tracer = tracer
	}
}

// WithPageSize sets the page size used by ListPrompts.
func WithPageSize(size int) ClientOption {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// NewClient creates a new Braintrust API client.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("API key is required")
	}

	baseURL, err := url.Parse(DefaultBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	client := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpclient.NewHTTPClient(),
		tracer:     noop.NewTracerProvider().Tracer(""),
		pageSize:   DefaultPageSize,
		projectIDs: cache.New(cache.NoExpiration, 0),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.baseURL.Scheme != "http" && client.baseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: must be an http(s) URL", client.baseURL.String())
	}

	return client, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(endpoint string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + endpoint
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// doRequest performs an HTTP request and handles common response patterns
func (c *Client) doRequest(ctx context.Context, method, endpoint string, query url.Values, body, result any) (err error) {
	ctx, span := c.tracer.Start(ctx, "braintrust.request", trace.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", endpoint),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "request failed")
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(endpoint, query), reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &NetworkError{Err: unwrapURLError(err)}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshaling response: %w", err)
		}
	}

	return nil
}

// unwrapURLError drops the "Get \"https://...\":" prefix added by net/http so
// the message shows the actual reason.
func unwrapURLError(err error) error {
	if urlErr, ok := errors.AsType[*url.Error](err); ok {
		return urlErr.Err
	}
	return err
}
