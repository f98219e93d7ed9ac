package httpclient

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/vvoland/btprompt/pkg/version"
)

// RequestIDHeader carries a per-request UUID so a failing call can be matched
// against the debug log.
const RequestIDHeader = "X-Request-Id"

// UserAgent is the value sent in the User-Agent header of every request.
var UserAgent = fmt.Sprintf("btprompt/%s (%s; %s)", version.Version, runtime.GOOS, runtime.GOARCH)

type options struct {
	timeout   time.Duration
	transport http.RoundTripper
	userAgent string
}

type Opt func(*options)

func WithTimeout(timeout time.Duration) Opt {
	return func(o *options) {
		o.timeout = timeout
	}
}

func WithTransport(rt http.RoundTripper) Opt {
	return func(o *options) {
		o.transport = rt
	}
}

func WithUserAgent(agent string) Opt {
	return func(o *options) {
		o.userAgent = agent
	}
}

type transport struct {
	agent string
	rt    http.RoundTripper
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	r2 := req.Clone(req.Context())
	r2.Header.Set("User-Agent", t.agent)
	if r2.Header.Get(RequestIDHeader) == "" {
		r2.Header.Set(RequestIDHeader, uuid.New().String())
	}

	start := time.Now()
	resp, err := t.rt.RoundTrip(r2)
	if err != nil {
		slog.Debug("HTTP request failed",
			"method", r2.Method,
			"path", r2.URL.Path,
			"request_id", r2.Header.Get(RequestIDHeader),
			"duration", time.Since(start),
			"error", err)
		return nil, err
	}

	slog.Debug("HTTP request",
		"method", r2.Method,
		"path", r2.URL.Path,
		"status", resp.StatusCode,
		"request_id", r2.Header.Get(RequestIDHeader),
		"duration", time.Since(start))
	return resp, nil
}

// NewHTTPClient returns an http.Client that stamps the btprompt User-Agent and
// a request id on every outgoing request.
func NewHTTPClient(opts ...Opt) *http.Client {
	o := options{
		timeout:   60 * time.Second,
		transport: http.DefaultTransport,
		userAgent: UserAgent,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &http.Client{
		Timeout: o.timeout,
		Transport: &transport{
			agent: o.userAgent,
			rt:    o.transport,
		},
	}
}
