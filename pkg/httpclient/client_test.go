package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_Headers(t *testing.T) {
	t.Parallel()

	var capturedHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		capturedHeaders = r.Header.Clone()
	}))
	defer srv.Close()

	client := NewHTTPClient()
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, UserAgent, capturedHeaders.Get("User-Agent"))
	_, err = uuid.Parse(capturedHeaders.Get(RequestIDHeader))
	require.NoError(t, err)

	// The caller's request is left untouched.
	assert.Empty(t, req.Header.Get(RequestIDHeader))
}

func TestNewHTTPClient_KeepsCallerRequestID(t *testing.T) {
	t.Parallel()

	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(RequestIDHeader)
	}))
	defer srv.Close()

	client := NewHTTPClient(WithUserAgent("custom/1.0"))
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "fixed-id")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "fixed-id", got)
}

func TestNewHTTPClient_Timeout(t *testing.T) {
	t.Parallel()

	client := NewHTTPClient(WithTimeout(5 * time.Second))
	assert.Equal(t, 5*time.Second, client.Timeout)
}
