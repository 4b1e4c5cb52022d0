package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echo struct {
	Value string `json:"value"`
}

func newRetryingConnector(url string) *Connector {
	return NewConnector(&ConnectorConfig{
		BaseURL: url,
		Retry:   []retry.Option{retry.Attempts(3), retry.Delay(time.Millisecond)},
	}, WithRequestLogging(), WithAuthToken("secret"))
}

func TestDoRequest_DecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in echo
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(echo{Value: in.Value + "!"})
	}))
	defer srv.Close()

	var out echo
	err := newRetryingConnector(srv.URL).DoRequest(context.Background(), http.MethodPost, "/echo", echo{Value: "hi"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "hi!", out.Value)
}

func TestDoRequest_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(echo{Value: "ok"})
	}))
	defer srv.Close()

	var out echo
	err := newRetryingConnector(srv.URL).DoRequest(context.Background(), http.MethodPost, "/", echo{Value: "x"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Value)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDoRequest_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := newRetryingConnector(srv.URL).DoRequest(context.Background(), http.MethodGet, "/", nil, nil)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDoRequest_WithoutRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := newRetryingConnector(srv.URL).DoRequest(context.Background(), http.MethodPost, "/", nil, nil, WithoutRetry())
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&NetworkError{Err: errors.New("connection refused")}))
	assert.False(t, IsRetryable(&NetworkError{Err: context.Canceled}))
	assert.True(t, IsRetryable(&HTTPError{StatusCode: http.StatusInternalServerError}))
	assert.False(t, IsRetryable(&HTTPError{StatusCode: http.StatusNotFound}))
	assert.False(t, IsRetryable(errors.New("decode response")))
}

func TestWithAuthHeader_CustomHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Chroma-Token"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(echo{Value: "ok"})
	}))
	defer srv.Close()

	conn := NewConnector(&ConnectorConfig{BaseURL: srv.URL}, WithAuthHeader("X-Chroma-Token", "secret"))

	var out echo
	require.NoError(t, conn.DoRequest(context.Background(), http.MethodGet, "/", nil, &out))
	assert.Equal(t, "ok", out.Value)
}

func TestNewClient_TimeoutsKeepDefaultsForZeroFields(t *testing.T) {
	client := newClient(
		WithTimeouts(Timeouts{Request: 3 * time.Second}),
		WithMaxIdleConnsPerHost(0),
	)

	assert.Equal(t, 3*time.Second, client.Timeout)
	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, defaultTimeouts.ResponseHeader, transport.ResponseHeaderTimeout)
	assert.Equal(t, 10, transport.MaxIdleConnsPerHost)
}
