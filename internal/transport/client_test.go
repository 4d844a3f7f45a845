package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/meridian-io/cms/internal/transport"
	"github.com/meridian-io/cms/pkg/cms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGetRequest(t *testing.T, url string) *http.Request {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	require.NoError(t, err)

	return req
}

func TestClient_Do(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		assert.Equal(t, "cms-test/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "abc", r.URL.Query().Get("channelToken"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "123", "name": "home"}`))
	}))
	defer server.Close()

	client := transport.NewClient(transport.WithUserAgent("cms-test/1.0"))

	resp, err := client.Do(context.Background(), newGetRequest(t, server.URL+"/items/123?channelToken=abc"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id": "123", "name": "home"}`, string(resp.Body))
	assert.Equal(t, "application/json", resp.Headers.Get("Content-Type"))
}

func TestClient_Do_ClassifiesErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"title": "Not Found", "status": 404, "detail": "no such item"}`))
	}))
	defer server.Close()

	client := transport.NewClient()

	resp, err := client.Do(context.Background(), newGetRequest(t, server.URL+"/items/missing"))
	require.ErrorIs(t, err, cms.ErrNotFound)

	// The response is still usable alongside the classification error.
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClient_Do_NotModified(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer server.Close()

	client := transport.NewClient()

	_, err := client.Do(context.Background(), newGetRequest(t, server.URL+"/assets/1/native"))
	require.ErrorIs(t, err, cms.ErrNotModified)
}

func TestClient_DoRaw_SkipsClassification(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	}))
	defer server.Close()

	client := transport.NewClient()

	resp, err := client.DoRaw(context.Background(), newGetRequest(t, server.URL+"/items/raw"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "missing", string(resp.Body))
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	client := transport.NewClient(transport.WithRetryConfig(2, 0, 0))

	resp, err := client.Do(context.Background(), newGetRequest(t, server.URL+"/items"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_RunsInterceptors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "traced", r.Header.Get("X-Trace"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	var observedStatus int

	chain := cms.NewInterceptorChain()
	chain.AddRequestInterceptor(func(ctx context.Context, record *cms.RequestRecord) error {
		record.Headers.Set("X-Trace", "traced")

		return nil
	})
	chain.AddResponseInterceptor(func(ctx context.Context, req *cms.RequestRecord, resp *cms.ResponseRecord) error {
		observedStatus = resp.StatusCode

		return nil
	})

	client := transport.NewClient(transport.WithInterceptors(chain))

	_, err := client.Do(context.Background(), newGetRequest(t, server.URL+"/items"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, observedStatus)
}

func TestClient_RequestInterceptorFailureAborts(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	chain := cms.NewInterceptorChain()
	chain.AddRequestInterceptor(func(ctx context.Context, record *cms.RequestRecord) error {
		return assert.AnError
	})

	client := transport.NewClient(transport.WithInterceptors(chain))

	_, err := client.Do(context.Background(), newGetRequest(t, server.URL+"/items"))
	require.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, calls.Load())
}
