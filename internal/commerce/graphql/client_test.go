package graphql

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-gateway/internal/common/config"
	apperrors "storefront-gateway/internal/common/errors"
	"storefront-gateway/internal/common/logger"
)

func testStoreConfig() config.StoreConfig {
	return config.StoreConfig{
		Domain:         "test-store.example.com",
		AccessToken:    "token",
		APIVersion:     "2024-01",
		MaxRetries:     3,
		RequestTimeout: 2000,
	}
}

// newTestClient wires a client against a stub server with recorded sleeps so
// backoff is observable without waiting.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server, *[]time.Duration) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	var sleeps []time.Duration
	client := New(testStoreConfig(), logger.NewNoOpLogger(),
		WithEndpoint(server.URL),
		WithSleep(func(_ context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			return nil
		}),
	)
	return client, server, &sleeps
}

func TestRequestReturnsData(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token", r.Header.Get("X-Storefront-Access-Token"))
		w.Write([]byte(`{"data": {"shop": {"name": "Test"}}}`))
	})

	resp := client.Request(context.Background(), `query GetShop { shop { name } }`, Options{})

	require.False(t, resp.Failed())
	assert.JSONEq(t, `{"shop": {"name": "Test"}}`, string(resp.Data))
}

func TestRequestCachesWithinTTL(t *testing.T) {
	var calls int32
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"data": {"value": 1}}`))
	})

	opts := Options{CacheTTL: time.Minute}
	first := client.Request(context.Background(), `query Q { value }`, opts)
	second := client.Request(context.Background(), `query Q { value }`, opts)

	require.False(t, first.Failed())
	require.False(t, second.Failed())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second call must be served from cache")
	assert.Equal(t, 1, client.CacheSize())
}

func TestRequestZeroTTLNeverCaches(t *testing.T) {
	var calls int32
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"data": {"value": 1}}`))
	})

	client.Request(context.Background(), `query Q { value }`, Options{})
	client.Request(context.Background(), `query Q { value }`, Options{})

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, 0, client.CacheSize())
}

func TestRequestCacheExpiry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"data": {"value": 1}}`))
	}))
	defer server.Close()

	now := time.Now()
	client := New(testStoreConfig(), logger.NewNoOpLogger(),
		WithEndpoint(server.URL),
		WithClock(func() time.Time { return now }),
	)

	opts := Options{CacheTTL: time.Minute}
	client.Request(context.Background(), `query Q { value }`, opts)

	now = now.Add(2 * time.Minute)
	client.Request(context.Background(), `query Q { value }`, opts)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "expired entry must trigger a fresh call")
}

func TestRequestDistinctVariablesDistinctEntries(t *testing.T) {
	var calls int32
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"data": {"value": 1}}`))
	})

	opts := func(v string) Options {
		return Options{
			Variables: map[string]interface{}{"query": v},
			CacheTTL:  time.Minute,
		}
	}
	client.Request(context.Background(), `query Q($query: String) { value }`, opts("a"))
	client.Request(context.Background(), `query Q($query: String) { value }`, opts("b"))

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, 2, client.CacheSize())
}

func TestRequestThrottledBackoffSchedule(t *testing.T) {
	client, _, sleeps := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	resp := client.Request(context.Background(), `query Q { value }`, Options{})

	require.True(t, resp.Failed())
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}, *sleeps)
	assert.Equal(t, "We are experiencing high traffic. Please wait a moment.", resp.Errors[0].Message)
}

func TestRequestThrottledRecoversMidRetry(t *testing.T) {
	var calls int32
	client, _, sleeps := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"data": {"value": 1}}`))
	})

	resp := client.Request(context.Background(), `query Q { value }`, Options{})

	require.False(t, resp.Failed())
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, *sleeps)
}

func TestRequestServerErrorRetriesImmediately(t *testing.T) {
	var calls int32
	client, _, sleeps := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	resp := client.Request(context.Background(), `query Q { value }`, Options{})

	require.True(t, resp.Failed())
	// Initial attempt plus the full retry budget, no backoff in between.
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
	assert.Empty(t, *sleeps)
	assert.Equal(t, "Something went wrong on our end. We are fixing it.", resp.Errors[0].Message)
}

func TestRequestRemoteErrorsNotRetried(t *testing.T) {
	var calls int32
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"errors": [{"message": "Field 'bogus' doesn't exist"}]}`))
	})

	resp := client.Request(context.Background(), `query Q { bogus }`, Options{CacheTTL: time.Minute})

	require.True(t, resp.Failed())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, 0, client.CacheSize(), "failed outcomes must not be cached")
	assert.Equal(t, "Field 'bogus' doesn't exist", resp.Errors[0].Message)
}

func TestRequestCustomRetryBudget(t *testing.T) {
	var calls int32
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	resp := client.Request(context.Background(), `query Q { value }`, Options{MaxRetries: 1})

	require.True(t, resp.Failed())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRequestConfiguredRetryBudget(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testStoreConfig()
	cfg.MaxRetries = 1
	client := New(cfg, logger.NewNoOpLogger(), WithEndpoint(server.URL))

	resp := client.Request(context.Background(), `query Q { value }`, Options{})

	require.True(t, resp.Failed())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "configured budget means one initial call plus one retry")

	// A per-call budget still overrides the configured one.
	atomic.StoreInt32(&calls, 0)
	resp = client.Request(context.Background(), `query Q { value }`, Options{MaxRetries: 2})
	require.True(t, resp.Failed())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestMockedClientNeverTouchesNetwork(t *testing.T) {
	client := New(config.StoreConfig{}, logger.NewNoOpLogger())

	require.True(t, client.Mocked())

	resp := client.Request(context.Background(), `query Q { value }`, Options{})
	require.True(t, resp.Failed())
	assert.Contains(t, resp.Errors[0].Message, "not configured")
	assert.Equal(t, apperrors.KindConfig, apperrors.KindOf(resp.Err()))
}

func TestResponseErrKinds(t *testing.T) {
	tests := []struct {
		name string
		resp *Response
		kind apperrors.Kind
	}{
		{"config from mocked client", &Response{Errors: []ResponseError{{Message: "m", Kind: apperrors.KindConfig}}}, apperrors.KindConfig},
		{"transient after exhaustion", &Response{Errors: []ResponseError{{Message: "m", Kind: apperrors.KindTransient}}}, apperrors.KindTransient},
		{"remote error defaults to transient", &Response{Errors: []ResponseError{{Message: "m"}}}, apperrors.KindTransient},
		{"empty body", &Response{}, apperrors.KindTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, apperrors.KindOf(tt.resp.Err()))
		})
	}
}

func TestOperationName(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"named query", `query GetProducts($q: String) { products }`, "GetProducts"},
		{"named mutation", `mutation CartCreate($input: CartInput!) { cartCreate }`, "CartCreate"},
		{"fragment first", "fragment F on Product { id }\nquery GetProduct { product }", "GetProduct"},
		{"anonymous", `{ shop { name } }`, "anonymous"},
		{"bare keyword", `query { shop }`, "query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, operationName(tt.query))
		})
	}
}
