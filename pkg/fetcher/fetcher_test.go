package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/dropscope/pkg/domain"
	"github.com/umputun/dropscope/pkg/fetcher/mocks"
)

func testConfig() Config {
	return Config{Timeout: 2 * time.Second, MaxRetries: 3, BaseBackoff: time.Millisecond}
}

func TestFetcher_Success(t *testing.T) {
	var gotUA, gotLang, gotMode string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA, gotLang, gotMode = r.UserAgent(), r.Header.Get("Accept-Language"), r.Header.Get("Sec-Fetch-Mode")
		_, _ = w.Write([]byte("<html>domains</html>"))
	}))
	defer ts.Close()

	f := New(testConfig(), nil)
	resp, err := f.Fetch(context.Background(), ts.URL, Options{Source: "test"})
	require.NoError(t, err)
	assert.Equal(t, "<html>domains</html>", string(resp.Body))
	assert.Equal(t, 1, resp.Attempts)
	assert.Empty(t, resp.Proxy)
	assert.Contains(t, defaultUserAgents, gotUA)
	assert.Equal(t, resp.UserAgent, gotUA)
	assert.NotEmpty(t, gotLang)
	assert.Equal(t, "navigate", gotMode)
}

func TestFetcher_RetryOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			_, _ = w.Write([]byte("ok"))
		}
	}))
	defer ts.Close()

	f := New(testConfig(), nil)
	resp, err := f.Fetch(context.Background(), ts.URL, Options{Source: "test"})
	require.NoError(t, err)
	assert.Equal(t, "ok", string(resp.Body))
	assert.Equal(t, 3, resp.Attempts)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetcher_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	f := New(testConfig(), nil)
	_, err := f.Fetch(context.Background(), ts.URL, Options{Source: "test"})
	require.Error(t, err)

	var fe *domain.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusForbidden, fe.StatusCode)
	assert.Equal(t, 1, fe.Attempts)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetcher_ExhaustedRetries(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	f := New(testConfig(), nil)
	_, err := f.Fetch(context.Background(), ts.URL, Options{Source: "test", MaxRetries: 4})
	var fe *domain.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 4, fe.Attempts)
	assert.Equal(t, http.StatusBadGateway, fe.StatusCode)
	assert.Equal(t, int32(4), calls.Load())
	assert.Contains(t, fe.Error(), "status 502")
}

func TestFetcher_TransportErrorWrapped(t *testing.T) {
	f := New(testConfig(), nil)
	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/", Options{Source: "test", MaxRetries: 2})
	var fe *domain.FetchError
	require.True(t, errors.As(err, &fe), "transport errors come out as FetchError, got %T", err)
	assert.Equal(t, 2, fe.Attempts)
	assert.Equal(t, 0, fe.StatusCode)
}

func TestFetcher_ContextCanceled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	cfg := testConfig()
	cfg.BaseBackoff = time.Hour
	f := New(cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	st := time.Now()
	_, err := f.Fetch(ctx, ts.URL, Options{Source: "test"})
	require.Error(t, err)
	assert.Less(t, time.Since(st), 5*time.Second, "backoff sleep interrupted by context")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	var fe *domain.FetchError
	assert.True(t, errors.As(err, &fe))
}

func TestFetcher_BodyLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer ts.Close()

	cfg := testConfig()
	cfg.MaxBodySize = 10
	f := New(cfg, nil)
	resp, err := f.Fetch(context.Background(), ts.URL, Options{Source: "test"})
	require.NoError(t, err)
	assert.Len(t, resp.Body, 10)
	assert.True(t, resp.Truncated)
}

func TestFetcher_RateLimitPerSource(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer ts.Close()

	cfg := testConfig()
	cfg.RateLimit = 100 * time.Millisecond
	f := New(cfg, nil)

	st := time.Now()
	for range 3 {
		_, err := f.Fetch(context.Background(), ts.URL, Options{Source: "a"})
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(st), 190*time.Millisecond, "three calls to one source are spaced")

	// another source has its own limiter
	st = time.Now()
	_, err := f.Fetch(context.Background(), ts.URL, Options{Source: "b"})
	require.NoError(t, err)
	assert.Less(t, time.Since(st), 90*time.Millisecond)
}

// proxyServer acts as an http forward proxy answering every request itself
func proxyServer(t *testing.T, hits *atomic.Int32) *domain.ProxyEndpoint {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("via proxy"))
	}))
	t.Cleanup(ts.Close)
	u, err := url.Parse(ts.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return &domain.ProxyEndpoint{Host: u.Hostname(), Port: port, Protocol: "http"}
}

func TestFetcher_ProxyFailsCheckFallsBackToNextEntry(t *testing.T) {
	var deadHits, liveHits atomic.Int32
	dead := proxyServer(t, &deadHits)
	live := proxyServer(t, &liveHits)

	rotation := []*domain.ProxyEndpoint{dead, live}
	var idx atomic.Int32
	pool := &mocks.ProxySourceMock{
		NextFunc: func() *domain.ProxyEndpoint {
			return rotation[int(idx.Add(1)-1)%len(rotation)]
		},
		CheckFunc: func(ctx context.Context, ep *domain.ProxyEndpoint) bool {
			return ep == live
		},
	}

	f := New(testConfig(), pool)
	resp, err := f.Fetch(context.Background(), "http://source.test/list", Options{Source: "s", UseProxy: true})
	require.NoError(t, err)
	assert.Equal(t, "via proxy", string(resp.Body))
	assert.Equal(t, live.String(), resp.Proxy)
	assert.Equal(t, int32(0), deadHits.Load())
	assert.Equal(t, int32(1), liveHits.Load())
	assert.Len(t, pool.CheckCalls(), 2)
}

func TestFetcher_ProxyFailsCheckFallsBackToDirect(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("direct"))
	}))
	defer ts.Close()

	var hits atomic.Int32
	dead := proxyServer(t, &hits)
	pool := &mocks.ProxySourceMock{
		NextFunc:  func() *domain.ProxyEndpoint { return dead },
		CheckFunc: func(ctx context.Context, ep *domain.ProxyEndpoint) bool { return false },
	}

	cfg := testConfig()
	cfg.ProxyTries = 2
	f := New(cfg, pool)
	resp, err := f.Fetch(context.Background(), ts.URL, Options{Source: "s", UseProxy: true})
	require.NoError(t, err, "logical request completes, not aborted by the dead proxy")
	assert.Equal(t, "direct", string(resp.Body))
	assert.Empty(t, resp.Proxy)
	assert.Len(t, pool.CheckCalls(), 2)
	assert.Equal(t, int32(0), hits.Load())
}

func TestFetcher_RequireProxy(t *testing.T) {
	pool := &mocks.ProxySourceMock{
		NextFunc:  func() *domain.ProxyEndpoint { return nil },
		CheckFunc: func(ctx context.Context, ep *domain.ProxyEndpoint) bool { return true },
	}
	f := New(testConfig(), pool)
	_, err := f.Fetch(context.Background(), "http://source.test/", Options{Source: "s", RequireProxy: true, MaxRetries: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoProxy)
	var fe *domain.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 2, fe.Attempts)
	assert.Empty(t, pool.CheckCalls())

	t.Run("no pool configured", func(t *testing.T) {
		f := New(testConfig(), nil)
		_, err := f.Fetch(context.Background(), "http://source.test/", Options{Source: "s", RequireProxy: true, MaxRetries: 1})
		assert.ErrorIs(t, err, domain.ErrNoProxy)
	})
}

func TestBackoff(t *testing.T) {
	base := 100 * time.Millisecond
	for attempt := range 4 {
		d := backoff(attempt, base)
		low := base << attempt
		assert.GreaterOrEqual(t, d, low)
		assert.Less(t, d, low+base)
	}
}

func TestIdentity(t *testing.T) {
	id := NewIdentity([]string{"ua-1", "ua-2"})
	seen := map[string]bool{}
	for range 100 {
		seen[id.Next()] = true
	}
	assert.Equal(t, map[string]bool{"ua-1": true, "ua-2": true}, seen)

	assert.Contains(t, defaultUserAgents, NewIdentity(nil).Next())
}

func TestRetryableStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, retryableStatus(code), "code %d", code)
	}
	for _, code := range []int{400, 401, 403, 404, 410} {
		assert.False(t, retryableStatus(code), "code %d", code)
	}
}
