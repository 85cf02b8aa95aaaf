package httpcache_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekinsoft/webkit/cache"
	"github.com/ekinsoft/webkit/cache/httpcache"
)

func newClient(t *testing.T, vary ...string) (*http.Client, *atomic.Int64, *httptest.Server) {
	t.Helper()

	var upstream atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstream.Add(1)
		switch r.URL.Path {
		case "/fail":
			http.Error(w, "boom", http.StatusInternalServerError)
		case "/content":
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"title":"Hakkımızda","lang":"`+r.Header.Get("Accept-Language")+`"}`)
		default:
			io.WriteString(w, "hello")
		}
	}))
	t.Cleanup(srv.Close)

	m, err := cache.New(cache.Options{CleanupInterval: -1})
	require.NoError(t, err)
	t.Cleanup(m.Close)

	client := &http.Client{Transport: &httpcache.Transport{
		Cache:       m,
		TTL:         time.Minute,
		VaryHeaders: vary,
	}}
	return client, &upstream, srv
}

func get(t *testing.T, client *http.Client, url string, headers map[string]string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestRepeatedGetHitsUpstreamOnce(t *testing.T) {
	client, upstream, srv := newClient(t)

	for i := 0; i < 3; i++ {
		status, body := get(t, client, srv.URL+"/page", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "hello", body)
	}

	assert.EqualValues(t, 1, upstream.Load())
}

func TestNonGetBypassesCache(t *testing.T) {
	client, upstream, srv := newClient(t)

	for i := 0; i < 2; i++ {
		resp, err := client.Post(srv.URL+"/page", "text/plain", nil)
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.EqualValues(t, 2, upstream.Load())
}

func TestErrorResponsesAreNotCached(t *testing.T) {
	client, upstream, srv := newClient(t)

	for i := 0; i < 2; i++ {
		status, _ := get(t, client, srv.URL+"/fail", nil)
		assert.Equal(t, http.StatusInternalServerError, status)
	}

	assert.EqualValues(t, 2, upstream.Load())
}

func TestVaryHeadersSplitTheCache(t *testing.T) {
	client, upstream, srv := newClient(t, "Accept-Language")

	_, tr := get(t, client, srv.URL+"/content", map[string]string{"Accept-Language": "tr"})
	_, en := get(t, client, srv.URL+"/content", map[string]string{"Accept-Language": "en"})
	_, tr2 := get(t, client, srv.URL+"/content", map[string]string{"Accept-Language": "tr"})

	assert.NotEqual(t, tr, en)
	assert.Equal(t, tr, tr2)
	assert.EqualValues(t, 2, upstream.Load())
}

func TestFetchJSONMemoizesDecodedDocument(t *testing.T) {
	_, upstream, srv := newClient(t)

	m, err := cache.New(cache.Options{CleanupInterval: -1})
	require.NoError(t, err)
	t.Cleanup(m.Close)

	ctx := context.Background()
	plain := &http.Client{} // FetchJSON memoizes itself; no transport cache needed

	for i := 0; i < 3; i++ {
		doc, err := httpcache.FetchJSON(ctx, m, plain, srv.URL+"/content", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, "Hakkımızda", doc.(map[string]any)["title"])
	}

	assert.EqualValues(t, 1, upstream.Load())
}

func TestFetchJSONPropagatesUpstreamFailure(t *testing.T) {
	_, upstream, srv := newClient(t)

	m, err := cache.New(cache.Options{CleanupInterval: -1})
	require.NoError(t, err)
	t.Cleanup(m.Close)

	ctx := context.Background()
	_, err = httpcache.FetchJSON(ctx, m, nil, srv.URL+"/fail", time.Minute)
	require.Error(t, err)

	// The failure was not cached: a second call goes upstream again.
	_, err = httpcache.FetchJSON(ctx, m, nil, srv.URL+"/fail", time.Minute)
	require.Error(t, err)
	assert.EqualValues(t, 2, upstream.Load())
}
