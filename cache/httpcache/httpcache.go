// Package httpcache memoizes HTTP GET responses through a cache
// manager. It is the main consumer of the cache's structured-value
// path: whole responses go in, whole responses come out.
package httpcache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"time"

	"github.com/ekinsoft/webkit/cache"
)

// Response is the cached shape of an HTTP response. Bodies are held
// in full; this cache is for content fetches, not streaming.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

/*
Transport is an http.RoundTripper that serves repeated GETs from the
cache.

RULES:
------
- Only GET requests touch the cache; everything else goes straight
  through, for both lookup and storage.
- Only successful responses (status below 400) are stored.
- The cache key covers method, URL, the configured vary headers, and
  the request body.

The manager must use the memory backend. Serializing backends (file,
session) return cached Response values as generic decoded JSON, which
the Transport treats as a miss: correct answers, but every request
goes upstream. Use FetchJSON for content that must memoize across a
serializing backend.
*/
type Transport struct {

	// Base performs the real round trips. Defaults to
	// http.DefaultTransport.
	Base http.RoundTripper

	// Cache holds the memoized responses.
	Cache *cache.Manager

	// TTL for stored responses. Zero uses the manager's default.
	TTL time.Duration

	// VaryHeaders are request headers that participate in the cache
	// key, e.g. Accept-Language for bilingual content.
	VaryHeaders []string
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.base().RoundTrip(req)
	}

	key, err := t.cacheKey(req)
	if err != nil {
		return t.base().RoundTrip(req)
	}

	if v, ok := t.Cache.Get(key); ok {
		if cached, ok := v.(Response); ok {
			return cached.httpResponse(req), nil
		}
	}

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}

	cached := Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header.Clone(),
		Body:       body,
	}
	if t.TTL > 0 {
		t.Cache.SetTTL(key, cached, t.TTL)
	} else {
		t.Cache.Set(key, cached)
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

// cacheKey hashes everything that distinguishes one GET from another.
func (t *Transport) cacheKey(req *http.Request) (string, error) {
	h := fnv.New64a()
	io.WriteString(h, req.Method)
	io.WriteString(h, "\x00")
	io.WriteString(h, req.URL.String())
	for _, name := range t.VaryHeaders {
		io.WriteString(h, "\x00")
		io.WriteString(h, name)
		io.WriteString(h, "=")
		io.WriteString(h, req.Header.Get(name))
	}
	if req.Body != nil && req.GetBody != nil {
		rc, err := req.GetBody()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		io.WriteString(h, "\x00")
		if _, err := io.Copy(h, rc); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("http:%016x", h.Sum64()), nil
}

func (r Response) httpResponse(req *http.Request) *http.Response {
	return &http.Response{
		StatusCode:    r.StatusCode,
		Status:        r.Status,
		Header:        r.Header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(r.Body)),
		ContentLength: int64(len(r.Body)),
		Request:       req,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
	}
}

/*
FetchJSON GETs url through the given client, decodes the body as
JSON, and memoizes the decoded document in the manager. Repeated
fetches of the same url within the TTL never leave the process.

This is the convenience path for content that is requested over and
over, such as CMS pages during site generation.
*/
func FetchJSON(ctx context.Context, m *cache.Manager, client *http.Client, url string, ttl time.Duration) (any, error) {
	if client == nil {
		client = http.DefaultClient
	}
	return m.GetOrSetTTL(ctx, "json:"+url, ttl, func(ctx context.Context) (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("httpcache: fetch %s: %s", url, resp.Status)
		}
		var doc any
		if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
			return nil, fmt.Errorf("httpcache: decode %s: %w", url, err)
		}
		return doc, nil
	})
}
