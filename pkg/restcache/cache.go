package restcache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"
)

// CachedResponse is the subset of an HTTP response worth replaying.
type CachedResponse struct {
	StatusCode int               `json:"status_code"`
	Body       []byte            `json:"body"`
	Header     map[string]string `json:"header"`
}

// Store is the cache backend contract. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (*CachedResponse, bool)
	Set(ctx context.Context, key string, resp *CachedResponse, ttl time.Duration)
}

// Client performs GET requests with transparent response caching.
// Cache failures degrade to direct requests; they never fail the call.
type Client struct {
	httpClient *http.Client
	store      Store
	ttl        time.Duration
}

func NewClient(store Store, ttl time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		store:      store,
		ttl:        ttl,
	}
}

// CacheKey derives a stable key from the URL and the sorted header set, so
// the same endpoint queried with different credentials never collides.
func CacheKey(url string, headers map[string]string) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(url)
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(headers[k])
	}

	sum := md5.Sum([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached response for url+headers, or performs the request
// and caches it when the status is 2xx.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*CachedResponse, error) {
	key := CacheKey(url, headers)

	if c.store != nil {
		if cached, ok := c.store.Get(ctx, key); ok {
			log.Printf("[INFO] Cache hit for URL: %s", url)
			return cached, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("request failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	cached := &CachedResponse{
		StatusCode: resp.StatusCode,
		Body:       body,
		Header:     flattenHeader(resp.Header),
	}

	if c.store != nil {
		c.store.Set(ctx, key, cached, c.ttl)
	}

	return cached, nil
}

// GetJSON performs a cached Get and unmarshals the body into out.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, out interface{}) error {
	resp, err := c.Get(ctx, url, headers)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func flattenHeader(h http.Header) map[string]string {
	flat := make(map[string]string, len(h))
	for k := range h {
		flat[k] = h.Get(k)
	}
	return flat
}
