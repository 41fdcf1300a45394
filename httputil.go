package cryptofolio

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// contains http utils to deal with the quote service

// logTransport logs every round trip, without the query string that holds the token.
type logTransport struct {
	base http.RoundTripper
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		log.Debug().Str("method", req.Method).Str("host", req.URL.Host).Str("path", req.URL.Path).Err(err).Msg("http request failed")
		return nil, err
	}
	log.Debug().Str("method", req.Method).Str("host", req.URL.Host).Str("path", req.URL.Path).
		Str("status", resp.Status).Dur("elapsed", time.Since(start)).Msg("http request")
	return resp, nil
}

// diskCache keeps successful responses on disk for ttl.
//
// The key contains the current ttl window, so an entry simply stops being
// found once the window is over.
type diskCache struct {
	base http.RoundTripper
	dir  string
	ttl  time.Duration
	now  func() time.Time
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	window := c.now().Truncate(c.ttl).Unix()
	key := fmt.Sprintf("%d %s %s", window, req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil {
		log.Debug().Str("path", req.URL.Path).Msg("quote cache hit")
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		log.Warn().Err(err).Msg("cache write error (ignored)")
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put stores a response to disk cache. DumpResponse leaves resp.Body readable.
func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0600)
}

// DefaultCacheDir is where quote responses are cached.
func DefaultCacheDir() string { return filepath.Join(os.TempDir(), "cryptofolio") }

// NewHTTPClient returns the client used to reach the quote service.
// A positive ttl enables a disk cache of the responses in cacheDir.
func NewHTTPClient(timeout, ttl time.Duration, cacheDir string) *http.Client {
	var transport http.RoundTripper = &logTransport{base: http.DefaultTransport}
	if ttl > 0 {
		transport = &diskCache{base: transport, dir: cacheDir, ttl: ttl, now: time.Now}
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

// jget performs an HTTP GET request and decodes the JSON response into data.
// Numbers are decoded as json.Number to keep their exact value.
func jget(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	if err := dec.Decode(data); err != nil {
		return fmt.Errorf("invalid json response: %w", err)
	}
	return nil
}
