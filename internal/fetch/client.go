package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/cavv-dev/crocdb-db/internal/config"
	"github.com/cavv-dev/crocdb-db/internal/logging"
	"github.com/cavv-dev/crocdb-db/internal/services"
)

const (
	defaultUserAgent = "curl/8.13.0"
	defaultAccept    = "*/*"

	sessionCachePrefix = "session "
)

// Options configures a Client.
type Options struct {
	UserAgent string
	// Timeout bounds each request. Zero means no timeout.
	Timeout    time.Duration
	Cache      *Cache
	Logger     *slog.Logger
	HTTPClient *http.Client
}

// Credentials authenticate a Login session.
type Credentials struct {
	Username string
	Password string
}

// Empty reports whether either credential is missing.
func (c Credentials) Empty() bool {
	return strings.TrimSpace(c.Username) == "" || strings.TrimSpace(c.Password) == ""
}

// Client performs GET and HEAD requests with fixed headers and an optional
// response cache.
type Client struct {
	userAgent     string
	http          *http.Client
	cache         *Cache
	logger        *slog.Logger
	authenticated bool
}

// New creates a Client from opts.
func New(opts Options) *Client {
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Client{
		userAgent: userAgent,
		http:      client,
		cache:     opts.Cache,
		logger:    logging.NewComponentLogger(logger, "fetch"),
	}
}

// NewFromConfig creates a Client using the fetch settings and cache
// directory from cfg.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Client {
	return New(Options{
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
		Cache:     NewCache(cfg.Paths.CacheDir),
		Logger:    logger,
	})
}

// Cache returns the response cache, which may be nil.
func (c *Client) Cache() *Cache {
	return c.cache
}

// Authenticated reports whether the client came from Login.
func (c *Client) Authenticated() bool {
	return c.authenticated
}

// Get returns the body of rawURL as text. With useCache set, a cached
// response is returned without contacting the server. Successful responses
// are always written to the cache.
func (c *Client) Get(ctx context.Context, rawURL string, useCache bool) (string, error) {
	key := c.CacheKey(rawURL)
	if useCache {
		if body, ok := c.cache.Get(key); ok {
			c.logger.Debug("response served from cache", logging.String("url", rawURL))
			return body, nil
		}
	}

	req, err := c.newRequest(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrFetch, "fetch", "get", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", services.Wrap(services.ErrFetch, "fetch", "get", fmt.Sprintf("%s returned %s", rawURL, resp.Status), nil)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrFetch, "fetch", "read body", rawURL, err)
	}
	body := string(data)

	if err := c.cache.Put(key, body); err != nil {
		logging.WarnWithContext(c.logger, "response cache write failed", "response_cache_write_failed",
			logging.String("url", rawURL),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check cache_dir permissions"),
			logging.String(logging.FieldImpact, "later --use-cached runs will refetch this page"))
	}
	c.logger.Debug("response fetched",
		logging.String("url", rawURL),
		logging.Int("bytes", len(data)))
	return body, nil
}

// CacheKey returns the response cache key for rawURL. Responses fetched
// through a login session are kept apart from anonymous ones.
func (c *Client) CacheKey(rawURL string) string {
	if c.authenticated {
		return sessionCachePrefix + rawURL
	}
	return rawURL
}

// Head reports whether rawURL answers a HEAD request with a success status.
// Transport failures are returned as errors; non-success statuses are not.
func (c *Client) Head(ctx context.Context, rawURL string) (bool, error) {
	req, err := c.newRequest(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false, services.Wrap(services.ErrFetch, "fetch", "head", rawURL, err)
	}
	_ = resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

// Download streams the body of rawURL into the file at path and returns the
// number of bytes written. The file appears only once the body is complete.
// Downloads skip the response cache and are bounded by ctx instead of the
// per-request timeout.
func (c *Client) Download(ctx context.Context, rawURL, path string) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, err
	}
	client := &http.Client{
		Transport:     c.http.Transport,
		Jar:           c.http.Jar,
		CheckRedirect: c.http.CheckRedirect,
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, services.Wrap(services.ErrFetch, "fetch", "download", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, services.Wrap(services.ErrFetch, "fetch", "download", fmt.Sprintf("%s returned %s", rawURL, resp.Status), nil)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create download directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create download file: %w", err)
	}
	written, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmp.Name())
		if copyErr != nil {
			return 0, services.Wrap(services.ErrFetch, "fetch", "download", rawURL, copyErr)
		}
		return 0, fmt.Errorf("close download file: %w", closeErr)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return 0, fmt.Errorf("replace %s: %w", path, err)
	}

	c.logger.Debug("file downloaded",
		logging.String("url", rawURL),
		logging.String("path", path),
		logging.Int64("bytes", written))
	return written, nil
}

// Login opens a cookie session at loginURL: a GET to obtain session cookies,
// then a form POST with the credentials. The returned Client shares this
// client's headers and cache and sends the session cookies.
func (c *Client) Login(ctx context.Context, loginURL string, creds Credentials) (*Client, error) {
	if creds.Empty() {
		return nil, services.Wrap(services.ErrCredential, "fetch", "login", "username and password are required", nil)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	session := &http.Client{
		Transport: c.http.Transport,
		Timeout:   c.http.Timeout,
		Jar:       jar,
	}
	authed := &Client{
		userAgent:     c.userAgent,
		http:          session,
		cache:         c.cache,
		logger:        c.logger,
		authenticated: true,
	}

	req, err := authed.newRequest(ctx, http.MethodGet, loginURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := session.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrCredential, "fetch", "login", loginURL, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)
	req, err = authed.newRequest(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err = session.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrCredential, "fetch", "login", loginURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, services.Wrap(services.ErrCredential, "fetch", "login", fmt.Sprintf("wrong or invalid credentials (%s)", resp.Status), nil)
	}

	c.logger.Info("login session established",
		logging.String(logging.FieldEventType, "login_succeeded"),
		logging.String("login_url", loginURL),
		logging.String("username", creds.Username))
	return authed, nil
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, services.Wrap(services.ErrFetch, "fetch", "build request", rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", defaultAccept)
	return req, nil
}
