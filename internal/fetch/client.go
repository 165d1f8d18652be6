// Package fetch downloads animation files and resolves local paths. The
// Client is the shared transport; Downloader and LocalResolver adapt it to
// the player's hooks.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"

	"github.com/dgnsrekt/svgaplay/internal/cache"
)

// Errors returned by Fetch.
var (
	// ErrTooLarge is returned when a response exceeds MaxBytes.
	ErrTooLarge = errors.New("response too large")

	// ErrStatus is returned for non-2xx responses.
	ErrStatus = errors.New("unexpected status")
)

// Config holds the fetch settings.
type Config struct {
	// Per-request timeout; defaults to 30s
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Rate limit for outgoing requests; defaults to 120
	RequestsPerMinute int `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`

	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// Responses larger than this fail; defaults to 64MB
	MaxBytes int64 `yaml:"max_bytes" mapstructure:"max_bytes"`
}

// DefaultConfig returns the default fetch configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:           30 * time.Second,
		RequestsPerMinute: 120,
		UserAgent:         "svgaplay",
		MaxBytes:          64 << 20,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %v", c.Timeout)
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("requests per minute must not be negative, got %d", c.RequestsPerMinute)
	}
	if c.MaxBytes < 0 {
		return fmt.Errorf("max bytes must not be negative, got %d", c.MaxBytes)
	}
	return nil
}

// Client fetches remote files through an optional byte cache.
type Client struct {
	http        *http.Client
	rateLimiter *rate.Limiter
	store       *cache.Store
	keyOf       cache.KeyFunc
	userAgent   string
	maxBytes    int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithStore caches downloads in s under keys derived by keyOf.
func WithStore(s *cache.Store, keyOf cache.KeyFunc) Option {
	return func(c *Client) {
		c.store = s
		c.keyOf = keyOf
	}
}

// NewClient creates a client, filling zero config values with defaults.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fetch configuration: %w", err)
	}

	d := DefaultConfig()
	if cfg.Timeout == 0 {
		cfg.Timeout = d.Timeout
	}
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = d.RequestsPerMinute
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = d.MaxBytes
	}

	c := &Client{
		http:        &http.Client{Timeout: cfg.Timeout},
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
		userAgent:   cfg.UserAgent,
		maxBytes:    cfg.MaxBytes,
		keyOf:       cache.IdentityKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Fetch downloads url, serving and filling the cache when one is set.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	key := c.keyOf(url)
	if c.store != nil {
		if data, ok := c.store.Get(key); ok {
			log.Debug("download cache hit", "url", url, "size", humanize.Bytes(uint64(len(data))))
			return data, nil
		}
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	start := time.Now()
	data, err := c.get(ctx, url)
	if err != nil {
		log.Debug("download failed", "url", url, "error", err)
		return nil, err
	}
	log.Debug("downloaded", "url", url, "size", humanize.Bytes(uint64(len(data))), "took", time.Since(start))

	if c.store != nil && len(data) > 0 {
		if err := c.store.Put(key, data); err != nil {
			log.Warn("download not cached", "url", url, "error", err)
		}
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}
	if resp.ContentLength > c.maxBytes {
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, humanize.Bytes(uint64(resp.ContentLength)))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("%w: over %s", ErrTooLarge, humanize.Bytes(uint64(c.maxBytes)))
	}
	return data, nil
}
