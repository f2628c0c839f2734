// Package cdc talks to the DWD Climate Data Center open-data server. It
// exposes directory listings and file retrieval, and knows how the archive
// partitions measurement data into spans (historical, recent, now).
package cdc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

const userAgent = "dwdweather/1.0"

// ClientConfig tunes the HTTP client guarding access to the CDC server.
type ClientConfig struct {
	Timeout         time.Duration
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultClientConfig returns the retry and timeout defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:         30 * time.Second,
		MaxRetries:      3,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

// Client retrieves resources from the CDC server. Transient failures (5xx,
// network errors) are retried with exponential backoff; a run of failures
// opens a circuit breaker so a dead or unreachable server fails fast.
type Client struct {
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	cfg     ClientConfig
	log     *slog.Logger
}

func NewClient(cfg ClientConfig, log *slog.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 200 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Second
	}
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "cdc",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: cb,
		cfg:     cfg,
		log:     log,
	}
}

// Get retrieves one resource. The returned error is always a *FetchError.
func (c *Client) Get(ctx context.Context, uri string) ([]byte, error) {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.getWithRetry(ctx, uri)
	})
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			return nil, fe
		}
		return nil, &FetchError{URL: uri, Err: err}
	}
	return body, nil
}

func (c *Client) getWithRetry(ctx context.Context, uri string) ([]byte, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.InitialInterval
	bo.MaxInterval = c.cfg.MaxInterval
	bo.MaxElapsedTime = 0

	var body []byte
	op := func() error {
		var err error
		body, err = c.getOnce(ctx, uri)
		return err
	}
	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, c.cfg.MaxRetries), ctx))
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) getOnce(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, backoff.Permanent(&FetchError{URL: uri, Err: err})
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		// Network errors and timeouts are worth retrying.
		return nil, &FetchError{URL: uri, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 500:
		return nil, &FetchError{URL: uri, Status: resp.StatusCode}
	default:
		// 4xx will not get better on retry.
		return nil, backoff.Permanent(&FetchError{URL: uri, Status: resp.StatusCode})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: uri, Err: err}
	}
	return body, nil
}

var hrefRe = regexp.MustCompile(`href="([^"?#]+)"`)

// Index lists the files of one archive directory, filtered by extension.
// Relative names are resolved against the directory URL.
func (c *Client) Index(ctx context.Context, dirURL, ext string) ([]string, error) {
	uri := dirURL + "/"
	c.log.Debug("listing archive directory", "url", uri)
	body, err := c.Get(ctx, uri)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(uri)
	if err != nil {
		return nil, &FetchError{URL: uri, Err: err}
	}

	var out []string
	for _, m := range hrefRe.FindAllStringSubmatch(string(body), -1) {
		name := m[1]
		if name == "../" || !strings.HasSuffix(name, "."+ext) {
			continue
		}
		ref, err := url.Parse(name)
		if err != nil {
			continue
		}
		out = append(out, base.ResolveReference(ref).String())
	}
	return out, nil
}
