package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"golang.org/x/net/publicsuffix"
)

// HTTPFetcher downloads raw HTML of recipe pages
type HTTPFetcher struct {
	client     *http.Client
	retries    int
	retryDelay time.Duration
	maxBody    int64
}

// FetcherParams configures HTTPFetcher
type FetcherParams struct {
	Timeout     time.Duration
	Retries     int           // total attempts, 1 disables retries
	RetryDelay  time.Duration // initial backoff delay
	MaxBodySize int64         // bytes, larger pages are truncated
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d for URL %s", e.Code, e.URL)
}

// NewHTTPFetcher creates a fetcher with a cookie jar, so consent and session cookies
// set by the first response survive retries
func NewHTTPFetcher(p FetcherParams) *HTTPFetcher {
	if p.Timeout <= 0 {
		p.Timeout = 15 * time.Second
	}
	if p.Retries <= 0 {
		p.Retries = 3
	}
	if p.RetryDelay <= 0 {
		p.RetryDelay = 500 * time.Millisecond
	}
	if p.MaxBodySize <= 0 {
		p.MaxBodySize = 5 * 1024 * 1024
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		lgr.Printf("[WARN] can't create cookie jar, %v", err)
	}

	return &HTTPFetcher{
		client:     &http.Client{Timeout: p.Timeout, Jar: jar},
		retries:    p.Retries,
		retryDelay: p.RetryDelay,
		maxBody:    p.MaxBodySize,
	}
}

// Fetch retrieves the page body. Network errors, 403, 429 and 5xx responses are retried with
// backoff and fresh browser headers, other failures return immediately.
func (f *HTTPFetcher) Fetch(ctx context.Context, urlStr string) (string, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") || parsedURL.Host == "" {
		return "", fmt.Errorf("invalid URL: %s", urlStr)
	}

	var body string
	var permanent error
	attempt := 0
	retrier := repeater.NewBackoff(f.retries, f.retryDelay, repeater.WithMaxDelay(5*time.Second))
	err = retrier.Do(ctx, func() error {
		attempt++
		res, fetchErr := f.fetchOnce(ctx, urlStr)
		if fetchErr == nil {
			body = res
			return nil
		}
		if !retryable(fetchErr) {
			permanent = fetchErr
			return nil // stop retrying
		}
		lgr.Printf("[DEBUG] fetch attempt %d for %s failed: %v", attempt, urlStr, fetchErr)
		return fetchErr
	})
	if permanent != nil {
		return "", permanent
	}
	if err != nil {
		return "", fmt.Errorf("fetch %s after %d attempts: %w", urlStr, attempt, err)
	}
	return body, nil
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, urlStr string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	addBrowserHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch URL %s: %w", urlStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return "", &StatusError{URL: urlStr, Code: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return "", fmt.Errorf("read body of %s: %w", urlStr, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty body for URL %s", urlStr)
	}
	return string(data), nil
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusForbidden || se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	return true
}
