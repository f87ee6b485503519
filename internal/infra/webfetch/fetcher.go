package webfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/osvaldoandrade/w3bstitch/internal/app/webpage"
)

const (
	DefaultTimeout   = 20 * time.Second
	DefaultUserAgent = "W3bStitch/1.0"
	maxPageBytes     = 8 << 20
)

// Fetcher GETs pages with redirects followed and the body size capped.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}, userAgent: DefaultUserAgent}
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		_ = resp.Body.Close()
		return nil, &webpage.FetchError{URL: rawURL, Status: resp.StatusCode}
	}
	return limitedBody{Reader: io.LimitReader(resp.Body, maxPageBytes), closer: resp.Body}, nil
}

type limitedBody struct {
	io.Reader
	closer io.Closer
}

func (b limitedBody) Close() error {
	return b.closer.Close()
}
