package twitter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/osvaldoandrade/w3bstitch/internal/app/social"
)

const (
	DefaultBaseURL = "https://api.twitter.com"
	DefaultTimeout = 20 * time.Second
	maxBodyBytes   = 4 << 20
)

type Config struct {
	BaseURL     string
	BearerToken string
	Timeout     time.Duration
	UserAgent   string
}

// Client is a bearer-token authenticated Twitter v2 API client.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	http      *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	token := strings.TrimSpace(cfg.BearerToken)
	if token == "" {
		return nil, social.ErrTokenRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse twitter base url: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "W3bStitch/1.0"
	}
	return &Client{
		baseURL:   baseURL,
		token:     token,
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) Get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build twitter request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twitter request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read twitter response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &social.UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
