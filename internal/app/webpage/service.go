package webpage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

var ErrURLRequired = errors.New("url is required")
var ErrInvalidURL = errors.New("url must be an absolute http or https url")

// FetchError is returned when the page responds with an error status.
type FetchError struct {
	URL    string
	Status int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
}

type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error)
}

type Extractor interface {
	Extract(r io.Reader) (Metadata, error)
}

type Metadata struct {
	Title       string
	Description string
}

type Page struct {
	Platform    string
	URL         string
	Title       string
	Description string
}

type Service struct {
	fetcher   Fetcher
	extractor Extractor
}

func NewService(fetcher Fetcher, extractor Extractor) *Service {
	return &Service{fetcher: fetcher, extractor: extractor}
}

func (s *Service) Metadata(ctx context.Context, rawURL string) (Page, error) {
	target, err := ValidateURL(rawURL)
	if err != nil {
		return Page{}, err
	}
	body, err := s.fetcher.Fetch(ctx, target)
	if err != nil {
		return Page{}, err
	}
	defer body.Close()

	meta, err := s.extractor.Extract(body)
	if err != nil {
		return Page{}, fmt.Errorf("extract metadata: %w", err)
	}
	return Page{
		Platform:    "web",
		URL:         target,
		Title:       meta.Title,
		Description: meta.Description,
	}, nil
}

func ValidateURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", ErrURLRequired
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}
	return parsed.String(), nil
}
