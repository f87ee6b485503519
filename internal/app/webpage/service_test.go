package webpage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

type fakeFetcher struct {
	body   string
	err    error
	closed bool
	url    string
}

func (f *fakeFetcher) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	f.url = rawURL
	if f.err != nil {
		return nil, f.err
	}
	return &trackingCloser{Reader: strings.NewReader(f.body), fetcher: f}, nil
}

type trackingCloser struct {
	io.Reader
	fetcher *fakeFetcher
}

func (c *trackingCloser) Close() error {
	c.fetcher.closed = true
	return nil
}

type fakeExtractor struct {
	meta Metadata
	err  error
}

func (f fakeExtractor) Extract(r io.Reader) (Metadata, error) {
	return f.meta, f.err
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		in  string
		err error
	}{
		{in: "https://example.com/a?b=c"},
		{in: "http://localhost:8080"},
		{in: "", err: ErrURLRequired},
		{in: "ftp://example.com", err: ErrInvalidURL},
		{in: "/relative/path", err: ErrInvalidURL},
		{in: "https://", err: ErrInvalidURL},
	}
	for _, tt := range tests {
		_, err := ValidateURL(tt.in)
		if tt.err == nil && err != nil {
			t.Fatalf("%q: unexpected error %v", tt.in, err)
		}
		if tt.err != nil && !errors.Is(err, tt.err) {
			t.Fatalf("%q: expected %v, got %v", tt.in, tt.err, err)
		}
	}
}

func TestMetadataReturnsPage(t *testing.T) {
	fetcher := &fakeFetcher{body: "<html></html>"}
	service := NewService(fetcher, fakeExtractor{meta: Metadata{Title: "Example", Description: "An example"}})

	page, err := service.Metadata(context.Background(), " https://example.com ")
	if err != nil {
		t.Fatalf("Metadata returned error: %v", err)
	}
	if page.Platform != "web" || page.URL != "https://example.com" {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Title != "Example" || page.Description != "An example" {
		t.Fatalf("unexpected metadata: %+v", page)
	}
	if !fetcher.closed {
		t.Fatalf("body was not closed")
	}
}

func TestMetadataPropagatesFetchError(t *testing.T) {
	fetchErr := &FetchError{URL: "https://example.com", Status: 404}
	service := NewService(&fakeFetcher{err: fetchErr}, fakeExtractor{})
	_, err := service.Metadata(context.Background(), "https://example.com")

	var got *FetchError
	if !errors.As(err, &got) || got.Status != 404 {
		t.Fatalf("expected FetchError 404, got %v", err)
	}
}

func TestMetadataRejectsBadURLBeforeFetching(t *testing.T) {
	fetcher := &fakeFetcher{}
	_, err := NewService(fetcher, fakeExtractor{}).Metadata(context.Background(), "mailto:a@b.c")
	if !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
	if fetcher.url != "" {
		t.Fatalf("fetch should not run")
	}
}
