package social

import (
	"context"
	"net/url"
)

// API performs authenticated GET requests against the Twitter v2 API and
// returns the raw JSON body of 200 replies.
type API interface {
	Get(ctx context.Context, path string, params url.Values) ([]byte, error)
}
