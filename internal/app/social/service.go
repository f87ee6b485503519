package social

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

const (
	MinResults     = 5
	MaxResults     = 100
	DefaultResults = 5
)

const (
	lookupTweetFields = "created_at,author_id,text,lang,public_metrics,attachments"
	listTweetFields   = "created_at,public_metrics,lang"
)

var statusPattern = regexp.MustCompile(`/status(?:es)?/(\d+)`)

type Service struct {
	api API
}

// NewService wraps api. A nil api means no bearer token is configured and
// every call fails with ErrTokenRequired.
func NewService(api API) *Service {
	return &Service{api: api}
}

func (s *Service) Lookup(ctx context.Context, idOrURL string) (jsontext.Value, error) {
	if s.api == nil {
		return nil, ErrTokenRequired
	}
	id, err := TweetID(idOrURL)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("tweet.fields", lookupTweetFields)
	params.Set("expansions", "author_id")
	params.Set("user.fields", "username,name,verified")
	body, err := s.api.Get(ctx, "/2/tweets/"+id, params)
	if err != nil {
		return nil, err
	}
	return jsontext.Value(body), nil
}

type user struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Verified bool   `json:"verified"`
}

// UserTweets resolves username to an id, fetches its recent tweets and
// attaches the resolved user under "user".
func (s *Service) UserTweets(ctx context.Context, username string, maxResults int) (jsontext.Value, error) {
	if s.api == nil {
		return nil, ErrTokenRequired
	}
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return nil, ErrUsernameRequired
	}

	params := url.Values{}
	params.Set("user.fields", "username,verified")
	body, err := s.api.Get(ctx, "/2/users/by/username/"+url.PathEscape(username), params)
	if err != nil {
		return nil, err
	}
	var lookup struct {
		Data *user `json:"data"`
	}
	if err := json.Unmarshal(body, &lookup); err != nil {
		return nil, fmt.Errorf("decode user lookup: %w", err)
	}
	if lookup.Data == nil || lookup.Data.ID == "" {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}

	params = url.Values{}
	params.Set("max_results", strconv.Itoa(ClampResults(maxResults)))
	params.Set("tweet.fields", listTweetFields)
	body, err = s.api.Get(ctx, "/2/users/"+url.PathEscape(lookup.Data.ID)+"/tweets", params)
	if err != nil {
		return nil, err
	}

	var out map[string]jsontext.Value
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode user tweets: %w", err)
	}
	if out == nil {
		out = map[string]jsontext.Value{}
	}
	encodedUser, err := json.Marshal(lookup.Data)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}
	out["user"] = encodedUser
	merged, err := json.Marshal(out, json.Deterministic(true))
	if err != nil {
		return nil, fmt.Errorf("encode user tweets: %w", err)
	}
	return merged, nil
}

func (s *Service) Search(ctx context.Context, query string, maxResults int) (jsontext.Value, error) {
	if s.api == nil {
		return nil, ErrTokenRequired
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrQueryRequired
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("max_results", strconv.Itoa(ClampResults(maxResults)))
	params.Set("tweet.fields", listTweetFields)
	body, err := s.api.Get(ctx, "/2/tweets/search/recent", params)
	if err != nil {
		return nil, err
	}
	return jsontext.Value(body), nil
}

// TweetID accepts a numeric id or any URL containing /status/<id>.
func TweetID(idOrURL string) (string, error) {
	value := strings.TrimSpace(idOrURL)
	if value == "" {
		return "", ErrTweetIDRequired
	}
	if match := statusPattern.FindStringSubmatch(value); match != nil {
		return match[1], nil
	}
	if _, err := strconv.ParseUint(value, 10, 64); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidTweetID, value)
	}
	return value, nil
}

// ClampResults maps max_results onto the API's accepted window. Zero means
// the default.
func ClampResults(n int) int {
	switch {
	case n == 0:
		return DefaultResults
	case n < MinResults:
		return MinResults
	case n > MaxResults:
		return MaxResults
	default:
		return n
	}
}
