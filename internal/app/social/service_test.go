package social

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/go-json-experiment/json"
)

type call struct {
	path   string
	params url.Values
}

type fakeAPI struct {
	replies map[string]string
	errs    map[string]error
	calls   []call
}

func (f *fakeAPI) Get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	f.calls = append(f.calls, call{path: path, params: params})
	if err := f.errs[path]; err != nil {
		return nil, err
	}
	return []byte(f.replies[path]), nil
}

func TestCallsWithoutTokenFail(t *testing.T) {
	service := NewService(nil)
	if _, err := service.Lookup(context.Background(), "1"); !errors.Is(err, ErrTokenRequired) {
		t.Fatalf("Lookup: expected ErrTokenRequired, got %v", err)
	}
	if _, err := service.UserTweets(context.Background(), "jack", 5); !errors.Is(err, ErrTokenRequired) {
		t.Fatalf("UserTweets: expected ErrTokenRequired, got %v", err)
	}
	if _, err := service.Search(context.Background(), "go", 5); !errors.Is(err, ErrTokenRequired) {
		t.Fatalf("Search: expected ErrTokenRequired, got %v", err)
	}
}

func TestTweetID(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  error
	}{
		{in: "1234567890123456789", want: "1234567890123456789"},
		{in: "https://x.com/someone/status/1234567890123456789?s=20", want: "1234567890123456789"},
		{in: "https://twitter.com/i/web/status/42", want: "42"},
		{in: " ", err: ErrTweetIDRequired},
		{in: "https://x.com/someone", err: ErrInvalidTweetID},
	}
	for _, tt := range tests {
		got, err := TweetID(tt.in)
		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Fatalf("%q: expected %v, got %v", tt.in, tt.err, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("%q: expected %s, got %s (%v)", tt.in, tt.want, got, err)
		}
	}
}

func TestClampResults(t *testing.T) {
	tests := map[int]int{0: 5, 1: 5, 5: 5, 42: 42, 100: 100, 500: 100, -3: 5}
	for in, want := range tests {
		if got := ClampResults(in); got != want {
			t.Fatalf("ClampResults(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestLookupPassesBodyThrough(t *testing.T) {
	api := &fakeAPI{replies: map[string]string{"/2/tweets/42": `{"data":{"id":"42","text":"hi"}}`}}
	body, err := NewService(api).Lookup(context.Background(), "https://x.com/a/status/42")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if string(body) != `{"data":{"id":"42","text":"hi"}}` {
		t.Fatalf("unexpected body: %s", body)
	}
	if api.calls[0].params.Get("expansions") != "author_id" {
		t.Fatalf("missing expansions param: %v", api.calls[0].params)
	}
}

func TestUserTweetsResolvesUserAndAttachesIt(t *testing.T) {
	api := &fakeAPI{replies: map[string]string{
		"/2/users/by/username/jack": `{"data":{"id":"12","username":"jack","name":"Jack"}}`,
		"/2/users/12/tweets":        `{"data":[{"id":"1","text":"just setting up"}],"meta":{"result_count":1}}`,
	}}
	body, err := NewService(api).UserTweets(context.Background(), "@jack", 500)
	if err != nil {
		t.Fatalf("UserTweets returned error: %v", err)
	}
	if len(api.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(api.calls))
	}
	if api.calls[1].params.Get("max_results") != "100" {
		t.Fatalf("max_results not clamped: %v", api.calls[1].params)
	}

	var out struct {
		Data []map[string]string `json:"data"`
		User user                `json:"user"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode merged body: %v", err)
	}
	if out.User.ID != "12" || out.User.Username != "jack" || out.User.Verified {
		t.Fatalf("unexpected user: %+v", out.User)
	}
	if len(out.Data) != 1 {
		t.Fatalf("tweets were dropped: %s", body)
	}
}

func TestUserTweetsUnknownUser(t *testing.T) {
	api := &fakeAPI{replies: map[string]string{
		"/2/users/by/username/ghost": `{"errors":[{"title":"Not Found Error"}]}`,
	}}
	_, err := NewService(api).UserTweets(context.Background(), "ghost", 5)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(api.calls) != 1 {
		t.Fatalf("tweets should not be fetched for unknown user")
	}
}

func TestSearchPropagatesUpstreamError(t *testing.T) {
	upstream := &UpstreamError{Status: 429, Body: `{"title":"Too Many Requests"}`}
	api := &fakeAPI{errs: map[string]error{"/2/tweets/search/recent": upstream}}
	_, err := NewService(api).Search(context.Background(), "from:golang", 10)

	var got *UpstreamError
	if !errors.As(err, &got) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if got.Status != 429 || !strings.Contains(got.Body, "Too Many") {
		t.Fatalf("unexpected upstream error: %+v", got)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	_, err := NewService(&fakeAPI{}).Search(context.Background(), " ", 5)
	if !errors.Is(err, ErrQueryRequired) {
		t.Fatalf("expected ErrQueryRequired, got %v", err)
	}
}
