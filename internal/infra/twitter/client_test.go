package twitter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/osvaldoandrade/w3bstitch/internal/app/social"
)

func TestNewClientRequiresToken(t *testing.T) {
	_, err := NewClient(Config{BearerToken: "  "})
	require.ErrorIs(t, err, social.ErrTokenRequired)
}

func TestGetSendsBearerAndQuery(t *testing.T) {
	var gotAuth, gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("max_results")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL + "/", BearerToken: "secret"})
	require.NoError(t, err)

	body, err := client.Get(context.Background(), "/2/tweets/search/recent", url.Values{"max_results": {"10"}})
	require.NoError(t, err)
	require.JSONEq(t, `{"data":[]}`, string(body))
	require.Equal(t, "Bearer secret", gotAuth)
	require.Equal(t, "/2/tweets/search/recent", gotPath)
	require.Equal(t, "10", gotQuery)
}

func TestGetMapsNon200ToUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"title":"Unauthorized"}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, BearerToken: "bad"})
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "/2/tweets/1", nil)
	var upstream *social.UpstreamError
	require.True(t, errors.As(err, &upstream))
	require.Equal(t, http.StatusUnauthorized, upstream.Status)
	require.Contains(t, upstream.Body, "Unauthorized")
}

func TestServiceOverClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/2/users/by/username/golang":
			_, _ = w.Write([]byte(`{"data":{"id":"99","username":"golang","verified":true}}`))
		case "/2/users/99/tweets":
			_, _ = w.Write([]byte(`{"data":[{"id":"7","text":"Go 1.25 is released"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, BearerToken: "token"})
	require.NoError(t, err)

	body, err := social.NewService(client).UserTweets(context.Background(), "golang", 3)
	require.NoError(t, err)
	require.JSONEq(t, `{"data":[{"id":"7","text":"Go 1.25 is released"}],"user":{"id":"99","username":"golang","verified":true}}`, string(body))
}
