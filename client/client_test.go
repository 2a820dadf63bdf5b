package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"financehub/entities"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnconfiguredClientDoesNotCrash(t *testing.T) {
	for _, cfg := range []Config{{}, {URL: "http://localhost:1"}, {APIKey: "k"}} {
		c := New(cfg)
		assert.False(t, c.Configured())
		var out interface{}
		err := c.Get(context.Background(), "/rest/v1/posts", nil, &out)
		assert.ErrorIs(t, err, ErrNotConfigured)
		assert.ErrorIs(t, c.RPC(context.Background(), "increment_likes", nil, nil), ErrNotConfigured)
	}
}

func TestHeadersAndEnvelope(t *testing.T) {
	var seen http.Header
	var seenQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Clone()
		seenQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"p1","content":"hello"}],"count":1}`))
	}))
	defer srv.Close()

	c := New(Config{URL: srv.URL + "/", APIKey: "anon"})
	var posts []entities.Post
	require.NoError(t, c.Get(context.Background(), "/rest/v1/posts", url.Values{"category": {"crypto"}}, &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "hello", posts[0].Content)
	assert.Equal(t, "anon", seen.Get("apikey"))
	assert.Empty(t, seen.Get("Authorization"))
	assert.Equal(t, "crypto", seenQuery.Get("category"))

	c.SetSession(&entities.Session{AccessToken: "tok"})
	require.NoError(t, c.Get(context.Background(), "/rest/v1/posts", nil, &posts))
	assert.Equal(t, "Bearer tok", seen.Get("Authorization"))

	c.ClearSession()
	assert.Nil(t, c.Session())
	require.NoError(t, c.Get(context.Background(), "/rest/v1/posts", nil, &posts))
	assert.Empty(t, seen.Get("Authorization"))
}

func TestAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/json":
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "already_reacted", "message": "already reacted"})
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		}
	}))
	defer srv.Close()

	c := New(Config{URL: srv.URL, APIKey: "anon"})

	err := c.Post(context.Background(), "/json", map[string]string{}, nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "already_reacted", apiErr.Code)
	assert.Equal(t, "already reacted", apiErr.Message)

	err = c.Get(context.Background(), "/plain", nil, nil)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Empty(t, apiErr.Code)
	assert.Equal(t, "upstream down", apiErr.Message)
}

func TestTransportFailureIsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := New(Config{URL: srv.URL, APIKey: "anon"})
	err := c.Get(context.Background(), "/rest/v1/posts", nil, nil)
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
