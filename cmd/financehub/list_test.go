package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"financehub/client"
	"financehub/confs"
	"financehub/entities"
	"financehub/services"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLister struct {
	posts []entities.Post
	polls []entities.Poll
	err   error

	postFilter services.PostFilter
	pollFilter services.PollFilter
}

func (s *stubLister) GetPosts(_ context.Context, f services.PostFilter) ([]entities.Post, error) {
	s.postFilter = f
	return s.posts, s.err
}

func (s *stubLister) GetPolls(_ context.Context, f services.PollFilter) ([]entities.Poll, error) {
	s.pollFilter = f
	return s.polls, s.err
}

func TestListFeed(t *testing.T) {
	stub := &stubLister{posts: []entities.Post{{
		Content:    "Copom meets   today",
		Category:   "economy",
		Hashtags:   pq.StringArray{"selic", "copom"},
		LikesCount: 3,
		CreatedAt:  time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC),
		User:       &entities.User{Username: "ana"},
	}}}

	var out bytes.Buffer
	err := listFeed(context.Background(), &out, stub, services.PostFilter{Category: "economy", Hashtag: "selic"})
	require.NoError(t, err)
	assert.Equal(t, services.PostFilter{Category: "economy", Hashtag: "selic"}, stub.postFilter)

	text := out.String()
	assert.Contains(t, text, "@ana")
	assert.Contains(t, text, "Economy")
	assert.Contains(t, text, "Copom meets today")
	assert.Contains(t, text, "#selic #copom")
}

func TestListFeedEmptyAndError(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, listFeed(context.Background(), &out, &stubLister{}, services.PostFilter{}))
	assert.Equal(t, "No posts yet.\n", out.String())

	out.Reset()
	boom := errors.New("boom")
	assert.ErrorIs(t, listFeed(context.Background(), &out, &stubLister{err: boom}, services.PostFilter{}), boom)
	assert.Empty(t, out.String())
}

func TestListPolls(t *testing.T) {
	stub := &stubLister{polls: []entities.Poll{{
		Question:   "Where is the dollar heading?",
		Category:   "markets",
		TotalVotes: 4,
		Options: []entities.PollOption{
			{Text: "Up", Votes: 3},
			{Text: "Down", Votes: 1},
		},
	}}}

	var out bytes.Buffer
	require.NoError(t, listPolls(context.Background(), &out, stub, services.PollFilter{Category: "markets"}))
	assert.Equal(t, "markets", stub.pollFilter.Category)

	text := out.String()
	assert.Contains(t, text, "Where is the dollar heading?")
	assert.Contains(t, text, "75%")
	assert.Contains(t, text, "25%")
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "unknown", authorName(nil))
	assert.Equal(t, "@bob", authorName(&entities.User{Username: "bob"}))
	assert.Equal(t, "0%", share(0, 0))
	assert.Equal(t, "33%", share(1, 3))
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "", tagList(nil))
}

func TestUnconfiguredAppReportsErrors(t *testing.T) {
	a := newApp(confs.ClientConfig{})
	require.NotNil(t, a)
	assert.False(t, a.configured)

	var out bytes.Buffer
	err := listFeed(context.Background(), &out, a.posts, services.PostFilter{})
	var pe *services.PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.ErrorIs(t, err, client.ErrNotConfigured)
	assert.Empty(t, out.String())

	a = newApp(confs.ClientConfig{URL: "http://localhost:3536", APIKey: "anon"})
	assert.True(t, a.configured)
}
