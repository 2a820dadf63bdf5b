package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"financehub/cache"
	"financehub/client"
	"financehub/confs"
	"financehub/entities"
	"financehub/repositories"
	"financehub/server"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const anonKey = "anon"

type backend struct {
	url      string
	requests *int64
}

func startBackend(t *testing.T, policy entities.ReactionPolicy) backend {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := confs.ServerConfig{AnonKey: anonKey, JWTSecret: "test-secret", TokenTTL: time.Hour, ReactionPolicy: policy}
	srv := server.NewServer(cfg, repositories.NewMemoryStore(policy).Repositories(), cache.NewMemorySessionStore())

	var n int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&n, 1)
		srv.Handler().ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)
	return backend{url: ts.URL, requests: &n}
}

func (b backend) count() int64 { return atomic.LoadInt64(b.requests) }

type stack struct {
	client *client.Client
	auth   *AuthService
	posts  *PostsService
	polls  *PollsService
}

func newStack(b backend) stack {
	c := client.New(client.Config{URL: b.url, APIKey: anonKey})
	return stack{client: c, auth: NewAuthService(c), posts: NewPostsService(c), polls: NewPollsService(c)}
}

func signedIn(t *testing.T, b backend, name string) (stack, *entities.Session) {
	t.Helper()
	s := newStack(b)
	ctx := context.Background()
	_, err := s.auth.Register(ctx, name+"@example.com", "s3cret!", name)
	require.NoError(t, err)
	session, err := s.auth.SignIn(ctx, name+"@example.com", "s3cret!")
	require.NoError(t, err)
	return s, session
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	b := startBackend(t, entities.ReactionOnce)
	s := newStack(b)

	assert.Nil(t, s.auth.GetCurrentUser(ctx))

	_, err := s.auth.Register(ctx, "ana@example.com", "s3cret!", "ana")
	require.NoError(t, err)
	assert.Nil(t, s.client.Session(), "registration must not sign in")

	_, err = s.auth.Register(ctx, "ana@example.com", "s3cret!", "ana")
	var authErr *AuthError
	assert.True(t, errors.As(err, &authErr), "duplicate registration")

	_, err = s.auth.Register(ctx, "bob@example.com", "123", "bob")
	assert.True(t, errors.As(err, &authErr), "weak password")

	_, err = s.auth.SignIn(ctx, "ana@example.com", "wrong")
	assert.True(t, errors.As(err, &authErr))
	assert.Nil(t, s.client.Session())

	session, err := s.auth.SignIn(ctx, "ana@example.com", "s3cret!")
	require.NoError(t, err)
	user := s.auth.GetCurrentUser(ctx)
	require.NotNil(t, user)
	assert.Equal(t, session.User.ID, user.ID)

	require.NoError(t, s.auth.SignOut(ctx))
	require.NoError(t, s.auth.SignOut(ctx))
	assert.Nil(t, s.auth.GetCurrentUser(ctx))
}

func TestUpdateProfileOwnership(t *testing.T) {
	ctx := context.Background()
	b := startBackend(t, entities.ReactionOnce)
	ana, anaSession := signedIn(t, b, "ana")
	bob, _ := signedIn(t, b, "bob")

	bio := "macro nerd"
	u, err := ana.auth.UpdateProfile(ctx, anaSession.User.ID, entities.ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "ana", u.Username)
	assert.Equal(t, bio, *u.Bio)

	_, err = bob.auth.UpdateProfile(ctx, anaSession.User.ID, entities.ProfileUpdate{Bio: &bio})
	var authErr *AuthError
	assert.True(t, errors.As(err, &authErr))

	profile, err := bob.auth.GetProfile(ctx, anaSession.User.ID)
	require.NoError(t, err)
	assert.Equal(t, bio, *profile.Bio)
}

func TestUpdateProfileFailureKinds(t *testing.T) {
	ctx := context.Background()
	bio := "value investor"

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"internal","message":"internal server error"}`)
	}))
	t.Cleanup(broken.Close)

	c := client.New(client.Config{URL: broken.URL, APIKey: anonKey})
	c.SetSession(&entities.Session{AccessToken: "token"})
	auth := NewAuthService(c)

	_, err := auth.UpdateProfile(ctx, "u1", entities.ProfileUpdate{Bio: &bio})
	var pe *PersistenceError
	require.True(t, errors.As(err, &pe), "5xx is a storage failure")
	assert.Equal(t, "internal", pe.Code())

	broken.Close()
	_, err = auth.UpdateProfile(ctx, "u1", entities.ProfileUpdate{Bio: &bio})
	assert.True(t, errors.As(err, &pe), "unreachable backend is a storage failure")

	var authErr *AuthError
	_, err = NewAuthService(client.New(client.Config{URL: broken.URL, APIKey: anonKey})).
		UpdateProfile(ctx, "u1", entities.ProfileUpdate{Bio: &bio})
	assert.True(t, errors.As(err, &authErr), "no session")
}

func TestGetPostsFiltersByCategoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	b := startBackend(t, entities.ReactionOnce)
	s, _ := signedIn(t, b, "ana")

	for i := 0; i < 2; i++ {
		for _, c := range entities.Categories {
			_, err := s.posts.CreatePost(ctx, NewPost{
				Content:  fmt.Sprintf("%s #%d", c.ID, i),
				Category: c.ID,
				Hashtags: entities.ParseHashtags("#" + c.ID + " plain"),
			})
			require.NoError(t, err)
		}
	}

	for _, c := range entities.Categories {
		posts, err := s.posts.GetPosts(ctx, PostFilter{Category: c.ID})
		require.NoError(t, err)
		require.Len(t, posts, 2, c.ID)
		for _, p := range posts {
			assert.Equal(t, c.ID, p.Category)
			assert.Equal(t, []string{c.ID}, []string(p.Hashtags))
		}
		assert.False(t, posts[0].CreatedAt.Before(posts[1].CreatedAt))
	}

	all, err := s.posts.GetPosts(ctx, PostFilter{Category: entities.CategoryAll})
	require.NoError(t, err)
	assert.Len(t, all, 2*len(entities.Categories))

	tagged, err := s.posts.GetPosts(ctx, PostFilter{Hashtag: "crypto"})
	require.NoError(t, err)
	assert.Len(t, tagged, 2)
}

func TestLikeAndComments(t *testing.T) {
	ctx := context.Background()
	b := startBackend(t, entities.ReactionOnce)
	s, _ := signedIn(t, b, "ana")

	post, err := s.posts.CreatePost(ctx, NewPost{Content: "buy the dip", Category: "crypto"})
	require.NoError(t, err)
	assert.Zero(t, post.LikesCount)
	require.NotNil(t, post.User)

	liked, err := s.posts.LikePost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.LikesCount)

	_, err = s.posts.LikePost(ctx, post.ID)
	var pe *PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.True(t, AlreadyReacted(err))

	for _, text := range []string{"first", "second", "third"} {
		_, err := s.posts.AddComment(ctx, post.ID, text)
		require.NoError(t, err)
	}
	comments, err := s.posts.GetComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "third", comments[2].Content)
}

func TestWritesWithoutSessionAreAuthErrors(t *testing.T) {
	ctx := context.Background()
	b := startBackend(t, entities.ReactionOnce)
	s := newStack(b)

	_, err := s.posts.CreatePost(ctx, NewPost{Content: "x", Category: "stocks"})
	var authErr *AuthError
	assert.True(t, errors.As(err, &authErr))
}

func TestCreatePollNeedsTwoOptions(t *testing.T) {
	ctx := context.Background()
	b := startBackend(t, entities.ReactionOnce)
	s, _ := signedIn(t, b, "ana")

	before := b.count()
	_, err := s.polls.CreatePoll(ctx, NewPoll{Question: "Q?", Options: []string{"only", "   ", ""}, Category: "funds"})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "options", ve.Field)
	assert.Equal(t, before, b.count(), "no request may be issued")

	_, err = s.polls.CreatePoll(ctx, NewPoll{Question: "", Options: []string{"a", "b"}, Category: "funds"})
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, before, b.count())
}

func TestVotesKeepTotals(t *testing.T) {
	ctx := context.Background()
	b := startBackend(t, entities.ReactionUnlimited)
	s, session := signedIn(t, b, "ana")

	poll, err := s.polls.CreatePoll(ctx, NewPoll{
		Question: "Best asset for 2025?",
		Options:  []string{"stocks", "bonds", "gold", "btc"},
		Category: "analyses",
	})
	require.NoError(t, err)
	assert.Zero(t, poll.TotalVotes)
	for _, o := range poll.Options {
		assert.Zero(t, o.Votes)
	}

	const n = 23
	for i := 0; i < n; i++ {
		opt := poll.Options[(i*7)%len(poll.Options)]
		_, err := s.polls.Vote(ctx, poll.ID, opt.ID, session.User.ID)
		require.NoError(t, err)
	}

	polls, err := s.polls.GetPolls(ctx, PollFilter{Category: "analyses"})
	require.NoError(t, err)
	require.Len(t, polls, 1)
	assert.Equal(t, n, polls[0].TotalVotes)
	assert.Equal(t, n, polls[0].VoteSum())

	none, err := s.polls.GetPolls(ctx, PollFilter{Category: "crypto"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUnconfiguredClient(t *testing.T) {
	ctx := context.Background()
	c := client.New(client.Config{})
	posts := NewPostsService(c)
	auth := NewAuthService(c)

	_, err := posts.GetPosts(ctx, PostFilter{})
	var pe *PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.ErrorIs(t, err, client.ErrNotConfigured)

	_, err = auth.SignIn(ctx, "a@example.com", "x")
	var authErr *AuthError
	assert.True(t, errors.As(err, &authErr))
	assert.Nil(t, auth.GetCurrentUser(ctx))
}
