// Package state holds what the user sees: the session, the active category
// and search term, and the loaded posts and polls. It calls the services and
// reconciles their results; every mutation is followed by a full reload of
// the affected collection.
package state

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"financehub/entities"
	"financehub/services"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type Auth interface {
	Register(ctx context.Context, email, password, username string) (*entities.Session, error)
	SignIn(ctx context.Context, email, password string) (*entities.Session, error)
	SignOut(ctx context.Context) error
	GetCurrentUser(ctx context.Context) *entities.User
	GetProfile(ctx context.Context, userID string) (*entities.User, error)
	UpdateProfile(ctx context.Context, userID string, upd entities.ProfileUpdate) (*entities.User, error)
}

type Posts interface {
	CreatePost(ctx context.Context, p services.NewPost) (*entities.Post, error)
	GetPosts(ctx context.Context, f services.PostFilter) ([]entities.Post, error)
	LikePost(ctx context.Context, postID string) (*entities.Post, error)
	AddComment(ctx context.Context, postID, content string) (*entities.Comment, error)
	GetComments(ctx context.Context, postID string) ([]entities.Comment, error)
}

type Polls interface {
	CreatePoll(ctx context.Context, p services.NewPoll) (*entities.Poll, error)
	GetPolls(ctx context.Context, f services.PollFilter) ([]entities.Poll, error)
	Vote(ctx context.Context, pollID, optionID, userID string) (*entities.Poll, error)
}

var errNotSignedIn = errors.New("sign in first")

// Controller is safe for concurrent use.
type Controller struct {
	auth   Auth
	posts  Posts
	polls  Polls
	notify Notifier

	mu       sync.RWMutex
	session  SessionState
	user     *entities.User
	category string
	search   string
	postList []entities.Post
	pollList []entities.Poll

	// Latest issued reload per collection; older responses are dropped.
	postsSeq uint64
	pollsSeq uint64
}

// New builds a controller in the Checking state. A nil notifier discards
// notices.
func New(auth Auth, posts Posts, polls Polls, notifier Notifier) *Controller {
	if notifier == nil {
		notifier = discard{}
	}
	return &Controller{
		auth:     auth,
		posts:    posts,
		polls:    polls,
		notify:   notifier,
		session:  Checking,
		category: entities.CategoryAll,
	}
}

func (c *Controller) Session() SessionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// User returns a copy of the signed-in user, or nil.
func (c *Controller) User() *entities.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

func (c *Controller) Category() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.category
}

func (c *Controller) Search() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.search
}

// Posts returns every loaded post, ignoring the search term.
func (c *Controller) Posts() []entities.Post {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]entities.Post(nil), c.postList...)
}

func (c *Controller) Polls() []entities.Poll {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]entities.Poll(nil), c.pollList...)
}

// VisiblePosts applies the search term to the loaded posts.
func (c *Controller) VisiblePosts() []entities.Post {
	return FilterPosts(c.Posts(), c.Search())
}

func (c *Controller) VisiblePolls() []entities.Poll {
	return FilterPolls(c.Polls(), c.Search())
}

func (c *Controller) info(format string, args ...interface{}) {
	c.notify.Notify(Notice{Level: Info, Text: fmt.Sprintf(format, args...)})
}

func (c *Controller) fail(what string, err error) error {
	c.notify.Notify(Notice{Level: Error, Text: fmt.Sprintf("%s: %v", what, err)})
	return err
}

// Init resolves the initial session. With a valid session the profile and
// both collections are loaded.
func (c *Controller) Init(ctx context.Context) {
	current := c.auth.GetCurrentUser(ctx)
	if current == nil {
		c.setAnonymous()
		return
	}
	c.becomeAuthenticated(ctx, current)
}

func (c *Controller) becomeAuthenticated(ctx context.Context, user *entities.User) *entities.User {
	if profile, err := c.auth.GetProfile(ctx, user.ID); err == nil {
		user = profile
	}
	c.mu.Lock()
	c.user = user
	c.session = Authenticated
	c.mu.Unlock()
	_ = c.ReloadAll(ctx)
	return user
}

func (c *Controller) setAnonymous() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = Anonymous
	c.user = nil
	c.postList = nil
	c.pollList = nil
	// Responses to reloads issued before this point belong to the old session.
	c.postsSeq++
	c.pollsSeq++
}

// SignIn authenticates and, on success, reloads posts and polls once each.
// A failed attempt leaves the session anonymous.
func (c *Controller) SignIn(ctx context.Context, email, password string) error {
	session, err := c.auth.SignIn(ctx, email, password)
	if err != nil {
		if c.Session() == Checking {
			c.setAnonymous()
		}
		return c.fail("Sign in failed", err)
	}
	user := c.becomeAuthenticated(ctx, session.User)
	c.info("Signed in as %s", user.Username)
	return nil
}

// Register creates an account. The account needs verification, so the
// session stays anonymous.
func (c *Controller) Register(ctx context.Context, email, password, username string) error {
	if _, err := c.auth.Register(ctx, email, password, username); err != nil {
		return c.fail("Registration failed", err)
	}
	c.info("Account created, check %s to verify it", email)
	return nil
}

// SignOut always ends the local session.
func (c *Controller) SignOut(ctx context.Context) {
	if err := c.auth.SignOut(ctx); err != nil {
		c.notify.Notify(Notice{Level: Error, Text: fmt.Sprintf("Remote sign out failed: %v", err)})
	}
	c.setAnonymous()
	c.info("Signed out")
}

// SetCategory switches the category filter and reloads both collections.
func (c *Controller) SetCategory(ctx context.Context, category string) error {
	if category == "" {
		category = entities.CategoryAll
	}
	if category != entities.CategoryAll && !entities.IsCategory(category) {
		return c.fail("Unknown category", &services.ValidationError{Field: "category", Reason: fmt.Sprintf("%q is not a category", category)})
	}
	c.mu.Lock()
	c.category = category
	authed := c.session == Authenticated
	c.mu.Unlock()
	if !authed {
		return nil
	}
	return c.ReloadAll(ctx)
}

// SetSearch only changes the local filter; nothing is fetched.
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = term
}

// ReloadAll reloads posts and polls in parallel.
func (c *Controller) ReloadAll(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return c.ReloadPosts(ctx) })
	g.Go(func() error { return c.ReloadPolls(ctx) })
	return g.Wait()
}

// ReloadPosts fetches posts for the active category. If a newer reload was
// issued meanwhile, this response is dropped, failures included.
func (c *Controller) ReloadPosts(ctx context.Context) error {
	c.mu.Lock()
	c.postsSeq++
	seq := c.postsSeq
	filter := services.PostFilter{Category: c.category}
	c.mu.Unlock()

	posts, err := c.posts.GetPosts(ctx, filter)

	c.mu.Lock()
	if seq != c.postsSeq {
		c.mu.Unlock()
		return nil
	}
	if err == nil {
		c.postList = posts
	}
	c.mu.Unlock()

	if err != nil {
		return c.fail("Could not load posts", err)
	}
	return nil
}

func (c *Controller) ReloadPolls(ctx context.Context) error {
	c.mu.Lock()
	c.pollsSeq++
	seq := c.pollsSeq
	filter := services.PollFilter{Category: c.category}
	c.mu.Unlock()

	polls, err := c.polls.GetPolls(ctx, filter)

	c.mu.Lock()
	if seq != c.pollsSeq {
		c.mu.Unlock()
		return nil
	}
	if err == nil {
		c.pollList = polls
	}
	c.mu.Unlock()

	if err != nil {
		return c.fail("Could not load polls", err)
	}
	return nil
}

func (c *Controller) requireUser(what string) (*entities.User, error) {
	u := c.User()
	if u == nil || c.Session() != Authenticated {
		return nil, c.fail(what, &services.AuthError{Op: what, Err: errNotSignedIn})
	}
	return u, nil
}

// CreatePost publishes a post. rawHashtags is free text; only #-prefixed
// words become hashtags.
func (c *Controller) CreatePost(ctx context.Context, content, imageURL, rawHashtags, category string) error {
	if _, err := c.requireUser("Could not create post"); err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return c.fail("Could not create post", &services.ValidationError{Field: "content", Reason: "is required"})
	}
	post := services.NewPost{
		Content:  content,
		Hashtags: entities.ParseHashtags(rawHashtags),
		Category: category,
	}
	if imageURL = strings.TrimSpace(imageURL); imageURL != "" {
		post.ImageURL = &imageURL
	}
	if _, err := c.posts.CreatePost(ctx, post); err != nil {
		return c.fail("Could not create post", err)
	}
	c.info("Post created")
	return c.ReloadPosts(ctx)
}

// CreatePoll publishes a poll; blank options are dropped.
func (c *Controller) CreatePoll(ctx context.Context, question string, options []string, rawHashtags, category string) error {
	if _, err := c.requireUser("Could not create poll"); err != nil {
		return err
	}
	poll := services.NewPoll{
		Question: question,
		Options:  options,
		Category: category,
		Hashtags: entities.ParseHashtags(rawHashtags),
	}
	if _, err := c.polls.CreatePoll(ctx, poll); err != nil {
		return c.fail("Could not create poll", err)
	}
	c.info("Poll created")
	return c.ReloadPolls(ctx)
}

func (c *Controller) LikePost(ctx context.Context, postID string) error {
	if _, err := c.requireUser("Could not like post"); err != nil {
		return err
	}
	if _, err := c.posts.LikePost(ctx, postID); err != nil {
		if services.AlreadyReacted(err) {
			c.info("You already liked this post")
			return err
		}
		return c.fail("Could not like post", err)
	}
	return c.ReloadPosts(ctx)
}

func (c *Controller) Vote(ctx context.Context, pollID, optionID string) error {
	u, err := c.requireUser("Could not vote")
	if err != nil {
		return err
	}
	if _, err := c.polls.Vote(ctx, pollID, optionID, u.ID); err != nil {
		if services.AlreadyReacted(err) {
			c.info("You already voted on this poll")
			return err
		}
		return c.fail("Could not vote", err)
	}
	return c.ReloadPolls(ctx)
}

// AddComment posts a comment and reloads posts so comment counts follow.
func (c *Controller) AddComment(ctx context.Context, postID, content string) error {
	if _, err := c.requireUser("Could not comment"); err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return c.fail("Could not comment", &services.ValidationError{Field: "content", Reason: "is required"})
	}
	if _, err := c.posts.AddComment(ctx, postID, content); err != nil {
		return c.fail("Could not comment", err)
	}
	return c.ReloadPosts(ctx)
}

// Comments fetches a post's comments, oldest first. They are not cached.
func (c *Controller) Comments(ctx context.Context, postID string) ([]entities.Comment, error) {
	comments, err := c.posts.GetComments(ctx, postID)
	if err != nil {
		return nil, c.fail("Could not load comments", err)
	}
	return comments, nil
}

// UpdateProfile changes the signed-in user's profile.
func (c *Controller) UpdateProfile(ctx context.Context, upd entities.ProfileUpdate) error {
	u, err := c.requireUser("Could not update profile")
	if err != nil {
		return err
	}
	updated, err := c.auth.UpdateProfile(ctx, u.ID, upd)
	if err != nil {
		return c.fail("Could not update profile", err)
	}
	c.mu.Lock()
	if c.user != nil && c.user.ID == updated.ID {
		c.user = updated
	}
	c.mu.Unlock()
	c.info("Profile updated")
	return nil
}
