package services

import (
	"context"
	"net/url"

	"financehub/client"
	"financehub/entities"
)

// NewPost is authored by the signed-in user. Content must be non-empty; that
// is the caller's job.
type NewPost struct {
	Content  string   `json:"content"`
	ImageURL *string  `json:"image_url,omitempty"`
	Hashtags []string `json:"hashtags"`
	Category string   `json:"category"`
}

// PostFilter narrows GetPosts. Empty fields do not filter.
type PostFilter struct {
	Category string
	Hashtag  string
}

func (f PostFilter) query() url.Values {
	q := url.Values{}
	if f.Category != "" && f.Category != entities.CategoryAll {
		q.Set("category", f.Category)
	}
	if f.Hashtag != "" {
		q.Set("hashtag", f.Hashtag)
	}
	return q
}

type PostsService struct {
	client *client.Client
}

func NewPostsService(c *client.Client) *PostsService {
	return &PostsService{client: c}
}

// CreatePost returns the stored post joined with its author.
func (s *PostsService) CreatePost(ctx context.Context, p NewPost) (*entities.Post, error) {
	if p.Hashtags == nil {
		p.Hashtags = []string{}
	}
	var post entities.Post
	if err := s.client.Post(ctx, "/rest/v1/posts", p, &post); err != nil {
		return nil, persistence("create post", err)
	}
	return &post, nil
}

// GetPosts returns posts newest first.
func (s *PostsService) GetPosts(ctx context.Context, f PostFilter) ([]entities.Post, error) {
	posts := []entities.Post{}
	if err := s.client.Get(ctx, "/rest/v1/posts", f.query(), &posts); err != nil {
		return nil, persistence("get posts", err)
	}
	return posts, nil
}

// LikePost asks the backend to add one like and returns the updated post.
func (s *PostsService) LikePost(ctx context.Context, postID string) (*entities.Post, error) {
	var post entities.Post
	err := s.client.RPC(ctx, "increment_likes", map[string]string{"post_id": postID}, &post)
	if err != nil {
		return nil, persistence("like post", err)
	}
	return &post, nil
}

func (s *PostsService) AddComment(ctx context.Context, postID, content string) (*entities.Comment, error) {
	var comment entities.Comment
	path := "/rest/v1/posts/" + url.PathEscape(postID) + "/comments"
	if err := s.client.Post(ctx, path, map[string]string{"content": content}, &comment); err != nil {
		return nil, persistence("add comment", err)
	}
	return &comment, nil
}

// GetComments returns a post's comments oldest first.
func (s *PostsService) GetComments(ctx context.Context, postID string) ([]entities.Comment, error) {
	comments := []entities.Comment{}
	path := "/rest/v1/posts/" + url.PathEscape(postID) + "/comments"
	if err := s.client.Get(ctx, path, nil, &comments); err != nil {
		return nil, persistence("get comments", err)
	}
	return comments, nil
}
