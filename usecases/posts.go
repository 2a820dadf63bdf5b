package usecases

import (
	"strings"

	"financehub/entities"
	"financehub/repositories"
)

// NewPostInput is what an author sends to create a post.
type NewPostInput struct {
	Content  string   `json:"content"`
	ImageURL *string  `json:"image_url,omitempty"`
	Hashtags []string `json:"hashtags"`
	Category string   `json:"category"`
}

type PostsUseCase struct {
	posts repositories.PostRepository
}

func NewPostsUseCase(posts repositories.PostRepository) *PostsUseCase {
	return &PostsUseCase{posts: posts}
}

// CreatePost stores a post with zeroed counters and returns it joined with its
// author.
func (uc *PostsUseCase) CreatePost(authorID string, in NewPostInput) (*entities.Post, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, invalid("content is required")
	}
	if !entities.IsCategory(in.Category) {
		return nil, invalid("unknown category %q", in.Category)
	}
	if in.ImageURL != nil && strings.TrimSpace(*in.ImageURL) == "" {
		in.ImageURL = nil
	}

	post := &entities.Post{
		UserID:   authorID,
		Content:  in.Content,
		ImageURL: in.ImageURL,
		Hashtags: entities.NormalizeHashtags(in.Hashtags),
		Category: in.Category,
	}
	if err := uc.posts.Create(post); err != nil {
		return nil, fromRepo(err, "create post")
	}
	return post, nil
}

// ListPosts returns posts newest first. The "all" category means no filter.
func (uc *PostsUseCase) ListPosts(filter repositories.PostFilter) ([]entities.Post, error) {
	if filter.Category == entities.CategoryAll {
		filter.Category = ""
	}
	filter.Hashtag = strings.TrimPrefix(strings.TrimSpace(filter.Hashtag), "#")
	posts, err := uc.posts.List(filter)
	if err != nil {
		return nil, fromRepo(err, "list posts")
	}
	return posts, nil
}

// LikePost records a like by userID and returns the post with its new count.
func (uc *PostsUseCase) LikePost(userID, postID string) (*entities.Post, error) {
	if postID == "" {
		return nil, invalid("post_id is required")
	}
	if err := uc.posts.IncrementLikes(postID, userID); err != nil {
		return nil, fromRepo(err, "post "+postID)
	}
	post, err := uc.posts.GetByID(postID)
	if err != nil {
		return nil, fromRepo(err, "post "+postID)
	}
	return post, nil
}

func (uc *PostsUseCase) AddComment(authorID, postID, content string) (*entities.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, invalid("content is required")
	}
	comment := &entities.Comment{
		PostID:  postID,
		UserID:  authorID,
		Content: content,
	}
	if err := uc.posts.AddComment(comment); err != nil {
		return nil, fromRepo(err, "post "+postID)
	}
	return comment, nil
}

// ListComments returns comments oldest first.
func (uc *PostsUseCase) ListComments(postID string) ([]entities.Comment, error) {
	if _, err := uc.posts.GetByID(postID); err != nil {
		return nil, fromRepo(err, "post "+postID)
	}
	comments, err := uc.posts.ListComments(postID)
	if err != nil {
		return nil, fromRepo(err, "list comments")
	}
	return comments, nil
}
