package httpHandler

import (
	"net/http"

	"financehub/repositories"
	"financehub/usecases"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	useCase *usecases.PostsUseCase
}

func NewPostHandler(useCase *usecases.PostsUseCase) *PostHandler {
	return &PostHandler{useCase: useCase}
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type LikeRequest struct {
	PostID string `json:"post_id" binding:"required"`
}

// CreatePost handles POST /rest/v1/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req usecases.NewPostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	post, err := h.useCase.CreatePost(claimsFrom(c).UserID(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"data":    post,
	})
}

// ListPosts handles GET /rest/v1/posts?category=&hashtag=
func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.useCase.ListPosts(repositories.PostFilter{
		Category: c.Query("category"),
		Hashtag:  c.Query("hashtag"),
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  posts,
		"count": len(posts),
	})
}

// IncrementLikes handles POST /rest/v1/rpc/increment_likes
func (h *PostHandler) IncrementLikes(c *gin.Context) {
	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	post, err := h.useCase.LikePost(claimsFrom(c).UserID(), req.PostID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": post})
}

// AddComment handles POST /rest/v1/posts/:id/comments
func (h *PostHandler) AddComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	comment, err := h.useCase.AddComment(claimsFrom(c).UserID(), c.Param("id"), req.Content)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment created successfully",
		"data":    comment,
	})
}

// ListComments handles GET /rest/v1/posts/:id/comments
func (h *PostHandler) ListComments(c *gin.Context) {
	comments, err := h.useCase.ListComments(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  comments,
		"count": len(comments),
	})
}
