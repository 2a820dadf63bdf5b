package httpHandler

import (
	"net/http"

	"financehub/usecases"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	useCase *usecases.AuthUseCase
}

func NewAuthHandler(useCase *usecases.AuthUseCase) *AuthHandler {
	return &AuthHandler{useCase: useCase}
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username" binding:"required"`
}

type TokenRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup handles POST /auth/v1/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	session, err := h.useCase.Register(req.Email, req.Password, req.Username)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created, please verify your email",
		"data":    session,
	})
}

// Token handles POST /auth/v1/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	session, err := h.useCase.Login(req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": session})
}

// Logout handles POST /auth/v1/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.useCase.Logout(c.Request.Context(), claimsFrom(c)); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// User handles GET /auth/v1/user
func (h *AuthHandler) User(c *gin.Context) {
	user, err := h.useCase.CurrentUser(claimsFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

// GetProfile handles GET /rest/v1/users/:id
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.useCase.GetProfile(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

// UpdateProfile handles PATCH /rest/v1/users/:id
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.useCase.UpdateProfile(claimsFrom(c).UserID(), c.Param("id"), req.toEntity())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"data":    user,
	})
}
