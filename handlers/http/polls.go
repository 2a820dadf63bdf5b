package httpHandler

import (
	"net/http"

	"financehub/repositories"
	"financehub/usecases"

	"github.com/gin-gonic/gin"
)

type PollHandler struct {
	useCase *usecases.PollsUseCase
}

func NewPollHandler(useCase *usecases.PollsUseCase) *PollHandler {
	return &PollHandler{useCase: useCase}
}

type VoteRequest struct {
	PollID   string `json:"poll_id" binding:"required"`
	OptionID string `json:"option_id" binding:"required"`
	UserID   string `json:"user_id"`
}

// CreatePoll handles POST /rest/v1/polls
func (h *PollHandler) CreatePoll(c *gin.Context) {
	var req usecases.NewPollInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	poll, err := h.useCase.CreatePoll(claimsFrom(c).UserID(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Poll created successfully",
		"data":    poll,
	})
}

// ListPolls handles GET /rest/v1/polls?category=
func (h *PollHandler) ListPolls(c *gin.Context) {
	polls, err := h.useCase.ListPolls(repositories.PollFilter{Category: c.Query("category")})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  polls,
		"count": len(polls),
	})
}

// VotePoll handles POST /rest/v1/rpc/vote_poll
func (h *PollHandler) VotePoll(c *gin.Context) {
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	poll, err := h.useCase.Vote(claimsFrom(c).UserID(), req.PollID, req.OptionID, req.UserID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": poll})
}
