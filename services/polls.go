package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"financehub/client"
	"financehub/entities"
)

type NewPoll struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Category string   `json:"category"`
	Hashtags []string `json:"hashtags"`
}

// PollFilter narrows GetPolls. An empty category does not filter.
type PollFilter struct {
	Category string
}

type PollsService struct {
	client *client.Client
}

func NewPollsService(c *client.Client) *PollsService {
	return &PollsService{client: c}
}

// CreatePoll drops blank options and refuses, without contacting the backend,
// a poll left with fewer than two.
func (s *PollsService) CreatePoll(ctx context.Context, p NewPoll) (*entities.Poll, error) {
	if strings.TrimSpace(p.Question) == "" {
		return nil, &ValidationError{Field: "question", Reason: "is required"}
	}
	p.Options = entities.CleanPollOptions(p.Options)
	if len(p.Options) < entities.MinPollOptions {
		return nil, &ValidationError{
			Field:  "options",
			Reason: fmt.Sprintf("at least %d non-empty options are required", entities.MinPollOptions),
		}
	}
	if p.Hashtags == nil {
		p.Hashtags = []string{}
	}

	var poll entities.Poll
	if err := s.client.Post(ctx, "/rest/v1/polls", p, &poll); err != nil {
		return nil, persistence("create poll", err)
	}
	return &poll, nil
}

// GetPolls returns polls newest first.
func (s *PollsService) GetPolls(ctx context.Context, f PollFilter) ([]entities.Poll, error) {
	q := url.Values{}
	if f.Category != "" && f.Category != entities.CategoryAll {
		q.Set("category", f.Category)
	}
	polls := []entities.Poll{}
	if err := s.client.Get(ctx, "/rest/v1/polls", q, &polls); err != nil {
		return nil, persistence("get polls", err)
	}
	return polls, nil
}

// Vote adds one vote to the option and to the poll total, atomically on the
// backend, and returns the updated poll.
func (s *PollsService) Vote(ctx context.Context, pollID, optionID, userID string) (*entities.Poll, error) {
	params := map[string]string{
		"poll_id":   pollID,
		"option_id": optionID,
		"user_id":   userID,
	}
	var poll entities.Poll
	if err := s.client.RPC(ctx, "vote_poll", params, &poll); err != nil {
		return nil, persistence("vote", err)
	}
	return &poll, nil
}
