package usecases

import (
	"fmt"
	"strings"

	"financehub/entities"
	"financehub/repositories"
)

// NewPollInput is what an author sends to create a poll.
type NewPollInput struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Category string   `json:"category"`
	Hashtags []string `json:"hashtags"`
}

type PollsUseCase struct {
	polls repositories.PollRepository
}

func NewPollsUseCase(polls repositories.PollRepository) *PollsUseCase {
	return &PollsUseCase{polls: polls}
}

// CreatePoll stores the poll with every option at zero votes.
func (uc *PollsUseCase) CreatePoll(authorID string, in NewPollInput) (*entities.Poll, error) {
	if strings.TrimSpace(in.Question) == "" {
		return nil, invalid("question is required")
	}
	texts := entities.CleanPollOptions(in.Options)
	if len(texts) < entities.MinPollOptions {
		return nil, invalid("a poll needs at least %d options", entities.MinPollOptions)
	}
	if !entities.IsCategory(in.Category) {
		return nil, invalid("unknown category %q", in.Category)
	}

	poll := &entities.Poll{
		UserID:   authorID,
		Question: in.Question,
		Category: in.Category,
		Hashtags: entities.NormalizeHashtags(in.Hashtags),
		Options:  make([]entities.PollOption, len(texts)),
	}
	for i, text := range texts {
		poll.Options[i] = entities.PollOption{Text: text}
	}
	if err := uc.polls.Create(poll); err != nil {
		return nil, fromRepo(err, "create poll")
	}
	return poll, nil
}

// ListPolls returns polls newest first. The "all" category means no filter.
func (uc *PollsUseCase) ListPolls(filter repositories.PollFilter) ([]entities.Poll, error) {
	if filter.Category == entities.CategoryAll {
		filter.Category = ""
	}
	polls, err := uc.polls.List(filter)
	if err != nil {
		return nil, fromRepo(err, "list polls")
	}
	return polls, nil
}

// Vote counts one vote for optionID by the session user. A user id in the
// request that differs from the session user is refused.
func (uc *PollsUseCase) Vote(callerID, pollID, optionID, userID string) (*entities.Poll, error) {
	if pollID == "" || optionID == "" {
		return nil, invalid("poll_id and option_id are required")
	}
	if userID != "" && userID != callerID {
		return nil, fmt.Errorf("%w: cannot vote on behalf of another user", ErrForbidden)
	}
	if err := uc.polls.Vote(pollID, optionID, callerID); err != nil {
		return nil, fromRepo(err, fmt.Sprintf("poll %s option %s", pollID, optionID))
	}
	poll, err := uc.polls.GetByID(pollID)
	if err != nil {
		return nil, fromRepo(err, "poll "+pollID)
	}
	return poll, nil
}
