package repositories

import (
	"errors"

	"financehub/entities"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicate      = errors.New("record already exists")
	ErrAlreadyReacted = errors.New("user already reacted")
)

// PostFilter narrows a post listing. Zero fields do not filter.
type PostFilter struct {
	Category string
	Hashtag  string
}

// PollFilter narrows a poll listing. Zero fields do not filter.
type PollFilter struct {
	Category string
}

type UserRepository interface {
	Create(user *entities.User) error
	GetByID(id string) (*entities.User, error)
	GetByEmail(email string) (*entities.User, error)
	Update(user *entities.User) error
}

type PostRepository interface {
	Create(post *entities.Post) error
	GetByID(id string) (*entities.Post, error)
	// List returns posts newest first with their author joined.
	List(filter PostFilter) ([]entities.Post, error)
	// IncrementLikes adds one like and records it in the like ledger in a
	// single transaction.
	IncrementLikes(postID, userID string) error
	// AddComment stores the comment and bumps the post's comments_count.
	AddComment(comment *entities.Comment) error
	// ListComments returns a post's comments oldest first.
	ListComments(postID string) ([]entities.Comment, error)
}

type PollRepository interface {
	// Create stores the poll together with its options.
	Create(poll *entities.Poll) error
	GetByID(id string) (*entities.Poll, error)
	// List returns polls newest first, options in creation order.
	List(filter PollFilter) ([]entities.Poll, error)
	// Vote increments the option and the poll total together and records the
	// vote in the ledger. ErrNotFound when the option is not part of the poll.
	Vote(pollID, optionID, userID string) error
}

// Repositories bundles the storage the backend needs.
type Repositories struct {
	Users UserRepository
	Posts PostRepository
	Polls PollRepository
}
