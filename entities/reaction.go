package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostLike records one accepted like. Under the "once" reaction policy the
// (post_id, user_id) pair is unique.
type PostLike struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	PostID    string    `gorm:"type:varchar(36);index;not null" json:"post_id"`
	UserID    string    `gorm:"type:varchar(36);index;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *PostLike) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	l.CreatedAt = time.Now().UTC()
	return nil
}

// PollVote records one accepted vote. Under the "once" reaction policy the
// (poll_id, user_id) pair is unique.
type PollVote struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	PollID    string    `gorm:"type:varchar(36);index;not null" json:"poll_id"`
	OptionID  string    `gorm:"type:varchar(36);not null" json:"option_id"`
	UserID    string    `gorm:"type:varchar(36);index;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (v *PollVote) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	v.CreatedAt = time.Now().UTC()
	return nil
}

// ReactionPolicy decides whether a user may like a post or vote on a poll
// more than once.
type ReactionPolicy string

const (
	ReactionOnce      ReactionPolicy = "once"
	ReactionUnlimited ReactionPolicy = "unlimited"
)

// ParseReactionPolicy falls back to ReactionOnce for unknown values.
func ParseReactionPolicy(s string) ReactionPolicy {
	if ReactionPolicy(s) == ReactionUnlimited {
		return ReactionUnlimited
	}
	return ReactionOnce
}
