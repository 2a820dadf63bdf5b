package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the public profile of a community member. The id is issued at
// registration and never changes; every post, poll and comment points at it.
type User struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	Username      string    `gorm:"uniqueIndex;not null" json:"username"`
	AvatarURL     *string   `json:"avatar_url,omitempty"`
	Bio           *string   `gorm:"type:text" json:"bio,omitempty"`
	PasswordHash  string    `gorm:"not null" json:"-"`
	EmailVerified bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.UpdatedAt = u.CreatedAt
	return nil
}

// ProfileUpdate carries the profile fields a user may change. Nil fields are
// left untouched.
type ProfileUpdate struct {
	Username  *string `json:"username,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

// Empty reports whether no field was supplied.
func (p ProfileUpdate) Empty() bool {
	return p.Username == nil && p.AvatarURL == nil && p.Bio == nil
}

// Apply copies the supplied fields onto u.
func (p ProfileUpdate) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.AvatarURL != nil {
		u.AvatarURL = p.AvatarURL
	}
	if p.Bio != nil {
		u.Bio = p.Bio
	}
}
