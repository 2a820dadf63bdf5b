package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Post struct {
	ID            string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID        string         `gorm:"type:varchar(36);index;not null" json:"user_id"`
	Content       string         `gorm:"type:text;not null" json:"content"`
	ImageURL      *string        `json:"image_url,omitempty"`
	Hashtags      pq.StringArray `gorm:"type:text[]" json:"hashtags"`
	Category      string         `gorm:"type:varchar(32);index;not null" json:"category"`
	LikesCount    int            `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int            `gorm:"not null;default:0" json:"comments_count"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	User          *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.Hashtags == nil {
		p.Hashtags = pq.StringArray{}
	}
	p.LikesCount = 0
	p.CommentsCount = 0
	return nil
}

// HasHashtag reports whether tag is one of the post's hashtags.
func (p *Post) HasHashtag(tag string) bool {
	for _, h := range p.Hashtags {
		if h == tag {
			return true
		}
	}
	return false
}

// Comment is a reply to exactly one post.
type Comment struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	PostID    string    `gorm:"type:varchar(36);index;not null" json:"post_id"`
	UserID    string    `gorm:"type:varchar(36);index;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return nil
}
