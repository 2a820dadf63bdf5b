package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Poll struct {
	ID         string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     string         `gorm:"type:varchar(36);index;not null" json:"user_id"`
	Question   string         `gorm:"type:text;not null" json:"question"`
	Options    []PollOption   `gorm:"foreignKey:PollID" json:"options"`
	Category   string         `gorm:"type:varchar(32);index;not null" json:"category"`
	Hashtags   pq.StringArray `gorm:"type:text[]" json:"hashtags"`
	TotalVotes int            `gorm:"not null;default:0" json:"total_votes"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
	User       *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (p *Poll) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.Hashtags == nil {
		p.Hashtags = pq.StringArray{}
	}
	p.TotalVotes = 0
	for i := range p.Options {
		p.Options[i].PollID = p.ID
		p.Options[i].Position = i
		p.Options[i].Votes = 0
	}
	return nil
}

// Option returns the option with the given id.
func (p *Poll) Option(id string) (*PollOption, bool) {
	for i := range p.Options {
		if p.Options[i].ID == id {
			return &p.Options[i], true
		}
	}
	return nil, false
}

// VoteSum adds up the votes of every option. It equals TotalVotes for any
// poll read back from storage.
func (p *Poll) VoteSum() int {
	sum := 0
	for _, o := range p.Options {
		sum += o.Votes
	}
	return sum
}

type PollOption struct {
	ID       string `gorm:"type:varchar(36);primaryKey" json:"id"`
	PollID   string `gorm:"type:varchar(36);index;not null" json:"-"`
	Position int    `gorm:"not null" json:"-"`
	Text     string `gorm:"type:text;not null" json:"text"`
	Votes    int    `gorm:"not null;default:0" json:"votes"`
}

func (o *PollOption) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// MinPollOptions is the smallest number of non-blank options a poll needs.
const MinPollOptions = 2

// CleanPollOptions trims the option texts and drops blank ones.
func CleanPollOptions(options []string) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
