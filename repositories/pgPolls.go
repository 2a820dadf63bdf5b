package repositories

import (
	"errors"

	"financehub/db"
	"financehub/entities"

	"gorm.io/gorm"
)

type pollPgRepository struct {
	db db.Database
}

func NewPollPgRepository(database db.Database) PollRepository {
	return &pollPgRepository{db: database}
}

func orderedOptions(tx *gorm.DB) *gorm.DB {
	return tx.Order("position ASC")
}

func (r *pollPgRepository) Create(poll *entities.Poll) error {
	if err := r.db.GetDB().Omit("User").Create(poll).Error; err != nil {
		return translate(err)
	}
	fresh, err := r.GetByID(poll.ID)
	if err != nil {
		return err
	}
	*poll = *fresh
	return nil
}

func (r *pollPgRepository) GetByID(id string) (*entities.Poll, error) {
	var poll entities.Poll
	err := r.db.GetDB().
		Preload("Options", orderedOptions).
		Preload("User").
		Where("id = ?", id).
		First(&poll).Error
	if err != nil {
		return nil, translate(err)
	}
	return &poll, nil
}

func (r *pollPgRepository) List(filter PollFilter) ([]entities.Poll, error) {
	q := r.db.GetDB().
		Preload("Options", orderedOptions).
		Preload("User").
		Order("created_at DESC")
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	polls := []entities.Poll{}
	err := q.Find(&polls).Error
	return polls, translate(err)
}

func (r *pollPgRepository) Vote(pollID, optionID, userID string) error {
	return r.db.GetDB().Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.PollOption{}).
			Where("id = ? AND poll_id = ?", optionID, pollID).
			UpdateColumn("votes", gorm.Expr("votes + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		res = tx.Model(&entities.Poll{}).
			Where("id = ?", pollID).
			UpdateColumn("total_votes", gorm.Expr("total_votes + ?", 1))
		if res.Error != nil {
			return res.Error
		}

		vote := &entities.PollVote{PollID: pollID, OptionID: optionID, UserID: userID}
		if err := tx.Create(vote).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyReacted
			}
			return err
		}
		return nil
	})
}

// NewPgRepositories wires the Postgres-backed repositories.
func NewPgRepositories(database db.Database) Repositories {
	return Repositories{
		Users: NewUserPgRepository(database),
		Posts: NewPostPgRepository(database),
		Polls: NewPollPgRepository(database),
	}
}
