package repositories

import (
	"errors"
	"time"

	"financehub/db"
	"financehub/entities"

	"gorm.io/gorm"
)

type userPgRepository struct {
	db db.Database
}

func NewUserPgRepository(database db.Database) UserRepository {
	return &userPgRepository{db: database}
}

func (r *userPgRepository) Create(user *entities.User) error {
	return translate(r.db.GetDB().Create(user).Error)
}

func (r *userPgRepository) GetByID(id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.GetDB().Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userPgRepository) GetByEmail(email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.GetDB().Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userPgRepository) Update(user *entities.User) error {
	user.UpdatedAt = time.Now().UTC()
	return translate(r.db.GetDB().Save(user).Error)
}

// translate maps gorm errors onto the repository sentinels. The database is
// opened with TranslateError so unique violations surface as ErrDuplicatedKey.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}
