package repositories

import (
	"errors"

	"financehub/db"
	"financehub/entities"

	"gorm.io/gorm"
)

type postPgRepository struct {
	db db.Database
}

func NewPostPgRepository(database db.Database) PostRepository {
	return &postPgRepository{db: database}
}

func (r *postPgRepository) Create(post *entities.Post) error {
	if err := r.db.GetDB().Omit("User").Create(post).Error; err != nil {
		return translate(err)
	}
	return translate(r.db.GetDB().Preload("User").Where("id = ?", post.ID).First(post).Error)
}

func (r *postPgRepository) GetByID(id string) (*entities.Post, error) {
	var post entities.Post
	if err := r.db.GetDB().Preload("User").Where("id = ?", id).First(&post).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *postPgRepository) List(filter PostFilter) ([]entities.Post, error) {
	q := r.db.GetDB().Preload("User").Order("created_at DESC")
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Hashtag != "" {
		q = q.Where("? = ANY(hashtags)", filter.Hashtag)
	}
	posts := []entities.Post{}
	err := q.Find(&posts).Error
	return posts, translate(err)
}

func (r *postPgRepository) IncrementLikes(postID, userID string) error {
	return r.db.GetDB().Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Post{}).
			Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Create(&entities.PostLike{PostID: postID, UserID: userID}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyReacted
			}
			return err
		}
		return nil
	})
}

func (r *postPgRepository) AddComment(comment *entities.Comment) error {
	err := r.db.GetDB().Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Post{}).
			Where("id = ?", comment.PostID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Omit("User").Create(comment).Error
	})
	if err != nil {
		return translate(err)
	}
	return translate(r.db.GetDB().Preload("User").Where("id = ?", comment.ID).First(comment).Error)
}

func (r *postPgRepository) ListComments(postID string) ([]entities.Comment, error) {
	comments := []entities.Comment{}
	err := r.db.GetDB().Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, translate(err)
}
