package repository

import (
	"context"

	"gorm.io/gorm"

	"starboard/internal/entity"
)

type PostRepository interface {
	// FindByMessageID returns nil when the message has no live mirror.
	FindByMessageID(ctx context.Context, messageID string) (*entity.Post, error)
	// FindByPostID maps a starboard-channel message back to its origin.
	FindByPostID(ctx context.Context, postID string) (*entity.Post, error)
	Create(ctx context.Context, post *entity.Post) error
	DeleteByMessageID(ctx context.Context, messageID string) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) FindByMessageID(ctx context.Context, messageID string) (*entity.Post, error) {
	return r.findOne(ctx, "message_id = ?", messageID)
}

func (r *postRepository) FindByPostID(ctx context.Context, postID string) (*entity.Post, error) {
	return r.findOne(ctx, "post_id = ?", postID)
}

func (r *postRepository) findOne(ctx context.Context, query string, arg string) (*entity.Post, error) {
	// Use Find with slice to avoid "record not found" log noise from GORM's First()
	var posts []entity.Post
	err := r.db.WithContext(ctx).
		Where(query, arg).
		Limit(1).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return &posts[0], nil
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) DeleteByMessageID(ctx context.Context, messageID string) error {
	return r.db.WithContext(ctx).
		Where("message_id = ?", messageID).
		Delete(&entity.Post{}).Error
}
