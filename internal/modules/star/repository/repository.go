package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"starboard/internal/entity"
)

type StarRepository interface {
	// Add inserts a star; a uniqueness violation means the reactor already
	// starred the message and is treated as success.
	Add(ctx context.Context, messageID, authorID, channelID string) error
	Remove(ctx context.Context, messageID, authorID, channelID string) error
	Count(ctx context.Context, messageID string) (int64, error)
	// Replace drops every star for the message and re-inserts one per reactor,
	// skipping excludedAuthorID. Not atomic across delete+inserts; only the
	// manual resync path uses it.
	Replace(ctx context.Context, messageID, channelID string, reactorIDs []string, excludedAuthorID string) error
}

type starRepository struct {
	db *gorm.DB
}

func NewStarRepository(db *gorm.DB) StarRepository {
	return &starRepository{db: db}
}

func (r *starRepository) Add(ctx context.Context, messageID, authorID, channelID string) error {
	star := entity.Star{
		MessageID: messageID,
		AuthorID:  authorID,
		ChannelID: channelID,
	}
	err := r.db.WithContext(ctx).Create(&star).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Already starred
		return nil
	}
	return err
}

func (r *starRepository) Remove(ctx context.Context, messageID, authorID, channelID string) error {
	// Zero rows affected is fine: the star may never have existed.
	return r.db.WithContext(ctx).
		Where("message_id = ? AND author_id = ? AND channel_id = ?", messageID, authorID, channelID).
		Delete(&entity.Star{}).Error
}

func (r *starRepository) Count(ctx context.Context, messageID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Star{}).
		Where("message_id = ?", messageID).
		Count(&count).Error
	return count, err
}

func (r *starRepository) Replace(ctx context.Context, messageID, channelID string, reactorIDs []string, excludedAuthorID string) error {
	if err := r.db.WithContext(ctx).
		Where("message_id = ? AND channel_id = ?", messageID, channelID).
		Delete(&entity.Star{}).Error; err != nil {
		return err
	}

	for _, reactorID := range reactorIDs {
		// No self-starring
		if reactorID == excludedAuthorID {
			continue
		}
		if err := r.Add(ctx, messageID, reactorID, channelID); err != nil {
			return err
		}
	}

	return nil
}
