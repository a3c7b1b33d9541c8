package repository

import (
	"context"

	"gorm.io/gorm"

	"starboard/internal/entity"
)

// ReceiverRank is one row of a per-user ranking (star receivers or starrers).
type ReceiverRank struct {
	AuthorID string `json:"author_id"`
	Count    int64  `json:"count"`
}

// PostRank is one row of the top-posts ranking.
type PostRank struct {
	AuthorID  string `json:"author_id"`
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
	Count     int64  `json:"count"`
}

type LeaderboardRepository interface {
	TopReceivers(ctx context.Context, limit int) ([]ReceiverRank, error)
	TopStarrers(ctx context.Context, limit int) ([]ReceiverRank, error)
	TopPosts(ctx context.Context, limit int) ([]PostRank, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

// TopReceivers ranks message authors by stars received on messages that are
// currently on the board.
func (r *leaderboardRepository) TopReceivers(ctx context.Context, limit int) ([]ReceiverRank, error) {
	var ranks []ReceiverRank
	err := r.db.WithContext(ctx).
		Model(&entity.Star{}).
		Select("posts.author_id, COUNT(*) as count").
		Joins("LEFT JOIN posts ON stars.message_id = posts.message_id").
		Where("posts.author_id IS NOT NULL").
		Group("posts.author_id").
		Order("count DESC").
		Limit(limit).
		Scan(&ranks).Error
	return ranks, err
}

// TopStarrers ranks users by stars given.
func (r *leaderboardRepository) TopStarrers(ctx context.Context, limit int) ([]ReceiverRank, error) {
	var ranks []ReceiverRank
	err := r.db.WithContext(ctx).
		Model(&entity.Star{}).
		Select("author_id, COUNT(*) as count").
		Group("author_id").
		Order("count DESC").
		Limit(limit).
		Scan(&ranks).Error
	return ranks, err
}

func (r *leaderboardRepository) TopPosts(ctx context.Context, limit int) ([]PostRank, error) {
	var ranks []PostRank
	err := r.db.WithContext(ctx).
		Model(&entity.Post{}).
		Select("posts.author_id, posts.channel_id, posts.message_id, COUNT(stars.author_id) as count").
		Joins("JOIN stars ON stars.message_id = posts.message_id").
		Group("posts.author_id, posts.channel_id, posts.message_id").
		Order("count DESC").
		Limit(limit).
		Scan(&ranks).Error
	return ranks, err
}
