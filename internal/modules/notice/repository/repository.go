package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"starboard/internal/entity"
	"starboard/pkg/apperror"
)

type NoticeRepository interface {
	// Create records a (notice, user) pair. Returns apperror.ErrDuplicateKey
	// when the pair is already recorded; callers use that to skip delivery.
	Create(ctx context.Context, noticeID, userID string) error
}

type noticeRepository struct {
	db *gorm.DB
}

func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) Create(ctx context.Context, noticeID, userID string) error {
	notice := entity.Notice{
		NoticeID: noticeID,
		UserID:   userID,
	}
	err := r.db.WithContext(ctx).Create(&notice).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("notice %s for %s: %w", noticeID, userID, apperror.ErrDuplicateKey)
	}
	return err
}
