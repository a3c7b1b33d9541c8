package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	noticeRepo "starboard/internal/modules/notice/repository"
	"starboard/pkg/apperror"
)

// SendFunc delivers the notice text to the user, typically a DM.
type SendFunc func(ctx context.Context, userID, text string) error

type NoticeService interface {
	// NotifyOnce records the (noticeID, userID) pair and, only when it was not
	// recorded before, attempts delivery. Record-before-send is deliberate: a
	// failed send forfeits the notice instead of risking a duplicate under
	// retries, and must not be reordered.
	NotifyOnce(ctx context.Context, noticeID, userID, text string, send SendFunc) error
}

type noticeService struct {
	repo noticeRepo.NoticeRepository
	log  *zap.Logger
}

func NewNoticeService(repo noticeRepo.NoticeRepository, log *zap.Logger) NoticeService {
	return &noticeService{repo: repo, log: log}
}

func (s *noticeService) NotifyOnce(ctx context.Context, noticeID, userID, text string, send SendFunc) error {
	err := s.repo.Create(ctx, noticeID, userID)
	if errors.Is(err, apperror.ErrDuplicateKey) {
		// Already has the notice
		return nil
	}
	if err != nil {
		return err
	}

	if err := send(ctx, userID, text); err != nil {
		// The record stays; this notice is spent for the user either way.
		s.log.Warn("couldn't deliver notice",
			zap.String("notice_id", noticeID),
			zap.String("user_id", userID),
			zap.Error(err))
	}

	return nil
}
