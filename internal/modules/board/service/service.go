package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"starboard/internal/config"
	"starboard/internal/entity"
	boardRepo "starboard/internal/modules/board/repository"
	noticeService "starboard/internal/modules/notice/service"
	starRepo "starboard/internal/modules/star/repository"
	"starboard/internal/platform"
)

const noticeEnteredStarboard = "entered_starboard"

// Resolution is a reaction event resolved to its canonical origin message.
type Resolution struct {
	MessageID string
	ChannelID string
	AuthorID  string
	Message   platform.Message
}

type BoardService interface {
	// Reconcile re-reads the star count for the resolved message and brings the
	// mirrored post in line: created when the count crosses the threshold,
	// refreshed while above it, removed when it drops below.
	Reconcile(ctx context.Context, res Resolution) error
	// Resync rebuilds the star ledger for one message from the platform's live
	// reaction state, then reconciles. Recovery path for missed events.
	Resync(ctx context.Context, ref platform.MessageRef) error
}

type boardService struct {
	cfg     *config.Config
	client  platform.ChatClient
	stars   starRepo.StarRepository
	posts   boardRepo.PostRepository
	notices noticeService.NoticeService
	log     *zap.Logger
}

func NewBoardService(cfg *config.Config, client platform.ChatClient, stars starRepo.StarRepository, posts boardRepo.PostRepository, notices noticeService.NoticeService, log *zap.Logger) BoardService {
	return &boardService{
		cfg:     cfg,
		client:  client,
		stars:   stars,
		posts:   posts,
		notices: notices,
		log:     log,
	}
}

func (s *boardService) Reconcile(ctx context.Context, res Resolution) error {
	post, err := s.posts.FindByMessageID(ctx, res.MessageID)
	if err != nil {
		return err
	}
	count, err := s.stars.Count(ctx, res.MessageID)
	if err != nil {
		return err
	}

	threshold := s.cfg.Threshold(res.Message.IsThreadReply())

	if count >= int64(threshold) {
		return s.publish(ctx, res, post, count)
	}

	if post == nil {
		return nil
	}

	// Delete the board message first: if that fails the record stays behind
	// and a later reconciliation pass retries the delete.
	if err := s.client.DeleteMessage(ctx, s.cfg.StarboardChannel, post.PostID); err != nil {
		return err
	}
	return s.posts.DeleteByMessageID(ctx, res.MessageID)
}

func (s *boardService) publish(ctx context.Context, res Resolution, post *entity.Post, count int64) error {
	permalink, err := s.client.ResolvePermalink(ctx, res.ChannelID, res.MessageID)
	if err != nil {
		return err
	}
	content := fmt.Sprintf("%s *%d* <#%s>\n\n%s", s.cfg.Emoji, count, res.ChannelID, permalink)

	if post != nil {
		if err := s.client.UpdateMessage(ctx, s.cfg.StarboardChannel, post.PostID, content); err != nil {
			// Stale content self-corrects on the next reaction event.
			s.log.Warn("couldn't refresh board post",
				zap.String("post_id", post.PostID),
				zap.Error(err))
		}
		return nil
	}

	postID, err := s.client.PostMessage(ctx, s.cfg.StarboardChannel, content)
	if err != nil {
		return err
	}

	if err := s.posts.Create(ctx, &entity.Post{
		MessageID: res.MessageID,
		ChannelID: res.ChannelID,
		PostID:    postID,
		AuthorID:  res.AuthorID,
	}); err != nil {
		return err
	}

	s.log.Info("message entered the board",
		zap.String("message_id", res.MessageID),
		zap.Int64("stars", count))

	return s.notices.NotifyOnce(ctx, noticeEnteredStarboard, res.AuthorID,
		s.congratsText(count), s.sendDM)
}

func (s *boardService) sendDM(ctx context.Context, userID, text string) error {
	_, err := s.client.PostMessage(ctx, userID, text)
	return err
}

func (s *boardService) Resync(ctx context.Context, ref platform.MessageRef) error {
	if ref.ChannelID == s.cfg.StarboardChannel {
		// Resync operates on origin messages only.
		s.log.Info("ignoring resync on the board channel", zap.String("message_id", ref.MessageID))
		return nil
	}

	msg, err := s.client.FetchMessage(ctx, ref.ChannelID, ref.MessageID)
	if err != nil {
		return err
	}

	reactors, err := s.reactorSet(ctx, ref.ChannelID, ref.MessageID)
	if err != nil {
		return err
	}

	// Reactions placed directly on the mirrored copy count too.
	post, err := s.posts.FindByMessageID(ctx, ref.MessageID)
	if err != nil {
		return err
	}
	if post != nil {
		boardReactors, err := s.reactorSet(ctx, s.cfg.StarboardChannel, post.PostID)
		if err != nil {
			return err
		}
		for userID := range boardReactors {
			reactors[userID] = struct{}{}
		}
	}

	reactorIDs := make([]string, 0, len(reactors))
	for userID := range reactors {
		reactorIDs = append(reactorIDs, userID)
	}

	if err := s.stars.Replace(ctx, ref.MessageID, ref.ChannelID, reactorIDs, msg.AuthorID); err != nil {
		return err
	}

	return s.Reconcile(ctx, Resolution{
		MessageID: ref.MessageID,
		ChannelID: ref.ChannelID,
		AuthorID:  msg.AuthorID,
		Message:   *msg,
	})
}

func (s *boardService) reactorSet(ctx context.Context, channelID, messageID string) (map[string]struct{}, error) {
	reactions, err := s.client.FetchReactions(ctx, channelID, messageID)
	if err != nil {
		return nil, err
	}
	users := make(map[string]struct{})
	for _, reaction := range reactions {
		if reaction.Name != s.cfg.ReactionName {
			continue
		}
		for _, userID := range reaction.Users {
			users[userID] = struct{}{}
		}
	}
	return users, nil
}

func (s *boardService) congratsText(count int64) string {
	board := s.cfg.StarboardChannel
	return fmt.Sprintf(`Congratulations on your newfound <#%s> fame! Your message got %d %ss, meaning people thought it was funny! Think of <#%s> as democratized pins but without being limited arbitrarily!

Feel free to join <#%s> to look at other people's %s'd posts! I'll only post this tip once, so don't worry about joining if you don't want to :)`,
		board, count, s.cfg.Emoji, board, board, s.cfg.Emoji)
}
