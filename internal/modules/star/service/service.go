package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"starboard/internal/config"
	boardRepo "starboard/internal/modules/board/repository"
	boardService "starboard/internal/modules/board/service"
	noticeService "starboard/internal/modules/notice/service"
	starRepo "starboard/internal/modules/star/repository"
	"starboard/internal/platform"
)

const noticeFirstStar = "first_star"

type StarService interface {
	HandleReactionAdded(ctx context.Context, ev platform.ReactionEvent) error
	HandleReactionRemoved(ctx context.Context, ev platform.ReactionEvent) error
}

type starService struct {
	cfg     *config.Config
	client  platform.ChatClient
	stars   starRepo.StarRepository
	posts   boardRepo.PostRepository
	notices noticeService.NoticeService
	board   boardService.BoardService
	log     *zap.Logger
}

func NewStarService(cfg *config.Config, client platform.ChatClient, stars starRepo.StarRepository, posts boardRepo.PostRepository, notices noticeService.NoticeService, board boardService.BoardService, log *zap.Logger) StarService {
	return &starService{
		cfg:     cfg,
		client:  client,
		stars:   stars,
		posts:   posts,
		notices: notices,
		board:   board,
		log:     log,
	}
}

func (s *starService) HandleReactionAdded(ctx context.Context, ev platform.ReactionEvent) error {
	res, err := s.resolve(ctx, ev)
	if err != nil {
		return err
	}
	if res == nil {
		return nil
	}

	s.log.Info("star reaction added",
		zap.String("message_id", res.MessageID),
		zap.String("user_id", ev.UserID))

	if err := s.stars.Add(ctx, res.MessageID, ev.UserID, res.ChannelID); err != nil {
		return err
	}

	if err := s.notices.NotifyOnce(ctx, noticeFirstStar, ev.UserID, s.firstStarText(), s.sendDM); err != nil {
		return err
	}

	return s.board.Reconcile(ctx, *res)
}

func (s *starService) HandleReactionRemoved(ctx context.Context, ev platform.ReactionEvent) error {
	res, err := s.resolve(ctx, ev)
	if err != nil {
		return err
	}
	if res == nil {
		return nil
	}

	if err := s.stars.Remove(ctx, res.MessageID, ev.UserID, res.ChannelID); err != nil {
		return err
	}

	s.log.Info("star reaction removed",
		zap.String("message_id", res.MessageID),
		zap.String("user_id", ev.UserID))

	return s.board.Reconcile(ctx, *res)
}

// resolve turns a raw reaction event into the canonical origin message it
// refers to. A nil resolution with nil error means the event produces no
// effect: wrong emoji, self-reaction, automated reactor, or a platform
// consistency anomaly.
func (s *starService) resolve(ctx context.Context, ev platform.ReactionEvent) (*boardService.Resolution, error) {
	if ev.Reaction != s.cfg.ReactionName {
		return nil, nil
	}

	messageID := ev.MessageID
	channelID := ev.ChannelID

	// A reaction on the board channel usually targets a mirrored copy; map it
	// back to the origin. When no mirror matches, the event refers to a plain
	// message in the board channel and is processed as-is.
	if channelID == s.cfg.StarboardChannel {
		post, err := s.posts.FindByPostID(ctx, messageID)
		if err != nil {
			return nil, err
		}
		if post != nil {
			messageID = post.MessageID
			channelID = post.ChannelID
		}
	}

	msg, err := s.client.FetchMessage(ctx, channelID, messageID)
	if err != nil {
		return nil, err
	}

	if msg.Timestamp != messageID {
		// Platform returned a different message than requested. Consistency
		// anomaly; drop the event rather than act on the wrong message.
		s.log.Error("identity mismatch resolving reaction target",
			zap.String("requested", messageID),
			zap.String("returned", msg.Timestamp),
			zap.String("channel_id", channelID))
		return nil, nil
	}

	// No self-starring
	if msg.AuthorID == ev.UserID {
		return nil, nil
	}

	profile, err := s.client.FetchUserProfile(ctx, ev.UserID)
	if err != nil {
		return nil, err
	}
	if profile.IsAutomated {
		s.log.Info("ignoring automated reactor", zap.String("user_id", ev.UserID))
		return nil, nil
	}

	return &boardService.Resolution{
		MessageID: messageID,
		ChannelID: channelID,
		AuthorID:  msg.AuthorID,
		Message:   *msg,
	}, nil
}

func (s *starService) sendDM(ctx context.Context, userID, text string) error {
	_, err := s.client.PostMessage(ctx, userID, text)
	return err
}

func (s *starService) firstStarText() string {
	emoji := s.cfg.Emoji
	return fmt.Sprintf(`Psst! You added your first %s to a message! Sometimes people add %ss to things because they don't understand what they mean, so that's where this tip comes in!

Adding a %s to a message is sorta like an upvote of a message you think is funny. Think of them like democratized pins, but without the limit. Messages which reach a certain threshold of %ss get posted in <#%s>!

You're free to participate by %s-ing messages as you wish without being in the channel-I'll only post this tip once!`,
		emoji, emoji, emoji, emoji, s.cfg.StarboardChannel, emoji)
}
