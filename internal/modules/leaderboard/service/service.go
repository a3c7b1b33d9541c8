package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	leaderboardRepo "starboard/internal/modules/leaderboard/repository"
	"starboard/internal/platform"
)

const (
	cacheKey = "leaderboard:report"
	cacheTTL = 60 * time.Second

	receiverLimit = 10
	starrerLimit  = 10
	postLimit     = 5
)

// RankedPost is a top post with its permalink resolved for display.
type RankedPost struct {
	leaderboardRepo.PostRank
	Permalink string `json:"permalink"`
}

type Report struct {
	TopReceivers []leaderboardRepo.ReceiverRank `json:"top_receivers"`
	TopStarrers  []leaderboardRepo.ReceiverRank `json:"top_starrers"`
	TopPosts     []RankedPost                   `json:"top_posts"`
}

type LeaderboardService interface {
	GetReport(ctx context.Context) (*Report, error)
}

type leaderboardService struct {
	repo        leaderboardRepo.LeaderboardRepository
	client      platform.ChatClient
	redisClient *redis.Client
	log         *zap.Logger
}

func NewLeaderboardService(repo leaderboardRepo.LeaderboardRepository, client platform.ChatClient, redisClient *redis.Client, log *zap.Logger) LeaderboardService {
	return &leaderboardService{
		repo:        repo,
		client:      client,
		redisClient: redisClient,
		log:         log,
	}
}

func (s *leaderboardService) GetReport(ctx context.Context) (*Report, error) {
	// 1. Try cache
	if s.redisClient != nil {
		if raw, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var report Report
			if err := json.Unmarshal([]byte(raw), &report); err == nil {
				return &report, nil
			}
		}
	}

	// 2. Rebuild from DB
	receivers, err := s.repo.TopReceivers(ctx, receiverLimit)
	if err != nil {
		return nil, err
	}
	starrers, err := s.repo.TopStarrers(ctx, starrerLimit)
	if err != nil {
		return nil, err
	}
	posts, err := s.repo.TopPosts(ctx, postLimit)
	if err != nil {
		return nil, err
	}

	report := &Report{
		TopReceivers: receivers,
		TopStarrers:  starrers,
		TopPosts:     make([]RankedPost, 0, len(posts)),
	}
	for _, post := range posts {
		permalink, err := s.client.ResolvePermalink(ctx, post.ChannelID, post.MessageID)
		if err != nil {
			return nil, err
		}
		report.TopPosts = append(report.TopPosts, RankedPost{PostRank: post, Permalink: permalink})
	}

	// 3. Repopulate cache, best effort
	if s.redisClient != nil {
		if payload, err := json.Marshal(report); err == nil {
			if err := s.redisClient.Set(ctx, cacheKey, payload, cacheTTL).Err(); err != nil {
				s.log.Warn("leaderboard cache update failed", zap.Error(err))
			}
		}
	}

	return report, nil
}
