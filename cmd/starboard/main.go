package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	slackapi "github.com/slack-go/slack"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"starboard/internal/config"
	"starboard/internal/entity"
	boardRepo "starboard/internal/modules/board/repository"
	boardService "starboard/internal/modules/board/service"
	leaderboardRepo "starboard/internal/modules/leaderboard/repository"
	leaderboardService "starboard/internal/modules/leaderboard/service"
	noticeRepo "starboard/internal/modules/notice/repository"
	noticeService "starboard/internal/modules/notice/service"
	starRepo "starboard/internal/modules/star/repository"
	starService "starboard/internal/modules/star/service"
	slackPlatform "starboard/internal/platform/slack"
	"starboard/internal/server"
	"starboard/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	db := database.Connect()
	if err := migrate(db); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	redisClient := newRedisClient(cfg, logger)

	api := slackapi.New(cfg.SlackBotToken, slackapi.OptionAppLevelToken(cfg.SlackAppToken))
	client := slackPlatform.NewClient(api)

	stars := starRepo.NewStarRepository(db)
	posts := boardRepo.NewPostRepository(db)
	notices := noticeService.NewNoticeService(noticeRepo.NewNoticeRepository(db), logger)

	board := boardService.NewBoardService(cfg, client, stars, posts, notices, logger)
	starSvc := starService.NewStarService(cfg, client, stars, posts, notices, board, logger)
	leaderboard := leaderboardService.NewLeaderboardService(leaderboardRepo.NewLeaderboardRepository(db), client, redisClient, logger)

	go func() {
		router := server.New(cfg, leaderboard)
		if err := router.Run(":" + cfg.Port); err != nil {
			logger.Fatal("http server exited", zap.Error(err))
		}
	}()

	listener := slackPlatform.NewListener(cfg, api, starSvc, board, leaderboard, logger)
	if err := listener.Run(context.Background()); err != nil {
		logger.Fatal("slack listener exited", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.AppEnv == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newRedisClient(cfg *config.Config, logger *zap.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid REDIS_URL, running without cache", zap.Error(err))
		return nil
	}
	return redis.NewClient(opts)
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Star{},
		&entity.Post{},
		&entity.Notice{},
	)
}
