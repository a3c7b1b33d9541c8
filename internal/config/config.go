package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	pkgvalidator "starboard/pkg/validator"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	SlackBotToken string `validate:"required"`
	SlackAppToken string `validate:"required"`

	StarboardChannel string `validate:"required"`
	BotspamChannel   string

	ReactionName string `validate:"required"`
	Emoji        string `validate:"required"`

	// Minimum distinct reactors before a message is mirrored. Thread replies
	// get a lower bar than top-level messages.
	ThresholdTopLevel    int `validate:"min=1"`
	ThresholdThreadReply int `validate:"min=1"`

	RedisURL string
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		SlackBotToken: os.Getenv("SLACK_TOKEN"),
		SlackAppToken: os.Getenv("SLACK_APP_TOKEN"),

		StarboardChannel: os.Getenv("STARBOARD_CHANNEL"),
		BotspamChannel:   os.Getenv("BOTSPAM_CHANNEL"),

		ReactionName: getEnv("REACTION_NAME", "star"),
		Emoji:        getEnv("EMOJI", "⭐"),

		RedisURL: os.Getenv("REDIS_URL"),
	}

	var err error
	cfg.ThresholdTopLevel, err = parseInt(getEnv("STAR_THRESHOLD", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid STAR_THRESHOLD: %w", err)
	}
	cfg.ThresholdThreadReply, err = parseInt(getEnv("STAR_THRESHOLD_THREAD", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid STAR_THRESHOLD_THREAD: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %s", pkgvalidator.FormatValidationError(err))
	}

	return cfg, nil
}

// Threshold returns the minimum star count for a message to be mirrored.
func (c *Config) Threshold(threadReply bool) int {
	if threadReply {
		return c.ThresholdThreadReply
	}
	return c.ThresholdTopLevel
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(s)
}
