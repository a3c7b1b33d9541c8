package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SLACK_TOKEN", "xoxb-test")
	t.Setenv("SLACK_APP_TOKEN", "xapp-test")
	t.Setenv("STARBOARD_CHANNEL", "CBOARD")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "star", cfg.ReactionName)
	require.Equal(t, "⭐", cfg.Emoji)
	require.Equal(t, 3, cfg.ThresholdTopLevel)
	require.Equal(t, 1, cfg.ThresholdThreadReply)
	require.Equal(t, "8080", cfg.Port)
}

func TestLoad_MissingTokenFails(t *testing.T) {
	setRequired(t)
	t.Setenv("SLACK_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "SlackBotToken")
}

func TestLoad_InvalidThresholdFails(t *testing.T) {
	setRequired(t)
	t.Setenv("STAR_THRESHOLD", "lots")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_ZeroThresholdRejected(t *testing.T) {
	setRequired(t)
	t.Setenv("STAR_THRESHOLD", "0")

	_, err := Load()
	require.Error(t, err)
}

func TestThreshold(t *testing.T) {
	cfg := &Config{ThresholdTopLevel: 3, ThresholdThreadReply: 1}

	require.Equal(t, 3, cfg.Threshold(false))
	require.Equal(t, 1, cfg.Threshold(true))
}
