// Package slack adapts the slack-go API client to the platform boundary.
package slack

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"starboard/internal/platform"
)

type Client struct {
	api *slack.Client
}

func NewClient(api *slack.Client) *Client {
	return &Client{api: api}
}

// FetchMessage looks up a single message by its timestamp. Thread replies are
// not returned by conversations.history, so this goes through
// conversations.replies with an inclusive single-item window, which works for
// top-level messages too.
func (c *Client) FetchMessage(ctx context.Context, channelID, messageID string) (*platform.Message, error) {
	msgs, _, _, err := c.api.GetConversationRepliesContext(ctx, &slack.GetConversationRepliesParameters{
		ChannelID: channelID,
		Timestamp: messageID,
		Latest:    messageID,
		Inclusive: true,
		Limit:     1,
	})
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("message %s not found in %s", messageID, channelID)
	}

	msg := msgs[0]
	return &platform.Message{
		Timestamp:       msg.Timestamp,
		ThreadTimestamp: msg.ThreadTimestamp,
		AuthorID:        msg.User,
		Text:            msg.Text,
	}, nil
}

func (c *Client) FetchReactions(ctx context.Context, channelID, messageID string) ([]platform.Reaction, error) {
	item := slack.NewRefToMessage(channelID, messageID)
	reactions, err := c.api.GetReactionsContext(ctx, item, slack.GetReactionsParameters{Full: true})
	if err != nil {
		return nil, err
	}

	out := make([]platform.Reaction, 0, len(reactions))
	for _, reaction := range reactions {
		out = append(out, platform.Reaction{
			Name:  reaction.Name,
			Users: reaction.Users,
		})
	}
	return out, nil
}

func (c *Client) ResolvePermalink(ctx context.Context, channelID, messageID string) (string, error) {
	return c.api.GetPermalinkContext(ctx, &slack.PermalinkParameters{
		Channel: channelID,
		Ts:      messageID,
	})
}

func (c *Client) PostMessage(ctx context.Context, channelID, text string) (string, error) {
	_, timestamp, err := c.api.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
	return timestamp, err
}

func (c *Client) UpdateMessage(ctx context.Context, channelID, messageID, text string) error {
	_, _, _, err := c.api.UpdateMessageContext(ctx, channelID, messageID, slack.MsgOptionText(text, false))
	return err
}

func (c *Client) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	_, _, err := c.api.DeleteMessageContext(ctx, channelID, messageID)
	return err
}

func (c *Client) FetchUserProfile(ctx context.Context, userID string) (*platform.UserProfile, error) {
	user, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &platform.UserProfile{
		ID:          user.ID,
		IsAutomated: user.IsBot || user.IsAppUser,
	}, nil
}
