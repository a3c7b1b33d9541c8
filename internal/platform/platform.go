// Package platform defines the chat-platform boundary the engine works
// against. The concrete Slack adapter lives in platform/slack; services only
// see these types, which keeps them testable with fakes.
package platform

import "context"

// Message is the origin-message record as reported by the platform.
type Message struct {
	Timestamp       string
	ThreadTimestamp string
	AuthorID        string
	Text            string
}

// IsThreadReply reports whether the message lives inside a thread rather than
// at the top level of a channel. A thread parent carries its own timestamp as
// ThreadTimestamp and still counts as top-level.
func (m Message) IsThreadReply() bool {
	return m.ThreadTimestamp != "" && m.ThreadTimestamp != m.Timestamp
}

// Reaction is one emoji's live reaction state on a message.
type Reaction struct {
	Name  string
	Users []string
}

// UserProfile carries the subset of a user record the engine cares about.
type UserProfile struct {
	ID          string
	IsAutomated bool
}

// MessageRef addresses a message by its channel and platform identifier.
type MessageRef struct {
	ChannelID string
	MessageID string
}

// ReactionEvent is the typed form of a reaction_added / reaction_removed
// delivery, resolved at the transport boundary before entering the engine.
type ReactionEvent struct {
	Reaction  string
	UserID    string
	ChannelID string
	MessageID string
}

// ChatClient is the platform API surface the engine consumes. Calls carry no
// retry logic here; adapters own their own timeout behavior.
type ChatClient interface {
	FetchMessage(ctx context.Context, channelID, messageID string) (*Message, error)
	FetchReactions(ctx context.Context, channelID, messageID string) ([]Reaction, error)
	ResolvePermalink(ctx context.Context, channelID, messageID string) (string, error)
	PostMessage(ctx context.Context, channelID, text string) (string, error)
	UpdateMessage(ctx context.Context, channelID, messageID, text string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	FetchUserProfile(ctx context.Context, userID string) (*UserProfile, error)
}
