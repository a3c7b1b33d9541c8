package slack

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
	"go.uber.org/zap"

	"starboard/internal/config"
	boardService "starboard/internal/modules/board/service"
	leaderboardService "starboard/internal/modules/leaderboard/service"
	starService "starboard/internal/modules/star/service"
	"starboard/internal/platform"
)

const reloadStarsCallbackID = "reload_stars"

// Listener consumes Socket Mode deliveries, resolves them into typed events
// and hands each one to the engine as an independent unit of work.
type Listener struct {
	cfg         *config.Config
	api         *slack.Client
	sm          *socketmode.Client
	stars       starService.StarService
	board       boardService.BoardService
	leaderboard leaderboardService.LeaderboardService
	log         *zap.Logger
}

func NewListener(cfg *config.Config, api *slack.Client, stars starService.StarService, board boardService.BoardService, leaderboard leaderboardService.LeaderboardService, log *zap.Logger) *Listener {
	return &Listener{
		cfg:         cfg,
		api:         api,
		sm:          socketmode.New(api),
		stars:       stars,
		board:       board,
		leaderboard: leaderboard,
		log:         log,
	}
}

func (l *Listener) Run(ctx context.Context) error {
	go func() {
		for evt := range l.sm.Events {
			l.dispatch(evt)
		}
	}()
	return l.sm.RunContext(ctx)
}

func (l *Listener) dispatch(evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		l.log.Info("connecting to slack")
	case socketmode.EventTypeConnected:
		l.log.Info("ready")
	case socketmode.EventTypeConnectionError:
		l.log.Warn("slack connection error")

	case socketmode.EventTypeEventsAPI:
		apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			return
		}
		l.sm.Ack(*evt.Request)
		l.dispatchEventsAPI(apiEvent)

	case socketmode.EventTypeInteractive:
		callback, ok := evt.Data.(slack.InteractionCallback)
		if !ok {
			return
		}
		l.sm.Ack(*evt.Request)
		if callback.Type == slack.InteractionTypeMessageAction && callback.CallbackID == reloadStarsCallbackID {
			ref := platform.MessageRef{
				ChannelID: callback.Channel.ID,
				MessageID: callback.Message.Timestamp,
			}
			l.handle("reload_stars", func(ctx context.Context) error {
				return l.board.Resync(ctx, ref)
			})
		}

	case socketmode.EventTypeSlashCommand:
		cmd, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			return
		}
		l.sm.Ack(*evt.Request)
		if cmd.Command == "/stargazers" {
			l.handle("stargazers", func(ctx context.Context) error {
				return l.stargazers(ctx, cmd)
			})
		}
	}
}

func (l *Listener) dispatchEventsAPI(apiEvent slackevents.EventsAPIEvent) {
	switch ev := apiEvent.InnerEvent.Data.(type) {
	case *slackevents.ReactionAddedEvent:
		if ev.Item.Type != "message" {
			return
		}
		reaction := reactionEvent(ev.Reaction, ev.User, ev.Item)
		l.handle("reaction_added", func(ctx context.Context) error {
			return l.stars.HandleReactionAdded(ctx, reaction)
		})
	case *slackevents.ReactionRemovedEvent:
		if ev.Item.Type != "message" {
			return
		}
		reaction := reactionEvent(ev.Reaction, ev.User, ev.Item)
		l.handle("reaction_removed", func(ctx context.Context) error {
			return l.stars.HandleReactionRemoved(ctx, reaction)
		})
	}
}

// handle runs one unit of work to completion. A failure aborts only this
// delivery; the listener keeps going.
func (l *Listener) handle(name string, fn func(ctx context.Context) error) {
	go func() {
		if err := fn(context.Background()); err != nil {
			l.log.Error("event handling failed", zap.String("event", name), zap.Error(err))
		}
	}()
}

func (l *Listener) stargazers(ctx context.Context, cmd slack.SlashCommand) error {
	if cmd.ChannelID != l.cfg.BotspamChannel {
		_, err := l.api.PostEphemeralContext(ctx, cmd.ChannelID, cmd.UserID,
			slack.MsgOptionText(fmt.Sprintf("This command is only allowed in <#%s>!", l.cfg.BotspamChannel), false))
		return err
	}

	report, err := l.leaderboard.GetReport(ctx)
	if err != nil {
		return err
	}

	_, _, err = l.api.PostMessageContext(ctx, cmd.ChannelID, slack.MsgOptionBlocks(reportBlocks(report, l.cfg.Emoji)...))
	return err
}

func reactionEvent(reaction, userID string, item slackevents.Item) platform.ReactionEvent {
	return platform.ReactionEvent{
		Reaction:  reaction,
		UserID:    userID,
		ChannelID: item.Channel,
		MessageID: item.Timestamp,
	}
}
