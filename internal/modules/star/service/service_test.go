package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"starboard/internal/config"
	"starboard/internal/entity"
	boardRepo "starboard/internal/modules/board/repository"
	boardService "starboard/internal/modules/board/service"
	noticeRepo "starboard/internal/modules/notice/repository"
	noticeService "starboard/internal/modules/notice/service"
	starRepo "starboard/internal/modules/star/repository"
	"starboard/internal/platform"
)

const boardChannel = "CBOARD"

type sentMessage struct {
	ChannelID string
	Text      string
}

type fakeClient struct {
	messages  map[string]platform.Message
	reactions map[string][]platform.Reaction
	profiles  map[string]platform.UserProfile
	posts     []sentMessage
	seq       int
	fetches   int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		messages:  make(map[string]platform.Message),
		reactions: make(map[string][]platform.Reaction),
		profiles:  make(map[string]platform.UserProfile),
	}
}

func key(channelID, messageID string) string { return channelID + "/" + messageID }

func (f *fakeClient) FetchMessage(ctx context.Context, channelID, messageID string) (*platform.Message, error) {
	f.fetches++
	msg, ok := f.messages[key(channelID, messageID)]
	if !ok {
		return nil, fmt.Errorf("message %s not found in %s", messageID, channelID)
	}
	return &msg, nil
}

func (f *fakeClient) FetchReactions(ctx context.Context, channelID, messageID string) ([]platform.Reaction, error) {
	return f.reactions[key(channelID, messageID)], nil
}

func (f *fakeClient) ResolvePermalink(ctx context.Context, channelID, messageID string) (string, error) {
	return fmt.Sprintf("https://chat.example/archives/%s/p%s", channelID, messageID), nil
}

func (f *fakeClient) PostMessage(ctx context.Context, channelID, text string) (string, error) {
	f.seq++
	f.posts = append(f.posts, sentMessage{ChannelID: channelID, Text: text})
	return fmt.Sprintf("1700000001.%06d", f.seq), nil
}

func (f *fakeClient) UpdateMessage(ctx context.Context, channelID, messageID, text string) error {
	return nil
}

func (f *fakeClient) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return nil
}

func (f *fakeClient) FetchUserProfile(ctx context.Context, userID string) (*platform.UserProfile, error) {
	if profile, ok := f.profiles[userID]; ok {
		return &profile, nil
	}
	return &platform.UserProfile{ID: userID}, nil
}

func (f *fakeClient) postsTo(channelID string) []sentMessage {
	var out []sentMessage
	for _, msg := range f.posts {
		if msg.ChannelID == channelID {
			out = append(out, msg)
		}
	}
	return out
}

type fixture struct {
	client *fakeClient
	stars  starRepo.StarRepository
	posts  boardRepo.PostRepository
	svc    StarService
	db     *gorm.DB
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Star{}, &entity.Post{}, &entity.Notice{}))

	cfg := &config.Config{
		StarboardChannel:     boardChannel,
		ReactionName:         "star",
		Emoji:                "⭐",
		ThresholdTopLevel:    3,
		ThresholdThreadReply: 1,
	}

	client := newFakeClient()
	stars := starRepo.NewStarRepository(db)
	posts := boardRepo.NewPostRepository(db)
	notices := noticeService.NewNoticeService(noticeRepo.NewNoticeRepository(db), zap.NewNop())
	board := boardService.NewBoardService(cfg, client, stars, posts, notices, zap.NewNop())

	return &fixture{
		client: client,
		stars:  stars,
		posts:  posts,
		svc:    NewStarService(cfg, client, stars, posts, notices, board, zap.NewNop()),
		db:     db,
	}
}

func event(reaction, userID, channelID, messageID string) platform.ReactionEvent {
	return platform.ReactionEvent{Reaction: reaction, UserID: userID, ChannelID: channelID, MessageID: messageID}
}

func (f *fixture) starCount(t *testing.T, messageID string) int64 {
	t.Helper()
	count, err := f.stars.Count(context.Background(), messageID)
	require.NoError(t, err)
	return count
}

func TestHandleReactionAdded_WrongEmojiIgnored(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.HandleReactionAdded(context.Background(), event("eyes", "U1", "C1", "100.1")))

	require.Zero(t, f.client.fetches)
	require.Zero(t, f.starCount(t, "100.1"))
}

func TestHandleReactionAdded_SelfReactionIgnored(t *testing.T) {
	f := newFixture(t)
	f.client.messages[key("C1", "100.1")] = platform.Message{Timestamp: "100.1", AuthorID: "U1"}

	require.NoError(t, f.svc.HandleReactionAdded(context.Background(), event("star", "U1", "C1", "100.1")))

	require.Zero(t, f.starCount(t, "100.1"))
}

func TestHandleReactionAdded_AutomatedReactorIgnored(t *testing.T) {
	f := newFixture(t)
	f.client.messages[key("C1", "100.1")] = platform.Message{Timestamp: "100.1", AuthorID: "UAUTHOR"}
	f.client.profiles["UBOT"] = platform.UserProfile{ID: "UBOT", IsAutomated: true}

	require.NoError(t, f.svc.HandleReactionAdded(context.Background(), event("star", "UBOT", "C1", "100.1")))

	require.Zero(t, f.starCount(t, "100.1"))
}

func TestHandleReactionAdded_IdentityMismatchDropped(t *testing.T) {
	f := newFixture(t)
	// The platform reports a different message than the one requested.
	f.client.messages[key("C1", "100.1")] = platform.Message{Timestamp: "999.9", AuthorID: "UAUTHOR"}

	require.NoError(t, f.svc.HandleReactionAdded(context.Background(), event("star", "U1", "C1", "100.1")))

	require.Zero(t, f.starCount(t, "100.1"))
	require.Zero(t, f.starCount(t, "999.9"))
}

func TestHandleReactionAdded_RecordsStarsAndMirrorsAtThreshold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.client.messages[key("C1", "100.1")] = platform.Message{Timestamp: "100.1", AuthorID: "UAUTHOR"}

	require.NoError(t, f.svc.HandleReactionAdded(ctx, event("star", "U1", "C1", "100.1")))
	require.NoError(t, f.svc.HandleReactionAdded(ctx, event("star", "U2", "C1", "100.1")))
	require.Empty(t, f.client.postsTo(boardChannel))

	require.NoError(t, f.svc.HandleReactionAdded(ctx, event("star", "U3", "C1", "100.1")))

	require.EqualValues(t, 3, f.starCount(t, "100.1"))
	require.Len(t, f.client.postsTo(boardChannel), 1)
	// One congratulation for the author.
	require.Len(t, f.client.postsTo("UAUTHOR"), 1)
}

func TestHandleReactionAdded_DuplicateAddIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.client.messages[key("C1", "100.1")] = platform.Message{Timestamp: "100.1", AuthorID: "UAUTHOR"}

	require.NoError(t, f.svc.HandleReactionAdded(ctx, event("star", "U1", "C1", "100.1")))
	require.NoError(t, f.svc.HandleReactionAdded(ctx, event("star", "U1", "C1", "100.1")))

	require.EqualValues(t, 1, f.starCount(t, "100.1"))
}

func TestHandleReactionAdded_BoardChannelMapsToOrigin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.posts.Create(ctx, &entity.Post{
		MessageID: "100.1",
		ChannelID: "C1",
		PostID:    "900.1",
		AuthorID:  "UAUTHOR",
	}))
	f.client.messages[key("C1", "100.1")] = platform.Message{Timestamp: "100.1", AuthorID: "UAUTHOR"}

	require.NoError(t, f.svc.HandleReactionAdded(ctx, event("star", "U1", boardChannel, "900.1")))

	// The star lands on the origin message, not the mirror.
	require.EqualValues(t, 1, f.starCount(t, "100.1"))
	require.Zero(t, f.starCount(t, "900.1"))
}

func TestHandleReactionAdded_BoardChannelFallbackWithoutMirror(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A plain message living in the board channel itself.
	f.client.messages[key(boardChannel, "900.2")] = platform.Message{Timestamp: "900.2", AuthorID: "UAUTHOR"}

	require.NoError(t, f.svc.HandleReactionAdded(ctx, event("star", "U1", boardChannel, "900.2")))

	require.EqualValues(t, 1, f.starCount(t, "900.2"))
}

func TestHandleReactionAdded_FirstStarTipSentOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.client.messages[key("C1", "100.1")] = platform.Message{Timestamp: "100.1", AuthorID: "UAUTHOR"}
	f.client.messages[key("C1", "100.2")] = platform.Message{Timestamp: "100.2", AuthorID: "UAUTHOR"}

	require.NoError(t, f.svc.HandleReactionAdded(ctx, event("star", "U1", "C1", "100.1")))
	require.NoError(t, f.svc.HandleReactionAdded(ctx, event("star", "U1", "C1", "100.2")))

	require.Len(t, f.client.postsTo("U1"), 1)
}

func TestHandleReactionRemoved_DropsStarAndRemovesMirror(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.client.messages[key("C1", "100.1")] = platform.Message{Timestamp: "100.1", AuthorID: "UAUTHOR"}

	for _, userID := range []string{"U1", "U2", "U3"} {
		require.NoError(t, f.svc.HandleReactionAdded(ctx, event("star", userID, "C1", "100.1")))
	}
	require.Len(t, f.client.postsTo(boardChannel), 1)

	require.NoError(t, f.svc.HandleReactionRemoved(ctx, event("star", "U3", "C1", "100.1")))

	require.EqualValues(t, 2, f.starCount(t, "100.1"))
	post, err := f.posts.FindByMessageID(ctx, "100.1")
	require.NoError(t, err)
	require.Nil(t, post)
}
