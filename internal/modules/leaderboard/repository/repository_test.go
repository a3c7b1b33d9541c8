package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"starboard/internal/entity"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Star{}, &entity.Post{}))
	return db
}

func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	// Message 100.1 by UA, on the board, 3 stars; 100.2 by UB, on the board,
	// 2 stars; 100.3 by UC, never crossed the threshold, 1 star.
	stars := []entity.Star{
		{MessageID: "100.1", AuthorID: "U1", ChannelID: "C1"},
		{MessageID: "100.1", AuthorID: "U2", ChannelID: "C1"},
		{MessageID: "100.1", AuthorID: "U3", ChannelID: "C1"},
		{MessageID: "100.2", AuthorID: "U1", ChannelID: "C1"},
		{MessageID: "100.2", AuthorID: "U2", ChannelID: "C1"},
		{MessageID: "100.3", AuthorID: "U1", ChannelID: "C1"},
	}
	for i := range stars {
		require.NoError(t, db.Create(&stars[i]).Error)
	}

	posts := []entity.Post{
		{MessageID: "100.1", ChannelID: "C1", PostID: "900.1", AuthorID: "UA"},
		{MessageID: "100.2", ChannelID: "C1", PostID: "900.2", AuthorID: "UB"},
	}
	for i := range posts {
		require.NoError(t, db.Create(&posts[i]).Error)
	}
}

func TestTopReceivers(t *testing.T) {
	db := testDB(t)
	seed(t, db)
	repo := NewLeaderboardRepository(db)

	ranks, err := repo.TopReceivers(context.Background(), 10)
	require.NoError(t, err)

	// Only stars on mirrored messages count toward receivers.
	require.Equal(t, []ReceiverRank{
		{AuthorID: "UA", Count: 3},
		{AuthorID: "UB", Count: 2},
	}, ranks)
}

func TestTopStarrers(t *testing.T) {
	db := testDB(t)
	seed(t, db)
	repo := NewLeaderboardRepository(db)

	ranks, err := repo.TopStarrers(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, ranks, 3)
	require.Equal(t, ReceiverRank{AuthorID: "U1", Count: 3}, ranks[0])
	require.Equal(t, ReceiverRank{AuthorID: "U2", Count: 2}, ranks[1])
	require.Equal(t, ReceiverRank{AuthorID: "U3", Count: 1}, ranks[2])
}

func TestTopPosts(t *testing.T) {
	db := testDB(t)
	seed(t, db)
	repo := NewLeaderboardRepository(db)

	ranks, err := repo.TopPosts(context.Background(), 5)
	require.NoError(t, err)

	require.Equal(t, []PostRank{
		{AuthorID: "UA", ChannelID: "C1", MessageID: "100.1", Count: 3},
		{AuthorID: "UB", ChannelID: "C1", MessageID: "100.2", Count: 2},
	}, ranks)
}

func TestTopPosts_RespectsLimit(t *testing.T) {
	db := testDB(t)
	seed(t, db)
	repo := NewLeaderboardRepository(db)

	ranks, err := repo.TopPosts(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, ranks, 1)
	require.Equal(t, "100.1", ranks[0].MessageID)
}
