package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/repository"
	"github.com/ludica-app/ludica-api/internal/service"
)

func setupRanking(t *testing.T) (service.RankingService, *gorm.DB, *redis.Client) {
	t.Helper()

	db := openTestDB(t)
	cache := openTestRedis(t)
	svc := service.NewRankingService(
		repository.NewRankingRepository(db),
		repository.NewPointRepository(db),
		cache,
		time.Minute,
		testLogger(),
	)
	return svc, db, cache
}

func seedPoints(t *testing.T, db *gorm.DB, userID uint, amount int) {
	t.Helper()
	require.NoError(t, db.Create(&models.PointEntry{UserID: userID, Amount: amount, Reason: "semilla"}).Error)
}

func TestRankingRecomputeOrdersByTotal(t *testing.T) {
	svc, db, _ := setupRanking(t)

	first := createTestUser(t, db, models.RoleStudent)
	second := createTestUser(t, db, models.RoleStudent)
	third := createTestUser(t, db, models.RoleStudent)

	seedPoints(t, db, first.ID, 30)
	seedPoints(t, db, second.ID, 80)
	seedPoints(t, db, third.ID, 80)
	seedPoints(t, db, third.ID, -30)

	board, err := svc.Recompute(context.Background())
	require.NoError(t, err)
	require.Len(t, board.Entries, 3)

	require.Equal(t, second.ID, board.Entries[0].UserID)
	require.Equal(t, 1, board.Entries[0].Position)
	require.Equal(t, 80, board.Entries[0].Points)
	require.Equal(t, third.ID, board.Entries[1].UserID)
	require.Equal(t, 50, board.Entries[1].Points)
	require.Equal(t, first.ID, board.Entries[2].UserID)
}

func TestRankingTiesResolveByUserID(t *testing.T) {
	svc, db, _ := setupRanking(t)

	first := createTestUser(t, db, models.RoleStudent)
	second := createTestUser(t, db, models.RoleStudent)

	seedPoints(t, db, first.ID, 40)
	seedPoints(t, db, second.ID, 40)

	board, err := svc.Recompute(context.Background())
	require.NoError(t, err)
	require.Len(t, board.Entries, 2)
	require.Equal(t, first.ID, board.Entries[0].UserID)
	require.Equal(t, second.ID, board.Entries[1].UserID)
}

func TestRankingLeaderboardComputesOnFirstRead(t *testing.T) {
	svc, db, _ := setupRanking(t)

	student := createTestUser(t, db, models.RoleStudent)
	seedPoints(t, db, student.ID, 15)

	board, err := svc.Leaderboard(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, board.Entries, 1)
	require.Equal(t, student.ID, board.Entries[0].UserID)
}

func TestRankingLeaderboardServesCachedView(t *testing.T) {
	svc, db, cache := setupRanking(t)

	student := createTestUser(t, db, models.RoleStudent)
	seedPoints(t, db, student.ID, 15)

	_, err := svc.Recompute(context.Background())
	require.NoError(t, err)

	exists, err := cache.Exists(context.Background(), service.LeaderboardCacheKey).Result()
	require.NoError(t, err)
	require.EqualValues(t, 1, exists)

	// Stale totals stay visible until the cache is invalidated.
	seedPoints(t, db, student.ID, 100)
	board, err := svc.Leaderboard(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 15, board.Entries[0].Points)

	require.NoError(t, cache.Del(context.Background(), service.LeaderboardCacheKey).Err())
	board, err = svc.Recompute(context.Background())
	require.NoError(t, err)
	require.Equal(t, 115, board.Entries[0].Points)
}

func TestRankingPositionForUnrankedUser(t *testing.T) {
	svc, db, _ := setupRanking(t)

	ranked := createTestUser(t, db, models.RoleStudent)
	unranked := createTestUser(t, db, models.RoleStudent)
	seedPoints(t, db, ranked.ID, 10)

	_, err := svc.Recompute(context.Background())
	require.NoError(t, err)

	position, err := svc.PositionFor(context.Background(), ranked.ID)
	require.NoError(t, err)
	require.NotNil(t, position)
	require.Equal(t, 1, *position)

	position, err = svc.PositionFor(context.Background(), unranked.ID)
	require.NoError(t, err)
	require.Nil(t, position)
}

func TestRankingLeaderboardLimitOnlyTrimsOwnView(t *testing.T) {
	svc, db, cache := setupRanking(t)

	for _, amount := range []int{30, 20, 10} {
		student := createTestUser(t, db, models.RoleStudent)
		seedPoints(t, db, student.ID, amount)
	}

	_, err := svc.Recompute(context.Background())
	require.NoError(t, err)
	require.NoError(t, cache.Del(context.Background(), service.LeaderboardCacheKey).Err())

	short, err := svc.Leaderboard(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, short.Entries, 1)

	full, err := svc.Leaderboard(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, full.Entries, 3)
}
