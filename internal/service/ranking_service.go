package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/repository"
)

// RankingService recomputes the leaderboard from ledger totals and serves
// the redis-cached view.
type RankingService interface {
	Leaderboard(ctx context.Context, limit int) (dto.LeaderboardResponse, error)
	Recompute(ctx context.Context) (dto.LeaderboardResponse, error)
	PositionFor(ctx context.Context, userID uint) (*int, error)
}

type rankingService struct {
	rankings repository.RankingRepository
	points   repository.PointRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewRankingService constructs the leaderboard service.
func NewRankingService(rankings repository.RankingRepository, points repository.PointRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) RankingService {
	return &rankingService{
		rankings: rankings,
		points:   points,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "ranking_service").Logger(),
		now:      time.Now,
	}
}

// leaderboardCacheSize bounds the cached standings. Requests slice their own
// limit out of this shared view so no caller's limit shrinks it for others.
const leaderboardCacheSize = 200

func (s *rankingService) Leaderboard(ctx context.Context, limit int) (dto.LeaderboardResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, LeaderboardCacheKey).Result(); err == nil {
			var response dto.LeaderboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Msg("leaderboard cache hit")
				return trimLeaderboard(response, limit), nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read leaderboard cache")
		}
	}

	rankings, err := s.rankings.List(ctx, leaderboardCacheSize)
	if err != nil {
		return dto.LeaderboardResponse{}, err
	}

	if len(rankings) == 0 {
		// Nothing persisted yet: compute from the ledger on first read.
		full, err := s.Recompute(ctx)
		if err != nil {
			return dto.LeaderboardResponse{}, err
		}
		return trimLeaderboard(full, limit), nil
	}

	response := s.buildResponse(rankings)
	s.store(ctx, response)

	return trimLeaderboard(response, limit), nil
}

// Recompute derives fresh positions from the ledger totals, persists them
// and refreshes the cache. Ties on points share ordering by user id for a
// deterministic result.
func (s *rankingService) Recompute(ctx context.Context) (dto.LeaderboardResponse, error) {
	totals, err := s.points.TotalsAll(ctx)
	if err != nil {
		return dto.LeaderboardResponse{}, err
	}

	computedAt := s.now().UTC()
	rankings := make([]models.Ranking, 0, len(totals))
	for i, total := range totals {
		rankings = append(rankings, models.Ranking{
			UserID:     total.UserID,
			Position:   i + 1,
			Points:     total.Total,
			ComputedAt: computedAt,
		})
	}

	if err := s.rankings.Replace(ctx, rankings); err != nil {
		return dto.LeaderboardResponse{}, err
	}

	stored, err := s.rankings.List(ctx, leaderboardCacheSize)
	if err != nil {
		return dto.LeaderboardResponse{}, err
	}

	response := s.buildResponse(stored)
	response.ComputedAt = computedAt
	s.store(ctx, response)

	s.logger.Info().Int("posiciones", len(rankings)).Msg("leaderboard recomputed")

	return response, nil
}

func (s *rankingService) PositionFor(ctx context.Context, userID uint) (*int, error) {
	ranking, err := s.rankings.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ranking.Position, nil
}

func trimLeaderboard(response dto.LeaderboardResponse, limit int) dto.LeaderboardResponse {
	if limit > 0 && len(response.Entries) > limit {
		response.Entries = response.Entries[:limit]
	}
	return response
}

func (s *rankingService) buildResponse(rankings []models.Ranking) dto.LeaderboardResponse {
	response := dto.LeaderboardResponse{
		Entries: make([]dto.LeaderboardEntry, 0, len(rankings)),
	}

	for _, ranking := range rankings {
		response.Entries = append(response.Entries, dto.NewLeaderboardEntry(ranking))
		if ranking.ComputedAt.After(response.ComputedAt) {
			response.ComputedAt = ranking.ComputedAt
		}
	}

	return response
}

func (s *rankingService) store(ctx context.Context, response dto.LeaderboardResponse) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, LeaderboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to store leaderboard cache")
	}
}
