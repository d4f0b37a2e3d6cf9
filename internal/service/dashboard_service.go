package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/repository"
)

const recentPlaysLimit = 5

// DashboardService aggregates a student's gamification state, pending work
// and recent plays into one payload. Responses are cached per student with a
// short TTL; staleness up to the TTL is acceptable.
type DashboardService interface {
	Student(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error)
}

type dashboardService struct {
	gamification GamificationService
	levels       LevelService
	badges       BadgeService
	ranking      RankingService
	assignments  repository.AssignmentRepository
	plays        repository.PlayRepository
	cache        *redis.Client
	cacheTTL     time.Duration
	logger       zerolog.Logger
}

// NewDashboardService constructs a DashboardService instance.
func NewDashboardService(
	gamification GamificationService,
	levels LevelService,
	badges BadgeService,
	ranking RankingService,
	assignments repository.AssignmentRepository,
	plays repository.PlayRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) DashboardService {
	return &dashboardService{
		gamification: gamification,
		levels:       levels,
		badges:       badges,
		ranking:      ranking,
		assignments:  assignments,
		plays:        plays,
		cache:        cache,
		cacheTTL:     cacheTTL,
		logger:       logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func dashboardCacheKey(studentID uint) string {
	return fmt.Sprintf("dashboard:estudiante:%d", studentID)
}

func (s *dashboardService) Student(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error) {
	if cached, ok := s.fromCache(ctx, studentID); ok {
		return cached, nil
	}

	response, err := s.build(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	s.store(ctx, studentID, response)

	return response, nil
}

func (s *dashboardService) build(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error) {
	points, err := s.gamification.Total(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	levels, err := s.levels.ListByUser(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	badges, err := s.badges.ListByUser(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	position, err := s.ranking.PositionFor(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	assignments, err := s.assignments.List(ctx, repository.AssignmentFilter{StudentID: &studentID})
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	plays, err := s.plays.ListByStudent(ctx, studentID, recentPlaysLimit, 0)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	summary := dto.DashboardSummary{TotalAssignments: len(assignments)}
	pending := make([]models.Assignment, 0)
	gradeSum := 0.0
	for _, assignment := range assignments {
		switch assignment.Status {
		case models.AssignmentStatusAssigned:
			summary.Pending++
			pending = append(pending, assignment)
		case models.AssignmentStatusSubmitted:
			summary.Submitted++
		case models.AssignmentStatusGraded:
			summary.Graded++
			if assignment.Grade != nil {
				gradeSum += *assignment.Grade
			}
		}
	}
	if summary.Graded > 0 {
		summary.AverageGrade = gradeSum / float64(summary.Graded)
	}

	return dto.StudentDashboardResponse{
		Points:      points,
		Levels:      levels,
		Badges:      badges,
		Position:    position,
		Pending:     dto.NewAssignmentResponseSlice(pending),
		RecentPlays: dto.NewPlayResponseSlice(plays),
		Summary:     summary,
	}, nil
}

func (s *dashboardService) fromCache(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, bool) {
	if s.cache == nil {
		return dto.StudentDashboardResponse{}, false
	}

	payload, err := s.cache.Get(ctx, dashboardCacheKey(studentID)).Bytes()
	if err != nil {
		return dto.StudentDashboardResponse{}, false
	}

	var response dto.StudentDashboardResponse
	if err := json.Unmarshal(payload, &response); err != nil {
		s.logger.Warn().Err(err).Msg("discarding corrupt dashboard cache entry")
		return dto.StudentDashboardResponse{}, false
	}

	return response, true
}

func (s *dashboardService) store(ctx context.Context, studentID uint, response dto.StudentDashboardResponse) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, dashboardCacheKey(studentID), payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("dashboard cache store failed")
	}
}
