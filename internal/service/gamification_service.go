package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/observability"
	"github.com/ludica-app/ludica-api/internal/repository"
	"github.com/ludica-app/ludica-api/internal/rules"
)

// ErrUserNotFound indicates the ledger target does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrInvalidAmount indicates a non-positive point amount.
var ErrInvalidAmount = errors.New("amount must be positive")

// ErrEmptyReason indicates a ledger entry without a motive.
var ErrEmptyReason = errors.New("reason is required")

// LeaderboardCacheKey is the redis key invalidated whenever totals change.
const LeaderboardCacheKey = "ranking:leaderboard"

// GamificationService owns the points ledger and the unlock cascade: every
// award recomputes the total and runs the level and badge checks inside one
// transaction.
type GamificationService interface {
	Award(ctx context.Context, userID uint, amount int, reason string) (dto.CascadeOutcome, error)
	Revoke(ctx context.Context, userID uint, amount int, reason string) (dto.PointTotalResponse, error)
	Total(ctx context.Context, userID uint) (dto.PointTotalResponse, error)
	History(ctx context.Context, userID uint, limit, offset int) ([]dto.PointEntryResponse, error)
	CheckLevels(ctx context.Context, userID uint) ([]dto.UserLevelResponse, error)
	CheckBadges(ctx context.Context, userID uint) (dto.BadgeCheckResponse, error)
}

type gamificationService struct {
	db        *gorm.DB
	cache     *redis.Client
	publisher EventPublisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewGamificationService constructs the cascade service. The service builds
// transaction-scoped repositories itself so the level and badge checks read
// the same consistent snapshot the ledger write belongs to.
func NewGamificationService(db *gorm.DB, cache *redis.Client, publisher EventPublisher, logger zerolog.Logger) GamificationService {
	return &gamificationService{
		db:        db,
		cache:     cache,
		publisher: publisher,
		logger:    logger.With().Str("component", "gamification_service").Logger(),
		now:       time.Now,
	}
}

func (s *gamificationService) Award(ctx context.Context, userID uint, amount int, reason string) (dto.CascadeOutcome, error) {
	tracer := otel.Tracer("github.com/ludica-app/ludica-api/internal/service")
	ctx, span := tracer.Start(ctx, "gamification.award")
	span.SetAttributes(
		attribute.Int64("gamification.user_id", int64(userID)),
		attribute.Int("gamification.amount", amount),
	)
	defer span.End()

	if err := validateMutation(amount, reason); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.CascadeOutcome{}, err
	}

	var outcome dto.CascadeOutcome
	var granted grantSet

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureUser(ctx, tx, userID); err != nil {
			return err
		}

		points := repository.NewPointRepository(tx)
		entry := models.PointEntry{UserID: userID, Amount: amount, Reason: reason}
		if err := points.Append(ctx, &entry); err != nil {
			return err
		}

		total, err := points.Total(ctx, userID)
		if err != nil {
			return err
		}

		levels, err := s.runLevelCheck(ctx, tx, userID, total)
		if err != nil {
			return err
		}

		badges, skipped, err := s.runBadgeCheck(ctx, tx, userID, total)
		if err != nil {
			return err
		}

		granted = grantSet{levels: levels, badges: badges}
		outcome = dto.CascadeOutcome{
			Entry:           dto.NewPointEntryResponse(entry),
			Total:           dto.NewPointTotalResponse(userID, total),
			LevelsGranted:   dto.NewUserLevelResponseSlice(levels),
			BadgesGranted:   dto.NewUserBadgeResponseSlice(badges),
			CriteriaSkipped: skipped,
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cascade_failed")
		return dto.CascadeOutcome{}, err
	}

	observability.CascadeRuns().WithLabelValues("award").Inc()
	s.afterCascade(ctx, granted)

	s.logger.Info().
		Uint("usuario_id", userID).
		Int("cantidad", amount).
		Int("niveles", len(outcome.LevelsGranted)).
		Int("insignias", len(outcome.BadgesGranted)).
		Msg("points awarded")

	return outcome, nil
}

func (s *gamificationService) Revoke(ctx context.Context, userID uint, amount int, reason string) (dto.PointTotalResponse, error) {
	if err := validateMutation(amount, reason); err != nil {
		return dto.PointTotalResponse{}, err
	}

	var total int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureUser(ctx, tx, userID); err != nil {
			return err
		}

		points := repository.NewPointRepository(tx)
		entry := models.PointEntry{UserID: userID, Amount: -amount, Reason: reason}
		if err := points.Append(ctx, &entry); err != nil {
			return err
		}

		var err error
		total, err = points.Total(ctx, userID)
		return err
	})
	if err != nil {
		return dto.PointTotalResponse{}, err
	}

	// Revocation never removes levels or badges; only the leaderboard moves.
	s.invalidateLeaderboard(ctx)
	observability.CascadeRuns().WithLabelValues("revoke").Inc()

	s.logger.Info().Uint("usuario_id", userID).Int("cantidad", -amount).Msg("points revoked")

	return dto.NewPointTotalResponse(userID, total), nil
}

func (s *gamificationService) Total(ctx context.Context, userID uint) (dto.PointTotalResponse, error) {
	if err := s.ensureUser(ctx, s.db, userID); err != nil {
		return dto.PointTotalResponse{}, err
	}

	total, err := repository.NewPointRepository(s.db).Total(ctx, userID)
	if err != nil {
		return dto.PointTotalResponse{}, err
	}

	return dto.NewPointTotalResponse(userID, total), nil
}

func (s *gamificationService) History(ctx context.Context, userID uint, limit, offset int) ([]dto.PointEntryResponse, error) {
	if err := s.ensureUser(ctx, s.db, userID); err != nil {
		return nil, err
	}

	entries, err := repository.NewPointRepository(s.db).ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return dto.NewPointEntryResponseSlice(entries), nil
}

func (s *gamificationService) CheckLevels(ctx context.Context, userID uint) ([]dto.UserLevelResponse, error) {
	var granted []models.UserLevel

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureUser(ctx, tx, userID); err != nil {
			return err
		}

		total, err := repository.NewPointRepository(tx).Total(ctx, userID)
		if err != nil {
			return err
		}

		granted, err = s.runLevelCheck(ctx, tx, userID, total)
		return err
	})
	if err != nil {
		return nil, err
	}

	observability.CascadeRuns().WithLabelValues("level_check").Inc()
	s.afterCascade(ctx, grantSet{levels: granted})

	return dto.NewUserLevelResponseSlice(granted), nil
}

func (s *gamificationService) CheckBadges(ctx context.Context, userID uint) (dto.BadgeCheckResponse, error) {
	var granted []models.UserBadge
	var skipped []string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureUser(ctx, tx, userID); err != nil {
			return err
		}

		total, err := repository.NewPointRepository(tx).Total(ctx, userID)
		if err != nil {
			return err
		}

		granted, skipped, err = s.runBadgeCheck(ctx, tx, userID, total)
		return err
	})
	if err != nil {
		return dto.BadgeCheckResponse{}, err
	}

	observability.CascadeRuns().WithLabelValues("badge_check").Inc()
	s.afterCascade(ctx, grantSet{badges: granted})

	return dto.BadgeCheckResponse{
		Granted:         dto.NewUserBadgeResponseSlice(granted),
		CriteriaSkipped: skipped,
	}, nil
}

// runLevelCheck assigns the highest level whose threshold the total reaches
// and the user does not already hold. Re-running with an unchanged total
// writes nothing. Already-held levels are never removed.
func (s *gamificationService) runLevelCheck(ctx context.Context, tx *gorm.DB, userID uint, total int) ([]models.UserLevel, error) {
	levelRepo := repository.NewLevelRepository(tx)

	levels, err := levelRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	held, err := levelRepo.HeldIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Highest threshold wins; equal thresholds resolve to the newest level.
	sort.Slice(levels, func(i, j int) bool {
		if levels[i].RequiredPoints != levels[j].RequiredPoints {
			return levels[i].RequiredPoints > levels[j].RequiredPoints
		}
		return levels[i].ID > levels[j].ID
	})

	for _, level := range levels {
		if level.RequiredPoints > total {
			continue
		}
		if _, ok := held[level.ID]; ok {
			continue
		}

		assignment := models.UserLevel{
			UserID:     userID,
			LevelID:    level.ID,
			AssignedAt: s.now().UTC(),
		}
		inserted, err := levelRepo.Assign(ctx, &assignment)
		if err != nil {
			return nil, err
		}
		if !inserted {
			// Lost a race to a concurrent cascade; the level is held now.
			return nil, nil
		}

		assignment.Level = level
		return []models.UserLevel{assignment}, nil
	}

	return nil, nil
}

// runBadgeCheck evaluates every badge criterion against the user's aggregate
// snapshot and awards the newly satisfied ones. A criterion that fails to
// parse is skipped and reported, never an error.
func (s *gamificationService) runBadgeCheck(ctx context.Context, tx *gorm.DB, userID uint, total int) ([]models.UserBadge, []string, error) {
	badgeRepo := repository.NewBadgeRepository(tx)

	badges, err := badgeRepo.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(badges) == 0 {
		return nil, nil, nil
	}

	held, err := badgeRepo.HeldIDs(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	snapshot, err := s.buildSnapshot(ctx, tx, userID, total)
	if err != nil {
		return nil, nil, err
	}

	var granted []models.UserBadge
	var skipped []string

	for _, badge := range badges {
		if _, ok := held[badge.ID]; ok {
			continue
		}

		predicate, err := rules.Parse(badge.Criterion)
		if err != nil {
			observability.CriteriaSkipped().Inc()
			skipped = append(skipped, badge.Name)
			s.logger.Warn().
				Err(err).
				Uint("insignia_id", badge.ID).
				Str("criterio", badge.Criterion).
				Msg("skipping unparseable badge criterion")
			continue
		}

		if !predicate.Evaluate(snapshot) {
			continue
		}

		award := models.UserBadge{
			UserID:    userID,
			BadgeID:   badge.ID,
			AwardedAt: s.now().UTC(),
		}
		inserted, err := badgeRepo.Award(ctx, &award)
		if err != nil {
			return nil, nil, err
		}
		if !inserted {
			continue
		}

		award.Badge = badge
		granted = append(granted, award)
	}

	return granted, skipped, nil
}

func (s *gamificationService) buildSnapshot(ctx context.Context, tx *gorm.DB, userID uint, total int) (rules.Snapshot, error) {
	levelCount, err := repository.NewLevelRepository(tx).CountByUser(ctx, userID)
	if err != nil {
		return rules.Snapshot{}, err
	}

	completed, err := repository.NewAssignmentRepository(tx).CountGradedByStudent(ctx, userID)
	if err != nil {
		return rules.Snapshot{}, err
	}

	plays, err := repository.NewPlayRepository(tx).CountByStudent(ctx, userID)
	if err != nil {
		return rules.Snapshot{}, err
	}

	diagnosticAvg, err := repository.NewDiagnosticRepository(tx).AverageForStudent(ctx, userID)
	if err != nil {
		return rules.Snapshot{}, err
	}

	return rules.Snapshot{
		Points:              total,
		Levels:              levelCount,
		CompletedActivities: completed,
		Plays:               plays,
		DiagnosticAverage:   diagnosticAvg,
	}, nil
}

type grantSet struct {
	levels []models.UserLevel
	badges []models.UserBadge
}

// afterCascade runs the commit side effects: metrics, events, cache.
func (s *gamificationService) afterCascade(ctx context.Context, granted grantSet) {
	for _, level := range granted.levels {
		observability.LevelsGranted().Inc()
		s.publisher.Publish(ctx, GamificationEvent{
			Type:     EventLevelUnlocked,
			UserID:   level.UserID,
			EntityID: level.LevelID,
			Name:     level.Level.Name,
		})
	}

	for _, badge := range granted.badges {
		observability.BadgesGranted().Inc()
		s.publisher.Publish(ctx, GamificationEvent{
			Type:     EventBadgeAwarded,
			UserID:   badge.UserID,
			EntityID: badge.BadgeID,
			Name:     badge.Badge.Name,
		})
	}

	s.invalidateLeaderboard(ctx)
}

func (s *gamificationService) invalidateLeaderboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, LeaderboardCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate leaderboard cache")
	}
}

func (s *gamificationService) ensureUser(ctx context.Context, tx *gorm.DB, userID uint) error {
	if _, err := repository.NewUserRepository(tx).GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func validateMutation(amount int, reason string) error {
	if amount <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}
	if reason == "" {
		return ErrEmptyReason
	}
	return nil
}
