package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// GamificationEvent is the payload published when the cascade unlocks
// something for a user.
type GamificationEvent struct {
	Type      string    `json:"tipo"`
	UserID    uint      `json:"usuario_id"`
	EntityID  uint      `json:"entidad_id"`
	Name      string    `json:"nombre"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types emitted by the cascade.
const (
	EventLevelUnlocked = "nivel_desbloqueado"
	EventBadgeAwarded  = "insignia_otorgada"
)

// EventChannel names the per-user redis pub/sub channel for unlock events.
func EventChannel(userID uint) string {
	return fmt.Sprintf("ludica:eventos:usuario:%d", userID)
}

// EventPublisher fans gamification events out to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event GamificationEvent)
}

type eventPublisher struct {
	conn    *nats.Conn
	subject string
	cache   *redis.Client
	logger  zerolog.Logger
}

// NewEventPublisher builds a publisher that fans events out to the NATS
// subject and to a per-user redis channel. Either sink may be nil; with
// neither configured the publisher only logs, so the cascade never depends
// on a broker.
func NewEventPublisher(conn *nats.Conn, subject string, cache *redis.Client, logger zerolog.Logger) EventPublisher {
	return &eventPublisher{
		conn:    conn,
		subject: subject,
		cache:   cache,
		logger:  logger.With().Str("component", "event_publisher").Logger(),
	}
}

func (p *eventPublisher) Publish(ctx context.Context, event GamificationEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to marshal gamification event")
		return
	}

	if p.conn == nil && p.cache == nil {
		p.logger.Debug().Str("tipo", event.Type).Uint("usuario_id", event.UserID).Msg("gamification event (no broker)")
		return
	}

	if p.conn != nil && p.subject != "" {
		if err := p.conn.Publish(p.subject, payload); err != nil {
			p.logger.Warn().Err(err).Str("tipo", event.Type).Msg("failed to publish gamification event")
		}
	}

	if p.cache != nil {
		channel := EventChannel(event.UserID)
		if err := p.cache.Publish(ctx, channel, payload).Err(); err != nil {
			p.logger.Warn().Err(err).Str("canal", channel).Msg("failed to publish gamification event to redis")
		}
	}
}
