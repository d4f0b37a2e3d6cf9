package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ludica-app/ludica-api/internal/service"
)

func TestPublishFansOutToUserChannel(t *testing.T) {
	cache := openTestRedis(t)
	publisher := service.NewEventPublisher(nil, "", cache, testLogger())

	sub := cache.Subscribe(context.Background(), service.EventChannel(7))
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	publisher.Publish(context.Background(), service.GamificationEvent{
		Type:     service.EventBadgeAwarded,
		UserID:   7,
		EntityID: 3,
		Name:     "Exploradora",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	message, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	require.Equal(t, service.EventChannel(7), message.Channel)
	require.Contains(t, message.Payload, `"insignia_otorgada"`)
	require.Contains(t, message.Payload, `"usuario_id":7`)
}

func TestPublishWithoutSinksIsNoOp(t *testing.T) {
	publisher := service.NewEventPublisher(nil, "", nil, testLogger())

	publisher.Publish(context.Background(), service.GamificationEvent{
		Type:   service.EventLevelUnlocked,
		UserID: 1,
		Name:   "Bronce",
	})
}
