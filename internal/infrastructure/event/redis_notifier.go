package event

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/storeops/backend/internal/domain/returns"
	"github.com/storeops/backend/internal/domain/shared"
)

// DefaultReturnsChannel is the pub/sub channel carrying ledger change
// notifications between server instances.
const DefaultReturnsChannel = "returns.changed"

// RedisNotifier relays local returns-ledger changes to other server
// instances over Redis pub/sub. The payload is the store ID; subscribers
// only learn that the ledger changed, never what changed, and re-read it.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisNotifier creates a notifier publishing on the given channel
func NewRedisNotifier(client *redis.Client, channel string, logger *zap.Logger) *RedisNotifier {
	if channel == "" {
		channel = DefaultReturnsChannel
	}
	return &RedisNotifier{client: client, channel: channel, logger: logger}
}

// Handle implements shared.EventHandler. Publish failures are logged, not
// propagated; the local mutation has already committed.
func (n *RedisNotifier) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := n.client.Publish(ctx, n.channel, event.StoreID().String()).Err(); err != nil {
		n.logger.Warn("failed to publish ledger change",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	}
	return nil
}

// EventTypes implements shared.EventHandler
func (n *RedisNotifier) EventTypes() []string {
	return []string{
		returns.EventTypeReturnCreated,
		returns.EventTypeReturnUpdated,
		returns.EventTypeReturnStatusChanged,
		returns.EventTypeReturnDeleted,
	}
}

// Ensure RedisNotifier implements EventHandler
var _ shared.EventHandler = (*RedisNotifier)(nil)

// Notifiable receives change notifications. Duplicate and out-of-order
// notifications are harmless; receivers re-read state when they run.
type Notifiable interface {
	Notify()
}

// RedisSubscriber listens for ledger changes published by other instances
// and forwards them to a local listener.
type RedisSubscriber struct {
	client  *redis.Client
	channel string
	target  Notifiable
	logger  *zap.Logger
}

// NewRedisSubscriber creates a subscriber forwarding to target
func NewRedisSubscriber(client *redis.Client, channel string, target Notifiable, logger *zap.Logger) *RedisSubscriber {
	if channel == "" {
		channel = DefaultReturnsChannel
	}
	return &RedisSubscriber{client: client, channel: channel, target: target, logger: logger}
}

// Run consumes the channel until ctx is done
func (s *RedisSubscriber) Run(ctx context.Context) error {
	sub := s.client.Subscribe(ctx, s.channel)
	defer func() {
		if err := sub.Close(); err != nil {
			s.logger.Warn("failed to close subscription", zap.Error(err))
		}
	}()

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errors.New("subscription channel closed")
			}
			s.logger.Debug("ledger change received", zap.String("store_id", msg.Payload))
			s.target.Notify()
		}
	}
}
