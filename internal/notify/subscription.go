package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Subscription is a live feed of one user's notifications. Close is safe to
// call more than once; the Events channel closes once teardown completes.
type Subscription struct {
	pubsub *redis.PubSub
	events chan Notification
	done   chan struct{}
	once   sync.Once
}

// Subscribe opens a scoped subscription on the user's channel. Callers own
// the subscription and must Close it; the SSE handler does so on disconnect.
func (s *Service) Subscribe(ctx context.Context, userID int64) (*Subscription, error) {
	pubsub := s.client.Subscribe(ctx, channelKey(userID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}
	sub := &Subscription{
		pubsub: pubsub,
		events: make(chan Notification, 8),
		done:   make(chan struct{}),
	}
	go sub.pump(s.logger)
	return sub, nil
}

// Events yields notifications as they are published.
func (sub *Subscription) Events() <-chan Notification {
	return sub.events
}

// Close tears the Redis subscription down; pump exits and Events closes.
func (sub *Subscription) Close() error {
	var err error
	sub.once.Do(func() {
		close(sub.done)
		err = sub.pubsub.Close()
	})
	return err
}

// pump forwards published notifications to the events channel. The send
// selects on done so a consumer that stopped reading before Close never
// strands the goroutine on a full buffer.
func (sub *Subscription) pump(logger *slog.Logger) {
	defer close(sub.events)
	for msg := range sub.pubsub.Channel() {
		var n Notification
		if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
			logger.Warn("notify stream decode", "error", err)
			continue
		}
		select {
		case sub.events <- n:
		case <-sub.done:
			return
		}
	}
}
