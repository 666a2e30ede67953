package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/locagest/locagest/internal/platform/httpx"
)

// DefaultCap bounds the per-user feed length.
const DefaultCap = 50

// AdminSource lists administrator user ids for fan-out notifications.
type AdminSource interface {
	AdminIDs(ctx context.Context) ([]int64, error)
}

type Service struct {
	client *redis.Client
	logger *slog.Logger
	admins AdminSource
	cap    int
}

func NewService(client *redis.Client, logger *slog.Logger, admins AdminSource) *Service {
	return &Service{client: client, logger: logger, admins: admins, cap: DefaultCap}
}

func listKey(userID int64) string {
	return fmt.Sprintf("notify:user:%d", userID)
}

func channelKey(userID int64) string {
	return listKey(userID) + ":events"
}

// Push appends a notification to the user's feed and publishes it on the
// user's channel for live subscribers.
func (s *Service) Push(ctx context.Context, userID int64, n Notification) error {
	n.ID = uuid.NewString()
	n.Read = false
	n.Timestamp = time.Now().UTC()

	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("notify: marshal: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, listKey(userID), payload)
	pipe.LTrim(ctx, listKey(userID), 0, int64(s.cap-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("notify: push: %w", err)
	}

	if err := s.client.Publish(ctx, channelKey(userID), payload).Err(); err != nil {
		// Delivery to live subscribers is best effort; the feed already holds
		// the entry.
		s.logger.Warn("notify publish", "error", err, "user_id", userID)
	}
	return nil
}

// PushToAdmins fans a notification out to every administrator except actorID.
func (s *Service) PushToAdmins(ctx context.Context, actorID int64, n Notification) error {
	ids, err := s.admins.AdminIDs(ctx)
	if err != nil {
		return fmt.Errorf("notify: list admins: %w", err)
	}
	for _, id := range ids {
		if id == actorID {
			continue
		}
		if err := s.Push(ctx, id, n); err != nil {
			s.logger.Error("notify admin", "error", err, "user_id", id)
		}
	}
	return nil
}

// List returns the user's feed, newest first. Entries that no longer decode
// are skipped rather than failing the whole feed.
func (s *Service) List(ctx context.Context, userID int64) ([]Notification, error) {
	raw, err := s.client.LRange(ctx, listKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("notify: list: %w", err)
	}
	list := make([]Notification, 0, len(raw))
	for _, item := range raw {
		var n Notification
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			s.logger.Warn("notify decode", "error", err, "user_id", userID)
			continue
		}
		list = append(list, n)
	}
	return list, nil
}

// MarkRead flags one notification as read. The list is rewritten inside an
// optimistic transaction so a concurrent push cannot shift entries under us.
func (s *Service) MarkRead(ctx context.Context, userID int64, notificationID string) error {
	return s.rewrite(ctx, userID, func(n *Notification) bool {
		if n.ID != notificationID {
			return false
		}
		n.Read = true
		return true
	}, true)
}

// MarkAllRead flags the whole feed as read.
func (s *Service) MarkAllRead(ctx context.Context, userID int64) error {
	return s.rewrite(ctx, userID, func(n *Notification) bool {
		changed := !n.Read
		n.Read = true
		return changed
	}, false)
}

func (s *Service) rewrite(ctx context.Context, userID int64, apply func(*Notification) bool, mustMatch bool) error {
	key := listKey(userID)
	txn := func(tx *redis.Tx) error {
		raw, err := tx.LRange(ctx, key, 0, -1).Result()
		if err != nil {
			return err
		}
		matched := false
		items := make([]any, 0, len(raw))
		for _, item := range raw {
			var n Notification
			if err := json.Unmarshal([]byte(item), &n); err != nil {
				items = append(items, item)
				continue
			}
			if apply(&n) {
				matched = true
			}
			payload, err := json.Marshal(n)
			if err != nil {
				return err
			}
			items = append(items, payload)
		}
		if mustMatch && !matched {
			return httpx.ErrNotFound
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			if len(items) > 0 {
				// RPush preserves the stored newest-first order.
				pipe.RPush(ctx, key, items...)
			}
			return nil
		})
		return err
	}

	for attempt := 0; attempt < 3; attempt++ {
		err := s.client.Watch(ctx, txn, key)
		if err != redis.TxFailedErr {
			return err
		}
	}
	return fmt.Errorf("notify: mark read: too much contention on %s", key)
}
