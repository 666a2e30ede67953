package notify

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/locagest/locagest/internal/platform/httpx"
)

type staticAdmins []int64

func (a staticAdmins) AdminIDs(ctx context.Context) ([]int64, error) {
	return a, nil
}

func newTestService(t *testing.T, admins AdminSource) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(client, logger, admins)
}

func TestPushAndListNewestFirst(t *testing.T) {
	svc := newTestService(t, staticAdmins{})
	ctx := context.Background()

	require.NoError(t, svc.Push(ctx, 7, Notification{Title: "Location", Message: "premier"}))
	require.NoError(t, svc.Push(ctx, 7, Notification{Title: "Retour", Message: "second"}))

	list, err := svc.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "second", list[0].Message)
	require.Equal(t, "premier", list[1].Message)
	require.False(t, list[0].Read)
	require.NotEmpty(t, list[0].ID)
}

func TestPushCapsFeedLength(t *testing.T) {
	svc := newTestService(t, staticAdmins{})
	svc.cap = 5
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		require.NoError(t, svc.Push(ctx, 3, Notification{Title: "Stock", Message: "alerte"}))
	}

	list, err := svc.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, list, 5)
}

func TestMarkRead(t *testing.T) {
	svc := newTestService(t, staticAdmins{})
	ctx := context.Background()

	require.NoError(t, svc.Push(ctx, 4, Notification{Title: "Location", Message: "a"}))
	require.NoError(t, svc.Push(ctx, 4, Notification{Title: "Location", Message: "b"}))

	list, err := svc.List(ctx, 4)
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(ctx, 4, list[1].ID))

	list, err = svc.List(ctx, 4)
	require.NoError(t, err)
	require.False(t, list[0].Read)
	require.True(t, list[1].Read)

	require.ErrorIs(t, svc.MarkRead(ctx, 4, "missing-id"), httpx.ErrNotFound)
}

func TestMarkAllRead(t *testing.T) {
	svc := newTestService(t, staticAdmins{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Push(ctx, 9, Notification{Title: "Retour", Message: "x"}))
	}
	require.NoError(t, svc.MarkAllRead(ctx, 9))

	list, err := svc.List(ctx, 9)
	require.NoError(t, err)
	for _, n := range list {
		require.True(t, n.Read)
	}
}

func TestPushToAdminsSkipsActor(t *testing.T) {
	svc := newTestService(t, staticAdmins{1, 2})
	ctx := context.Background()

	require.NoError(t, svc.PushToAdmins(ctx, 2, Notification{Title: "Location", Message: "perceuse louée"}))

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = svc.List(ctx, 2)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestSubscribeReceivesAndCloses(t *testing.T) {
	svc := newTestService(t, staticAdmins{})
	ctx := context.Background()

	sub, err := svc.Subscribe(ctx, 11)
	require.NoError(t, err)

	require.NoError(t, svc.Push(ctx, 11, Notification{Title: "Location", Message: "en direct"}))

	select {
	case n := <-sub.Events():
		require.Equal(t, "en direct", n.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	require.NoError(t, sub.Close())
	select {
	case _, open := <-sub.Events():
		require.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("events channel did not close")
	}
}

func TestCloseUnblocksUnreadSubscription(t *testing.T) {
	svc := newTestService(t, staticAdmins{})
	ctx := context.Background()

	sub, err := svc.Subscribe(ctx, 6)
	require.NoError(t, err)

	// More notifications than the events buffer holds, with no reader: the
	// pump ends up blocked mid-send. Close must still let it finish.
	for i := 0; i < 12; i++ {
		require.NoError(t, svc.Push(ctx, 6, Notification{Title: "Stock", Message: "alerte"}))
	}
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, open := <-sub.Events():
			if !open {
				return
			}
		case <-deadline:
			t.Fatal("events channel did not close after Close")
		}
	}
}
