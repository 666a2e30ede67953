package rentals

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/locagest/locagest/internal/catalog"
	"github.com/locagest/locagest/internal/notify"
	"github.com/locagest/locagest/internal/platform/httpx"
)

type memoryRepo struct {
	stock   map[int64]int
	names   map[int64]string
	rentals map[int64]*Rental
	nextID  int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		stock:   make(map[int64]int),
		names:   make(map[int64]string),
		rentals: make(map[int64]*Rental),
	}
}

func (r *memoryRepo) addProduct(id int64, name string, stock int) {
	r.stock[id] = stock
	r.names[id] = name
}

func (r *memoryRepo) Rent(ctx context.Context, productID, userID int64) (Rental, error) {
	stock, ok := r.stock[productID]
	if !ok {
		return Rental{}, httpx.ErrNotFound
	}
	if stock <= 0 {
		return Rental{}, ErrOutOfStock
	}
	for _, rental := range r.rentals {
		if rental.ProductID == productID && rental.UserID == userID && rental.Open() {
			return Rental{}, ErrAlreadyRented
		}
	}
	r.stock[productID]--
	r.nextID++
	rental := &Rental{
		ID:          r.nextID,
		ProductID:   productID,
		ProductName: r.names[productID],
		UserID:      userID,
		RentedAt:    time.Now(),
	}
	r.rentals[rental.ID] = rental
	return *rental, nil
}

func (r *memoryRepo) CloseRental(ctx context.Context, rentalID int64, reason string) (Rental, error) {
	rental, ok := r.rentals[rentalID]
	if !ok {
		return Rental{}, httpx.ErrNotFound
	}
	if !rental.Open() {
		return Rental{}, ErrAlreadyReturned
	}
	now := time.Now()
	rental.ReturnedAt = &now
	rental.ReturnReason = reason
	r.stock[rental.ProductID]++
	return *rental, nil
}

func (r *memoryRepo) Get(ctx context.Context, rentalID int64) (Rental, error) {
	rental, ok := r.rentals[rentalID]
	if !ok {
		return Rental{}, httpx.ErrNotFound
	}
	return *rental, nil
}

func (r *memoryRepo) ListByUser(ctx context.Context, userID int64, filters catalog.ListFilters) ([]Rental, int, error) {
	var list []Rental
	for _, rental := range r.rentals {
		if rental.UserID == userID {
			list = append(list, *rental)
		}
	}
	return list, len(list), nil
}

func (r *memoryRepo) ListAll(ctx context.Context, filters catalog.ListFilters) ([]Rental, int, error) {
	var list []Rental
	for _, rental := range r.rentals {
		list = append(list, *rental)
	}
	return list, len(list), nil
}

func (r *memoryRepo) ListOpenSince(ctx context.Context, before time.Time) ([]Rental, error) {
	var list []Rental
	for _, rental := range r.rentals {
		if rental.Open() && rental.RentedAt.Before(before) {
			list = append(list, *rental)
		}
	}
	return list, nil
}

type recordingNotifier struct {
	direct map[int64][]notify.Notification
	admin  []notify.Notification
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{direct: make(map[int64][]notify.Notification)}
}

func (n *recordingNotifier) Push(ctx context.Context, userID int64, notification notify.Notification) error {
	n.direct[userID] = append(n.direct[userID], notification)
	return nil
}

func (n *recordingNotifier) PushToAdmins(ctx context.Context, actorID int64, notification notify.Notification) error {
	n.admin = append(n.admin, notification)
	return nil
}

func newTestService(repo RepositoryPort, notifier Notifier) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, notifier, logger)
}

func TestRentDecrementsStockAndNotifiesAdmins(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Perceuse Bosch", 2)
	notifier := newRecordingNotifier()
	svc := newTestService(repo, notifier)
	ctx := context.Background()

	rental, err := svc.Rent(ctx, 1, 42)
	require.NoError(t, err)
	require.Equal(t, "Perceuse Bosch", rental.ProductName)
	require.True(t, rental.Open())
	require.Equal(t, 1, repo.stock[1])

	require.Len(t, notifier.admin, 1)
	require.Equal(t, "Nouvelle location", notifier.admin[0].Title)
}

func TestRentOutOfStock(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Ponceuse", 0)
	svc := newTestService(repo, newRecordingNotifier())

	_, err := svc.Rent(context.Background(), 1, 42)
	require.ErrorIs(t, err, ErrOutOfStock)
	require.ErrorIs(t, err, httpx.ErrConflict)
}

func TestRentTwiceSameUser(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Ponceuse", 5)
	svc := newTestService(repo, newRecordingNotifier())
	ctx := context.Background()

	_, err := svc.Rent(ctx, 1, 42)
	require.NoError(t, err)

	_, err = svc.Rent(ctx, 1, 42)
	require.ErrorIs(t, err, ErrAlreadyRented)
	require.Equal(t, 4, repo.stock[1])
}

func TestReturnRestoresStockAndNotifies(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Perceuse Bosch", 1)
	notifier := newRecordingNotifier()
	svc := newTestService(repo, notifier)
	ctx := context.Background()

	rental, err := svc.Rent(ctx, 1, 42)
	require.NoError(t, err)
	require.Equal(t, 0, repo.stock[1])

	closed, err := svc.Return(ctx, rental.ID, 42, false, "fin de chantier")
	require.NoError(t, err)
	require.False(t, closed.Open())
	require.Equal(t, "fin de chantier", closed.ReturnReason)
	require.Equal(t, 1, repo.stock[1])

	require.Len(t, notifier.direct[42], 1)
	require.Contains(t, notifier.direct[42][0].Message, "fin de chantier")
	// Admin feed got the rent event and the return event.
	require.Len(t, notifier.admin, 2)
}

func TestReturnByAnotherUserForbidden(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Perceuse", 1)
	svc := newTestService(repo, newRecordingNotifier())
	ctx := context.Background()

	rental, err := svc.Rent(ctx, 1, 42)
	require.NoError(t, err)

	_, err = svc.Return(ctx, rental.ID, 99, false, "")
	require.ErrorIs(t, err, ErrNotRenter)

	// An administrator may close any rental.
	_, err = svc.Return(ctx, rental.ID, 99, true, "retour comptoir")
	require.NoError(t, err)
}

func TestReturnTwice(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Perceuse", 1)
	svc := newTestService(repo, newRecordingNotifier())
	ctx := context.Background()

	rental, err := svc.Rent(ctx, 1, 42)
	require.NoError(t, err)

	_, err = svc.Return(ctx, rental.ID, 42, false, "")
	require.NoError(t, err)

	_, err = svc.Return(ctx, rental.ID, 42, false, "")
	require.ErrorIs(t, err, ErrAlreadyReturned)
}

func TestRemindOverdue(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Bétonnière", 3)
	notifier := newRecordingNotifier()
	svc := newTestService(repo, notifier)
	ctx := context.Background()

	rental, err := svc.Rent(ctx, 1, 42)
	require.NoError(t, err)
	repo.rentals[rental.ID].RentedAt = time.Now().Add(-10 * 24 * time.Hour)

	sent, err := svc.RemindOverdue(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	require.Equal(t, 1, sent)
	require.Len(t, notifier.direct[42], 1)
	require.Equal(t, "Rappel de location", notifier.direct[42][0].Title)
}
