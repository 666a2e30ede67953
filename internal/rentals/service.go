package rentals

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/locagest/locagest/internal/catalog"
	"github.com/locagest/locagest/internal/notify"
	"github.com/locagest/locagest/internal/platform/httpx"
)

// RepositoryPort abstracts rental storage. Rent and CloseRental move stock
// and the rental row inside one transaction.
type RepositoryPort interface {
	Rent(ctx context.Context, productID, userID int64) (Rental, error)
	CloseRental(ctx context.Context, rentalID int64, reason string) (Rental, error)
	Get(ctx context.Context, rentalID int64) (Rental, error)
	ListByUser(ctx context.Context, userID int64, filters catalog.ListFilters) ([]Rental, int, error)
	ListAll(ctx context.Context, filters catalog.ListFilters) ([]Rental, int, error)
	ListOpenSince(ctx context.Context, before time.Time) ([]Rental, error)
}

// Notifier is the outbound notification port, satisfied by notify.Service.
type Notifier interface {
	Push(ctx context.Context, userID int64, n notify.Notification) error
	PushToAdmins(ctx context.Context, actorID int64, n notify.Notification) error
}

type Service struct {
	repo     RepositoryPort
	notifier Notifier
	logger   *slog.Logger
}

func NewService(repo RepositoryPort, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// Rent opens a loan for the acting user. Stock moves inside the repository
// transaction; notification failures never undo the rental.
func (s *Service) Rent(ctx context.Context, productID, actorID int64) (Rental, error) {
	if productID <= 0 {
		return Rental{}, fmt.Errorf("%w: invalid product id", httpx.ErrValidation)
	}
	rental, err := s.repo.Rent(ctx, productID, actorID)
	if err != nil {
		return Rental{}, err
	}

	s.notifyAdmins(ctx, actorID, notify.Notification{
		Title:   "Nouvelle location",
		Message: fmt.Sprintf("Le produit %q a été loué.", rental.ProductName),
		Link:    fmt.Sprintf("/rentals/%d", rental.ID),
	})
	return rental, nil
}

// Return closes an open rental. Only the renter or an administrator may do
// it. Both the renter and the administrators are notified.
func (s *Service) Return(ctx context.Context, rentalID, actorID int64, admin bool, reason string) (Rental, error) {
	if rentalID <= 0 {
		return Rental{}, fmt.Errorf("%w: invalid rental id", httpx.ErrValidation)
	}
	rental, err := s.repo.Get(ctx, rentalID)
	if err != nil {
		return Rental{}, err
	}
	if !admin && rental.UserID != actorID {
		return Rental{}, ErrNotRenter
	}
	closed, err := s.repo.CloseRental(ctx, rentalID, reason)
	if err != nil {
		return Rental{}, err
	}

	message := fmt.Sprintf("Le produit %q a été retourné.", closed.ProductName)
	if reason != "" {
		message = fmt.Sprintf("%s Motif : %s", message, reason)
	}
	n := notify.Notification{
		Title:   "Retour de location",
		Message: message,
		Link:    fmt.Sprintf("/rentals/%d", closed.ID),
	}
	if err := s.notifier.Push(ctx, closed.UserID, n); err != nil {
		s.logger.Error("notify renter", "error", err, "rental_id", closed.ID)
	}
	s.notifyAdmins(ctx, closed.UserID, n)
	return closed, nil
}

// HistoryFor lists one user's rentals, newest first.
func (s *Service) HistoryFor(ctx context.Context, userID int64, filters catalog.ListFilters) ([]Rental, int, error) {
	return s.repo.ListByUser(ctx, userID, filters)
}

// History lists every rental, newest first.
func (s *Service) History(ctx context.Context, filters catalog.ListFilters) ([]Rental, int, error) {
	return s.repo.ListAll(ctx, filters)
}

// RemindOverdue notifies every user holding a rental open since before the
// cutoff. Returns the number of reminders sent.
func (s *Service) RemindOverdue(ctx context.Context, olderThan time.Duration) (int, error) {
	overdue, err := s.repo.ListOpenSince(ctx, time.Now().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, rental := range overdue {
		n := notify.Notification{
			Title:   "Rappel de location",
			Message: fmt.Sprintf("Le produit %q est loué depuis le %s, pensez à le retourner.", rental.ProductName, rental.RentedAt.Format("02/01/2006")),
			Link:    fmt.Sprintf("/rentals/%d", rental.ID),
		}
		if err := s.notifier.Push(ctx, rental.UserID, n); err != nil {
			s.logger.Error("overdue reminder", "error", err, "rental_id", rental.ID)
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *Service) notifyAdmins(ctx context.Context, actorID int64, n notify.Notification) {
	if err := s.notifier.PushToAdmins(ctx, actorID, n); err != nil {
		s.logger.Error("notify admins", "error", err)
	}
}
