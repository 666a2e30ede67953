package rentals

import (
	"fmt"
	"time"

	"github.com/locagest/locagest/internal/platform/httpx"
)

// Rental records one product loan. ReturnedAt is nil while the loan is open.
type Rental struct {
	ID           int64      `json:"id"`
	ProductID    int64      `json:"productId"`
	ProductName  string     `json:"productName"`
	UserID       int64      `json:"userId"`
	RentedAt     time.Time  `json:"rentedAt"`
	ReturnedAt   *time.Time `json:"returnedAt,omitempty"`
	ReturnReason string     `json:"returnReason,omitempty"`
}

// Open reports whether the rental has not been returned yet.
func (r Rental) Open() bool {
	return r.ReturnedAt == nil
}

var (
	ErrOutOfStock      = fmt.Errorf("%w: product out of stock", httpx.ErrConflict)
	ErrAlreadyRented   = fmt.Errorf("%w: product already rented by this user", httpx.ErrConflict)
	ErrAlreadyReturned = fmt.Errorf("%w: rental already returned", httpx.ErrConflict)
	ErrNotRenter       = fmt.Errorf("%w: rental belongs to another user", httpx.ErrForbidden)
)
