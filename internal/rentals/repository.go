package rentals

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/locagest/locagest/internal/catalog"
	"github.com/locagest/locagest/internal/platform/httpx"
)

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) RepositoryPort {
	return &repository{pool: pool}
}

const rentalColumns = `r.id, r.product_id, p.name, r.user_id, r.rented_at,
	r.returned_at, COALESCE(r.return_reason, '')`

// Rent locks the product row, checks stock and the one-open-rental-per-user
// rule, then decrements stock and inserts the rental in one transaction.
func (r *repository) Rent(ctx context.Context, productID, userID int64) (Rental, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Rental{}, err
	}
	defer tx.Rollback(ctx)

	var stock int
	var productName string
	err = tx.QueryRow(ctx,
		`SELECT stock, name FROM products WHERE id = $1 FOR UPDATE`, productID,
	).Scan(&stock, &productName)
	if errors.Is(err, pgx.ErrNoRows) {
		return Rental{}, httpx.ErrNotFound
	}
	if err != nil {
		return Rental{}, err
	}
	if stock <= 0 {
		return Rental{}, ErrOutOfStock
	}

	var open bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM rentals
		  WHERE product_id = $1 AND user_id = $2 AND returned_at IS NULL)`,
		productID, userID,
	).Scan(&open)
	if err != nil {
		return Rental{}, err
	}
	if open {
		return Rental{}, ErrAlreadyRented
	}

	if _, err := tx.Exec(ctx,
		`UPDATE products SET stock = stock - 1, updated_at = now() WHERE id = $1`, productID,
	); err != nil {
		return Rental{}, err
	}

	rental := Rental{ProductID: productID, ProductName: productName, UserID: userID}
	err = tx.QueryRow(ctx,
		`INSERT INTO rentals (product_id, user_id, rented_at)
		 VALUES ($1, $2, now()) RETURNING id, rented_at`,
		productID, userID,
	).Scan(&rental.ID, &rental.RentedAt)
	if err != nil {
		return Rental{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Rental{}, err
	}
	return rental, nil
}

// CloseRental stamps the return and restores stock in one transaction.
func (r *repository) CloseRental(ctx context.Context, rentalID int64, reason string) (Rental, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Rental{}, err
	}
	defer tx.Rollback(ctx)

	rental, err := scanRental(tx.QueryRow(ctx,
		`SELECT `+rentalColumns+` FROM rentals r JOIN products p ON p.id = r.product_id
		 WHERE r.id = $1 FOR UPDATE OF r`, rentalID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Rental{}, httpx.ErrNotFound
	}
	if err != nil {
		return Rental{}, err
	}
	if !rental.Open() {
		return Rental{}, ErrAlreadyReturned
	}

	now := time.Now()
	if _, err := tx.Exec(ctx,
		`UPDATE rentals SET returned_at = $1, return_reason = NULLIF($2, '') WHERE id = $3`,
		now, reason, rentalID,
	); err != nil {
		return Rental{}, err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE products SET stock = stock + 1, updated_at = now() WHERE id = $1`,
		rental.ProductID,
	); err != nil {
		return Rental{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Rental{}, err
	}
	rental.ReturnedAt = &now
	rental.ReturnReason = reason
	return rental, nil
}

func (r *repository) Get(ctx context.Context, rentalID int64) (Rental, error) {
	rental, err := scanRental(r.pool.QueryRow(ctx,
		`SELECT `+rentalColumns+` FROM rentals r JOIN products p ON p.id = r.product_id
		 WHERE r.id = $1`, rentalID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Rental{}, httpx.ErrNotFound
	}
	return rental, err
}

func (r *repository) ListByUser(ctx context.Context, userID int64, filters catalog.ListFilters) ([]Rental, int, error) {
	return r.list(ctx, `WHERE r.user_id = $1`, []any{userID}, filters)
}

func (r *repository) ListAll(ctx context.Context, filters catalog.ListFilters) ([]Rental, int, error) {
	return r.list(ctx, `WHERE 1=1`, nil, filters)
}

func (r *repository) list(ctx context.Context, where string, args []any, filters catalog.ListFilters) ([]Rental, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM rentals r ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + rentalColumns + ` FROM rentals r JOIN products p ON p.id = r.product_id ` +
		where + ` ORDER BY r.rented_at DESC`
	n := len(args)
	query += ` LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, filters.Limit, filters.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Rental
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, rental)
	}
	return list, total, rows.Err()
}

func (r *repository) ListOpenSince(ctx context.Context, before time.Time) ([]Rental, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+rentalColumns+` FROM rentals r JOIN products p ON p.id = r.product_id
		 WHERE r.returned_at IS NULL AND r.rented_at < $1
		 ORDER BY r.rented_at ASC`, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Rental
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, rental)
	}
	return list, rows.Err()
}

func scanRental(row pgx.Row) (Rental, error) {
	var rental Rental
	err := row.Scan(&rental.ID, &rental.ProductID, &rental.ProductName,
		&rental.UserID, &rental.RentedAt, &rental.ReturnedAt, &rental.ReturnReason)
	return rental, err
}
