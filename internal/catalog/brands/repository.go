package brands

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/locagest/locagest/internal/catalog"
	"github.com/locagest/locagest/internal/platform/db"
	"github.com/locagest/locagest/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, filters catalog.ListFilters) ([]Brand, int, error)
	Get(ctx context.Context, id int64) (Brand, error)
	Create(ctx context.Context, brand Brand) (Brand, error)
	Update(ctx context.Context, id int64, brand Brand) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

var sortColumns = map[string]string{
	"code": "code",
	"name": "name",
}

func (r *repository) List(ctx context.Context, filters catalog.ListFilters) ([]Brand, int, error) {
	query := `SELECT id, code, name FROM brands WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM brands WHERE 1=1`
	args := []any{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		clause := ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR code ILIKE $` + strconv.Itoa(argCount) + `)`
		query += clause
		countQuery += clause
		args = append(args, "%"+filters.Search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += " ORDER BY " + catalog.SortClause(filters.SortBy, filters.SortDir, sortColumns, "name")

	argCount++
	query += ` LIMIT $` + strconv.Itoa(argCount)
	args = append(args, filters.Limit)
	argCount++
	query += ` OFFSET $` + strconv.Itoa(argCount)
	args = append(args, filters.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Brand
	for rows.Next() {
		var b Brand
		if err := rows.Scan(&b.ID, &b.Code, &b.Name); err != nil {
			return nil, 0, err
		}
		list = append(list, b)
	}
	return list, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Brand, error) {
	var b Brand
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, name FROM brands WHERE id = $1`, id,
	).Scan(&b.ID, &b.Code, &b.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Brand{}, httpx.ErrNotFound
	}
	if err != nil {
		return Brand{}, err
	}
	return b, nil
}

func (r *repository) Create(ctx context.Context, brand Brand) (Brand, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO brands (code, name, created_at, updated_at)
		 VALUES ($1, $2, now(), now()) RETURNING id`,
		brand.Code, brand.Name,
	).Scan(&brand.ID)
	if db.IsUniqueViolation(err) {
		return Brand{}, httpx.ErrDuplicate
	}
	if err != nil {
		return Brand{}, err
	}
	return brand, nil
}

func (r *repository) Update(ctx context.Context, id int64, brand Brand) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE brands SET code = $1, name = $2, updated_at = now() WHERE id = $3`,
		brand.Code, brand.Name, id,
	)
	if db.IsUniqueViolation(err) {
		return httpx.ErrDuplicate
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
