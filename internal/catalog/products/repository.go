package products

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
	List(ctx context.Context, filters catalog.ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id int64, product Product) error
	SetImagePath(ctx context.Context, id int64, path string) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

var sortColumns = map[string]string{
	"code":  "code",
	"name":  "name",
	"price": "price",
	"stock": "stock",
}

const productColumns = `id, code, name, barcode_symbology, category_id,
	COALESCE(brand_id, 0), unit_id, cost, price, stock, stock_alert,
	COALESCE(description, ''), COALESCE(image_path, ''), for_sale,
	created_at, updated_at`

func (r *repository) List(ctx context.Context, filters catalog.ListFilters) ([]Product, int, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM products WHERE 1=1`
	args := []any{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		n := strconv.Itoa(argCount)
		// search_name holds the folded product name, so accented and plain
		// spellings of the same term both match.
		clause := ` AND (search_name LIKE $` + n + ` OR code ILIKE $` + n + `)`
		query += clause
		countQuery += clause
		args = append(args, "%"+catalog.FoldSearch(filters.Search)+"%")
	}
	if filters.CategoryID > 0 {
		argCount++
		clause := ` AND category_id = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, filters.CategoryID)
	}
	if filters.BrandID > 0 {
		argCount++
		clause := ` AND brand_id = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, filters.BrandID)
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

	var list []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, httpx.ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO products (code, name, search_name, barcode_symbology, category_id,
			brand_id, unit_id, cost, price, stock, stock_alert, description,
			image_path, for_sale, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, 0), $7, $8, $9, $10, $11,
			NULLIF($12, ''), NULLIF($13, ''), $14, now(), now())
		 RETURNING id, created_at, updated_at`,
		product.Code, product.Name, catalog.FoldSearch(product.Name),
		product.BarcodeSymbology, product.CategoryID, product.BrandID,
		product.UnitID, product.Cost, product.Price, product.Stock,
		product.StockAlert, product.Description, product.ImagePath, product.ForSale,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return Product{}, httpx.ErrDuplicate
	}
	if err != nil {
		return Product{}, err
	}
	return product, nil
}

func (r *repository) Update(ctx context.Context, id int64, product Product) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET code = $1, name = $2, search_name = $3,
			barcode_symbology = $4, category_id = $5, brand_id = NULLIF($6, 0),
			unit_id = $7, cost = $8, price = $9, stock = $10, stock_alert = $11,
			description = NULLIF($12, ''), for_sale = $13, updated_at = now()
		 WHERE id = $14`,
		product.Code, product.Name, catalog.FoldSearch(product.Name),
		product.BarcodeSymbology, product.CategoryID, product.BrandID,
		product.UnitID, product.Cost, product.Price, product.Stock,
		product.StockAlert, product.Description, product.ForSale, id,
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

func (r *repository) SetImagePath(ctx context.Context, id int64, path string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET image_path = $1, updated_at = now() WHERE id = $2`, path, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.BarcodeSymbology, &p.CategoryID,
		&p.BrandID, &p.UnitID, &p.Cost, &p.Price, &p.Stock, &p.StockAlert,
		&p.Description, &p.ImagePath, &p.ForSale, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
