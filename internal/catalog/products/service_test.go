package products

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/locagest/locagest/internal/catalog"
	"github.com/locagest/locagest/internal/platform/httpx"
)

type stubRepo struct {
	created []Product
	updated map[int64]Product
	images  map[int64]string
}

func newStubRepo() *stubRepo {
	return &stubRepo{updated: make(map[int64]Product), images: make(map[int64]string)}
}

func (r *stubRepo) List(ctx context.Context, filters catalog.ListFilters) ([]Product, int, error) {
	return nil, 0, nil
}

func (r *stubRepo) Get(ctx context.Context, id int64) (Product, error) {
	return Product{}, httpx.ErrNotFound
}

func (r *stubRepo) Create(ctx context.Context, product Product) (Product, error) {
	product.ID = int64(len(r.created) + 1)
	r.created = append(r.created, product)
	return product, nil
}

func (r *stubRepo) Update(ctx context.Context, id int64, product Product) error {
	r.updated[id] = product
	return nil
}

func (r *stubRepo) SetImagePath(ctx context.Context, id int64, path string) error {
	r.images[id] = path
	return nil
}

func (r *stubRepo) Delete(ctx context.Context, id int64) error { return nil }

func validForm() ProductForm {
	return ProductForm{
		Code:       "PRD-001",
		Name:       "Perceuse Bosch",
		CategoryID: 1,
		UnitID:     2,
		Cost:       800,
		Price:      1250.50,
		Stock:      4,
		StockAlert: 1,
		ForSale:    true,
	}
}

func TestCreateProduct(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), validForm())

	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)
	require.Len(t, repo.created, 1)
	require.Equal(t, "Perceuse Bosch", repo.created[0].Name)
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewService(newStubRepo())

	form := validForm()
	form.Name = ""
	form.CategoryID = 0

	_, err := svc.Create(context.Background(), form)

	require.Error(t, err)
	require.ErrorIs(t, err, httpx.ErrValidation)

	var fields FieldErrors
	require.True(t, errors.As(err, &fields))
	require.Contains(t, fields, "Name")
	require.Contains(t, fields, "CategoryID")
}

func TestCreateProductRejectsUnknownSymbology(t *testing.T) {
	svc := NewService(newStubRepo())

	form := validForm()
	form.BarcodeSymbology = "QRCODE"

	_, err := svc.Create(context.Background(), form)

	var fields FieldErrors
	require.True(t, errors.As(err, &fields))
	require.Contains(t, fields, "BarcodeSymbology")
}

func TestUpdateProductInvalidID(t *testing.T) {
	svc := NewService(newStubRepo())

	err := svc.Update(context.Background(), 0, validForm())

	require.ErrorIs(t, err, httpx.ErrValidation)
}
