package products

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/locagest/locagest/internal/catalog"
	"github.com/locagest/locagest/internal/platform/httpx"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) List(ctx context.Context, filters catalog.ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("%w: invalid product id", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Create validates the form and persists the product. FieldErrors carries the
// per-field messages when validation fails.
func (s *Service) Create(ctx context.Context, form ProductForm) (Product, error) {
	if fields := s.fieldErrors(form); len(fields) > 0 {
		return Product{}, FieldErrors(fields)
	}
	return s.repo.Create(ctx, form.toProduct())
}

func (s *Service) Update(ctx context.Context, id int64, form ProductForm) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid product id", httpx.ErrValidation)
	}
	if fields := s.fieldErrors(form); len(fields) > 0 {
		return FieldErrors(fields)
	}
	return s.repo.Update(ctx, id, form.toProduct())
}

func (s *Service) AttachImage(ctx context.Context, id int64, path string) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid product id", httpx.ErrValidation)
	}
	return s.repo.SetImagePath(ctx, id, path)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid product id", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) fieldErrors(form ProductForm) map[string]string {
	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}
	fields := make(map[string]string)
	for _, fieldErr := range err.(validator.ValidationErrors) {
		fields[fieldErr.Field()] = fieldErr.Error()
	}
	return fields
}

// FieldErrors is a validation error carrying a field-to-message map for the
// response body.
type FieldErrors map[string]string

func (e FieldErrors) Error() string { return "product validation failed" }

func (e FieldErrors) Is(target error) bool { return target == httpx.ErrValidation }
