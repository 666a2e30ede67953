package brands

import (
	"context"
	"fmt"
	"strings"

	"github.com/locagest/locagest/internal/catalog"
	"github.com/locagest/locagest/internal/platform/httpx"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters catalog.ListFilters) ([]Brand, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Brand, error) {
	if id <= 0 {
		return Brand{}, fmt.Errorf("%w: invalid brand id", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, brand Brand) (Brand, error) {
	if err := s.validate(brand); err != nil {
		return Brand{}, err
	}
	return s.repo.Create(ctx, brand)
}

func (s *Service) Update(ctx context.Context, id int64, brand Brand) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid brand id", httpx.ErrValidation)
	}
	if err := s.validate(brand); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, brand)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid brand id", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(b Brand) error {
	if strings.TrimSpace(b.Code) == "" {
		return fmt.Errorf("%w: brand code is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: brand name is required", httpx.ErrValidation)
	}
	return nil
}
