package units

import (
	"context"
	"fmt"
	"strings"

	"github.com/locagest/locagest/internal/platform/httpx"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Unit, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Unit, error) {
	if id <= 0 {
		return Unit{}, fmt.Errorf("%w: invalid unit id", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, unit Unit) (Unit, error) {
	if strings.TrimSpace(unit.Code) == "" {
		return Unit{}, fmt.Errorf("%w: unit code is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(unit.Name) == "" {
		return Unit{}, fmt.Errorf("%w: unit name is required", httpx.ErrValidation)
	}
	return s.repo.Create(ctx, unit)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid unit id", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}
