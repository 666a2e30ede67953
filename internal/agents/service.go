package agents

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/locagest/locagest/internal/authz"
	"github.com/locagest/locagest/internal/platform/httpx"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Account, error) {
	if id <= 0 {
		return Account{}, fmt.Errorf("%w: invalid account id", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Create opens a standard account with no capabilities. Grants come later,
// one by one, from an administrator.
func (s *Service) Create(ctx context.Context, form AccountForm) (Account, error) {
	if err := s.validate.Struct(form); err != nil {
		fields := make(map[string]string)
		for _, fieldErr := range err.(validator.ValidationErrors) {
			fields[fieldErr.Field()] = fieldErr.Error()
		}
		return Account{}, FieldErrors(fields)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, fmt.Errorf("agents: hash password: %w", err)
	}
	return s.repo.Create(ctx, Account{
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		Email:        form.Email,
		Phone:        form.Phone,
		Role:         authz.RoleStandard,
		Permissions:  []string{},
		PasswordHash: string(hash),
	})
}

// SetRole promotes or demotes an account.
func (s *Service) SetRole(ctx context.Context, id int64, role authz.Role) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid account id", httpx.ErrValidation)
	}
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", httpx.ErrValidation, role)
	}
	return s.repo.SetRole(ctx, id, role)
}

// SetPermissions replaces the whole capability set. Every identifier must
// exist in the registry; unknown ones reject the call before anything is
// written.
func (s *Service) SetPermissions(ctx context.Context, id int64, permissions []string) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid account id", httpx.ErrValidation)
	}
	if permissions == nil {
		permissions = []string{}
	}
	if err := authz.VerifyCapabilities(permissions); err != nil {
		return fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	return s.repo.SetPermissions(ctx, id, permissions)
}

// Deactivate disables the account without deleting it.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid account id", httpx.ErrValidation)
	}
	return s.repo.SetActive(ctx, id, false)
}

// Reactivate restores a previously deactivated account.
func (s *Service) Reactivate(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid account id", httpx.ErrValidation)
	}
	return s.repo.SetActive(ctx, id, true)
}

// FieldErrors carries per-field validation messages.
type FieldErrors map[string]string

func (e FieldErrors) Error() string { return "account validation failed" }

func (e FieldErrors) Is(target error) bool { return target == httpx.ErrValidation }
