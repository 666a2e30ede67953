package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/locagest/locagest/internal/authz"
	"github.com/locagest/locagest/internal/platform/httpx"
)

type memoryRepo struct {
	accounts map[int64]*Account
	nextID   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{accounts: make(map[int64]*Account)}
}

func (r *memoryRepo) List(ctx context.Context) ([]Account, error) {
	var list []Account
	for _, a := range r.accounts {
		list = append(list, *a)
	}
	return list, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Account, error) {
	if a, ok := r.accounts[id]; ok {
		return *a, nil
	}
	return Account{}, httpx.ErrNotFound
}

func (r *memoryRepo) FindByEmail(ctx context.Context, email string) (Account, error) {
	for _, a := range r.accounts {
		if a.Email == email {
			return *a, nil
		}
	}
	return Account{}, httpx.ErrNotFound
}

func (r *memoryRepo) Create(ctx context.Context, account Account) (Account, error) {
	for _, a := range r.accounts {
		if a.Email == account.Email {
			return Account{}, httpx.ErrDuplicate
		}
	}
	r.nextID++
	account.ID = r.nextID
	account.IsActive = true
	r.accounts[account.ID] = &account
	return account, nil
}

func (r *memoryRepo) UpdateProfile(ctx context.Context, id int64, firstName, lastName, phone string) error {
	a, ok := r.accounts[id]
	if !ok {
		return httpx.ErrNotFound
	}
	a.FirstName, a.LastName, a.Phone = firstName, lastName, phone
	return nil
}

func (r *memoryRepo) SetRole(ctx context.Context, id int64, role authz.Role) error {
	a, ok := r.accounts[id]
	if !ok {
		return httpx.ErrNotFound
	}
	a.Role = role
	return nil
}

func (r *memoryRepo) SetPermissions(ctx context.Context, id int64, permissions []string) error {
	a, ok := r.accounts[id]
	if !ok {
		return httpx.ErrNotFound
	}
	a.Permissions = permissions
	return nil
}

func (r *memoryRepo) SetActive(ctx context.Context, id int64, active bool) error {
	a, ok := r.accounts[id]
	if !ok {
		return httpx.ErrNotFound
	}
	a.IsActive = active
	return nil
}

func (r *memoryRepo) GrantFor(ctx context.Context, userID int64) (*authz.Grant, error) {
	a, ok := r.accounts[userID]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	if !a.IsActive {
		return nil, httpx.ErrForbidden
	}
	return &authz.Grant{UserID: userID, Role: a.Role, Capabilities: a.Permissions}, nil
}

func (r *memoryRepo) AdminIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	for id, a := range r.accounts {
		if a.Role == authz.RoleAdministrator && a.IsActive {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func validAccountForm() AccountForm {
	return AccountForm{
		FirstName: "Sami",
		LastName:  "Trabelsi",
		Email:     "sami@locagest.tn",
		Password:  "motdepasse123",
	}
}

func TestCreateAccountStartsWithNoGrants(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	account, err := svc.Create(ctx, validAccountForm())
	require.NoError(t, err)
	require.Equal(t, authz.RoleStandard, account.Role)
	require.Empty(t, account.Permissions)
	require.True(t, account.IsActive)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("motdepasse123")))
}

func TestCreateAccountValidation(t *testing.T) {
	svc := NewService(newMemoryRepo())

	form := validAccountForm()
	form.Email = "pas-un-email"
	form.Password = "court"

	_, err := svc.Create(context.Background(), form)
	require.ErrorIs(t, err, httpx.ErrValidation)

	fields, ok := err.(FieldErrors)
	require.True(t, ok)
	require.Contains(t, fields, "Email")
	require.Contains(t, fields, "Password")
}

func TestSetPermissionsRejectsUnknownCapability(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	account, err := svc.Create(ctx, validAccountForm())
	require.NoError(t, err)

	err = svc.SetPermissions(ctx, account.ID, []string{authz.CapCreateProduct, "launchMissiles"})
	require.ErrorIs(t, err, httpx.ErrValidation)

	stored, err := repo.Get(ctx, account.ID)
	require.NoError(t, err)
	require.Empty(t, stored.Permissions)

	require.NoError(t, svc.SetPermissions(ctx, account.ID, []string{authz.CapCreateProduct}))
	stored, err = repo.Get(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, []string{authz.CapCreateProduct}, stored.Permissions)
}

func TestSetRole(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	account, err := svc.Create(ctx, validAccountForm())
	require.NoError(t, err)

	require.NoError(t, svc.SetRole(ctx, account.ID, authz.RoleAdministrator))
	require.ErrorIs(t, svc.SetRole(ctx, account.ID, "SuperAdmin"), httpx.ErrValidation)

	ids, err := repo.AdminIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, []int64{account.ID}, ids)
}

func TestDeactivateFailsGrantsClosed(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	account, err := svc.Create(ctx, validAccountForm())
	require.NoError(t, err)

	grant, err := repo.GrantFor(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, grant)

	require.NoError(t, svc.Deactivate(ctx, account.ID))

	_, err = repo.GrantFor(ctx, account.ID)
	require.Error(t, err)

	require.NoError(t, svc.Reactivate(ctx, account.ID))
	_, err = repo.GrantFor(ctx, account.ID)
	require.NoError(t, err)
}
