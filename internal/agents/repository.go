package agents

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/locagest/locagest/internal/authz"
	"github.com/locagest/locagest/internal/platform/db"
	"github.com/locagest/locagest/internal/platform/httpx"
)

// Repository persists accounts. It also backs the authorization layer
// (GrantFor) and admin notification fan-out (AdminIDs).
type Repository interface {
	List(ctx context.Context) ([]Account, error)
	Get(ctx context.Context, id int64) (Account, error)
	FindByEmail(ctx context.Context, email string) (Account, error)
	Create(ctx context.Context, account Account) (Account, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName, phone string) error
	SetRole(ctx context.Context, id int64, role authz.Role) error
	SetPermissions(ctx context.Context, id int64, permissions []string) error
	SetActive(ctx context.Context, id int64, active bool) error
	GrantFor(ctx context.Context, userID int64) (*authz.Grant, error)
	AdminIDs(ctx context.Context) ([]int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const accountColumns = `id, first_name, last_name, email, COALESCE(phone, ''),
	role, permissions, is_active, created_at, password_hash`

func (r *repository) List(ctx context.Context) ([]Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+accountColumns+` FROM users ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, account)
	}
	return list, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Account, error) {
	account, err := scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, httpx.ErrNotFound
	}
	return account, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (Account, error) {
	account, err := scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, httpx.ErrNotFound
	}
	return account, err
}

func (r *repository) Create(ctx context.Context, account Account) (Account, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (first_name, last_name, email, phone, role,
			permissions, is_active, password_hash, created_at, updated_at)
		 VALUES ($1, $2, lower($3), NULLIF($4, ''), $5, $6, true, $7, now(), now())
		 RETURNING id, created_at`,
		account.FirstName, account.LastName, account.Email, account.Phone,
		account.Role, account.Permissions, account.PasswordHash,
	).Scan(&account.ID, &account.CreatedAt)
	if db.IsUniqueViolation(err) {
		return Account{}, httpx.ErrDuplicate
	}
	if err != nil {
		return Account{}, err
	}
	account.IsActive = true
	return account, nil
}

func (r *repository) UpdateProfile(ctx context.Context, id int64, firstName, lastName, phone string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET first_name = $1, last_name = $2, phone = NULLIF($3, ''),
			updated_at = now() WHERE id = $4`,
		firstName, lastName, phone, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) SetRole(ctx context.Context, id int64, role authz.Role) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET role = $1, updated_at = now() WHERE id = $2`, role, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) SetPermissions(ctx context.Context, id int64, permissions []string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET permissions = $1, updated_at = now() WHERE id = $2`, permissions, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_active = $1, updated_at = now() WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// GrantFor loads the authorization grant straight from the user row. Inactive
// accounts resolve to an error so downstream checks fail closed.
func (r *repository) GrantFor(ctx context.Context, userID int64) (*authz.Grant, error) {
	var role authz.Role
	var permissions []string
	var active bool
	err := r.pool.QueryRow(ctx,
		`SELECT role, permissions, is_active FROM users WHERE id = $1`, userID,
	).Scan(&role, &permissions, &active)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, httpx.ErrForbidden
	}
	return &authz.Grant{UserID: userID, Role: role, Capabilities: permissions}, nil
}

func (r *repository) AdminIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM users WHERE role = $1 AND is_active`, authz.RoleAdministrator)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Phone,
		&a.Role, &a.Permissions, &a.IsActive, &a.CreatedAt, &a.PasswordHash)
	return a, err
}
