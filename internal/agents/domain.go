package agents

import (
	"time"

	"github.com/locagest/locagest/internal/authz"
)

// Account is an agent of the business: someone who signs into the console.
// Accounts are never deleted physically, only deactivated, so rental history
// keeps its author.
type Account struct {
	ID           int64      `json:"id"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone,omitempty"`
	Role         authz.Role `json:"role"`
	Permissions  []string   `json:"permissions"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	PasswordHash string     `json:"-"`
}

// AccountForm is the admin-side creation payload.
type AccountForm struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" validate:"required,min=8"`
}
