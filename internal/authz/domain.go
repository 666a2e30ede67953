// Package authz implements the role and capability based authorization model.
//
// Every gated action in the console maps to one capability identifier from the
// static registry. An administrator implicitly holds every capability; a
// standard user holds exactly the identifiers granted on their account record.
package authz

// Role is the coarse-grained user classification. The string values are the
// ones stored on account records and shown in the console.
type Role string

const (
	// RoleAdministrator overrides fine-grained capabilities.
	RoleAdministrator Role = "Administrateur"
	// RoleStandard holds exactly the capabilities explicitly granted.
	RoleStandard Role = "Utilisateur"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleAdministrator || r == RoleStandard
}

// Grant is the per-user authorization document: the sole source of truth for
// gating. A nil *Grant represents an anonymous or unresolvable user and is
// treated as holding no capabilities at all (fail closed).
type Grant struct {
	UserID       int64    `json:"userId"`
	Role         Role     `json:"role"`
	Capabilities []string `json:"permissions"`
}

// IsAdmin reports whether the grant carries the administrator role.
func (g *Grant) IsAdmin() bool {
	return g != nil && g.Role == RoleAdministrator
}
