package authz

// IsAllowed decides whether the grant covers the capability. Administrators
// pass unconditionally, including for identifiers absent from the registry.
// A nil grant never passes. There are no error conditions: an unknown
// capability simply evaluates to false for non-administrators.
func IsAllowed(grant *Grant, capability string) bool {
	if grant == nil {
		return false
	}
	if grant.Role == RoleAdministrator {
		return true
	}
	for _, granted := range grant.Capabilities {
		if granted == capability {
			return true
		}
	}
	return false
}

// AnyAllowed reports whether the grant covers at least one of the listed
// capabilities. The empty list is false for every grant, administrators
// included: a parent menu with no children has nothing to show.
func AnyAllowed(grant *Grant, capabilities []string) bool {
	for _, capability := range capabilities {
		if IsAllowed(grant, capability) {
			return true
		}
	}
	return false
}
