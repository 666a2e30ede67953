package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func adminGrant() *Grant {
	return &Grant{UserID: 1, Role: RoleAdministrator}
}

func standardGrant(caps ...string) *Grant {
	return &Grant{UserID: 2, Role: RoleStandard, Capabilities: caps}
}

func TestAdminAllowedEverything(t *testing.T) {
	grant := adminGrant()
	for id := range capabilityIndex {
		require.True(t, IsAllowed(grant, id))
	}
	// Even identifiers that do not exist in the registry.
	require.True(t, IsAllowed(grant, "launchMissiles"))
}

func TestStandardUserAllowedExactlyGrantedSet(t *testing.T) {
	grant := standardGrant(CapCreateProduct, CapAddBrand)

	require.True(t, IsAllowed(grant, CapCreateProduct))
	require.True(t, IsAllowed(grant, CapAddBrand))
	require.False(t, IsAllowed(grant, CapDeleteProduct))
	require.False(t, IsAllowed(grant, CapCreateUser))
	require.False(t, IsAllowed(grant, "unknownCapability"))
}

func TestNilGrantDeniedEverything(t *testing.T) {
	require.False(t, IsAllowed(nil, CapCreateProduct))
	require.False(t, AnyAllowed(nil, []string{CapCreateProduct, CapDeleteProduct}))
}

func TestAnyAllowed(t *testing.T) {
	grant := standardGrant(CapAddCategory)

	require.True(t, AnyAllowed(grant, []string{CapCreateProduct, CapAddCategory}))
	require.False(t, AnyAllowed(grant, []string{CapCreateProduct, CapDeleteProduct}))
}

func TestAnyAllowedEmptyListIsFalseForEveryone(t *testing.T) {
	require.False(t, AnyAllowed(adminGrant(), nil))
	require.False(t, AnyAllowed(adminGrant(), []string{}))
	require.False(t, AnyAllowed(standardGrant(CapCreateProduct), []string{}))
	require.False(t, AnyAllowed(nil, []string{}))
}
