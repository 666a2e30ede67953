package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryIdentifiersUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for _, section := range Sections() {
		require.NotEmpty(t, section.Key)
		require.NotEmpty(t, section.Label)
		for _, capability := range section.Capabilities {
			_, dup := seen[capability.ID]
			require.Falsef(t, dup, "capability %q declared twice", capability.ID)
			seen[capability.ID] = struct{}{}
			require.NotEmpty(t, capability.Label)
		}
	}
	require.Len(t, seen, 7)
}

func TestLookupCapability(t *testing.T) {
	capability, ok := LookupCapability(CapCreateProduct)
	require.True(t, ok)
	require.Equal(t, "Créer un produit", capability.Label)

	_, ok = LookupCapability("nope")
	require.False(t, ok)
}

func TestVerifyCapabilities(t *testing.T) {
	require.NoError(t, VerifyCapabilities(nil))
	require.NoError(t, VerifyCapabilities([]string{CapCreateUser, CapAddBrand}))
	require.Error(t, VerifyCapabilities([]string{CapCreateUser, "ghostCapability"}))
}
