package authz

import "fmt"

// Capability identifiers. These are the only values that may appear in a
// grant's capability set or on a navigation item.
const (
	CapCreateUser    = "createUser"
	CapDeleteUser    = "deleteUser"
	CapCreateProduct = "createProduct"
	CapModifyProduct = "modifyProduct"
	CapDeleteProduct = "deleteProduct"
	CapAddCategory   = "addCategory"
	CapAddBrand      = "addBrand"
)

// Capability pairs an identifier with its human label.
type Capability struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Section groups capabilities by the console screen that manages them.
type Section struct {
	Key          string       `json:"key"`
	Label        string       `json:"label"`
	Capabilities []Capability `json:"capabilities"`
}

// registry is the static capability registry. Order matters only for display.
var registry = []Section{
	{
		Key:   "userManagement",
		Label: "CRUD Utilisateurs",
		Capabilities: []Capability{
			{ID: CapCreateUser, Label: "Créer un utilisateur"},
			{ID: CapDeleteUser, Label: "Supprimer un utilisateur"},
		},
	},
	{
		Key:   "productManagement",
		Label: "CRUD Produits",
		Capabilities: []Capability{
			{ID: CapCreateProduct, Label: "Créer un produit"},
			{ID: CapModifyProduct, Label: "Modifier un produit"},
			{ID: CapDeleteProduct, Label: "Supprimer un produit"},
		},
	},
	{
		Key:   "categoryManagement",
		Label: "Gestion des Catégories",
		Capabilities: []Capability{
			{ID: CapAddCategory, Label: "Ajouter une catégorie"},
		},
	},
	{
		Key:   "brandManagement",
		Label: "Gestion des Marques",
		Capabilities: []Capability{
			{ID: CapAddBrand, Label: "Ajouter une marque"},
		},
	},
}

var capabilityIndex = buildCapabilityIndex()

func buildCapabilityIndex() map[string]Capability {
	index := make(map[string]Capability)
	for _, section := range registry {
		for _, capability := range section.Capabilities {
			if _, dup := index[capability.ID]; dup {
				panic(fmt.Sprintf("authz: duplicate capability id %q in registry", capability.ID))
			}
			index[capability.ID] = capability
		}
	}
	return index
}

// Sections returns the registry grouped by section.
func Sections() []Section {
	out := make([]Section, len(registry))
	copy(out, registry)
	return out
}

// LookupCapability returns the capability for id.
func LookupCapability(id string) (Capability, bool) {
	capability, ok := capabilityIndex[id]
	return capability, ok
}

// KnownCapability reports whether id exists in the registry.
func KnownCapability(id string) bool {
	_, ok := capabilityIndex[id]
	return ok
}

// VerifyCapabilities returns an error naming the first identifier absent from
// the registry. Used by startup consistency checks and by the grant-update
// flow to reject unknown identifiers.
func VerifyCapabilities(ids []string) error {
	for _, id := range ids {
		if !KnownCapability(id) {
			return fmt.Errorf("authz: unknown capability %q", id)
		}
	}
	return nil
}
