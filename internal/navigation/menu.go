// Package navigation holds the static console menu tree and its
// capability-driven visibility filtering.
package navigation

import "github.com/locagest/locagest/internal/authz"

// Item is a node in the navigation tree. A leaf carries a target route and an
// optional required capability; a parent carries children instead. An item
// with both children and a target is not supported.
type Item struct {
	Icon       string `json:"icon,omitempty"`
	Label      string `json:"label"`
	Target     string `json:"target,omitempty"`
	Capability string `json:"-"`
	Children   []Item `json:"children,omitempty"`
}

// Tree returns the full console menu. Visibility is decided per request by
// Filter; this function always returns every node.
func Tree() []Item {
	return []Item{
		{
			Icon:   "i-Bar-Chart",
			Label:  "Tableau de bord",
			Target: "/dashboard",
		},
		{
			Icon:  "i-Box",
			Label: "Produits",
			Children: []Item{
				{Label: "Liste des produits", Target: "/produits"},
				{Label: "Ajouter un produit", Target: "/produits/ajouter", Capability: authz.CapCreateProduct},
				{Label: "Modifier un produit", Target: "/produits/modifier", Capability: authz.CapModifyProduct},
				{Label: "Supprimer", Target: "/produits/supprimer", Capability: authz.CapDeleteProduct},
			},
		},
		{
			Icon:  "i-Tag",
			Label: "Catégories",
			Children: []Item{
				{Label: "Liste des catégories", Target: "/categories"},
				{Label: "Ajouter une catégorie", Target: "/categories/ajouter", Capability: authz.CapAddCategory},
			},
		},
		{
			Icon:  "i-Medal",
			Label: "Marques",
			Children: []Item{
				{Label: "Liste des marques", Target: "/marques"},
				{Label: "Ajouter une marque", Target: "/marques/ajouter", Capability: authz.CapAddBrand},
			},
		},
		{
			Icon:   "i-Truck",
			Label:  "Fournisseurs",
			Target: "/fournisseurs",
		},
		{
			Icon:  "i-Calendar",
			Label: "Location",
			Children: []Item{
				{Label: "Louer un produit", Target: "/location/louer"},
				{Label: "Historique des locations", Target: "/location/historique"},
			},
		},
		{
			Icon:  "i-Gear",
			Label: "Paramètres",
			Children: []Item{
				{
					Label: "Sécurité",
					Children: []Item{
						{Label: "Créer un utilisateur", Target: "/parametres/utilisateurs/ajouter", Capability: authz.CapCreateUser},
						{Label: "Supprimer un utilisateur", Target: "/parametres/utilisateurs/supprimer", Capability: authz.CapDeleteUser},
					},
				},
			},
		},
	}
}
