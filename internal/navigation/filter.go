package navigation

import (
	"fmt"

	"github.com/locagest/locagest/internal/authz"
)

// Filter returns the subset of items the grant may see. Depth-first: a gated
// leaf survives iff the grant covers its capability, an ungated leaf always
// survives, and a parent survives iff at least one child does, exposing only
// the surviving children. A reachable sibling is never hidden and an empty
// submenu is never shown. A nil grant yields the minimal (locked) menu.
func Filter(grant *authz.Grant, items []Item) []Item {
	var kept []Item
	for _, item := range items {
		if len(item.Children) > 0 {
			children := Filter(grant, item.Children)
			if len(children) == 0 {
				continue
			}
			item.Children = children
			kept = append(kept, item)
			continue
		}
		if item.Capability == "" || authz.IsAllowed(grant, item.Capability) {
			kept = append(kept, item)
		}
	}
	return kept
}

// Verify walks the tree and fails on the first navigation item gated by a
// capability the registry does not know. Run at startup so a broken menu is a
// configuration error, not a silent render-time surprise.
func Verify(items []Item) error {
	for _, item := range items {
		if item.Capability != "" && !authz.KnownCapability(item.Capability) {
			return fmt.Errorf("navigation: item %q references unknown capability %q", item.Label, item.Capability)
		}
		if err := Verify(item.Children); err != nil {
			return err
		}
	}
	return nil
}
