package catalog

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFoldSearch(t *testing.T) {
	require.Equal(t, "pelleteuse legere", FoldSearch("Pelleteuse Légère"))
	require.Equal(t, "perceuse", FoldSearch("  PERCEUSE  "))
	require.Equal(t, "beton cire", FoldSearch("Béton Ciré"))
}

func TestFiltersFromQueryDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/products?search=scie&page=0&limit=-2", nil)

	f := FiltersFromQuery(r)

	require.Equal(t, 1, f.Page)
	require.Equal(t, 20, f.Limit)
	require.Equal(t, "scie", f.Search)
	require.Zero(t, f.Offset())
}

func TestSortClauseWhitelist(t *testing.T) {
	columns := map[string]string{"name": "name", "price": "price"}

	require.Equal(t, "price DESC", SortClause("price", "desc", columns, "name"))
	require.Equal(t, "name ASC", SortClause("id; DROP TABLE products", "asc", columns, "name"))
}
