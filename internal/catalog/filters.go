// Package catalog holds helpers shared by the catalog subpackages.
package catalog

import (
	"net/http"
	"strconv"
)

// ListFilters represents standard list endpoint filters.
type ListFilters struct {
	Page       int
	Limit      int
	Search     string
	SortBy     string
	SortDir    string
	CategoryID int64
	BrandID    int64
}

// FiltersFromQuery parses the common list query parameters.
func FiltersFromQuery(r *http.Request) ListFilters {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 20
	}
	categoryID, _ := strconv.ParseInt(q.Get("category"), 10, 64)
	brandID, _ := strconv.ParseInt(q.Get("brand"), 10, 64)
	return ListFilters{
		Page:       page,
		Limit:      limit,
		Search:     q.Get("search"),
		SortBy:     q.Get("sort"),
		SortDir:    q.Get("dir"),
		CategoryID: categoryID,
		BrandID:    brandID,
	}
}

// Offset returns the row offset for the current page.
func (f ListFilters) Offset() int {
	offset := (f.Page - 1) * f.Limit
	if offset < 0 {
		return 0
	}
	return offset
}

// SortClause builds an ORDER BY fragment from a whitelist of sortable
// columns. Unknown columns fall back to the first entry.
func SortClause(sortBy, sortDir string, columns map[string]string, fallback string) string {
	dir := "ASC"
	if sortDir == "desc" {
		dir = "DESC"
	}
	column, ok := columns[sortBy]
	if !ok {
		column = fallback
	}
	return column + " " + dir
}
