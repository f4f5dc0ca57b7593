package api

import (
	"net/http"
	"strconv"

	"github.com/FACorreiaa/go-admin-dashboard/internal/view"
)

const (
	defaultRowsPerPage = 10
	maxRowsPerPage     = 100
)

// ParseListQuery reads the list screens' query parameters (q, status,
// category, sortBy, order, page, rowsPerPage) into a view.Query.
// Missing or out-of-range values fall back to page 0, ten rows per
// page, and ascending order on defaultSortKey.
func ParseListQuery(r *http.Request, defaultSortKey string) view.Query {
	params := r.URL.Query()

	q := view.Query{
		SearchTerm:     params.Get("q"),
		StatusFilter:   params.Get("status"),
		CategoryFilter: params.Get("category"),
		SortKey:        params.Get("sortBy"),
		SortDirection:  view.Asc,
		RowsPerPage:    defaultRowsPerPage,
	}
	if q.SortKey == "" {
		q.SortKey = defaultSortKey
	}
	if params.Get("order") == string(view.Desc) {
		q.SortDirection = view.Desc
	}
	if v, err := strconv.Atoi(params.Get("page")); err == nil && v >= 0 {
		q.Page = v
	}
	if v, err := strconv.Atoi(params.Get("rowsPerPage")); err == nil && v > 0 && v <= maxRowsPerPage {
		q.RowsPerPage = v
	}
	return q
}
