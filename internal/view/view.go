// Package view derives the filtered, sorted, paginated page of entities
// the list screens display. Apply is a pure function of the entity list
// and the query state; it performs no I/O and never mutates its input.
package view

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// Query is the ephemeral per-screen view state. Callers are responsible
// for resetting Page to 0 whenever SearchTerm, a filter, or RowsPerPage
// changes; Apply does not clamp the page itself.
type Query struct {
	SearchTerm     string
	StatusFilter   string
	CategoryFilter string
	SortKey        string
	SortDirection  SortDirection
	Page           int
	RowsPerPage    int
}

// Page is one slice of the filtered, ordered result set. Total is the
// filtered count before pagination, which the UI needs for its pager.
type Page[T any] struct {
	Rows  []T `json:"rows"`
	Total int `json:"total"`
}

// SortKind selects the comparison used for a sort key.
type SortKind int

const (
	SortString SortKind = iota
	SortNumeric
	SortDate
)

// SortField extracts a sortable value from an entity. Exactly one of the
// accessors is consulted, per Kind.
type SortField[T any] struct {
	Kind   SortKind
	String func(T) string
	Number func(T) float64
	Time   func(T) time.Time
}

// Schema describes how the pipeline inspects an entity type: which
// fields are searchable, which carry the status/category filters, and
// how each sort key compares.
type Schema[T any] struct {
	Search   []func(T) string
	Status   func(T) string
	Category func(T) string
	Sort     map[string]SortField[T]
}

// Apply filters, sorts, and paginates items according to q.
func Apply[T any](items []T, q Query, schema Schema[T]) Page[T] {
	filtered := filter(items, q, schema)

	if field, ok := schema.Sort[q.SortKey]; ok {
		stableSort(filtered, field, q.SortDirection)
	}

	return Page[T]{Rows: paginate(filtered, q.Page, q.RowsPerPage), Total: len(filtered)}
}

func filter[T any](items []T, q Query, schema Schema[T]) []T {
	term := strings.ToLower(q.SearchTerm)
	out := make([]T, 0, len(items))

	for _, item := range items {
		if term != "" && !matchesSearch(item, term, schema.Search) {
			continue
		}
		if !matchesFilter(item, q.StatusFilter, schema.Status) {
			continue
		}
		if !matchesFilter(item, q.CategoryFilter, schema.Category) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// matchesSearch reports a case-insensitive substring match in any
// searchable field.
func matchesSearch[T any](item T, term string, fields []func(T) string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field(item)), term) {
			return true
		}
	}
	return false
}

func matchesFilter[T any](item T, want string, field func(T) string) bool {
	if want == "" || want == "all" || field == nil {
		return true
	}
	return field(item) == want
}

// stableSort orders in place. Equal keys retain their prior relative
// order.
func stableSort[T any](items []T, field SortField[T], dir SortDirection) {
	less := func(a, b T) bool {
		switch field.Kind {
		case SortNumeric:
			return field.Number(a) < field.Number(b)
		case SortDate:
			return field.Time(a).Before(field.Time(b))
		default:
			return field.String(a) < field.String(b)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if dir == Desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

// ApplyClamped is Apply plus the caller-side page clamp: when q.Page
// runs past the filtered result, the last non-empty page is served
// instead. The possibly adjusted query is returned alongside the page.
func ApplyClamped[T any](items []T, q Query, schema Schema[T]) (Page[T], Query) {
	page := Apply(items, q, schema)
	if len(page.Rows) == 0 && page.Total > 0 && q.Page > 0 && q.RowsPerPage > 0 {
		last := (page.Total - 1) / q.RowsPerPage
		if q.Page > last {
			q.Page = last
			page = Apply(items, q, schema)
		}
	}
	return page, q
}

func paginate[T any](items []T, page, rowsPerPage int) []T {
	if rowsPerPage <= 0 || page < 0 {
		return []T{}
	}
	start := page * rowsPerPage
	if start >= len(items) {
		return []T{}
	}
	end := start + rowsPerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// ParseNumber is the numeric-sort helper for string-typed amounts such
// as a record's value. Unparseable values sort as zero.
func ParseNumber(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
