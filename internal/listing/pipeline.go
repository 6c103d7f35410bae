// Package listing implements the client-style filter → sort → paginate
// pipeline applied to fully-fetched in-memory sets (complaints, users,
// support centers). The pipeline is pure: identical inputs yield identical
// outputs.
package listing

import (
	"sort"
	"strings"
)

// DefaultPageSize matches the fixed page size of the management tables.
const DefaultPageSize = 10

// PageWindow caps how many page buttons are shown at once.
const PageWindow = 5

// Predicate reports whether an item passes one filter. Filters are ANDed.
type Predicate[T any] func(T) bool

// Page is one slice of the filtered set plus the post-filter total.
type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int   `json:"totalCount"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
	PageList   []int `json:"pageList"`
}

// Apply filters the items with every predicate, then slices out the
// requested page. TotalCount is the post-filter, pre-paginate count.
// Pages are 1-based; out-of-range pages yield an empty slice.
func Apply[T any](items []T, filters []Predicate[T], page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	filtered := make([]T, 0, len(items))
	for _, item := range items {
		keep := true
		for _, f := range filters {
			if f != nil && !f(item) {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, item)
		}
	}

	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      filtered[start:end],
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		PageList:   PageNumbers(page, totalPages),
	}
}

// PageNumbers returns the visible page-button window: at most PageWindow
// numbers centered on the current page, shifted to stay within bounds near
// the edges.
func PageNumbers(current, totalPages int) []int {
	if totalPages <= 0 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	start := current - PageWindow/2
	if start < 1 {
		start = 1
	}
	end := start + PageWindow - 1
	if end > totalPages {
		end = totalPages
		start = end - PageWindow + 1
		if start < 1 {
			start = 1
		}
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

// TextSearch builds a case-insensitive substring predicate over the haystack
// produced by searchText. An empty term matches everything.
func TextSearch[T any](term string, searchText func(T) string) Predicate[T] {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	return func(item T) bool {
		return strings.Contains(searchText(item), term)
	}
}

// Equals builds an exact-match predicate against the raw stored value, not
// the display label. An empty wanted value matches everything.
func Equals[T any](want string, valueOf func(T) string) Predicate[T] {
	if want == "" {
		return nil
	}
	return func(item T) bool {
		return valueOf(item) == want
	}
}

// Sorter keeps two-way column sort state: clicking the same column flips the
// direction, clicking a new column resets to ascending.
type Sorter struct {
	Column    string
	Ascending bool
}

// Toggle applies a column click to the sorter state.
func (s *Sorter) Toggle(column string) {
	if s.Column == column {
		s.Ascending = !s.Ascending
		return
	}
	s.Column = column
	s.Ascending = true
}

// SortBy stably sorts items with the given ascending-sense comparison,
// reversed when ascending is false.
func SortBy[T any](items []T, ascending bool, cmp func(a, b T) int) {
	sort.SliceStable(items, func(i, j int) bool {
		c := cmp(items[i], items[j])
		if ascending {
			return c < 0
		}
		return c > 0
	})
}

// State tracks the current page of a listing and resets it to the first page
// whenever the filter signature changes.
type State struct {
	page      int
	signature string
}

// NewState starts a listing on page 1 with no filters applied.
func NewState() *State {
	return &State{page: 1}
}

// Page returns the current 1-based page.
func (s *State) Page() int {
	if s.page < 1 {
		return 1
	}
	return s.page
}

// SetPage moves to a page without touching filters.
func (s *State) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.page = page
}

// SetFilters records the active filter values; any change resets the page
// to 1 before the next Apply call.
func (s *State) SetFilters(values ...string) {
	sig := strings.Join(values, "\x1f")
	if sig != s.signature {
		s.signature = sig
		s.page = 1
	}
}
