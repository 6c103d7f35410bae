package listing

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct {
	ID     int
	Name   string
	Status string
}

func makeRows(n int) []row {
	rows := make([]row, 0, n)
	for i := 1; i <= n; i++ {
		status := "OPEN"
		if i%2 == 0 {
			status = "CLOSED"
		}
		rows = append(rows, row{ID: i, Name: fmt.Sprintf("row %d", i), Status: status})
	}
	return rows
}

func TestApply_Pagination(t *testing.T) {
	rows := makeRows(23)

	page1 := Apply(rows, nil, 1, 10)
	assert.Len(t, page1.Items, 10)
	assert.Equal(t, 23, page1.TotalCount)
	assert.Equal(t, 3, page1.TotalPages)
	assert.Equal(t, 1, page1.Items[0].ID)

	page2 := Apply(rows, nil, 2, 10)
	assert.Len(t, page2.Items, 10)
	assert.Equal(t, 11, page2.Items[0].ID)

	page3 := Apply(rows, nil, 3, 10)
	assert.Len(t, page3.Items, 3)
	assert.Equal(t, 23, page3.TotalCount)

	// Out-of-range pages are empty, not an error.
	page4 := Apply(rows, nil, 4, 10)
	assert.Empty(t, page4.Items)
	assert.Equal(t, 23, page4.TotalCount)
}

func TestApply_Idempotent(t *testing.T) {
	rows := makeRows(23)
	filters := []Predicate[row]{
		Equals("OPEN", func(r row) string { return r.Status }),
	}

	first := Apply(rows, filters, 2, 5)
	second := Apply(rows, filters, 2, 5)
	assert.Equal(t, first, second)
}

func TestApply_FiltersAreANDed(t *testing.T) {
	rows := makeRows(23)
	filters := []Predicate[row]{
		Equals("OPEN", func(r row) string { return r.Status }),
		TextSearch("row 1", func(r row) string { return strings.ToLower(r.Name) }),
	}

	result := Apply(rows, filters, 1, 50)
	// Odd IDs whose name contains "row 1": 1, 11, 13, 15, 17, 19.
	assert.Equal(t, 6, result.TotalCount)
	for _, r := range result.Items {
		assert.Equal(t, "OPEN", r.Status)
		assert.Contains(t, r.Name, "row 1")
	}
}

func TestApply_NilAndEmptyFilters(t *testing.T) {
	rows := makeRows(8)
	// Empty search terms and filter values build nil predicates; nil entries
	// are skipped outright.
	filters := []Predicate[row]{
		TextSearch("", func(r row) string { return r.Name }),
		Equals("", func(r row) string { return r.Status }),
		nil,
	}
	result := Apply(rows, filters, 1, 10)
	assert.Equal(t, 8, result.TotalCount)
}

func TestApply_DefaultsPageSize(t *testing.T) {
	rows := makeRows(15)
	result := Apply(rows, nil, 1, 0)
	assert.Equal(t, DefaultPageSize, result.PageSize)
	assert.Len(t, result.Items, DefaultPageSize)
}

func TestPageNumbers_Window(t *testing.T) {
	tests := []struct {
		name       string
		current    int
		totalPages int
		want       []int
	}{
		{"no pages", 1, 0, nil},
		{"fewer pages than window", 1, 3, []int{1, 2, 3}},
		{"centered", 7, 20, []int{5, 6, 7, 8, 9}},
		{"clamped at start", 1, 20, []int{1, 2, 3, 4, 5}},
		{"clamped at end", 20, 20, []int{16, 17, 18, 19, 20}},
		{"near start", 2, 20, []int{1, 2, 3, 4, 5}},
		{"current out of range", 99, 4, []int{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageNumbers(tt.current, tt.totalPages))
		})
	}
}

func TestTextSearch_CaseInsensitive(t *testing.T) {
	pred := TextSearch("ROW 2", func(r row) string { return strings.ToLower(r.Name) })
	assert.True(t, pred(row{Name: "row 2"}))
	assert.False(t, pred(row{Name: "row 3"}))
}

func TestSorter_Toggle(t *testing.T) {
	var s Sorter
	s.Toggle("name")
	assert.Equal(t, "name", s.Column)
	assert.True(t, s.Ascending)

	s.Toggle("name")
	assert.False(t, s.Ascending)

	// A new column resets to ascending.
	s.Toggle("status")
	assert.Equal(t, "status", s.Column)
	assert.True(t, s.Ascending)
}

func TestSortBy_StableAndReversible(t *testing.T) {
	rows := []row{
		{ID: 1, Name: "b", Status: "OPEN"},
		{ID: 2, Name: "a", Status: "OPEN"},
		{ID: 3, Name: "a", Status: "CLOSED"},
	}
	cmp := func(a, b row) int { return strings.Compare(a.Name, b.Name) }

	SortBy(rows, true, cmp)
	// Equal names keep their original relative order.
	assert.Equal(t, []int{2, 3, 1}, []int{rows[0].ID, rows[1].ID, rows[2].ID})

	SortBy(rows, false, cmp)
	assert.Equal(t, "b", rows[0].Name)
}

func TestState_FilterChangeResetsPage(t *testing.T) {
	s := NewState()
	s.SetFilters("OPEN", "")
	s.SetPage(3)
	assert.Equal(t, 3, s.Page())

	// Same filters: page is kept.
	s.SetFilters("OPEN", "")
	assert.Equal(t, 3, s.Page())

	// Any filter change snaps back to page 1.
	s.SetFilters("OPEN", "PHYSICAL")
	assert.Equal(t, 1, s.Page())
}

func TestState_PageFloor(t *testing.T) {
	s := NewState()
	s.SetPage(-5)
	assert.Equal(t, 1, s.Page())
}
