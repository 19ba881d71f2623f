package listing

import (
	"slices"
	"strings"
)

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

func ParseOrder(s string) (Order, bool) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case Asc:
		return Asc, true
	case Desc:
		return Desc, true
	}
	return "", false
}

// State is the user-controlled part of a list view.
type State struct {
	Query string `json:"query"`
	Order Order  `json:"order"`
	Page  int    `json:"page"`
}

func NewState() State {
	return State{Order: Asc, Page: 1}
}

// WithQuery changes the search query. A different query moves back to page 1.
func (s State) WithQuery(q string) State {
	if q != s.Query {
		s.Query = q
		s.Page = 1
	}
	return s
}

// WithOrder changes the sort order. A different order moves back to page 1.
func (s State) WithOrder(o Order) State {
	if o != s.Order {
		s.Order = o
		s.Page = 1
	}
	return s
}

func (s State) WithPage(p int) State {
	if p < 1 {
		p = 1
	}
	s.Page = p
	return s
}

// Spec describes how one kind of record is searched, ordered and paged.
type Spec[T any] struct {
	// Fields are matched case-insensitively against the query.
	Fields func(T) []string
	// Less defines ascending order; Desc reverses it unless DescLess is set.
	Less func(a, b T) bool
	// DescLess, when set, is the order used for Desc instead of reversing Less.
	DescLess func(a, b T) bool
	PageSize int
}

type Result[T any] struct {
	Items     []T   `json:"items"`
	Total     int   `json:"total"`
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	PageCount int   `json:"page_count"`
	State     State `json:"state"`
}

func (s Spec[T]) lessFor(o Order) func(a, b T) bool {
	if o != Desc {
		return s.Less
	}
	if s.DescLess != nil {
		return s.DescLess
	}
	if s.Less == nil {
		return nil
	}
	return func(a, b T) bool { return s.Less(b, a) }
}

// Filter returns the items matching q in any field. An empty query matches everything.
func Filter[T any](items []T, q string, fields func(T) []string) []T {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if q == "" || matches(fields(it), q) {
			out = append(out, it)
		}
	}
	return out
}

func matches(fields []string, q string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Apply filters, sorts and pages items in that order. A page past the last one is clamped to
// the last page. items is not modified.
func Apply[T any](items []T, st State, spec Spec[T]) Result[T] {
	var filtered []T
	if spec.Fields != nil {
		filtered = Filter(items, st.Query, spec.Fields)
	} else {
		filtered = slices.Clone(items)
	}

	if less := spec.lessFor(st.Order); less != nil {
		slices.SortStableFunc(filtered, func(a, b T) int {
			switch {
			case less(a, b):
				return -1
			case less(b, a):
				return 1
			}
			return 0
		})
	}

	size := spec.PageSize
	if size <= 0 {
		size = len(filtered)
		if size == 0 {
			size = 1
		}
	}
	total := len(filtered)
	pages := (total + size - 1) / size
	page := min(max(st.Page, 1), max(pages, 1))
	start := min((page-1)*size, total)
	end := min(page*size, total)

	return Result[T]{
		Items:     filtered[start:end],
		Total:     total,
		Page:      page,
		PageSize:  size,
		PageCount: pages,
		State:     State{Query: st.Query, Order: st.Order, Page: page},
	}
}
