// Package listview filters, sorts and paginates table rows the way every dashboard list does.
package listview

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

var (
	// ErrUnknownColumn is returned when sorting by a column the view does not have.
	ErrUnknownColumn = errors.New("unknown sort column")
	// ErrPageOutOfRange is returned when navigating outside [1, total pages].
	ErrPageOutOfRange = errors.New("page out of range")
)

// Accessor extracts a column value from a row. Strings sort lexicographically, numbers
// numerically; nil values sort as "" or 0.
type Accessor[T any] func(T) any

// Config describes one list.
type Config[T any] struct {
	// PageSize <= 0 puts every row on a single page.
	PageSize int
	Columns  map[string]Accessor[T]
	// Filter reports whether row matches the lower-cased search term.
	Filter    func(row T, term string) bool
	SortField string
	Direction Direction
	// Remote is set when the API already paginated the rows.
	Remote bool
}

// Query is the list state a client sends with each request.
type Query struct {
	Term   string
	Sort   string
	Order  Direction
	Toggle string
	Page   int
}

// View holds the current filter, sort and page of one list.
type View[T any] struct {
	cfg   Config[T]
	term  string
	field string
	dir   Direction
	page  int
}

// New returns a view on page 1 with the configured default sort.
func New[T any](cfg Config[T]) *View[T] {
	dir := cfg.Direction
	if dir == "" {
		dir = Asc
	}
	return &View[T]{cfg: cfg, field: cfg.SortField, dir: dir, page: 1}
}

// Apply loads a client query: sort and order, then an optional header toggle, the search
// term and finally the page.
func (v *View[T]) Apply(q Query) error {
	if q.Sort != "" {
		dir := q.Order
		if dir != Desc {
			dir = Asc
		}
		if err := v.SetSort(q.Sort, dir); err != nil {
			return err
		}
	}
	if q.Toggle != "" {
		if err := v.ToggleSort(q.Toggle); err != nil {
			return err
		}
	}
	v.SetFilter(q.Term)
	if q.Page > 1 {
		v.page = q.Page
	}
	return nil
}

// SetFilter changes the search term and returns to page 1.
func (v *View[T]) SetFilter(term string) {
	v.term = term
	v.page = 1
}

// Term returns the current search term.
func (v *View[T]) Term() string { return v.term }

// SetSort selects field and direction.
func (v *View[T]) SetSort(field string, dir Direction) error {
	if _, ok := v.cfg.Columns[field]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, field)
	}
	v.field, v.dir = field, dir
	return nil
}

// ToggleSort behaves like clicking a column header: the active column flips direction,
// any other column becomes active ascending.
func (v *View[T]) ToggleSort(field string) error {
	if _, ok := v.cfg.Columns[field]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, field)
	}
	if v.field == field && v.dir == Asc {
		v.dir = Desc
		return nil
	}
	v.field, v.dir = field, Asc
	return nil
}

// Sort returns the active sort column and direction.
func (v *View[T]) Sort() (string, Direction) { return v.field, v.dir }

// CurrentPage returns the page the view is on.
func (v *View[T]) CurrentPage() int { return v.page }

// Rows filters and sorts items. The input is not modified.
func (v *View[T]) Rows(items []T) []T {
	term := strings.ToLower(v.term)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if term == "" || v.cfg.Filter == nil || v.cfg.Filter(it, term) {
			out = append(out, it)
		}
	}

	get, ok := v.cfg.Columns[v.field]
	if !ok {
		return out
	}
	desc := v.dir == Desc
	sort.SliceStable(out, func(i, j int) bool {
		c := compare(get(out[i]), get(out[j]))
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// Page is one page of rows plus navigation state.
type Page[T any] struct {
	Rows       []T  `json:"rows"`
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// TotalPages computes the page count for total items, never less than 1.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return int(math.Ceil(float64(total) / float64(pageSize)))
}

// Paginate cuts rows down to the current page. serverTotal, when positive, is the item count
// reported by the API; otherwise the row count is used.
func (v *View[T]) Paginate(rows []T, serverTotal int) (Page[T], error) {
	total := len(rows)
	if serverTotal > 0 {
		total = serverTotal
	}
	pages := TotalPages(total, v.cfg.PageSize)
	if v.page < 1 || v.page > pages {
		return Page[T]{}, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, v.page, pages)
	}

	p := Page[T]{
		Page:       v.page,
		PageSize:   v.cfg.PageSize,
		Total:      total,
		TotalPages: pages,
		HasNext:    v.page < pages,
		HasPrev:    v.page > 1,
	}
	if v.cfg.Remote || v.cfg.PageSize <= 0 {
		p.Rows = rows
		return p, nil
	}
	start := (v.page - 1) * v.cfg.PageSize
	end := start + v.cfg.PageSize
	if start > len(rows) {
		start = len(rows)
	}
	if end > len(rows) {
		end = len(rows)
	}
	p.Rows = rows[start:end]
	return p, nil
}

// Next moves forward one page unless already on the last; it reports whether it moved.
func (v *View[T]) Next(total int) bool {
	if v.page >= TotalPages(total, v.cfg.PageSize) {
		return false
	}
	v.page++
	return true
}

// Prev moves back one page unless already on the first; it reports whether it moved.
func (v *View[T]) Prev() bool {
	if v.page <= 1 {
		return false
	}
	v.page--
	return true
}

// Goto jumps to page, which must lie within [1, total pages].
func (v *View[T]) Goto(page, total int) error {
	pages := TotalPages(total, v.cfg.PageSize)
	if page < 1 || page > pages {
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, page, pages)
	}
	v.page = page
	return nil
}

// Contains is the usual filter: a case-insensitive substring match on one text field.
func Contains[T any](field func(T) string) func(T, string) bool {
	return func(row T, term string) bool {
		return strings.Contains(strings.ToLower(field(row)), term)
	}
}
