// Package listing applies dashboard table queries (search, filters, sort,
// pagination) to in-memory rows.
package listing

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var ErrUnknownColumn = errors.New("unknown column")

// Column describes how a table column is read
type Column[T any] struct {
	Key string
	// Text is used for search and equality filters. Nil means the column can't be filtered.
	Text func(T) string
	// Compare orders two rows by this column. Nil means the column can't be sorted.
	Compare func(a, b T) int
	// Searchable columns take part in free-text search
	Searchable bool
}

// Query is a table request
type Query struct {
	Search   string            `json:"search,omitempty"`
	Filters  map[string]string `json:"filters,omitempty"`
	SortBy   string            `json:"sortBy,omitempty"`
	Desc     bool              `json:"desc,omitempty"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// Page is one page of query results
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// Table binds columns to a row type
type Table[T any] struct {
	columns map[string]Column[T]
	order   []string
}

// NewTable creates a table from its columns
func NewTable[T any](cols ...Column[T]) *Table[T] {
	t := &Table[T]{columns: make(map[string]Column[T], len(cols))}
	for _, c := range cols {
		t.columns[c.Key] = c
		t.order = append(t.order, c.Key)
	}
	return t
}

// Apply filters, sorts and paginates rows. rows is not modified.
func (t *Table[T]) Apply(rows []T, q Query) (Page[T], error) {
	for key := range q.Filters {
		c, ok := t.columns[key]
		if !ok || c.Text == nil {
			return Page[T]{}, fmt.Errorf("filter %q: %w", key, ErrUnknownColumn)
		}
	}
	var sortCol Column[T]
	if q.SortBy != "" {
		c, ok := t.columns[q.SortBy]
		if !ok || c.Compare == nil {
			return Page[T]{}, fmt.Errorf("sort %q: %w", q.SortBy, ErrUnknownColumn)
		}
		sortCol = c
	}

	search := strings.ToLower(strings.TrimSpace(q.Search))
	matched := make([]T, 0, len(rows))
	for _, row := range rows {
		if t.matches(row, search, q.Filters) {
			matched = append(matched, row)
		}
	}

	if sortCol.Compare != nil {
		cmp := sortCol.Compare
		if q.Desc {
			asc := cmp
			cmp = func(a, b T) int { return asc(b, a) }
		}
		slices.SortStableFunc(matched, cmp)
	}

	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	total := len(matched)
	totalPages := (total + size - 1) / size
	start := total
	if page-1 < totalPages {
		start = (page - 1) * size
	}
	end := start + size
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      matched[start:end],
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
	}, nil
}

func (t *Table[T]) matches(row T, search string, filters map[string]string) bool {
	for key, want := range filters {
		if !strings.EqualFold(t.columns[key].Text(row), want) {
			return false
		}
	}
	if search == "" {
		return true
	}
	for _, key := range t.order {
		c := t.columns[key]
		if c.Searchable && c.Text != nil && strings.Contains(strings.ToLower(c.Text(row)), search) {
			return true
		}
	}
	return false
}

// ParseQuery reads a query from URL parameters:
// q, sort (prefix "-" for descending), page, pageSize, and filter.<column>.
func ParseQuery(v url.Values) (Query, error) {
	q := Query{Search: v.Get("q")}

	if s := v.Get("sort"); s != "" {
		q.Desc = strings.HasPrefix(s, "-")
		q.SortBy = strings.TrimPrefix(s, "-")
	}
	for _, p := range []struct {
		name string
		dst  *int
	}{{"page", &q.Page}, {"pageSize", &q.PageSize}} {
		raw := v.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Query{}, fmt.Errorf("invalid %s %q", p.name, raw)
		}
		*p.dst = n
	}
	for key, vals := range v {
		if col, ok := strings.CutPrefix(key, "filter."); ok && len(vals) > 0 && vals[0] != "" {
			if q.Filters == nil {
				q.Filters = make(map[string]string)
			}
			q.Filters[col] = vals[0]
		}
	}
	return q, nil
}

// CompareStrings orders case-insensitively
func CompareStrings(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
