// AngelaMos | 2026
// filter.go

package core

import (
	"fmt"
	"strings"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"

	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Sort is a validated ORDER BY request. Columns maps public field names
// to SQL expressions; nothing outside it reaches a query.
type Sort struct {
	By      string
	Order   string
	Columns map[string]string
	Default string
}

// Clause renders "ORDER BY <expr> <dir>" or fails with ErrInvalidInput.
func (s Sort) Clause() (string, error) {
	by := strings.ToLower(strings.TrimSpace(s.By))
	if by == "" {
		by = s.Default
	}

	expr, ok := s.Columns[by]
	if !ok {
		return "", fmt.Errorf("sort by %q: %w", s.By, ErrInvalidInput)
	}

	order := strings.ToLower(strings.TrimSpace(s.Order))
	switch order {
	case "":
		order = SortAsc
	case SortAsc, SortDesc:
	default:
		return "", fmt.Errorf("sort order %q: %w", s.Order, ErrInvalidInput)
	}

	return fmt.Sprintf("ORDER BY %s %s", expr, strings.ToUpper(order)), nil
}

type Page struct {
	Page     int
	PageSize int
}

func (p *Page) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Where accumulates AND-ed predicates with positional arguments.
type Where struct {
	conds []string
	args  []any
}

// Add appends cond, replacing each "?" with the next $n placeholder.
func (w *Where) Add(cond string, args ...any) {
	for _, arg := range args {
		w.args = append(w.args, arg)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

// ILike adds a case-insensitive substring match when value is non-empty.
func (w *Where) ILike(column, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	w.Add(column+" ILIKE ?", "%"+EscapeLike(value)+"%")
}

func (w *Where) Clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

func (w *Where) Args() []any {
	return w.args
}

// Next returns the placeholder index after the current arguments.
func (w *Where) Next() int {
	return len(w.args) + 1
}

func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
