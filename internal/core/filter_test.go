// AngelaMos | 2026
// filter_test.go

package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testColumns = map[string]string{
	"name":       "u.name",
	"created_at": "u.created_at",
}

func TestSortClause(t *testing.T) {
	tests := []struct {
		name    string
		by      string
		order   string
		want    string
		wantErr bool
	}{
		{name: "defaults", want: "ORDER BY u.name ASC"},
		{name: "desc", by: "created_at", order: "desc", want: "ORDER BY u.created_at DESC"},
		{name: "case insensitive", by: "NAME", order: "DESC", want: "ORDER BY u.name DESC"},
		{name: "unknown column", by: "password_hash", wantErr: true},
		{name: "injection attempt", by: "name; DROP TABLE users", wantErr: true},
		{name: "bad order", by: "name", order: "sideways", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sort{
				By:      tt.by,
				Order:   tt.order,
				Columns: testColumns,
				Default: "name",
			}.Clause()

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWhere(t *testing.T) {
	var w Where
	assert.Equal(t, "", w.Clause())
	assert.Equal(t, 1, w.Next())

	w.ILike("name", "  ")
	w.ILike("name", "50%_off")
	w.Add("role = ?", "admin")
	w.Add("created_at BETWEEN ? AND ?", 1, 2)

	assert.Equal(t,
		"WHERE name ILIKE $1 AND role = $2 AND created_at BETWEEN $3 AND $4",
		w.Clause(),
	)
	assert.Equal(t, []any{`%50\%\_off%`, "admin", 1, 2}, w.Args())
	assert.Equal(t, 5, w.Next())
}

func TestPageNormalize(t *testing.T) {
	p := Page{Page: 0, PageSize: 1000}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxPageSize, p.PageSize)
	assert.Equal(t, 0, p.Offset())

	p = Page{Page: 3, PageSize: 0}
	p.Normalize()
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, 40, p.Offset())
}
