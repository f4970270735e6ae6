package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct {
	Name  string
	Email string
}

func rowFields(r row) []string {
	return []string{r.Name, r.Email}
}

func TestFilterRows(t *testing.T) {
	rows := []row{
		{Name: "Alice Smith", Email: "alice@example.com"},
		{Name: "Bob Jones", Email: "bob@example.com"},
		{Name: "Carol Smith", Email: "carol@other.net"},
	}

	filtered := FilterRows(rows, "smith", rowFields)
	assert.Len(t, filtered, 2)

	// Matching is case-insensitive and trims surrounding whitespace.
	filtered = FilterRows(rows, "  SMITH ", rowFields)
	assert.Len(t, filtered, 2)

	filtered = FilterRows(rows, "other.net", rowFields)
	assert.Len(t, filtered, 1)
	assert.Equal(t, "Carol Smith", filtered[0].Name)

	filtered = FilterRows(rows, "zzz", rowFields)
	assert.Empty(t, filtered)
}

func TestFilterRowsBlankSearchMatchesEverything(t *testing.T) {
	rows := []row{{Name: "Alice"}, {Name: "Bob"}}

	assert.Len(t, FilterRows(rows, "", rowFields), 2)
	assert.Len(t, FilterRows(rows, "   ", rowFields), 2)
	assert.Len(t, FilterRows(rows, "\t\n", rowFields), 2)
}

func TestPaginate(t *testing.T) {
	rows := make([]int, 0, 35)
	for i := 1; i <= 35; i++ {
		rows = append(rows, i)
	}

	page, total := Paginate(rows, 1, 15)
	assert.Equal(t, 35, total)
	assert.Len(t, page, 15)
	assert.Equal(t, 1, page[0])

	page, _ = Paginate(rows, 3, 15)
	assert.Len(t, page, 5)
	assert.Equal(t, 31, page[0])

	// Out-of-range pages are empty, not an error.
	page, total = Paginate(rows, 4, 15)
	assert.Empty(t, page)
	assert.Equal(t, 35, total)
}

func TestPaginateDefaults(t *testing.T) {
	rows := make([]int, 20)

	// page <= 0 falls back to page 1, perPage <= 0 falls back to the default.
	page, _ := Paginate(rows, 0, 0)
	assert.Len(t, page, DefaultPerPage)

	page, _ = Paginate(rows, -2, -1)
	assert.Len(t, page, DefaultPerPage)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "24.60", FormatAmount(24.6))
	assert.Equal(t, "0.00", FormatAmount(0))
	assert.Equal(t, "1,500.00", FormatAmount(1500))
	assert.Equal(t, "1,234,567.89", FormatAmount(1234567.89))
	assert.Equal(t, "-1,500.25", FormatAmount(-1500.25))
}
