package utils

import "strings"

const DefaultPerPage = 15

// FilterRows keeps the rows whose searchable fields contain the search term,
// case-insensitively. A search term that is empty or whitespace-only matches
// everything. fields extracts the searchable field values of one row.
func FilterRows[T any](rows []T, search string, fields func(T) []string) []T {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return rows
	}

	filtered := make([]T, 0, len(rows))
	for _, row := range rows {
		for _, field := range fields(row) {
			if strings.Contains(strings.ToLower(field), term) {
				filtered = append(filtered, row)
				break
			}
		}
	}
	return filtered
}

// Paginate slices rows into fixed-size pages. Pages are 1-based; out-of-range
// pages return an empty slice. The second result is the total row count
// before paging.
func Paginate[T any](rows []T, page, perPage int) ([]T, int) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page <= 0 {
		page = 1
	}

	total := len(rows)
	start := (page - 1) * perPage
	if start >= total {
		return []T{}, total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return rows[start:end], total
}
