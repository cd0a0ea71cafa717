package persistence

import "strings"

// sortColumns whitelists the columns a listing may be ordered by. Anything
// else falls back to created_at, so user input never reaches ORDER BY.
type sortColumns map[string]bool

var (
	partySortColumns      = sortColumns{"id": true, "created_at": true, "updated_at": true, "name": true}
	investmentSortColumns = sortColumns{
		"id": true, "created_at": true, "updated_at": true,
		"date": true, "purchase_amount": true, "type": true, "status": true,
	}
)

// column returns field when whitelisted, else created_at
func (s sortColumns) column(field string) string {
	if field = strings.TrimSpace(field); s[field] {
		return field
	}
	return "created_at"
}

// direction normalizes dir to ASC or DESC, defaulting to DESC
func direction(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// order builds the ORDER BY clause for a filter
func (s sortColumns) order(field, dir string) string {
	return s.column(field) + " " + direction(dir)
}
