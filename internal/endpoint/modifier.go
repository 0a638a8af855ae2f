package endpoint

import (
	"net/http"

	"gorm.io/gorm"
)

// Modifier is a pure query transformation. Modifiers compose by sequential
// application; each receives the request and the query built so far and
// returns the extended query. Ordering only matters when a later modifier
// depends on columns or joins introduced by an earlier one.
type Modifier func(r *http.Request, q *gorm.DB) *gorm.DB

// Apply threads one query through an ordered list of modifiers.
func Apply(r *http.Request, q *gorm.DB, mods []Modifier) *gorm.DB {
	for _, mod := range mods {
		if mod == nil {
			continue
		}
		q = mod(r, q)
	}
	return q
}

// Qualify renders a quoted table.column reference. The schema keeps the
// legacy camelCase identifiers, so every reference must be quoted explicitly.
func Qualify(table, column string) string {
	return `"` + table + `"."` + column + `"`
}
