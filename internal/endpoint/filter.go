package endpoint

import (
	"net/http"
	"sort"
	"strconv"

	"gorm.io/gorm"
)

// Filter maps whitelisted query-string parameters to column equality
// predicates. Parameters absent from the request leave the query untouched;
// query parameters outside the whitelist are silently ignored so older
// clients combining stale filters with pagination keep working.
func Filter(params map[string]string) Modifier {
	// Deterministic application order keeps generated SQL stable.
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(r *http.Request, q *gorm.DB) *gorm.DB {
		query := r.URL.Query()
		for _, name := range names {
			if !query.Has(name) {
				continue
			}
			q = q.Where(params[name]+" = ?", filterValue(query.Get(name)))
		}
		return q
	}
}

// filterValue binds numeric parameters as integers. Most filter columns are
// identifiers or derived flags, and computed columns do not coerce text
// operands on every engine.
func filterValue(raw string) any {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	return raw
}
