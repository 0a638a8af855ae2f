package endpoint

import (
	"net/http"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Paginate reads limit and offset from the query string and applies them on
// top of a stable ordering by the resource's natural sort key. The key
// ordering is appended after any ordering already on the query, so declared
// sortBy columns take precedence and the key acts as a tiebreak; pages are
// then disjoint and reassemble the full result set in offset order.
//
// A missing or malformed limit means no limit; a missing or malformed offset
// means zero. Negative values are ignored rather than rejected.
func Paginate(table, key string) Modifier {
	return func(r *http.Request, q *gorm.DB) *gorm.DB {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Table: table, Name: key}})

		if limit, ok := queryInt(r, "limit"); ok {
			q = q.Limit(limit)
		}
		if offset, ok := queryInt(r, "offset"); ok {
			q = q.Offset(offset)
		}
		return q
	}
}

func queryInt(r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
