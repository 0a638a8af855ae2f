package endpoint

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func paginatedRenters(t *testing.T, f *Factory, query string, sortBy []SortColumn) []map[string]any {
	t.Helper()
	res := rentersResource()
	res.SortBy = sortBy
	res.Modify = []Modifier{Paginate("externalRenter", "externalRenterID")}
	return decodeResults(t, do(t, mount(f, res), http.MethodGet, "/"+query, "", 1))
}

func seedNumberedRenters(t *testing.T, gdb *gorm.DB, n int) {
	seedOrgs(t, gdb)
	names := []string{"Walt", "Ada", "Guy", "Eva", "Ned"}
	for i := 1; i <= n; i++ {
		seed(t, gdb, "externalRenter", map[string]any{
			"externalRenterID": i,
			"organizationID":   1,
			"name":             names[(i-1)%len(names)],
		})
	}
}

func ids(rows []map[string]any) []int {
	out := make([]int, 0, len(rows))
	for _, row := range rows {
		out = append(out, int(row["externalRenterID"].(float64)))
	}
	return out
}

func TestPaginateLimitAndOffset(t *testing.T) {
	f, gdb := newTestFactory(t)
	seedNumberedRenters(t, gdb, 5)

	rows := paginatedRenters(t, f, "?limit=2&offset=1", nil)
	require.Equal(t, []int{2, 3}, ids(rows))
}

func TestPaginatePagesAreDisjointAndComplete(t *testing.T) {
	f, gdb := newTestFactory(t)
	seedNumberedRenters(t, gdb, 5)

	var all []int
	for offset := 0; offset < 5; offset += 2 {
		page := paginatedRenters(t, f, "?limit=2&offset="+strconv.Itoa(offset), nil)
		all = append(all, ids(page)...)
	}
	require.Equal(t, []int{1, 2, 3, 4, 5}, all)
}

func TestPaginateDefaultsToFullList(t *testing.T) {
	f, gdb := newTestFactory(t)
	seedNumberedRenters(t, gdb, 5)

	rows := paginatedRenters(t, f, "", nil)
	require.Equal(t, []int{1, 2, 3, 4, 5}, ids(rows))
}

func TestPaginateIgnoresMalformedValues(t *testing.T) {
	f, gdb := newTestFactory(t)
	seedNumberedRenters(t, gdb, 3)

	rows := paginatedRenters(t, f, "?limit=abc&offset=-4", nil)
	require.Equal(t, []int{1, 2, 3}, ids(rows))
}

func TestPaginateSortByTakesPrecedence(t *testing.T) {
	f, gdb := newTestFactory(t)
	seedOrgs(t, gdb)
	seed(t, gdb, "externalRenter",
		map[string]any{"externalRenterID": 1, "organizationID": 1, "name": "Zoe"},
		map[string]any{"externalRenterID": 2, "organizationID": 1, "name": "Ann"},
		map[string]any{"externalRenterID": 3, "organizationID": 1, "name": "Ann"},
	)

	rows := paginatedRenters(t, f, "", []SortColumn{{Column: "name"}})
	require.Equal(t, []int{2, 3, 1}, ids(rows))
}
