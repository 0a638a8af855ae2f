package endpoint

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func renterFilter() Modifier {
	return Filter(map[string]string{
		"name":  Qualify("externalRenter", "name"),
		"email": Qualify("externalRenter", "email"),
	})
}

func filteredRenters(t *testing.T, f *Factory, query string) []map[string]any {
	t.Helper()
	res := rentersResource()
	res.Modify = []Modifier{renterFilter()}
	return decodeResults(t, do(t, mount(f, res), http.MethodGet, "/"+query, "", 1))
}

func seedRenters(t *testing.T, gdb *gorm.DB) {
	seedOrgs(t, gdb)
	seed(t, gdb, "externalRenter",
		map[string]any{"externalRenterID": 1, "organizationID": 1, "name": "Alice", "email": "alice@example.com"},
		map[string]any{"externalRenterID": 2, "organizationID": 1, "name": "Bob", "email": "bob@example.com"},
		map[string]any{"externalRenterID": 3, "organizationID": 1, "name": "Alice", "email": "alice2@example.com"},
	)
}

func TestFilterAppliesWhitelistedParams(t *testing.T) {
	f, gdb := newTestFactory(t)
	seedRenters(t, gdb)

	rows := filteredRenters(t, f, "?name=Alice")
	require.Len(t, rows, 2)
	for _, row := range rows {
		require.Equal(t, "Alice", row["name"])
	}
}

func TestFilterCombinesParamsConjunctively(t *testing.T) {
	f, gdb := newTestFactory(t)
	seedRenters(t, gdb)

	rows := filteredRenters(t, f, "?name=Alice&email=alice2@example.com")
	require.Len(t, rows, 1)
	require.EqualValues(t, 3, rows[0]["externalRenterID"])
}

func TestFilterIgnoresUnknownParams(t *testing.T) {
	f, gdb := newTestFactory(t)
	seedRenters(t, gdb)

	rows := filteredRenters(t, f, "?shoeSize=42")
	require.Len(t, rows, 3)
}

func TestFilterAbsentParamsLeaveQueryUntouched(t *testing.T) {
	f, gdb := newTestFactory(t)
	seedRenters(t, gdb)

	rows := filteredRenters(t, f, "")
	require.Len(t, rows, 3)
}

func TestFilterNoMatchesIsEmptyList(t *testing.T) {
	f, gdb := newTestFactory(t)
	seedRenters(t, gdb)

	rows := filteredRenters(t, f, "?name=Nonexistent")
	require.Empty(t, rows)
}
