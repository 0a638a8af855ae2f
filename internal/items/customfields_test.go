package items

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rentrackhq/rentrack-backend/pkg/db/testdb"
	pkgerrors "github.com/rentrackhq/rentrack-backend/pkg/errors"
)

// seedFields adds three definitions on top of the base inventory: a global
// field, one linked to the Cameras category, and one linked only to Lights.
func seedFields(t *testing.T, gdb *gorm.DB) {
	seed(t, gdb, "customField",
		map[string]any{"customFieldID": 1, "organizationID": 1, "name": "Serial number"},
		map[string]any{"customFieldID": 2, "organizationID": 1, "name": "Sensor size"},
		map[string]any{"customFieldID": 3, "organizationID": 1, "name": "Beam angle"},
	)
	seed(t, gdb, "customFieldCategory",
		map[string]any{"customFieldID": 2, "categoryID": 1},
		map[string]any{"customFieldID": 3, "categoryID": 2},
	)
}

func newFieldHarness(t *testing.T) (*CustomFieldService, *gorm.DB) {
	t.Helper()
	gdb := testdb.Open(t)
	seedInventory(t, gdb)
	seedFields(t, gdb)
	return NewCustomFieldService(gdb), gdb
}

func TestResolveCombinesGlobalAndCategoryFields(t *testing.T) {
	svc, _ := newFieldHarness(t)

	fields, err := svc.Resolve(context.Background(), 1, "A1")
	require.NoError(t, err)
	require.Len(t, fields, 2)

	require.EqualValues(t, 1, fields[0]["customFieldID"])
	require.Equal(t, "Serial number", fields[0]["customFieldName"])
	require.Nil(t, fields[0]["categoryName"])
	require.Nil(t, fields[0]["value"])

	require.EqualValues(t, 2, fields[1]["customFieldID"])
	require.Equal(t, "Sensor size", fields[1]["customFieldName"])
	require.Equal(t, "Cameras", fields[1]["categoryName"])
	require.Nil(t, fields[1]["value"])
}

func TestResolveExcludesFieldsOfOtherCategories(t *testing.T) {
	svc, _ := newFieldHarness(t)

	fields, err := svc.Resolve(context.Background(), 1, "A1")
	require.NoError(t, err)
	for _, field := range fields {
		require.NotEqualValues(t, 3, field["customFieldID"])
	}
}

func TestResolveCarriesStoredValues(t *testing.T) {
	svc, gdb := newFieldHarness(t)
	seed(t, gdb, "itemCustomField",
		map[string]any{"barcode": "A1", "customFieldID": 2, "value": "Full frame"},
	)

	fields, err := svc.Resolve(context.Background(), 1, "A1")
	require.NoError(t, err)
	require.Nil(t, fields[0]["value"])
	require.Equal(t, "Full frame", fields[1]["value"])
}

func TestResolveValuesDoNotLeakAcrossItems(t *testing.T) {
	svc, gdb := newFieldHarness(t)
	seed(t, gdb, "itemCustomField",
		map[string]any{"barcode": "B2", "customFieldID": 1, "value": "SN-123"},
	)

	fields, err := svc.Resolve(context.Background(), 1, "A1")
	require.NoError(t, err)
	require.Nil(t, fields[0]["value"])
}

func TestResolveUnknownItem(t *testing.T) {
	svc, _ := newFieldHarness(t)

	_, err := svc.Resolve(context.Background(), 1, "NOPE")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestResolveScopedToOrganization(t *testing.T) {
	svc, _ := newFieldHarness(t)

	_, err := svc.Resolve(context.Background(), 2, "A1")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestSetValueUpserts(t *testing.T) {
	svc, gdb := newFieldHarness(t)

	value, err := svc.SetValue(context.Background(), 1, "A1", 1, "SN-001")
	require.NoError(t, err)
	require.Equal(t, "SN-001", value)

	value, err = svc.SetValue(context.Background(), 1, "A1", 1, "SN-002")
	require.NoError(t, err)
	require.Equal(t, "SN-002", value)

	var count int64
	require.NoError(t, gdb.Table("itemCustomField").
		Where(`"barcode" = ? AND "customFieldID" = ?`, "A1", 1).
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestSetValueUnknownField(t *testing.T) {
	svc, _ := newFieldHarness(t)

	_, err := svc.SetValue(context.Background(), 1, "A1", 99, "whatever")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
