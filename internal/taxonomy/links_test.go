package taxonomy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rentrackhq/rentrack-backend/pkg/db/testdb"
	pkgerrors "github.com/rentrackhq/rentrack-backend/pkg/errors"
)

func newLinkHarness(t *testing.T) (*LinkService, *gorm.DB) {
	t.Helper()
	gdb := testdb.Open(t)
	rows := []struct {
		table string
		row   map[string]any
	}{
		{"organization", map[string]any{"organizationID": 1, "name": "Org One"}},
		{"organization", map[string]any{"organizationID": 2, "name": "Org Two"}},
		{"category", map[string]any{"categoryID": 1, "organizationID": 1, "name": "Cameras"}},
		{"category", map[string]any{"categoryID": 2, "organizationID": 2, "name": "Other"}},
		{"customField", map[string]any{"customFieldID": 1, "organizationID": 1, "name": "Serial number"}},
	}
	for _, r := range rows {
		require.NoError(t, gdb.Table(r.table).Create(r.row).Error)
	}
	return NewLinkService(gdb), gdb
}

func linkCount(t *testing.T, gdb *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, gdb.Table("customFieldCategory").Count(&count).Error)
	return count
}

func TestLinkIsIdempotent(t *testing.T) {
	svc, gdb := newLinkHarness(t)

	require.NoError(t, svc.Link(context.Background(), 1, 1, 1))
	require.NoError(t, svc.Link(context.Background(), 1, 1, 1))
	require.EqualValues(t, 1, linkCount(t, gdb))
}

func TestLinkRejectsForeignCategory(t *testing.T) {
	svc, _ := newLinkHarness(t)

	err := svc.Link(context.Background(), 1, 1, 2)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestUnlinkAbsentLinkIsNotAnError(t *testing.T) {
	svc, gdb := newLinkHarness(t)

	require.NoError(t, svc.Unlink(context.Background(), 1, 1, 1))

	require.NoError(t, svc.Link(context.Background(), 1, 1, 1))
	require.NoError(t, svc.Unlink(context.Background(), 1, 1, 1))
	require.EqualValues(t, 0, linkCount(t, gdb))
}
