package items

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rentrackhq/rentrack-backend/pkg/db"
	pkgerrors "github.com/rentrackhq/rentrack-backend/pkg/errors"
)

// resolveFieldsSQL assembles the fields applicable to one item. The first
// branch walks the item's category into its linked fields; the second picks
// up organization-wide fields, which are the ones linked to no category at
// all. Values join on the barcode inside the ON clause so an unset field
// still surfaces with a null value.
const resolveFieldsSQL = `
SELECT "customField"."customFieldID" AS "customFieldID",
       "customField"."name" AS "customFieldName",
       "customField"."organizationID" AS "organizationID",
       "category"."name" AS "categoryName",
       "itemCustomField"."value" AS "value"
  FROM "customField"
 INNER JOIN "customFieldCategory"
    ON "customFieldCategory"."customFieldID" = "customField"."customFieldID"
 INNER JOIN "category"
    ON "category"."categoryID" = "customFieldCategory"."categoryID"
 INNER JOIN "item"
    ON "item"."categoryID" = "category"."categoryID"
  LEFT JOIN "itemCustomField"
    ON "itemCustomField"."customFieldID" = "customField"."customFieldID"
   AND "itemCustomField"."barcode" = "item"."barcode"
 WHERE "item"."barcode" = ?
   AND "customField"."organizationID" = ?
UNION
SELECT "customField"."customFieldID" AS "customFieldID",
       "customField"."name" AS "customFieldName",
       "customField"."organizationID" AS "organizationID",
       NULL AS "categoryName",
       "itemCustomField"."value" AS "value"
  FROM "customField"
  LEFT JOIN "itemCustomField"
    ON "itemCustomField"."customFieldID" = "customField"."customFieldID"
   AND "itemCustomField"."barcode" = ?
 WHERE "customField"."organizationID" = ?
   AND NOT EXISTS (
         SELECT 1
           FROM "customFieldCategory"
          WHERE "customFieldCategory"."customFieldID" = "customField"."customFieldID"
       )
 ORDER BY "customFieldID"`

// CustomFieldService resolves and stores per-item custom field values.
type CustomFieldService struct {
	db *gorm.DB
}

func NewCustomFieldService(gdb *gorm.DB) *CustomFieldService {
	return &CustomFieldService{db: gdb}
}

// Resolve returns every custom field applicable to the item, each with its
// stored value or null. The item must belong to the organization.
func (s *CustomFieldService) Resolve(ctx context.Context, organizationID int, barcode string) ([]map[string]any, error) {
	if err := s.requireItem(ctx, organizationID, barcode); err != nil {
		return nil, err
	}

	rows := []map[string]any{}
	err := s.db.WithContext(ctx).
		Raw(resolveFieldsSQL, barcode, organizationID, barcode, organizationID).
		Scan(&rows).Error
	if err != nil {
		return nil, db.Translate(err)
	}
	return rows, nil
}

// SetValue writes the value for one (item, field) pair, inserting or
// overwriting as needed, and returns the stored value.
func (s *CustomFieldService) SetValue(ctx context.Context, organizationID int, barcode string, customFieldID int, value string) (any, error) {
	if err := s.requireItem(ctx, organizationID, barcode); err != nil {
		return nil, err
	}
	if err := s.requireField(ctx, organizationID, customFieldID); err != nil {
		return nil, err
	}

	row := map[string]any{
		"barcode":       barcode,
		"customFieldID": customFieldID,
		"value":         value,
	}
	err := s.db.WithContext(ctx).
		Table("itemCustomField").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "barcode"}, {Name: "customFieldID"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(row).Error
	if err != nil {
		return nil, db.Translate(err)
	}

	stored := map[string]any{}
	err = s.db.WithContext(ctx).
		Table("itemCustomField").
		Select(`"value"`).
		Where(`"barcode" = ? AND "customFieldID" = ?`, barcode, customFieldID).
		Take(&stored).Error
	if err != nil {
		return nil, db.Translate(err)
	}
	return stored["value"], nil
}

func (s *CustomFieldService) requireItem(ctx context.Context, organizationID int, barcode string) error {
	var count int64
	err := s.db.WithContext(ctx).
		Table("item").
		Where(`"barcode" = ? AND "organizationID" = ?`, barcode, organizationID).
		Count(&count).Error
	if err != nil {
		return db.Translate(err)
	}
	if count == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Item does not exist")
	}
	return nil
}

func (s *CustomFieldService) requireField(ctx context.Context, organizationID int, customFieldID int) error {
	var count int64
	err := s.db.WithContext(ctx).
		Table("customField").
		Where(`"customFieldID" = ? AND "organizationID" = ?`, customFieldID, organizationID).
		Count(&count).Error
	if err != nil {
		return db.Translate(err)
	}
	if count == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Custom field does not exist")
	}
	return nil
}
