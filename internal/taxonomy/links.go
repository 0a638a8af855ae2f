package taxonomy

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rentrackhq/rentrack-backend/pkg/db"
	pkgerrors "github.com/rentrackhq/rentrack-backend/pkg/errors"
)

// LinkService manages the category links of custom field definitions. The
// link table is keyed by (customFieldID, categoryID), so writes are
// idempotent in both directions.
type LinkService struct {
	db *gorm.DB
}

func NewLinkService(gdb *gorm.DB) *LinkService {
	return &LinkService{db: gdb}
}

// Link attaches a custom field to a category. Both must belong to the
// organization; linking twice is a no-op.
func (s *LinkService) Link(ctx context.Context, organizationID, customFieldID, categoryID int) error {
	if err := s.requireOwned(ctx, organizationID, "customField", "customFieldID", customFieldID, "Custom field does not exist"); err != nil {
		return err
	}
	if err := s.requireOwned(ctx, organizationID, "category", "categoryID", categoryID, "Category does not exist"); err != nil {
		return err
	}

	row := map[string]any{
		"customFieldID": customFieldID,
		"categoryID":    categoryID,
	}
	err := s.db.WithContext(ctx).
		Table("customFieldCategory").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
	if err != nil {
		return db.Translate(err)
	}
	return nil
}

// Unlink removes the link if present; absence is not an error.
func (s *LinkService) Unlink(ctx context.Context, organizationID, customFieldID, categoryID int) error {
	if err := s.requireOwned(ctx, organizationID, "customField", "customFieldID", customFieldID, "Custom field does not exist"); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).
		Table("customFieldCategory").
		Where(`"customFieldID" = ? AND "categoryID" = ?`, customFieldID, categoryID).
		Delete(nil).Error
	if err != nil {
		return db.Translate(err)
	}
	return nil
}

func (s *LinkService) requireOwned(ctx context.Context, organizationID int, table, key string, id int, missing string) error {
	var count int64
	err := s.db.WithContext(ctx).
		Table(table).
		Where(`"`+key+`" = ? AND "organizationID" = ?`, id, organizationID).
		Count(&count).Error
	if err != nil {
		return db.Translate(err)
	}
	if count == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, missing)
	}
	return nil
}
