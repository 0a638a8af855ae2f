// Package items wires the item resource: detail joins against model, brand,
// category, and derived availability, plus the custom-field views.
package items

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/rentrackhq/rentrack-backend/internal/endpoint"
)

var filterColumns = map[string]string{
	"brandID":    endpoint.Qualify("brand", "brandID"),
	"modelID":    endpoint.Qualify("model", "modelID"),
	"categoryID": endpoint.Qualify("category", "categoryID"),
	"available":  endpoint.Qualify("itemStatus", "available"),
}

// withDetails joins the display columns onto item rows: model and brand
// names, category name, and derived availability.
func withDetails(_ *http.Request, q *gorm.DB) *gorm.DB {
	return q.
		Select(`"item".*, "model"."name" AS "model", "model"."brandID", "brand"."name" AS "brand", "category"."name" AS "category", "itemStatus"."available" AS "available"`).
		Joins(`LEFT JOIN "model" ON "item"."modelID" = "model"."modelID"`).
		Joins(`LEFT JOIN "brand" ON "model"."brandID" = "brand"."brandID"`).
		Joins(`LEFT JOIN "category" ON "item"."categoryID" = "category"."categoryID"`).
		Joins(`LEFT JOIN "itemStatus" ON "item"."barcode" = "itemStatus"."barcode"`)
}

func messages() endpoint.Messages {
	return endpoint.Messages{
		Missing: "Item does not exist",
		Created: "Created item",
		Updated: "Updated item",
		Deleted: "Deleted item",
	}
}

// ListResource lists items with display columns, whitelisted filters, and
// pagination. Lists sort by brand then model, ascending, with the barcode as
// tiebreak.
func ListResource() endpoint.Resource {
	res := endpoint.NewResource("item", "barcode")
	res.Messages = messages()
	res.SortBy = []endpoint.SortColumn{{Column: "brand"}, {Column: "model"}}
	res.Modify = []endpoint.Modifier{
		withDetails,
		endpoint.Filter(filterColumns),
		endpoint.Paginate("item", "barcode"),
	}
	return res
}

// DetailResource fetches a single item with display columns.
func DetailResource() endpoint.Resource {
	res := endpoint.NewResource("item", "barcode")
	res.Messages = messages()
	res.Modify = []endpoint.Modifier{withDetails}
	return res
}

// WriteResource backs create, update, and delete; mutations run against the
// bare table, and create/update responses read back the detailed row.
func WriteResource() endpoint.Resource {
	res := endpoint.NewResource("item", "barcode")
	res.Messages = messages()
	res.ResModify = []endpoint.Modifier{withDetails}
	return res
}

// StatusResource exposes derived availability. The view is keyed by the
// globally unique barcode, so it opts out of organization scoping.
func StatusResource() endpoint.Resource {
	res := endpoint.NewResource("itemStatus", "barcode")
	res.OrganizationScoped = false
	res.Messages.Missing = "Item does not exist"
	return res
}

// RentalHistoryResource lists an item's rentals, paginated.
func RentalHistoryResource() endpoint.Resource {
	res := endpoint.NewResource("rental", "rentalID")
	res.Messages.Missing = "Rental does not exist"
	res.Modify = []endpoint.Modifier{
		forRentalBarcode,
		endpoint.Paginate("rental", "rentalID"),
	}
	return res
}

// ActiveRentalResource fetches the item's current unreturned rental; 404
// when the item is available.
func ActiveRentalResource() endpoint.Resource {
	res := endpoint.NewResource("rental", "barcode")
	res.Messages.Missing = "Item has no active rental"
	res.Modify = []endpoint.Modifier{withActiveRental}
	return res
}

func forRentalBarcode(r *http.Request, q *gorm.DB) *gorm.DB {
	return q.Where(endpoint.Qualify("rental", "barcode")+" = ?", chi.URLParam(r, "barcode"))
}

func withActiveRental(_ *http.Request, q *gorm.DB) *gorm.DB {
	return q.
		Where(endpoint.Qualify("rental", "returnDate") + " IS NULL").
		Order(endpoint.Qualify("rental", "startDate"))
}

// CustomFieldValueResource backs the single-value read and the idempotent
// unset. Rows are keyed by (barcode, customFieldID); the barcode comes from
// the route, so the pair is fully determined.
func CustomFieldValueResource() endpoint.Resource {
	res := endpoint.NewResource("itemCustomField", "customFieldID")
	res.OrganizationScoped = false
	res.Messages = endpoint.Messages{
		Missing: "No value set for this custom field",
		Deleted: "Deleted item custom field",
	}
	res.Modify = []endpoint.Modifier{forValueBarcode}
	return res
}

func forValueBarcode(r *http.Request, q *gorm.DB) *gorm.DB {
	return q.Where(endpoint.Qualify("itemCustomField", "barcode")+" = ?", chi.URLParam(r, "barcode"))
}
