// Package taxonomy wires the brand, model, and category resources items are
// classified under, plus the custom field definitions and their category
// links.
package taxonomy

import "github.com/rentrackhq/rentrack-backend/internal/endpoint"

// Brands group an organization's models.
func Brands() endpoint.Resource {
	res := endpoint.NewResource("brand", "brandID")
	res.Messages = endpoint.Messages{
		Missing: "Brand does not exist",
		Created: "Created brand",
		Updated: "Updated brand",
		Deleted: "Deleted brand",
	}
	res.SortBy = []endpoint.SortColumn{{Column: "name"}}
	return res
}

// Models describe a concrete product under a brand.
func Models() endpoint.Resource {
	res := endpoint.NewResource("model", "modelID")
	res.Messages = endpoint.Messages{
		Missing: "Model does not exist",
		Created: "Created model",
		Updated: "Updated model",
		Deleted: "Deleted model",
	}
	res.SortBy = []endpoint.SortColumn{{Column: "name"}}
	return res
}

// Categories group an organization's items and anchor custom fields.
func Categories() endpoint.Resource {
	res := endpoint.NewResource("category", "categoryID")
	res.Messages = endpoint.Messages{
		Missing: "Category does not exist",
		Created: "Created category",
		Updated: "Updated category",
		Deleted: "Deleted category",
	}
	res.SortBy = []endpoint.SortColumn{{Column: "name"}}
	return res
}

// CustomFields are field definitions; a field with no category links applies
// to every item in the organization.
func CustomFields() endpoint.Resource {
	res := endpoint.NewResource("customField", "customFieldID")
	res.Messages = endpoint.Messages{
		Missing: "Custom field does not exist",
		Created: "Created custom field",
		Updated: "Updated custom field",
		Deleted: "Deleted custom field",
	}
	res.SortBy = []endpoint.SortColumn{{Column: "name"}}
	return res
}
