// Package renters wires the external renter resource, the directory of
// non-user borrowers rentals can be attributed to.
package renters

import "github.com/rentrackhq/rentrack-backend/internal/endpoint"

// Resource backs every external renter operation.
func Resource() endpoint.Resource {
	res := endpoint.NewResource("externalRenter", "externalRenterID")
	res.Messages = endpoint.Messages{
		Missing: "External renter does not exist",
		Created: "Created external renter",
		Updated: "Updated external renter",
		Deleted: "Deleted external renter",
	}
	res.SortBy = []endpoint.SortColumn{{Column: "name"}}
	return res
}
