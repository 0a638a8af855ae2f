// Package rentals wires the rental resource. Rentals record who took which
// item out and when it came back; at most one open rental may exist per
// barcode, which the storage layer enforces with a partial unique index.
package rentals

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/rentrackhq/rentrack-backend/api/middleware"
	"github.com/rentrackhq/rentrack-backend/api/responses"
	"github.com/rentrackhq/rentrack-backend/internal/endpoint"
	pkgerrors "github.com/rentrackhq/rentrack-backend/pkg/errors"
	"github.com/rentrackhq/rentrack-backend/pkg/logger"
)

func messages() endpoint.Messages {
	return endpoint.Messages{
		Missing:  "Rental does not exist",
		Conflict: "Cannot rent item, item is already rented",
		Created:  "Created rental",
		Updated:  "Updated rental",
		Deleted:  "Deleted rental",
	}
}

// ListResource lists an organization's rentals, paginated.
func ListResource() endpoint.Resource {
	res := endpoint.NewResource("rental", "rentalID")
	res.Messages = messages()
	res.Modify = []endpoint.Modifier{endpoint.Paginate("rental", "rentalID")}
	return res
}

// Resource backs single reads and all mutations.
func Resource() endpoint.Resource {
	res := endpoint.NewResource("rental", "rentalID")
	res.Messages = messages()
	return res
}

// AttachUserID stamps the authenticated user onto the request body so a
// rental is always attributed to whoever created it, regardless of what the
// client sent.
func AttachUserID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body := map[string]any{}
			if r.Body != nil {
				dec := json.NewDecoder(r.Body)
				dec.UseNumber()
				if err := dec.Decode(&body); err != nil && err != io.EOF {
					responses.WriteError(r.Context(), logg, w,
						pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid JSON body"))
					return
				}
			}

			body["userID"] = middleware.UserIDFromContext(r.Context())
			raw, err := json.Marshal(body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to rebuild request body"))
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(raw))
			r.ContentLength = int64(len(raw))
			next.ServeHTTP(w, r)
		})
	}
}
