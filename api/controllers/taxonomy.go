package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rentrackhq/rentrack-backend/api/middleware"
	"github.com/rentrackhq/rentrack-backend/api/responses"
	"github.com/rentrackhq/rentrack-backend/internal/taxonomy"
	pkgerrors "github.com/rentrackhq/rentrack-backend/pkg/errors"
	"github.com/rentrackhq/rentrack-backend/pkg/logger"
)

// LinkCustomFieldCategory attaches a custom field to a category.
func LinkCustomFieldCategory(svc *taxonomy.LinkService, logg *logger.Logger) http.HandlerFunc {
	return linkHandler(svc, logg, true)
}

// UnlinkCustomFieldCategory detaches a custom field from a category; absent
// links are treated as already removed.
func UnlinkCustomFieldCategory(svc *taxonomy.LinkService, logg *logger.Logger) http.HandlerFunc {
	return linkHandler(svc, logg, false)
}

func linkHandler(svc *taxonomy.LinkService, logg *logger.Logger, attach bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID := middleware.OrganizationIDFromContext(r.Context())
		if orgID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing"))
			return
		}

		fieldID, err := strconv.Atoi(chi.URLParam(r, "customFieldID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "customFieldID must be an integer"))
			return
		}
		categoryID, err := strconv.Atoi(chi.URLParam(r, "categoryID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "categoryID must be an integer"))
			return
		}

		if attach {
			if err := svc.Link(r.Context(), orgID, fieldID, categoryID); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteMessage(w, "Linked custom field to category", nil)
			return
		}

		if err := svc.Unlink(r.Context(), orgID, fieldID, categoryID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "Unlinked custom field from category", nil)
	}
}
