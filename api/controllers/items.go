package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rentrackhq/rentrack-backend/api/middleware"
	"github.com/rentrackhq/rentrack-backend/api/responses"
	"github.com/rentrackhq/rentrack-backend/api/validators"
	"github.com/rentrackhq/rentrack-backend/internal/items"
	pkgerrors "github.com/rentrackhq/rentrack-backend/pkg/errors"
	"github.com/rentrackhq/rentrack-backend/pkg/logger"
)

// ItemCustomFields resolves every field applicable to an item, with values.
func ItemCustomFields(svc *items.CustomFieldService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID := middleware.OrganizationIDFromContext(r.Context())
		if orgID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing"))
			return
		}

		fields, err := svc.Resolve(r.Context(), orgID, chi.URLParam(r, "barcode"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteResults(w, fields)
	}
}

type setFieldValueRequest struct {
	Value string `json:"value" validate:"required"`
}

// SetItemCustomField upserts the value for one (item, field) pair and echoes
// the stored value back.
func SetItemCustomField(svc *items.CustomFieldService, logg *logger.Logger) http.HandlerFunc {
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

		var req setFieldValueRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		value, err := svc.SetValue(r.Context(), orgID, chi.URLParam(r, "barcode"), fieldID, req.Value)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, map[string]any{
			"message": "Saved item custom field",
			"value":   value,
		})
	}
}
