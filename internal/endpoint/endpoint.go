// Package endpoint turns declarative resource descriptors into full CRUD
// handler sets. Resource-specific behavior is expressed as query modifiers
// and message overrides; everything else (tenant scoping, error translation,
// response shaping) is uniform across resources.
package endpoint

import (
	"encoding/json"
	"io"
	"net/http"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rentrackhq/rentrack-backend/api/middleware"
	"github.com/rentrackhq/rentrack-backend/api/responses"
	"github.com/rentrackhq/rentrack-backend/pkg/db"
	pkgerrors "github.com/rentrackhq/rentrack-backend/pkg/errors"
	"github.com/rentrackhq/rentrack-backend/pkg/logger"
)

// SortColumn declares one ordering term for list endpoints.
type SortColumn struct {
	Column     string
	Descending bool
}

// Messages overrides the generic response texts per resource.
type Messages struct {
	Missing  string
	Conflict string
	Created  string
	Updated  string
	Deleted  string
}

// Resource describes a relational resource. The URL parameter carrying the
// row identifier is named after PrimaryKey, so a resource with primary key
// "barcode" is routed as /thing/{barcode}.
type Resource struct {
	Table      string
	PrimaryKey string

	// OrganizationScoped restricts every query to the caller's
	// organization. Resources opting out (derived views keyed by a
	// globally unique identifier) set it to false.
	OrganizationScoped bool

	// Modify runs on getAll, get, and delete queries, in order.
	Modify []Modifier

	// ResModify shapes the read-back row returned by create and update.
	ResModify []Modifier

	// SortBy orders list responses ahead of pagination.
	SortBy []SortColumn

	Messages Messages
}

// NewResource returns an organization-scoped descriptor with generic messages.
func NewResource(table, primaryKey string) Resource {
	return Resource{
		Table:              table,
		PrimaryKey:         primaryKey,
		OrganizationScoped: true,
		Messages: Messages{
			Missing: "Record does not exist",
			Created: "Created " + table,
			Updated: "Updated " + table,
			Deleted: "Deleted " + table,
		},
	}
}

// Handlers is the fixed set produced for a resource.
type Handlers struct {
	GetAll http.HandlerFunc
	Get    http.HandlerFunc
	Create http.HandlerFunc
	Update http.HandlerFunc
	Delete http.HandlerFunc
}

// Factory builds handlers bound to a shared connection.
type Factory struct {
	db   *gorm.DB
	logg *logger.Logger
}

func NewFactory(conn *gorm.DB, logg *logger.Logger) *Factory {
	return &Factory{db: conn, logg: logg}
}

// CRUD produces the full handler set for a resource.
func (f *Factory) CRUD(res Resource) Handlers {
	return Handlers{
		GetAll: f.GetAll(res),
		Get:    f.Get(res),
		Create: f.Create(res),
		Update: f.Update(res),
		Delete: f.Delete(res),
	}
}

// base starts a query on the resource table, scoped to the caller's
// organization unless the resource opts out.
func (f *Factory) base(r *http.Request, res Resource) (*gorm.DB, error) {
	q := f.db.WithContext(r.Context()).Table(res.Table)
	if res.OrganizationScoped {
		organizationID := middleware.OrganizationIDFromContext(r.Context())
		if organizationID == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing")
		}
		q = q.Where(Qualify(res.Table, "organizationID")+" = ?", organizationID)
	}
	return q, nil
}

// GetAll lists every visible row. An empty result is a 200 with an empty
// list, never an error.
func (f *Factory) GetAll(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := f.base(r, res)
		if err != nil {
			responses.WriteError(r.Context(), f.logg, w, err)
			return
		}

		for _, s := range res.SortBy {
			q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Column}, Desc: s.Descending})
		}
		q = Apply(r, q, res.Modify)

		rows := make([]map[string]any, 0)
		if err := q.Find(&rows).Error; err != nil {
			responses.WriteError(r.Context(), f.logg, w, f.translate(err, res.Messages))
			return
		}
		responses.WriteResults(w, rows)
	}
}

// Get fetches one row by primary key.
func (f *Factory) Get(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := f.base(r, res)
		if err != nil {
			responses.WriteError(r.Context(), f.logg, w, err)
			return
		}

		q = q.Where(Qualify(res.Table, res.PrimaryKey)+" = ?", urlParam(r, res.PrimaryKey))
		q = Apply(r, q, res.Modify)

		row := map[string]any{}
		if err := q.Take(&row).Error; err != nil {
			responses.WriteError(r.Context(), f.logg, w, f.translate(err, res.Messages))
			return
		}
		responses.WriteJSON(w, http.StatusOK, row)
	}
}

// Create inserts the request body as a row. The caller's organization is
// attached unless the body overrides it. Constraint violations surface as
// conflicts with the resource's configured message.
func (f *Factory) Create(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := decodeBody(r)
		if err != nil {
			responses.WriteError(r.Context(), f.logg, w, err)
			return
		}

		if res.OrganizationScoped {
			organizationID := middleware.OrganizationIDFromContext(r.Context())
			if organizationID == 0 {
				responses.WriteError(r.Context(), f.logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing"))
				return
			}
			if _, ok := body["organizationID"]; !ok {
				body["organizationID"] = organizationID
			}
		}

		q := f.db.WithContext(r.Context()).Table(res.Table)
		if _, ok := body[res.PrimaryKey]; !ok {
			// Serial keys come back via RETURNING so the response can
			// carry the new id.
			q = q.Clauses(clause.Returning{Columns: []clause.Column{{Name: res.PrimaryKey}}})
		}
		if err := q.Create(body).Error; err != nil {
			responses.WriteError(r.Context(), f.logg, w, f.translate(err, res.Messages))
			return
		}

		id := body[res.PrimaryKey]
		if len(res.ResModify) > 0 {
			row, err := f.readback(r, res, id)
			if err != nil {
				responses.WriteError(r.Context(), f.logg, w, err)
				return
			}
			responses.WriteJSON(w, http.StatusOK, row)
			return
		}
		responses.WriteMessage(w, res.Messages.Created, id)
	}
}

// Update applies a partial update by primary key; body keys not present are
// left unchanged.
func (f *Factory) Update(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := decodeBody(r)
		if err != nil {
			responses.WriteError(r.Context(), f.logg, w, err)
			return
		}
		if len(body) == 0 {
			responses.WriteError(r.Context(), f.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update"))
			return
		}

		q, err := f.base(r, res)
		if err != nil {
			responses.WriteError(r.Context(), f.logg, w, err)
			return
		}

		id := urlParam(r, res.PrimaryKey)
		result := q.Where(Qualify(res.Table, res.PrimaryKey)+" = ?", id).Updates(body)
		if result.Error != nil {
			responses.WriteError(r.Context(), f.logg, w, f.translate(result.Error, res.Messages))
			return
		}
		if result.RowsAffected == 0 {
			responses.WriteError(r.Context(), f.logg, w, pkgerrors.New(pkgerrors.CodeNotFound, f.missing(res.Messages)))
			return
		}

		if len(res.ResModify) > 0 {
			// The primary key itself may have been updated.
			readbackID := any(id)
			if v, ok := body[res.PrimaryKey]; ok {
				readbackID = v
			}
			row, err := f.readback(r, res, readbackID)
			if err != nil {
				responses.WriteError(r.Context(), f.logg, w, err)
				return
			}
			responses.WriteJSON(w, http.StatusOK, row)
			return
		}
		responses.WriteMessage(w, res.Messages.Updated, nil)
	}
}

// Delete removes a row by primary key. Deleting an absent row is success
// with no content, by design; repeated deletes are safe.
func (f *Factory) Delete(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := f.base(r, res)
		if err != nil {
			responses.WriteError(r.Context(), f.logg, w, err)
			return
		}

		q = q.Where(Qualify(res.Table, res.PrimaryKey)+" = ?", urlParam(r, res.PrimaryKey))
		q = Apply(r, q, res.Modify)

		result := q.Delete(nil)
		if result.Error != nil {
			responses.WriteError(r.Context(), f.logg, w, f.translate(result.Error, res.Messages))
			return
		}
		if result.RowsAffected == 0 {
			responses.WriteNoContent(w)
			return
		}
		responses.WriteMessage(w, res.Messages.Deleted, nil)
	}
}

func (f *Factory) readback(r *http.Request, res Resource, id any) (map[string]any, error) {
	q, err := f.base(r, res)
	if err != nil {
		return nil, err
	}
	q = q.Where(Qualify(res.Table, res.PrimaryKey)+" = ?", id)
	q = Apply(r, q, res.ResModify)

	row := map[string]any{}
	if err := q.Take(&row).Error; err != nil {
		return nil, f.translate(err, res.Messages)
	}
	return row, nil
}

// translate funnels store errors through the central translation point and
// swaps in the resource's configured user-facing messages.
func (f *Factory) translate(err error, msgs Messages) *pkgerrors.Error {
	typed := db.Translate(err)
	if typed == nil {
		return nil
	}
	switch typed.Code() {
	case pkgerrors.CodeNotFound:
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, f.missing(msgs))
	case pkgerrors.CodeConflict:
		if msgs.Conflict != "" {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgs.Conflict)
		}
	}
	return typed
}

func (f *Factory) missing(msgs Messages) string {
	if msgs.Missing != "" {
		return msgs.Missing
	}
	return "Record does not exist"
}

func decodeBody(r *http.Request) (map[string]any, error) {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	body := map[string]any{}
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&body); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").WithDetails(map[string]any{"error": err.Error()})
	}
	return body, nil
}
